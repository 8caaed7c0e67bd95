package store

import (
	"context"
	"time"
)

// Entry is one physical storage unit: a named opaque value plus the
// instant the store first created it.
type Entry struct {
	Key       string
	Value     []byte
	CreatedAt time.Time
}

// Store is the record store contract shared by every component.
//
// Write is an unconditional create-or-update overwrite; no atomic
// read-modify-write is available. List returns a snapshot of entries
// whose keys match the given anchored regular expression; matching is
// by naming convention, not indexed query.
//
// Implementations signal failures through the errors package taxonomy:
// an unreachable or rate-limited store yields KindStoreUnavailable, an
// absent entry on Read yields KindNotFound.
type Store interface {
	List(ctx context.Context, pattern string) ([]Entry, error)
	Read(ctx context.Context, key string) (Entry, error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
