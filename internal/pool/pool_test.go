package pool

import (
	"testing"
	"time"

	"github.com/firefly-engineering/sandpool-ctl/internal/record"
	"github.com/firefly-engineering/sandpool-ctl/internal/store"
)

// baseTime is the fixed instant fake clocks start at across pool tests.
var baseTime = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func ciKey(pool, branch, name string) string {
	return record.Key{Pool: pool, Branch: branch, Discriminator: name, Kind: record.KindCIPool}.String()
}

func devKey(pool, branch, name string) string {
	return record.Key{Pool: pool, Branch: branch, Discriminator: name, Kind: record.KindDeveloper}.String()
}

func mustSeed(t *testing.T, m *store.Memory, key string, sb *record.Sandbox) {
	t.Helper()
	value, err := sb.Encode()
	if err != nil {
		t.Fatalf("failed to encode record: %v", err)
	}
	m.Seed(key, value)
}

func mustSeedAt(t *testing.T, m *store.Memory, key string, sb *record.Sandbox, createdAt time.Time) {
	t.Helper()
	value, err := sb.Encode()
	if err != nil {
		t.Fatalf("failed to encode record: %v", err)
	}
	m.SeedAt(key, value, createdAt)
}

func mustGet(t *testing.T, m *store.Memory, key string) *record.Sandbox {
	t.Helper()
	entry, ok := m.Get(key)
	if !ok {
		t.Fatalf("record %s not found in store", key)
	}
	sb, err := record.Decode(entry.Value)
	if err != nil {
		t.Fatalf("failed to decode record %s: %v", key, err)
	}
	return sb
}
