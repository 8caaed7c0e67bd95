package pool

import (
	"context"
	"time"

	"github.com/firefly-engineering/sandpool-ctl/internal/logging"
	"github.com/firefly-engineering/sandpool-ctl/internal/record"
	"github.com/firefly-engineering/sandpool-ctl/internal/store"
)

// Row is one normalized record in a status snapshot. Numeric instants
// are rendered as RFC 3339 strings; domain and type are derived from
// the key naming convention.
type Row struct {
	Name      string `json:"name"`
	Domain    string `json:"domain"`
	Branch    string `json:"branch"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	IsActive  bool   `json:"isActive"`
	Issue     string `json:"issue,omitempty"`
	Requester string `json:"requester,omitempty"`
	Email     string `json:"email,omitempty"`

	// RequestedAt is the instant the store entry itself was created,
	// which predates provisioning completion.
	RequestedAt string `json:"requested_at"`
	CreatedAt   string `json:"created_at,omitempty"`
	AssignedAt  string `json:"assigned_at,omitempty"`

	IsExtended bool `json:"isExtended,omitempty"`
	IsImmortal bool `json:"isImmortal,omitempty"`
	NeedsAdmin bool `json:"needsAdmin,omitempty"`
}

// Snapshot is a read-only projection of every record, split by kind.
type Snapshot struct {
	Developer []Row `json:"developerSandboxes"`
	CI        []Row `json:"ciSandboxes"`
}

// Reporter projects the record store into normalized lists for
// dashboards and audits. It never mutates state.
type Reporter struct {
	Store store.Store
}

// Snapshot lists every record of either kind and normalizes it.
// Corrupt records are skipped with a log line, never repaired.
func (r *Reporter) Snapshot(ctx context.Context) (*Snapshot, error) {
	entries, err := r.Store.List(ctx, record.AnyPattern())
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	for _, e := range entries {
		key, ok := record.ParseKey(e.Key)
		if !ok {
			continue
		}
		sb, err := record.Decode(e.Value)
		if err != nil {
			logging.Warn("skipping corrupt record", "key", e.Key, "error", err)
			continue
		}

		row := Row{
			Name:        sb.Name,
			Domain:      key.Pool,
			Branch:      key.Branch,
			Type:        "CI",
			Status:      string(sb.Status),
			IsActive:    bool(sb.IsActive),
			Issue:       sb.Issue,
			Requester:   sb.Requester,
			Email:       sb.Email,
			RequestedAt: e.CreatedAt.UTC().Format(time.RFC3339),
			IsExtended:  bool(sb.IsExtended),
			IsImmortal:  bool(sb.IsImmortal),
			NeedsAdmin:  bool(sb.NeedsAdmin),
		}
		if !sb.CreatedAt.IsZero() {
			row.CreatedAt = sb.CreatedAt.Time().UTC().Format(time.RFC3339)
		}
		if !sb.AssignedAt.IsZero() {
			row.AssignedAt = sb.AssignedAt.Time().UTC().Format(time.RFC3339)
		}

		if key.Kind == record.KindDeveloper {
			row.Type = "Developer"
			if row.CreatedAt == "" {
				row.CreatedAt = row.RequestedAt
			}
			snap.Developer = append(snap.Developer, row)
		} else {
			snap.CI = append(snap.CI, row)
		}
	}
	return snap, nil
}
