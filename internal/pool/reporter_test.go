package pool

import (
	"context"
	"testing"
	"time"

	"github.com/firefly-engineering/sandpool-ctl/internal/record"
	"github.com/firefly-engineering/sandpool-ctl/internal/store"
)

func TestSnapshot_SplitsAndNormalizes(t *testing.T) {
	mem := store.NewMemory()
	created := baseTime.Add(-26 * time.Hour)
	assigned := baseTime.Add(-2 * time.Hour)

	mustSeedAt(t, mem, ciKey("CORE_BANKING", "MAIN", "100000001"), &record.Sandbox{
		Name: "100000001", Status: record.StatusInUse, IsActive: true,
		Issue:      "42",
		CreatedAt:  record.Now(created),
		AssignedAt: record.Now(assigned),
	}, created)

	mustSeedAt(t, mem, devKey("DEV", "MAIN", "200000002"), &record.Sandbox{
		Name: "200000002", Status: record.StatusAssigned, IsActive: true,
		Issue: "314", Requester: "jdoe", Email: "jdoe@acme.com",
	}, created)

	snap, err := (&Reporter{Store: mem}).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	if len(snap.CI) != 1 || len(snap.Developer) != 1 {
		t.Fatalf("got %d CI and %d developer rows, want 1 and 1", len(snap.CI), len(snap.Developer))
	}

	ci := snap.CI[0]
	if ci.Domain != "CORE_BANKING" {
		t.Errorf("domain = %q, want CORE_BANKING including the underscore", ci.Domain)
	}
	if ci.Branch != "MAIN" || ci.Type != "CI" {
		t.Errorf("branch/type = %q/%q", ci.Branch, ci.Type)
	}
	if ci.AssignedAt != assigned.UTC().Format(time.RFC3339) {
		t.Errorf("assigned_at = %q, want RFC 3339 of %v", ci.AssignedAt, assigned)
	}
	if ci.CreatedAt != created.UTC().Format(time.RFC3339) {
		t.Errorf("created_at = %q", ci.CreatedAt)
	}

	dev := snap.Developer[0]
	if dev.Type != "Developer" || dev.Requester != "jdoe" {
		t.Errorf("developer row = %+v", dev)
	}
	// A developer record without its own createdAt falls back to the
	// store entry's creation instant.
	if dev.CreatedAt != created.UTC().Format(time.RFC3339) {
		t.Errorf("created_at = %q, want the entry creation instant", dev.CreatedAt)
	}
}

func TestSnapshot_SkipsCorruptAndForeignKeys(t *testing.T) {
	mem := store.NewMemory()
	mem.Seed(ciKey("QA", "MAIN", "100000001"), []byte("{broken"))
	mustSeed(t, mem, ciKey("QA", "MAIN", "300000003"), &record.Sandbox{
		Name: "300000003", Status: record.StatusAvailable, IsActive: true,
	})

	snap, err := (&Reporter{Store: mem}).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.CI) != 1 {
		t.Errorf("got %d CI rows, want the corrupt record skipped", len(snap.CI))
	}
	if got := len(mem.Calls("write")); got != 0 {
		t.Errorf("store writes = %d, the reporter is read-only", got)
	}
}
