package pool

import (
	"context"
	"testing"
	"time"

	"github.com/firefly-engineering/sandpool-ctl/internal/clock"
	"github.com/firefly-engineering/sandpool-ctl/internal/record"
	"github.com/firefly-engineering/sandpool-ctl/internal/store"
)

func newSweeper(m *store.Memory) *Sweeper {
	return &Sweeper{Store: m, Clock: clock.NewFake(baseTime)}
}

func agedRecord(name string, age time.Duration) *record.Sandbox {
	return &record.Sandbox{
		Name:       name,
		Status:     record.StatusAvailable,
		IsActive:   true,
		AssignedAt: record.Now(baseTime.Add(-age)),
	}
}

func TestSweep_AgePolicy(t *testing.T) {
	tests := []struct {
		name    string
		sb      *record.Sandbox
		expired bool
	}{
		{"fresh record survives", agedRecord("100000001", time.Hour), false},
		{"aged record expires", agedRecord("100000001", 25 * time.Hour), true},
		{"exactly at threshold expires", agedRecord("100000001", 24 * time.Hour), true},
		{
			"extended record below grace survives",
			func() *record.Sandbox { sb := agedRecord("100000001", 47 * time.Hour); sb.IsExtended = true; return sb }(),
			false,
		},
		{
			"extended record past grace expires",
			func() *record.Sandbox { sb := agedRecord("100000001", 49 * time.Hour); sb.IsExtended = true; return sb }(),
			true,
		},
		{
			"immortal record never expires",
			func() *record.Sandbox {
				sb := agedRecord("100000001", 10*365*24*time.Hour)
				sb.IsImmortal = true
				return sb
			}(),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := store.NewMemory()
			mustSeed(t, mem, ciKey("QA", "MAIN", "100000001"), tt.sb)

			expired, err := newSweeper(mem).Sweep(context.Background(), "QA", "MAIN", 3)
			if err != nil {
				t.Fatalf("Sweep failed: %v", err)
			}

			sb := mustGet(t, mem, ciKey("QA", "MAIN", "100000001"))
			if tt.expired {
				if expired != 1 || sb.Status != record.StatusExpired || bool(sb.IsActive) {
					t.Errorf("want record expired and inactive, got status %q isActive %v", sb.Status, sb.IsActive)
				}
			} else {
				if expired != 0 || sb.Status != tt.sb.Status {
					t.Errorf("want record untouched, got status %q (expired=%d)", sb.Status, expired)
				}
			}
		})
	}
}

func TestSweep_NeverTouchesInProgressOrExpired(t *testing.T) {
	mem := store.NewMemory()
	old := record.Now(baseTime.Add(-100 * time.Hour))
	mustSeed(t, mem, ciKey("QA", "MAIN", "100000001"), &record.Sandbox{
		Name: "100000001", Status: record.StatusInProgress, AssignedAt: old,
	})
	mustSeed(t, mem, ciKey("QA", "MAIN", "300000003"), &record.Sandbox{
		Name: "300000003", Status: record.StatusExpired, AssignedAt: old,
	})

	expired, err := newSweeper(mem).Sweep(context.Background(), "QA", "MAIN", 3)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if expired != 0 {
		t.Errorf("expired = %d, want 0", expired)
	}
	if got := len(mem.Calls("write")); got != 0 {
		t.Errorf("store writes = %d, InProgress and Expired must never be touched", got)
	}
}

func TestSweep_DesiredCountIsInformationalOnly(t *testing.T) {
	mem := store.NewMemory()
	names := []string{"100000001", "200000002", "300000003", "400000004", "500000005"}
	for _, name := range names {
		mustSeed(t, mem, ciKey("QA", "MAIN", name), agedRecord(name, 30*time.Hour))
	}

	expired, err := newSweeper(mem).Sweep(context.Background(), "QA", "MAIN", 2)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if expired != 5 {
		t.Errorf("expired = %d, want all 5 eligible records regardless of desired count", expired)
	}
	for _, name := range names {
		if sb := mustGet(t, mem, ciKey("QA", "MAIN", name)); sb.Status != record.StatusExpired {
			t.Errorf("%s status = %q, want Expired", name, sb.Status)
		}
	}
}

func TestSweep_AgeBasisPreference(t *testing.T) {
	mem := store.NewMemory()

	// No timestamps on the record at all: age falls back to the store
	// entry's own creation instant.
	mustSeedAt(t, mem, ciKey("QA", "MAIN", "100000001"), &record.Sandbox{
		Name: "100000001", Status: record.StatusAvailable, IsActive: true,
	}, baseTime.Add(-30*time.Hour))

	// assignedAt wins over an ancient createdAt.
	mustSeed(t, mem, ciKey("QA", "MAIN", "300000003"), &record.Sandbox{
		Name:       "300000003",
		Status:     record.StatusAvailable,
		IsActive:   true,
		CreatedAt:  record.Now(baseTime.Add(-100 * time.Hour)),
		AssignedAt: record.Now(baseTime.Add(-time.Hour)),
	})

	expired, err := newSweeper(mem).Sweep(context.Background(), "QA", "MAIN", 3)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if expired != 1 {
		t.Errorf("expired = %d, want 1", expired)
	}
	if sb := mustGet(t, mem, ciKey("QA", "MAIN", "100000001")); sb.Status != record.StatusExpired {
		t.Error("record without timestamps should expire from the entry creation instant")
	}
	if sb := mustGet(t, mem, ciKey("QA", "MAIN", "300000003")); sb.Status != record.StatusAvailable {
		t.Error("recently assigned record must survive regardless of createdAt")
	}
}

func TestSweep_ScopedToGroup(t *testing.T) {
	mem := store.NewMemory()
	mustSeed(t, mem, ciKey("QA", "MAIN", "100000001"), agedRecord("100000001", 30*time.Hour))
	mustSeed(t, mem, ciKey("QA", "RELEASE", "300000003"), agedRecord("300000003", 30*time.Hour))
	mustSeed(t, mem, devKey("QA", "MAIN", "500000005"), agedRecord("500000005", 30*time.Hour))

	expired, err := newSweeper(mem).Sweep(context.Background(), "QA", "MAIN", 3)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if expired != 1 {
		t.Errorf("expired = %d, want only the QA/MAIN pool record", expired)
	}
	if sb := mustGet(t, mem, ciKey("QA", "RELEASE", "300000003")); sb.Status != record.StatusAvailable {
		t.Error("other branch must be untouched")
	}
	if sb := mustGet(t, mem, devKey("QA", "MAIN", "500000005")); sb.Status != record.StatusAvailable {
		t.Error("developer sandboxes are not part of the group sweep")
	}
}

func TestSweepDevelopers_RecordRetention(t *testing.T) {
	mem := store.NewMemory()

	// Default retention is 15 days.
	mustSeed(t, mem, devKey("DEV", "MAIN", "100000001"), &record.Sandbox{
		Name: "100000001", Status: record.StatusAssigned, IsActive: true,
		CreatedAt: record.Now(baseTime.Add(-16 * 24 * time.Hour)),
	})
	mustSeed(t, mem, devKey("DEV", "MAIN", "300000003"), &record.Sandbox{
		Name: "300000003", Status: record.StatusAssigned, IsActive: true,
		CreatedAt: record.Now(baseTime.Add(-14 * 24 * time.Hour)),
	})

	// A record carrying its own retention outlives the default.
	mustSeed(t, mem, devKey("DEV", "MAIN", "500000005"), &record.Sandbox{
		Name: "500000005", Status: record.StatusAssigned, IsActive: true,
		CreatedAt: record.Now(baseTime.Add(-16 * 24 * time.Hour)), ExpiryDays: 30,
	})

	expired, err := newSweeper(mem).SweepDevelopers(context.Background())
	if err != nil {
		t.Fatalf("SweepDevelopers failed: %v", err)
	}
	if expired != 1 {
		t.Errorf("expired = %d, want 1", expired)
	}
	if sb := mustGet(t, mem, devKey("DEV", "MAIN", "100000001")); sb.Status != record.StatusExpired {
		t.Error("sandbox past default retention should expire")
	}
	if sb := mustGet(t, mem, devKey("DEV", "MAIN", "300000003")); sb.Status != record.StatusAssigned {
		t.Error("sandbox within default retention must survive")
	}
	if sb := mustGet(t, mem, devKey("DEV", "MAIN", "500000005")); sb.Status != record.StatusAssigned {
		t.Error("sandbox within its own retention must survive")
	}
}
