package pool

import (
	"context"
	"fmt"
	"time"

	"github.com/firefly-engineering/sandpool-ctl/internal/audit"
	"github.com/firefly-engineering/sandpool-ctl/internal/clock"
	"github.com/firefly-engineering/sandpool-ctl/internal/logging"
	"github.com/firefly-engineering/sandpool-ctl/internal/record"
	"github.com/firefly-engineering/sandpool-ctl/internal/store"
)

// Expiration thresholds in hours of age. Age is measured from the
// assignment instant when set, else the record's creation instant, else
// the store entry's own creation instant.
const (
	DefaultExpirationHours  = 24
	ExtendedExpirationHours = 48
)

// Sweeper demotes aged records to Expired. The sweep is a pure age
// filter: a pool's desired count is reported for observability but
// never caps how many records one sweep expires.
type Sweeper struct {
	Store store.Store
	Clock clock.Clock
	Audit *audit.Logger
}

// Sweep evaluates every CI pool record in a pool+branch group and
// demotes the eligible ones to Expired. It returns how many records
// were demoted.
//
// InProgress and Expired records are never touched. Immortal records
// never expire regardless of age; extended records expire at
// ExtendedExpirationHours, everything else at DefaultExpirationHours.
func (s *Sweeper) Sweep(ctx context.Context, pool, branch string, desiredCount int) (int, error) {
	entries, err := s.Store.List(ctx, record.PoolPattern(pool, branch))
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, e := range entries {
		sb, err := record.Decode(e.Value)
		if err != nil {
			logging.Warn("skipping corrupt record", "key", e.Key, "error", err)
			continue
		}

		age := s.Clock.Now().Sub(sb.AgeBasis(e.CreatedAt))
		if !s.eligible(sb, age) {
			continue
		}

		policy := fmt.Sprintf("%d-hour age policy", DefaultExpirationHours)
		if sb.IsExtended {
			policy = fmt.Sprintf("%d-hour extended age policy", ExtendedExpirationHours)
		}
		if err := s.expire(ctx, e.Key, sb.Name, policy); err != nil {
			logging.Error("failed to expire sandbox", "key", e.Key, "error", err)
			continue
		}
		expired++
	}

	logging.Info("sweep complete",
		"pool", pool, "branch", branch, "expired", expired, "desired_count", desiredCount)
	return expired, nil
}

// SweepDevelopers evaluates every developer sandbox record against its
// own retention, expressed in days on the record itself.
func (s *Sweeper) SweepDevelopers(ctx context.Context) (int, error) {
	entries, err := s.Store.List(ctx, record.DeveloperPattern())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, e := range entries {
		sb, err := record.Decode(e.Value)
		if err != nil {
			logging.Warn("skipping corrupt record", "key", e.Key, "error", err)
			continue
		}
		if sb.Status == record.StatusInProgress || sb.Status == record.StatusExpired {
			continue
		}
		if sb.IsImmortal {
			continue
		}

		days := sb.ExpiryDays
		if days <= 0 {
			days = DefaultExpiryDays
		}
		age := s.Clock.Now().Sub(sb.AgeBasis(e.CreatedAt))
		if age < time.Duration(days)*24*time.Hour {
			continue
		}

		policy := fmt.Sprintf("%d-day retention", days)
		if err := s.expire(ctx, e.Key, sb.Name, policy); err != nil {
			logging.Error("failed to expire sandbox", "key", e.Key, "error", err)
			continue
		}
		expired++
	}
	return expired, nil
}

// eligible reports whether a CI pool record's age makes it expirable.
func (s *Sweeper) eligible(sb *record.Sandbox, age time.Duration) bool {
	if sb.Status == record.StatusInProgress || sb.Status == record.StatusExpired {
		return false
	}
	if sb.IsImmortal {
		return false
	}
	hours := age.Hours()
	if sb.IsExtended {
		return hours >= ExtendedExpirationHours
	}
	return hours >= DefaultExpirationHours
}

// expire demotes one record, re-reading it first so a record another
// process just transitioned is not clobbered.
func (s *Sweeper) expire(ctx context.Context, key, name, policy string) error {
	entry, err := s.Store.Read(ctx, key)
	if err != nil {
		return err
	}
	cur, err := record.Decode(entry.Value)
	if err != nil {
		return err
	}
	if cur.Status == record.StatusInProgress || cur.Status == record.StatusExpired {
		return nil
	}

	cur.Status = record.StatusExpired
	cur.IsActive = false
	value, err := cur.Encode()
	if err != nil {
		return err
	}
	if err := s.Store.Write(ctx, key, value); err != nil {
		return err
	}

	if s.Audit != nil {
		if err := s.Audit.Transition(audit.EventExpire, name, cur.Issue, policy); err != nil {
			logging.Warn("failed to record audit event", "sandbox", name, "error", err)
		}
	}
	logging.Info("expired sandbox", "sandbox", name, "policy", policy)
	return nil
}
