package pool

import (
	"context"

	"github.com/firefly-engineering/sandpool-ctl/internal/audit"
	"github.com/firefly-engineering/sandpool-ctl/internal/clock"
	"github.com/firefly-engineering/sandpool-ctl/internal/errors"
	"github.com/firefly-engineering/sandpool-ctl/internal/logging"
	"github.com/firefly-engineering/sandpool-ctl/internal/record"
	"github.com/firefly-engineering/sandpool-ctl/internal/store"
)

// Releaser transitions records out of their binding when a requester is
// done with a sandbox.
type Releaser struct {
	Store store.Store
	Clock clock.Clock
	Audit *audit.Logger
}

// Release unbinds every non-Expired record bound to the issue and
// returns the affected sandbox names.
//
// With returnToPool the record goes back to Available with a refreshed
// assignment instant and the binding cleared; otherwise it is demoted
// to Expired with the binding preserved for audit. Release fails with
// NothingToRelease when no record is bound to the issue.
func (r *Releaser) Release(ctx context.Context, issue string, returnToPool bool) ([]string, error) {
	entries, err := r.Store.List(ctx, record.AnyPattern())
	if err != nil {
		return nil, err
	}

	var released []string
	for _, e := range entries {
		sb, err := record.Decode(e.Value)
		if err != nil {
			logging.Warn("skipping corrupt record", "key", e.Key, "error", err)
			continue
		}
		if sb.Issue != issue || sb.Status == record.StatusExpired {
			continue
		}

		name, err := r.release(ctx, e.Key, issue, returnToPool)
		if err != nil {
			logging.Error("failed to release sandbox", "key", e.Key, "error", err)
			continue
		}
		if name != "" {
			released = append(released, name)
		}
	}

	if len(released) == 0 {
		return nil, errors.NothingToRelease(issue)
	}
	return released, nil
}

// release re-reads one record and applies the transition if it is still
// bound to the issue.
func (r *Releaser) release(ctx context.Context, key, issue string, returnToPool bool) (string, error) {
	entry, err := r.Store.Read(ctx, key)
	if err != nil {
		if errors.IsKind(err, errors.KindNotFound) {
			return "", nil
		}
		return "", err
	}
	cur, err := record.Decode(entry.Value)
	if err != nil {
		return "", err
	}
	if cur.Issue != issue || cur.Status == record.StatusExpired {
		return "", nil
	}

	details := "expired on release"
	if returnToPool {
		cur.Status = record.StatusAvailable
		cur.IsActive = true
		cur.AssignedAt = record.Now(r.Clock.Now())
		cur.Issue = ""
		details = "returned to pool"
	} else {
		cur.Status = record.StatusExpired
		cur.IsActive = false
		// The binding stays on the record for audit.
	}

	value, err := cur.Encode()
	if err != nil {
		return "", err
	}
	if err := r.Store.Write(ctx, key, value); err != nil {
		return "", err
	}

	if r.Audit != nil {
		if err := r.Audit.Transition(audit.EventRelease, cur.Name, issue, details); err != nil {
			logging.Warn("failed to record audit event", "sandbox", cur.Name, "error", err)
		}
	}
	logging.Info("released sandbox", "sandbox", cur.Name, "issue", issue, "returned_to_pool", returnToPool)
	return cur.Name, nil
}
