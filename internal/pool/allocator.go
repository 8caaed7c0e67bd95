package pool

import (
	"context"
	"time"

	"github.com/firefly-engineering/sandpool-ctl/internal/audit"
	"github.com/firefly-engineering/sandpool-ctl/internal/clock"
	"github.com/firefly-engineering/sandpool-ctl/internal/errors"
	"github.com/firefly-engineering/sandpool-ctl/internal/logging"
	"github.com/firefly-engineering/sandpool-ctl/internal/record"
	"github.com/firefly-engineering/sandpool-ctl/internal/store"
)

// DefaultPollInterval is how long the allocator sleeps between listing
// passes while waiting for a sandbox to free up.
const DefaultPollInterval = 60 * time.Second

// TimeoutPolicy selects what Allocate does when the wait budget is
// exhausted.
type TimeoutPolicy int

const (
	// FailFast surfaces an allocation timeout.
	FailFast TimeoutPolicy = iota

	// ReturnStaleExpired returns the name of an expired sandbox still
	// bound to the requester, when one was seen during the wait. The
	// record is not claimed; the result is a degraded best effort.
	ReturnStaleExpired
)

// AllocateRequest describes one allocation attempt.
type AllocateRequest struct {
	Pool   string
	Branch string

	// Issue is the requester identity the claimed sandbox is bound to.
	Issue string

	// MaxWait bounds how long Allocate polls for a sandbox to free up
	// when the requester's current sandbox is still in use.
	MaxWait time.Duration

	OnTimeout TimeoutPolicy
}

// Allocator claims Available sandboxes for requesters. A requester
// holds at most one sandbox per pool+branch group at a time; an
// existing binding is always preferred over a fresh claim.
type Allocator struct {
	Store    store.Store
	Clock    clock.Clock
	Interval time.Duration
	Audit    *audit.Logger
}

// Allocate finds or waits for a claimable sandbox and returns its name.
//
// Each polling pass lists the group and scans twice: first for a record
// already bound to the requester (an Available binding is reclaimed
// immediately, an InUse binding means wait for its release), then for
// any unbound Available record. The loop ends with NoCapacity when the
// requester holds no binding and nothing is claimable, or with the
// timeout policy once MaxWait elapses.
func (a *Allocator) Allocate(ctx context.Context, req AllocateRequest) (string, error) {
	interval := a.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	deadline := a.Clock.Now().Add(req.MaxWait)
	pattern := record.PoolPattern(req.Pool, req.Branch)

	logging.Info("allocating sandbox", "pool", req.Pool, "branch", req.Branch, "issue", req.Issue)

	for {
		entries, err := a.Store.List(ctx, pattern)
		if err != nil {
			return "", err
		}
		if len(entries) == 0 {
			return "", errors.NoCapacity(req.Pool, req.Branch)
		}

		var candidate string
		var staleExpired string
		bound := false

		for _, e := range entries {
			sb, err := record.Decode(e.Value)
			if err != nil {
				logging.Warn("skipping corrupt record", "key", e.Key, "error", err)
				continue
			}
			if sb.Issue != req.Issue {
				continue
			}
			if sb.Status == record.StatusInUse && bool(sb.IsActive) {
				bound = true
				logging.Info("sandbox already in use for issue", "sandbox", sb.Name, "issue", req.Issue)
				break
			}
			if sb.Status == record.StatusAvailable && bool(sb.IsActive) {
				candidate = e.Key
				break
			}
			if sb.Status == record.StatusExpired && staleExpired == "" {
				staleExpired = sb.Name
			}
		}

		if candidate == "" && !bound {
			for _, e := range entries {
				sb, err := record.Decode(e.Value)
				if err != nil {
					continue
				}
				if sb.Issue == "" && sb.Status == record.StatusAvailable && bool(sb.IsActive) {
					candidate = e.Key
					break
				}
			}
		}

		if candidate != "" {
			name, err := a.claim(ctx, candidate, req.Issue)
			if err != nil {
				return "", err
			}
			if name != "" {
				return name, nil
			}
			// The candidate changed between the listing snapshot and
			// the claim's re-read. Fall through to the retry logic.
		}

		if !bound {
			return "", errors.NoCapacity(req.Pool, req.Branch)
		}

		if !a.Clock.Now().Before(deadline) {
			if req.OnTimeout == ReturnStaleExpired && staleExpired != "" {
				logging.Warn("wait budget exhausted, returning expired sandbox still bound to issue",
					"sandbox", staleExpired, "issue", req.Issue)
				return staleExpired, nil
			}
			return "", errors.AllocationTimeout(req.Pool, req.Branch, req.MaxWait)
		}

		logging.Info("assigned sandbox still in use, waiting", "issue", req.Issue, "interval", interval)
		if err := a.Clock.Sleep(ctx, interval); err != nil {
			return "", err
		}
	}
}

// claim re-reads the candidate immediately before writing, since
// another process may have taken it after the listing snapshot. An
// empty name with a nil error means the candidate was lost and the
// caller should retry its scan.
func (a *Allocator) claim(ctx context.Context, key, issue string) (string, error) {
	entry, err := a.Store.Read(ctx, key)
	if err != nil {
		if errors.IsKind(err, errors.KindNotFound) {
			return "", nil
		}
		return "", err
	}
	sb, err := record.Decode(entry.Value)
	if err != nil {
		logging.Warn("skipping corrupt record", "key", key, "error", err)
		return "", nil
	}

	if sb.Status == record.StatusInUse && sb.Issue == issue {
		// A parallel invocation for the same requester got here first.
		// The claim only ever promotes Available to InUse, so the
		// outcome is the one this invocation wanted anyway.
		return sb.Name, nil
	}
	if sb.Status != record.StatusAvailable || !bool(sb.IsActive) {
		return "", nil
	}

	fresh := sb.Issue == ""
	sb.Status = record.StatusInUse
	sb.Issue = issue
	if fresh {
		sb.AssignedAt = record.Now(a.Clock.Now())
	}

	value, err := sb.Encode()
	if err != nil {
		return "", err
	}
	if err := a.Store.Write(ctx, key, value); err != nil {
		return "", err
	}

	if a.Audit != nil {
		if err := a.Audit.Transition(audit.EventClaim, sb.Name, issue, ""); err != nil {
			logging.Warn("failed to record audit event", "sandbox", sb.Name, "error", err)
		}
	}
	logging.Info("claimed sandbox", "sandbox", sb.Name, "issue", issue)
	return sb.Name, nil
}
