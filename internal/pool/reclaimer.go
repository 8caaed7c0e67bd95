package pool

import (
	"context"

	"github.com/firefly-engineering/sandpool-ctl/internal/audit"
	"github.com/firefly-engineering/sandpool-ctl/internal/errors"
	"github.com/firefly-engineering/sandpool-ctl/internal/logging"
	"github.com/firefly-engineering/sandpool-ctl/internal/provisioner"
	"github.com/firefly-engineering/sandpool-ctl/internal/record"
	"github.com/firefly-engineering/sandpool-ctl/internal/store"
)

// Reclaimer deletes the backing environment and store entry of Expired
// records. The entry is only ever deleted after the deprovisioner
// confirms the environment is gone; on any other outcome the record is
// left for the next scheduled run, so no environment outlives its
// record unseen.
type Reclaimer struct {
	Store       store.Store
	Provisioner provisioner.Provisioner
	Audit       *audit.Logger
}

// Reclaim runs one deletion pass over every Expired record of either
// kind and returns how many were reclaimed. A failed deprovision is
// logged and skipped; it never aborts the pass.
func (r *Reclaimer) Reclaim(ctx context.Context) (int, error) {
	entries, err := r.Store.List(ctx, record.AnyPattern())
	if err != nil {
		return 0, err
	}

	reclaimed := 0
	for _, e := range entries {
		sb, err := record.Decode(e.Value)
		if err != nil {
			logging.Warn("skipping corrupt record", "key", e.Key, "error", err)
			continue
		}
		if sb.Status != record.StatusExpired {
			continue
		}

		result, err := r.Provisioner.Delete(ctx, sb.Name)
		if err != nil {
			logging.Warn("failed to delete sandbox, leaving record for retry", "sandbox", sb.Name, "error", err)
			continue
		}
		if result == provisioner.AlreadyGone {
			logging.Info("sandbox already gone from backend", "sandbox", sb.Name)
		}

		if err := r.Store.Delete(ctx, e.Key); err != nil && !errors.IsKind(err, errors.KindNotFound) {
			logging.Error("deleted sandbox but failed to remove record", "key", e.Key, "error", err)
			continue
		}

		if r.Audit != nil {
			if err := r.Audit.Transition(audit.EventReclaim, sb.Name, sb.Issue, ""); err != nil {
				logging.Warn("failed to record audit event", "sandbox", sb.Name, "error", err)
			}
		}
		logging.Info("reclaimed sandbox", "sandbox", sb.Name, "key", e.Key)
		reclaimed++
	}
	return reclaimed, nil
}
