package pool

import (
	"context"
	"fmt"
	"strings"

	"github.com/firefly-engineering/sandpool-ctl/internal/audit"
	"github.com/firefly-engineering/sandpool-ctl/internal/clock"
	"github.com/firefly-engineering/sandpool-ctl/internal/config"
	"github.com/firefly-engineering/sandpool-ctl/internal/logging"
	"github.com/firefly-engineering/sandpool-ctl/internal/notify"
	"github.com/firefly-engineering/sandpool-ctl/internal/provisioner"
	"github.com/firefly-engineering/sandpool-ctl/internal/record"
	"github.com/firefly-engineering/sandpool-ctl/internal/store"
)

// DefaultExpiryDays is the retention announced to a developer sandbox
// requester when the record does not carry its own expiry.
const DefaultExpiryDays = 15

// Watcher reconciles asynchronous provisioning completion into pool
// state. Only InProgress records are inspected, which makes repeated
// reconcile passes over the same snapshot no-ops.
type Watcher struct {
	Store       store.Store
	Provisioner provisioner.Provisioner
	Notifier    notify.Notifier
	Clock       clock.Clock
	Config      *config.Config
	Audit       *audit.Logger
}

// Reconcile runs one pass over every InProgress record, promoting those
// whose external provisioning has completed. Pool sandboxes become
// Available after best-effort user activation; developer sandboxes
// become Assigned after user setup and requester notification.
func (w *Watcher) Reconcile(ctx context.Context) error {
	entries, err := w.Store.List(ctx, record.AnyPattern())
	if err != nil {
		return err
	}

	type pending struct {
		key string
		sb  *record.Sandbox
	}
	var inProgress []pending

	for _, e := range entries {
		sb, err := record.Decode(e.Value)
		if err != nil {
			logging.Warn("skipping corrupt record", "key", e.Key, "error", err)
			continue
		}
		if sb.Status != record.StatusInProgress {
			continue
		}
		inProgress = append(inProgress, pending{key: e.Key, sb: sb})
	}

	if len(inProgress) == 0 {
		logging.Info("no sandboxes awaiting provisioning")
		return nil
	}

	states, err := w.Provisioner.Statuses(ctx)
	if err != nil {
		return err
	}

	for _, p := range inProgress {
		state := states[p.sb.Name]
		switch state {
		case provisioner.StateCompleted:
		case provisioner.StateFailed:
			logging.Warn("sandbox provisioning failed, leaving record for inspection", "sandbox", p.sb.Name)
			continue
		default:
			logging.Info("sandbox still provisioning", "sandbox", p.sb.Name)
			continue
		}

		key, ok := record.ParseKey(p.key)
		if !ok {
			logging.Warn("skipping record with unparseable key", "key", p.key)
			continue
		}

		// Failures on one sandbox never block the rest of the pass.
		if key.Kind == record.KindDeveloper {
			if err := w.completeDeveloper(ctx, p.key, p.sb); err != nil {
				logging.Error("failed to complete developer sandbox", "sandbox", p.sb.Name, "error", err)
			}
		} else {
			if err := w.completePool(ctx, p.key, key, p.sb); err != nil {
				logging.Error("failed to complete pool sandbox", "sandbox", p.sb.Name, "error", err)
			}
		}
	}
	return nil
}

// completePool promotes a provisioned CI pool sandbox to Available.
// The configured user activation list is applied first, best-effort;
// an activation failure is logged and never blocks the transition.
func (w *Watcher) completePool(ctx context.Context, storeKey string, key record.Key, sb *record.Sandbox) error {
	if w.Config != nil {
		if def, ok := w.Config.PoolFor(key.Pool, key.Branch); ok && len(def.UsersToBeActivated) > 0 {
			logging.Info("activating users in sandbox", "sandbox", sb.Name, "users", strings.Join(def.UsersToBeActivated, ","))
			if err := w.Provisioner.ActivateUsers(ctx, sb.Name, def.UsersToBeActivated); err != nil {
				logging.Warn("user activation failed, continuing", "sandbox", sb.Name, "error", err)
			}
		}
	}

	return w.transition(ctx, storeKey, sb.Name, func(cur *record.Sandbox) {
		cur.Status = record.StatusAvailable
		cur.IsActive = true
		cur.CreatedAt = record.Now(w.Clock.Now())
	}, audit.EventReconcile, "available")
}

// completeDeveloper promotes a provisioned developer sandbox to
// Assigned. User setup may partially fail; the record then carries
// needsAdmin so the requester is told to contact an administrator. The
// transition happens regardless, and the notification is best-effort.
func (w *Watcher) completeDeveloper(ctx context.Context, storeKey string, sb *record.Sandbox) error {
	user, err := w.Provisioner.SetupUser(ctx, sb.Name, sb.Email)
	needsAdmin := err != nil || !user.PasswordReset
	if err != nil {
		logging.Warn("user setup failed, requester must contact an administrator", "sandbox", sb.Name, "error", err)
	}

	expiry := sb.ExpiryDays
	if expiry <= 0 {
		expiry = DefaultExpiryDays
	}

	if w.Notifier != nil && sb.Issue != "" {
		body := developerReadyBody(sb.Requester, sb.Name, user.Username, expiry, needsAdmin)
		if err := w.Notifier.Comment(ctx, sb.Issue, body); err != nil {
			logging.Warn("failed to notify requester", "issue", sb.Issue, "error", err)
		}
	}

	return w.transition(ctx, storeKey, sb.Name, func(cur *record.Sandbox) {
		cur.Status = record.StatusAssigned
		cur.CreatedAt = record.Now(w.Clock.Now())
		cur.NeedsAdmin = record.Flag(needsAdmin)
	}, audit.EventReconcile, "assigned")
}

// transition applies a mutation through the read-compute-write
// discipline: the record is re-read immediately before writing so a
// concurrent update is not clobbered with stale state.
func (w *Watcher) transition(ctx context.Context, storeKey, name string, apply func(*record.Sandbox), event audit.EventType, details string) error {
	entry, err := w.Store.Read(ctx, storeKey)
	if err != nil {
		return err
	}
	cur, err := record.Decode(entry.Value)
	if err != nil {
		return err
	}
	if cur.Status != record.StatusInProgress {
		logging.Info("record changed since listing, leaving as is", "key", storeKey, "status", cur.Status)
		return nil
	}

	apply(cur)
	value, err := cur.Encode()
	if err != nil {
		return err
	}
	if err := w.Store.Write(ctx, storeKey, value); err != nil {
		return err
	}

	if w.Audit != nil {
		if err := w.Audit.Transition(event, name, cur.Issue, details); err != nil {
			logging.Warn("failed to record audit event", "sandbox", name, "error", err)
		}
	}
	logging.Info("sandbox provisioned", "sandbox", name, "status", cur.Status)
	return nil
}

// developerReadyBody renders the issue comment posted when a developer
// sandbox finishes provisioning.
func developerReadyBody(requester, sandbox, username string, expiryDays int, needsAdmin bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello @%s :wave:\n\n", requester)
	if needsAdmin {
		b.WriteString("Your sandbox has been created, however a user could not be fully provisioned. ")
		b.WriteString("Please reach out to your administrator with the details below to get your access sorted out.\n\n")
	} else {
		b.WriteString("Your sandbox has been created successfully. Please find the details below.\n\n")
	}
	fmt.Fprintf(&b, "- Sandbox Name: %s\n", sandbox)
	if username != "" {
		fmt.Fprintf(&b, "- Username: %s\n", username)
	}
	fmt.Fprintf(&b, "- Expires In: %d days\n\n", expiryDays)
	if !needsAdmin {
		b.WriteString("Please check your email for details on how to reset your password and get access to this org.\n")
	}
	b.WriteString("Please note this sandbox is deleted automatically once the number of days above elapses, and closing this issue deletes the sandbox.\n")
	return b.String()
}
