package pool

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	"github.com/firefly-engineering/sandpool-ctl/internal/audit"
	"github.com/firefly-engineering/sandpool-ctl/internal/clock"
	"github.com/firefly-engineering/sandpool-ctl/internal/config"
	"github.com/firefly-engineering/sandpool-ctl/internal/logging"
	"github.com/firefly-engineering/sandpool-ctl/internal/provisioner"
	"github.com/firefly-engineering/sandpool-ctl/internal/record"
	"github.com/firefly-engineering/sandpool-ctl/internal/store"
)

// Provision fans out sandbox creation requests for a pool and records
// the accepted ones as InProgress, to be promoted later by the Watcher.
type Provision struct {
	Store       store.Store
	Provisioner provisioner.Provisioner
	Clock       clock.Clock
	Audit       *audit.Logger

	// NameFn generates sandbox names. Defaults to a random nine digit
	// number. Injectable for tests.
	NameFn func() string
}

// Request submits count parallel creation requests for the pool and
// returns the names that were accepted, in sorted order. Individual
// failures are logged and skipped; they never abort the batch. A record
// is written only for accepted requests.
func (p *Provision) Request(ctx context.Context, def config.Pool, count int) ([]string, error) {
	nameFn := p.NameFn
	if nameFn == nil {
		nameFn = randomName
	}

	logging.Info("requesting sandbox creation",
		"pool", def.Pool, "branch", def.Branch, "count", count, "source", def.Source)

	results := make([]string, count)
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		name := nameFn()
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			err := p.Provisioner.Create(ctx, provisioner.CreateRequest{
				Name:   name,
				Pool:   def.Pool,
				Source: def.Source,
			})
			if err != nil {
				logging.Warn("sandbox creation request failed", "sandbox", name, "error", err)
				return
			}
			results[i] = name
		}(i, name)
	}
	wg.Wait()

	var accepted []string
	for _, name := range results {
		if name == "" {
			continue
		}
		if err := p.writeRecord(ctx, def, name); err != nil {
			logging.Error("sandbox requested but record could not be written", "sandbox", name, "error", err)
			continue
		}
		accepted = append(accepted, name)
	}
	sort.Strings(accepted)

	logging.Info("sandbox creation requests submitted",
		"pool", def.Pool, "branch", def.Branch, "accepted", len(accepted), "requested", count)
	return accepted, nil
}

// writeRecord creates the InProgress record for an accepted request.
// The sandbox name doubles as the key discriminator, keeping keys
// unique per record.
func (p *Provision) writeRecord(ctx context.Context, def config.Pool, name string) error {
	key := record.Key{
		Pool:          def.Pool,
		Branch:        def.Branch,
		Discriminator: name,
		Kind:          record.KindCIPool,
	}
	sb := &record.Sandbox{
		Name:      name,
		Status:    record.StatusInProgress,
		IsActive:  false,
		CreatedAt: record.Now(p.Clock.Now()),
	}
	value, err := sb.Encode()
	if err != nil {
		return err
	}
	if err := p.Store.Write(ctx, key.String(), value); err != nil {
		return err
	}

	if p.Audit != nil {
		if err := p.Audit.Transition(audit.EventProvision, name, "", fmt.Sprintf("pool=%s branch=%s", def.Pool, def.Branch)); err != nil {
			logging.Warn("failed to record audit event", "sandbox", name, "error", err)
		}
	}
	return nil
}

// randomName returns a random nine digit sandbox name.
func randomName() string {
	var b [4]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic(err)
	}
	n := binary.BigEndian.Uint32(b[:])%900000000 + 100000000
	return fmt.Sprintf("%d", n)
}
