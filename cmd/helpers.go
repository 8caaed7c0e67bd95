package cmd

import (
	"strings"

	"github.com/firefly-engineering/sandpool-ctl/internal/app"
	"github.com/firefly-engineering/sandpool-ctl/internal/config"
	"github.com/firefly-engineering/sandpool-ctl/internal/errors"
	"github.com/firefly-engineering/sandpool-ctl/internal/pool"
)

// getApp returns the default application, wiring production
// collaborators on first use. Tests install a fully injected app
// beforehand, in which case Init only fills what is missing.
func getApp() (*app.App, error) {
	a := app.Default
	if err := a.Init(configPath); err != nil {
		return nil, err
	}
	return a, nil
}

// poolsFor resolves the pool definitions a command operates on. An
// empty name selects every configured pool; a pool plus optional
// branch narrows the set.
func poolsFor(cfg *config.Config, name, branch string) ([]config.Pool, error) {
	if name == "" {
		return cfg.Pools, nil
	}
	var defs []config.Pool
	for _, def := range cfg.Pools {
		if !strings.EqualFold(def.Pool, name) {
			continue
		}
		if branch != "" && !strings.EqualFold(def.Branch, branch) {
			continue
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, errors.ConfigError("no configured pool matches "+name, nil)
	}
	return defs, nil
}

func newAllocator(a *app.App) *pool.Allocator {
	return &pool.Allocator{Store: a.Store, Clock: a.Clock, Audit: a.Audit}
}

func newWatcher(a *app.App) *pool.Watcher {
	return &pool.Watcher{
		Store:       a.Store,
		Provisioner: a.Provisioner,
		Notifier:    a.Notifier,
		Clock:       a.Clock,
		Config:      a.Config,
		Audit:       a.Audit,
	}
}

func newSweeper(a *app.App) *pool.Sweeper {
	return &pool.Sweeper{Store: a.Store, Clock: a.Clock, Audit: a.Audit}
}

func newReclaimer(a *app.App) *pool.Reclaimer {
	return &pool.Reclaimer{Store: a.Store, Provisioner: a.Provisioner, Audit: a.Audit}
}

func newReleaser(a *app.App) *pool.Releaser {
	return &pool.Releaser{Store: a.Store, Clock: a.Clock, Audit: a.Audit}
}

func newReporter(a *app.App) *pool.Reporter {
	return &pool.Reporter{Store: a.Store}
}

func newProvision(a *app.App) *pool.Provision {
	return &pool.Provision{Store: a.Store, Provisioner: a.Provisioner, Clock: a.Clock, Audit: a.Audit}
}
