package app

import (
	"fmt"

	"github.com/firefly-engineering/sandpool-ctl/internal/audit"
	"github.com/firefly-engineering/sandpool-ctl/internal/clock"
	"github.com/firefly-engineering/sandpool-ctl/internal/config"
	"github.com/firefly-engineering/sandpool-ctl/internal/errors"
	"github.com/firefly-engineering/sandpool-ctl/internal/notify"
	"github.com/firefly-engineering/sandpool-ctl/internal/provisioner"
	"github.com/firefly-engineering/sandpool-ctl/internal/store"
)

// App holds the application dependencies.
type App struct {
	// Config is the loaded configuration.
	Config *config.Config

	// Store is the record store.
	Store store.Store

	// Provisioner is the external environment manager.
	Provisioner provisioner.Provisioner

	// Notifier posts requester notifications.
	Notifier notify.Notifier

	// Clock is the time source for polling and age computation.
	Clock clock.Clock

	// Audit records sandbox lifecycle transitions.
	Audit *audit.Logger
}

// Option is a function that configures the App.
type Option func(*App)

// WithConfig sets a custom configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithStore sets a custom record store.
func WithStore(s store.Store) Option {
	return func(a *App) {
		a.Store = s
	}
}

// WithProvisioner sets a custom provisioner.
func WithProvisioner(p provisioner.Provisioner) Option {
	return func(a *App) {
		a.Provisioner = p
	}
}

// WithNotifier sets a custom notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(a *App) {
		a.Notifier = n
	}
}

// WithClock sets a custom clock.
func WithClock(c clock.Clock) Option {
	return func(a *App) {
		a.Clock = c
	}
}

// WithAudit sets a custom audit logger.
func WithAudit(l *audit.Logger) Option {
	return func(a *App) {
		a.Audit = l
	}
}

// New creates a new App with the given options. Production collaborators
// are wired later by Init, so tests can inject everything up front.
func New(opts ...Option) *App {
	app := &App{
		Clock: clock.Real{},
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Init loads the configuration from path and wires the production
// implementation of every dependency not already injected.
func (a *App) Init(path string) error {
	if a.Config == nil {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		a.Config = cfg
	}

	if a.Store == nil || a.Notifier == nil {
		token := a.Config.Store.Token()
		if token == "" {
			return errors.ConfigError(fmt.Sprintf("environment variable %s is not set", a.Config.Store.TokenEnv), nil)
		}
		if a.Store == nil {
			var opts []store.GitHubOption
			if a.Config.Store.APIBaseURL != "" {
				opts = append(opts, store.WithBaseURL(a.Config.Store.APIBaseURL))
			}
			a.Store = store.NewGitHubVariables(a.Config.Store.Repo, token, opts...)
		}
		if a.Notifier == nil {
			var opts []notify.GitHubOption
			if a.Config.Store.APIBaseURL != "" {
				opts = append(opts, notify.WithBaseURL(a.Config.Store.APIBaseURL))
			}
			a.Notifier = notify.NewGitHubIssues(a.Config.Store.Repo, token, opts...)
		}
	}

	if a.Provisioner == nil {
		cli, err := provisioner.NewCLI(provisioner.CLIOptions{
			Command:         a.Config.Provisioner.Command,
			DevHub:          a.Config.Provisioner.DevHub,
			ActivateCommand: a.Config.Provisioner.ActivateCommand,
		})
		if err != nil {
			return err
		}
		a.Provisioner = cli
	}

	if a.Audit == nil {
		a.Audit = audit.NewLogger(a.Config.StateDir)
	}
	return nil
}

// Default is the default application instance.
var Default = New()

// SetDefault sets the default application instance (used for testing).
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance.
func ResetDefault() {
	Default = New()
}
