// Package app provides the application context for sandpool-ctl.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds the collaborators every command works through:
//
//	type App struct {
//	    Config      *config.Config          // Loaded configuration
//	    Store       store.Store             // Record store
//	    Provisioner provisioner.Provisioner // External environment manager
//	    Notifier    notify.Notifier         // Requester notifications
//	    Clock       clock.Clock             // Time source
//	    Audit       *audit.Logger           // Transition audit trail
//	}
//
// # Creating an App
//
// Use New with functional options:
//
//	// Production usage: wiring happens lazily from configuration
//	a := app.New()
//	err := a.Init(configPath)
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithConfig(cfg),
//	    app.WithStore(memoryStore),
//	    app.WithProvisioner(mockProvisioner),
//	    app.WithNotifier(mockNotifier),
//	    app.WithClock(fakeClock),
//	)
package app
