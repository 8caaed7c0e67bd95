package app

import (
	"testing"

	"github.com/firefly-engineering/sandpool-ctl/internal/clock"
	"github.com/firefly-engineering/sandpool-ctl/internal/config"
	"github.com/firefly-engineering/sandpool-ctl/internal/errors"
	"github.com/firefly-engineering/sandpool-ctl/internal/notify"
	"github.com/firefly-engineering/sandpool-ctl/internal/provisioner"
	"github.com/firefly-engineering/sandpool-ctl/internal/store"
)

func testConfig() *config.Config {
	return &config.Config{
		StateDir: "/tmp/sandpool-app-test",
		Store: config.StoreConfig{
			Repo:     "acme/platform",
			TokenEnv: "SANDPOOL_APP_TEST_TOKEN",
		},
		Provisioner: config.ProvisionerConfig{
			Command: "sfp",
			DevHub:  "devhub@acme.com",
		},
	}
}

func TestNew_Defaults(t *testing.T) {
	a := New()
	if a == nil {
		t.Fatal("New() returned nil")
	}
	if _, ok := a.Clock.(clock.Real); !ok {
		t.Error("Clock should default to the wall clock")
	}
	// Everything else is wired by Init.
	if a.Store != nil || a.Provisioner != nil || a.Notifier != nil {
		t.Error("collaborators should be nil before Init")
	}
}

func TestNew_Options(t *testing.T) {
	cfg := testConfig()
	mem := store.NewMemory()
	prov := provisioner.NewMock()
	notifier := notify.NewMock()
	fake := clock.NewFake(clock.Real{}.Now())

	a := New(
		WithConfig(cfg),
		WithStore(mem),
		WithProvisioner(prov),
		WithNotifier(notifier),
		WithClock(fake),
	)

	if a.Config != cfg {
		t.Error("WithConfig did not set config")
	}
	if a.Store != store.Store(mem) {
		t.Error("WithStore did not set store")
	}
	if a.Provisioner != provisioner.Provisioner(prov) {
		t.Error("WithProvisioner did not set provisioner")
	}
	if a.Notifier != notify.Notifier(notifier) {
		t.Error("WithNotifier did not set notifier")
	}
	if a.Clock != clock.Clock(fake) {
		t.Error("WithClock did not set clock")
	}
}

func TestInit_InjectedDependenciesAreKept(t *testing.T) {
	mem := store.NewMemory()
	prov := provisioner.NewMock()
	notifier := notify.NewMock()

	a := New(
		WithConfig(testConfig()),
		WithStore(mem),
		WithProvisioner(prov),
		WithNotifier(notifier),
	)
	if err := a.Init(""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if a.Store != store.Store(mem) {
		t.Error("Init must not replace an injected store")
	}
	if a.Audit == nil {
		t.Error("Init should wire the audit logger from the state dir")
	}
}

func TestInit_MissingToken(t *testing.T) {
	a := New(WithConfig(testConfig()))
	err := a.Init("")
	if !errors.IsKind(err, errors.KindConfigError) {
		t.Errorf("err = %v, want ConfigError for a missing token", err)
	}
}

func TestInit_WiresProductionStore(t *testing.T) {
	t.Setenv("SANDPOOL_APP_TEST_TOKEN", "ghp_test")

	a := New(WithConfig(testConfig()))
	if err := a.Init(""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, ok := a.Store.(*store.GitHubVariables); !ok {
		t.Errorf("store = %T, want *store.GitHubVariables", a.Store)
	}
	if _, ok := a.Notifier.(*notify.GitHubIssues); !ok {
		t.Errorf("notifier = %T, want *notify.GitHubIssues", a.Notifier)
	}
	if _, ok := a.Provisioner.(*provisioner.CLI); !ok {
		t.Errorf("provisioner = %T, want *provisioner.CLI", a.Provisioner)
	}
}

func TestSetDefault(t *testing.T) {
	original := Default
	defer func() { Default = original }()

	customApp := New(WithConfig(testConfig()))
	SetDefault(customApp)
	if Default != customApp {
		t.Error("SetDefault did not update Default")
	}

	ResetDefault()
	if Default == customApp {
		t.Error("ResetDefault did not create a new Default")
	}
}
