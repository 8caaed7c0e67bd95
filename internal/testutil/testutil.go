package testutil

import (
	"testing"
	"time"

	"github.com/firefly-engineering/sandpool-ctl/internal/app"
	"github.com/firefly-engineering/sandpool-ctl/internal/audit"
	"github.com/firefly-engineering/sandpool-ctl/internal/clock"
	"github.com/firefly-engineering/sandpool-ctl/internal/config"
	"github.com/firefly-engineering/sandpool-ctl/internal/notify"
	"github.com/firefly-engineering/sandpool-ctl/internal/provisioner"
	"github.com/firefly-engineering/sandpool-ctl/internal/record"
	"github.com/firefly-engineering/sandpool-ctl/internal/store"
)

// BaseTime is the fixed instant test environments start at.
var BaseTime = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

// TestEnv holds the test environment.
type TestEnv struct {
	T           *testing.T
	TmpDir      string
	Config      *config.Config
	Store       *store.Memory
	Provisioner *provisioner.Mock
	Notifier    *notify.Mock
	Clock       *clock.Fake
	App         *app.App
	cleanup     func()
}

// NewTestEnv creates a test environment with every collaborator mocked
// and installs it as the app default.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	cfg := &config.Config{
		StateDir: tmpDir,
		Store: config.StoreConfig{
			Repo:     "acme/platform",
			TokenEnv: "SANDPOOL_TEST_TOKEN",
		},
		Provisioner: config.ProvisionerConfig{
			Command: "sfp",
			DevHub:  "devhub@acme.com",
		},
		Pools: []config.Pool{
			{Pool: "QA", Branch: "MAIN", Count: 3, Source: "production", UsersToBeActivated: []string{"ci.bot"}},
		},
	}

	mem := store.NewMemory()
	mem.Clock = func() time.Time { return BaseTime }
	prov := provisioner.NewMock()
	notifier := notify.NewMock()
	fake := clock.NewFake(BaseTime)

	testApp := app.New(
		app.WithConfig(cfg),
		app.WithStore(mem),
		app.WithProvisioner(prov),
		app.WithNotifier(notifier),
		app.WithClock(fake),
		app.WithAudit(audit.NewLogger(tmpDir)),
	)

	originalDefault := app.Default
	app.SetDefault(testApp)

	return &TestEnv{
		T:           t,
		TmpDir:      tmpDir,
		Config:      cfg,
		Store:       mem,
		Provisioner: prov,
		Notifier:    notifier,
		Clock:       fake,
		App:         testApp,
		cleanup: func() {
			app.SetDefault(originalDefault)
		},
	}
}

// Cleanup restores the original app default.
func (e *TestEnv) Cleanup() {
	if e.cleanup != nil {
		e.cleanup()
	}
}

// AddCISandbox seeds a CI pool record and returns its store key.
func (e *TestEnv) AddCISandbox(pool, branch, name string, status record.Status) string {
	e.T.Helper()
	sb := &record.Sandbox{
		Name:      name,
		Status:    status,
		IsActive:  status == record.StatusAvailable || status == record.StatusInUse,
		CreatedAt: record.Now(BaseTime.Add(-time.Hour)),
	}
	return e.seed(record.Key{Pool: pool, Branch: branch, Discriminator: name, Kind: record.KindCIPool}, sb)
}

// AddDeveloperSandbox seeds a developer record and returns its store key.
func (e *TestEnv) AddDeveloperSandbox(pool, branch, name, issue, requester string, status record.Status) string {
	e.T.Helper()
	sb := &record.Sandbox{
		Name:      name,
		Status:    status,
		IsActive:  status != record.StatusExpired,
		Issue:     issue,
		Requester: requester,
		Email:     requester + "@acme.com",
	}
	return e.seed(record.Key{Pool: pool, Branch: branch, Discriminator: name, Kind: record.KindDeveloper}, sb)
}

// SeedRecord seeds an arbitrary record under its canonical key.
func (e *TestEnv) SeedRecord(key record.Key, sb *record.Sandbox) string {
	e.T.Helper()
	return e.seed(key, sb)
}

func (e *TestEnv) seed(key record.Key, sb *record.Sandbox) string {
	value, err := sb.Encode()
	if err != nil {
		e.T.Fatalf("failed to encode record: %v", err)
	}
	e.Store.Seed(key.String(), value)
	return key.String()
}

// GetSandbox decodes the current record under key, or nil when absent.
func (e *TestEnv) GetSandbox(key string) *record.Sandbox {
	e.T.Helper()
	entry, ok := e.Store.Get(key)
	if !ok {
		return nil
	}
	sb, err := record.Decode(entry.Value)
	if err != nil {
		e.T.Fatalf("failed to decode record %s: %v", key, err)
	}
	return sb
}
