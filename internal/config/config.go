package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/firefly-engineering/sandpool-ctl/internal/errors"
)

const (
	DefaultConfigPath = "/etc/sandpool/sandpool.toml"
	DefaultStateDir   = "/var/lib/sandpool"
	DefaultTokenEnv   = "GITHUB_TOKEN"
)

// groupNameRegex validates pool and branch names. Names become segments
// of store keys, so underscores are reserved for pools only (the parser
// treats branch and discriminator as single segments).
var groupNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

// poolNameRegex additionally allows underscores, which the key parser
// supports in the pool position.
var poolNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// StoreConfig locates the record store.
type StoreConfig struct {
	// Repo is the GitHub repository ("owner/name") whose Actions
	// variables hold the records.
	Repo string `toml:"repo"`

	// TokenEnv names the environment variable carrying the API token.
	TokenEnv string `toml:"token_env"`

	// APIBaseURL overrides the API endpoint (GitHub Enterprise).
	APIBaseURL string `toml:"api_base_url"`
}

// Token reads the API token from the configured environment variable.
func (s StoreConfig) Token() string {
	return os.Getenv(s.TokenEnv)
}

// ProvisionerConfig locates the external provisioner CLI.
type ProvisionerConfig struct {
	// Command is the shell-quoted base command.
	Command string `toml:"command"`

	// DevHub is the control org username.
	DevHub string `toml:"devhub"`

	// ActivateCommand optionally names the user (de)activation command
	// run after a pool sandbox completes provisioning.
	ActivateCommand string `toml:"activate_command"`
}

// Pool is one declarative pool target.
type Pool struct {
	Pool   string `toml:"pool"`
	Branch string `toml:"branch"`

	// Count is the desired steady-state population. Reported by the
	// expiry sweep for observability; it does not cap expiry.
	Count int `toml:"count"`

	// Source names the environment new sandboxes are cloned from;
	// "production" provisions fresh environments.
	Source string `toml:"source"`

	// UsersToBeActivated lists users toggled in each sandbox after
	// provisioning completes.
	UsersToBeActivated []string `toml:"users_to_be_activated"`
}

// Config is the full sandpool-ctl configuration.
type Config struct {
	StateDir    string            `toml:"state_dir"`
	Store       StoreConfig       `toml:"store"`
	Provisioner ProvisionerConfig `toml:"provisioner"`
	Pools       []Pool            `toml:"pools"`
}

// Load reads, defaults, and validates the configuration at path.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to load %s", path), err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.StateDir == "" {
		c.StateDir = DefaultStateDir
	}
	if c.Store.TokenEnv == "" {
		c.Store.TokenEnv = DefaultTokenEnv
	}
	for i := range c.Pools {
		if c.Pools[i].Source == "" {
			c.Pools[i].Source = "production"
		}
	}
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	if c.Store.Repo == "" {
		return errors.ConfigError("store.repo is required", nil)
	}
	if parts := strings.Split(c.Store.Repo, "/"); len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return errors.ConfigError(fmt.Sprintf("store.repo %q must be owner/name", c.Store.Repo), nil)
	}
	if c.Provisioner.Command == "" {
		return errors.ConfigError("provisioner.command is required", nil)
	}

	seen := make(map[string]bool)
	for _, p := range c.Pools {
		if err := ValidatePoolName(p.Pool); err != nil {
			return err
		}
		if err := ValidateBranchName(p.Branch); err != nil {
			return err
		}
		if p.Count < 0 {
			return errors.ConfigError(fmt.Sprintf("pool %s/%s has negative count", p.Pool, p.Branch), nil)
		}

		group := groupKey(p.Pool, p.Branch)
		if seen[group] {
			return errors.ConfigError(fmt.Sprintf("duplicate pool definition %s/%s", p.Pool, p.Branch), nil)
		}
		seen[group] = true
	}
	return nil
}

// PoolFor returns the pool definition for a pool+branch group,
// case-insensitively.
func (c *Config) PoolFor(pool, branch string) (*Pool, bool) {
	want := groupKey(pool, branch)
	for i := range c.Pools {
		if groupKey(c.Pools[i].Pool, c.Pools[i].Branch) == want {
			return &c.Pools[i], true
		}
	}
	return nil, false
}

func groupKey(pool, branch string) string {
	return strings.ToUpper(pool) + "/" + strings.ToUpper(branch)
}

// ValidatePoolName checks that a pool name is usable as a key segment.
func ValidatePoolName(name string) error {
	if name == "" {
		return errors.ConfigError("pool name cannot be empty", nil)
	}
	if !poolNameRegex.MatchString(name) {
		return errors.ConfigError(fmt.Sprintf("invalid pool name %q: must start with a letter and contain only letters, digits, underscores, or hyphens", name), nil)
	}
	return nil
}

// ValidateBranchName checks that a branch name is usable as a key
// segment. Unlike pool names, underscores are rejected: the key parser
// treats the branch as a single segment.
func ValidateBranchName(name string) error {
	if name == "" {
		return errors.ConfigError("branch name cannot be empty", nil)
	}
	if !groupNameRegex.MatchString(name) {
		return errors.ConfigError(fmt.Sprintf("invalid branch name %q: must start with a letter and contain only letters, digits, or hyphens", name), nil)
	}
	return nil
}
