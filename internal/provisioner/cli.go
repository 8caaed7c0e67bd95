package provisioner

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/sandpool-ctl/internal/errors"
	"github.com/firefly-engineering/sandpool-ctl/internal/logging"
	"github.com/firefly-engineering/sandpool-ctl/internal/system"
)

// Exit code the provisioner CLI uses for "request submitted, completion
// pending". Treated as success for asynchronous creation.
const exitAsyncAccepted = 68

// Error names the provisioner CLI reports for an environment that no
// longer exists on the backend.
var alreadyGoneErrors = map[string]bool{
	"SandboxProcessResultLengthError": true,
	"SandboxNotFound":                 true,
}

// CLI drives the external provisioner through its command-line tool.
type CLI struct {
	base     []string // parsed base command, e.g. ["npx", "sfp"]
	devhub   string   // control org username passed as -v
	activate []string // parsed user-activation command, may be empty
	exec     system.CommandExecutor
}

// CLIOptions configures a CLI provisioner.
type CLIOptions struct {
	// Command is the shell-quoted base command of the provisioner CLI.
	Command string

	// DevHub is the control org username appended as "-v <devhub>".
	DevHub string

	// ActivateCommand is the optional shell-quoted command used to
	// (de)activate users in a freshly provisioned pool sandbox. It is
	// invoked with the user list and sandbox name appended.
	ActivateCommand string

	// Executor overrides command execution, for tests.
	Executor system.CommandExecutor
}

// NewCLI creates a CLI provisioner from options.
func NewCLI(opts CLIOptions) (*CLI, error) {
	base, err := shellquote.Split(opts.Command)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("invalid provisioner command %q", opts.Command), err)
	}
	if len(base) == 0 {
		return nil, errors.ConfigError("provisioner command is empty", nil)
	}

	var activate []string
	if opts.ActivateCommand != "" {
		activate, err = shellquote.Split(opts.ActivateCommand)
		if err != nil {
			return nil, errors.ConfigError(fmt.Sprintf("invalid activate command %q", opts.ActivateCommand), err)
		}
	}

	executor := opts.Executor
	if executor == nil {
		executor = system.DefaultExecutor()
	}

	return &CLI{
		base:     base,
		devhub:   opts.DevHub,
		activate: activate,
		exec:     executor,
	}, nil
}

func (c *CLI) run(ctx context.Context, args ...string) ([]byte, error) {
	full := append(append([]string{}, c.base[1:]...), args...)
	return c.exec.Execute(ctx, c.base[0], full...)
}

// Create submits an asynchronous sandbox creation request.
func (c *CLI) Create(ctx context.Context, req CreateRequest) error {
	args := []string{
		"sandbox", "create",
		"--async",
		"--name", req.Name,
		"--description", fmt.Sprintf("CI sandbox auto-provisioned for %s", req.Pool),
		"-v", c.devhub,
		"--json",
	}
	if req.Source != "" && req.Source != "production" {
		args = append(args, "--source", req.Source)
	}

	out, err := c.run(ctx, args...)
	if err != nil {
		// The CLI signals "accepted, still provisioning" with a
		// dedicated exit code.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == exitAsyncAccepted {
			logging.Debug("creation request accepted asynchronously", "sandbox", req.Name)
			return nil
		}
		logging.Debug("creation request failed", "sandbox", req.Name, "output", string(out))
		return errors.ProvisionerError("create", err)
	}
	return nil
}

// statusEntry is one sandbox in the provisioner's status report.
type statusEntry struct {
	SandboxName string `json:"SandboxName"`
	Status      string `json:"Status"`
}

// Statuses queries the provisioner for the state of every sandbox.
func (c *CLI) Statuses(ctx context.Context) (map[string]State, error) {
	out, err := c.run(ctx, "sandbox", "status", "-v", c.devhub, "--json")
	if err != nil {
		return nil, errors.ProvisionerError("status", err)
	}

	var entries []statusEntry
	if err := json.Unmarshal(out, &entries); err != nil {
		return nil, errors.ProvisionerError("status", fmt.Errorf("unparseable status output: %w", err))
	}

	states := make(map[string]State, len(entries))
	for _, e := range entries {
		switch e.Status {
		case "Completed":
			states[e.SandboxName] = StateCompleted
		case "Failed":
			states[e.SandboxName] = StateFailed
		default:
			states[e.SandboxName] = StateInProgress
		}
	}
	return states, nil
}

// deleteOutput is the provisioner CLI's JSON response to a delete.
type deleteOutput struct {
	Deleted bool `json:"deleted"`
	Error   *struct {
		Name string `json:"name"`
	} `json:"error"`
}

// Delete removes the backing environment for a sandbox.
func (c *CLI) Delete(ctx context.Context, name string) (DeleteResult, error) {
	out, err := c.run(ctx, "sandbox", "delete", "-n", name, "-v", c.devhub, "--json")

	// The CLI reports structured errors on stdout even when it exits
	// non-zero, so the output is parsed before the exit status.
	var result deleteOutput
	if jsonErr := json.Unmarshal(out, &result); jsonErr == nil {
		if result.Error != nil {
			if alreadyGoneErrors[result.Error.Name] {
				logging.Debug("sandbox already deleted on backend", "sandbox", name)
				return AlreadyGone, nil
			}
			return 0, errors.ProvisionerError("delete", fmt.Errorf("%s", result.Error.Name))
		}
		if result.Deleted {
			return Deleted, nil
		}
	}

	if err != nil {
		return 0, errors.ProvisionerError("delete", err)
	}
	return 0, errors.ProvisionerError("delete", fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(out))))
}

// userOutput is the provisioner CLI's JSON response to user creation.
type userOutput struct {
	Username      string `json:"username"`
	PasswordReset bool   `json:"isTargetUserPasswordReset"`
}

// SetupUser provisions a user account in a developer sandbox.
func (c *CLI) SetupUser(ctx context.Context, sandbox, email string) (UserResult, error) {
	out, err := c.run(ctx, "user", "create", "-o", sandbox, "-e", email, "-r", "--json")
	if err != nil {
		return UserResult{}, errors.ProvisionerError("user create", err)
	}

	var result userOutput
	if err := json.Unmarshal(out, &result); err != nil {
		return UserResult{}, errors.ProvisionerError("user create", fmt.Errorf("unparseable output: %w", err))
	}
	return UserResult{Username: result.Username, PasswordReset: result.PasswordReset}, nil
}

// ActivateUsers toggles the given user list in a pool sandbox using the
// configured activation command. A missing command is a no-op.
func (c *CLI) ActivateUsers(ctx context.Context, sandbox string, users []string) error {
	if len(c.activate) == 0 {
		return nil
	}

	// Each user is scoped to the sandbox, e.g. "ci.bot@839201123".
	scoped := make([]string, len(users))
	for i, u := range users {
		scoped[i] = fmt.Sprintf("%s@%s", u, sandbox)
	}

	args := append(append([]string{}, c.activate[1:]...), strings.Join(scoped, ","), sandbox)
	if _, err := c.exec.Execute(ctx, c.activate[0], args...); err != nil {
		return errors.ProvisionerError("activate users", err)
	}
	return nil
}
