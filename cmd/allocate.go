package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/sandpool-ctl/internal/pool"
)

var (
	allocateTimeout  time.Duration
	allocateFailFast bool
)

var allocateCmd = &cobra.Command{
	Use:   "allocate <pool> <branch> <issue>",
	Short: "Claim a sandbox from a pool for a requester",
	Long: `Claims an Available sandbox from the pool+branch group and binds it
to the requester identity. A requester holding a sandbox that is still
in use waits for its release, up to --timeout.

The claimed sandbox name is printed to stdout so callers can capture
it; all narration goes to stderr.`,
	Args: cobra.ExactArgs(3),
	RunE: runAllocate,
}

func init() {
	allocateCmd.Flags().DurationVar(&allocateTimeout, "timeout", 30*time.Minute, "Maximum time to wait for a sandbox to free up")
	allocateCmd.Flags().BoolVar(&allocateFailFast, "fail-fast", false, "Fail on timeout instead of falling back to a stale expired sandbox")
	rootCmd.AddCommand(allocateCmd)
}

func runAllocate(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	req := pool.AllocateRequest{
		Pool:      args[0],
		Branch:    args[1],
		Issue:     args[2],
		MaxWait:   allocateTimeout,
		OnTimeout: pool.ReturnStaleExpired,
	}
	if allocateFailFast {
		req.OnTimeout = pool.FailFast
	}

	name, err := newAllocator(a).Allocate(cmd.Context(), req)
	if err != nil {
		return err
	}

	logSuccess("Allocated sandbox %s for issue %s", name, req.Issue)
	fmt.Fprintln(cmd.OutOrStdout(), name)
	return nil
}
