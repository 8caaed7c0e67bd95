package cmd

import (
	"github.com/spf13/cobra"
)

var releaseReturnToPool bool

var releaseCmd = &cobra.Command{
	Use:   "release <issue>",
	Short: "Release every sandbox bound to a requester",
	Long: `Releases the sandboxes bound to the given requester identity. By
default they are retired (Expired, to be deleted by reclaim) with the
binding preserved for audit. With --return-to-pool they are instead
made Available again for the next requester.`,
	Args: cobra.ExactArgs(1),
	RunE: runRelease,
}

func init() {
	releaseCmd.Flags().BoolVar(&releaseReturnToPool, "return-to-pool", false, "Return sandboxes to the pool instead of retiring them")
	rootCmd.AddCommand(releaseCmd)
}

func runRelease(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	names, err := newReleaser(a).Release(cmd.Context(), args[0], releaseReturnToPool)
	if err != nil {
		return err
	}

	verb := "Retired"
	if releaseReturnToPool {
		verb = "Returned"
	}
	logSuccess("%s %d sandbox(es) for issue %s", verb, len(names), args[0])
	for _, name := range names {
		logInfo("  %s", name)
	}
	return nil
}
