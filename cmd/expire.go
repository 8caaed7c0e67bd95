package cmd

import (
	"github.com/spf13/cobra"
)

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Mark aged sandboxes as expired",
	Long: `Sweeps every configured pool group and demotes sandboxes past their
age policy to Expired. Extended sandboxes get a longer allowance;
immortal sandboxes are never expired. Developer sandboxes expire on a
per-record retention measured in days.

Expired sandboxes are deleted later by reclaim.`,
	Args: cobra.NoArgs,
	RunE: runExpire,
}

func init() {
	rootCmd.AddCommand(expireCmd)
}

func runExpire(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	sweeper := newSweeper(a)
	total := 0
	for _, def := range a.Config.Pools {
		n, err := sweeper.Sweep(cmd.Context(), def.Pool, def.Branch, def.Count)
		if err != nil {
			return err
		}
		total += n
	}

	n, err := sweeper.SweepDevelopers(cmd.Context())
	if err != nil {
		return err
	}
	total += n

	logSuccess("Expired %d sandbox(es)", total)
	return nil
}
