package cmd

import (
	"github.com/spf13/cobra"
)

var reclaimCmd = &cobra.Command{
	Use:   "reclaim",
	Short: "Delete expired sandboxes and their records",
	Long: `Deprovisions every Expired sandbox through the external provisioner
and removes its record once deletion succeeds. A sandbox that is
already gone still has its record cleaned up. Deprovisioning failures
leave the record in place for the next pass.`,
	Args: cobra.NoArgs,
	RunE: runReclaim,
}

func init() {
	rootCmd.AddCommand(reclaimCmd)
}

func runReclaim(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	n, err := newReclaimer(a).Reclaim(cmd.Context())
	if err != nil {
		return err
	}
	logSuccess("Reclaimed %d sandbox(es)", n)
	return nil
}
