package cmd

import (
	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Promote sandboxes whose provisioning has completed",
	Long: `Runs one reconcile pass over every InProgress record. Completed pool
sandboxes become Available after best-effort user activation; completed
developer sandboxes become Assigned after user setup, and the requester
is notified on their issue.

Safe to run repeatedly; settled records are never touched.`,
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	if err := newWatcher(a).Reconcile(cmd.Context()); err != nil {
		return err
	}
	logSuccess("Reconcile pass complete")
	return nil
}
