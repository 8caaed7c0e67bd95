package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/sandpool-ctl/internal/pool"
)

var statusOutputDir string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show every sandbox record",
	Long: `Lists every CI and developer sandbox record with its normalized
status. With --output-dir the snapshot is also written as
ci_sandboxes.json and developer_sandboxes.json for dashboards.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusOutputDir, "output-dir", "", "Directory to write JSON snapshot artifacts into")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	snap, err := newReporter(a).Snapshot(cmd.Context())
	if err != nil {
		return err
	}

	if len(snap.CI) == 0 && len(snap.Developer) == 0 {
		logInfo("No sandbox records found. Create some with: sandpool-ctl provision")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDOMAIN\tBRANCH\tTYPE\tSTATUS\tISSUE\tASSIGNED AT")
	fmt.Fprintln(w, "----\t------\t------\t----\t------\t-----\t-----------")
	for _, row := range append(snap.CI, snap.Developer...) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Name, row.Domain, row.Branch, row.Type, row.Status, row.Issue, row.AssignedAt)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if statusOutputDir != "" {
		return writeSnapshotArtifacts(statusOutputDir, snap)
	}
	return nil
}

// writeSnapshotArtifacts persists the snapshot as the two JSON files
// downstream dashboards consume.
func writeSnapshotArtifacts(dir string, snap *pool.Snapshot) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	artifacts := map[string]any{
		"ci_sandboxes.json":        snap.CI,
		"developer_sandboxes.json": snap.Developer,
	}
	for name, rows := range artifacts {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return err
		}
	}
	return nil
}
