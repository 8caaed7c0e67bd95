package cmd

import (
	"github.com/spf13/cobra"
)

var provisionCount int

var provisionCmd = &cobra.Command{
	Use:   "provision [pool]",
	Short: "Request new sandboxes for configured pools",
	Long: `Submits creation requests to the external provisioner and records
each accepted request as InProgress. Completion is asynchronous; run
reconcile to promote finished sandboxes into the pool.

Without arguments every configured pool is topped up to its desired
count. With a pool name only that pool's definitions are used, and
--count overrides the configured count.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProvision,
}

func init() {
	provisionCmd.Flags().IntVar(&provisionCount, "count", 0, "Number of sandboxes to request (defaults to the configured count)")
	rootCmd.AddCommand(provisionCmd)
}

func runProvision(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	poolName := ""
	if len(args) > 0 {
		poolName = args[0]
	}
	defs, err := poolsFor(a.Config, poolName, "")
	if err != nil {
		return err
	}

	prov := newProvision(a)
	for _, def := range defs {
		count := def.Count
		if provisionCount > 0 {
			count = provisionCount
		}
		if count <= 0 {
			continue
		}

		names, err := prov.Request(cmd.Context(), def, count)
		if err != nil {
			return err
		}
		logSuccess("Requested %d sandbox(es) for %s/%s", len(names), def.Pool, def.Branch)
		for _, name := range names {
			logInfo("  %s", name)
		}
	}
	return nil
}
