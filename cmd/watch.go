package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/sandpool-ctl/internal/pool"
	"github.com/firefly-engineering/sandpool-ctl/internal/tui"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch sandbox records in a live table",
	Long: `Opens an interactive table of every sandbox record, refreshed on a
fixed interval. Fetch errors are shown in the footer without tearing
down the view.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 10*time.Second, "Refresh interval")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	reporter := newReporter(a)
	fetch := func(ctx context.Context) (*pool.Snapshot, error) {
		return reporter.Snapshot(ctx)
	}
	return tui.RunWatch(fetch, watchInterval)
}
