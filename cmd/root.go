package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/sandpool-ctl/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "sandpool-ctl",
	Short: "CI sandbox pool allocation and lifecycle CLI",
	Long: `sandpool-ctl manages pools of pre-provisioned CI sandboxes and
on-demand developer sandboxes over a shared record store.

Pool sandboxes cycle through a fixed lifecycle:
  - provision requests new environments (InProgress)
  - reconcile promotes completed ones (Available / Assigned)
  - allocate claims one for a requester (InUse)
  - release returns or retires it
  - expire and reclaim retire aged sandboxes and delete them`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "/etc/sandpool/config.toml", "Path to the configuration file")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	_          = logging.UserError // reserved for future use
)
