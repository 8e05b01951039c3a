package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/buildinfo"
	"github.com/fintrack-dev/fintrack/internal/config"
)

// rootOptions carries persistent flags and injectable dependencies to every
// subcommand.
type rootOptions struct {
	configPath string
	now        func() time.Time
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&rootOptions{now: time.Now})
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "fintrack",
		Short:   "Personal finance tracker with bank statement import",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	defaultConfig := os.Getenv("FINTRACK_CONFIG")
	if defaultConfig == "" {
		defaultConfig = config.FileName
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfig, "path to fintrack.yaml")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newImportCommand(opts),
		newAddCommand(opts),
		newListCommand(opts),
		newDeleteCommand(opts),
		newBreakdownCommand(opts),
		newAdviceCommand(opts),
		newSettingsCommand(opts),
		newRateCommand(opts),
		newExportCommand(opts),
		newRestoreCommand(opts),
		newDebtCommand(opts),
		newGoalCommand(opts),
		newHistoryCommand(opts),
	)

	return rootCmd
}
