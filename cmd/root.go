package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vibedrift/vibedrift/internal/config"
	"github.com/vibedrift/vibedrift/internal/logging"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "vibedrift",
	Short: "Score how much of your git activity is AI-assisted drift",
	Long: `vibedrift correlates Claude Code session transcripts with git commits
and scores how much unreviewed AI-generated change is flowing into the repo.

Run "vibedrift setup" once per machine to install the git and Claude Code
hooks, then check "vibedrift status" any time.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(verbose)

		// Load and merge config files.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)
		return nil
	},
	// Hook entry points must never be noisy with usage text on failure.
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}
