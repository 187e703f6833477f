package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/vibedrift/vibedrift/internal/drift"
	"github.com/vibedrift/vibedrift/internal/live"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the live drift score for the current repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		repoPath, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}

		table := drift.TableNamed(cfg.BucketTable)
		cache := live.New(table)
		if cfg.SessionRoot != "" {
			cache.SessionRoot = cfg.SessionRoot
		}
		snap := cache.CurrentDrift(repoPath)

		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(snap.Color))
		fmt.Printf("  Drift:   %s %s\n",
			style.Render(fmt.Sprintf("%.1f", snap.Score)),
			style.Render("("+string(snap.Level)+")"))
		fmt.Printf("  Prompts: %d since last commit\n", snap.UserPrompts)
		fmt.Printf("  Lines:   +%d / -%d uncommitted\n", snap.LinesAdded, snap.LinesDeleted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
