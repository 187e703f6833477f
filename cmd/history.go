package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/vibedrift/vibedrift/internal/drift"
	"github.com/vibedrift/vibedrift/internal/store"
)

var (
	historyLimit   int
	historyProject string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently recorded commits and their drift scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		project := historyProject
		if project == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("resolving working directory: %w", err)
			}
			project = filepath.Base(wd)
		}

		dbPath, err := cfg.HistoryDBPath()
		if err != nil {
			return err
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		defer st.Close()

		rows, err := st.RecentCommits(project, historyLimit)
		if err != nil {
			return fmt.Errorf("querying history: %w", err)
		}
		if len(rows) == 0 {
			fmt.Println("  No recorded commits yet. Run 'vibedrift setup' to install the hook.")
			return nil
		}

		table := drift.TableNamed(cfg.BucketTable)
		hashStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
		for _, r := range rows {
			scoreStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(table.Color(r.Level)))
			fmt.Printf("  %s  %s %-10s %3d prompts +%d/-%d  %s\n",
				hashStyle.Render(shortHash(r.CommitHash)),
				scoreStyle.Render(fmt.Sprintf("%4.1f", r.Score)),
				scoreStyle.Render(string(r.Level)),
				r.UserPrompts, r.LinesAdded, r.LinesDeleted,
				truncateMessage(r.Message))
		}
		return nil
	},
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

func truncateMessage(msg string) string {
	runes := []rune(msg)
	if len(runes) > 60 {
		return string(runes[:60]) + "…"
	}
	return msg
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of commits to show")
	historyCmd.Flags().StringVar(&historyProject, "project", "", "project name (defaults to the working directory's base name)")
	rootCmd.AddCommand(historyCmd)
}
