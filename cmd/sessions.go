package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vibedrift/vibedrift/internal/locate"
	"github.com/vibedrift/vibedrift/internal/stats"
	"github.com/vibedrift/vibedrift/internal/window"
)

var (
	sessionsSince   string
	sessionsUntil   string
	sessionsProject string
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List Claude Code sessions for a time window",
	Long: `sessions lists this project's Claude Code sessions overlapping a time
window, with per-session prompt and tool-call counts.

Times accept relative durations (30m, 2h, 7d, 1w) or absolute stamps
(RFC 3339, "2006-01-02T15:04" or "2006-01-02"). The window defaults to
the last 24 hours.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		since, until, err := window.Parse(sessionsSince, sessionsUntil)
		if err != nil {
			return err
		}

		projectPath := sessionsProject
		if projectPath == "" {
			if projectPath, err = os.Getwd(); err != nil {
				return fmt.Errorf("resolving working directory: %w", err)
			}
		}

		root := cfg.SessionRoot
		if root == "" {
			root = locate.DefaultRoot()
		}
		res := stats.Aggregate(root, projectPath, since, until)
		for _, w := range res.Warnings {
			log.Warn().Msg(w)
		}

		if len(res.Sessions) == 0 {
			fmt.Println("  No sessions in window.")
			return nil
		}

		idStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
		dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		for _, s := range res.Sessions {
			span := ""
			if s.StartTime != nil && s.EndTime != nil {
				span = s.StartTime.Format("2006-01-02 15:04") + " – " + s.EndTime.Format("15:04")
			}
			fmt.Printf("  %s  %s\n", idStyle.Render(s.SessionID), dimStyle.Render(span))
			fmt.Printf("      %d prompts (%d code), %d responses, %d tool calls\n",
				s.UserPrompts, s.CodePrompts, s.AIResponses, s.ToolCalls)
		}
		fmt.Printf("\n  Total: %d sessions, %d prompts, %d interactions\n",
			len(res.Sessions), res.Aggregate.UserPrompts, res.Aggregate.TotalInteractions)
		return nil
	},
}

func init() {
	sessionsCmd.Flags().StringVar(&sessionsSince, "since", "", "window start (relative like 2h, or absolute)")
	sessionsCmd.Flags().StringVar(&sessionsUntil, "until", "", "window end (defaults to now)")
	sessionsCmd.Flags().StringVar(&sessionsProject, "project", "", "project path (defaults to the working directory)")
	rootCmd.AddCommand(sessionsCmd)
}
