package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vibedrift/vibedrift/internal/drift"
	"github.com/vibedrift/vibedrift/internal/git"
	"github.com/vibedrift/vibedrift/internal/locate"
	"github.com/vibedrift/vibedrift/internal/stats"
	"github.com/vibedrift/vibedrift/internal/tui"
	"github.com/vibedrift/vibedrift/internal/window"
)

var (
	plainOutput bool
	viewSince   string
	viewUntil   string
	viewProject string
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse a window's drift report interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		since, until, err := window.Parse(viewSince, viewUntil)
		if err != nil {
			return err
		}

		projectPath := viewProject
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

		table := drift.TableNamed(cfg.BucketTable)
		linesAdded, linesDeleted := git.UncommittedStats(git.DefaultRunner, projectPath)
		score := drift.Score(res.Aggregate.UserPrompts, linesAdded, linesDeleted)
		level := table.Level(score)

		report := &tui.Report{
			ProjectPath:  projectPath,
			Since:        since,
			Until:        until,
			Score:        score,
			Level:        level,
			Color:        table.Color(level),
			LinesAdded:   linesAdded,
			LinesDeleted: linesDeleted,
			Aggregate:    res.Aggregate,
			Sessions:     res.Sessions,
		}

		if plainOutput {
			printReport(report)
			return nil
		}
		return tui.Run(report)
	},
}

// printReport writes a plain-text rendition to stdout.
func printReport(r *tui.Report) {
	fmt.Println("## Drift")
	fmt.Printf("  Score:     %.1f (%s)\n", r.Score, r.Level)
	fmt.Printf("  Window:    %s – %s\n",
		r.Since.Format("2006-01-02 15:04:05 MST"),
		r.Until.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("  Prompts:   %d (%d produced code)\n", r.Aggregate.UserPrompts, r.Aggregate.CodePrompts)
	fmt.Printf("  Responses: %d\n", r.Aggregate.AIResponses)
	fmt.Printf("  Lines:     +%d / -%d\n", r.LinesAdded, r.LinesDeleted)
	fmt.Println()

	fmt.Println("## Prompts")
	if len(r.Aggregate.Prompts) == 0 {
		fmt.Println("  (none)")
	} else {
		for _, p := range r.Aggregate.Prompts {
			marker := "chat"
			if p.CodeGenerated {
				marker = "code"
			}
			ts := ""
			if !p.Timestamp.IsZero() {
				ts = p.Timestamp.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("  [%s] (%s) %s\n", ts, marker, p.Text)
		}
	}
	fmt.Println()

	fmt.Println("## Sessions")
	if len(r.Sessions) == 0 {
		fmt.Println("  (none)")
	} else {
		for _, s := range r.Sessions {
			fmt.Printf("  %s  %d prompts, %d responses, %d tool calls\n",
				s.SessionID, s.UserPrompts, s.AIResponses, s.ToolCalls)
		}
	}
}

func init() {
	viewCmd.Flags().BoolVar(&plainOutput, "plain", false, "plain text output instead of TUI")
	viewCmd.Flags().StringVar(&viewSince, "since", "", "window start (relative like 2h, or absolute)")
	viewCmd.Flags().StringVar(&viewUntil, "until", "", "window end (defaults to now)")
	viewCmd.Flags().StringVar(&viewProject, "project", "", "project path (defaults to the working directory)")
	rootCmd.AddCommand(viewCmd)
}
