package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vibedrift/vibedrift/internal/drift"
	"github.com/vibedrift/vibedrift/internal/live"
)

// statuslineInput is the shape Claude Code pipes to statusline commands.
// Only the workspace directory matters here.
type statuslineInput struct {
	Workspace struct {
		CurrentDir string `json:"current_dir"`
	} `json:"workspace"`
	CWD string `json:"cwd"`
}

var statuslineCmd = &cobra.Command{
	Use:    "statusline",
	Short:  "Render one drift statusline segment (called by Claude Code)",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(renderStatusline(os.Stdin))
		return nil
	},
}

// renderStatusline produces the single output line. It never errors: any
// failure renders the placeholder so the statusline never breaks.
func renderStatusline(stdin io.Reader) string {
	dir := ""
	var in statuslineInput
	if data, err := io.ReadAll(io.LimitReader(stdin, 1<<20)); err == nil {
		if json.Unmarshal(data, &in) == nil {
			dir = in.Workspace.CurrentDir
			if dir == "" {
				dir = in.CWD
			}
		}
	}
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return "--"
		}
	}

	table := drift.TableNamed(cfg.BucketTable)
	cache := live.New(table)
	if cfg.SessionRoot != "" {
		cache.SessionRoot = cfg.SessionRoot
	}
	snap := cache.CurrentDrift(dir)

	// Statusline output goes through a pipe, so emit truecolor escapes
	// directly instead of relying on terminal detection.
	return fmt.Sprintf("%s▲ %.1f %s%s", ansiForeground(snap.Color), snap.Score, snap.Level, ansiReset)
}

const ansiReset = "\x1b[0m"

// ansiForeground converts a #rrggbb hex color into a truecolor escape.
// Unparseable colors render uncolored.
func ansiForeground(hex string) string {
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return ""
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
}

func init() {
	rootCmd.AddCommand(statuslineCmd)
}
