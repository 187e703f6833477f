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

// promptInput is the UserPromptSubmit event Claude Code pipes on stdin.
type promptInput struct {
	SessionID string `json:"session_id"`
	CWD       string `json:"cwd"`
	Prompt    string `json:"prompt"`
}

type hookOutput struct {
	HookSpecificOutput hookSpecificOutput `json:"hookSpecificOutput"`
}

type hookSpecificOutput struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext"`
}

var promptCmd = &cobra.Command{
	Use:    "prompt",
	Short:  "Handle a UserPromptSubmit event (called by Claude Code)",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if out := promptAdvisory(os.Stdin); out != "" {
			fmt.Println(out)
		}
		// A hook that errors would block the user's prompt.
		return nil
	},
}

// promptAdvisory computes the project's live drift and, above the moderate
// band, returns a JSON advisory for the model. Quiet otherwise, and on any
// failure.
func promptAdvisory(stdin io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(stdin, 1<<20))
	if err != nil {
		return ""
	}
	var in promptInput
	if err := json.Unmarshal(data, &in); err != nil || in.CWD == "" {
		return ""
	}

	table := drift.TableNamed(cfg.BucketTable)
	cache := live.New(table)
	if cfg.SessionRoot != "" {
		cache.SessionRoot = cfg.SessionRoot
	}
	snap := cache.CurrentDrift(in.CWD)

	if snap.Level != drift.LevelHigh && snap.Level != drift.LevelVibeDrift {
		return ""
	}

	ctx := fmt.Sprintf(
		"Drift check: this repository's current drift score is %.1f (%s) with %d prompts and +%d/-%d uncommitted lines. "+
			"A lot of AI-generated change is accumulating uncommitted. Consider suggesting the user review and commit before continuing.",
		snap.Score, snap.Level, snap.UserPrompts, snap.LinesAdded, snap.LinesDeleted)

	out, err := json.Marshal(hookOutput{
		HookSpecificOutput: hookSpecificOutput{
			HookEventName:     "UserPromptSubmit",
			AdditionalContext: ctx,
		},
	})
	if err != nil {
		return ""
	}
	return string(out)
}

func init() {
	rootCmd.AddCommand(promptCmd)
}
