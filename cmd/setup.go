package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vibedrift/vibedrift/internal/config"
	"github.com/vibedrift/vibedrift/internal/hook"
)

var (
	setupAPIURL string
	setupAPIKey string
	setupGlobal bool
	setupNoGit  bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install the git and Claude Code hooks (re-run anytime)",
	Long: `setup wires vibedrift into the current repository and into Claude Code:

  - a git post-commit hook that records each commit's drift
  - a Claude Code UserPromptSubmit hook that surfaces drift as you work
  - a Claude Code statusline showing the live score

Existing foreign hooks are chained, not overwritten. Re-running setup
refreshes the installed paths in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup()
	},
}

func runSetup() error {
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving own binary path: %w", err)
	}

	// Persist API settings and mint a client id on first run.
	global, err := config.LoadGlobal()
	if err != nil {
		return fmt.Errorf("loading global config: %w", err)
	}
	changed := false
	if setupAPIURL != "" && setupAPIURL != global.APIURL {
		global.APIURL = setupAPIURL
		changed = true
	}
	if setupAPIKey != "" && setupAPIKey != global.APIKey {
		global.APIKey = setupAPIKey
		changed = true
	}
	if global.ClientID == "" {
		global.ClientID = uuid.NewString()
		changed = true
	}
	if changed {
		if err := config.SaveGlobal(*global); err != nil {
			return fmt.Errorf("saving global config: %w", err)
		}
		fmt.Println("  ✓ Config saved.")
	}

	// Git post-commit hook, unless this is not a repo or the user opted out.
	if !setupNoGit {
		gitDir := filepath.Join(".", ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			path, chained, err := hook.InstallGitHook(gitDir, exePath)
			if err != nil {
				return fmt.Errorf("installing git hook: %w", err)
			}
			if chained {
				fmt.Printf("  ✓ Git post-commit hook installed (existing hook chained): %s\n", path)
			} else {
				fmt.Printf("  ✓ Git post-commit hook installed: %s\n", path)
			}
		} else {
			fmt.Println("  ⚠ Not a git repository; skipping the post-commit hook.")
			fmt.Println("    Re-run 'vibedrift setup' from a repository root to install it.")
		}
	}

	// Claude Code hooks + statusline.
	settingsPath, err := hook.ClaudeSettingsPath(setupGlobal)
	if err != nil {
		return fmt.Errorf("locating Claude settings: %w", err)
	}
	if err := hook.InstallClaudeHooks(settingsPath, exePath); err != nil {
		return fmt.Errorf("installing Claude hooks: %w", err)
	}
	fmt.Printf("  ✓ Claude Code hooks installed: %s\n", settingsPath)

	log.Debug().Str("exe", exePath).Str("settings", settingsPath).Msg("setup complete")
	fmt.Println("  Setup complete. Commit as usual; run 'vibedrift status' anytime.")
	return nil
}

func init() {
	setupCmd.Flags().StringVar(&setupAPIURL, "api-url", "", "dashboard URL to upload commit records to")
	setupCmd.Flags().StringVar(&setupAPIKey, "api-key", "", "dashboard API key")
	setupCmd.Flags().BoolVar(&setupGlobal, "global", false, "install Claude hooks in ~/.claude instead of the project")
	setupCmd.Flags().BoolVar(&setupNoGit, "no-git-hook", false, "skip the git post-commit hook")
	rootCmd.AddCommand(setupCmd)
}
