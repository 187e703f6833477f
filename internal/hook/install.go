// Package hook installs the integrations that feed the pipeline: a git
// post-commit hook and the Claude Code prompt/statusline hooks.
package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Marker identifies a post-commit hook written by us, so re-running setup
// updates rather than chains.
const Marker = "# vibedrift-hook"

// InstallGitHook writes gitDir/hooks/post-commit invoking exePath. An
// existing foreign hook is preserved by chaining it after ours. Returns
// the hook path and whether an existing hook was chained.
func InstallGitHook(gitDir, exePath string) (string, bool, error) {
	hooksDir := filepath.Join(gitDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating hooks directory: %w", err)
	}
	hookPath := filepath.Join(hooksDir, "post-commit")

	content := fmt.Sprintf("#!/bin/sh\n%s\n%q commit || true\n", Marker, exePath)

	chained := false
	if existing, err := os.ReadFile(hookPath); err == nil {
		if !strings.Contains(string(existing), Marker) {
			content += "\n# --- original hook ---\n" + string(existing) + "\n"
			chained = true
		}
	}

	if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
		return "", false, fmt.Errorf("writing post-commit hook: %w", err)
	}
	return hookPath, chained, nil
}
