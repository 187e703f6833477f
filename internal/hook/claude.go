package hook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// InstallClaudeHooks patches a Claude Code settings.json so that every
// submitted prompt runs `exePath prompt` and the status line runs
// `exePath statusline`. Existing unrelated hooks are kept; a previous
// vibedrift entry is replaced in place. A malformed settings file starts
// fresh rather than failing setup.
func InstallClaudeHooks(settingsPath, exePath string) error {
	settings := map[string]interface{}{}
	if data, err := os.ReadFile(settingsPath); err == nil {
		if err := json.Unmarshal(data, &settings); err != nil {
			settings = map[string]interface{}{}
		}
	}

	if err := os.MkdirAll(filepath.Dir(settingsPath), 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	promptEntry := map[string]interface{}{
		"hooks": []interface{}{
			map[string]interface{}{
				"type":    "command",
				"command": fmt.Sprintf("%q prompt", exePath),
			},
		},
	}

	hooks, _ := settings["hooks"].(map[string]interface{})
	if hooks == nil {
		hooks = map[string]interface{}{}
	}
	groups, _ := hooks["UserPromptSubmit"].([]interface{})
	replaced := false
	for i, g := range groups {
		if groupIsOurs(g) {
			groups[i] = promptEntry
			replaced = true
			break
		}
	}
	if !replaced {
		groups = append(groups, promptEntry)
	}
	hooks["UserPromptSubmit"] = groups
	settings["hooks"] = hooks

	settings["statusLine"] = map[string]interface{}{
		"type":    "command",
		"command": fmt.Sprintf("%q statusline", exePath),
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(settingsPath, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// groupIsOurs reports whether a UserPromptSubmit hook group was installed
// by a previous setup run. Matching the command shape rather than the
// binary name keeps reinstalls in place even when the binary was renamed
// or moved.
func groupIsOurs(group interface{}) bool {
	g, ok := group.(map[string]interface{})
	if !ok {
		return false
	}
	entries, _ := g["hooks"].([]interface{})
	for _, e := range entries {
		h, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		cmd, _ := h["command"].(string)
		if strings.HasSuffix(cmd, " prompt") && strings.HasPrefix(cmd, `"`) {
			return true
		}
	}
	return false
}

// ClaudeSettingsPath resolves the settings file location: project-local
// .claude/settings.json by default, the user-wide one with global.
func ClaudeSettingsPath(global bool) (string, error) {
	if global {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".claude", "settings.json"), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, ".claude", "settings.json"), nil
}
