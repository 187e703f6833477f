// Package locate discovers candidate session transcript files for a
// project directory and time window. The direct directory scan is the
// fast, always-correct path; the optional index manifest registers
// session files living outside the directory naming convention.
package locate

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// sessionExt is the file extension of session transcripts.
const sessionExt = ".jsonl"

// SessionFile is one located candidate transcript.
type SessionFile struct {
	SessionID string
	Path      string
}

// DefaultRoot returns the directory Claude Code keeps per-project session
// logs under.
func DefaultRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claude", "projects")
}

// EncodeProjectPath translates an absolute project path into the log
// directory naming convention, e.g. /Users/foo/dev -> -Users-foo-dev.
func EncodeProjectPath(projectPath string) string {
	return strings.ReplaceAll(projectPath, "/", "-")
}

// FindProjectDirs selects every subdirectory of root whose encoded name
// prefix-matches the project path in either direction. This catches both
// the project's own log directory and any ancestor-path directory the
// assistant may have been launched from.
func FindProjectDirs(root, projectPath string) []string {
	if root == "" {
		return nil
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	encoded := EncodeProjectPath(projectPath)
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(encoded, name) || strings.HasPrefix(name, encoded) {
			dirs = append(dirs, filepath.Join(root, name))
		}
	}
	return dirs
}

// SessionsInWindow lists session files across the given project directories
// that overlap [since, until]: still being written after the window opened
// (modified >= since) and already existing before it closed
// (created <= until). Results are deduplicated by session id, first
// occurrence winning. Warnings describe directories or manifests that
// contributed nothing; they are informational, never fatal.
func SessionsInWindow(projectDirs []string, since, until time.Time) ([]SessionFile, []string) {
	var (
		sessions []SessionFile
		warnings []string
		seen     = make(map[string]bool)
	)

	for _, dir := range projectDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			warnings = append(warnings, "unreadable project directory "+dir+": "+err.Error())
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), sessionExt) {
				continue
			}
			full := filepath.Join(dir, e.Name())
			info, err := os.Stat(full)
			if err != nil {
				continue
			}
			if info.ModTime().Before(since) || fileCreateTime(info).After(until) {
				continue
			}
			id := strings.TrimSuffix(e.Name(), sessionExt)
			if seen[id] {
				continue
			}
			seen[id] = true
			sessions = append(sessions, SessionFile{SessionID: id, Path: full})
		}

		fromIndex, warn := sessionsFromIndex(dir, since, until, seen)
		if warn != "" {
			warnings = append(warnings, warn)
		}
		sessions = append(sessions, fromIndex...)
	}

	return sessions, warnings
}
