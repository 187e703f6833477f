package locate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// indexFileName is the optional per-directory session index manifest.
const indexFileName = "sessions-index.json"

// sessionIndex mirrors the manifest schema. Extra fields are ignored.
type sessionIndex struct {
	Version      int          `json:"version"`
	Entries      []indexEntry `json:"entries"`
	OriginalPath string       `json:"originalPath"`
}

type indexEntry struct {
	SessionID string `json:"sessionId"`
	FullPath  string `json:"fullPath"`
	Created   string `json:"created"`
	Modified  string `json:"modified"`
}

// sessionsFromIndex reads dir's manifest and returns window-overlapping
// entries whose files live outside dir (in-directory files were already
// covered by the direct scan). The overlap test uses the manifest's own
// created/modified timestamps since the file may not be local. A missing
// manifest is normal; a malformed one is ignored with a warning.
func sessionsFromIndex(dir string, since, until time.Time, seen map[string]bool) ([]SessionFile, string) {
	data, err := os.ReadFile(filepath.Join(dir, indexFileName))
	if err != nil {
		return nil, ""
	}

	var idx sessionIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, "malformed session index in " + dir + ": " + err.Error()
	}

	var sessions []SessionFile
	for _, entry := range idx.Entries {
		if entry.SessionID == "" || seen[entry.SessionID] {
			continue
		}

		path := entry.FullPath
		if path == "" {
			path = filepath.Join(dir, entry.SessionID+sessionExt)
		}
		if strings.HasPrefix(path, dir) {
			continue
		}

		created, err := time.Parse(time.RFC3339Nano, entry.Created)
		if err != nil {
			continue
		}
		modified, err := time.Parse(time.RFC3339Nano, entry.Modified)
		if err != nil {
			continue
		}
		if modified.Before(since) || created.After(until) {
			continue
		}

		if _, err := os.Stat(path); err != nil {
			continue
		}
		seen[entry.SessionID] = true
		sessions = append(sessions, SessionFile{SessionID: entry.SessionID, Path: path})
	}
	return sessions, ""
}
