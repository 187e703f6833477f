package git

import (
	"strconv"
	"strings"
)

// File change statuses derived from git --name-status codes.
const (
	StatusAdded    = "added"
	StatusModified = "modified"
	StatusDeleted  = "deleted"
	StatusRenamed  = "renamed"
	StatusCopied   = "copied"
)

// FileChange is one file's line delta within a diff.
type FileChange struct {
	Path         string `json:"filePath"`
	LinesAdded   int    `json:"linesAdded"`
	LinesDeleted int    `json:"linesDeleted"`
	Status       string `json:"status"`
}

// ParseNumstat parses `git diff --numstat` output: one
// "<added>\t<deleted>\t<path>" line per file. Binary files report the
// literal token "-" for both counts and parse as zero. Lines that do not
// fit the format are skipped.
func ParseNumstat(out string) []FileChange {
	var changes []FileChange
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 3 {
			continue
		}
		added, _ := strconv.Atoi(parts[0])
		deleted, _ := strconv.Atoi(parts[1])
		changes = append(changes, FileChange{
			Path:         parts[2],
			LinesAdded:   added,
			LinesDeleted: deleted,
			Status:       StatusModified,
		})
	}
	return changes
}

// ApplyNameStatus annotates numstat changes with statuses from a
// `git diff --name-status` listing. Files absent from the listing keep
// their current status.
func ApplyNameStatus(changes []FileChange, nameStatus string) []FileChange {
	statuses := make(map[string]string)
	for _, line := range strings.Split(nameStatus, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 || fields[0] == "" {
			continue
		}
		code := fields[0][0]
		// Rename/copy lines carry "old\tnew"; the destination is last.
		file := strings.TrimSpace(fields[len(fields)-1])
		switch code {
		case 'A':
			statuses[file] = StatusAdded
		case 'D':
			statuses[file] = StatusDeleted
		case 'R':
			statuses[file] = StatusRenamed
		case 'C':
			statuses[file] = StatusCopied
		default:
			statuses[file] = StatusModified
		}
	}

	out := make([]FileChange, len(changes))
	copy(out, changes)
	for i := range out {
		if s, ok := statuses[out[i].Path]; ok {
			out[i].Status = s
		}
	}
	return out
}
