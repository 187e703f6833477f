// Package live answers "how much drift right now?" cheaply enough for
// interactive callers. A short-lived, commit-keyed snapshot cache collapses
// bursts of statusline and hook queries into one real transcript scan.
package live

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/vibedrift/vibedrift/internal/drift"
	"github.com/vibedrift/vibedrift/internal/git"
	"github.com/vibedrift/vibedrift/internal/locate"
	"github.com/vibedrift/vibedrift/internal/stats"
)

// MaxAge is how long a snapshot stays fresh. A new commit invalidates it
// immediately regardless of age.
const MaxAge = 3000 * time.Millisecond

// Snapshot is one cached drift reading. It is always replaced wholesale,
// never updated field by field.
type Snapshot struct {
	Score        float64     `json:"score"`
	Level        drift.Level `json:"level"`
	Color        string      `json:"color"`
	UserPrompts  int         `json:"userPrompts"`
	LinesAdded   int         `json:"linesAdded"`
	LinesDeleted int         `json:"linesDeleted"`
	CachedAt     int64       `json:"cachedAt"` // epoch milliseconds
}

// cacheFile is the on-disk cache unit, keyed by project path and the HEAD
// commit at computation time.
type cacheFile struct {
	Snapshot       Snapshot `json:"snapshot"`
	ProjectPath    string   `json:"projectPath"`
	LastCommitHash string   `json:"lastCommitHash"`
}

// Cache computes and caches live drift snapshots. The zero value is not
// usable; construct with New. Every collaborator is a field so tests can
// construct isolated instances with fake clocks, git and scans.
type Cache struct {
	Dir         string      // cache file directory
	TTL         time.Duration
	Table       drift.Table
	Run         git.Runner
	SessionRoot string
	Now         func() time.Time
	// Scan counts accepted prompts for a project window. Overridable in
	// tests to observe cache hits.
	Scan func(root, projectPath string, since, until time.Time) int
}

// New returns a Cache with production defaults: snapshots under the OS
// temp directory, the real git binary and the real transcript scan.
func New(table drift.Table) *Cache {
	return &Cache{
		Dir:         os.TempDir(),
		TTL:         MaxAge,
		Table:       table,
		Run:         git.DefaultRunner,
		SessionRoot: locate.DefaultRoot(),
		Now:         time.Now,
		Scan: func(root, projectPath string, since, until time.Time) int {
			return stats.Aggregate(root, projectPath, since, until).Aggregate.UserPrompts
		},
	}
}

// CurrentDrift returns the drift snapshot for the project, reusing a
// cached one when it is younger than the TTL and HEAD has not moved.
// It never fails: any error path degrades to a zero snapshot.
func (c *Cache) CurrentDrift(projectPath string) Snapshot {
	commitHash, commitTime := git.Head(c.Run, projectPath)

	path := c.path(projectPath)
	if snap, ok := c.read(path, projectPath, commitHash); ok {
		return snap
	}

	now := c.Now()
	prompts := c.Scan(c.SessionRoot, projectPath, commitTime, now)
	linesAdded, linesDeleted := git.UncommittedStats(c.Run, projectPath)

	score := drift.Score(prompts, linesAdded, linesDeleted)
	level := c.Table.Level(score)

	snap := Snapshot{
		Score:        score,
		Level:        level,
		Color:        c.Table.Color(level),
		UserPrompts:  prompts,
		LinesAdded:   linesAdded,
		LinesDeleted: linesDeleted,
		CachedAt:     now.UnixMilli(),
	}
	c.write(path, snap, projectPath, commitHash)
	return snap
}

// Clear drops the cached snapshot for a project, forcing the next
// CurrentDrift call to recompute.
func (c *Cache) Clear(projectPath string) {
	os.Remove(c.path(projectPath))
}

// path derives the per-project cache file from a stable hash of the
// project path.
func (c *Cache) path(projectPath string) string {
	sum := md5.Sum([]byte(projectPath))
	return filepath.Join(c.Dir, "vibedrift-cache-"+hex.EncodeToString(sum[:])[:12]+".json")
}

// read loads a cached snapshot if it matches the project and commit and is
// still fresh. Any read or decode failure is a plain miss.
func (c *Cache) read(path, projectPath, commitHash string) (Snapshot, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, false
	}
	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return Snapshot{}, false
	}
	if cf.ProjectPath != projectPath || cf.LastCommitHash != commitHash {
		return Snapshot{}, false
	}
	if c.Now().UnixMilli()-cf.Snapshot.CachedAt > c.TTL.Milliseconds() {
		return Snapshot{}, false
	}
	return cf.Snapshot, true
}

// write persists the snapshot atomically via temp file + rename, so a
// concurrent reader never sees a torn snapshot. Failures are ignored; the
// cache is an optimization.
func (c *Cache) write(path string, snap Snapshot, projectPath, commitHash string) {
	data, err := json.Marshal(cacheFile{
		Snapshot:       snap,
		ProjectPath:    projectPath,
		LastCommitHash: commitHash,
	})
	if err != nil {
		return
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "vibedrift-cache-*.tmp")
	if err != nil {
		return
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
	}
}
