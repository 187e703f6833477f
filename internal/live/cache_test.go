package live

import (
	"errors"
	"testing"
	"time"

	"github.com/vibedrift/vibedrift/internal/drift"
)

// testCache builds an isolated Cache with a controllable clock, a fixed
// HEAD and a scan that counts its own invocations.
func testCache(t *testing.T, head string, prompts int) (*Cache, *int, *time.Time) {
	t.Helper()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	scans := 0
	c := &Cache{
		Dir:   t.TempDir(),
		TTL:   MaxAge,
		Table: drift.Classic,
		Run: func(dir string, args ...string) (string, error) {
			if head == "" {
				return "", errors.New("exit status 128")
			}
			if len(args) > 0 && args[0] == "log" {
				return head + "\t2026-03-01T09:00:00Z\n", nil
			}
			// diff HEAD --numstat
			return "40\t0\tapp.go\n", nil
		},
		SessionRoot: t.TempDir(),
		Now:         func() time.Time { return now },
		Scan: func(root, projectPath string, since, until time.Time) int {
			scans++
			return prompts
		},
	}
	return c, &scans, &now
}

func TestCurrentDriftComputesAndCaches(t *testing.T) {
	c, scans, now := testCache(t, "abc", 4)

	snap := c.CurrentDrift("/home/dev/proj")
	// 4 prompts, 40 lines → 10 lines/prompt → factor 1.25 → score 5.0.
	if snap.Score != 5.0 {
		t.Errorf("Score = %v, want 5.0", snap.Score)
	}
	if snap.Level != drift.LevelHigh {
		t.Errorf("Level = %v", snap.Level)
	}
	if snap.Color != drift.Classic.Color(drift.LevelHigh) {
		t.Errorf("Color = %q", snap.Color)
	}
	if snap.UserPrompts != 4 || snap.LinesAdded != 40 || snap.LinesDeleted != 0 {
		t.Errorf("counts = %d prompts +%d/-%d", snap.UserPrompts, snap.LinesAdded, snap.LinesDeleted)
	}

	// A second call inside the TTL must hit the cache.
	*now = now.Add(time.Second)
	c.CurrentDrift("/home/dev/proj")
	if *scans != 1 {
		t.Errorf("scans = %d, want 1 (second call should be a cache hit)", *scans)
	}

	// Past the TTL the snapshot is recomputed.
	*now = now.Add(MaxAge)
	c.CurrentDrift("/home/dev/proj")
	if *scans != 2 {
		t.Errorf("scans = %d, want 2 after TTL expiry", *scans)
	}
}

func TestCurrentDriftInvalidatedByNewCommit(t *testing.T) {
	head := "abc"
	c, scans, _ := testCache(t, "", 2)
	c.Run = func(dir string, args ...string) (string, error) {
		if len(args) > 0 && args[0] == "log" {
			return head + "\t2026-03-01T09:00:00Z\n", nil
		}
		return "", nil
	}

	c.CurrentDrift("/home/dev/proj")
	head = "def"
	c.CurrentDrift("/home/dev/proj")
	if *scans != 2 {
		t.Errorf("scans = %d, want 2 (new HEAD invalidates the snapshot)", *scans)
	}
}

func TestCurrentDriftNotARepo(t *testing.T) {
	c, _, _ := testCache(t, "", 3)
	snap := c.CurrentDrift("/not-a-repo")
	// No HEAD, no uncommitted stats; prompts still count.
	if snap.Score != 3*1.5 {
		t.Errorf("Score = %v, want %v", snap.Score, 3*1.5)
	}
	if snap.LinesAdded != 0 || snap.LinesDeleted != 0 {
		t.Errorf("lines = +%d/-%d, want zero", snap.LinesAdded, snap.LinesDeleted)
	}
}

func TestClearForcesRecompute(t *testing.T) {
	c, scans, _ := testCache(t, "abc", 1)
	c.CurrentDrift("/home/dev/proj")
	c.Clear("/home/dev/proj")
	c.CurrentDrift("/home/dev/proj")
	if *scans != 2 {
		t.Errorf("scans = %d, want 2 after Clear", *scans)
	}
}

func TestCacheIsolatedPerProject(t *testing.T) {
	c, scans, _ := testCache(t, "abc", 1)
	c.CurrentDrift("/home/dev/proj-a")
	c.CurrentDrift("/home/dev/proj-b")
	if *scans != 2 {
		t.Errorf("scans = %d, want 2 (distinct projects never share a snapshot)", *scans)
	}
}
