package git

import (
	"errors"
	"testing"
	"time"
)

// fakeRunner maps joined argument lists to canned outputs; unknown
// invocations fail like a git error would.
func fakeRunner(outputs map[string]string) Runner {
	return func(dir string, args ...string) (string, error) {
		key := ""
		for i, a := range args {
			if i > 0 {
				key += " "
			}
			key += a
		}
		if out, ok := outputs[key]; ok {
			return out, nil
		}
		return "", errors.New("exit status 128")
	}
}

func TestHead(t *testing.T) {
	run := fakeRunner(map[string]string{
		"log -1 --format=%H%x09%aI HEAD": "abc123\t2026-03-01T10:00:00+01:00\n",
	})
	hash, ts := Head(run, "/repo")
	if hash != "abc123" {
		t.Errorf("hash = %q", hash)
	}
	want := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("", 3600))
	if !ts.Equal(want) {
		t.Errorf("authoredAt = %v, want %v", ts, want)
	}
}

func TestHeadNotARepo(t *testing.T) {
	hash, ts := Head(fakeRunner(nil), "/not-a-repo")
	if hash != "" {
		t.Errorf("hash = %q, want empty", hash)
	}
	if !ts.Equal(time.Unix(0, 0)) {
		t.Errorf("authoredAt = %v, want epoch", ts)
	}
}

func TestUncommittedStats(t *testing.T) {
	run := fakeRunner(map[string]string{
		"diff HEAD --numstat": "10\t2\tmain.go\n-\t-\tlogo.png\n3\t0\tREADME.md\n",
	})
	added, deleted := UncommittedStats(run, "/repo")
	if added != 13 || deleted != 2 {
		t.Errorf("stats = +%d/-%d, want +13/-2", added, deleted)
	}
}

func TestCommitNumstatRootFallback(t *testing.T) {
	run := fakeRunner(map[string]string{
		"diff --numstat --root abc": "5\t0\tfirst.go\n",
	})
	changes := CommitNumstat(run, "/repo", "abc")
	if len(changes) != 1 || changes[0].Path != "first.go" || changes[0].LinesAdded != 5 {
		t.Errorf("changes = %+v", changes)
	}
}

func TestParseNumstat(t *testing.T) {
	out := "12\t4\tinternal/app/app.go\n-\t-\tassets/icon.png\nbogus line\n"
	changes := ParseNumstat(out)
	if len(changes) != 2 {
		t.Fatalf("got %d changes, want 2", len(changes))
	}
	if changes[0].LinesAdded != 12 || changes[0].LinesDeleted != 4 {
		t.Errorf("first change = %+v", changes[0])
	}
	if changes[1].LinesAdded != 0 || changes[1].LinesDeleted != 0 {
		t.Errorf("binary file should parse as zero lines: %+v", changes[1])
	}
	if changes[0].Status != StatusModified {
		t.Errorf("default status = %q", changes[0].Status)
	}
}

func TestApplyNameStatus(t *testing.T) {
	changes := ParseNumstat("1\t0\tnew.go\n2\t2\told.go\n0\t9\tgone.go\n4\t1\tpkg/renamed.go\n")
	ns := "A\tnew.go\nD\tgone.go\nR100\tpkg/orig.go\tpkg/renamed.go\n"
	got := ApplyNameStatus(changes, ns)

	want := map[string]string{
		"new.go":         StatusAdded,
		"old.go":         StatusModified,
		"gone.go":        StatusDeleted,
		"pkg/renamed.go": StatusRenamed,
	}
	for _, fc := range got {
		if fc.Status != want[fc.Path] {
			t.Errorf("%s status = %q, want %q", fc.Path, fc.Status, want[fc.Path])
		}
	}

	// Input slice must stay untouched.
	for _, fc := range changes {
		if fc.Status != StatusModified {
			t.Errorf("input mutated: %s became %q", fc.Path, fc.Status)
		}
	}
}
