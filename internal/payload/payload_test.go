package payload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vibedrift/vibedrift/internal/git"
)

// The fixture times are anchored to the test run so that the staged
// transcript's file timestamps fall inside the commit window the locator
// checks. The commit sits slightly in the future to keep the freshly
// written file's creation time below the window's upper bound.
var (
	commitTime      = time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	parentTime      = commitTime.Add(-3 * time.Hour)
	inWindowPrompt  = commitTime.Add(-2 * time.Hour)
	preWindowPrompt = commitTime.Add(-4 * time.Hour)
)

// repoRunner fakes a two-commit repository with a known diff.
func repoRunner(t *testing.T) git.Runner {
	t.Helper()
	outputs := map[string]string{
		"log -1 --format=%s abc":        "add login page\n",
		"log -1 --format=%an abc":       "Dev One\n",
		"log -1 --format=%aI abc":       commitTime.Format(time.RFC3339) + "\n",
		"log -1 --format=%aI abc~1":     parentTime.Format(time.RFC3339) + "\n",
		"rev-parse --abbrev-ref HEAD":   "main\n",
		"remote get-url origin":         "git@example.com:dev/proj.git\n",
		"diff --numstat abc~1 abc":      "30\t5\tlogin.go\n10\t0\tlogin_test.go\n",
		"diff --name-status abc~1 abc":  "A\tlogin_test.go\nM\tlogin.go\n",
	}
	return func(dir string, args ...string) (string, error) {
		key := strings.Join(args, " ")
		if out, ok := outputs[key]; ok {
			return out, nil
		}
		return "", errors.New("exit status 128")
	}
}

// stageSessions creates a session root with one transcript holding a
// prompt before the parent commit and one after it.
func stageSessions(t *testing.T, repoPath string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, strings.ReplaceAll(repoPath, "/", "-"))
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	lines := fmt.Sprintf(`{"type":"user","sessionId":"s1","timestamp":%q,"message":{"role":"user","content":"before the parent commit"}}
{"type":"assistant","sessionId":"s1","timestamp":%q,"message":{"role":"assistant","content":[{"type":"text","text":"ok"}]}}
{"type":"user","sessionId":"s1","timestamp":%q,"message":{"role":"user","content":"build the login page"}}
{"type":"assistant","sessionId":"s1","timestamp":%q,"message":{"role":"assistant","content":[{"type":"tool_use","name":"Write"}]}}
`,
		preWindowPrompt.Format(time.RFC3339),
		preWindowPrompt.Add(10*time.Second).Format(time.RFC3339),
		inWindowPrompt.Format(time.RFC3339),
		inWindowPrompt.Add(10*time.Second).Format(time.RFC3339),
	)
	if err := os.WriteFile(filepath.Join(dir, "s1.jsonl"), []byte(lines), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestBuildCommit(t *testing.T) {
	repoPath := "/home/dev/proj"
	b := Builder{
		Run:         repoRunner(t),
		SessionRoot: stageSessions(t, repoPath),
	}

	p, warnings, err := b.BuildCommit(repoPath, "abc", SourceHook)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	if p.CommitHash != "abc" || p.Message != "add login page" || p.Author != "Dev One" {
		t.Errorf("commit metadata = %q / %q / %q", p.CommitHash, p.Message, p.Author)
	}
	if p.Branch != "main" || p.ProjectName != "proj" {
		t.Errorf("branch/project = %q / %q", p.Branch, p.ProjectName)
	}
	if !p.CommittedAt.Equal(commitTime) {
		t.Errorf("CommittedAt = %v, want %v", p.CommittedAt, commitTime)
	}
	if p.FilesChanged != 2 || p.LinesAdded != 40 || p.LinesDeleted != 5 {
		t.Errorf("diff stats = %d files +%d/-%d", p.FilesChanged, p.LinesAdded, p.LinesDeleted)
	}
	if p.Source != SourceHook {
		t.Errorf("Source = %q", p.Source)
	}

	// Window is the parent commit's authored time up to this commit's, so
	// only the later prompt counts.
	if p.UserPrompts != 1 || p.CodePrompts != 1 {
		t.Errorf("session counts = %d prompts (%d code), want 1 (1)", p.UserPrompts, p.CodePrompts)
	}
	if len(p.SessionIDs) != 1 || p.SessionIDs[0] != "s1" {
		t.Errorf("SessionIDs = %v", p.SessionIDs)
	}

	statuses := map[string]string{}
	for _, fc := range p.FileChanges {
		statuses[fc.Path] = fc.Status
	}
	if statuses["login_test.go"] != git.StatusAdded || statuses["login.go"] != git.StatusModified {
		t.Errorf("file statuses = %v", statuses)
	}
}

func TestBuildCommitUnreadableCommit(t *testing.T) {
	b := Builder{
		Run: func(dir string, args ...string) (string, error) {
			return "", errors.New("exit status 128")
		},
		SessionRoot: t.TempDir(),
	}
	if _, _, err := b.BuildCommit("/repo", "missing", SourceManual); err == nil {
		t.Fatal("expected an error for an unreadable commit")
	}
}

func TestBuildCommitFirstCommitLookback(t *testing.T) {
	// No parent commit: the window falls back to a fixed lookback ending at
	// the commit time, and diff stats come from the --root fallback.
	outputs := map[string]string{
		"log -1 --format=%s abc":        "initial commit\n",
		"log -1 --format=%an abc":       "Dev One\n",
		"log -1 --format=%aI abc":       commitTime.Format(time.RFC3339) + "\n",
		"rev-parse --abbrev-ref HEAD":   "main\n",
		"diff --numstat --root abc":     "100\t0\tmain.go\n",
		"diff --name-status --root abc": "A\tmain.go\n",
	}
	b := Builder{
		Run: func(dir string, args ...string) (string, error) {
			if out, ok := outputs[strings.Join(args, " ")]; ok {
				return out, nil
			}
			return "", errors.New("exit status 128")
		},
		SessionRoot: stageSessions(t, "/home/dev/proj"),
	}

	p, _, err := b.BuildCommit("/home/dev/proj", "abc", SourceHook)
	if err != nil {
		t.Fatal(err)
	}
	if p.RemoteURL != "" {
		t.Errorf("RemoteURL = %q, want empty when no origin", p.RemoteURL)
	}
	// Both prompts fall inside the 24h lookback.
	if p.UserPrompts != 2 {
		t.Errorf("UserPrompts = %d, want 2", p.UserPrompts)
	}
	if p.FilesChanged != 1 || p.LinesAdded != 100 {
		t.Errorf("diff stats = %d files +%d", p.FilesChanged, p.LinesAdded)
	}
}
