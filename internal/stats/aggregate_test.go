package stats

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// stageProject creates a session root with one encoded project directory
// and the given transcripts, returning the root.
func stageProject(t *testing.T, files map[string][]string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "-home-dev-proj")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for id, lines := range files {
		path := filepath.Join(dir, id+".jsonl")
		content := ""
		for _, l := range lines {
			content += l + "\n"
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func userLine(session, ts, text string) string {
	return fmt.Sprintf(`{"type":"user","sessionId":%q,"timestamp":%q,"message":{"role":"user","content":%q}}`, session, ts, text)
}

func assistantLine(session, ts string) string {
	return fmt.Sprintf(`{"type":"assistant","sessionId":%q,"timestamp":%q,"message":{"role":"assistant","content":[{"type":"text","text":"ok"}]}}`, session, ts)
}

func TestAggregateSumsAndOrders(t *testing.T) {
	root := stageProject(t, map[string][]string{
		"s1": {
			userLine("s1", "2026-03-01T11:00:00Z", "later prompt"),
			assistantLine("s1", "2026-03-01T11:00:05Z"),
		},
		"s2": {
			userLine("s2", "2026-03-01T10:00:00Z", "earlier prompt"),
			assistantLine("s2", "2026-03-01T10:00:05Z"),
		},
	})

	since := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	until := time.Now()
	res := Aggregate(root, "/home/dev/proj", since, until)

	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
	if len(res.Sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(res.Sessions))
	}
	agg := res.Aggregate
	if agg.SessionID != AggregateID {
		t.Errorf("aggregate SessionID = %q", agg.SessionID)
	}
	if agg.UserPrompts != 2 || agg.AIResponses != 2 || agg.TotalInteractions != 4 {
		t.Errorf("aggregate counts = %d/%d/%d", agg.UserPrompts, agg.AIResponses, agg.TotalInteractions)
	}
	if len(agg.Prompts) != 2 {
		t.Fatalf("got %d prompts, want 2", len(agg.Prompts))
	}
	if agg.Prompts[0].Text != "earlier prompt" || agg.Prompts[1].Text != "later prompt" {
		t.Errorf("prompts out of order: %q then %q", agg.Prompts[0].Text, agg.Prompts[1].Text)
	}
	if got := res.SessionIDs(); len(got) != 2 {
		t.Errorf("SessionIDs = %v", got)
	}
}

func TestAggregateNoSessions(t *testing.T) {
	res := Aggregate(t.TempDir(), "/home/dev/proj", time.Time{}, time.Now())
	if res.Aggregate.UserPrompts != 0 || len(res.Sessions) != 0 {
		t.Errorf("empty root should aggregate to zero: %+v", res.Aggregate)
	}
	if res.Aggregate.TotalInteractions != 0 {
		t.Errorf("TotalInteractions = %d", res.Aggregate.TotalInteractions)
	}
}
