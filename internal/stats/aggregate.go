// Package stats combines per-session transcript summaries into one
// window-wide aggregate.
package stats

import (
	"sort"
	"time"

	"github.com/vibedrift/vibedrift/internal/locate"
	"github.com/vibedrift/vibedrift/internal/transcript"
)

// AggregateID is the session id carried by the aggregate summary.
const AggregateID = "aggregate"

// Result is the outcome of aggregating every located session for a
// project window. Warnings list inputs that contributed nothing and why.
type Result struct {
	Aggregate transcript.SessionSummary
	Sessions  []transcript.SessionSummary
	Warnings  []string
}

// Aggregate locates and parses every session overlapping [since, until]
// for the project at projectPath under the given session root, and sums
// their counts. The aggregate prompt list is the union of all sessions'
// prompts in ascending timestamp order; equal timestamps keep their
// file-scan order.
func Aggregate(root, projectPath string, since, until time.Time) Result {
	dirs := locate.FindProjectDirs(root, projectPath)
	files, warnings := locate.SessionsInWindow(dirs, since, until)

	res := Result{Warnings: warnings}
	var allPrompts []transcript.PromptRecord

	for _, f := range files {
		summary, err := transcript.ParseSessionFile(f.Path, since, until)
		if err != nil {
			res.Warnings = append(res.Warnings, err.Error())
			continue
		}
		if summary == nil {
			continue
		}
		res.Sessions = append(res.Sessions, *summary)
		res.Aggregate.UserPrompts += summary.UserPrompts
		res.Aggregate.CodePrompts += summary.CodePrompts
		res.Aggregate.AIResponses += summary.AIResponses
		res.Aggregate.ToolCalls += summary.ToolCalls
		allPrompts = append(allPrompts, summary.Prompts...)
	}

	sort.SliceStable(allPrompts, func(i, j int) bool {
		return allPrompts[i].Timestamp.Before(allPrompts[j].Timestamp)
	})

	res.Aggregate.SessionID = AggregateID
	res.Aggregate.TotalInteractions = res.Aggregate.UserPrompts + res.Aggregate.AIResponses
	res.Aggregate.Prompts = allPrompts
	return res
}

// SessionIDs returns the ids of the successfully parsed sessions, in scan
// order.
func (r Result) SessionIDs() []string {
	ids := make([]string, 0, len(r.Sessions))
	for _, s := range r.Sessions {
		ids = append(ids, s.SessionID)
	}
	return ids
}
