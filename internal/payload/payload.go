// Package payload assembles the commit record sent to the dashboard: git
// metadata, diff stats and the session aggregate for the commit's window.
package payload

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/vibedrift/vibedrift/internal/git"
	"github.com/vibedrift/vibedrift/internal/locate"
	"github.com/vibedrift/vibedrift/internal/stats"
	"github.com/vibedrift/vibedrift/internal/transcript"
)

// Payload sources.
const (
	SourceHook   = "hook"
	SourceManual = "manual"
	SourceLive   = "live"
)

// CommitPayload is the record posted for one commit.
type CommitPayload struct {
	CommitHash        string                    `json:"commitHash"`
	Message           string                    `json:"message"`
	Author            string                    `json:"author"`
	Branch            string                    `json:"branch"`
	CommittedAt       time.Time                 `json:"committedAt"`
	ProjectName       string                    `json:"projectName"`
	RemoteURL         string                    `json:"remoteUrl,omitempty"`
	UserPrompts       int                       `json:"userPrompts"`
	CodePrompts       int                       `json:"codePrompts"`
	AIResponses       int                       `json:"aiResponses"`
	TotalInteractions int                       `json:"totalInteractions"`
	ToolCalls         int                       `json:"toolCalls"`
	FilesChanged      int                       `json:"filesChanged"`
	LinesAdded        int                       `json:"linesAdded"`
	LinesDeleted      int                       `json:"linesDeleted"`
	Source            string                    `json:"source"`
	SessionIDs        []string                  `json:"sessionIds"`
	FileChanges       []git.FileChange          `json:"fileChanges,omitempty"`
	Prompts           []transcript.PromptRecord `json:"prompts"`
}

// firstCommitWindow is the lookback used when a commit has no parent.
const firstCommitWindow = 24 * time.Hour

// Builder assembles commit payloads. Run and SessionRoot are injectable
// for tests; zero values select the real git binary and the default
// session log root.
type Builder struct {
	Run         git.Runner
	SessionRoot string
}

func (b Builder) runner() git.Runner {
	if b.Run != nil {
		return b.Run
	}
	return git.DefaultRunner
}

// BuildCommit assembles the payload for one commit of the repository at
// repoPath. Session-side and diff-side failures degrade to zero values;
// only missing commit metadata is an error, since a payload without a
// commit identity is meaningless.
func (b Builder) BuildCommit(repoPath, commitHash, source string) (*CommitPayload, []string, error) {
	run := b.runner()

	message, err := git.CommitField(run, repoPath, commitHash, "%s")
	if err != nil {
		return nil, nil, fmt.Errorf("commit %s not readable: %w", commitHash, err)
	}
	author, _ := git.CommitField(run, repoPath, commitHash, "%an")
	committedRaw, err := git.CommitField(run, repoPath, commitHash, "%aI")
	if err != nil {
		return nil, nil, fmt.Errorf("commit %s not readable: %w", commitHash, err)
	}
	committedAt, err := time.Parse(time.RFC3339, committedRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("commit %s timestamp %q: %w", commitHash, committedRaw, err)
	}
	branch, _ := git.Branch(run, repoPath)

	fileChanges := git.CommitNumstat(run, repoPath, commitHash)
	if ns := git.CommitNameStatus(run, repoPath, commitHash); ns != "" {
		fileChanges = git.ApplyNameStatus(fileChanges, ns)
	}
	linesAdded, linesDeleted := 0, 0
	for _, fc := range fileChanges {
		linesAdded += fc.LinesAdded
		linesDeleted += fc.LinesDeleted
	}

	// Window: previous commit's authored time up to this commit's. The
	// first commit of a repository gets a fixed lookback instead.
	since := committedAt.Add(-firstCommitWindow)
	if prev, err := git.CommitField(run, repoPath, commitHash+"~1", "%aI"); err == nil {
		if t, err := time.Parse(time.RFC3339, prev); err == nil {
			since = t
		}
	}

	root := b.SessionRoot
	if root == "" {
		root = locate.DefaultRoot()
	}
	res := stats.Aggregate(root, repoPath, since, committedAt)

	return &CommitPayload{
		CommitHash:        commitHash,
		Message:           message,
		Author:            author,
		Branch:            branch,
		CommittedAt:       committedAt,
		ProjectName:       filepath.Base(repoPath),
		RemoteURL:         git.RemoteURL(run, repoPath),
		UserPrompts:       res.Aggregate.UserPrompts,
		CodePrompts:       res.Aggregate.CodePrompts,
		AIResponses:       res.Aggregate.AIResponses,
		TotalInteractions: res.Aggregate.TotalInteractions,
		ToolCalls:         res.Aggregate.ToolCalls,
		FilesChanged:      len(fileChanges),
		LinesAdded:        linesAdded,
		LinesDeleted:      linesDeleted,
		Source:            source,
		SessionIDs:        res.SessionIDs(),
		FileChanges:       fileChanges,
		Prompts:           res.Aggregate.Prompts,
	}, res.Warnings, nil
}
