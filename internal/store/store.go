// Package store keeps a local DuckDB history of recorded commits, so
// drift trends stay queryable without a dashboard.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vibedrift/vibedrift/internal/drift"
	"github.com/vibedrift/vibedrift/internal/payload"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Store wraps a DuckDB connection and exposes commit-history persistence.
type Store struct {
	db *sql.DB
}

// Open connects to the DuckDB file at dbPath, creating parent directories
// and the schema as needed.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open duckdb %s: %w", dbPath, err)
	}
	if _, err := db.Exec(coreSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CommitRow is one recorded commit with its drift reading.
type CommitRow struct {
	CommitHash   string
	Message      string
	Branch       string
	CommittedAt  time.Time
	ProjectName  string
	UserPrompts  int
	LinesAdded   int
	LinesDeleted int
	Score        float64
	Level        drift.Level
}

// InsertCommit records one payload with its computed score. Re-inserting
// the same commit hash is a no-op.
func (s *Store) InsertCommit(p *payload.CommitPayload, score float64, level drift.Level) error {
	sessionIDs, err := json.Marshal(p.SessionIDs)
	if err != nil {
		return fmt.Errorf("encode session ids: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO commits (
			commit_hash, message, author, branch, committed_at,
			project_name, remote_url,
			user_prompts, code_prompts, ai_responses, tool_calls,
			files_changed, lines_added, lines_deleted,
			score, level, source, session_ids, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (commit_hash) DO NOTHING
	`,
		p.CommitHash, p.Message, p.Author, p.Branch, p.CommittedAt,
		p.ProjectName, p.RemoteURL,
		p.UserPrompts, p.CodePrompts, p.AIResponses, p.ToolCalls,
		p.FilesChanged, p.LinesAdded, p.LinesDeleted,
		score, string(level), p.Source, string(sessionIDs), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert commit %s: %w", p.CommitHash, err)
	}
	return nil
}

// RecentCommits returns up to limit commits, newest first, optionally
// restricted to one project name.
func (s *Store) RecentCommits(project string, limit int) ([]CommitRow, error) {
	query := `
		SELECT commit_hash, message, branch, committed_at, project_name,
		       user_prompts, lines_added, lines_deleted, score, level
		FROM commits
	`
	var args []interface{}
	if project != "" {
		query += " WHERE project_name = ?"
		args = append(args, project)
	}
	query += " ORDER BY committed_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CommitRow
	for rows.Next() {
		var r CommitRow
		var level string
		if err := rows.Scan(
			&r.CommitHash, &r.Message, &r.Branch, &r.CommittedAt, &r.ProjectName,
			&r.UserPrompts, &r.LinesAdded, &r.LinesDeleted, &r.Score, &level,
		); err != nil {
			return nil, err
		}
		r.Level = drift.Level(level)
		out = append(out, r)
	}
	return out, rows.Err()
}
