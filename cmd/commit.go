package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vibedrift/vibedrift/internal/api"
	"github.com/vibedrift/vibedrift/internal/drift"
	"github.com/vibedrift/vibedrift/internal/git"
	"github.com/vibedrift/vibedrift/internal/live"
	"github.com/vibedrift/vibedrift/internal/payload"
	"github.com/vibedrift/vibedrift/internal/store"
)

var commitHashArg string

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record the drift score for a commit (called by the git hook)",
	Long: `commit builds the drift record for a commit (HEAD by default),
stores it in the local history database and, when a dashboard is
configured, uploads it.

This is the post-commit hook entry point, so it never fails the commit:
every error is reported on stderr and swallowed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runCommit()
		return nil
	},
}

func runCommit() {
	repoPath, err := os.Getwd()
	if err != nil {
		log.Warn().Err(err).Msg("cannot resolve working directory")
		return
	}

	source := payload.SourceHook
	hash := commitHashArg
	if hash == "" {
		hash, _ = git.Head(git.DefaultRunner, repoPath)
		if hash == "" {
			log.Warn().Str("repo", repoPath).Msg("no HEAD commit found")
			return
		}
	} else {
		source = payload.SourceManual
	}

	b := payload.Builder{SessionRoot: cfg.SessionRoot}
	p, warnings, err := b.BuildCommit(repoPath, hash, source)
	if err != nil {
		log.Warn().Err(err).Str("commit", hash).Msg("building commit record failed")
		return
	}
	for _, w := range warnings {
		log.Debug().Msg(w)
	}

	table := drift.TableNamed(cfg.BucketTable)
	score := drift.Score(p.UserPrompts, p.LinesAdded, p.LinesDeleted)
	level := table.Level(score)

	if dbPath, err := cfg.HistoryDBPath(); err != nil {
		log.Warn().Err(err).Msg("resolving history database path failed")
	} else if st, err := store.Open(dbPath); err != nil {
		log.Warn().Err(err).Str("db", dbPath).Msg("opening history database failed")
	} else {
		if err := st.InsertCommit(p, score, level); err != nil {
			log.Warn().Err(err).Str("commit", hash).Msg("recording commit failed")
		}
		st.Close()
	}

	if cfg.APIURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := api.New(cfg.APIURL, cfg.APIKey).PostCommit(ctx, p); err != nil {
			log.Warn().Err(err).Msg("dashboard upload failed")
		}
	}

	// The snapshot cache keys on HEAD, but dropping it makes the very next
	// statusline render reflect the fresh commit without waiting out a TTL.
	live.New(table).Clear(repoPath)

	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(table.Color(level)))
	fmt.Printf("vibedrift: %s %s  (%d prompts, +%d/-%d lines)\n",
		style.Render(fmt.Sprintf("%.1f", score)),
		style.Render(string(level)),
		p.UserPrompts, p.LinesAdded, p.LinesDeleted)
}

func init() {
	commitCmd.Flags().StringVar(&commitHashArg, "hash", "", "commit to record (defaults to HEAD)")
	rootCmd.AddCommand(commitCmd)
}
