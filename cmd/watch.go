package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/vibedrift/vibedrift/internal/drift"
	"github.com/vibedrift/vibedrift/internal/live"
	"github.com/vibedrift/vibedrift/internal/locate"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously print the drift score as sessions progress",
	Long: `watch follows this project's session log directories and reprints the
drift score whenever a transcript changes, so you can keep a drift
readout in a spare terminal. Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repoPath, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, repoPath)
	},
}

func runWatch(ctx context.Context, repoPath string) error {
	root := cfg.SessionRoot
	if root == "" {
		root = locate.DefaultRoot()
	}
	dirs := locate.FindProjectDirs(root, repoPath)
	if len(dirs) == 0 {
		return fmt.Errorf("no session logs found for %s under %s", repoPath, root)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	for _, d := range dirs {
		if err := watcher.Add(d); err != nil {
			log.Warn().Err(err).Str("dir", d).Msg("cannot watch session directory")
		}
	}

	table := drift.TableNamed(cfg.BucketTable)
	cache := live.New(table)
	cache.SessionRoot = root

	printSnap := func() {
		snap := cache.CurrentDrift(repoPath)
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(snap.Color))
		fmt.Printf("%s  %s %s  %d prompts  +%d/-%d\n",
			time.Now().Format("15:04:05"),
			style.Render(fmt.Sprintf("%.1f", snap.Score)),
			style.Render(string(snap.Level)),
			snap.UserPrompts, snap.LinesAdded, snap.LinesDeleted)
	}
	printSnap()

	// Transcript appends arrive in bursts; a short debounce collapses each
	// burst into one recompute, and the cache TTL absorbs the rest.
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".jsonl") && filepath.Base(event.Name) != "sessions-index.json" {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				debounce = time.After(500 * time.Millisecond)
			}

		case <-debounce:
			debounce = nil
			cache.Clear(repoPath)
			printSnap()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
