package commands

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clauderank/claude-rank/internal/core/errs"
	"github.com/clauderank/claude-rank/internal/data/watch"
	"github.com/clauderank/claude-rank/internal/presentation/render"
	"github.com/clauderank/claude-rank/internal/rank"
	"github.com/clauderank/claude-rank/internal/util"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the event directory and sync on changes",
	Long: `watch monitors the Claude project directory for JSONL changes and runs
an incremental sync after each burst of writes. Bursts are debounced so one
session writing many lines triggers one sync.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 2*time.Second,
		"Quiet period before a change burst triggers a sync")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	engine := newEngine(st)

	watcher, err := watch.NewFileWatcher([]string{dataDir})
	if err != nil {
		return err
	}
	defer watcher.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	util.LogInfof("Watching %s", dataDir)

	// Sync once at startup to catch writes that happened while not running.
	syncOnce(engine)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case event := <-watcher.Events():
			util.LogDebugf("Change detected: %s (%s)", event.Path, event.Operation)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(watchDebounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			syncOnce(engine)
		case <-sig:
			util.LogInfo("Shutting down watcher")
			return nil
		}
	}
}

// syncOnce runs a sync and logs instead of exiting: a busy store or a bad
// line must not kill the watch loop.
func syncOnce(engine *rank.Engine) {
	result, err := engine.Sync()
	if err != nil {
		if errors.Is(err, errs.ErrConcurrency) {
			util.LogWarnf("Sync skipped, store busy: %v", err)
			return
		}
		util.LogErrorf("Sync failed: %v", err)
		return
	}
	if result.EventsProcessed > 0 {
		render.SyncResult(os.Stdout, result)
	}
}
