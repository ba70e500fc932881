package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/clauderank/claude-rank/internal/presentation/render"
	"github.com/clauderank/claude-rank/internal/rank"
)

var rebuild bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fold new usage events into the state store",
	Long: `sync reads JSONL event files past the stored cursor, folds them into
daily aggregates, recomputes XP and streaks for the touched dates, and
re-evaluates achievements. Running it twice in a row is a no-op.

With --rebuild, all derived state is dropped and the complete history is
replayed from scratch. Achievement unlock dates and prestige survive.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&rebuild, "rebuild", false,
		"Drop derived state and replay the full event history")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	engine := newEngine(st)
	var result *rank.SyncResult
	if rebuild {
		result, err = engine.Rebuild()
	} else {
		result, err = engine.Sync()
	}
	if err != nil {
		return err
	}

	render.SyncResult(os.Stdout, result)
	return nil
}
