package render

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	"github.com/clauderank/claude-rank/internal/core/model"
	"github.com/clauderank/claude-rank/internal/rank"
)

// SyncResult prints a one-panel summary of a committed sync.
func SyncResult(w io.Writer, result *rank.SyncResult) {
	lines := []string{
		"",
		fmt.Sprintf("  Events processed: %s", formatNumber(result.EventsProcessed)),
	}
	if result.EventsSkipped > 0 {
		lines = append(lines, fmt.Sprintf("  Events skipped: %s", formatNumber(result.EventsSkipped)))
	}
	lines = append(lines,
		fmt.Sprintf("  Days touched: %d", result.DaysTouched),
		fmt.Sprintf("  XP gained: %s (total %s)", formatNumber(result.XPGained), formatNumber(result.TotalXP)),
		fmt.Sprintf("  Current streak: %d days", result.CurrentStreak),
	)
	for _, def := range result.NewUnlocks {
		lines = append(lines, fmt.Sprintf("  🏆 Unlocked: %s - %s", def.Name, def.Description))
	}
	lines = append(lines, "")
	panel(w, "SYNC COMPLETE", lines, sizer.PanelWidth())
}

// PrestigeResult prints the post-prestige panel.
func PrestigeResult(w io.Writer, result *rank.PrestigeResult) {
	lines := []string{
		"",
		fmt.Sprintf("  ⭐ Prestige %d achieved!", result.PrestigeCount),
		"  Level reset to 1. Lifetime XP, streaks, and",
		"  achievements are untouched.",
		"",
	}
	panel(w, "PRESTIGE", lines, sizer.PanelWidth())
}

// SnapshotJSON writes the snapshot as indented JSON.
func SnapshotJSON(w io.Writer, snapshot model.Snapshot) error {
	data, err := sonic.ConfigDefault.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
