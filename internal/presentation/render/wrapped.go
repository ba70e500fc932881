package render

import (
	"fmt"
	"io"

	"github.com/clauderank/claude-rank/internal/rank"
)

// Wrapped renders the period recap panels.
func Wrapped(w io.Writer, summary *rank.WrappedSummary) {
	width := sizer.PanelWidth()

	core := []string{
		"",
		fmt.Sprintf("  XP Earned: %s", formatNumber(summary.TotalXPEarned)),
		fmt.Sprintf("  Sessions: %s  |  Messages: %s",
			formatNumber(summary.TotalSessions), formatNumber(summary.TotalMessages)),
		fmt.Sprintf("  Tool Calls: %s", formatNumber(summary.TotalToolCalls)),
		fmt.Sprintf("  Active Days: %d (avg %s XP/day)",
			summary.ActiveDays, formatNumber(summary.AvgXPPerDay)),
		"",
	}
	panel(w, fmt.Sprintf("WRAPPED · %s (%s → %s)", summary.Period, summary.StartDate, summary.EndDate), core, width)

	highlights := []string{""}
	if summary.BusiestDay != "" {
		highlights = append(highlights, fmt.Sprintf("  🏆 Busiest day: %s (%s XP)",
			summary.BusiestDay, formatNumber(summary.BusiestDayXP)))
	}
	if summary.BusiestHour >= 0 {
		highlights = append(highlights, fmt.Sprintf("  🕐 Busiest hour: %02d:00", summary.BusiestHour))
	}
	highlights = append(highlights,
		fmt.Sprintf("  🔥 Best streak this period: %d days", summary.PeriodStreak), "")
	panel(w, "Highlights", highlights, width)

	allTime := []string{
		"",
		fmt.Sprintf("  Level %d%s  |  Lifetime XP: %s",
			summary.Level, prestigeSuffix(summary.PrestigeCount), formatNumber(summary.LifetimeXP)),
		fmt.Sprintf("  Longest streak ever: %d days", summary.LongestStreak),
		"",
	}
	panel(w, "All Time", allTime, width)
}

func prestigeSuffix(count int) string {
	if count == 0 {
		return ""
	}
	return fmt.Sprintf(" (prestige %d)", count)
}
