package render

import (
	"fmt"
	"io"

	"github.com/clauderank/claude-rank/internal/core/achievement"
	"github.com/clauderank/claude-rank/internal/core/level"
	"github.com/clauderank/claude-rank/internal/rank"
)

// Dashboard renders the main profile panel: level, XP bar, streak, totals,
// and the closest locked achievements.
func Dashboard(w io.Writer, profile *rank.ProfileView) {
	prog := profile.Progression
	width := sizer.PanelWidth()

	title := fmt.Sprintf("Level %d - %s", prog.Level, prog.Tier.Name)
	if stars := level.PrestigeStars(prog.PrestigeCount); stars != "" {
		title += "  " + stars
	}

	var lines []string
	lines = append(lines, "")
	lines = append(lines, "  "+title)

	bar := xpBar(prog.XPIntoLevel, prog.XPRequiredForLevel)
	if prog.XPRequiredForLevel > 0 {
		lines = append(lines, fmt.Sprintf("  %s %s/%s XP", bar,
			formatNumber(prog.XPIntoLevel), formatNumber(prog.XPRequiredForLevel)))
	} else {
		lines = append(lines, "  "+bar+" MAX LEVEL")
	}
	lines = append(lines, fmt.Sprintf("  Total: %s XP", formatNumber(profile.Totals.TotalXP)))

	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("  🔥 Streak: %d days  |  ❄️  Freezes: %d/3",
		profile.Streak.CurrentStreak, profile.Streak.FreezesAvailable))
	lines = append(lines, fmt.Sprintf("  📊 Sessions: %s  |  💬 Messages: %s",
		formatNumber(profile.Totals.TotalSessions), formatNumber(profile.Totals.TotalMessages)))

	recent := recentUnlocks(profile.Achievements, 3)
	if len(recent) > 0 {
		lines = append(lines, "")
		lines = append(lines, "  Recent Achievements:")
		for _, s := range recent {
			lines = append(lines, fmt.Sprintf("  ✅ %s (%s)", s.Definition.Name, s.Definition.Description))
		}
	}

	closest := achievement.Closest(profile.Achievements, 3)
	if len(closest) > 0 {
		lines = append(lines, "")
		lines = append(lines, "  Almost There:")
		for _, s := range closest {
			lines = append(lines, fmt.Sprintf("  ⏳ %s: %d%% toward %s",
				s.Definition.Name, int(s.Progress*100), formatNumber(s.Definition.Target)))
		}
	}

	if profile.CanPrestige {
		lines = append(lines, "")
		lines = append(lines, "  ⭐ Prestige available! Run `claude-rank prestige`")
	}
	lines = append(lines, "")

	panel(w, "CLAUDE RANK", lines, width)
}

// recentUnlocks returns up to n unlocked statuses, newest unlock date first.
func recentUnlocks(statuses []achievement.Status, n int) []achievement.Status {
	unlocked := make([]achievement.Status, 0, len(statuses))
	for _, s := range statuses {
		if s.Unlocked && s.UnlockedAt != "" {
			unlocked = append(unlocked, s)
		}
	}
	for i := 0; i < len(unlocked); i++ {
		for j := i + 1; j < len(unlocked); j++ {
			if unlocked[j].UnlockedAt > unlocked[i].UnlockedAt {
				unlocked[i], unlocked[j] = unlocked[j], unlocked[i]
			}
		}
	}
	if len(unlocked) > n {
		unlocked = unlocked[:n]
	}
	return unlocked
}
