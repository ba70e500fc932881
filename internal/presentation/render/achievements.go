package render

import (
	"fmt"
	"io"

	"github.com/clauderank/claude-rank/internal/core/achievement"
)

var rarityOrder = []string{
	achievement.RarityLegendary,
	achievement.RarityEpic,
	achievement.RarityRare,
	achievement.RarityCommon,
}

// Achievements renders the full catalog grouped by rarity, unlocked first
// within each group.
func Achievements(w io.Writer, statuses []achievement.Status) {
	unlocked := 0
	for _, s := range statuses {
		if s.Unlocked {
			unlocked++
		}
	}
	fmt.Fprintf(w, "\nAchievements: %d/%d unlocked\n", unlocked, len(statuses))

	for _, rarity := range rarityOrder {
		group := make([]achievement.Status, 0, len(statuses))
		for _, s := range statuses {
			if s.Definition.Rarity == rarity {
				group = append(group, s)
			}
		}
		if len(group) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n  %s\n", rarityLabel(rarity))
		for _, s := range group {
			if !s.Unlocked {
				continue
			}
			fmt.Fprintf(w, "  ✅ %-20s %s  (unlocked %s)\n",
				s.Definition.Name, s.Definition.Description, s.UnlockedAt)
		}
		for _, s := range group {
			if s.Unlocked {
				continue
			}
			fmt.Fprintf(w, "  🔒 %-20s %s  [%d%%]\n",
				s.Definition.Name, s.Definition.Description, int(s.Progress*100))
		}
	}
	fmt.Fprintln(w)
}

func rarityLabel(rarity string) string {
	switch rarity {
	case achievement.RarityLegendary:
		return "★ Legendary"
	case achievement.RarityEpic:
		return "◆ Epic"
	case achievement.RarityRare:
		return "● Rare"
	default:
		return "○ Common"
	}
}
