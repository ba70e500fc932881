package rank

import (
	"github.com/clauderank/claude-rank/internal/core/achievement"
	"github.com/clauderank/claude-rank/internal/core/level"
	"github.com/clauderank/claude-rank/internal/core/model"
	"github.com/clauderank/claude-rank/internal/data/store"
	"github.com/clauderank/claude-rank/internal/util"
)

// ProfileView is the full derived state read for rendering. Everything in it
// comes from committed store rows; nothing here mutates.
type ProfileView struct {
	Progression  level.Progression
	Totals       model.CumulativeTotals
	Streak       model.StreakState
	Achievements []achievement.Status
	XPBaseline   int
	CanPrestige  bool
}

// LoadProfile assembles the profile view from the store. Achievement
// statuses come back in catalog order with stored unlock dates; a stored
// unlock always wins over a live re-evaluation so the set stays monotone in
// what the user sees.
func LoadProfile(st *store.Store) (*ProfileView, error) {
	totals, err := st.Totals()
	if err != nil {
		return nil, err
	}
	streakState, err := st.Streak()
	if err != nil {
		return nil, err
	}
	prestigeCount, baseline, err := st.Prestige()
	if err != nil {
		return nil, err
	}
	unlocks, err := st.Unlocks()
	if err != nil {
		return nil, err
	}

	view := achievement.StatsView{Totals: totals, Streak: streakState, PrestigeCount: prestigeCount}
	statuses := achievement.Evaluate(view)
	for i := range statuses {
		if date, ok := unlocks[statuses[i].Definition.Id]; ok {
			statuses[i].Unlocked = true
			statuses[i].Progress = 1.0
			statuses[i].UnlockedAt = date
		}
	}

	return &ProfileView{
		Progression:  level.Compute(totals.TotalXP, baseline, prestigeCount),
		Totals:       totals,
		Streak:       streakState,
		Achievements: statuses,
		XPBaseline:   baseline,
		CanPrestige:  level.CanPrestige(totals.TotalXP, baseline),
	}, nil
}

// UnlockedCount counts the unlocked statuses.
func (p *ProfileView) UnlockedCount() int {
	count := 0
	for _, s := range p.Achievements {
		if s.Unlocked {
			count++
		}
	}
	return count
}

// Snapshot flattens the profile into the stable export shape.
func (p *ProfileView) Snapshot(tp *util.TimeProvider) model.Snapshot {
	fraction := 0.0
	if p.Progression.XPRequiredForLevel > 0 {
		fraction = float64(p.Progression.XPIntoLevel) / float64(p.Progression.XPRequiredForLevel)
	} else if p.Progression.Level >= level.MaxLevel {
		fraction = 1.0
	}
	return model.Snapshot{
		Level:                p.Progression.Level,
		TierName:             p.Progression.Tier.Name,
		TierColor:            p.Progression.Tier.Color,
		XPIntoLevel:          p.Progression.XPIntoLevel,
		XPRequiredForLevel:   p.Progression.XPRequiredForLevel,
		TotalXP:              p.Totals.TotalXP,
		PrestigeCount:        p.Progression.PrestigeCount,
		CurrentStreak:        p.Streak.CurrentStreak,
		LongestStreak:        p.Streak.LongestStreak,
		FreezesAvailable:     p.Streak.FreezesAvailable,
		AchievementsUnlocked: p.UnlockedCount(),
		AchievementsTotal:    len(p.Achievements),
		ActiveDays:           p.Totals.ActiveDays,
		GeneratedAt:          tp.Now().Unix(),
		ProgressFraction:     fraction,
	}
}
