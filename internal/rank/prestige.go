package rank

import (
	"github.com/clauderank/claude-rank/internal/core/errs"
	"github.com/clauderank/claude-rank/internal/core/level"
	"github.com/clauderank/claude-rank/internal/util"
)

// PrestigeResult reports a committed prestige.
type PrestigeResult struct {
	PrestigeCount int
	NewBaseline   int
}

// Prestige resets the level cycle: the prestige count increments and the
// current lifetime XP becomes the new baseline, both in one transaction.
// Lifetime XP, the aggregates, the ledger, streaks, and unlocks are
// untouched.
func (e *Engine) Prestige() (*PrestigeResult, error) {
	tx, err := e.store.BeginSync()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	totals, err := tx.GetTotals()
	if err != nil {
		return nil, err
	}
	count, baseline, err := tx.GetPrestige()
	if err != nil {
		return nil, err
	}

	if !level.CanPrestige(totals.TotalXP, baseline) {
		short := level.PrestigeXPThreshold - (totals.TotalXP - baseline)
		return nil, errs.Preconditionf("level %d: need %d more XP in this cycle to prestige",
			level.Compute(totals.TotalXP, baseline, count).Level, short)
	}

	count++
	if err := tx.PutPrestige(count, totals.TotalXP); err != nil {
		return nil, err
	}

	// The prestige milestone may itself unlock achievements.
	streakState, err := tx.GetStreak()
	if err != nil {
		return nil, err
	}
	if _, err := e.evaluateAchievements(tx, totals, streakState, e.tp.Today()); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	util.LogInfof("Prestiged to count %d, baseline %d XP", count, totals.TotalXP)
	return &PrestigeResult{PrestigeCount: count, NewBaseline: totals.TotalXP}, nil
}
