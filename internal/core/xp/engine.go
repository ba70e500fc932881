// Package xp converts one day's aggregate into XP. All steps are pure; the
// only cross-day input is the streak state as of the previous date, so a
// day's multiplier can never depend on its own outcome.
package xp

import (
	"math"

	"github.com/clauderank/claude-rank/internal/core/model"
)

// Base XP values per counted action.
const (
	XPPerSession  = 10
	XPPerMessage  = 1
	XPPerToolCall = 2
	XPPerProject  = 5
	XPPerEdit     = 3
	XPPerCommit   = 5
	XPPerSubagent = 5
)

// Anti-gaming bounds.
const (
	DailyXPCap            = 800
	DiminishingThreshold  = 500
	MinToolCallsPerSession = 5
)

// FirstSessionBonus multiplies the day's capped XP when the day has at least
// one qualifying session.
const FirstSessionBonus = 1.5

// StreakMultiplier returns the multiplier earned by a streak of the given
// length. Highest applicable tier wins.
func StreakMultiplier(streakDays int) float64 {
	switch {
	case streakDays >= 30:
		return 2.0
	case streakDays >= 14:
		return 1.5
	case streakDays >= 7:
		return 1.25
	default:
		return 1.0
	}
}

// applyDiminishingReturns keeps the first DiminishingThreshold XP at full
// rate and halves the remainder.
func applyDiminishingReturns(rawXP int) int {
	if rawXP <= DiminishingThreshold {
		return rawXP
	}
	excess := rawXP - DiminishingThreshold
	return DiminishingThreshold + int(math.Floor(float64(excess)*0.5))
}

// CalculateDaily produces the ledger entry for one date.
//
// agg is the day's aggregate with NewProjectCount already resolved against
// project history. prevStreak is the streak length as of the previous date;
// the engine adds the day itself before looking up the multiplier tier.
// The cap is applied before multipliers so streak and timing bonuses cannot
// bypass the daily ceiling.
func CalculateDaily(agg *model.DailyAggregate, newProjects, prevStreak int) model.XPLedgerEntry {
	breakdown := model.XPBreakdown{
		Sessions:  agg.QualifyingSessionCount * XPPerSession,
		Messages:  agg.MessageCount * XPPerMessage,
		Tools:     agg.ToolCallCount * XPPerToolCall,
		Projects:  newProjects * XPPerProject,
		Edits:     agg.EditCount * XPPerEdit,
		Commits:   agg.CommitCount * XPPerCommit,
		Subagents: agg.SubagentSpawnCount * XPPerSubagent,
	}

	rawXP := breakdown.Sessions + breakdown.Messages + breakdown.Tools +
		breakdown.Projects + breakdown.Edits + breakdown.Commits + breakdown.Subagents

	cappedXP := applyDiminishingReturns(rawXP)
	if cappedXP > DailyXPCap {
		cappedXP = DailyXPCap
	}

	multiplier := StreakMultiplier(prevStreak + 1)
	if agg.QualifyingSessionCount > 0 {
		multiplier *= FirstSessionBonus
	}

	return model.XPLedgerEntry{
		Date:       agg.Date,
		RawXP:      rawXP,
		CappedXP:   cappedXP,
		Multiplier: multiplier,
		FinalXP:    int(math.Round(float64(cappedXP) * multiplier)),
		Breakdown:  breakdown,
	}
}
