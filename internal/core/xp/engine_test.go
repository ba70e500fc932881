package xp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clauderank/claude-rank/internal/core/model"
)

func TestStreakMultiplier(t *testing.T) {
	tests := []struct {
		name string
		days int
		want float64
	}{
		{"no streak", 0, 1.0},
		{"under a week", 6, 1.0},
		{"exactly seven days", 7, 1.25},
		{"eighth day keeps the week tier", 8, 1.25},
		{"two weeks", 14, 1.5},
		{"a month", 30, 2.0},
		{"beyond a month", 90, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StreakMultiplier(tt.days))
		})
	}
}

func TestApplyDiminishingReturns(t *testing.T) {
	assert.Equal(t, 0, applyDiminishingReturns(0))
	assert.Equal(t, 500, applyDiminishingReturns(500))
	assert.Equal(t, 550, applyDiminishingReturns(600))
	assert.Equal(t, 750, applyDiminishingReturns(1000))
	// Odd excess floors
	assert.Equal(t, 500, applyDiminishingReturns(501))
}

func TestCalculateDailyBreakdown(t *testing.T) {
	agg := &model.DailyAggregate{
		Date:                   "2025-03-10",
		SessionCount:           2,
		QualifyingSessionCount: 1,
		MessageCount:           20,
		ToolCallCount:          16,
		EditCount:              0,
		CommitCount:            0,
	}

	// 10 + 20 + 32 + 20 = 82 raw, under every bound; first-session bonus
	// gives round(82 * 1.5) = 123.
	entry := CalculateDaily(agg, 4, 0)
	assert.Equal(t, 82, entry.RawXP)
	assert.Equal(t, 82, entry.CappedXP)
	assert.Equal(t, 1.5, entry.Multiplier)
	assert.Equal(t, 123, entry.FinalXP)
	assert.Equal(t, 10, entry.Breakdown.Sessions)
	assert.Equal(t, 20, entry.Breakdown.Messages)
	assert.Equal(t, 32, entry.Breakdown.Tools)
	assert.Equal(t, 20, entry.Breakdown.Projects)
}

func TestCalculateDailyCapBeforeMultiplier(t *testing.T) {
	agg := &model.DailyAggregate{
		Date:                   "2025-03-10",
		SessionCount:           10,
		QualifyingSessionCount: 10,
		MessageCount:           500,
		ToolCallCount:          400,
	}

	// Raw 10*10 + 500 + 800 = 1400 -> diminished 950 -> capped 800.
	// Multipliers apply to the capped value, never the raw one.
	entry := CalculateDaily(agg, 0, 30)
	assert.Equal(t, 1400, entry.RawXP)
	assert.Equal(t, DailyXPCap, entry.CappedXP)
	assert.Equal(t, 3.0, entry.Multiplier) // 2.0 streak tier * 1.5 bonus
	assert.Equal(t, 2400, entry.FinalXP)
}

func TestCalculateDailyNoQualifyingSession(t *testing.T) {
	agg := &model.DailyAggregate{
		Date:          "2025-03-10",
		MessageCount:  40,
		ToolCallCount: 3,
	}

	// No qualifying session, no bonus; streak tier still applies.
	entry := CalculateDaily(agg, 0, 7)
	assert.Equal(t, 46, entry.RawXP)
	assert.Equal(t, 1.25, entry.Multiplier)
	assert.Equal(t, 58, entry.FinalXP) // round(46 * 1.25) = round(57.5)
}

func TestCalculateDailyDayEightMultiplier(t *testing.T) {
	agg := &model.DailyAggregate{
		Date:                   "2025-03-10",
		SessionCount:           1,
		QualifyingSessionCount: 0,
		MessageCount:           100,
	}

	// Seven days already banked; this day is the eighth.
	entry := CalculateDaily(agg, 0, 7)
	assert.Equal(t, 1.25, entry.Multiplier)
}

func TestCalculateDailyEmptyDay(t *testing.T) {
	entry := CalculateDaily(&model.DailyAggregate{Date: "2025-03-10"}, 0, 0)
	assert.Equal(t, 0, entry.RawXP)
	assert.Equal(t, 0, entry.FinalXP)
	assert.Equal(t, 1.0, entry.Multiplier)
}
