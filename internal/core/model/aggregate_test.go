package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleAggregate() *DailyAggregate {
	agg := &DailyAggregate{
		Date:                   "2025-03-10",
		SessionCount:           2,
		QualifyingSessionCount: 1,
		MessageCount:           30,
		ToolCallCount:          12,
		EditCount:              4,
		CommitCount:            1,
		FirstEventTime:         1000,
		LastEventTime:          2000,
		SessionMessageCounts:   map[string]int{"s1": 20, "s2": 10},
		MaxSessionMessageCount: 20,
	}
	agg.HourHistogram[9] = 2
	agg.SetProjects(map[string]bool{"alpha": true})
	return agg
}

func TestMergeSumsAndUnions(t *testing.T) {
	a := sampleAggregate()
	b := &DailyAggregate{
		Date:                   "2025-03-10",
		SessionCount:           1,
		QualifyingSessionCount: 1,
		MessageCount:           15,
		ToolCallCount:          5,
		FirstEventTime:         500,
		LastEventTime:          3000,
		SessionMessageCounts:   map[string]int{"s1": 15},
	}
	b.HourHistogram[9] = 1
	b.HourHistogram[23] = 1
	b.SetProjects(map[string]bool{"beta": true})

	a.Merge(b)

	assert.Equal(t, 3, a.SessionCount)
	assert.Equal(t, 2, a.QualifyingSessionCount)
	assert.Equal(t, 45, a.MessageCount)
	assert.Equal(t, 17, a.ToolCallCount)
	assert.Equal(t, int64(500), a.FirstEventTime)
	assert.Equal(t, int64(3000), a.LastEventTime)
	assert.Equal(t, 3, a.HourHistogram[9])
	assert.Equal(t, 1, a.HourHistogram[23])
	assert.Equal(t, []string{"alpha", "beta"}, a.ProjectIds)

	// s1 accumulated to 35 across both partials: the max reflects the
	// combined per-session tally, not either partial's.
	assert.Equal(t, 35, a.MaxSessionMessageCount)
}

func TestMergeOrderIndependent(t *testing.T) {
	left := sampleAggregate()
	delta := &DailyAggregate{
		Date:                 "2025-03-10",
		MessageCount:         5,
		SessionMessageCounts: map[string]int{"s3": 5},
		FirstEventTime:       900,
		LastEventTime:        2500,
	}

	right := &DailyAggregate{Date: "2025-03-10"}
	right.Merge(delta)
	right.Merge(sampleAggregate())

	left.Merge(delta)

	assert.Equal(t, left.MessageCount, right.MessageCount)
	assert.Equal(t, left.MaxSessionMessageCount, right.MaxSessionMessageCount)
	assert.Equal(t, left.ProjectIds, right.ProjectIds)
	assert.Equal(t, left.FirstEventTime, right.FirstEventTime)
	assert.Equal(t, left.LastEventTime, right.LastEventTime)
}

func TestActive(t *testing.T) {
	assert.False(t, (&DailyAggregate{MessageCount: 50}).Active())
	assert.True(t, (&DailyAggregate{QualifyingSessionCount: 1}).Active())
}

func TestHourWindows(t *testing.T) {
	agg := &DailyAggregate{}
	agg.HourHistogram[0] = 1
	agg.HourHistogram[4] = 2
	agg.HourHistogram[5] = 3
	agg.HourHistogram[6] = 1
	agg.HourHistogram[7] = 9

	assert.Equal(t, 3, agg.NightSessionHours())
	assert.Equal(t, 4, agg.EarlySessionHours())
}

func TestCursorOrdering(t *testing.T) {
	cursor := Cursor{Timestamp: 100, Uuid: "b"}

	assert.True(t, cursor.Before(&EventRecord{Timestamp: 101, Uuid: "a"}))
	assert.True(t, cursor.Before(&EventRecord{Timestamp: 100, Uuid: "c"}))
	assert.False(t, cursor.Before(&EventRecord{Timestamp: 100, Uuid: "b"}))
	assert.False(t, cursor.Before(&EventRecord{Timestamp: 100, Uuid: "a"}))
	assert.False(t, cursor.Before(&EventRecord{Timestamp: 99, Uuid: "z"}))
}

func TestStreakStateSnapshotDropsUndo(t *testing.T) {
	prev := StreakState{CurrentStreak: 3}
	state := StreakState{CurrentStreak: 4, Prev: &prev}

	snap := state.Snapshot()
	assert.Nil(t, snap.Prev)
	assert.Equal(t, 4, snap.CurrentStreak)
	assert.NotNil(t, state.Prev)
}

func TestStreakStateValid(t *testing.T) {
	tests := []struct {
		name  string
		state StreakState
		want  bool
	}{
		{"zero state", NewStreakState(), true},
		{"normal", StreakState{CurrentStreak: 5, LongestStreak: 9}, true},
		{"longest below current", StreakState{CurrentStreak: 5, LongestStreak: 4}, false},
		{"negative freezes", StreakState{FreezesAvailable: -1}, false},
		{"freezes above cap", StreakState{FreezesAvailable: 4, LongestStreak: 1}, false},
		{"negative streak", StreakState{CurrentStreak: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Valid())
		})
	}
}
