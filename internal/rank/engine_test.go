package rank

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clauderank/claude-rank/internal/core/errs"
	"github.com/clauderank/claude-rank/internal/core/model"
	"github.com/clauderank/claude-rank/internal/data/store"
	"github.com/clauderank/claude-rank/internal/util"
)

func init() {
	util.InitLogger("error", "", false)
}

// sliceSource serves a fixed in-memory event slice, honoring the cursor the
// way the normalizer does.
type sliceSource struct {
	events []model.EventRecord
}

func (s *sliceSource) EventsSince(cursor model.Cursor) ([]model.EventRecord, error) {
	var out []model.EventRecord
	for _, e := range s.events {
		if cursor.Before(&e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// rawSource ignores the cursor entirely, for feeding the engine events it
// should reject.
type rawSource struct {
	events []model.EventRecord
}

func (s *rawSource) EventsSince(model.Cursor) ([]model.EventRecord, error) {
	return s.events, nil
}

func newTestEngine(t *testing.T, source EventSource) (*Engine, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "rank.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	tp := &util.TimeProvider{}
	require.NoError(t, tp.SetTimezone("UTC"))
	return NewEngine(st, source, tp), st
}

// dayEvents builds one date's events: a qualifying session end, messages,
// and tool calls, all stamped with unique uuids.
func dayEvents(t *testing.T, date, project string, messages, tools int) []model.EventRecord {
	base, err := time.Parse("2006-01-02 15:04", date+" 09:00")
	require.NoError(t, err)

	var events []model.EventRecord
	next := base.Unix()
	add := func(kind, tool string, toolCalls int) {
		events = append(events, model.EventRecord{
			Uuid:          fmt.Sprintf("%s-%s-%d", date, kind, next),
			Timestamp:     next,
			Kind:          kind,
			ProjectId:     project,
			SessionId:     date + "-s1",
			ToolName:      tool,
			ToolCallCount: toolCalls,
		})
		next++
	}
	for i := 0; i < messages; i++ {
		add(model.KindMessage, "", 0)
	}
	for i := 0; i < tools; i++ {
		add(model.KindToolCall, "Bash", 0)
	}
	add(model.KindSessionEnd, "", tools)
	return events
}

func TestSyncFoldsOneDay(t *testing.T) {
	source := &sliceSource{events: dayEvents(t, "2025-03-10", "alpha", 20, 16)}
	engine, st := newTestEngine(t, source)

	result, err := engine.Sync()
	require.NoError(t, err)

	assert.Equal(t, 37, result.EventsProcessed)
	assert.Equal(t, 1, result.DaysTouched)
	// 10 session + 20 messages + 32 tools + 5 new project = 67 raw,
	// times the 1.5 first-session bonus.
	assert.Equal(t, 101, result.TotalXP)
	assert.Equal(t, 1, result.CurrentStreak)

	agg, err := st.Aggregate("2025-03-10")
	require.NoError(t, err)
	require.NotNil(t, agg)
	assert.Equal(t, 20, agg.MessageCount)
	assert.Equal(t, 16, agg.ToolCallCount)
	assert.Equal(t, 1, agg.QualifyingSessionCount)

	entries, err := st.LedgerRange("2025-03-10", "2025-03-10")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 67, entries[0].RawXP)
	assert.Equal(t, 101, entries[0].FinalXP)

	// hello_world unlocks on this sync, pinned to the touched date.
	unlocks, err := st.Unlocks()
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", unlocks["hello_world"])

	cursor, err := st.Cursor()
	require.NoError(t, err)
	last := source.events[len(source.events)-1]
	assert.Equal(t, model.At(&last), cursor)
}

func TestSyncIsIdempotent(t *testing.T) {
	source := &sliceSource{events: dayEvents(t, "2025-03-10", "alpha", 20, 16)}
	engine, st := newTestEngine(t, source)

	_, err := engine.Sync()
	require.NoError(t, err)
	totalsBefore, err := st.Totals()
	require.NoError(t, err)

	// Nothing new: a second sync is a no-op.
	result, err := engine.Sync()
	require.NoError(t, err)
	assert.Equal(t, 0, result.EventsProcessed)
	assert.Equal(t, 0, result.XPGained)

	totalsAfter, err := st.Totals()
	require.NoError(t, err)
	assert.Equal(t, totalsBefore, totalsAfter)
}

func TestSyncMergesReopenedDay(t *testing.T) {
	morning := dayEvents(t, "2025-03-10", "alpha", 10, 8)

	source := &sliceSource{events: morning}
	engine, st := newTestEngine(t, source)
	_, err := engine.Sync()
	require.NoError(t, err)

	// More activity lands on the same date after the first sync.
	base, err2 := time.Parse("2006-01-02 15:04", "2025-03-10 15:00")
	require.NoError(t, err2)
	extra := []model.EventRecord{
		{Uuid: "pm-1", Timestamp: base.Unix(), Kind: model.KindMessage, SessionId: "2025-03-10-s1", ProjectId: "alpha"},
		{Uuid: "pm-2", Timestamp: base.Unix() + 1, Kind: model.KindCommit, SessionId: "2025-03-10-s1", ProjectId: "alpha"},
	}
	source.events = append(source.events, extra...)

	result, err := engine.Sync()
	require.NoError(t, err)
	assert.Equal(t, 2, result.EventsProcessed)

	agg, err := st.Aggregate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 11, agg.MessageCount)
	assert.Equal(t, 1, agg.CommitCount)

	// Still one day, still one streak step.
	streak, err := st.Streak()
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)

	// The day's ledger entry was replaced, not appended.
	entries, err := st.LedgerRange("2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestIncrementalSyncMatchesRebuild(t *testing.T) {
	dates := []string{
		"2025-03-01", "2025-03-02", "2025-03-03", "2025-03-04",
		// gap on 03-05 and 03-06
		"2025-03-07", "2025-03-08", "2025-03-09", "2025-03-10",
	}
	var all []model.EventRecord
	for i, date := range dates {
		project := "alpha"
		if i%3 == 0 {
			project = "beta"
		}
		all = append(all, dayEvents(t, date, project, 10+i, 8)...)
	}

	// Engine A sees the history in three increments.
	sourceA := &sliceSource{events: all[:40]}
	engineA, stA := newTestEngine(t, sourceA)
	_, err := engineA.Sync()
	require.NoError(t, err)
	sourceA.events = all[:100]
	_, err = engineA.Sync()
	require.NoError(t, err)
	sourceA.events = all
	_, err = engineA.Sync()
	require.NoError(t, err)

	// Engine B replays everything at once.
	engineB, stB := newTestEngine(t, &sliceSource{events: all})
	_, err = engineB.Sync()
	require.NoError(t, err)

	totalsA, err := stA.Totals()
	require.NoError(t, err)
	totalsB, err := stB.Totals()
	require.NoError(t, err)
	assert.Equal(t, totalsB, totalsA)

	streakA, err := stA.Streak()
	require.NoError(t, err)
	streakB, err := stB.Streak()
	require.NoError(t, err)
	assert.Equal(t, streakB.Snapshot(), streakA.Snapshot())

	ledgerA, err := stA.LedgerRange("2025-03-01", "2025-03-31")
	require.NoError(t, err)
	ledgerB, err := stB.LedgerRange("2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, ledgerB, ledgerA)

	aggsA, err := stA.AggregateRange("2025-03-01", "2025-03-31")
	require.NoError(t, err)
	aggsB, err := stB.AggregateRange("2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, aggsB, aggsA)
}

func TestRebuildMatchesIncrementalState(t *testing.T) {
	var all []model.EventRecord
	for _, date := range []string{"2025-03-01", "2025-03-02", "2025-03-03"} {
		all = append(all, dayEvents(t, date, "alpha", 12, 8)...)
	}

	source := &sliceSource{events: all[:30]}
	engine, st := newTestEngine(t, source)
	_, err := engine.Sync()
	require.NoError(t, err)
	source.events = all
	_, err = engine.Sync()
	require.NoError(t, err)

	totalsBefore, err := st.Totals()
	require.NoError(t, err)
	unlocksBefore, err := st.Unlocks()
	require.NoError(t, err)

	_, err = engine.Rebuild()
	require.NoError(t, err)

	totalsAfter, err := st.Totals()
	require.NoError(t, err)
	assert.Equal(t, totalsBefore, totalsAfter)

	// Unlock dates are write-once and survive the rebuild untouched.
	unlocksAfter, err := st.Unlocks()
	require.NoError(t, err)
	assert.Equal(t, unlocksBefore, unlocksAfter)
}

func TestSyncCoversGapDays(t *testing.T) {
	var all []model.EventRecord
	all = append(all, dayEvents(t, "2025-03-01", "alpha", 10, 8)...)
	all = append(all, dayEvents(t, "2025-03-04", "alpha", 10, 8)...)

	engine, st := newTestEngine(t, &sliceSource{events: all})
	result, err := engine.Sync()
	require.NoError(t, err)
	assert.Equal(t, 2, result.DaysTouched)

	// A one-day streak does not survive a two-day gap; activity on the
	// fourth starts over.
	streak, err := st.Streak()
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.LongestStreak)

	// Eventless gap days leave no rows behind.
	agg, err := st.Aggregate("2025-03-02")
	require.NoError(t, err)
	assert.Nil(t, agg)
	entries, err := st.LedgerRange("2025-03-02", "2025-03-03")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSyncSkipsInvalidAndStaleEvents(t *testing.T) {
	day2 := dayEvents(t, "2025-03-02", "alpha", 5, 0)
	engine, st := newTestEngine(t, &rawSource{events: day2})
	_, err := engine.Sync()
	require.NoError(t, err)

	// A misbehaving source hands back an event for an already-closed date
	// and one with an unknown kind; both are skipped, neither aborts.
	stale, err2 := time.Parse("2006-01-02 15:04", "2025-03-01 10:00")
	require.NoError(t, err2)
	fresh, err2 := time.Parse("2006-01-02 15:04", "2025-03-03 10:00")
	require.NoError(t, err2)
	engine.source = &rawSource{events: []model.EventRecord{
		{Uuid: "stale", Timestamp: stale.Unix(), Kind: model.KindMessage, SessionId: "s1"},
		{Uuid: "weird", Timestamp: fresh.Unix(), Kind: "teleport", SessionId: "s1"},
		{Uuid: "good", Timestamp: fresh.Unix() + 1, Kind: model.KindMessage, SessionId: "s1"},
	}}

	result, err := engine.Sync()
	require.NoError(t, err)
	assert.Equal(t, 2, result.EventsSkipped)
	assert.Equal(t, 1, result.EventsProcessed)

	agg, err := st.Aggregate("2025-03-03")
	require.NoError(t, err)
	require.NotNil(t, agg)
	assert.Equal(t, 1, agg.MessageCount)
	// The stale event never reached the closed date.
	agg, err = st.Aggregate("2025-03-01")
	require.NoError(t, err)
	assert.Nil(t, agg)
}

func TestSyncRefusesCorruptState(t *testing.T) {
	engine, st := newTestEngine(t, &sliceSource{})

	tx, err := st.BeginSync()
	require.NoError(t, err)
	require.NoError(t, tx.PutStreak(model.StreakState{CurrentStreak: 5, LongestStreak: 1}))
	require.NoError(t, tx.Commit())

	_, err = engine.Sync()
	assert.ErrorIs(t, err, errs.ErrStateCorruption)
}

func TestPrestige(t *testing.T) {
	source := &sliceSource{events: dayEvents(t, "2025-03-10", "alpha", 20, 16)}
	engine, st := newTestEngine(t, source)
	_, err := engine.Sync()
	require.NoError(t, err)

	// Far below the cap: precondition fails, nothing changes.
	_, err = engine.Prestige()
	assert.ErrorIs(t, err, errs.ErrPrecondition)
	count, _, err := st.Prestige()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Grant enough lifetime XP for the full climb.
	tx, err := st.BeginSync()
	require.NoError(t, err)
	totals, err := tx.GetTotals()
	require.NoError(t, err)
	totals.TotalXP = 10_000_000
	require.NoError(t, tx.PutTotals(totals))
	require.NoError(t, tx.Commit())

	result, err := engine.Prestige()
	require.NoError(t, err)
	assert.Equal(t, 1, result.PrestigeCount)
	assert.Equal(t, 10_000_000, result.NewBaseline)

	count, baseline, err := st.Prestige()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 10_000_000, baseline)

	// Prestiging unlocks its achievement.
	unlocks, err := st.Unlocks()
	require.NoError(t, err)
	assert.Contains(t, unlocks, "ascended")

	// The cycle starts over: a second prestige needs a fresh climb.
	_, err = engine.Prestige()
	assert.ErrorIs(t, err, errs.ErrPrecondition)
}
