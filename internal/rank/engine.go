// Package rank is the sync engine: it folds new event records into daily
// aggregates, recomputes XP and streak state over the touched date range,
// re-evaluates achievements, and commits everything with the advanced cursor
// in one store transaction.
package rank

import (
	"fmt"

	"github.com/clauderank/claude-rank/internal/core/achievement"
	"github.com/clauderank/claude-rank/internal/core/errs"
	"github.com/clauderank/claude-rank/internal/core/model"
	"github.com/clauderank/claude-rank/internal/core/streak"
	"github.com/clauderank/claude-rank/internal/core/xp"
	"github.com/clauderank/claude-rank/internal/data/normalizer"
	"github.com/clauderank/claude-rank/internal/data/store"
	"github.com/clauderank/claude-rank/internal/util"
)

// EventSource is the normalizer-facing contract: an ordered, deduplicated
// stream of event records strictly after a cursor, delivered at most once
// per cursor advance.
type EventSource interface {
	EventsSince(cursor model.Cursor) ([]model.EventRecord, error)
}

var _ EventSource = (*normalizer.Normalizer)(nil)

// Engine wires the aggregation pipeline to the store.
type Engine struct {
	store   *store.Store
	source  EventSource
	tracker *streak.Tracker
	tp      *util.TimeProvider
}

// NewEngine creates a sync engine over the given store and event source.
func NewEngine(st *store.Store, source EventSource, tp *util.TimeProvider) *Engine {
	return &Engine{
		store:   st,
		source:  source,
		tracker: streak.NewTracker(tp),
		tp:      tp,
	}
}

// SyncResult summarizes one committed sync.
type SyncResult struct {
	EventsProcessed int
	EventsSkipped   int
	DaysTouched     int
	XPGained        int
	TotalXP         int
	CurrentStreak   int
	NewUnlocks      []achievement.Definition
}

// Sync reads events past the cursor and folds them into the derived state.
// Either every touched aggregate, ledger entry, the streak state, unlocks,
// and the cursor commit together, or none do.
func (e *Engine) Sync() (*SyncResult, error) {
	if err := e.store.CheckInvariants(); err != nil {
		return nil, err
	}

	tx, err := e.store.BeginSync()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	cursor, err := tx.GetCursor()
	if err != nil {
		return nil, fmt.Errorf("load cursor: %w", err)
	}

	events, err := e.source.EventsSince(cursor)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}

	result, err := e.apply(tx, cursor, events)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

// Rebuild drops all derived state and replays the complete event history in
// a single transaction. Achievement unlocks and prestige survive: both are
// monotone by contract.
func (e *Engine) Rebuild() (*SyncResult, error) {
	tx, err := e.store.BeginSync()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := tx.ClearDerivedState(); err != nil {
		return nil, fmt.Errorf("clear derived state: %w", err)
	}

	events, err := e.source.EventsSince(model.Cursor{})
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}

	result, err := e.apply(tx, model.Cursor{}, events)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	util.LogInfof("Rebuilt state from %d events", result.EventsProcessed)
	return result, nil
}

// apply folds events into the transaction. The fold has four strictly
// ordered phases per date: aggregate merge, XP recomputation, streak
// advance, and totals delta; achievements and the cursor follow once every
// touched date is final.
func (e *Engine) apply(tx *store.SyncTx, cursor model.Cursor, events []model.EventRecord) (*SyncResult, error) {
	streakState, err := tx.GetStreak()
	if err != nil {
		return nil, fmt.Errorf("load streak: %w", err)
	}
	totals, err := tx.GetTotals()
	if err != nil {
		return nil, fmt.Errorf("load totals: %w", err)
	}

	// Events for dates already closed by the streak fold are input errors:
	// skipped and logged, never folded, never fatal.
	closedBefore := ""
	if streakState.LastDate != "" {
		closedBefore = streakState.LastDate
	}
	kept := events[:0]
	skipped := 0
	for _, event := range events {
		date := e.tp.DateOf(event.Timestamp)
		if !model.ValidKind(event.Kind) || (closedBefore != "" && date < closedBefore) {
			skipped++
			util.LogWarnf("Skipping out-of-order or invalid event %s (%s on %s): %v",
				event.Uuid, event.Kind, date, errs.Inputf("date %s already closed", date))
			continue
		}
		kept = append(kept, event)
	}
	events = kept

	result := &SyncResult{EventsProcessed: len(events), EventsSkipped: skipped}
	if len(events) == 0 {
		result.TotalXP = totals.TotalXP
		result.CurrentStreak = streakState.CurrentStreak
		return result, nil
	}

	buckets, touchedDates := BucketByDate(events, e.tp)
	result.DaysTouched = len(touchedDates)
	xpBefore := totals.TotalXP

	// The newest folded date may be reopened by this sync; roll the streak
	// fold back one step so the range is refolded strictly in order.
	if streakState.LastDate != "" {
		if _, reopened := buckets[streakState.LastDate]; reopened {
			if streakState.Prev == nil {
				return nil, errs.Corruptionf("streak state for %s has no predecessor snapshot", streakState.LastDate)
			}
			streakState = *streakState.Prev
		}
	}
	foldFrom := touchedDates[0]
	if streakState.LastDate != "" {
		foldFrom = util.NextDate(streakState.LastDate)
	}
	lastDate := touchedDates[len(touchedDates)-1]

	for date := foldFrom; date <= lastDate; date = util.NextDate(date) {
		agg, err := tx.GetAggregate(date)
		if err != nil {
			return nil, fmt.Errorf("load aggregate %s: %w", date, err)
		}

		var oldAgg *model.DailyAggregate
		if agg != nil {
			oldCopy := *agg
			oldAgg = &oldCopy
		}

		if delta, ok := buckets[date]; ok {
			folded := FoldDay(date, delta, e.tp)
			if agg == nil {
				agg = folded
			} else {
				agg.Merge(folded)
			}
			if err := tx.PutAggregate(agg); err != nil {
				return nil, fmt.Errorf("store aggregate %s: %w", date, err)
			}
			if err := tx.RecordProjects(agg.ProjectIds, date); err != nil {
				return nil, fmt.Errorf("record projects %s: %w", date, err)
			}
		}

		prevStreakLen := streakState.CurrentStreak

		if agg != nil {
			seen, err := tx.SeenProjectsBefore(date)
			if err != nil {
				return nil, fmt.Errorf("load project history %s: %w", date, err)
			}
			newProjects := NewProjectCount(agg, seen)

			entry := xp.CalculateDaily(agg, newProjects, prevStreakLen)
			oldEntry, err := tx.GetLedgerEntry(date)
			if err != nil {
				return nil, fmt.Errorf("load ledger %s: %w", date, err)
			}
			if err := tx.PutLedgerEntry(&entry); err != nil {
				return nil, fmt.Errorf("store ledger %s: %w", date, err)
			}

			applyTotalsDelta(&totals, oldAgg, agg)
			if oldEntry != nil {
				totals.TotalXP -= oldEntry.FinalXP
			}
			totals.TotalXP += entry.FinalXP
		}

		// Streak transition, including eventless gap days.
		foldAgg := agg
		if foldAgg == nil {
			foldAgg = &model.DailyAggregate{Date: date}
		}
		before := streakState.Snapshot()
		streakState, err = e.tracker.Advance(streakState, foldAgg)
		if err != nil {
			return nil, err
		}
		streakState.Prev = &before
	}

	if totals.TotalXP < xpBefore {
		return nil, errs.Corruptionf("total XP decreased from %d to %d during sync", xpBefore, totals.TotalXP)
	}

	distinct, err := tx.CountProjects()
	if err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}
	totals.DistinctProjects = distinct

	if err := tx.PutStreak(streakState); err != nil {
		return nil, fmt.Errorf("store streak: %w", err)
	}
	if err := tx.PutTotals(totals); err != nil {
		return nil, fmt.Errorf("store totals: %w", err)
	}

	newUnlocks, err := e.evaluateAchievements(tx, totals, streakState, lastDate)
	if err != nil {
		return nil, err
	}

	last := events[len(events)-1]
	if err := tx.PutCursor(model.At(&last)); err != nil {
		return nil, fmt.Errorf("advance cursor: %w", err)
	}

	result.XPGained = totals.TotalXP - xpBefore
	result.TotalXP = totals.TotalXP
	result.CurrentStreak = streakState.CurrentStreak
	result.NewUnlocks = newUnlocks
	return result, nil
}

// evaluateAchievements re-evaluates the catalog and records first-time
// unlocks pinned to the newest date touched by this sync.
func (e *Engine) evaluateAchievements(tx *store.SyncTx, totals model.CumulativeTotals, streakState model.StreakState, unlockDate string) ([]achievement.Definition, error) {
	prestigeCount, _, err := tx.GetPrestige()
	if err != nil {
		return nil, fmt.Errorf("load prestige: %w", err)
	}
	existing, err := tx.GetUnlocks()
	if err != nil {
		return nil, fmt.Errorf("load unlocks: %w", err)
	}

	view := achievement.StatsView{Totals: totals, Streak: streakState, PrestigeCount: prestigeCount}
	var newUnlocks []achievement.Definition
	for _, status := range achievement.Evaluate(view) {
		if !status.Unlocked {
			continue
		}
		if _, already := existing[status.Definition.Id]; already {
			continue
		}
		if err := tx.UnlockAchievement(status.Definition.Id, unlockDate); err != nil {
			return nil, fmt.Errorf("unlock %s: %w", status.Definition.Id, err)
		}
		newUnlocks = append(newUnlocks, status.Definition)
	}
	return newUnlocks, nil
}

// applyTotalsDelta replaces oldAgg's contribution to the totals with newAgg's.
func applyTotalsDelta(totals *model.CumulativeTotals, oldAgg, newAgg *model.DailyAggregate) {
	if oldAgg != nil {
		totals.TotalSessions -= oldAgg.SessionCount
		totals.TotalMessages -= oldAgg.MessageCount
		totals.TotalToolCalls -= oldAgg.ToolCallCount
		totals.TotalCommits -= oldAgg.CommitCount
		totals.TotalSubagentSpawns -= oldAgg.SubagentSpawnCount
		totals.TotalEdits -= oldAgg.EditCount
		totals.NightSessions -= oldAgg.NightSessionHours()
		totals.EarlySessions -= oldAgg.EarlySessionHours()
		if oldAgg.Active() {
			totals.ActiveDays--
		}
	}
	totals.TotalSessions += newAgg.SessionCount
	totals.TotalMessages += newAgg.MessageCount
	totals.TotalToolCalls += newAgg.ToolCallCount
	totals.TotalCommits += newAgg.CommitCount
	totals.TotalSubagentSpawns += newAgg.SubagentSpawnCount
	totals.TotalEdits += newAgg.EditCount
	totals.NightSessions += newAgg.NightSessionHours()
	totals.EarlySessions += newAgg.EarlySessionHours()
	if newAgg.Active() {
		totals.ActiveDays++
	}
	if newAgg.MaxSessionMessageCount > totals.MaxSessionMessages {
		totals.MaxSessionMessages = newAgg.MaxSessionMessageCount
	}
}
