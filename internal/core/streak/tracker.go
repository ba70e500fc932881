// Package streak advances the streak state machine. The state is a strict
// fold over calendar dates: a transition for date D is only valid once every
// prior date's resulting state is final, so the tracker rejects out-of-order
// dates instead of guessing.
package streak

import (
	"math"
	"time"

	"github.com/clauderank/claude-rank/internal/core/errs"
	"github.com/clauderank/claude-rank/internal/core/model"
	"github.com/clauderank/claude-rank/internal/util"
)

// Grace window bounds, in hours since the last activity.
const (
	fullGraceHours    = 24
	partialGraceHours = 48
)

// freezeInterval is the active-day cadence at which freezes are awarded.
const freezeInterval = 7

// Tracker folds daily aggregates into streak state.
type Tracker struct {
	tp *util.TimeProvider
}

// NewTracker creates a tracker bound to the store's day-boundary policy.
func NewTracker(tp *util.TimeProvider) *Tracker {
	return &Tracker{tp: tp}
}

// Advance applies the transition for one date and returns the new state.
//
// Dates must arrive in strictly increasing order; a date at or before the
// last processed one is an input error. Grace windows are evaluated before
// freeze consumption: a freeze is only spent once the gap is no longer
// covered by grace.
func (t *Tracker) Advance(state model.StreakState, agg *model.DailyAggregate) (model.StreakState, error) {
	date := agg.Date
	if !util.ValidDate(date) {
		return state, errs.Inputf("malformed date %q", date)
	}
	if state.LastDate != "" && date <= state.LastDate {
		return state, errs.Inputf("date %s not after last processed date %s", date, state.LastDate)
	}

	next := state
	next.LastDate = date

	if agg.Active() {
		if state.State == model.StreakBroken && state.CurrentStreak == 0 {
			next.CurrentStreak = 1
		} else {
			next.CurrentStreak = state.CurrentStreak + 1
		}
		next.State = model.StreakActive
		next.LastActiveDate = date
		next.LastActiveAt = agg.LastEventTime
		if next.CurrentStreak > 0 && next.CurrentStreak%freezeInterval == 0 && next.FreezesAvailable < model.MaxFreezes {
			next.FreezesAvailable++
		}
	} else {
		next = t.advanceInactive(next, date)
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	return next, nil
}

// advanceInactive decides what an inactive date does to the streak. The gap
// is measured from the last activity timestamp to the end of the inactive
// date, so a single missed day always lands inside the grace window.
func (t *Tracker) advanceInactive(state model.StreakState, date string) model.StreakState {
	if state.CurrentStreak == 0 {
		state.State = model.StreakBroken
		return state
	}

	dayEnd, err := t.tp.DayEnd(date)
	if err != nil {
		// date already validated by Advance
		state.State = model.StreakBroken
		state.CurrentStreak = 0
		return state
	}
	hours := dayEnd.Sub(time.Unix(state.LastActiveAt, 0)).Hours()

	switch {
	case hours <= fullGraceHours:
		// Full grace: streak continues untouched.
		state.State = model.StreakGrace
	case hours <= partialGraceHours:
		// Partial grace: streak continues reduced by 25%, floored.
		state.CurrentStreak = int(math.Floor(float64(state.CurrentStreak) * 0.75))
		state.State = model.StreakGrace
		if state.CurrentStreak == 0 {
			state.State = model.StreakBroken
		}
	case state.FreezesAvailable > 0:
		state.FreezesAvailable--
		state.FreezeUsedDates = append(state.FreezeUsedDates, date)
		state.State = model.StreakFrozen
	default:
		state.CurrentStreak = 0
		state.State = model.StreakBroken
	}
	return state
}

// Replay folds a sequence of date-ordered aggregates from the given state.
func (t *Tracker) Replay(state model.StreakState, aggregates []*model.DailyAggregate) (model.StreakState, error) {
	for _, agg := range aggregates {
		var err error
		state, err = t.Advance(state, agg)
		if err != nil {
			return state, err
		}
	}
	return state, nil
}
