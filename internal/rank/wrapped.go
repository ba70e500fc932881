package rank

import (
	"time"

	"github.com/clauderank/claude-rank/internal/core/errs"
	"github.com/clauderank/claude-rank/internal/core/level"
	"github.com/clauderank/claude-rank/internal/data/store"
	"github.com/clauderank/claude-rank/internal/util"
)

// WrappedSummary is a read-only recap of one period of activity.
type WrappedSummary struct {
	Period         string `json:"period"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	TotalXPEarned  int    `json:"totalXpEarned"`
	TotalSessions  int    `json:"totalSessions"`
	TotalMessages  int    `json:"totalMessages"`
	TotalToolCalls int    `json:"totalToolCalls"`
	ActiveDays     int    `json:"activeDays"`
	AvgXPPerDay    int    `json:"avgXpPerDay"`
	BusiestDay     string `json:"busiestDay,omitempty"`
	BusiestDayXP   int    `json:"busiestDayXp"`
	BusiestHour    int    `json:"busiestHour"` // -1 when no activity
	PeriodStreak   int    `json:"periodStreak"`
	Level          int    `json:"level"`
	PrestigeCount  int    `json:"prestigeCount"`
	LifetimeXP     int    `json:"lifetimeXp"`
	LongestStreak  int    `json:"longestStreak"`
}

// PeriodDates resolves a period name to an inclusive [start, end] date range
// anchored on today in the provider's timezone.
func PeriodDates(period string, tp *util.TimeProvider) (string, string, error) {
	now := tp.Now()
	switch period {
	case "week":
		return tp.DateOf(now.AddDate(0, 0, -6).Unix()), tp.DateOf(now.Unix()), nil
	case "month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, tp.Location())
		end := start.AddDate(0, 1, -1)
		return tp.DateOf(start.Unix()), tp.DateOf(end.Unix()), nil
	case "year":
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, tp.Location())
		end := time.Date(now.Year(), 12, 31, 0, 0, 0, 0, tp.Location())
		return tp.DateOf(start.Unix()), tp.DateOf(end.Unix()), nil
	case "all", "all-time":
		return "0000-01-01", tp.DateOf(now.Unix()), nil
	default:
		return "", "", errs.Inputf("unknown period %q (want week, month, year, or all)", period)
	}
}

// Wrapped builds the period recap from stored aggregates and ledger rows.
// It touches nothing: pure reads, no transaction.
func Wrapped(st *store.Store, period string, tp *util.TimeProvider) (*WrappedSummary, error) {
	start, end, err := PeriodDates(period, tp)
	if err != nil {
		return nil, err
	}

	aggs, err := st.AggregateRange(start, end)
	if err != nil {
		return nil, err
	}
	ledger, err := st.LedgerRange(start, end)
	if err != nil {
		return nil, err
	}
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

	summary := &WrappedSummary{
		Period:        period,
		StartDate:     start,
		EndDate:       end,
		BusiestHour:   -1,
		Level:         level.Compute(totals.TotalXP, baseline, prestigeCount).Level,
		PrestigeCount: prestigeCount,
		LifetimeXP:    totals.TotalXP,
		LongestStreak: streakState.LongestStreak,
	}

	var hourCounts [24]int
	activeDates := make([]string, 0, len(aggs))
	for _, agg := range aggs {
		summary.TotalSessions += agg.SessionCount
		summary.TotalMessages += agg.MessageCount
		summary.TotalToolCalls += agg.ToolCallCount
		for hour, count := range agg.HourHistogram {
			hourCounts[hour] += count
		}
		if agg.Active() {
			summary.ActiveDays++
			activeDates = append(activeDates, agg.Date)
		}
	}
	for _, entry := range ledger {
		summary.TotalXPEarned += entry.FinalXP
		if entry.FinalXP > summary.BusiestDayXP {
			summary.BusiestDayXP = entry.FinalXP
			summary.BusiestDay = entry.Date
		}
	}

	best := 0
	for hour, count := range hourCounts {
		if count > best {
			best = count
			summary.BusiestHour = hour
		}
	}
	if summary.ActiveDays > 0 {
		summary.AvgXPPerDay = summary.TotalXPEarned / summary.ActiveDays
	}
	summary.PeriodStreak = longestRun(activeDates)
	return summary, nil
}

// longestRun returns the longest consecutive-date run in a sorted date list.
func longestRun(dates []string) int {
	longest := 0
	current := 0
	prev := ""
	for _, date := range dates {
		if prev != "" && util.NextDate(prev) == date {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
		prev = date
	}
	return longest
}
