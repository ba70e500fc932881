package rank

import (
	"sort"

	"github.com/clauderank/claude-rank/internal/core/model"
	"github.com/clauderank/claude-rank/internal/core/xp"
	"github.com/clauderank/claude-rank/internal/util"
)

// BucketByDate partitions events into per-date slices under the day-boundary
// policy and returns the touched dates in increasing order.
func BucketByDate(events []model.EventRecord, tp *util.TimeProvider) (map[string][]model.EventRecord, []string) {
	buckets := make(map[string][]model.EventRecord)
	for _, event := range events {
		date := tp.DateOf(event.Timestamp)
		buckets[date] = append(buckets[date], event)
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return buckets, dates
}

// FoldDay folds all event records of one date into its aggregate. The fold
// is a pure function of the date's event set: counts sum, sets union,
// histogram buckets sum, max takes the maximum. The qualifying gate is
// evaluated once per session_end event, never re-derived from partial
// tool-call events.
func FoldDay(date string, events []model.EventRecord, tp *util.TimeProvider) *model.DailyAggregate {
	agg := &model.DailyAggregate{Date: date, SessionMessageCounts: make(map[string]int)}
	projects := make(map[string]bool)

	for _, event := range events {
		if event.ProjectId != "" {
			projects[event.ProjectId] = true
		}
		agg.HourHistogram[tp.HourOf(event.Timestamp)]++
		if agg.FirstEventTime == 0 || event.Timestamp < agg.FirstEventTime {
			agg.FirstEventTime = event.Timestamp
		}
		if event.Timestamp > agg.LastEventTime {
			agg.LastEventTime = event.Timestamp
		}

		switch event.Kind {
		case model.KindSessionEnd:
			agg.SessionCount++
			if event.ToolCallCount >= xp.MinToolCallsPerSession {
				agg.QualifyingSessionCount++
			}
		case model.KindMessage:
			agg.MessageCount++
			agg.SessionMessageCounts[event.SessionId]++
		case model.KindToolCall:
			agg.ToolCallCount++
			if model.IsEditTool(event.ToolName) {
				agg.EditCount++
			}
		case model.KindCommit:
			agg.CommitCount++
		case model.KindSubagentSpawn:
			agg.SubagentSpawnCount++
		}
	}

	for _, count := range agg.SessionMessageCounts {
		if count > agg.MaxSessionMessageCount {
			agg.MaxSessionMessageCount = count
		}
	}
	agg.SetProjects(projects)
	return agg
}

// NewProjectCount counts the aggregate's projects not already present in the
// history of projects seen on earlier dates, and adds them to the history.
func NewProjectCount(agg *model.DailyAggregate, seenProjects map[string]bool) int {
	count := 0
	for _, id := range agg.ProjectIds {
		if !seenProjects[id] {
			seenProjects[id] = true
			count++
		}
	}
	return count
}
