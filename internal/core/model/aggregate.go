package model

import "sort"

// DailyAggregate holds all per-day counters derived from the event records of
// a single calendar date. It is a pure function of that date's event set:
// refolding the same events yields the same aggregate, and every field merges
// associatively (counts sum, sets union, histogram buckets sum, max takes the
// maximum), which is what makes resync idempotent.
type DailyAggregate struct {
	Date                   string   `json:"date"`
	SessionCount           int      `json:"sessionCount"`
	QualifyingSessionCount int      `json:"qualifyingSessionCount"`
	MessageCount           int      `json:"messageCount"`
	ToolCallCount          int      `json:"toolCallCount"`
	EditCount              int      `json:"editCount"`
	CommitCount            int      `json:"commitCount"`
	SubagentSpawnCount     int      `json:"subagentSpawnCount"`
	ProjectIds             []string `json:"projectIds"` // sorted, unique
	HourHistogram          [24]int  `json:"hourHistogram"`
	MaxSessionMessageCount int      `json:"maxSessionMessageCount"`
	FirstEventTime         int64    `json:"firstEventTime"` // Unix timestamp of first event in the day
	LastEventTime          int64    `json:"lastEventTime"`  // Unix timestamp of last event in the day

	// SessionMessageCounts keeps per-session message tallies so that an
	// aggregate merged across several syncs still yields the exact
	// MaxSessionMessageCount a from-scratch refold would.
	SessionMessageCounts map[string]int `json:"sessionMessageCounts,omitempty"`
}

// Merge folds another partial aggregate for the same date into this one.
// Counts sum, sets union, histogram buckets sum, max takes the maximum, so
// merging a delta equals refolding the union of both event sets.
func (d *DailyAggregate) Merge(other *DailyAggregate) {
	d.SessionCount += other.SessionCount
	d.QualifyingSessionCount += other.QualifyingSessionCount
	d.MessageCount += other.MessageCount
	d.ToolCallCount += other.ToolCallCount
	d.EditCount += other.EditCount
	d.CommitCount += other.CommitCount
	d.SubagentSpawnCount += other.SubagentSpawnCount
	for h := 0; h < 24; h++ {
		d.HourHistogram[h] += other.HourHistogram[h]
	}
	if d.FirstEventTime == 0 || (other.FirstEventTime != 0 && other.FirstEventTime < d.FirstEventTime) {
		d.FirstEventTime = other.FirstEventTime
	}
	if other.LastEventTime > d.LastEventTime {
		d.LastEventTime = other.LastEventTime
	}

	projects := make(map[string]bool, len(d.ProjectIds)+len(other.ProjectIds))
	for _, id := range d.ProjectIds {
		projects[id] = true
	}
	for _, id := range other.ProjectIds {
		projects[id] = true
	}
	d.SetProjects(projects)

	if d.SessionMessageCounts == nil && len(other.SessionMessageCounts) > 0 {
		d.SessionMessageCounts = make(map[string]int)
	}
	for session, count := range other.SessionMessageCounts {
		d.SessionMessageCounts[session] += count
	}
	d.MaxSessionMessageCount = 0
	for _, count := range d.SessionMessageCounts {
		if count > d.MaxSessionMessageCount {
			d.MaxSessionMessageCount = count
		}
	}
}

// Active reports whether the date counts toward streak activity.
// Only days with at least one qualifying session are active.
func (d *DailyAggregate) Active() bool {
	return d.QualifyingSessionCount >= 1
}

// SetProjects stores the project set as a sorted unique slice.
func (d *DailyAggregate) SetProjects(projects map[string]bool) {
	ids := make([]string, 0, len(projects))
	for id := range projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	d.ProjectIds = ids
}

// NightSessionHours counts histogram entries in hours 0-4.
func (d *DailyAggregate) NightSessionHours() int {
	total := 0
	for h := 0; h <= 4; h++ {
		total += d.HourHistogram[h]
	}
	return total
}

// EarlySessionHours counts histogram entries in hours 5-6.
func (d *DailyAggregate) EarlySessionHours() int {
	return d.HourHistogram[5] + d.HourHistogram[6]
}
