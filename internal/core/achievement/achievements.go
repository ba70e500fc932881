// Package achievement holds the fixed achievement table and its evaluator.
// Every achievement is one tagged definition (metric + target) checked by a
// single uniform routine; there are no per-achievement code paths.
package achievement

import (
	"sort"

	"github.com/clauderank/claude-rank/internal/core/model"
)

// Rarity buckets, for display only.
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Metric identifies which stat a definition is checked against.
type Metric int

const (
	MetricTotalSessions Metric = iota
	MetricTotalMessages
	MetricTotalToolCalls
	MetricTotalCommits
	MetricTotalSubagents
	MetricTotalEdits
	MetricTotalXP
	MetricDistinctProjects
	MetricNightSessions
	MetricEarlySessions
	MetricCurrentStreak
	MetricLongestStreak
	MetricMaxSessionMessages
	MetricActiveDays
	MetricPrestigeCount
)

// Definition is one achievement: a predicate "metric >= target" plus
// display data.
type Definition struct {
	Id          string
	Name        string
	Description string
	Rarity      string
	Metric      Metric
	Target      int
}

// Status pairs a definition with its evaluation against current stats.
type Status struct {
	Definition Definition
	Progress   float64 // 0.0 to 1.0
	Unlocked   bool
	UnlockedAt string // YYYY-MM-DD, empty while locked
}

// StatsView is the read-only input of the evaluator: cumulative totals plus
// streak state plus prestige count.
type StatsView struct {
	Totals        model.CumulativeTotals
	Streak        model.StreakState
	PrestigeCount int
}

// Catalog is the fixed set of 25 achievements, ordered by id.
var Catalog = []Definition{
	{"ascended", "Ascended", "Prestige for the first time", RarityLegendary, MetricPrestigeCount, 1},
	{"centurion", "Centurion", "Complete 100 sessions", RarityRare, MetricTotalSessions, 100},
	{"choir", "Choir", "Send 10,000 messages", RarityEpic, MetricTotalMessages, 10000},
	{"deep_dive", "Deep Dive", "Have a single session with 250+ messages", RarityEpic, MetricMaxSessionMessages, 250},
	{"delegator", "Delegator", "Spawn your first subagent", RarityCommon, MetricTotalSubagents, 1},
	{"early_bird", "Early Bird", "Have a session before 7 AM", RarityCommon, MetricEarlySessions, 1},
	{"editor_in_chief", "Editor in Chief", "Make 1,000 file edits", RarityRare, MetricTotalEdits, 1000},
	{"fortnight_focus", "Fortnight Focus", "Maintain a 14-day streak", RarityRare, MetricLongestStreak, 14},
	{"habit_formed", "Habit Formed", "Be active on 50 different days", RarityRare, MetricActiveDays, 50},
	{"hello_world", "Hello, World", "Complete your first session", RarityCommon, MetricTotalSessions, 1},
	{"hive_mind", "Hive Mind", "Spawn 100 subagents", RarityRare, MetricTotalSubagents, 100},
	{"iron_will", "Iron Will", "Maintain a 30-day streak", RarityRare, MetricLongestStreak, 30},
	{"marathon_runner", "Marathon Runner", "Have a single session with 100+ messages", RarityRare, MetricMaxSessionMessages, 100},
	{"merge_machine", "Merge Machine", "Make 500 commits", RarityEpic, MetricTotalCommits, 500},
	{"night_owl", "Night Owl", "Have a session between midnight and 5 AM", RarityCommon, MetricNightSessions, 1},
	{"on_fire", "On Fire", "Maintain a 7-day streak", RarityCommon, MetricCurrentStreak, 7},
	{"polyglot", "Polyglot", "Work in 5 different projects", RarityCommon, MetricDistinctProjects, 5},
	{"renaissance_dev", "Renaissance Dev", "Work in 20 different projects", RarityEpic, MetricDistinctProjects, 20},
	{"ship_it", "Ship It", "Make 10 commits", RarityCommon, MetricTotalCommits, 10},
	{"six_figures", "Six Figures", "Earn 100,000 lifetime XP", RarityLegendary, MetricTotalXP, 100000},
	{"thousand_voices", "Thousand Voices", "Send 1,000 messages", RarityCommon, MetricTotalMessages, 1000},
	{"tool_apprentice", "Tool Apprentice", "Make 1,000 tool calls", RarityCommon, MetricTotalToolCalls, 1000},
	{"tool_master", "Tool Master", "Make 10,000 tool calls", RarityRare, MetricTotalToolCalls, 10000},
	{"unbreakable", "Unbreakable", "Maintain a 100-day streak", RarityLegendary, MetricLongestStreak, 100},
	{"zero_defect", "Zero Defect", "Earn 50,000 lifetime XP", RarityEpic, MetricTotalXP, 50000},
}

// Lookup returns the definition for an id, if present.
func Lookup(id string) (Definition, bool) {
	for _, def := range Catalog {
		if def.Id == id {
			return def, true
		}
	}
	return Definition{}, false
}

// value extracts the metric's current value from the view.
func value(metric Metric, view StatsView) int {
	switch metric {
	case MetricTotalSessions:
		return view.Totals.TotalSessions
	case MetricTotalMessages:
		return view.Totals.TotalMessages
	case MetricTotalToolCalls:
		return view.Totals.TotalToolCalls
	case MetricTotalCommits:
		return view.Totals.TotalCommits
	case MetricTotalSubagents:
		return view.Totals.TotalSubagentSpawns
	case MetricTotalEdits:
		return view.Totals.TotalEdits
	case MetricTotalXP:
		return view.Totals.TotalXP
	case MetricDistinctProjects:
		return view.Totals.DistinctProjects
	case MetricNightSessions:
		return view.Totals.NightSessions
	case MetricEarlySessions:
		return view.Totals.EarlySessions
	case MetricCurrentStreak:
		return view.Streak.CurrentStreak
	case MetricLongestStreak:
		return view.Streak.LongestStreak
	case MetricMaxSessionMessages:
		return view.Totals.MaxSessionMessages
	case MetricActiveDays:
		return view.Totals.ActiveDays
	case MetricPrestigeCount:
		return view.PrestigeCount
	default:
		return 0
	}
}

// Evaluate checks every definition against the view. Statuses come back in
// catalog order with progress as min(value/target, 1.0).
func Evaluate(view StatsView) []Status {
	statuses := make([]Status, 0, len(Catalog))
	for _, def := range Catalog {
		current := value(def.Metric, view)
		progress := 0.0
		if def.Target > 0 {
			progress = float64(current) / float64(def.Target)
			if progress > 1.0 {
				progress = 1.0
			}
		}
		statuses = append(statuses, Status{
			Definition: def,
			Progress:   progress,
			Unlocked:   progress >= 1.0,
		})
	}
	return statuses
}

// Closest returns the n locked achievements with the highest progress.
func Closest(statuses []Status, n int) []Status {
	locked := make([]Status, 0, len(statuses))
	for _, s := range statuses {
		if !s.Unlocked {
			locked = append(locked, s)
		}
	}
	sort.SliceStable(locked, func(i, j int) bool {
		return locked[i].Progress > locked[j].Progress
	})
	if len(locked) > n {
		locked = locked[:n]
	}
	return locked
}
