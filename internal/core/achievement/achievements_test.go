package achievement

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clauderank/claude-rank/internal/core/model"
)

func TestCatalogShape(t *testing.T) {
	assert.Len(t, Catalog, 25)

	ids := make([]string, len(Catalog))
	for i, def := range Catalog {
		ids[i] = def.Id
		assert.Positive(t, def.Target, "achievement %s needs a target", def.Id)
		assert.NotEmpty(t, def.Name)
		assert.NotEmpty(t, def.Description)
	}

	assert.True(t, sort.StringsAreSorted(ids), "catalog must stay id-ordered")

	seen := make(map[string]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestLookup(t *testing.T) {
	def, ok := Lookup("zero_defect")
	require.True(t, ok)
	assert.Equal(t, 50000, def.Target)
	assert.Equal(t, MetricTotalXP, def.Metric)

	_, ok = Lookup("nonexistent")
	assert.False(t, ok)
}

func TestEvaluateProgressAndUnlock(t *testing.T) {
	view := StatsView{
		Totals: model.CumulativeTotals{
			TotalSessions: 50,
			TotalXP:       49999,
		},
	}

	byId := statusMap(Evaluate(view))

	// Halfway to centurion (100 sessions).
	assert.InDelta(t, 0.5, byId["centurion"].Progress, 1e-9)
	assert.False(t, byId["centurion"].Unlocked)

	// hello_world needs one session; progress clamps at 1.0.
	assert.Equal(t, 1.0, byId["hello_world"].Progress)
	assert.True(t, byId["hello_world"].Unlocked)

	// One XP short of zero_defect.
	assert.False(t, byId["zero_defect"].Unlocked)

	view.Totals.TotalXP = 50000
	byId = statusMap(Evaluate(view))
	assert.True(t, byId["zero_defect"].Unlocked)
}

func TestEvaluateStreakAndPrestigeMetrics(t *testing.T) {
	view := StatsView{
		Streak:        model.StreakState{CurrentStreak: 7, LongestStreak: 14},
		PrestigeCount: 1,
	}
	byId := statusMap(Evaluate(view))

	assert.True(t, byId["on_fire"].Unlocked)          // current streak 7
	assert.True(t, byId["fortnight_focus"].Unlocked)  // longest streak 14
	assert.False(t, byId["iron_will"].Unlocked)       // longest streak < 30
	assert.True(t, byId["ascended"].Unlocked)         // prestiged once
}

func TestClosest(t *testing.T) {
	view := StatsView{
		Totals: model.CumulativeTotals{
			TotalSessions: 90,  // centurion at 90%
			TotalMessages: 100, // thousand_voices at 10%
			TotalCommits:  8,   // ship_it at 80%
		},
	}
	closest := Closest(Evaluate(view), 2)

	require.Len(t, closest, 2)
	assert.Equal(t, "centurion", closest[0].Definition.Id)
	assert.Equal(t, "ship_it", closest[1].Definition.Id)
	for _, s := range closest {
		assert.False(t, s.Unlocked)
	}
}

func statusMap(statuses []Status) map[string]Status {
	byId := make(map[string]Status, len(statuses))
	for _, s := range statuses {
		byId[s.Definition.Id] = s
	}
	return byId
}
