package model

// XPBreakdown itemizes the raw XP of one day by source.
type XPBreakdown struct {
	Sessions  int `json:"sessions"`
	Messages  int `json:"messages"`
	Tools     int `json:"tools"`
	Projects  int `json:"projects"`
	Edits     int `json:"edits"`
	Commits   int `json:"commits"`
	Subagents int `json:"subagents"`
}

// XPLedgerEntry is the per-date output of the XP engine. Recomputing a date
// overwrites its entry; the ledger holds exactly one row per date.
type XPLedgerEntry struct {
	Date       string      `json:"date"`
	RawXP      int         `json:"rawXp"`
	CappedXP   int         `json:"cappedXp"`
	Multiplier float64     `json:"multiplier"`
	FinalXP    int         `json:"finalXp"`
	Breakdown  XPBreakdown `json:"breakdown"`
}

// CumulativeTotals are monotonic running sums over all daily aggregates.
// They must equal a full rebuild at all times; TotalXP never resets, even
// across prestige.
type CumulativeTotals struct {
	TotalSessions       int `json:"totalSessions"`
	TotalMessages       int `json:"totalMessages"`
	TotalToolCalls      int `json:"totalToolCalls"`
	TotalCommits        int `json:"totalCommits"`
	TotalSubagentSpawns int `json:"totalSubagentSpawns"`
	TotalEdits          int `json:"totalEdits"`
	DistinctProjects    int `json:"distinctProjects"`
	TotalXP             int `json:"totalXp"`
	ActiveDays          int `json:"activeDays"`
	NightSessions       int `json:"nightSessions"` // hour histogram entries 00-04
	EarlySessions       int `json:"earlySessions"` // hour histogram entries 05-06
	MaxSessionMessages  int `json:"maxSessionMessages"`
}
