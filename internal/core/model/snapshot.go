package model

// Snapshot is the stable read-only view handed to badge and export
// collaborators. It is sufficient to render external artifacts without
// touching aggregation logic.
type Snapshot struct {
	Level                int     `json:"level"`
	TierName             string  `json:"tierName"`
	TierColor            string  `json:"tierColor"`
	XPIntoLevel          int     `json:"xpIntoLevel"`
	XPRequiredForLevel   int     `json:"xpRequiredForLevel"`
	TotalXP              int     `json:"totalXp"`
	PrestigeCount        int     `json:"prestigeCount"`
	CurrentStreak        int     `json:"currentStreak"`
	LongestStreak        int     `json:"longestStreak"`
	FreezesAvailable     int     `json:"freezesAvailable"`
	AchievementsUnlocked int     `json:"achievementsUnlocked"`
	AchievementsTotal    int     `json:"achievementsTotal"`
	ActiveDays           int     `json:"activeDays"`
	GeneratedAt          int64   `json:"generatedAt"`
	ProgressFraction     float64 `json:"progressFraction"` // 0..1 within the current level
}

// FileEvent reports a change to a watched event log file.
type FileEvent struct {
	Path      string
	Operation string
}
