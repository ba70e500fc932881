// Package level computes level, tier, and prestige progression. Pure
// functions of (total XP, prestige baseline); nothing here is persisted.
package level

import "math"

// MaxLevel is the level cap; prestige is available once it is reached.
const MaxLevel = 50

// Tier groups five levels under one name.
type Tier struct {
	Tier  int
	Name  string
	Color string
}

var tiers = []Tier{
	{1, "Bronze", "bronze"},
	{2, "Silver", "silver"},
	{3, "Gold", "gold"},
	{4, "Platinum", "teal"},
	{5, "Diamond", "diamond"},
	{6, "Master", "purple"},
	{7, "Candidate Master", "deep_purple"},
	{8, "International Master", "crimson"},
	{9, "Grandmaster", "amber"},
	{10, "Legendary Grandmaster", "legendary"},
}

// XPForLevel returns the XP needed to climb from level-1 to level.
// Formula: floor(50 * L^1.8 + 100 * L).
func XPForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	return int(math.Floor(50*math.Pow(float64(level), 1.8) + 100*float64(level)))
}

// CumulativeXPForLevel returns the total XP needed from zero to reach level.
func CumulativeXPForLevel(level int) int {
	total := 0
	for lv := 1; lv <= level; lv++ {
		total += XPForLevel(lv)
	}
	return total
}

// PrestigeXPThreshold is the cumulative XP of a full climb to MaxLevel.
var PrestigeXPThreshold = CumulativeXPForLevel(MaxLevel)

// LevelFromXP returns the level (1..MaxLevel) reached with the given XP.
func LevelFromXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	cumulative := 0
	for lv := 1; lv <= MaxLevel; lv++ {
		cumulative += XPForLevel(lv)
		if xp < cumulative {
			return lv
		}
	}
	return MaxLevel
}

// TierForLevel maps a level to its tier: ((L-1) / 5) + 1.
func TierForLevel(level int) Tier {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return tiers[(level-1)/5]
}

// Progress returns (xp into the current level, xp required for the next).
// At MaxLevel the requirement is 0.
func Progress(xp int) (int, int) {
	if xp <= 0 {
		return 0, XPForLevel(1)
	}
	current := LevelFromXP(xp)
	into := xp - CumulativeXPForLevel(current-1)
	if current >= MaxLevel {
		return into, 0
	}
	return into, XPForLevel(current)
}

// Progression is the fully derived level state for display and export.
type Progression struct {
	PrestigeCount      int
	Level              int
	Tier               Tier
	XPIntoLevel        int
	XPRequiredForLevel int
}

// Compute derives the progression from lifetime XP and the prestige baseline.
// The baseline is the lifetime XP recorded at the moment of the last
// prestige; lifetime XP itself never decreases.
func Compute(totalXP, baseline, prestigeCount int) Progression {
	cycleXP := totalXP - baseline
	if cycleXP < 0 {
		cycleXP = 0
	}
	lv := LevelFromXP(cycleXP)
	into, required := Progress(cycleXP)
	return Progression{
		PrestigeCount:      prestigeCount,
		Level:              lv,
		Tier:               TierForLevel(lv),
		XPIntoLevel:        into,
		XPRequiredForLevel: required,
	}
}

// CanPrestige reports whether the current cycle has banked the full climb to
// MaxLevel. Prestige requires the complete level-50 threshold, not merely
// entering level 50.
func CanPrestige(totalXP, baseline int) bool {
	return totalXP-baseline >= PrestigeXPThreshold
}

// PrestigeStars renders the prestige count as star characters.
func PrestigeStars(prestigeCount int) string {
	stars := ""
	for i := 0; i < prestigeCount; i++ {
		stars += "★"
	}
	return stars
}
