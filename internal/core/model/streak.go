package model

// Streak machine states.
const (
	StreakActive = "active"
	StreakBroken = "broken"
	StreakFrozen = "frozen"
	StreakGrace  = "grace"
)

// MaxFreezes caps banked streak freezes; awards past the cap are discarded.
const MaxFreezes = 3

// StreakState is the accumulator of the streak fold. It is advanced one date
// at a time, strictly in chronological order.
type StreakState struct {
	CurrentStreak    int      `json:"currentStreak"`
	LongestStreak    int      `json:"longestStreak"`
	FreezesAvailable int      `json:"freezesAvailable"`
	LastActiveDate   string   `json:"lastActiveDate,omitempty"`
	LastActiveAt     int64    `json:"lastActiveAt,omitempty"` // Unix timestamp of last event on the last active day
	LastDate         string   `json:"lastDate,omitempty"`     // most recently processed date, active or not
	FreezeUsedDates  []string `json:"freezeUsedDates,omitempty"`
	State            string   `json:"state"`

	// Prev is the state before the most recent date was folded. The newest
	// date can gain events on a later sync; refolding it rolls back to Prev
	// and advances again, keeping the fold strictly date-ordered.
	Prev *StreakState `json:"prev,omitempty"`
}

// Snapshot returns a copy of the state without its undo pointer.
func (s StreakState) Snapshot() StreakState {
	s.Prev = nil
	return s
}

// NewStreakState returns the zero streak, never yet active.
func NewStreakState() StreakState {
	return StreakState{State: StreakBroken}
}

// GraceOpenUntil returns the instant after which grace no longer covers a gap
// and a freeze (or break) is required. Zero if never active.
func (s *StreakState) GraceOpenUntil() int64 {
	if s.LastActiveAt == 0 {
		return 0
	}
	return s.LastActiveAt + 48*3600
}

// Valid checks the persisted invariants of a loaded streak state.
func (s *StreakState) Valid() bool {
	if s.LongestStreak < s.CurrentStreak {
		return false
	}
	if s.FreezesAvailable < 0 || s.FreezesAvailable > MaxFreezes {
		return false
	}
	return s.CurrentStreak >= 0
}
