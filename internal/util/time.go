package util

import (
	"fmt"
	"sync"
	"time"
)

// DateLayout is the canonical calendar-date format used for all day keys.
const DateLayout = "2006-01-02"

// TimeProvider is a global time utility that handles timezone-aware time operations.
// Its location defines the single day-boundary policy for the whole store:
// a calendar date is the YYYY-MM-DD rendering of a timestamp in this location.
type TimeProvider struct {
	location *time.Location
	mu       sync.RWMutex
}

var (
	globalTimeProvider *TimeProvider
	mu                 sync.Mutex
)

// InitializeTimeProvider initializes the global time provider with the specified timezone
func InitializeTimeProvider(timezone string) error {
	mu.Lock()
	defer mu.Unlock()

	provider := &TimeProvider{}
	if err := provider.SetTimezone(timezone); err != nil {
		return err
	}

	globalTimeProvider = provider
	return nil
}

// GetTimeProvider returns the global time provider instance
// If not initialized, it defaults to Local timezone
func GetTimeProvider() *TimeProvider {
	if globalTimeProvider == nil {
		InitializeTimeProvider("Local")
	}
	return globalTimeProvider
}

// SetTimezone updates the timezone for the time provider
func (tp *TimeProvider) SetTimezone(timezone string) error {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	loc := time.Local
	if timezone != "" && timezone != "Local" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone '%s': %w\nValid examples: Local, UTC, America/New_York, Asia/Shanghai", timezone, err)
		}
		loc = l
	}
	tp.location = loc
	return nil
}

// Now returns the current time in the configured timezone
func (tp *TimeProvider) Now() time.Time {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return time.Now().In(tp.location)
}

// Location returns the configured location
func (tp *TimeProvider) Location() *time.Location {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return tp.location
}

// DateOf renders a Unix timestamp as a calendar date under the day-boundary policy
func (tp *TimeProvider) DateOf(unix int64) string {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return time.Unix(unix, 0).In(tp.location).Format(DateLayout)
}

// HourOf returns the hour-of-day (0-23) of a Unix timestamp under the policy
func (tp *TimeProvider) HourOf(unix int64) int {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return time.Unix(unix, 0).In(tp.location).Hour()
}

// DayStart returns the instant at which the given calendar date begins
func (tp *TimeProvider) DayStart(date string) (time.Time, error) {
	tp.mu.RLock()
	defer tp.mu.RUnlock()
	return time.ParseInLocation(DateLayout, date, tp.location)
}

// DayEnd returns the instant at which the given calendar date ends
// (the start of the following date)
func (tp *TimeProvider) DayEnd(date string) (time.Time, error) {
	start, err := tp.DayStart(date)
	if err != nil {
		return time.Time{}, err
	}
	return start.AddDate(0, 0, 1), nil
}

// Today returns the current calendar date under the policy
func (tp *TimeProvider) Today() string {
	return tp.Now().Format(DateLayout)
}

// NextDate returns the calendar date following the given one
func NextDate(date string) string {
	return AddDays(date, 1)
}

// AddDays shifts a calendar date by n days. Malformed dates are returned
// unchanged; callers validate dates at the input boundary.
func AddDays(date string, n int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(DateLayout)
}

// DaysBetween returns b - a in whole calendar days
func DaysBetween(a, b string) int {
	ta, errA := time.Parse(DateLayout, a)
	tb, errB := time.Parse(DateLayout, b)
	if errA != nil || errB != nil {
		return 0
	}
	return int(tb.Sub(ta).Hours() / 24)
}

// ValidDate reports whether the string is a well-formed calendar date
func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}
