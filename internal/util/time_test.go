package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUTCProvider(t *testing.T) *TimeProvider {
	tp := &TimeProvider{}
	require.NoError(t, tp.SetTimezone("UTC"))
	return tp
}

func TestDateOf(t *testing.T) {
	tp := newUTCProvider(t)

	tests := []struct {
		name string
		unix int64
		want string
	}{
		{
			name: "midnight UTC",
			unix: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC).Unix(),
			want: "2025-03-10",
		},
		{
			name: "just before midnight",
			unix: time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC).Unix(),
			want: "2025-03-10",
		},
		{
			name: "one second past midnight lands on the next day",
			unix: time.Date(2025, 3, 11, 0, 0, 1, 0, time.UTC).Unix(),
			want: "2025-03-11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tp.DateOf(tt.unix))
		})
	}
}

func TestDateOfRespectsTimezone(t *testing.T) {
	tp := &TimeProvider{}
	require.NoError(t, tp.SetTimezone("Asia/Shanghai"))

	// 23:00 UTC on March 10 is already March 11 in Shanghai (UTC+8).
	unix := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, "2025-03-11", tp.DateOf(unix))
}

func TestHourOf(t *testing.T) {
	tp := newUTCProvider(t)
	unix := time.Date(2025, 3, 10, 4, 59, 0, 0, time.UTC).Unix()
	assert.Equal(t, 4, tp.HourOf(unix))
}

func TestDayBounds(t *testing.T) {
	tp := newUTCProvider(t)

	start, err := tp.DayStart("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10 00:00:00", start.Format("2006-01-02 15:04:05"))

	end, err := tp.DayEnd("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11 00:00:00", end.Format("2006-01-02 15:04:05"))
}

func TestNextDateAndAddDays(t *testing.T) {
	assert.Equal(t, "2025-03-01", NextDate("2025-02-28"))
	assert.Equal(t, "2024-02-29", NextDate("2024-02-28")) // leap year
	assert.Equal(t, "2025-01-01", NextDate("2024-12-31"))
	assert.Equal(t, "2025-03-05", AddDays("2025-03-10", -5))
	assert.Equal(t, "2025-03-10", AddDays("2025-03-10", 0))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween("2025-03-10", "2025-03-10"))
	assert.Equal(t, 1, DaysBetween("2025-03-10", "2025-03-11"))
	assert.Equal(t, 31, DaysBetween("2025-01-01", "2025-02-01"))
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2025-03-10"))
	assert.False(t, ValidDate("2025-3-10"))
	assert.False(t, ValidDate("2025-02-30"))
	assert.False(t, ValidDate("not-a-date"))
}
