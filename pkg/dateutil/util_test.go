package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestDayKey(t *testing.T) {
	bangkok := mustLoad(t, "Asia/Bangkok")

	// 18:30 UTC is already the next day in Bangkok (UTC+7).
	instant := time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)
	require.Equal(t, "2024-03-10", DayKey(instant, bangkok))
	require.Equal(t, "2024-03-09", DayKey(instant, time.UTC))

	require.Equal(t, "2024-03-09", DayKeyWithOffset(instant, bangkok, -1))
	require.Equal(t, "2024-03-11", DayKeyWithOffset(instant, bangkok, 1))

	// Month and year boundaries.
	newYear := time.Date(2024, 1, 1, 0, 10, 0, 0, bangkok)
	require.Equal(t, "2023-12-31", DayKeyWithOffset(newYear, bangkok, -1))
}

func TestParseDayKey(t *testing.T) {
	bangkok := mustLoad(t, "Asia/Bangkok")

	day, err := ParseDayKey("2024-02-29", bangkok)
	require.NoError(t, err)
	require.Equal(t, "2024-02-29", DayKey(day, bangkok))
	require.Equal(t, 0, day.Hour())

	_, err = ParseDayKey("2024-02-30", bangkok)
	require.Error(t, err)

	_, err = ParseDayKey("yesterday", bangkok)
	require.Error(t, err)
}

func TestNextDailyRun(t *testing.T) {
	bangkok := mustLoad(t, "Asia/Bangkok")

	before := time.Date(2024, 3, 10, 0, 1, 0, 0, bangkok)
	next := NextDailyRun(before, bangkok, 5*time.Minute)
	require.True(t, next.Equal(time.Date(2024, 3, 10, 0, 5, 0, 0, bangkok)), next)

	after := time.Date(2024, 3, 10, 0, 5, 0, 0, bangkok)
	next = NextDailyRun(after, bangkok, 5*time.Minute)
	require.True(t, next.Equal(time.Date(2024, 3, 11, 0, 5, 0, 0, bangkok)), next)

	// The schedule follows the ledger zone, not the zone of the caller.
	utcEvening := time.Date(2024, 3, 9, 17, 0, 0, 0, time.UTC) // 00:00 in Bangkok
	next = NextDailyRun(utcEvening, bangkok, 5*time.Minute)
	require.True(t, next.Equal(time.Date(2024, 3, 10, 0, 5, 0, 0, bangkok)), next)
}

func TestWeekday(t *testing.T) {
	bangkok := mustLoad(t, "Asia/Bangkok")

	// Saturday evening in UTC is Sunday morning in Bangkok.
	instant := time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC)
	require.Equal(t, time.Saturday, Weekday(instant, time.UTC))
	require.Equal(t, time.Sunday, Weekday(instant, bangkok))
}
