package dateutil

import (
	"time"
)

// DayKeyLayout is the layout of a day key, the calendar date in a fixed civil
// time zone.
const DayKeyLayout = "2006-01-02"

// DayKey returns the calendar date of t in loc, formatted as YYYY-MM-DD.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayKeyLayout)
}

// DayKeyWithOffset returns the day key of the calendar day which is offsetDays
// away from the day of t in loc.
func DayKeyWithOffset(t time.Time, loc *time.Location, offsetDays int) string {
	return BeginningOfDay(t.In(loc)).AddDate(0, 0, offsetDays).Format(DayKeyLayout)
}

// ParseDayKey parses a day key and returns midnight of that day in loc.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayKeyLayout, key, loc)
}

// BeginningOfDay returns midnight of the day of t, in the location of t.
func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// NextDay returns midnight of the day after t, in the location of t.
func NextDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1)
}

// NextDailyRun returns the first instant strictly after t which is offset past
// midnight in loc.
func NextDailyRun(t time.Time, loc *time.Location, offset time.Duration) time.Time {
	local := t.In(loc)
	next := BeginningOfDay(local).Add(offset)
	if !next.After(local) {
		next = NextDay(local).Add(offset)
	}

	return next
}

// Weekday returns the day of the week of t in loc.
func Weekday(t time.Time, loc *time.Location) time.Weekday {
	return t.In(loc).Weekday()
}
