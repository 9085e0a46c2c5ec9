package entity

import (
	"database/sql"
	"time"
)

// User is the per-user aggregate: lifetime progress, level, skip balance and
// the daily bookkeeping keys.
type User struct {
	ID       string `gorm:"primarykey"`
	Email    string
	Name     string
	PhotoURL string

	// Seconds accumulated toward the next level.
	TotalSeconds float64
	Level        int
	Skips        int

	// Spillover seconds accumulated toward the next bonus skip.
	AdditionalCounter float64

	// DailyDone is only meaningful for the day DailyDateKey.
	DailyDone    float64
	DailyDateKey string

	LastSundayClaim string

	DailyGoalSeconds sql.NullFloat64
	DailyGoalDateKey string

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DailyDoneOn returns the seconds contributed on dateKey according to the
// per-user counter.
func (u *User) DailyDoneOn(dateKey string) float64 {
	if u.DailyDateKey != dateKey {
		return 0
	}

	return u.DailyDone
}
