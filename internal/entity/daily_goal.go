package entity

import (
	"database/sql"
	"time"

	"github.com/questx-lab/focus/pkg/enum"
)

type DailyGoalMethod string

var (
	DailyGoalMethodWheel = enum.New(DailyGoalMethod("wheel"))
	DailyGoalMethodNone  = enum.New(DailyGoalMethod("none"))
)

type FinalizeReason string

var (
	FinalizeReasonGoalMet = enum.New(FinalizeReason("goal_met"))
	FinalizeReasonNotMet  = enum.New(FinalizeReason("not_met"))
	FinalizeReasonNoSpin  = enum.New(FinalizeReason("no_spin"))
)

// DailyGoal is the goal record of one user for one calendar day.
type DailyGoal struct {
	UserID  string `gorm:"primaryKey"`
	DateKey string `gorm:"primaryKey"`

	GoalSeconds     sql.NullFloat64
	ProgressSeconds float64
	GoalMet         bool
	Method          DailyGoalMethod

	// Overflow above the goal already added to the bonus counter of the user.
	SpilloverSeconds float64

	TZ string

	Finalized      bool
	AutoFinalized  bool
	SkipSpent      bool
	FinalizeReason FinalizeReason
	SkipsBefore    sql.NullInt64
	SkipsAfter     sql.NullInt64
	FinalizedAt    sql.NullTime

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsGoalMet reports whether a goal is locked and reached by the progress.
func (d *DailyGoal) IsGoalMet() bool {
	return d.GoalSeconds.Valid && d.ProgressSeconds >= d.GoalSeconds.Float64
}
