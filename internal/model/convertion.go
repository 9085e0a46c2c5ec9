package model

import (
	"database/sql"
	"time"

	"github.com/questx-lab/focus/internal/domain/ledger"
	"github.com/questx-lab/focus/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}

	v := f.Float64
	return &v
}

func ConvertUser(user *entity.User, dateKey string) User {
	if user == nil {
		return User{}
	}

	result := User{
		ID:                    user.ID,
		Email:                 user.Email,
		Name:                  user.Name,
		PhotoURL:              user.PhotoURL,
		Level:                 user.Level,
		TotalSeconds:          user.TotalSeconds,
		LevelThresholdSeconds: ledger.LevelThreshold(user.Level),
		Skips:                 user.Skips,
		AdditionalCounter:     user.AdditionalCounter,
		LastSundayClaim:       user.LastSundayClaim,
		DailyDone:             user.DailyDoneOn(dateKey),
		DailyDateKey:          dateKey,
		CreatedAt:             user.CreatedAt.Format(DefaultTimeLayout),
	}

	if user.DailyGoalDateKey == dateKey {
		result.DailyGoalSeconds = nullFloat(user.DailyGoalSeconds)
		result.DailyGoalDateKey = user.DailyGoalDateKey
	}

	return result
}

func ConvertDailyGoal(goal *entity.DailyGoal) DailyGoal {
	if goal == nil {
		return DailyGoal{}
	}

	return DailyGoal{
		DateKey:         goal.DateKey,
		GoalSeconds:     nullFloat(goal.GoalSeconds),
		ProgressSeconds: goal.ProgressSeconds,
		GoalMet:         goal.GoalMet,
		Locked:          goal.GoalSeconds.Valid,
		Method:          string(goal.Method),
		Finalized:       goal.Finalized,
		SkipSpent:       goal.SkipSpent,
		FinalizeReason:  string(goal.FinalizeReason),
	}
}

func ConvertSession(session *entity.Session) Session {
	if session == nil {
		return Session{}
	}

	return Session{
		ID:           session.ID,
		Mode:         string(session.Mode),
		Seconds:      session.Seconds,
		DateKey:      session.DateKey,
		Contribution: session.Contribution,
		Payload:      session.Payload,
		CreatedAt:    session.CreatedAt.Format(DefaultTimeLayout),
	}
}
