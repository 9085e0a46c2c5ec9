package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fatih/structs"
	"github.com/questx-lab/focus/internal/common"
	"github.com/questx-lab/focus/internal/entity"
	"github.com/questx-lab/focus/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyGoalRepository interface {
	Get(ctx context.Context, userID, dateKey string) (*entity.DailyGoal, error)
	Ensure(ctx context.Context, goal *entity.DailyGoal) (bool, error)
	Update(ctx context.Context, goal *entity.DailyGoal) error
}

type dailyGoalUpdate struct {
	GoalSeconds     sql.NullFloat64        `structs:"goal_seconds,omitnested"`
	ProgressSeconds float64                `structs:"progress_seconds"`
	GoalMet         bool                   `structs:"goal_met"`
	Spillover       float64                `structs:"spillover_seconds"`
	Method          entity.DailyGoalMethod `structs:"method"`
	TZ              string                 `structs:"tz"`
	Finalized       bool                   `structs:"finalized"`
	AutoFinalized   bool                   `structs:"auto_finalized"`
	SkipSpent       bool                   `structs:"skip_spent"`
	FinalizeReason  entity.FinalizeReason  `structs:"finalize_reason"`
	SkipsBefore     sql.NullInt64          `structs:"skips_before,omitnested"`
	SkipsAfter      sql.NullInt64          `structs:"skips_after,omitnested"`
	FinalizedAt     sql.NullTime           `structs:"finalized_at,omitnested"`
	Version         int64                  `structs:"version"`
}

type dailyGoalRepository struct{}

func NewDailyGoalRepository() *dailyGoalRepository {
	return &dailyGoalRepository{}
}

func (r *dailyGoalRepository) Get(ctx context.Context, userID, dateKey string) (*entity.DailyGoal, error) {
	var result entity.DailyGoal
	err := xcontext.DB(ctx).Take(&result, "user_id=? AND date_key=?", userID, dateKey).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Ensure is the only way a day record comes into existence. It inserts goal if
// no record exists for its user and day and returns true. Otherwise goal is
// overwritten with the stored record and false is returned.
func (r *dailyGoalRepository) Ensure(ctx context.Context, goal *entity.DailyGoal) (bool, error) {
	tx := xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(goal)
	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected > 0 {
		return true, nil
	}

	existing, err := r.Get(ctx, goal.UserID, goal.DateKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The winning insert is not visible in this snapshot yet.
			return false, common.ErrStaleWrite
		}

		return false, err
	}

	*goal = *existing
	return false, nil
}

// Update writes goal if the stored version still matches and bumps the version.
// It returns common.ErrStaleWrite otherwise.
func (r *dailyGoalRepository) Update(ctx context.Context, goal *entity.DailyGoal) error {
	tx := xcontext.DB(ctx).Model(&entity.DailyGoal{}).
		Where("user_id=? AND date_key=? AND version=?", goal.UserID, goal.DateKey, goal.Version).
		Updates(structs.Map(dailyGoalUpdate{
			GoalSeconds:     goal.GoalSeconds,
			ProgressSeconds: goal.ProgressSeconds,
			GoalMet:         goal.GoalMet,
			Spillover:       goal.SpilloverSeconds,
			Method:          goal.Method,
			TZ:              goal.TZ,
			Finalized:       goal.Finalized,
			AutoFinalized:   goal.AutoFinalized,
			SkipSpent:       goal.SkipSpent,
			FinalizeReason:  goal.FinalizeReason,
			SkipsBefore:     goal.SkipsBefore,
			SkipsAfter:      goal.SkipsAfter,
			FinalizedAt:     goal.FinalizedAt,
			Version:         goal.Version + 1,
		}))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return common.ErrStaleWrite
	}

	goal.Version++
	return nil
}
