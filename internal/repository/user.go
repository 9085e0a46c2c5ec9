package repository

import (
	"context"
	"database/sql"

	"github.com/fatih/structs"
	"github.com/questx-lab/focus/internal/common"
	"github.com/questx-lab/focus/internal/entity"
	"github.com/questx-lab/focus/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	CreateIfAbsent(ctx context.Context, user *entity.User) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetIDsAfter(ctx context.Context, afterID string, limit int) ([]string, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, user *entity.User) error
}

type userUpdate struct {
	TotalSeconds      float64         `structs:"total_seconds"`
	Level             int             `structs:"level"`
	Skips             int             `structs:"skips"`
	AdditionalCounter float64         `structs:"additional_counter"`
	DailyDone         float64         `structs:"daily_done"`
	DailyDateKey      string          `structs:"daily_date_key"`
	LastSundayClaim   string          `structs:"last_sunday_claim"`
	DailyGoalSeconds  sql.NullFloat64 `structs:"daily_goal_seconds,omitnested"`
	DailyGoalDateKey  string          `structs:"daily_goal_date_key"`
	Version           int64           `structs:"version"`
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

// CreateIfAbsent inserts the user unless a user with the same id exists. It
// returns true if this call created the record.
func (r *userRepository) CreateIfAbsent(ctx context.Context, user *entity.User) (bool, error) {
	tx := xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(user)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetIDsAfter returns at most limit user ids greater than afterID, in
// ascending order.
func (r *userRepository) GetIDsAfter(ctx context.Context, afterID string, limit int) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var result int64
	if err := xcontext.DB(ctx).Model(&entity.User{}).Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

// Update writes the ledger fields of user if nobody else wrote the record since
// it was read, and bumps its version. It returns common.ErrStaleWrite otherwise.
func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	tx := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=? AND version=?", user.ID, user.Version).
		Updates(structs.Map(userUpdate{
			TotalSeconds:      user.TotalSeconds,
			Level:             user.Level,
			Skips:             user.Skips,
			AdditionalCounter: user.AdditionalCounter,
			DailyDone:         user.DailyDone,
			DailyDateKey:      user.DailyDateKey,
			LastSundayClaim:   user.LastSundayClaim,
			DailyGoalSeconds:  user.DailyGoalSeconds,
			DailyGoalDateKey:  user.DailyGoalDateKey,
			Version:           user.Version + 1,
		}))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return common.ErrStaleWrite
	}

	user.Version++
	return nil
}
