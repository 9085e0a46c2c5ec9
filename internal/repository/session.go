package repository

import (
	"context"

	"github.com/questx-lab/focus/internal/entity"
	"github.com/questx-lab/focus/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type SessionRepository interface {
	CreateIfAbsent(ctx context.Context, session *entity.Session) (bool, error)
	Upsert(ctx context.Context, session *entity.Session) error
	Get(ctx context.Context, userID, id string) (*entity.Session, error)
	GetByDateKey(ctx context.Context, userID, dateKey string) ([]entity.Session, error)
}

type sessionRepository struct{}

func NewSessionRepository() *sessionRepository {
	return &sessionRepository{}
}

func (r *sessionRepository) CreateIfAbsent(ctx context.Context, session *entity.Session) (bool, error) {
	tx := xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(session)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *sessionRepository) Upsert(ctx context.Context, session *entity.Session) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"mode", "seconds", "payload", "date_key", "contribution", "updated_at",
			}),
		}).Create(session).Error
}

func (r *sessionRepository) Get(ctx context.Context, userID, id string) (*entity.Session, error) {
	var result entity.Session
	if err := xcontext.DB(ctx).Take(&result, "user_id=? AND id=?", userID, id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *sessionRepository) GetByDateKey(ctx context.Context, userID, dateKey string) ([]entity.Session, error) {
	var result []entity.Session
	err := xcontext.DB(ctx).
		Where("user_id=? AND date_key=?", userID, dateKey).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
