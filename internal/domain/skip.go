package domain

import (
	"context"
	"errors"
	"time"

	"github.com/questx-lab/focus/internal/entity"
	"github.com/questx-lab/focus/internal/model"
	"github.com/questx-lab/focus/internal/repository"
	"github.com/questx-lab/focus/pkg/dateutil"
	"github.com/questx-lab/focus/pkg/errorx"
	"github.com/questx-lab/focus/pkg/pubsub"
	"github.com/questx-lab/focus/pkg/xcontext"
	"gorm.io/gorm"
)

type SkipDomain interface {
	ClaimWeeklyBonus(context.Context, *model.ClaimWeeklyBonusRequest) (*model.ClaimWeeklyBonusResponse, error)
}

type skipDomain struct {
	userRepo  repository.UserRepository
	publisher ledgerPublisher
	now       func() time.Time
}

func NewSkipDomain(userRepo repository.UserRepository, publisher pubsub.Publisher) *skipDomain {
	return &skipDomain{
		userRepo:  userRepo,
		publisher: newLedgerPublisher(publisher),
		now:       time.Now,
	}
}

func (d *skipDomain) ClaimWeeklyBonus(
	ctx context.Context, req *model.ClaimWeeklyBonusRequest,
) (*model.ClaimWeeklyBonusResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	cfg := xcontext.Configs(ctx).Ledger
	now := d.now()
	dateKey := todayKey(ctx, now)

	var user *entity.User
	err := runLedgerTransaction(ctx, "claim weekly bonus", func(ctx context.Context) error {
		var err error
		user, err = d.userRepo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errorx.New(errorx.NotFound, "Not found user")
			}

			return err
		}

		if dateutil.Weekday(now, cfg.Location()) != cfg.BonusWeekday {
			return errorx.New(errorx.Unavailable, "Can only claim skip on %s", cfg.BonusWeekday)
		}

		if user.LastSundayClaim == dateKey {
			return errorx.New(errorx.AlreadyExists, "Already claimed today")
		}

		user.Skips++
		user.LastSundayClaim = dateKey
		return d.userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	d.publisher.publish(ctx, newLedgerEvent(model.SkipClaimedEvent, userID, dateKey, now, map[string]any{
		"skips": user.Skips,
	}))

	return &model.ClaimWeeklyBonusResponse{Skips: user.Skips}, nil
}
