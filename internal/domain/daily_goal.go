package domain

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/questx-lab/focus/internal/common"
	"github.com/questx-lab/focus/internal/entity"
	"github.com/questx-lab/focus/internal/model"
	"github.com/questx-lab/focus/internal/repository"
	"github.com/questx-lab/focus/pkg/crypto"
	"github.com/questx-lab/focus/pkg/errorx"
	"github.com/questx-lab/focus/pkg/pubsub"
	"github.com/questx-lab/focus/pkg/xcontext"
	"gorm.io/gorm"
)

type DailyGoalDomain interface {
	Get(context.Context, *model.GetDailyGoalRequest) (*model.GetDailyGoalResponse, error)
	Spin(context.Context, *model.SpinDailyGoalRequest) (*model.SpinDailyGoalResponse, error)
}

type dailyGoalDomain struct {
	userRepo      repository.UserRepository
	dailyGoalRepo repository.DailyGoalRepository
	publisher     ledgerPublisher
	now           func() time.Time
}

func NewDailyGoalDomain(
	userRepo repository.UserRepository,
	dailyGoalRepo repository.DailyGoalRepository,
	publisher pubsub.Publisher,
) *dailyGoalDomain {
	return &dailyGoalDomain{
		userRepo:      userRepo,
		dailyGoalRepo: dailyGoalRepo,
		publisher:     newLedgerPublisher(publisher),
		now:           time.Now,
	}
}

func (d *dailyGoalDomain) Get(
	ctx context.Context, req *model.GetDailyGoalRequest,
) (*model.GetDailyGoalResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	dateKey := todayKey(ctx, d.now())

	goal, err := d.dailyGoalRepo.Get(ctx, userID, dateKey)
	if err == nil {
		return &model.GetDailyGoalResponse{Exists: true, DailyGoal: model.ConvertDailyGoal(goal)}, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get daily goal: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetDailyGoalResponse{Exists: false, DailyGoal: model.DailyGoal{DateKey: dateKey}}
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	resp.ProgressSeconds = user.DailyDoneOn(dateKey)
	return resp, nil
}

func (d *dailyGoalDomain) Spin(
	ctx context.Context, req *model.SpinDailyGoalRequest,
) (*model.SpinDailyGoalResponse, error) {
	pool := req.Segments
	if len(pool) == 0 {
		pool = common.DefaultGoalPool
	}

	for _, segment := range pool {
		if math.IsNaN(segment) || math.IsInf(segment, 0) || segment <= 0 {
			return nil, errorx.New(errorx.BadRequest, "Every segment must be a positive number of seconds")
		}
	}

	userID := xcontext.RequestUserID(ctx)
	now := d.now()
	dateKey := todayKey(ctx, now)

	var goal *entity.DailyGoal
	var spun bool
	err := runLedgerTransaction(ctx, "spin daily goal", func(ctx context.Context) error {
		spun = false

		var err error
		goal, err = d.dailyGoalRepo.Get(ctx, userID, dateKey)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err == nil && goal.GoalSeconds.Valid {
			return nil
		}

		user, err := getOrCreateUser(ctx, d.userRepo, userID, dateKey)
		if err != nil {
			return err
		}

		// A record without goal was created by sessions recorded before the
		// first spin of the day. The goal is locked on that record.
		goalSeconds := sql.NullFloat64{Valid: true, Float64: crypto.RandPick(pool)}
		if goal == nil {
			goal = &entity.DailyGoal{
				UserID:          userID,
				DateKey:         dateKey,
				GoalSeconds:     goalSeconds,
				ProgressSeconds: user.DailyDoneOn(dateKey),
				Method:          entity.DailyGoalMethodWheel,
				TZ:              xcontext.Configs(ctx).Ledger.TimeZone,
			}
			goal.GoalMet = goal.IsGoalMet()

			created, err := d.dailyGoalRepo.Ensure(ctx, goal)
			if err != nil {
				return err
			}

			if !created && goal.GoalSeconds.Valid {
				// Somebody else locked the goal in the meantime.
				return nil
			}

			if !created {
				if err := d.lockGoal(ctx, goal, goalSeconds); err != nil {
					return err
				}
			}
		} else if err := d.lockGoal(ctx, goal, goalSeconds); err != nil {
			return err
		}

		if user.DailyDateKey != dateKey {
			user.DailyDone = 0
			user.DailyDateKey = dateKey
		}
		user.DailyGoalSeconds = goalSeconds
		user.DailyGoalDateKey = dateKey
		if err := d.userRepo.Update(ctx, user); err != nil {
			return err
		}

		spun = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if spun {
		d.publisher.publish(ctx, newLedgerEvent(model.GoalLockedEvent, userID, dateKey, now, map[string]any{
			"goal_seconds":     goal.GoalSeconds.Float64,
			"progress_seconds": goal.ProgressSeconds,
		}))
	}

	return &model.SpinDailyGoalResponse{DailyGoal: model.ConvertDailyGoal(goal), Spun: spun}, nil
}

func (d *dailyGoalDomain) lockGoal(
	ctx context.Context, goal *entity.DailyGoal, goalSeconds sql.NullFloat64,
) error {
	goal.GoalSeconds = goalSeconds
	goal.Method = entity.DailyGoalMethodWheel
	goal.GoalMet = goal.IsGoalMet()
	return d.dailyGoalRepo.Update(ctx, goal)
}
