package domain

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/focus/internal/common"
	"github.com/questx-lab/focus/internal/entity"
	"github.com/questx-lab/focus/internal/model"
	"github.com/questx-lab/focus/internal/repository"
	"github.com/questx-lab/focus/pkg/dateutil"
	"github.com/questx-lab/focus/pkg/errorx"
	"github.com/questx-lab/focus/pkg/pubsub"
	"github.com/questx-lab/focus/pkg/xcontext"
	"github.com/questx-lab/focus/pkg/xredis"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

const (
	outcomeAlreadyFinalized = "already_finalized"
	outcomeFailed           = "failed"
)

type FinalizerDomain interface {
	FinalizeDay(context.Context, *model.FinalizeDayRequest) (*model.FinalizeDayResponse, error)
}

type finalizerDomain struct {
	userRepo      repository.UserRepository
	dailyGoalRepo repository.DailyGoalRepository
	redisClient   xredis.Client
	publisher     ledgerPublisher
	now           func() time.Time
}

// NewFinalizerDomain creates the daily finalizer. The redis client is
// optional. Without it concurrent runs for the same day are not prevented,
// which is still correct but wasteful.
func NewFinalizerDomain(
	userRepo repository.UserRepository,
	dailyGoalRepo repository.DailyGoalRepository,
	redisClient xredis.Client,
	publisher pubsub.Publisher,
) *finalizerDomain {
	return &finalizerDomain{
		userRepo:      userRepo,
		dailyGoalRepo: dailyGoalRepo,
		redisClient:   redisClient,
		publisher:     newLedgerPublisher(publisher),
		now:           time.Now,
	}
}

func (d *finalizerDomain) FinalizeDay(
	ctx context.Context, req *model.FinalizeDayRequest,
) (*model.FinalizeDayResponse, error) {
	cfg := xcontext.Configs(ctx)
	loc := cfg.Ledger.Location()

	dateKey := req.DateKey
	if dateKey == "" {
		dateKey = dateutil.DayKeyWithOffset(d.now(), loc, -1)
	} else if _, err := dateutil.ParseDayKey(dateKey, loc); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid date key %q", dateKey)
	}

	resp := &model.FinalizeDayResponse{DateKey: dateKey, Outcomes: map[string]int64{}}

	lockKey := common.RedisKeyFinalizeLock(dateKey)
	locked := false
	if d.redisClient != nil && !req.Force {
		ok, err := d.redisClient.SetNX(ctx, lockKey, lockOwner(), cfg.Finalizer.LockTTL)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot acquire finalize lock of %s, continue without it: %v", dateKey, err)
		} else if !ok {
			xcontext.Logger(ctx).Infof("Day %s is being finalized by another run", dateKey)
			resp.Skipped = true
			return resp, nil
		} else {
			locked = true
		}
	}

	if total, err := d.userRepo.Count(ctx); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot count users: %v", err)
	} else {
		xcontext.Logger(ctx).Infof("Finalizing day %s of %d users", dateKey, total)
	}

	workers := cfg.Finalizer.Workers
	if workers <= 0 {
		workers = 1
	}

	batchSize := cfg.Finalizer.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	outcomes := xsync.NewMapOf[*xsync.Counter]()
	count := func(outcome string) {
		counter, _ := outcomes.LoadOrStore(outcome, new(xsync.Counter))
		counter.Inc()
		common.PromCounters[common.FinalizedDayTotal].WithLabelValues(outcome).Inc()
	}

	processed := new(xsync.Counter)
	failed := new(xsync.Counter)

	var group errgroup.Group
	group.SetLimit(workers)

	afterID := ""
	var listErr error
	for ctx.Err() == nil {
		ids, err := d.userRepo.GetIDsAfter(ctx, afterID, batchSize)
		if err != nil {
			listErr = err
			break
		}

		for _, id := range ids {
			userID := id
			group.Go(func() error {
				outcome, err := d.finalizeUser(ctx, userID, dateKey)
				if err != nil {
					xcontext.Logger(ctx).Errorf("Cannot finalize day %s of user %s: %v", dateKey, userID, err)
					failed.Inc()
					count(outcomeFailed)
					return nil
				}

				processed.Inc()
				count(outcome)
				return nil
			})
		}

		if len(ids) < batchSize {
			break
		}

		afterID = ids[len(ids)-1]
	}

	// Workers never return an error.
	_ = group.Wait()

	if listErr == nil {
		listErr = ctx.Err()
	}

	if listErr != nil {
		xcontext.Logger(ctx).Errorf("Cannot list users to finalize day %s: %v", dateKey, listErr)
		if locked {
			d.releaseLock(ctx, lockKey)
		}

		return nil, errorx.Unknown
	}

	resp.Processed = processed.Value()
	resp.Failed = failed.Value()
	outcomes.Range(func(outcome string, counter *xsync.Counter) bool {
		resp.Outcomes[outcome] = counter.Value()
		return true
	})

	xcontext.Logger(ctx).Infof("Finalized day %s: processed=%d failed=%d %s",
		dateKey, resp.Processed, resp.Failed, formatOutcomes(resp.Outcomes))

	// Another run may retry the failed users right away.
	if locked && resp.Failed > 0 {
		d.releaseLock(ctx, lockKey)
	}

	return resp, nil
}

func (d *finalizerDomain) releaseLock(ctx context.Context, lockKey string) {
	if err := d.redisClient.Del(ctx, lockKey); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot release finalize lock %s: %v", lockKey, err)
	}
}

// finalizeUser closes the day record of one user in its own transaction and
// returns the outcome.
func (d *finalizerDomain) finalizeUser(ctx context.Context, userID, dateKey string) (string, error) {
	now := d.now()
	var outcome string
	var goal *entity.DailyGoal
	var user *entity.User

	err := common.RunTransaction(ctx, xcontext.Configs(ctx).Ledger.MaxTxAttempts, func(ctx context.Context) error {
		var err error
		user, err = d.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		goal = &entity.DailyGoal{
			UserID:  userID,
			DateKey: dateKey,
			Method:  entity.DailyGoalMethodNone,
			TZ:      xcontext.Configs(ctx).Ledger.TimeZone,
		}
		created, err := d.dailyGoalRepo.Ensure(ctx, goal)
		if err != nil {
			return err
		}

		if goal.Finalized {
			outcome = outcomeAlreadyFinalized
			return nil
		}

		goal.Finalized = true
		goal.AutoFinalized = true
		goal.FinalizedAt = sql.NullTime{Valid: true, Time: now}

		if goal.IsGoalMet() {
			goal.GoalMet = true
			goal.SkipSpent = false
			goal.FinalizeReason = entity.FinalizeReasonGoalMet
			outcome = string(goal.FinalizeReason)
			return d.dailyGoalRepo.Update(ctx, goal)
		}

		goal.FinalizeReason = entity.FinalizeReasonNotMet
		if created {
			goal.FinalizeReason = entity.FinalizeReasonNoSpin
		}

		goal.GoalMet = false
		goal.SkipSpent = true
		goal.SkipsBefore = sql.NullInt64{Valid: true, Int64: int64(user.Skips)}
		user.Skips--
		goal.SkipsAfter = sql.NullInt64{Valid: true, Int64: int64(user.Skips)}
		outcome = string(goal.FinalizeReason)

		if err := d.dailyGoalRepo.Update(ctx, goal); err != nil {
			return err
		}

		return d.userRepo.Update(ctx, user)
	})
	if err != nil {
		return "", err
	}

	if outcome != outcomeAlreadyFinalized {
		d.publisher.publish(ctx, newLedgerEvent(model.DayFinalizedEvent, userID, dateKey, now, map[string]any{
			"reason":     outcome,
			"skip_spent": goal.SkipSpent,
			"skips":      user.Skips,
		}))
	}

	return outcome, nil
}

func lockOwner() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}

	return fmt.Sprintf("%s:%d", hostname, os.Getpid())
}

func formatOutcomes(outcomes map[string]int64) string {
	names := make([]string, 0, len(outcomes))
	for name := range outcomes {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, outcomes[name]))
	}

	return strings.Join(parts, " ")
}
