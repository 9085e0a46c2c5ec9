package domain

import (
	"context"
	"errors"
	"time"

	"github.com/questx-lab/focus/internal/common"
	"github.com/questx-lab/focus/internal/entity"
	"github.com/questx-lab/focus/internal/repository"
	"github.com/questx-lab/focus/pkg/dateutil"
	"github.com/questx-lab/focus/pkg/errorx"
	"github.com/questx-lab/focus/pkg/xcontext"
)

// todayKey returns the day key of now in the ledger time zone.
func todayKey(ctx context.Context, now time.Time) string {
	return dateutil.DayKey(now, xcontext.Configs(ctx).Ledger.Location())
}

func newUser(ctx context.Context, userID, dateKey string) *entity.User {
	return &entity.User{
		ID:           userID,
		Level:        1,
		Skips:        xcontext.Configs(ctx).Ledger.InitialSkips,
		DailyDateKey: dateKey,
	}
}

// getOrCreateUser loads the aggregate of userID, creating it with default
// values first if it does not exist.
func getOrCreateUser(
	ctx context.Context, userRepo repository.UserRepository, userID, dateKey string,
) (*entity.User, error) {
	if _, err := userRepo.CreateIfAbsent(ctx, newUser(ctx, userID, dateKey)); err != nil {
		return nil, err
	}

	return userRepo.GetByID(ctx, userID)
}

// runLedgerTransaction runs fn in a retried transaction and converts any
// failure into an error suitable for the client.
func runLedgerTransaction(ctx context.Context, action string, fn func(context.Context) error) error {
	err := common.RunTransaction(ctx, xcontext.Configs(ctx).Ledger.MaxTxAttempts, fn)
	if err == nil {
		return nil
	}

	var errx errorx.Error
	if errors.As(err, &errx) {
		return errx
	}

	if errors.Is(err, common.ErrTooManyAttempts) {
		xcontext.Logger(ctx).Warnf("Cannot %s: %v", action, err)
		return errorx.New(errorx.Aborted, "Too many concurrent updates, please retry")
	}

	xcontext.Logger(ctx).Errorf("Cannot %s: %v", action, err)
	return errorx.Unknown
}
