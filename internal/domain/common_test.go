package domain

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/focus/internal/entity"
	"github.com/questx-lab/focus/internal/model"
	"github.com/questx-lab/focus/internal/repository"
	"github.com/questx-lab/focus/pkg/pubsub"
	"github.com/questx-lab/focus/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

// sunday is 2024-05-05 10:00 in Asia/Bangkok.
func sunday(ctx context.Context) time.Time {
	return time.Date(2024, 5, 5, 10, 0, 0, 0, xcontext.Configs(ctx).Ledger.Location())
}

func clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestSessionDomain(t *testing.T, now time.Time, publisher pubsub.Publisher) *sessionDomain {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	d := NewSessionDomain(
		repository.NewUserRepository(),
		repository.NewDailyGoalRepository(),
		repository.NewSessionRepository(),
		node,
		publisher,
	)
	d.now = clock(now)
	return d
}

func newTestDailyGoalDomain(now time.Time, publisher pubsub.Publisher) *dailyGoalDomain {
	d := NewDailyGoalDomain(
		repository.NewUserRepository(),
		repository.NewDailyGoalRepository(),
		publisher,
	)
	d.now = clock(now)
	return d
}

func recordSession(
	t *testing.T, ctx context.Context, d *sessionDomain, session map[string]any,
) *model.RecordSessionResponse {
	resp, err := d.Record(ctx, &model.RecordSessionRequest{Session: session})
	require.NoError(t, err)
	return resp
}

func getUser(t *testing.T, ctx context.Context, id string) *entity.User {
	user, err := repository.NewUserRepository().GetByID(ctx, id)
	require.NoError(t, err)
	return user
}

func getDailyGoal(t *testing.T, ctx context.Context, userID, dateKey string) *entity.DailyGoal {
	goal, err := repository.NewDailyGoalRepository().Get(ctx, userID, dateKey)
	require.NoError(t, err)
	return goal
}

func createUser(t *testing.T, ctx context.Context, user *entity.User) {
	created, err := repository.NewUserRepository().CreateIfAbsent(ctx, user)
	require.NoError(t, err)
	require.True(t, created)
}

// userRepoWithHooks lets a test fail a write before it reaches the store.
type userRepoWithHooks struct {
	repository.UserRepository
	beforeUpdate func(ctx context.Context, user *entity.User) error
}

func (r *userRepoWithHooks) Update(ctx context.Context, user *entity.User) error {
	if r.beforeUpdate != nil {
		if err := r.beforeUpdate(ctx, user); err != nil {
			return err
		}
	}

	return r.UserRepository.Update(ctx, user)
}

type dailyGoalRepoWithHooks struct {
	repository.DailyGoalRepository
	beforeEnsure func(ctx context.Context, goal *entity.DailyGoal) error
}

func (r *dailyGoalRepoWithHooks) Ensure(ctx context.Context, goal *entity.DailyGoal) (bool, error) {
	if r.beforeEnsure != nil {
		if err := r.beforeEnsure(ctx, goal); err != nil {
			return false, err
		}
	}

	return r.DailyGoalRepository.Ensure(ctx, goal)
}
