package domain

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/questx-lab/focus/internal/common"
	"github.com/questx-lab/focus/internal/entity"
	"github.com/questx-lab/focus/internal/model"
	"github.com/questx-lab/focus/internal/repository"
	"github.com/questx-lab/focus/pkg/errorx"
	"github.com/questx-lab/focus/pkg/testutil"
	"github.com/questx-lab/focus/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_dailyGoalDomain_Spin(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	publisher := testutil.NewRecordingPublisher()
	d := newTestDailyGoalDomain(sunday(ctx), publisher)

	resp, err := d.Spin(ctx, &model.SpinDailyGoalRequest{})
	require.NoError(t, err)
	require.True(t, resp.Spun)
	require.True(t, resp.Locked)
	require.Equal(t, "2024-05-05", resp.DateKey)
	require.NotNil(t, resp.GoalSeconds)
	require.Contains(t, common.DefaultGoalPool, *resp.GoalSeconds)
	require.Equal(t, string(entity.DailyGoalMethodWheel), resp.Method)

	user := getUser(t, ctx, "user1")
	require.True(t, user.DailyGoalSeconds.Valid)
	require.Equal(t, *resp.GoalSeconds, user.DailyGoalSeconds.Float64)
	require.Equal(t, "2024-05-05", user.DailyGoalDateKey)
	require.Equal(t, 3, user.Skips)

	// The goal never changes once locked.
	again, err := d.Spin(ctx, &model.SpinDailyGoalRequest{Segments: []float64{7}})
	require.NoError(t, err)
	require.False(t, again.Spun)
	require.Equal(t, *resp.GoalSeconds, *again.GoalSeconds)

	packs := publisher.Packs(xcontext.Configs(ctx).Kafka.LedgerTopic)
	require.Len(t, packs, 1)

	var ev model.LedgerEvent
	require.NoError(t, json.Unmarshal(packs[0].Msg, &ev))
	require.Equal(t, model.GoalLockedEvent, ev.Type)
	require.Equal(t, "user1", string(packs[0].Key))
}

func Test_dailyGoalDomain_Spin_InvalidSegments(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	d := newTestDailyGoalDomain(sunday(ctx), nil)

	_, err := d.Spin(ctx, &model.SpinDailyGoalRequest{Segments: []float64{600, 0}})
	require.True(t, errorx.Is(err, errorx.BadRequest))

	_, err = d.Spin(ctx, &model.SpinDailyGoalRequest{Segments: []float64{-60}})
	require.True(t, errorx.Is(err, errorx.BadRequest))
}

func Test_dailyGoalDomain_Spin_SeedsFromDailyDone(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	createUser(t, ctx, &entity.User{ID: "user1", Level: 1, Skips: 3, DailyDone: 1000, DailyDateKey: "2024-05-05"})

	d := newTestDailyGoalDomain(sunday(ctx), nil)
	resp, err := d.Spin(ctx, &model.SpinDailyGoalRequest{Segments: []float64{900}})
	require.NoError(t, err)
	require.Equal(t, 1000.0, resp.ProgressSeconds)
	require.True(t, resp.GoalMet)
}

func Test_dailyGoalDomain_Spin_StaleDailyDone(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	createUser(t, ctx, &entity.User{ID: "user1", Level: 1, Skips: 3, DailyDone: 1000, DailyDateKey: "2024-05-04"})

	d := newTestDailyGoalDomain(sunday(ctx), nil)
	resp, err := d.Spin(ctx, &model.SpinDailyGoalRequest{Segments: []float64{900}})
	require.NoError(t, err)
	require.Equal(t, 0.0, resp.ProgressSeconds)
	require.False(t, resp.GoalMet)

	user := getUser(t, ctx, "user1")
	require.Equal(t, 0.0, user.DailyDone)
	require.Equal(t, "2024-05-05", user.DailyDateKey)
}

func Test_dailyGoalDomain_Spin_AfterSession(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	now := sunday(ctx)

	sessions := newTestSessionDomain(t, now, nil)
	recordSession(t, ctx, sessions, map[string]any{"id": "s1", "mode": "main", "seconds": 1200.0})

	goal := getDailyGoal(t, ctx, "user1", "2024-05-05")
	require.False(t, goal.GoalSeconds.Valid)
	require.Equal(t, entity.DailyGoalMethodNone, goal.Method)

	d := newTestDailyGoalDomain(now, nil)
	resp, err := d.Spin(ctx, &model.SpinDailyGoalRequest{Segments: []float64{900}})
	require.NoError(t, err)
	require.True(t, resp.Spun)
	require.Equal(t, 900.0, *resp.GoalSeconds)
	require.Equal(t, 1200.0, resp.ProgressSeconds)
	require.True(t, resp.GoalMet)

	goal = getDailyGoal(t, ctx, "user1", "2024-05-05")
	require.Equal(t, entity.DailyGoalMethodWheel, goal.Method)
	require.Equal(t, 900.0, goal.GoalSeconds.Float64)

	again, err := d.Spin(ctx, &model.SpinDailyGoalRequest{Segments: []float64{3600}})
	require.NoError(t, err)
	require.False(t, again.Spun)
	require.Equal(t, 900.0, *again.GoalSeconds)
}

func Test_dailyGoalDomain_Spin_Concurrent(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	d := newTestDailyGoalDomain(sunday(ctx), nil)

	const n = 8
	goals := make([]float64, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := d.Spin(ctx, &model.SpinDailyGoalRequest{
				Segments: []float64{600, 1200, 1800, 2400, 3000, 3600},
			})
			errs[i] = err
			if err == nil {
				goals[i] = *resp.GoalSeconds
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, goals[0], goals[i])
	}

	var count int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.DailyGoal{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
	require.Equal(t, goals[0], getUser(t, ctx, "user1").DailyGoalSeconds.Float64)
}

func Test_dailyGoalDomain_Get(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	d := newTestDailyGoalDomain(sunday(ctx), nil)

	resp, err := d.Get(ctx, &model.GetDailyGoalRequest{})
	require.NoError(t, err)
	require.False(t, resp.Exists)
	require.Equal(t, "2024-05-05", resp.DateKey)

	_, err = d.Spin(ctx, &model.SpinDailyGoalRequest{Segments: []float64{1500}})
	require.NoError(t, err)

	resp, err = d.Get(ctx, &model.GetDailyGoalRequest{})
	require.NoError(t, err)
	require.True(t, resp.Exists)
	require.True(t, resp.Locked)
	require.Equal(t, 1500.0, *resp.GoalSeconds)
	require.Equal(t, 0.0, resp.ProgressSeconds)
	require.False(t, resp.GoalMet)
}

func Test_dailyGoalDomain_Get_SessionWithoutGoal(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	recordSession(t, ctx, newTestSessionDomain(t, sunday(ctx), nil),
		map[string]any{"id": "s1", "mode": "main", "seconds": 600.0})

	d := newTestDailyGoalDomain(sunday(ctx), nil)
	resp, err := d.Get(ctx, &model.GetDailyGoalRequest{})
	require.NoError(t, err)
	require.True(t, resp.Exists)
	require.False(t, resp.Locked)
	require.Nil(t, resp.GoalSeconds)
	require.Equal(t, 600.0, resp.ProgressSeconds)
}

func Test_dailyGoalDomain_Spin_RetriesStaleWrite(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	d := newTestDailyGoalDomain(sunday(ctx), nil)

	attempts := 0
	d.dailyGoalRepo = &dailyGoalRepoWithHooks{
		DailyGoalRepository: repository.NewDailyGoalRepository(),
		beforeEnsure: func(ctx context.Context, goal *entity.DailyGoal) error {
			attempts++
			if attempts == 1 {
				return common.ErrStaleWrite
			}
			return nil
		},
	}

	resp, err := d.Spin(ctx, &model.SpinDailyGoalRequest{Segments: []float64{1500}})
	require.NoError(t, err)
	require.True(t, resp.Spun)
	require.Equal(t, 2, attempts)

	var count int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.DailyGoal{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
	require.Equal(t, 1500.0, getDailyGoal(t, ctx, "user1", "2024-05-05").GoalSeconds.Float64)
}
