package domain

import (
	"testing"
	"time"

	"github.com/questx-lab/focus/internal/entity"
	"github.com/questx-lab/focus/internal/model"
	"github.com/questx-lab/focus/internal/repository"
	"github.com/questx-lab/focus/pkg/errorx"
	"github.com/questx-lab/focus/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_skipDomain_ClaimWeeklyBonus(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	createUser(t, ctx, &entity.User{ID: "user1", Level: 1, Skips: 3})

	d := NewSkipDomain(repository.NewUserRepository(), nil)
	d.now = clock(sunday(ctx))

	resp, err := d.ClaimWeeklyBonus(ctx, &model.ClaimWeeklyBonusRequest{})
	require.NoError(t, err)
	require.Equal(t, 4, resp.Skips)

	_, err = d.ClaimWeeklyBonus(ctx, &model.ClaimWeeklyBonusRequest{})
	require.True(t, errorx.Is(err, errorx.AlreadyExists))

	user := getUser(t, ctx, "user1")
	require.Equal(t, 4, user.Skips)
	require.Equal(t, "2024-05-05", user.LastSundayClaim)

	// The next Sunday can be claimed again.
	d.now = clock(sunday(ctx).AddDate(0, 0, 7))
	resp, err = d.ClaimWeeklyBonus(ctx, &model.ClaimWeeklyBonusRequest{})
	require.NoError(t, err)
	require.Equal(t, 5, resp.Skips)
}

func Test_skipDomain_ClaimWeeklyBonus_WrongDay(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	createUser(t, ctx, &entity.User{ID: "user1", Level: 1, Skips: 3})

	d := NewSkipDomain(repository.NewUserRepository(), nil)
	for i := 1; i < 7; i++ {
		d.now = clock(sunday(ctx).AddDate(0, 0, i))
		_, err := d.ClaimWeeklyBonus(ctx, &model.ClaimWeeklyBonusRequest{})
		require.True(t, errorx.Is(err, errorx.Unavailable))
	}

	require.Equal(t, 3, getUser(t, ctx, "user1").Skips)
}

func Test_skipDomain_ClaimWeeklyBonus_TimeZone(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	createUser(t, ctx, &entity.User{ID: "user1", Level: 1, Skips: 3})

	d := NewSkipDomain(repository.NewUserRepository(), nil)

	// Saturday 18:30 UTC is already Sunday in Bangkok.
	d.now = clock(time.Date(2024, 5, 4, 18, 30, 0, 0, time.UTC))
	resp, err := d.ClaimWeeklyBonus(ctx, &model.ClaimWeeklyBonusRequest{})
	require.NoError(t, err)
	require.Equal(t, 4, resp.Skips)
}

func Test_skipDomain_ClaimWeeklyBonus_NotFound(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	d := NewSkipDomain(repository.NewUserRepository(), nil)
	d.now = clock(sunday(ctx))

	_, err := d.ClaimWeeklyBonus(ctx, &model.ClaimWeeklyBonusRequest{})
	require.True(t, errorx.Is(err, errorx.NotFound))
}
