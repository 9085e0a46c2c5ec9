package common

import (
	"context"
	"errors"
	"testing"

	"github.com/questx-lab/focus/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestRunTransaction(t *testing.T) {
	ctx := testutil.MockContext()

	t.Run("retries stale writes", func(t *testing.T) {
		attempts := 0
		err := RunTransaction(ctx, 3, func(context.Context) error {
			attempts++
			if attempts < 3 {
				return ErrStaleWrite
			}
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, 3, attempts)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		attempts := 0
		err := RunTransaction(ctx, 2, func(context.Context) error {
			attempts++
			return ErrStaleWrite
		})
		require.ErrorIs(t, err, ErrTooManyAttempts)
		require.Equal(t, 2, attempts)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		boom := errors.New("boom")
		attempts := 0
		err := RunTransaction(ctx, 5, func(context.Context) error {
			attempts++
			return boom
		})
		require.ErrorIs(t, err, boom)
		require.Equal(t, 1, attempts)
	})
}
