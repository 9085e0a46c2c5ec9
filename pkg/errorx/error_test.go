package errorx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(BadRequest, "Invalid %s", "seconds")
	require.Equal(t, "Invalid seconds", err.Error())
	require.True(t, Is(err, BadRequest))
	require.False(t, Is(err, NotFound))
	require.False(t, Is(errors.New("Invalid seconds"), BadRequest))

	var errx Error
	require.True(t, errors.As(fmt.Errorf("wrap: %w", err), &errx))
	require.Equal(t, BadRequest, errx.Code)
}
