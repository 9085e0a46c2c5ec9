package common

import (
	"context"
	"errors"

	"github.com/questx-lab/focus/pkg/xcontext"
)

// ErrStaleWrite is returned by repositories when a version-checked write lost
// the race against a concurrent transaction.
var ErrStaleWrite = errors.New("record was modified by a concurrent transaction")

// ErrTooManyAttempts is returned by RunTransaction when every attempt ended
// with ErrStaleWrite.
var ErrTooManyAttempts = errors.New("transaction aborted after too many conflicts")

// RunTransaction runs fn in a database transaction and retries it from the
// beginning, up to maxAttempts times, whenever it fails with ErrStaleWrite.
// Each attempt reads a fresh snapshot, so fn must not carry state between
// attempts.
func RunTransaction(ctx context.Context, maxAttempts int, fn func(context.Context) error) error {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := xcontext.Transaction(ctx, fn)
		if !errors.Is(err, ErrStaleWrite) {
			return err
		}

		xcontext.Logger(ctx).Debugf("Transaction conflict at attempt %d/%d", attempt, maxAttempts)
		PromCounters[TransactionConflictTotal].WithLabelValues().Inc()
	}

	return ErrTooManyAttempts
}
