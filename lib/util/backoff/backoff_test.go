package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errTemporary = errors.New("temporary")

func TestRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("SucceedsEventually", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, time.Millisecond, func(attempt int) error {
			assert.Equal(t, calls, attempt)
			calls++
			if calls < 3 {
				return errTemporary
			}
			return nil
		}, nil)
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("ReturnsLastError", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 2, time.Millisecond, func(int) error {
			calls++
			return errTemporary
		}, nil)
		assert.ErrorIs(t, err, errTemporary)
		assert.Equal(t, 2, calls)
	})

	t.Run("StopsOnPermanentError", func(t *testing.T) {
		permanent := errors.New("permanent")
		calls := 0
		err := Retry(ctx, 5, time.Millisecond, func(int) error {
			calls++
			return permanent
		}, func(err error) bool { return !errors.Is(err, permanent) })
		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("AtLeastOnce", func(t *testing.T) {
		calls := 0
		_ = Retry(ctx, 0, time.Millisecond, func(int) error {
			calls++
			return nil
		}, nil)
		assert.Equal(t, 1, calls)
	})

	t.Run("ContextCancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()

		calls := 0
		start := time.Now()
		err := Retry(ctx, 3, time.Hour, func(int) error {
			calls++
			return errTemporary
		}, nil)
		assert.ErrorIs(t, err, errTemporary)
		assert.Equal(t, 1, calls)
		assert.Less(t, time.Since(start), time.Minute)
	})
}
