package routing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicy_Backoff(t *testing.T) {
	policy := DefaultRetryPolicy()

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 2 * time.Second},
		{1, 2 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second},
		{40, 10 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, policy.Backoff(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestRetryPolicy_Do(t *testing.T) {
	t.Run("stops at first success", func(t *testing.T) {
		rec := &sleepRecorder{}
		policy := RetryPolicy{Sleep: rec.sleep}.withDefaults()

		calls := 0
		err := policy.Do(context.Background(), func(ctx context.Context, attempt int) error {
			calls++
			assert.Equal(t, calls, attempt)
			if attempt < 2 {
				return errBoom
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, []time.Duration{2 * time.Second}, rec.waits)
	})

	t.Run("returns last error", func(t *testing.T) {
		policy := RetryPolicy{Sleep: (&sleepRecorder{}).sleep}.withDefaults()

		calls := 0
		err := policy.Do(context.Background(), func(ctx context.Context, attempt int) error {
			calls++
			return errBoom
		})

		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, 3, calls)
	})

	t.Run("attempt deadline", func(t *testing.T) {
		policy := RetryPolicy{Attempts: 1, AttemptTimeout: 10 * time.Millisecond}.withDefaults()

		err := policy.Do(context.Background(), func(ctx context.Context, attempt int) error {
			<-ctx.Done()
			return ctx.Err()
		})

		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})

	t.Run("cancelled during backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		policy := RetryPolicy{Sleep: func(ctx context.Context, d time.Duration) error {
			cancel()
			return SleepContext(ctx, d)
		}}.withDefaults()

		calls := 0
		err := policy.Do(ctx, func(ctx context.Context, attempt int) error {
			calls++
			return errBoom
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, SleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
}
