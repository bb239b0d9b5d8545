package routing

import (
	"context"
	"time"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryPolicy bounds the calls made to a single provider. Waits grow as
// Multiplier * 2^(attempt-1), clamped to [MinWait, MaxWait].
type RetryPolicy struct {
	Attempts       int
	Multiplier     time.Duration
	MinWait        time.Duration
	MaxWait        time.Duration
	AttemptTimeout time.Duration
	Sleep          SleepFunc
}

// DefaultRetryPolicy returns three attempts with 2s-10s backoff and a 180s
// per-attempt timeout.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:       3,
		Multiplier:     time.Second,
		MinWait:        2 * time.Second,
		MaxWait:        10 * time.Second,
		AttemptTimeout: 180 * time.Second,
		Sleep:          SleepContext,
	}
}

// withDefaults fills zero fields from DefaultRetryPolicy.
func (p RetryPolicy) withDefaults() RetryPolicy {
	d := DefaultRetryPolicy()
	if p.Attempts <= 0 {
		p.Attempts = d.Attempts
	}
	if p.Multiplier <= 0 {
		p.Multiplier = d.Multiplier
	}
	if p.MinWait <= 0 {
		p.MinWait = d.MinWait
	}
	if p.MaxWait <= 0 {
		p.MaxWait = d.MaxWait
	}
	if p.MaxWait < p.MinWait {
		p.MaxWait = p.MinWait
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = d.AttemptTimeout
	}
	if p.Sleep == nil {
		p.Sleep = d.Sleep
	}
	return p
}

// Backoff returns the wait after the given failed attempt (1-based).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	wait := p.MaxWait
	// Past 2^30 the product is clamped anyway.
	if attempt <= 31 {
		wait = p.Multiplier * time.Duration(int64(1)<<uint(attempt-1))
		if wait <= 0 || wait > p.MaxWait {
			wait = p.MaxWait
		}
	}
	if wait < p.MinWait {
		wait = p.MinWait
	}
	return wait
}

// Do runs fn until it succeeds or the attempts run out. Each attempt gets its
// own deadline. A done ctx stops the loop and its error is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	var lastErr error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, p.AttemptTimeout)
		lastErr = fn(attemptCtx, attempt)
		cancel()

		if lastErr == nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if attempt < p.Attempts {
			if err := p.Sleep(ctx, p.Backoff(attempt)); err != nil {
				return err
			}
		}
	}
	return lastErr
}

// SleepContext is the default SleepFunc.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
