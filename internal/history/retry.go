package history

import (
	"context"
	"errors"
	"time"

	"market-data-backend/internal/binance"
)

// RetryPolicy retries an operation on upstream rate limits, honoring the
// server-supplied delay hint and falling back to DefaultDelay when the
// response carried none. Any other error, or exhausting MaxRetries, ends
// the operation.
type RetryPolicy struct {
	MaxRetries   int
	DefaultDelay time.Duration

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewRetryPolicy(maxRetries int, defaultDelay time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxRetries:   maxRetries,
		DefaultDelay: defaultDelay,
		sleep:        sleepContext,
	}
}

// Do runs op, retrying after each rate-limit error up to MaxRetries
// times. The error from the final attempt is returned as-is.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	for attempt := 0; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		var rl *binance.RateLimitError
		if !errors.As(err, &rl) || attempt >= p.MaxRetries {
			return err
		}

		delay := rl.RetryAfter
		if delay <= 0 {
			delay = p.DefaultDelay
		}
		if serr := p.sleep(ctx, delay); serr != nil {
			return serr
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
