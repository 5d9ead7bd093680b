package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
)

// Policy defines how a caller retries failed discovery attempts.
type Policy struct {
	MaxRetries    int           `json:"max_retries"`
	InitialDelay  time.Duration `json:"initial_delay"`
	BackoffFactor float64       `json:"backoff_factor"`
	MaxDelay      time.Duration `json:"max_delay"`
}

// DefaultPolicy returns a policy that never retries.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:    0,
		InitialDelay:  time.Second,
		BackoffFactor: 2.0,
		MaxDelay:      30 * time.Second,
	}
}

// Delay calculates the delay before the next retry attempt
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount <= 0 {
		return p.InitialDelay
	}

	delay := p.InitialDelay
	for i := 0; i < retryCount; i++ {
		delay = time.Duration(float64(delay) * p.BackoffFactor)
		if delay > p.MaxDelay {
			return p.MaxDelay
		}
	}
	return delay
}

// Do calls fn until it succeeds, returns an error retryable rejects, or the policy is exhausted.
// The last error is returned.
func Do(ctx context.Context, p Policy, clk clock.Clock, retryable func(error) bool, fn func(attempt int) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(attempt)
		if err == nil {
			return nil
		}
		if attempt >= p.MaxRetries || !retryable(err) {
			return err
		}

		delay := p.Delay(attempt)
		slog.Warn("Attempt failed, will retry", "attempt", attempt+1, "error", err, "delay", delay)
		timer := clk.Timer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
