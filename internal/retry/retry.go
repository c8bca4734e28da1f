// Package retry implements the backoff contract callers of the extraction
// service must honor: transient failures are retried with exponential
// backoff and jitter, anything else propagates immediately. The policy is
// an explicit value, not implicit control flow, so it can be exercised with
// a fake sleep and a fake failing call.
package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Policy describes how an operation is retried.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration
	// Multiplier grows the delay between consecutive retries.
	Multiplier float64
	// MaxDelay caps the grown delay.
	MaxDelay time.Duration
	// Jitter adds a uniform random amount in [0, Jitter) to every delay so
	// concurrent callers do not retry in lockstep.
	Jitter time.Duration
	// Retryable classifies errors. A nil predicate retries nothing.
	Retryable func(error) bool
	// Sleep waits out a delay; nil uses a context-aware timer. Tests inject
	// a recording fake here.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Default mirrors the extraction service's recommended settings: three
// retries starting at 2s, doubling, capped at 32s, with up to 1s of jitter.
func Default(retryable func(error) bool) Policy {
	return Policy{
		MaxRetries:   3,
		InitialDelay: 2 * time.Second,
		Multiplier:   2,
		MaxDelay:     32 * time.Second,
		Jitter:       time.Second,
		Retryable:    retryable,
	}
}

// Do runs fn until it succeeds, fails non-transiently, exhausts the retry
// budget, or the context is done.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	delay := p.InitialDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}
		if attempt >= p.MaxRetries {
			return fmt.Errorf("retry: %d retries exhausted: %w", p.MaxRetries, err)
		}

		d := delay
		if p.Jitter > 0 {
			d += time.Duration(rand.Int64N(int64(p.Jitter)))
		}
		if err := sleep(ctx, d); err != nil {
			return err
		}

		delay = time.Duration(float64(delay) * p.Multiplier)
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
