package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")
var errFatal = errors.New("fatal")

func isTransient(err error) bool { return errors.Is(err, errTransient) }

// fakeSleep records requested delays without waiting.
type fakeSleep struct {
	delays []time.Duration
}

func (f *fakeSleep) sleep(ctx context.Context, d time.Duration) error {
	f.delays = append(f.delays, d)
	return nil
}

func testPolicy(sleep *fakeSleep) Policy {
	p := Default(isTransient)
	p.Jitter = 0 // deterministic delays for assertions
	p.Sleep = sleep.sleep
	return p
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	sleep := &fakeSleep{}
	calls := 0

	err := testPolicy(sleep).Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}

	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(sleep.delays) != len(want) {
		t.Fatalf("delays = %v, want %v", sleep.delays, want)
	}
	for i := range want {
		if sleep.delays[i] != want[i] {
			t.Errorf("delay %d = %v, want %v", i, sleep.delays[i], want[i])
		}
	}
}

func TestDoExhaustsRetryBudget(t *testing.T) {
	sleep := &fakeSleep{}
	calls := 0

	err := testPolicy(sleep).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errTransient
	})
	if !errors.Is(err, errTransient) {
		t.Fatalf("err = %v, want wrapped transient error", err)
	}
	if calls != 4 { // first attempt + three retries
		t.Errorf("calls = %d, want 4", calls)
	}
}

func TestDoDoesNotRetryFatalErrors(t *testing.T) {
	sleep := &fakeSleep{}
	calls := 0

	err := testPolicy(sleep).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errFatal
	})
	if !errors.Is(err, errFatal) {
		t.Fatalf("err = %v, want fatal error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retries)", calls)
	}
	if len(sleep.delays) != 0 {
		t.Errorf("slept %v for a non-retryable error", sleep.delays)
	}
}

func TestDoCapsDelay(t *testing.T) {
	sleep := &fakeSleep{}
	p := testPolicy(sleep)
	p.MaxRetries = 6

	p.Do(context.Background(), func(ctx context.Context) error {
		return errTransient
	})

	// 2, 4, 8, 16, 32, then capped at 32.
	last := sleep.delays[len(sleep.delays)-1]
	if last != 32*time.Second {
		t.Errorf("last delay = %v, want cap of 32s", last)
	}
}

func TestDoAddsBoundedJitter(t *testing.T) {
	sleep := &fakeSleep{}
	p := Default(isTransient)
	p.Sleep = sleep.sleep
	p.MaxRetries = 1

	p.Do(context.Background(), func(ctx context.Context) error {
		return errTransient
	})

	if len(sleep.delays) != 1 {
		t.Fatalf("delays = %v", sleep.delays)
	}
	d := sleep.delays[0]
	if d < 2*time.Second || d >= 3*time.Second {
		t.Errorf("jittered delay %v outside [2s, 3s)", d)
	}
}

func TestDoHonorsContextDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Default(isTransient)
	// Real context-aware sleep: a cancelled context must abort the wait.
	err := p.Do(ctx, func(ctx context.Context) error {
		return errTransient
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
