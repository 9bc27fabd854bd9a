package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func isTransient(err error) bool {
	return errors.Is(err, errTransient)
}

func fastOptions(maxAttempts int) Options {
	return Options{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
	}
}

func TestWithRetries_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	exhausted, err := WithRetries(context.Background(), fastOptions(5), isTransient, func(ctx context.Context) error {
		calls++
		return nil
	})

	if err != nil || exhausted {
		t.Fatalf("expected clean success, got err=%v exhausted=%v", err, exhausted)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestWithRetries_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	exhausted, err := WithRetries(context.Background(), fastOptions(5), isTransient, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})

	if err != nil || exhausted {
		t.Fatalf("expected eventual success, got err=%v exhausted=%v", err, exhausted)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetries_ExhaustsBound(t *testing.T) {
	calls := 0
	exhausted, err := WithRetries(context.Background(), fastOptions(3), isTransient, func(ctx context.Context) error {
		calls++
		return errTransient
	})

	if !exhausted {
		t.Fatal("expected exhausted=true when the bound is hit")
	}
	if !errors.Is(err, errTransient) {
		t.Errorf("expected the last error back, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected exactly MaxAttempts calls, got %d", calls)
	}
}

func TestWithRetries_NonRetryableStopsImmediately(t *testing.T) {
	fatal := errors.New("business conflict")
	calls := 0
	exhausted, err := WithRetries(context.Background(), fastOptions(5), isTransient, func(ctx context.Context) error {
		calls++
		return fatal
	})

	if exhausted {
		t.Error("a non-retryable error is not exhaustion")
	}
	if !errors.Is(err, fatal) {
		t.Errorf("expected the fatal error back, got %v", err)
	}
	if calls != 1 {
		t.Errorf("non-retryable errors must not be retried, got %d calls", calls)
	}
}

func TestWithRetries_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	exhausted, err := WithRetries(ctx, Options{MaxAttempts: 10, BaseDelay: time.Hour}, isTransient, func(ctx context.Context) error {
		calls++
		cancel()
		return errTransient
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if exhausted {
		t.Error("cancellation is not exhaustion")
	}
	if calls != 1 {
		t.Errorf("expected no further attempts after cancellation, got %d", calls)
	}
}

func TestWithRetries_ZeroOptionsFallBackToDefaults(t *testing.T) {
	calls := 0
	exhausted, _ := WithRetries(context.Background(), Options{BaseDelay: time.Microsecond, MaxDelay: time.Microsecond}, isTransient, func(ctx context.Context) error {
		calls++
		return errTransient
	})

	if !exhausted {
		t.Fatal("expected exhaustion")
	}
	if calls != Defaults().MaxAttempts {
		t.Errorf("expected %d attempts from defaults, got %d", Defaults().MaxAttempts, calls)
	}
}
