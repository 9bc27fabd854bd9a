package retry

import (
	"context"
	"time"
)

// Predicate decides whether an error is worth another attempt. Business
// conflicts must return false here: retrying cannot change their outcome.
type Predicate func(err error) bool

// Options controls the retry schedule. Zero values fall back to Defaults.
type Options struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func Defaults() Options {
	return Options{
		MaxAttempts: 5,
		BaseDelay:   10 * time.Millisecond,
		MaxDelay:    500 * time.Millisecond,
	}
}

// WithRetries runs fn until it succeeds, returns a non-retryable error, or
// the attempt bound is hit. Exhausted is true only when the bound was hit,
// in which case err is the last attempt's error and the caller is expected
// to wrap it as retries-exhausted rather than surfacing the raw storage
// error.
func WithRetries(ctx context.Context, opts Options, isRetryable Predicate, fn func(ctx context.Context) error) (exhausted bool, err error) {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = Defaults().MaxAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = Defaults().BaseDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = Defaults().MaxDelay
	}

	delay := opts.BaseDelay
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return false, nil
		}
		if !isRetryable(err) {
			return false, err
		}
		if attempt >= opts.MaxAttempts {
			return true, err
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > opts.MaxDelay {
			delay = opts.MaxDelay
		}
	}
}
