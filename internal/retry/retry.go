package retry

import (
	"context"
	"time"

	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/logger"
)

const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = time.Second
)

// Options tunes WithBackoff. Zero values take the defaults.
type Options struct {
	MaxRetries int
	BaseDelay  time.Duration
	Operation  string
	// Sleep waits between attempts. It defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// WithBackoff calls op up to MaxRetries times. Failures are normalized; 401,
// 403 and 404 are returned at once, anything else is retried after
// BaseDelay * 2^attempt. The last failure is always returned.
func WithBackoff[T any](ctx context.Context, op func(ctx context.Context) (T, error), opts Options) (T, error) {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}

	var zero T
	for attempt := 0; attempt < opts.MaxRetries; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		apiErr := domainErrors.Normalize(err, opts.Operation)
		if !apiErr.Retryable() || attempt == opts.MaxRetries-1 {
			return zero, apiErr
		}

		delay := opts.BaseDelay * time.Duration(1<<attempt)
		logger.Info(ctx, "retrying after failure",
			"operation", opts.Operation,
			"attempt", attempt+1,
			"max_retries", opts.MaxRetries,
			"delay_ms", delay.Milliseconds(),
			"status", apiErr.StatusCode)

		if err := opts.Sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
	return zero, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
