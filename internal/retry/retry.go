package retry

import (
	"context"
	"time"
)

// Policy controls how a failing producer is retried.
type Policy struct {
	MaxRetries  int                               `yaml:"max_retries"`
	BaseBackoff time.Duration                     `yaml:"base_backoff"`
	MaxBackoff  time.Duration                     `yaml:"max_backoff"`
	JitterFn    func(time.Duration) time.Duration `yaml:"-"`
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:  2,
		BaseBackoff: 100 * time.Millisecond,
		MaxBackoff:  2 * time.Second,
		JitterFn:    func(d time.Duration) time.Duration { return d / 2 }, //default jitter:50%
	}
}

// Do executes fn with retries, backoff, and cancellation support.
//
// fn must return nil on success.
// Any non-nil error is treated as retryable.
func Do(
	ctx context.Context,
	policy Policy,
	fn func() error,
) error {
	var attempt int
	var backoff = policy.BaseBackoff

	for {
		err := fn()
		if err == nil {
			return nil
		}

		attempt++
		if attempt > policy.MaxRetries {
			return err
		}

		delay := backoff
		if policy.JitterFn != nil {
			delay += policy.JitterFn(backoff)
		}
		if policy.MaxBackoff > 0 && delay > policy.MaxBackoff {
			delay = policy.MaxBackoff
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
			backoff *= 2
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
