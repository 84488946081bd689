// Package memo wraps data producers with cache-aside lookups against a
// store.Store.
//
// By default concurrent calls that miss on the same key each run the
// producer; WithCoalescing turns on per-key deduplication.
package memo

import (
	"context"
	"reflect"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"rehearsal-hub/internal/logs"
	"rehearsal-hub/internal/metrics"
	"rehearsal-hub/internal/retry"
	"rehearsal-hub/internal/store"
)

// Func is a producer: typically a fetch from a remote backend.
type Func[A, V any] func(ctx context.Context, arg A) (V, error)

type options struct {
	ttl      time.Duration
	coalesce bool
	retry    *retry.Policy
	logger   *logs.Logger
}

type Option func(*options)

// WithTTL stores results with a fixed TTL. Without it, or with a
// non-positive value, the store's TTL policy decides.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		o.ttl = d
	}
}

// WithCoalescing makes concurrent misses on the same key share one
// producer call.
func WithCoalescing() Option {
	return func(o *options) {
		o.coalesce = true
	}
}

// WithRetry retries a failing producer according to p.
func WithRetry(p retry.Policy) Option {
	return func(o *options) {
		o.retry = &p
	}
}

func WithLogger(logger *logs.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Wrap returns fn guarded by s. On a hit fn is not called. On a miss the
// result of fn is stored under keyFn(arg) and returned; errors are returned
// as-is and nothing is cached.
func Wrap[A, V any](s *store.Store, keyFn func(A) string, fn Func[A, V], opts ...Option) Func[A, V] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logs.NewLogger(0, logs.ERROR, nil)
	}

	var setOpts []store.SetOption
	if o.ttl > 0 {
		setOpts = append(setOpts, store.WithTTL(o.ttl))
	}

	load := func(ctx context.Context, key string, arg A) (V, error) {
		s.Metrics().Inc(metrics.LoaderCallsTotal)

		var v V
		call := func() error {
			var err error
			v, err = fn(ctx, arg)
			return err
		}

		var err error
		if o.retry != nil {
			err = retry.Do(ctx, *o.retry, call)
		} else {
			err = call()
		}
		if err != nil {
			s.Metrics().Inc(metrics.LoaderFailuresTotal)
			o.logger.Warn("producer failed",
				zap.String("cache", s.Name()),
				zap.String("key", key),
				zap.Error(err),
			)
			return v, err
		}

		if err := s.Set(key, v, setOpts...); err != nil {
			o.logger.Debug("result not cached", zap.String("key", key), zap.Error(err))
		}
		return v, nil
	}

	// A nil result for an interface-typed V is stored as untyped nil, which
	// no type assertion accepts.
	nilable := reflect.TypeOf((*V)(nil)).Elem().Kind() == reflect.Interface
	lookup := func(key string) (V, bool) {
		var zero V
		cached, ok := s.Get(key)
		if !ok {
			return zero, false
		}
		if cached == nil {
			return zero, nilable
		}
		v, ok := cached.(V)
		return v, ok
	}

	if !o.coalesce {
		return func(ctx context.Context, arg A) (V, error) {
			key := keyFn(arg)
			if v, ok := lookup(key); ok {
				return v, nil
			}
			return load(ctx, key, arg)
		}
	}

	var group singleflight.Group
	return func(ctx context.Context, arg A) (V, error) {
		key := keyFn(arg)
		if v, ok := lookup(key); ok {
			return v, nil
		}

		// The shared call outlives any single caller; each caller only
		// stops waiting on its own cancellation.
		ch := group.DoChan(key, func() (any, error) {
			return load(context.WithoutCancel(ctx), key, arg)
		})
		select {
		case res := <-ch:
			v, _ := res.Val.(V)
			return v, res.Err
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}
}
