package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"market-sentiment/models"
	"market-sentiment/observability"
)

// Provider is one upstream source for a dataset.
type Provider[T any] struct {
	Name       string
	Configured bool
	Fetch      func(ctx context.Context) (T, error)
}

// Chain tries providers in order and returns the first accepted value.
type Chain[T any] struct {
	Dataset   string
	Timeout   time.Duration
	Providers []Provider[T]
	// Accept optionally validates a successful payload.
	Accept   func(T) error
	Fallback func() T
}

// Run resolves the dataset. It never returns an error: when no provider is
// configured no call is made, and when every configured provider fails the
// Fallback value is returned with a mock quality.
func (c Chain[T]) Run(ctx context.Context) Result[T] {
	log := observability.WithDataset(c.Dataset)

	synthesized := c.Fallback != nil
	providers := configured(c.Providers)
	if len(providers) == 0 {
		logUnconfigured(log, synthesized)
		return finish(c.Dataset, SyntheticResult(c.fallback(), ReasonNotConfigured, ErrNotConfigured), synthesized)
	}

	var attempts []Attempt
	for _, p := range providers {
		start := time.Now()
		v, err := call(ctx, c.Timeout, p.Fetch)
		if err == nil && c.Accept != nil {
			if aerr := c.Accept(v); aerr != nil {
				err = fmt.Errorf("%w: %w", ErrRejected, aerr)
			}
		}
		attempts = append(attempts, Attempt{Provider: p.Name, Err: err, Duration: time.Since(start)})

		if err != nil {
			logFailure(log, p.Name, err)
			continue
		}

		res := LiveResult(v, p.Name)
		res.Attempts = attempts
		return finish(c.Dataset, res, synthesized)
	}

	res := SyntheticResult(c.fallback(), ReasonUpstreamFailed, attemptErrors(attempts))
	res.Attempts = attempts
	return finish(c.Dataset, res, synthesized)
}

func (c Chain[T]) fallback() T {
	if c.Fallback == nil {
		var zero T
		return zero
	}
	return c.Fallback()
}

// Gather walks providers in order and concatenates their items until Enough
// reports the collection is sufficient. Any contributing provider makes the
// result live.
type Gather[T any] struct {
	Dataset   string
	Timeout   time.Duration
	Providers []Provider[[]T]
	Enough    func(collected []T) bool
	Fallback  func() []T
}

// Run resolves the dataset.
func (g Gather[T]) Run(ctx context.Context) Result[[]T] {
	log := observability.WithDataset(g.Dataset)

	synthesized := g.Fallback != nil
	providers := configured(g.Providers)
	if len(providers) == 0 {
		logUnconfigured(log, synthesized)
		return finish(g.Dataset, SyntheticResult(g.fallback(), ReasonNotConfigured, ErrNotConfigured), synthesized)
	}

	var (
		collected []T
		sources   []string
		attempts  []Attempt
	)
	for _, p := range providers {
		start := time.Now()
		items, err := call(ctx, g.Timeout, p.Fetch)
		if err == nil && len(items) == 0 {
			err = ErrEmpty
		}
		attempts = append(attempts, Attempt{Provider: p.Name, Err: err, Duration: time.Since(start)})

		if err != nil {
			logFailure(log, p.Name, err)
			continue
		}

		collected = append(collected, items...)
		sources = append(sources, p.Name)
		if g.Enough != nil && g.Enough(collected) {
			break
		}
	}

	if len(sources) == 0 {
		res := SyntheticResult(g.fallback(), ReasonUpstreamFailed, attemptErrors(attempts))
		res.Attempts = attempts
		return finish(g.Dataset, res, synthesized)
	}

	res := LiveResult(collected, strings.Join(sources, "+"))
	res.Attempts = attempts
	return finish(g.Dataset, res, synthesized)
}

func (g Gather[T]) fallback() []T {
	if g.Fallback == nil {
		return nil
	}
	return g.Fallback()
}

// AtLeast returns an Enough predicate satisfied by n items.
func AtLeast[T any](n int) func([]T) bool {
	return func(items []T) bool { return len(items) >= n }
}

// AtLeastDistinct returns an Enough predicate satisfied by n items with
// distinct keys.
func AtLeastDistinct[T any, K comparable](n int, key func(T) K) func([]T) bool {
	return func(items []T) bool {
		seen := make(map[K]struct{}, len(items))
		for _, it := range items {
			seen[key(it)] = struct{}{}
		}
		return len(seen) >= n
	}
}

func configured[T any](providers []Provider[T]) []Provider[T] {
	out := make([]Provider[T], 0, len(providers))
	for _, p := range providers {
		if p.Configured && p.Fetch != nil {
			out = append(out, p)
		}
	}
	return out
}

// call runs fn under its own timeout and turns a panic into an error.
func call[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return guard(ctx, fn)
}

func attemptErrors(attempts []Attempt) error {
	errs := make([]error, 0, len(attempts))
	for _, a := range attempts {
		if a.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.Provider, a.Err))
		}
	}
	return errors.Join(errs...)
}

func logFailure(log *slog.Logger, provider string, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		log.Warn("provider timed out", "provider", provider, "error", err)
		return
	}
	log.Warn("provider failed", "provider", provider, "error", err)
}

func logUnconfigured(log *slog.Logger, synthesized bool) {
	if synthesized {
		log.Info("no provider configured, using synthetic data")
		return
	}
	log.Info("no provider configured")
}

// finish records the resolution. Datasets without a Fallback are omitted on
// failure rather than substituted, so they never count as a fallback.
func finish[T any](dataset string, res Result[T], synthesized bool) Result[T] {
	m := observability.GetMetrics()
	m.RecordResolution(dataset, res.Source, string(res.Quality))
	if synthesized && res.Quality == models.QualityMock {
		m.RecordFallback(dataset, string(res.Reason))
	}
	return res
}
