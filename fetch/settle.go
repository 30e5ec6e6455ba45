package fetch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Outcome is the settled result of one concurrent branch
type Outcome[T any] struct {
	Value T
	Err   error
}

// OK reports whether the branch succeeded.
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// Settle runs every fn concurrently and waits for all of them. A failing or
// panicking branch never affects the others. limit bounds concurrency when
// positive. Outcomes are returned in input order.
func Settle[T any](ctx context.Context, limit int, fns ...func(context.Context) (T, error)) []Outcome[T] {
	out := make([]Outcome[T], len(fns))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, fn := range fns {
		g.Go(func() error {
			out[i].Value, out[i].Err = guard(ctx, fn)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// Pair runs two differently typed branches concurrently with all-settle
// semantics.
func Pair[A, B any](ctx context.Context, fa func(context.Context) (A, error), fb func(context.Context) (B, error)) (Outcome[A], Outcome[B]) {
	var (
		a Outcome[A]
		b Outcome[B]
		g errgroup.Group
	)
	g.Go(func() error {
		a.Value, a.Err = guard(ctx, fa)
		return nil
	})
	g.Go(func() error {
		b.Value, b.Err = guard(ctx, fb)
		return nil
	})
	_ = g.Wait()
	return a, b
}

func guard[T any](ctx context.Context, fn func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn(ctx)
}
