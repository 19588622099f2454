package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map applies fn to every element of in on at most workers goroutines and
// returns the results in input order. The first error cancels the context
// passed to the remaining calls and is returned.
func Map[T any, R any](ctx context.Context, in []T, workers int, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(in))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for idx, val := range in {
		g.Go(func() error {
			r, err := fn(ctx, val)
			if err != nil {
				return err
			}
			out[idx] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ForEach runs action for every element in a separate goroutine and waits for
// all of them. It returns the first error encountered.
func ForEach[T any](in []T, action func(T) error) error {
	var g errgroup.Group
	for _, val := range in {
		g.Go(func() error {
			return action(val)
		})
	}
	return g.Wait()
}
