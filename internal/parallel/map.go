// Package parallel runs a mapping function over an iterator with a bounded
// number of goroutines.
package parallel

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"
)

type result[R any] struct {
	r R
	e error
}

// Map consumes seq, applies fn to every element with at most limit
// goroutines and yields the results as they complete. Elements of seq
// carrying an error are skipped. Order of results is not defined. Cancelling
// ctx stops the processing, results produced after the cancellation are
// dropped.
func Map[E, R any](ctx context.Context, limit int, seq iter.Seq2[E, error], fn func(context.Context, E) (R, error)) iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit + 1)
		results := make(chan result[R], limit)

		g.Go(func() error {
			for e, err := range seq {
				if err != nil {
					continue
				}
				g.Go(func() error {
					r, err := fn(gctx, e)
					select {
					case <-gctx.Done():
						return gctx.Err()
					case results <- result[R]{r: r, e: err}:
						return nil
					}
				})
			}
			return nil
		})

		go func() {
			_ = g.Wait()
			close(results)
		}()

		for r := range results {
			if ctx.Err() != nil {
				return
			}
			if !yield(r.r, r.e) {
				return
			}
		}
	}
}
