package tasks

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Settled is the outcome of one fanned-out call.
type Settled[T any] struct {
	Name  string
	Value T
	Err   error
}

// AllSettled calls fn once per name concurrently, at most limit at a time (unlimited when
// limit <= 0), and waits for every call. Results are in the order of names.
func AllSettled[T any](ctx context.Context, phase Phase, limit int, progress chan<- ProgressUpdate, names []string, fn func(ctx context.Context, name string) (T, error)) []Settled[T] {
	results := make([]Settled[T], len(names))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, name := range names {
		g.Go(func() error {
			sendProgress(progress, startedUpdate(phase, i+1, len(names), name))
			v, err := fn(ctx, name)
			if err != nil {
				sendProgress(progress, failedUpdate(phase, i+1, len(names), name, err))
			}
			results[i] = Settled[T]{Name: name, Value: v, Err: err}
			return nil
		})
	}
	g.Wait()
	return results
}
