package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EvaluatorOption configures an evaluation run
type EvaluatorOption func(*evaluatorOptions)

type evaluatorOptions struct {
	workers   int
	batchSize int
}

// WithWorkers sets the number of chunks evaluated at once
func WithWorkers(workers int) EvaluatorOption {
	return func(o *evaluatorOptions) {
		if workers > 0 {
			o.workers = workers
		}
	}
}

// WithBatchSize sets the minimum chunk size; shorter lists are evaluated
// on the calling goroutine
func WithBatchSize(size int) EvaluatorOption {
	return func(o *evaluatorOptions) {
		if size > 0 {
			o.batchSize = size
		}
	}
}

// Apply returns the records matched by f, in input order. A nil filter
// matches everything. The first evaluation error aborts the run.
func Apply[T any](ctx context.Context, f CompiledFilter, records []T, env EnvFunc[T], opts ...EvaluatorOption) ([]T, error) {
	if f == nil {
		return records, nil
	}
	if len(records) == 0 {
		return []T{}, nil
	}

	o := evaluatorOptions{
		workers:   runtime.GOMAXPROCS(0),
		batchSize: 100,
	}
	for _, opt := range opts {
		opt(&o)
	}

	// For small lists, don't bother with concurrency
	if len(records) < o.batchSize {
		return match(f, records, 0, env)
	}

	chunkSize := max(len(records)/o.workers, o.batchSize)
	chunks := (len(records) + chunkSize - 1) / chunkSize
	results := make([][]T, chunks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(records))

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			matches, err := match(f, records[start:end], start, env)
			if err != nil {
				return err
			}
			results[i] = matches
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	all := make([]T, 0, total)
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// match evaluates f sequentially; offset is the index of records[0] in the
// caller's list, for error reporting.
func match[T any](f CompiledFilter, records []T, offset int, env EnvFunc[T]) ([]T, error) {
	matches := make([]T, 0, len(records))
	for i, record := range records {
		ok, err := f.Match(env(record))
		if err != nil {
			return nil, &EvaluationError{Expression: f.Expression(), Index: offset + i, Err: err}
		}
		if ok {
			matches = append(matches, record)
		}
	}
	return matches, nil
}
