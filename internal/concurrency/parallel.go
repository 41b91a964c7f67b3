// Package concurrency provides a bounded worker pool for fanning out
// independent API calls.
package concurrency

import (
	"context"
	"sync"
)

// ParallelOptions configures parallel processing behavior.
type ParallelOptions struct {
	// MaxWorkers caps the number of concurrent workers.
	MaxWorkers int
}

// DefaultOptions returns the default parallel processing options.
func DefaultOptions() ParallelOptions {
	return ParallelOptions{
		MaxWorkers: 6,
	}
}

// ProcessParallel runs itemFunc over every item using a bounded pool of
// workers. Results come back in input order; errors are collected
// rather than short-circuiting, so one failed fetch does not discard
// the rest of the batch.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = DefaultOptions().MaxWorkers
	}
	if maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	jobs := make(chan int, len(items))
	results := make(chan struct {
		index  int
		result R
		err    error
	}, len(items))

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jobIndex := range jobs {
				var result R
				err := ctx.Err()
				if err == nil {
					result, err = itemFunc(ctx, jobIndex, items[jobIndex])
				}
				results <- struct {
					index  int
					result R
					err    error
				}{jobIndex, result, err}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	resultList := make([]R, len(items))
	var errors []error

	for i := 0; i < len(items); i++ {
		res := <-results
		if res.err != nil {
			errors = append(errors, res.err)
		}
		resultList[res.index] = res.result
	}

	return resultList, errors
}
