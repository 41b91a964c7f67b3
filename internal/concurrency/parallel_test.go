package concurrency

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.MaxWorkers != 6 {
		t.Errorf("Expected MaxWorkers to be 6, got %d", opts.MaxWorkers)
	}
}

func TestProcessParallel(t *testing.T) {
	ctx := context.Background()

	// Test with empty slice
	results, errs := ProcessParallel(ctx, []int{}, DefaultOptions(), func(ctx context.Context, index int, item int) (string, error) {
		return "", nil
	})
	if len(results) != 0 {
		t.Errorf("Expected empty results for empty input, got %d items", len(results))
	}
	if errs != nil {
		t.Errorf("Expected nil errors for empty input, got %v", errs)
	}

	// Test with normal operation
	input := []int{1, 2, 3, 4, 5}
	results, errs = ProcessParallel(ctx, input, DefaultOptions(), func(ctx context.Context, index int, item int) (string, error) {
		return string(rune('a' + item - 1)), nil
	})
	if len(results) != len(input) {
		t.Errorf("Expected %d results, got %d", len(input), len(results))
	}
	if len(errs) != 0 {
		t.Errorf("Expected no errors, got %d", len(errs))
	}
	expected := []string{"a", "b", "c", "d", "e"}
	for i, res := range results {
		if res != expected[i] {
			t.Errorf("Expected result at index %d to be %s, got %s", i, expected[i], res)
		}
	}

	// Test with errors
	results, errs = ProcessParallel(ctx, input, DefaultOptions(), func(ctx context.Context, index int, item int) (string, error) {
		if item%2 == 0 {
			return "", errors.New("even number error")
		}
		return string(rune('a' + item - 1)), nil
	})
	if len(results) != len(input) {
		t.Errorf("Expected %d results, got %d", len(input), len(results))
	}
	if len(errs) != 2 {
		t.Errorf("Expected 2 errors, got %d", len(errs))
	}

	// Test with custom options
	opts := ParallelOptions{MaxWorkers: 2}
	results, errs = ProcessParallel(ctx, input, opts, func(ctx context.Context, index int, item int) (string, error) {
		return string(rune('a' + item - 1)), nil
	})
	if len(results) != len(input) {
		t.Errorf("Expected %d results, got %d", len(input), len(results))
	}
	if len(errs) != 0 {
		t.Errorf("Expected no errors, got %d", len(errs))
	}

	// Test with invalid MaxWorkers
	opts = ParallelOptions{MaxWorkers: -1}
	results, errs = ProcessParallel(ctx, input, opts, func(ctx context.Context, index int, item int) (string, error) {
		return string(rune('a' + item - 1)), nil
	})
	if len(results) != len(input) {
		t.Errorf("Expected %d results, got %d", len(input), len(results))
	}
	if len(errs) != 0 {
		t.Errorf("Expected no errors, got %d", len(errs))
	}

	// Test with context cancellation
	cancelCtx, cancel := context.WithCancel(ctx)
	cancel() // Cancel immediately
	results, errs = ProcessParallel(cancelCtx, input, DefaultOptions(), func(ctx context.Context, index int, item int) (string, error) {
		time.Sleep(100 * time.Millisecond)
		return string(rune('a' + item - 1)), nil
	})
	// The results slice is still fully populated, with zero values for
	// the items that never ran.
	if len(results) != len(input) {
		t.Errorf("Expected %d results, got %d", len(input), len(results))
	}
	if len(errs) == 0 {
		t.Errorf("Expected cancellation errors, got none")
	}
}

// Results must come back in input order despite parallel execution.
func TestProcessParallelOrder(t *testing.T) {
	ctx := context.Background()
	input := []int{5, 3, 1, 4, 2}

	results, errs := ProcessParallel(ctx, input, DefaultOptions(), func(ctx context.Context, index int, item int) (int, error) {
		// Simulate varying processing times
		time.Sleep(time.Duration(item) * 10 * time.Millisecond)
		return item, nil
	})

	if len(errs) != 0 {
		t.Errorf("Expected no errors, got %d", len(errs))
	}

	for i, res := range results {
		if res != input[i] {
			t.Errorf("Expected result at index %d to be %d, got %d", i, input[i], res)
		}
	}
}
