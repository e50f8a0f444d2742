package services

import (
	"context"
	"errors"
	"fmt"
)

// DefaultBatchSize is the most media item ids the Photos Library API accepts per add/remove call.
const DefaultBatchSize = 50

// BatchError reports the chunks of a [Batch] call that failed.
type BatchError struct {
	Failed int   // Number of chunks whose mutation returned an error
	Total  int   // Number of chunks attempted
	Err    error // Joined chunk errors
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d of %d batches failed: %v", e.Failed, e.Total, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// Batch calls mutate once per contiguous chunk of at most size items, preserving order.
//
// A size of zero or less selects [DefaultBatchSize]. Every chunk is attempted even when an earlier one fails,
// and nothing is rolled back; failures come back as a [*BatchError]. Cancelling ctx stops before the next chunk.
//
// The joined error is for reporting only. Chunks that succeeded stay applied and callers do not retry per chunk.
func Batch[T any](ctx context.Context, items []T, size int, mutate func(ctx context.Context, chunk []T) error) error {
	if size <= 0 {
		size = DefaultBatchSize
	}

	total := (len(items) + size - 1) / size
	var errs []error

	for i, start := 0, 0; start < len(items); i, start = i+1, start+size {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}

		end := min(start+size, len(items))
		if err := mutate(ctx, items[start:end:end]); err != nil {
			errs = append(errs, fmt.Errorf("batch %d/%d: %w", i+1, total, err))
		}
	}

	if len(errs) > 0 {
		return &BatchError{Failed: len(errs), Total: total, Err: errors.Join(errs...)}
	}

	return nil
}
