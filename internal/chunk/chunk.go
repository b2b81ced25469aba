// Package chunk runs long loops in fixed-size slices, yielding the
// scheduler and checking for cancellation between slices.
package chunk

import (
	"context"
	"runtime"
)

// DefaultSize is the reference number of items per chunk
const DefaultSize = 1000

// Progress is called after each chunk with the number of items done so far
type Progress func(done, total int)

// Range calls fn(start, end) over [0,total) in chunks of size. Between
// chunks it yields the processor and returns ctx.Err() if the context was
// cancelled. Chunking never changes which items fn sees or their order.
func Range(ctx context.Context, total, size int, fn func(start, end int) error, onProgress Progress) error {
	if size <= 0 {
		size = DefaultSize
	}
	for start := 0; start < total; start += size {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + size
		if end > total {
			end = total
		}
		if err := fn(start, end); err != nil {
			return err
		}
		if onProgress != nil {
			onProgress(end, total)
		}
		if end < total {
			runtime.Gosched()
		}
	}
	return nil
}

// Each calls fn for every item in order, chunked as in Range
func Each[T any](ctx context.Context, items []T, size int, fn func(i int, item T) error) error {
	return Range(ctx, len(items), size, func(start, end int) error {
		for i := start; i < end; i++ {
			if err := fn(i, items[i]); err != nil {
				return err
			}
		}
		return nil
	}, nil)
}

// Pairs calls fn for every unordered pair (i, j), i < j, in nested-loop
// order. Work is chunked by pair count, not by outer index.
func Pairs(ctx context.Context, n, size int, fn func(i, j int) error) error {
	if size <= 0 {
		size = DefaultSize
	}
	count := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if err := fn(i, j); err != nil {
				return err
			}
			count++
			if count%size == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
				runtime.Gosched()
			}
		}
	}
	return ctx.Err()
}
