package pipeline

import (
	"context"
	"sync"
)

// ForEachLimit runs fn over items with at most limit of them in flight and
// returns one error slot per item, index-aligned, so a failure can always be
// attributed to the item that caused it regardless of completion order.
// Workers write their slot directly; dispatch never waits on a result, so
// the pool drains even when items far outnumber the limit.
func ForEachLimit[T any](ctx context.Context, items []T, limit int, fn func(context.Context, int, T) error) []error {
	if ctx == nil {
		ctx = context.Background()
	}
	errs := make([]error, len(items))

	if limit <= 1 {
		for i, it := range items {
			select {
			case <-ctx.Done():
				errs[i] = ctx.Err()
				continue
			default:
			}
			errs[i] = fn(ctx, i, it)
		}
		return errs
	}

	type job struct {
		index int
		item  T
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	for w := 0; w < limit; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				errs[j.index] = fn(ctx, j.index, j.item)
			}
		}()
	}

	for i, it := range items {
		select {
		case <-ctx.Done():
			errs[i] = ctx.Err()
		case jobs <- job{index: i, item: it}:
		}
	}
	close(jobs)
	wg.Wait()
	return errs
}
