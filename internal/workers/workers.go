package workers

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strconv"
	"sync"
)

// EnvOverride pins the worker count when set to a positive integer.
const EnvOverride = "RENDER_WORKERS"

// Count returns the number of workers for a task type: GOMAXPROCS scaled by
// multiplier (1.0 CPU-bound, 2.0 I/O-bound), at least 1 and at
// most limit when limit > 0.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(EnvOverride); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	workers := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}
	return workers
}

// ForCPU returns worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns worker count for I/O-bound tasks (2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}

// Run calls fn for every job using n goroutines. Every job error is
// collected and returned joined; a cancelled context stops dispatch and is
// reported as ctx.Err().
func Run[T any](ctx context.Context, n int, jobs []T, fn func(context.Context, T) error) error {
	if n < 1 {
		n = 1
	}
	if n > len(jobs) {
		n = len(jobs)
	}

	queue := make(chan T)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				if err := fn(ctx, job); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}
		}()
	}

dispatch:
	for _, job := range jobs {
		select {
		case <-ctx.Done():
			break dispatch
		case queue <- job:
		}
	}
	close(queue)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
