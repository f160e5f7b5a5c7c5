package concurrency

import (
	"context"
	"sync"
)

// WorkerFn receives the worker's index in [0, workers).
type WorkerFn func(ctx context.Context, index int)

// RunWorkers fans out fn across the given number of goroutines and waits for
// all of them. Used for building large notification batches.
func RunWorkers(ctx context.Context, workers int, fn WorkerFn) {
	if workers < 1 {
		workers = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			fn(ctx, idx)
		}(i)
	}
	wg.Wait()
}
