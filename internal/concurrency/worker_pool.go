package concurrency

import (
	"context"
	"sync"
)

// Small reusable fan-out helper: runs fn for each index in [0, tasks)
// across at most workers goroutines, returning when all indices are
// processed or the context is cancelled.

type WorkerFn func(ctx context.Context, index int)

func ForEach(ctx context.Context, workers, tasks int, fn WorkerFn) {
	if tasks <= 0 {
		return
	}
	if workers > tasks {
		workers = tasks
	}
	if workers < 1 {
		workers = 1
	}

	idx := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				fn(ctx, i)
			}
		}()
	}

	for i := 0; i < tasks; i++ {
		select {
		case idx <- i:
		case <-ctx.Done():
			close(idx)
			wg.Wait()
			return
		}
	}
	close(idx)
	wg.Wait()
}
