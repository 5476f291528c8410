package concurrency

import (
	"context"
	"sync"
)

type Task func(ctx context.Context)

// Run executes tasks with at most limit goroutines and waits for all of
// them. Tasks are expected to honor ctx themselves; Run does not abandon
// in-flight work on cancellation.
func Run(ctx context.Context, limit int, tasks []Task) {
	if limit <= 0 || limit > len(tasks) {
		limit = len(tasks)
	}
	if limit == 0 {
		return
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		sem <- struct{}{}
		go func(t Task) {
			defer wg.Done()
			defer func() { <-sem }()
			t(ctx)
		}(task)
	}
	wg.Wait()
}
