package concurrency_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drinkport/beverage-promo-service/internal/concurrency"
)

func TestRunExecutesAllTasks(t *testing.T) {
	var ran atomic.Int32
	tasks := make([]concurrency.Task, 5)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) { ran.Add(1) }
	}

	concurrency.Run(context.Background(), 2, tasks)
	assert.Equal(t, int32(5), ran.Load())
}

func TestRunNoTasks(t *testing.T) {
	concurrency.Run(context.Background(), 4, nil)
}

func TestRunBoundsConcurrency(t *testing.T) {
	var current, peak atomic.Int32
	tasks := make([]concurrency.Task, 8)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) {
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			current.Add(-1)
		}
	}

	concurrency.Run(context.Background(), 2, tasks)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}
