package worker

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkerCount is used when a Manager is built with a non-positive count.
const DefaultWorkerCount = 4

// Job processes the item at index i.
type Job func(ctx context.Context, i int) error

// Manager runs jobs on a bounded number of goroutines
type Manager struct {
	workerCount int
}

// NewManager creates a new manager
func NewManager(workerCount int) *Manager {
	if workerCount <= 0 {
		workerCount = DefaultWorkerCount
	}
	return &Manager{workerCount: workerCount}
}

// WorkerCount returns the concurrency limit.
func (m *Manager) WorkerCount() int {
	return m.workerCount
}

// Process runs job for every index in [0, n). The first failure cancels the
// context passed to the remaining jobs and is returned once all have stopped.
func (m *Manager) Process(ctx context.Context, n int, job Job) error {
	if n <= 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workerCount)

	var successCount, errorCount atomic.Uint64
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errorCount.Add(1)
				return err
			}
			if err := job(gctx, i); err != nil {
				errorCount.Add(1)
				log.Printf("Worker: job %d failed: %v", i, err)
				return fmt.Errorf("job %d: %w", i, err)
			}
			successCount.Add(1)
			return nil
		})
	}

	err := g.Wait()
	log.Printf("Worker: completed %d successful, %d errors (total: %d)",
		successCount.Load(), errorCount.Load(), n)
	return err
}
