package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// workerPool provides bounded concurrency for per-batch item evaluation.
// The pool outlives individual runs; chunk closures carry run state.
type workerPool struct {
	workers  int
	workChan chan func()
	stopOnce sync.Once
	stopped  atomic.Bool
	wg       sync.WaitGroup
}

func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = 1
	}

	pool := &workerPool{
		workers:  workers,
		workChan: make(chan func(), workers*2),
	}

	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}

	return pool
}

func (p *workerPool) worker() {
	defer p.wg.Done()

	for work := range p.workChan {
		if work != nil {
			work()
		}
	}
}

// Submit queues work, blocking briefly when the pool is saturated.
func (p *workerPool) Submit(work func()) error {
	if p.stopped.Load() {
		return ErrPoolStopped
	}

	select {
	case p.workChan <- work:
		return nil
	default:
		select {
		case p.workChan <- work:
			return nil
		case <-time.After(time.Second):
			if p.stopped.Load() {
				return ErrPoolStopped
			}
			p.workChan <- work
			return nil
		}
	}
}

// Stop drains the pool, waiting for in-flight work up to the context
// deadline.
func (p *workerPool) Stop(ctx context.Context) error {
	var err error

	p.stopOnce.Do(func() {
		p.stopped.Store(true)
		close(p.workChan)

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}
	})

	return err
}
