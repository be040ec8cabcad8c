// Package pipeline runs independent render jobs on a fixed set of worker
// goroutines. Jobs share no mutable state, so they may complete in any order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned by Submit after Close has been called.
var ErrClosed = errors.New("pipeline closed")

// Job is one unit of work. The context is the one passed to Submit.
type Job func(ctx context.Context) error

// Pool executes submitted jobs on a fixed number of workers.
type Pool struct {
	jobs    chan task
	workers int

	wg sync.WaitGroup

	// Submit holds mu shared while sending so concurrent submitters do not
	// queue behind each other; Close takes it exclusively to close jobs.
	mu     sync.RWMutex
	closed bool

	errMu sync.Mutex
	errs  []error
}

type task struct {
	ctx context.Context
	id  int
	run Job
}

// NewPool starts a pool with the given number of workers (at least one).
func NewPool(workers int) *Pool {
	workers = max(workers, minWorkers)

	p := &Pool{
		jobs:    make(chan task, workers*queueDepthPerWorker),
		workers: workers,
	}

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}

	return p
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for t := range p.jobs {
		if err := t.run(t.ctx); err != nil {
			p.errMu.Lock()
			p.errs = append(p.errs, fmt.Errorf("job %d: %w", t.id, err))
			p.errMu.Unlock()
		}
	}
}

// Submit queues job under the given id. It blocks while the queue is full
// and returns ctx.Err() if ctx is done first.
func (p *Pool) Submit(ctx context.Context, id int, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Workers only ever take errMu, so a blocked send still drains.
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	select {
	case p.jobs <- task{ctx: ctx, id: id, run: job}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs, waits for queued and running jobs to finish
// and returns their failures joined. Calling Close twice is safe.
func (p *Pool) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	p.wg.Wait()

	p.errMu.Lock()
	defer p.errMu.Unlock()
	return errors.Join(p.errs...)
}
