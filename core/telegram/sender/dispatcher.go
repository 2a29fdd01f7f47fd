// Package sender runs outbound Telegram sends on a small worker pool
// so handlers return quickly and rate pressure is absorbed in one place.
package sender

import (
	"context"
	"sync"

	"github.com/cozyberries/opsbot/core/logger"
)

// Job is a single outbound operation, usually a closure over a
// Telebot send or edit call.
type Job func() error

// Dispatcher queues outbound jobs and executes them on worker
// goroutines. A full queue falls back to synchronous execution so
// messages are never dropped.
type Dispatcher struct {
	jobs    chan Job
	wg      sync.WaitGroup
	once    sync.Once
	closed  chan struct{}
	workers int
}

// New builds a Dispatcher with the given worker count and queue depth.
func New(workers, queue int) *Dispatcher {
	if workers <= 0 {
		workers = 2
	}
	if queue <= 0 {
		queue = 64
	}
	d := &Dispatcher{
		jobs:    make(chan Job, queue),
		closed:  make(chan struct{}),
		workers: workers,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for job := range d.jobs {
		d.run(job)
	}
}

func (d *Dispatcher) run(job Job) {
	if err := job(); err != nil {
		logger.Error(context.Background(), logger.TG, "tg.send.failed", "error", err)
	}
}

// Dispatch enqueues a job, executing inline when the queue is full or
// the dispatcher is shutting down.
func (d *Dispatcher) Dispatch(job Job) {
	select {
	case <-d.closed:
		d.run(job)
		return
	default:
	}
	select {
	case d.jobs <- job:
	default:
		d.run(job)
	}
}

// Stop drains queued jobs and waits for the workers to finish.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		close(d.closed)
		close(d.jobs)
	})
	d.wg.Wait()
}
