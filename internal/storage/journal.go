package storage

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Job is a unit of persistence work applied inside one batch.
type Job struct {
	// Name identifies the operation in logs.
	Name  string
	Apply func(ctx context.Context, b Batch) error
}

// Journal applies jobs on a worker goroutine so that the game loop never
// waits on storage. A failed job is logged and rolled back; memory is never
// reconciled with the failure.
type Journal struct {
	backend Backend
	logger  *zap.Logger
	timeout time.Duration
	queue   chan Job

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	applied atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

// NewJournal creates a journal with a queue of size entries.
//
// Precondition: backend and logger must be non-nil; size must be > 0.
func NewJournal(backend Backend, size int, logger *zap.Logger) *Journal {
	return &Journal{
		backend: backend,
		logger:  logger,
		timeout: 5 * time.Second,
		queue:   make(chan Job, size),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Submit enqueues job without blocking.
//
// Postcondition: Returns ErrQueueFull and logs the drop when the queue is saturated.
func (j *Journal) Submit(job Job) error {
	select {
	case j.queue <- job:
		return nil
	default:
		j.dropped.Add(1)
		j.logger.Warn("persistence queue full, dropping write",
			zap.String("operation", job.Name),
			zap.Int("capacity", cap(j.queue)),
		)
		return fmt.Errorf("submit %s: %w", job.Name, ErrQueueFull)
	}
}

// Start runs the worker until Stop is called, then drains the queue.
func (j *Journal) Start() error {
	defer close(j.done)
	for {
		select {
		case job := <-j.queue:
			j.apply(job)
		case <-j.stop:
			for {
				select {
				case job := <-j.queue:
					j.apply(job)
				default:
					return nil
				}
			}
		}
	}
}

// Stop signals the worker and waits for the queue to drain.
func (j *Journal) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
	<-j.done
}

// Depth returns the number of queued jobs.
func (j *Journal) Depth() int {
	return len(j.queue)
}

// Stats returns the number of applied, failed and dropped jobs.
func (j *Journal) Stats() (applied, failed, dropped int64) {
	return j.applied.Load(), j.failed.Load(), j.dropped.Load()
}

func (j *Journal) apply(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	if err := j.run(ctx, job); err != nil {
		j.failed.Add(1)
		j.logger.Warn("persistence failed",
			zap.String("operation", job.Name),
			zap.Error(err),
		)
		return
	}
	j.applied.Add(1)
}

func (j *Journal) run(ctx context.Context, job Job) error {
	b, err := j.backend.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := job.Apply(ctx, b); err != nil {
		if rbErr := b.Rollback(ctx); rbErr != nil {
			j.logger.Warn("rollback failed", zap.String("operation", job.Name), zap.Error(rbErr))
		}
		return err
	}
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
