package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/osse101/ThrowBot_Go/internal/logger"
	"github.com/osse101/ThrowBot_Go/internal/metrics"
)

var (
	// ErrQueueFull is returned by Enqueue when no slot is free
	ErrQueueFull = errors.New("worker queue is full")
	// ErrPoolStopped is returned by Enqueue after Stop
	ErrPoolStopped = errors.New("worker pool is stopped")
)

// Job represents a task to be executed by a worker
type Job interface {
	Name() string
	Process(ctx context.Context) error
}

// Pool runs queued jobs on a fixed number of goroutines
type Pool struct {
	workers    int
	jobTimeout time.Duration
	jobQueue   chan queuedJob
	wg         sync.WaitGroup

	mu      sync.RWMutex
	started bool
	stopped bool
}

// queuedJob keeps the submitter's context values without its deadline
type queuedJob struct {
	ctx context.Context
	job Job
}

// NewPool creates a new worker pool. Non-positive sizes fall back to one
// worker and the default queue size.
func NewPool(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = DefaultQueueSize
	}
	return &Pool{
		workers:    workers,
		jobTimeout: DefaultJobTimeout,
		jobQueue:   make(chan queuedJob, queueSize),
	}
}

// Start starts the workers. Calling it twice is a no-op.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for q := range p.jobQueue {
		metrics.WorkerQueueDepth.Dec()
		p.run(q)
	}
}

func (p *Pool) run(q queuedJob) {
	ctx, cancel := context.WithTimeout(q.ctx, p.jobTimeout)
	defer cancel()

	if err := q.job.Process(ctx); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(q.job.Name()).Inc()
		logger.FromContext(ctx).Error(LogMsgWorkerJobFailed, "job", q.job.Name(), "error", err)
	}
}

// Enqueue hands a job to the pool without blocking. The job runs with the
// values of ctx but not its cancellation.
func (p *Pool) Enqueue(ctx context.Context, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		metrics.WorkerJobsDropped.WithLabelValues(job.Name()).Inc()
		return ErrPoolStopped
	}

	select {
	case p.jobQueue <- queuedJob{ctx: context.WithoutCancel(ctx), job: job}:
		metrics.WorkerQueueDepth.Inc()
		return nil
	default:
		metrics.WorkerJobsDropped.WithLabelValues(job.Name()).Inc()
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for the workers to drain it, or for ctx
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	started := p.started
	close(p.jobQueue)
	p.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgWorkerDrainTimeout, "pending", len(p.jobQueue))
		return ctx.Err()
	}
}
