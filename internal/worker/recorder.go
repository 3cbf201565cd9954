package worker

import (
	"context"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

// ExecutionStore persists a single execution record
type ExecutionStore interface {
	Record(ctx context.Context, execution *domain.Execution) error
}

// Recorder writes execution history through the pool so a slow database
// never holds up the dispatcher. It satisfies dispatch.ExecutionRecorder.
type Recorder struct {
	pool  *Pool
	store ExecutionStore
}

// NewRecorder wraps store with the given pool
func NewRecorder(pool *Pool, store ExecutionStore) *Recorder {
	return &Recorder{pool: pool, store: store}
}

// Record queues the write. A full or stopped queue drops the record and
// returns ErrQueueFull or ErrPoolStopped.
func (r *Recorder) Record(ctx context.Context, execution *domain.Execution) error {
	return r.pool.Enqueue(ctx, &recordJob{store: r.store, execution: execution})
}

type recordJob struct {
	store     ExecutionStore
	execution *domain.Execution
}

func (j *recordJob) Name() string { return JobNameRecordExecution }

func (j *recordJob) Process(ctx context.Context) error {
	return j.store.Record(ctx, j.execution)
}
