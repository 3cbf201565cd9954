package worker

import "time"

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

const (
	LogMsgWorkerJobFailed    = "Worker job failed"
	LogMsgWorkerDrainTimeout = "Worker pool stopped before the queue drained"
)

// ============================================================================
// Pool Defaults
// ============================================================================

const (
	DefaultQueueSize  = 256
	DefaultJobTimeout = 5 * time.Second
)

// JobNameRecordExecution labels execution history writes in metrics and logs
const JobNameRecordExecution = "record_execution"
