package domain

import (
	"time"

	"github.com/google/uuid"
)

// Execution records one successful rule run
type Execution struct {
	ID        uuid.UUID      `json:"id"`
	RuleID    uuid.UUID      `json:"rule_id"`
	User      *UserRef       `json:"user,omitempty"`
	InputKind EventKind      `json:"input_kind"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ExecutionQuery pages through a rule's executions, newest first
type ExecutionQuery struct {
	Start  *time.Time
	End    *time.Time
	Offset int
	Limit  int
}
