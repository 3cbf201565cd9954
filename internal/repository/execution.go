package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

// Execution defines the interface for rule execution history
type Execution interface {
	Record(ctx context.Context, execution *domain.Execution) error
	ListForRule(ctx context.Context, ruleID uuid.UUID, query domain.ExecutionQuery) ([]domain.Execution, error)
	// DeleteMany returns the number of rows removed
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}
