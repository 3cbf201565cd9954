package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

// Rule defines the interface for rule data access
type Rule interface {
	// ListEnabled returns every enabled rule in display order
	ListEnabled(ctx context.Context) ([]domain.Rule, error)
	// ListByTriggerKind returns the enabled rules with the given trigger kind
	ListByTriggerKind(ctx context.Context, kind domain.TriggerKind) ([]domain.Rule, error)
	List(ctx context.Context) ([]domain.Rule, error)
	// Get returns domain.ErrRuleNotFound when no rule has the id
	Get(ctx context.Context, id uuid.UUID) (*domain.Rule, error)
	Create(ctx context.Context, rule *domain.Rule) error
	Update(ctx context.Context, rule *domain.Rule) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateOrder(ctx context.Context, updates []domain.OrderUpdate) error
}
