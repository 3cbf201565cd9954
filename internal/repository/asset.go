package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

// Asset defines the interface for item and sound data access
type Asset interface {
	// GetItems returns the subset of ids that exist, with impact sound ids populated
	GetItems(ctx context.Context, ids []uuid.UUID) ([]domain.Item, error)
	GetSounds(ctx context.Context, ids []uuid.UUID) ([]domain.Sound, error)
	// GetSound returns domain.ErrAssetNotFound when no sound has the id
	GetSound(ctx context.Context, id uuid.UUID) (*domain.Sound, error)

	ListItems(ctx context.Context) ([]domain.Item, error)
	ListSounds(ctx context.Context) ([]domain.Sound, error)
	CreateItem(ctx context.Context, item *domain.Item) error
	CreateSound(ctx context.Context, sound *domain.Sound) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	DeleteSound(ctx context.Context, id uuid.UUID) error
}
