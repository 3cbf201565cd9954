package repository

import (
	"context"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

// Role defines the interface for channel role membership
type Role interface {
	ListByRole(ctx context.Context, role domain.ChannelRole) ([]domain.UserRef, error)
	// Add is idempotent; re-adding refreshes the stored login and display name
	Add(ctx context.Context, role domain.ChannelRole, user domain.UserRef) error
	Remove(ctx context.Context, role domain.ChannelRole, userID string) error
}
