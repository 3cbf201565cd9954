// Package roles keeps the channel's moderator and VIP lists and answers
// membership questions for the rule gate.
package roles

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/logger"
	"github.com/osse101/ThrowBot_Go/internal/repository"
)

var (
	ErrUnknownRole    = errors.New(ErrMsgUnknownRole)
	ErrUserIDRequired = errors.New(ErrMsgUserIDRequired)
)

// Directory serves role membership from a cache in front of the role store.
// Concurrent misses for the same role share one store query.
type Directory struct {
	repo        repository.Role
	cache       *memberCache
	loads       singleflight.Group
	broadcaster *domain.UserRef
}

// NewDirectory creates a directory. A broadcaster with an empty id is treated as unknown.
func NewDirectory(repo repository.Role, broadcaster domain.UserRef, cacheSize int, cacheTTL time.Duration) *Directory {
	d := &Directory{
		repo:  repo,
		cache: newMemberCache(cacheSize, cacheTTL),
	}
	if broadcaster.ID != "" {
		b := broadcaster
		d.broadcaster = &b
	}
	return d
}

// GetModerators returns the channel's moderators
func (d *Directory) GetModerators(ctx context.Context) ([]domain.UserRef, error) {
	return d.List(ctx, domain.ChannelModerator)
}

// GetVIPs returns the channel's VIPs
func (d *Directory) GetVIPs(ctx context.Context) ([]domain.UserRef, error) {
	return d.List(ctx, domain.ChannelVIP)
}

// GetBroadcaster returns the configured broadcaster, or nil when none is set
func (d *Directory) GetBroadcaster(ctx context.Context) (*domain.UserRef, error) {
	if d.broadcaster == nil {
		logger.FromContext(ctx).Debug(LogMsgNoBroadcaster)
		return nil, nil
	}
	b := *d.broadcaster
	return &b, nil
}

// List returns the members of a role, loading them on a cache miss
func (d *Directory) List(ctx context.Context, role domain.ChannelRole) ([]domain.UserRef, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if members, ok := d.cache.Get(role); ok {
		return members, nil
	}

	// The load is shared by every waiter, so it must not die with the first caller
	v, err, _ := d.loads.Do(string(role), func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), RoleLoadTimeout)
		defer cancel()

		logger.FromContext(ctx).Debug(LogMsgRoleCacheMiss, "role", role)
		members, err := d.repo.ListByRole(loadCtx, role)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLoadRole, err)
		}
		d.cache.Set(role, members)
		return members, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]domain.UserRef)), nil
}

// Add grants a role and drops the cached list
func (d *Directory) Add(ctx context.Context, role domain.ChannelRole, user domain.UserRef) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if user.ID == "" {
		return ErrUserIDRequired
	}
	if err := d.repo.Add(ctx, role, user); err != nil {
		return err
	}
	d.cache.Invalidate(role)
	logger.FromContext(ctx).Info(LogMsgRoleAdded, "role", role, "user_id", user.ID, "login", user.Login)
	return nil
}

// Remove revokes a role and drops the cached list
func (d *Directory) Remove(ctx context.Context, role domain.ChannelRole, userID string) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if userID == "" {
		return ErrUserIDRequired
	}
	if err := d.repo.Remove(ctx, role, userID); err != nil {
		return err
	}
	d.cache.Invalidate(role)
	logger.FromContext(ctx).Info(LogMsgRoleRemoved, "role", role, "user_id", userID)
	return nil
}

// Refresh empties the cache so the next lookup reloads from the store
func (d *Directory) Refresh() {
	d.cache.Clear()
}
