// Package gate decides whether a matched rule may run for a given event context.
package gate

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/ThrowBot_Go/internal/cooldown"
	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/logger"
	"github.com/osse101/ThrowBot_Go/internal/metrics"
)

// RoleDirectory resolves channel role membership
type RoleDirectory interface {
	GetModerators(ctx context.Context) ([]domain.UserRef, error)
	GetVIPs(ctx context.Context) ([]domain.UserRef, error)
	// GetBroadcaster returns the authenticated broadcaster, or nil when none is known
	GetBroadcaster(ctx context.Context) (*domain.UserRef, error)
}

// Denial reasons. A denial is a filtered result, not a failure.
var (
	ErrUserRequired = errors.New("rule requires a known user")
	ErrRoleRequired = errors.New("user lacks the required role")
)

// Gate applies the role check and then the cooldown check
type Gate struct {
	cooldowns *cooldown.State
	roles     RoleDirectory
}

// New creates a gate over shared cooldown state and a role directory
func New(cooldowns *cooldown.State, roles RoleDirectory) *Gate {
	return &Gate{
		cooldowns: cooldowns,
		roles:     roles,
	}
}

// Admit reports whether rule may run for ec. Denials are logged at debug level.
func (g *Gate) Admit(ctx context.Context, rule domain.Rule, ec domain.EventContext) bool {
	reason := g.Check(ctx, rule, ec)
	if reason == nil {
		return true
	}

	log := logger.FromContext(ctx)
	var lookupErr *domain.DirectoryLookupError
	if errors.As(reason, &lookupErr) {
		log.Warn(LogMsgDirectoryLookupFailed, "rule_id", rule.ID, "error", reason)
	} else {
		log.Debug(LogMsgGateDenied, "rule_id", rule.ID, "rule", rule.Name, "reason", reason)
	}
	metrics.GateDenialsTotal.WithLabelValues(denialLabel(reason)).Inc()
	return false
}

// Check returns nil when rule is admitted, otherwise the reason it was denied.
// Role is evaluated before cooldown.
func (g *Gate) Check(ctx context.Context, rule domain.Rule, ec domain.EventContext) error {
	if err := g.checkRole(ctx, rule.MinimumRole, ec.UserID()); err != nil {
		return err
	}
	if !g.cooldowns.IsElapsed(rule.ID, rule.Cooldown()) {
		return cooldown.ErrOnCooldown{
			RuleID:    rule.ID,
			Remaining: g.cooldowns.Remaining(rule.ID, rule.Cooldown()),
		}
	}
	return nil
}

func (g *Gate) checkRole(ctx context.Context, role domain.MinimumRole, userID string) error {
	switch role {
	case domain.RoleNone, "":
		return nil
	case domain.RoleVIP, domain.RoleMod:
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}

	if userID == "" {
		return ErrUserRequired
	}

	if g.isBroadcaster(ctx, userID) {
		return nil
	}

	var mods, vips []domain.UserRef
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		mods, err = g.roles.GetModerators(gctx)
		if err != nil {
			return &domain.DirectoryLookupError{Role: RoleModerator, Err: err}
		}
		return nil
	})
	if role == domain.RoleVIP {
		group.Go(func() error {
			var err error
			vips, err = g.roles.GetVIPs(gctx)
			if err != nil {
				return &domain.DirectoryLookupError{Role: RoleVIP, Err: err}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	if containsUser(mods, userID) || (role == domain.RoleVIP && containsUser(vips, userID)) {
		return nil
	}
	return ErrRoleRequired
}

func (g *Gate) isBroadcaster(ctx context.Context, userID string) bool {
	broadcaster, err := g.roles.GetBroadcaster(ctx)
	if err != nil {
		logger.FromContext(ctx).Debug(LogMsgBroadcasterUnknown, "error", err)
		return false
	}
	return broadcaster != nil && broadcaster.ID == userID
}

func containsUser(users []domain.UserRef, userID string) bool {
	return slices.ContainsFunc(users, func(u domain.UserRef) bool {
		return u.ID == userID
	})
}

func denialLabel(reason error) string {
	var lookupErr *domain.DirectoryLookupError
	switch {
	case errors.Is(reason, cooldown.ErrOnCooldown{}):
		return metrics.DenialCooldown
	case errors.As(reason, &lookupErr):
		return metrics.DenialDirectoryError
	default:
		return metrics.DenialRole
	}
}
