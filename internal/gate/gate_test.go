package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ThrowBot_Go/internal/cooldown"
	"github.com/osse101/ThrowBot_Go/internal/domain"
)

type MockRoleDirectory struct {
	mock.Mock
}

func (m *MockRoleDirectory) GetModerators(ctx context.Context) ([]domain.UserRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserRef), args.Error(1)
}

func (m *MockRoleDirectory) GetVIPs(ctx context.Context) ([]domain.UserRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserRef), args.Error(1)
}

func (m *MockRoleDirectory) GetBroadcaster(ctx context.Context) (*domain.UserRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserRef), args.Error(1)
}

var (
	broadcaster = domain.UserRef{ID: "1", Login: "caster"}
	moderator   = domain.UserRef{ID: "2", Login: "mod"}
	vip         = domain.UserRef{ID: "3", Login: "vip"}
	viewer      = domain.UserRef{ID: "4", Login: "viewer"}
)

func contextFor(u domain.UserRef) domain.EventContext {
	return domain.EventContext{User: &u, Input: domain.FollowInput{}}
}

func ruleWithRole(role domain.MinimumRole) domain.Rule {
	return domain.Rule{
		ID:          uuid.New(),
		Enabled:     true,
		Trigger:     domain.FollowTrigger{},
		Outcome:     domain.TriggerHotkeyOutcome{HotkeyID: "wave"},
		MinimumRole: role,
	}
}

func standardDirectory() *MockRoleDirectory {
	roles := new(MockRoleDirectory)
	roles.On("GetBroadcaster", mock.Anything).Return(&broadcaster, nil).Maybe()
	roles.On("GetModerators", mock.Anything).Return([]domain.UserRef{moderator}, nil).Maybe()
	roles.On("GetVIPs", mock.Anything).Return([]domain.UserRef{vip}, nil).Maybe()
	return roles
}

func TestGate_RoleMatrix(t *testing.T) {
	tests := []struct {
		name  string
		role  domain.MinimumRole
		user  domain.UserRef
		admit bool
	}{
		{"none admits viewer", domain.RoleNone, viewer, true},
		{"vip admits vip", domain.RoleVIP, vip, true},
		{"vip admits moderator", domain.RoleVIP, moderator, true},
		{"vip denies viewer", domain.RoleVIP, viewer, false},
		{"vip admits broadcaster", domain.RoleVIP, broadcaster, true},
		{"mod admits moderator", domain.RoleMod, moderator, true},
		{"mod denies vip", domain.RoleMod, vip, false},
		{"mod admits broadcaster", domain.RoleMod, broadcaster, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(cooldown.NewState(), standardDirectory())
			assert.Equal(t, tt.admit, g.Admit(context.Background(), ruleWithRole(tt.role), contextFor(tt.user)))
		})
	}
}

func TestGate_NoneNeverQueriesDirectory(t *testing.T) {
	roles := new(MockRoleDirectory)
	g := New(cooldown.NewState(), roles)

	assert.True(t, g.Admit(context.Background(), ruleWithRole(domain.RoleNone), domain.EmptyContext()))
	roles.AssertNotCalled(t, "GetModerators", mock.Anything)
	roles.AssertNotCalled(t, "GetBroadcaster", mock.Anything)
}

func TestGate_RoleRequiresUser(t *testing.T) {
	roles := new(MockRoleDirectory)
	g := New(cooldown.NewState(), roles)

	err := g.Check(context.Background(), ruleWithRole(domain.RoleVIP), domain.EmptyContext())
	assert.ErrorIs(t, err, ErrUserRequired)
	roles.AssertNotCalled(t, "GetVIPs", mock.Anything)
}

func TestGate_BroadcasterBypassesEmptyLists(t *testing.T) {
	roles := new(MockRoleDirectory)
	roles.On("GetBroadcaster", mock.Anything).Return(&broadcaster, nil)
	g := New(cooldown.NewState(), roles)

	assert.True(t, g.Admit(context.Background(), ruleWithRole(domain.RoleMod), contextFor(broadcaster)))
	roles.AssertNotCalled(t, "GetModerators", mock.Anything)
}

func TestGate_DirectoryErrorDenies(t *testing.T) {
	roles := new(MockRoleDirectory)
	roles.On("GetBroadcaster", mock.Anything).Return(nil, nil)
	roles.On("GetModerators", mock.Anything).Return([]domain.UserRef{vip}, nil)
	roles.On("GetVIPs", mock.Anything).Return(nil, errors.New("helix unavailable"))
	g := New(cooldown.NewState(), roles)

	err := g.Check(context.Background(), ruleWithRole(domain.RoleVIP), contextFor(vip))

	var lookupErr *domain.DirectoryLookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, RoleVIP, lookupErr.Role)
	assert.False(t, g.Admit(context.Background(), ruleWithRole(domain.RoleVIP), contextFor(vip)))
}

func TestGate_BroadcasterLookupErrorFallsBackToLists(t *testing.T) {
	roles := new(MockRoleDirectory)
	roles.On("GetBroadcaster", mock.Anything).Return(nil, errors.New("no token"))
	roles.On("GetModerators", mock.Anything).Return([]domain.UserRef{moderator}, nil)
	g := New(cooldown.NewState(), roles)

	assert.True(t, g.Admit(context.Background(), ruleWithRole(domain.RoleMod), contextFor(moderator)))
	assert.False(t, g.Admit(context.Background(), ruleWithRole(domain.RoleMod), contextFor(broadcaster)))
}

func TestGate_CooldownAfterRole(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	state := cooldown.NewState(cooldown.WithClock(clock))
	g := New(state, standardDirectory())

	rule := ruleWithRole(domain.RoleNone)
	rule.CooldownMs = 1000
	ec := contextFor(viewer)

	require.True(t, g.Admit(context.Background(), rule, ec))
	state.MarkFired(rule.ID)

	now = now.Add(999 * time.Millisecond)
	err := g.Check(context.Background(), rule, ec)
	assert.ErrorIs(t, err, cooldown.ErrOnCooldown{})

	now = now.Add(2 * time.Millisecond)
	assert.NoError(t, g.Check(context.Background(), rule, ec))
}

func TestGate_RoleDenialWinsOverCooldown(t *testing.T) {
	state := cooldown.NewState()
	g := New(state, standardDirectory())

	rule := ruleWithRole(domain.RoleMod)
	rule.CooldownMs = 60_000
	state.MarkFired(rule.ID)

	err := g.Check(context.Background(), rule, contextFor(viewer))
	assert.ErrorIs(t, err, ErrRoleRequired)
}

func TestGate_UnknownRoleDenied(t *testing.T) {
	g := New(cooldown.NewState(), standardDirectory())

	err := g.Check(context.Background(), ruleWithRole("owner"), contextFor(broadcaster))
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}
