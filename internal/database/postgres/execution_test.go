package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

func TestExecutionRepository(t *testing.T) {
	pool := requirePool(t)
	rules := NewRuleRepository(pool)
	repo := NewExecutionRepository(pool)
	ctx := context.Background()

	rule := newTestRule("exec", domain.FollowTrigger{}, 0)
	require.NoError(t, rules.Create(ctx, rule))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := range 5 {
		e := &domain.Execution{
			RuleID:    rule.ID,
			InputKind: domain.EventFollow,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Metadata:  map[string]any{"outcome": "trigger_hotkey"},
		}
		if i%2 == 0 {
			e.User = &domain.UserRef{ID: "42", Login: "viewer", DisplayName: "Viewer"}
		}
		require.NoError(t, repo.Record(ctx, e))
		ids = append(ids, e.ID)
	}

	all, err := repo.ListForRule(ctx, rule.ID, domain.ExecutionQuery{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, ids[4], all[0].ID, "newest first")
	require.NotNil(t, all[0].User)
	assert.Equal(t, "viewer", all[0].User.Login)
	assert.Nil(t, all[1].User)
	assert.Equal(t, "trigger_hotkey", all[0].Metadata["outcome"])

	start := base.Add(time.Minute)
	end := base.Add(4 * time.Minute)
	window, err := repo.ListForRule(ctx, rule.ID, domain.ExecutionQuery{Start: &start, End: &end})
	require.NoError(t, err)
	assert.Len(t, window, 3)

	page, err := repo.ListForRule(ctx, rule.ID, domain.ExecutionQuery{Offset: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[3], page[0].ID)

	n, err := repo.DeleteMany(ctx, []uuid.UUID{ids[0], ids[1], uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Deleting the rule cascades to its history
	require.NoError(t, rules.Delete(ctx, rule.ID))
	rest, err := repo.ListForRule(ctx, rule.ID, domain.ExecutionQuery{})
	require.NoError(t, err)
	assert.Empty(t, rest)
}

func TestExecutionRepository_RecordDefaultsCreatedAt(t *testing.T) {
	pool := requirePool(t)
	rules := NewRuleRepository(pool)
	repo := NewExecutionRepository(pool)
	ctx := context.Background()

	rule := newTestRule("now", domain.FollowTrigger{}, 0)
	require.NoError(t, rules.Create(ctx, rule))

	e := &domain.Execution{RuleID: rule.ID, InputKind: domain.EventNone}
	require.NoError(t, repo.Record(ctx, e))
	assert.WithinDuration(t, time.Now(), e.CreatedAt, time.Minute)
}
