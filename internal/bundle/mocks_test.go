package bundle

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

type MockRuleRepo struct {
	mock.Mock
}

func (m *MockRuleRepo) rules(args mock.Arguments) ([]domain.Rule, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rule), args.Error(1)
}

func (m *MockRuleRepo) ListEnabled(ctx context.Context) ([]domain.Rule, error) {
	return m.rules(m.Called(ctx))
}

func (m *MockRuleRepo) ListByTriggerKind(ctx context.Context, kind domain.TriggerKind) ([]domain.Rule, error) {
	return m.rules(m.Called(ctx, kind))
}

func (m *MockRuleRepo) List(ctx context.Context) ([]domain.Rule, error) {
	return m.rules(m.Called(ctx))
}

func (m *MockRuleRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Rule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rule), args.Error(1)
}

func (m *MockRuleRepo) Create(ctx context.Context, rule *domain.Rule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *MockRuleRepo) Update(ctx context.Context, rule *domain.Rule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *MockRuleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRuleRepo) UpdateOrder(ctx context.Context, updates []domain.OrderUpdate) error {
	return m.Called(ctx, updates).Error(0)
}

type MockAssetRepo struct {
	mock.Mock
}

func (m *MockAssetRepo) GetItems(ctx context.Context, ids []uuid.UUID) ([]domain.Item, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockAssetRepo) GetSounds(ctx context.Context, ids []uuid.UUID) ([]domain.Sound, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Sound), args.Error(1)
}

func (m *MockAssetRepo) GetSound(ctx context.Context, id uuid.UUID) (*domain.Sound, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sound), args.Error(1)
}

func (m *MockAssetRepo) ListItems(ctx context.Context) ([]domain.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockAssetRepo) ListSounds(ctx context.Context) ([]domain.Sound, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Sound), args.Error(1)
}

func (m *MockAssetRepo) CreateItem(ctx context.Context, item *domain.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockAssetRepo) CreateSound(ctx context.Context, sound *domain.Sound) error {
	return m.Called(ctx, sound).Error(0)
}

func (m *MockAssetRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAssetRepo) DeleteSound(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
