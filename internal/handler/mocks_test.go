package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

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

type MockTimerReloader struct {
	mock.Mock
}

func (m *MockTimerReloader) Update(ctx context.Context, rules []domain.Rule) error {
	return m.Called(ctx, rules).Error(0)
}

type MockRuleTester struct {
	mock.Mock
}

func (m *MockRuleTester) TestRule(ctx context.Context, rule domain.Rule, ec domain.EventContext) (domain.EffectMessage, error) {
	args := m.Called(ctx, rule, ec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.EffectMessage), args.Error(1)
}

type MockExecutionRepo struct {
	mock.Mock
}

func (m *MockExecutionRepo) Record(ctx context.Context, execution *domain.Execution) error {
	return m.Called(ctx, execution).Error(0)
}

func (m *MockExecutionRepo) ListForRule(ctx context.Context, ruleID uuid.UUID, q domain.ExecutionQuery) ([]domain.Execution, error) {
	args := m.Called(ctx, ruleID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Execution), args.Error(1)
}

func (m *MockExecutionRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(ctx context.Context, ev domain.ExternalEvent) error {
	return m.Called(ctx, ev).Error(0)
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

type MockRoleManager struct {
	mock.Mock
}

func (m *MockRoleManager) List(ctx context.Context, role domain.ChannelRole) ([]domain.UserRef, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserRef), args.Error(1)
}

func (m *MockRoleManager) Add(ctx context.Context, role domain.ChannelRole, user domain.UserRef) error {
	return m.Called(ctx, role, user).Error(0)
}

func (m *MockRoleManager) Remove(ctx context.Context, role domain.ChannelRole, userID string) error {
	return m.Called(ctx, role, userID).Error(0)
}

// serve routes a single request through a chi router so URL params resolve
func serve(t *testing.T, method, pattern, target string, body any, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
