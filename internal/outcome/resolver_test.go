package outcome

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) GetItems(ctx context.Context, ids []uuid.UUID) ([]domain.Item, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockAssetStore) GetSounds(ctx context.Context, ids []uuid.UUID) ([]domain.Sound, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Sound), args.Error(1)
}

func (m *MockAssetStore) GetSound(ctx context.Context, id uuid.UUID) (*domain.Sound, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sound), args.Error(1)
}

func ptr[T any](v T) *T { return &v }

func bitsContext(bits uint32) domain.EventContext {
	return domain.EventContext{Input: domain.BitsInput{Bits: bits}}
}

func TestBitsTierIndex(t *testing.T) {
	tests := []struct {
		bits uint32
		want int
	}{
		{0, 0}, {1, 0}, {99, 0},
		{100, 1}, {999, 1},
		{1000, 2}, {4999, 2},
		{5000, 3}, {9999, 3},
		{10000, 4}, {250000, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BitsTierIndex(tt.bits), "bits=%d", tt.bits)
	}
}

func TestSelectBitsIcon_WalksDown(t *testing.T) {
	a := uuid.New()
	tiers := [domain.BitsTierCount]*uuid.UUID{nil, &a, nil, nil, nil}

	icon, err := SelectBitsIcon(tiers, 150)
	require.NoError(t, err)
	assert.Equal(t, a, icon)

	icon, err = SelectBitsIcon(tiers, 20000)
	require.NoError(t, err)
	assert.Equal(t, a, icon, "tier 4 falls back to the nearest configured lower tier")

	_, err = SelectBitsIcon(tiers, 50)
	assert.ErrorIs(t, err, domain.ErrNoBitsTier)
}

func TestBitsAmount(t *testing.T) {
	assert.Equal(t, uint32(10), BitsAmount(domain.AmountPolicy{Mode: domain.AmountDynamic, Value: 10}, 150))
	assert.Equal(t, uint32(5), BitsAmount(domain.AmountPolicy{Mode: domain.AmountDynamic, Value: 10}, 5))
	assert.Equal(t, uint32(3), BitsAmount(domain.AmountPolicy{Mode: domain.AmountFixed, Value: 3}, 5000))
}

func TestInputAmount(t *testing.T) {
	streak := uint32(3)
	tests := []struct {
		name   string
		input  domain.InputData
		want   uint32
		wantOK bool
	}{
		{"bits", domain.BitsInput{Bits: 250}, 250, true},
		{"gift total", domain.GiftedSubscriptionInput{Total: 5}, 5, true},
		{"plain subscription", domain.SubscriptionInput{Tier: "1000"}, 1, true},
		{"resubscription months", domain.ReSubscriptionInput{CumulativeMonths: 14, StreakMonths: &streak}, 14, true},
		{"chat cheer", domain.ChatInput{Text: "Cheer40", CheerBits: ptr(uint32(40))}, 40, true},
		{"chat without cheer", domain.ChatInput{Text: "hello"}, 0, false},
		{"chat zero cheer", domain.ChatInput{CheerBits: ptr(uint32(0))}, 0, false},
		{"redeem", domain.RedeemInput{RewardID: "r"}, 0, false},
		{"timer", domain.NoInput{}, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := InputAmount(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScaleAmount(t *testing.T) {
	// floor(37 * 2.5) = 92, clamped into [10, 50]
	assert.Equal(t, uint32(50), ScaleAmount(37, domain.InputScaling{Multiplier: 2.5, Min: 10, Max: 50}))
	assert.Equal(t, uint32(92), ScaleAmount(37, domain.InputScaling{Multiplier: 2.5, Min: 0, Max: 100}))
	assert.Equal(t, uint32(10), ScaleAmount(1, domain.InputScaling{Multiplier: 1, Min: 10, Max: 50}))
	assert.Equal(t, uint32(2), ScaleAmount(5, domain.InputScaling{Multiplier: -1, Min: 2, Max: 50}))
}

func TestThrowableAmount(t *testing.T) {
	scaling := domain.InputScaling{Multiplier: 2, Min: 1, Max: 100}

	fixed := domain.ThrowableOutcome{Amount: 7, InputScaling: scaling}
	assert.Equal(t, uint32(7), ThrowableAmount(fixed, domain.BitsInput{Bits: 30}))

	derived := domain.ThrowableOutcome{Amount: 7, UseInputAmount: true, InputScaling: scaling}
	assert.Equal(t, uint32(60), ThrowableAmount(derived, domain.BitsInput{Bits: 30}))
	assert.Equal(t, uint32(14), ThrowableAmount(derived, domain.NoInput{}), "fallback amount is scaled too")
}

func TestResolve_ThrowBits(t *testing.T) {
	icon := uuid.New()
	sound := uuid.New()
	assets := new(MockAssetStore)
	assets.On("GetItems", mock.Anything, []uuid.UUID{icon}).
		Return([]domain.Item{{ID: icon, Name: "100 bits", ImpactSoundIDs: []uuid.UUID{sound}}}, nil)
	assets.On("GetSounds", mock.Anything, []uuid.UUID{sound}).
		Return([]domain.Sound{{ID: sound, Name: "bonk"}}, nil)

	resolver := NewResolver(assets)
	outcome := domain.ThrowBitsOutcome{
		TierIcons: [domain.BitsTierCount]*uuid.UUID{nil, &icon, nil, nil, nil},
		Amount:    domain.AmountPolicy{Mode: domain.AmountDynamic, Value: 100},
	}

	effect, err := resolver.Resolve(context.Background(), outcome, bitsContext(150))
	require.NoError(t, err)

	throw, ok := effect.(domain.ThrowItemsEffect)
	require.True(t, ok)
	assert.Equal(t, domain.ThrowConfig{Mode: domain.ThrowAll, Amount: 100}, throw.Config)
	require.Len(t, throw.Items.Items, 1)
	assert.Equal(t, icon, throw.Items.Items[0].ID)
	require.Len(t, throw.Items.ImpactSounds, 1)
	assets.AssertExpectations(t)
}

func TestResolve_ThrowBitsFailures(t *testing.T) {
	icon := uuid.New()
	outcome := domain.ThrowBitsOutcome{
		TierIcons: [domain.BitsTierCount]*uuid.UUID{nil, &icon, nil, nil, nil},
		Amount:    domain.AmountPolicy{Mode: domain.AmountFixed, Value: 1},
	}
	resolver := NewResolver(new(MockAssetStore))

	_, err := resolver.Resolve(context.Background(), outcome, bitsContext(50))
	var resErr *domain.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, domain.OutcomeThrowBits, resErr.Outcome)
	assert.ErrorIs(t, err, domain.ErrNoBitsTier)

	_, err = resolver.Resolve(context.Background(), outcome, domain.EmptyContext())
	assert.ErrorIs(t, err, domain.ErrUnexpectedInput)
}

func TestResolve_ThrowableBarrage(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	shared, extra := uuid.New(), uuid.New()

	assets := new(MockAssetStore)
	assets.On("GetItems", mock.Anything, []uuid.UUID{a, b}).Return([]domain.Item{
		{ID: a, ImpactSoundIDs: []uuid.UUID{shared}},
		{ID: b, ImpactSoundIDs: []uuid.UUID{shared, extra}},
	}, nil)
	assets.On("GetSounds", mock.Anything, []uuid.UUID{shared, extra}).
		Return([]domain.Sound{{ID: shared}, {ID: extra}}, nil)

	outcome := domain.ThrowableOutcome{
		ItemIDs:        []uuid.UUID{a, b},
		Amount:         3,
		UseInputAmount: true,
		InputScaling:   domain.InputScaling{Multiplier: 2.5, Min: 10, Max: 50},
		Barrage:        &domain.BarrageConfig{AmountPerThrow: 2, FrequencyMs: 150},
	}
	ec := domain.EventContext{Input: domain.GiftedSubscriptionInput{Total: 37}}

	effect, err := NewResolver(assets).Resolve(context.Background(), outcome, ec)
	require.NoError(t, err)

	throw := effect.(domain.ThrowItemsEffect)
	assert.Equal(t, domain.ThrowConfig{
		Mode:           domain.ThrowBarrage,
		Amount:         50,
		AmountPerThrow: 2,
		FrequencyMs:    150,
	}, throw.Config)
	assert.Len(t, throw.Items.ImpactSounds, 2)
	assets.AssertExpectations(t)
}

func TestResolve_ThrowableMissingItem(t *testing.T) {
	a, missing := uuid.New(), uuid.New()
	assets := new(MockAssetStore)
	assets.On("GetItems", mock.Anything, []uuid.UUID{a, missing}).Return([]domain.Item{{ID: a}}, nil)

	_, err := NewResolver(assets).Resolve(context.Background(), domain.ThrowableOutcome{ItemIDs: []uuid.UUID{a, missing}, Amount: 1}, domain.EmptyContext())

	assert.ErrorIs(t, err, domain.ErrAssetNotFound)
	assets.AssertNotCalled(t, "GetSounds", mock.Anything, mock.Anything)
}

func TestResolve_ItemsWithoutSoundsSkipSoundLookup(t *testing.T) {
	a := uuid.New()
	assets := new(MockAssetStore)
	assets.On("GetItems", mock.Anything, []uuid.UUID{a}).Return([]domain.Item{{ID: a}}, nil)

	effect, err := NewResolver(assets).Resolve(context.Background(), domain.ThrowableOutcome{ItemIDs: []uuid.UUID{a}, Amount: 4}, domain.EmptyContext())
	require.NoError(t, err)

	throw := effect.(domain.ThrowItemsEffect)
	assert.Equal(t, domain.ThrowConfig{Mode: domain.ThrowAll, Amount: 4}, throw.Config)
	assert.Empty(t, throw.Items.ImpactSounds)
}

func TestResolve_TriggerHotkey(t *testing.T) {
	effect, err := NewResolver(new(MockAssetStore)).Resolve(context.Background(), domain.TriggerHotkeyOutcome{HotkeyID: "spin"}, domain.EmptyContext())
	require.NoError(t, err)
	assert.Equal(t, domain.TriggerHotkeyEffect{HotkeyID: "spin"}, effect)
}

func TestResolve_PlaySound(t *testing.T) {
	id := uuid.New()
	assets := new(MockAssetStore)
	assets.On("GetSound", mock.Anything, id).Return(&domain.Sound{ID: id, Name: "airhorn"}, nil)

	effect, err := NewResolver(assets).Resolve(context.Background(), domain.PlaySoundOutcome{SoundID: id}, domain.EmptyContext())
	require.NoError(t, err)
	assert.Equal(t, domain.PlaySoundEffect{Sound: domain.Sound{ID: id, Name: "airhorn"}}, effect)
}

func TestResolve_PlaySoundMissing(t *testing.T) {
	id := uuid.New()
	assets := new(MockAssetStore)
	assets.On("GetSound", mock.Anything, id).Return(nil, errors.New("sound lookup: "+domain.ErrMsgAssetNotFound))

	_, err := NewResolver(assets).Resolve(context.Background(), domain.PlaySoundOutcome{SoundID: id}, domain.EmptyContext())

	var resErr *domain.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, domain.OutcomePlaySound, resErr.Outcome)
}
