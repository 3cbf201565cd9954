// Package outcome turns a rule's configured outcome and an event context into a dispatchable effect.
package outcome

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

// AssetStore resolves items and sounds referenced by outcomes
type AssetStore interface {
	// GetItems returns the items that exist among ids, each with its impact sound ids
	GetItems(ctx context.Context, ids []uuid.UUID) ([]domain.Item, error)
	GetSounds(ctx context.Context, ids []uuid.UUID) ([]domain.Sound, error)
	// GetSound returns an error wrapping domain.ErrAssetNotFound when the sound does not exist
	GetSound(ctx context.Context, id uuid.UUID) (*domain.Sound, error)
}

// Resolver resolves outcomes against an AssetStore. It keeps no state between calls.
type Resolver struct {
	assets AssetStore
}

// NewResolver creates a resolver
func NewResolver(assets AssetStore) *Resolver {
	return &Resolver{assets: assets}
}

// Resolve converts outcome plus ec into an effect. Failures are *domain.ResolutionError.
func (r *Resolver) Resolve(ctx context.Context, outcome domain.Outcome, ec domain.EventContext) (domain.EffectMessage, error) {
	var (
		effect domain.EffectMessage
		err    error
	)

	switch o := outcome.(type) {
	case domain.ThrowBitsOutcome:
		effect, err = r.resolveThrowBits(ctx, o, ec)
	case domain.ThrowableOutcome:
		effect, err = r.resolveThrowable(ctx, o, ec)
	case domain.TriggerHotkeyOutcome:
		effect = domain.TriggerHotkeyEffect{HotkeyID: o.HotkeyID}
	case domain.PlaySoundOutcome:
		effect, err = r.resolvePlaySound(ctx, o)
	default:
		return nil, &domain.ResolutionError{Err: fmt.Errorf("%w: %T", domain.ErrInvalidOutcome, outcome)}
	}

	if err != nil {
		return nil, &domain.ResolutionError{Outcome: outcome.Kind(), Err: err}
	}
	return effect, nil
}

func (r *Resolver) resolveThrowBits(ctx context.Context, o domain.ThrowBitsOutcome, ec domain.EventContext) (domain.EffectMessage, error) {
	bits, ok := BitsFromInput(ec.Input)
	if !ok {
		return nil, fmt.Errorf("%w: throw bits requires a bit count, got %s", domain.ErrUnexpectedInput, inputKind(ec.Input))
	}

	icon, err := SelectBitsIcon(o.TierIcons, bits)
	if err != nil {
		return nil, err
	}

	bundle, err := r.ResolveItems(ctx, []uuid.UUID{icon})
	if err != nil {
		return nil, err
	}

	return domain.ThrowItemsEffect{
		Items: bundle,
		Config: domain.ThrowConfig{
			Mode:   domain.ThrowAll,
			Amount: BitsAmount(o.Amount, bits),
		},
	}, nil
}

func (r *Resolver) resolveThrowable(ctx context.Context, o domain.ThrowableOutcome, ec domain.EventContext) (domain.EffectMessage, error) {
	bundle, err := r.ResolveItems(ctx, o.ItemIDs)
	if err != nil {
		return nil, err
	}

	config := domain.ThrowConfig{
		Mode:   domain.ThrowAll,
		Amount: ThrowableAmount(o, ec.Input),
	}
	if o.Barrage != nil {
		config.Mode = domain.ThrowBarrage
		config.AmountPerThrow = o.Barrage.AmountPerThrow
		config.FrequencyMs = o.Barrage.FrequencyMs
	}

	return domain.ThrowItemsEffect{Items: bundle, Config: config}, nil
}

func (r *Resolver) resolvePlaySound(ctx context.Context, o domain.PlaySoundOutcome) (domain.EffectMessage, error) {
	sound, err := r.assets.GetSound(ctx, o.SoundID)
	if err != nil {
		return nil, fmt.Errorf("sound %s: %w", o.SoundID, err)
	}
	if sound == nil {
		return nil, fmt.Errorf("sound %s: %w", o.SoundID, domain.ErrAssetNotFound)
	}
	return domain.PlaySoundEffect{Sound: *sound}, nil
}

// ResolveItems loads the items for ids along with their impact sounds, deduplicated across the bundle.
// Every requested item must exist.
func (r *Resolver) ResolveItems(ctx context.Context, ids []uuid.UUID) (domain.ItemBundle, error) {
	items, err := r.assets.GetItems(ctx, ids)
	if err != nil {
		return domain.ItemBundle{}, fmt.Errorf("load items: %w", err)
	}

	found := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		found[item.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return domain.ItemBundle{}, fmt.Errorf("item %s: %w", id, domain.ErrAssetNotFound)
		}
	}

	seen := make(map[uuid.UUID]struct{})
	var soundIDs []uuid.UUID
	for _, item := range items {
		for _, id := range item.ImpactSoundIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			soundIDs = append(soundIDs, id)
		}
	}

	sounds := []domain.Sound{}
	if len(soundIDs) > 0 {
		sounds, err = r.assets.GetSounds(ctx, soundIDs)
		if err != nil {
			return domain.ItemBundle{}, fmt.Errorf("load impact sounds: %w", err)
		}
	}

	return domain.ItemBundle{Items: items, ImpactSounds: sounds}, nil
}

// BitsTierIndex maps a bit count onto the tier breakpoints 1, 100, 1000, 5000 and 10000.
// Counts below the first breakpoint use the lowest tier.
func BitsTierIndex(bits uint32) int {
	switch {
	case bits < 100:
		return 0
	case bits < 1000:
		return 1
	case bits < 5000:
		return 2
	case bits < 10000:
		return 3
	default:
		return 4
	}
}

// SelectBitsIcon picks the icon for the bit count's tier, walking down to lower tiers
// until a configured one is found.
func SelectBitsIcon(tiers [domain.BitsTierCount]*uuid.UUID, bits uint32) (uuid.UUID, error) {
	start := BitsTierIndex(bits)
	for i := start; i >= 0; i-- {
		if tiers[i] != nil {
			return *tiers[i], nil
		}
	}
	return uuid.Nil, fmt.Errorf("%w %d", domain.ErrNoBitsTier, start)
}

// BitsAmount applies the amount policy: min(bits, max) when dynamic, the fixed value otherwise
func BitsAmount(policy domain.AmountPolicy, bits uint32) uint32 {
	if policy.Mode == domain.AmountDynamic {
		return min(bits, policy.Value)
	}
	return policy.Value
}

// BitsFromInput extracts a bit count from a bits payload or a chat cheer
func BitsFromInput(input domain.InputData) (uint32, bool) {
	switch in := input.(type) {
	case domain.BitsInput:
		return in.Bits, true
	case domain.ChatInput:
		if in.CheerBits != nil {
			return *in.CheerBits, true
		}
	}
	return 0, false
}

// InputAmount derives the base throw amount carried by an event payload.
// The second result is false when the payload carries no usable amount.
func InputAmount(input domain.InputData) (uint32, bool) {
	switch in := input.(type) {
	case domain.BitsInput:
		return in.Bits, true
	case domain.GiftedSubscriptionInput:
		return in.Total, true
	case domain.SubscriptionInput:
		return 1, true
	case domain.ReSubscriptionInput:
		return in.CumulativeMonths, true
	case domain.ChatInput:
		if in.CheerBits != nil && *in.CheerBits > 0 {
			return *in.CheerBits, true
		}
	}
	return 0, false
}

// ScaleAmount applies floor(base * multiplier) and clamps the result into [min, max]
func ScaleAmount(base uint32, scaling domain.InputScaling) uint32 {
	scaled := math.Floor(float64(base) * scaling.Multiplier)
	if math.IsNaN(scaled) {
		scaled = 0
	}
	clamped := math.Max(float64(scaling.Min), math.Min(float64(scaling.Max), scaled))
	return uint32(clamped)
}

// ThrowableAmount is the configured amount, or the scaled input amount when the outcome uses input.
// Payloads without an amount scale the configured amount instead.
func ThrowableAmount(o domain.ThrowableOutcome, input domain.InputData) uint32 {
	if !o.UseInputAmount {
		return o.Amount
	}
	base, ok := InputAmount(input)
	if !ok {
		base = o.Amount
	}
	return ScaleAmount(base, o.InputScaling)
}

func inputKind(input domain.InputData) domain.EventKind {
	if input == nil {
		return domain.EventNone
	}
	return input.Kind()
}
