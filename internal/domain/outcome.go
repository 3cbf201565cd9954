package domain

import "github.com/google/uuid"

// OutcomeKind identifies an Outcome variant
type OutcomeKind string

const (
	OutcomeThrowBits     OutcomeKind = "throw_bits"
	OutcomeThrowable     OutcomeKind = "throwable"
	OutcomeTriggerHotkey OutcomeKind = "trigger_hotkey"
	OutcomePlaySound     OutcomeKind = "play_sound"
)

// Outcome is the effect a rule produces once admitted. The variant set is closed.
type Outcome interface {
	Kind() OutcomeKind
	isOutcome()
}

// BitsTierCount is the number of bits tiers: 1, 100, 1000, 5000 and 10000 bits
const BitsTierCount = 5

// AmountMode selects how a bits throw computes its amount
type AmountMode string

const (
	AmountFixed   AmountMode = "fixed"
	AmountDynamic AmountMode = "dynamic"
)

// AmountPolicy is Fixed(Value) or Dynamic(max=Value)
type AmountPolicy struct {
	Mode  AmountMode `json:"mode"`
	Value uint32     `json:"value"`
}

// ThrowBitsOutcome throws the icon configured for the cheer's bits tier
type ThrowBitsOutcome struct {
	TierIcons [BitsTierCount]*uuid.UUID `json:"tier_icons"`
	Amount    AmountPolicy              `json:"amount"`
}

// InputScaling converts a derived input amount into a throw amount
type InputScaling struct {
	Multiplier float64 `json:"multiplier"`
	Min        uint32  `json:"min"`
	Max        uint32  `json:"max"`
}

// BarrageConfig turns a throw into a timed barrage
type BarrageConfig struct {
	AmountPerThrow uint32 `json:"amount_per_throw"`
	FrequencyMs    uint32 `json:"frequency"`
}

// ThrowableOutcome throws a bundle of items, either all at once or as a barrage.
// Amount is the fixed amount, and the fallback when the event carries no usable input.
type ThrowableOutcome struct {
	ItemIDs        []uuid.UUID    `json:"item_ids"`
	Amount         uint32         `json:"amount"`
	UseInputAmount bool           `json:"use_input_amount"`
	InputScaling   InputScaling   `json:"input_scaling"`
	Barrage        *BarrageConfig `json:"barrage,omitempty"`
}

// TriggerHotkeyOutcome asks the overlay to trigger a model hotkey
type TriggerHotkeyOutcome struct {
	HotkeyID string `json:"hotkey_id"`
}

// PlaySoundOutcome plays a stored sound
type PlaySoundOutcome struct {
	SoundID uuid.UUID `json:"sound_id"`
}

func (ThrowBitsOutcome) Kind() OutcomeKind     { return OutcomeThrowBits }
func (ThrowableOutcome) Kind() OutcomeKind     { return OutcomeThrowable }
func (TriggerHotkeyOutcome) Kind() OutcomeKind { return OutcomeTriggerHotkey }
func (PlaySoundOutcome) Kind() OutcomeKind     { return OutcomePlaySound }

func (ThrowBitsOutcome) isOutcome()     {}
func (ThrowableOutcome) isOutcome()     {}
func (TriggerHotkeyOutcome) isOutcome() {}
func (PlaySoundOutcome) isOutcome()     {}
