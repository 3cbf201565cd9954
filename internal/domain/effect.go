package domain

// EffectKind identifies an EffectMessage variant
type EffectKind string

const (
	EffectThrowItems    EffectKind = "throw_items"
	EffectTriggerHotkey EffectKind = "trigger_hotkey"
	EffectPlaySound     EffectKind = "play_sound"
)

// EffectMessage is a fully resolved, dispatchable effect. The variant set is closed.
type EffectMessage interface {
	Kind() EffectKind
	isEffect()
}

// ThrowMode selects between a single throw and a barrage
type ThrowMode string

const (
	ThrowAll     ThrowMode = "all"
	ThrowBarrage ThrowMode = "barrage"
)

// ThrowConfig carries the resolved amount and, for barrages, the pacing
type ThrowConfig struct {
	Mode           ThrowMode `json:"mode"`
	Amount         uint32    `json:"amount"`
	AmountPerThrow uint32    `json:"amount_per_throw,omitempty"`
	FrequencyMs    uint32    `json:"frequency,omitempty"`
}

type ThrowItemsEffect struct {
	Items  ItemBundle  `json:"items"`
	Config ThrowConfig `json:"config"`
}

type TriggerHotkeyEffect struct {
	HotkeyID string `json:"hotkey_id"`
}

type PlaySoundEffect struct {
	Sound Sound `json:"sound"`
}

func (ThrowItemsEffect) Kind() EffectKind    { return EffectThrowItems }
func (TriggerHotkeyEffect) Kind() EffectKind { return EffectTriggerHotkey }
func (PlaySoundEffect) Kind() EffectKind     { return EffectPlaySound }

func (ThrowItemsEffect) isEffect()    {}
func (TriggerHotkeyEffect) isEffect() {}
func (PlaySoundEffect) isEffect()     {}
