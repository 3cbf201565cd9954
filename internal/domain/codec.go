package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Tagged variants are encoded as flat JSON objects with a "type" discriminator,
// e.g. {"type":"bits","min_bits":100}.

type typeTag struct {
	Type string `json:"type"`
}

func marshalTagged(kind string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("%s: %T does not encode as an object", ErrMsgUnknownVariant, v)
	}
	tag, err := json.Marshal(kind)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(body)+len(tag)+10)
	out = append(out, `{"type":`...)
	out = append(out, tag...)
	if string(body) != "{}" {
		out = append(out, ',')
	}
	out = append(out, body[1:]...)
	return out, nil
}

func readTag(data []byte) (string, error) {
	var tag typeTag
	if err := json.Unmarshal(data, &tag); err != nil {
		return "", err
	}
	if tag.Type == "" {
		return "", fmt.Errorf("%s", ErrMsgMissingTypeField)
	}
	return tag.Type, nil
}

func decodeVariant[T any, I any](data []byte) (I, error) {
	var v T
	var zero I
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, err
	}
	return any(v).(I), nil
}

// MarshalTrigger encodes a trigger with its type tag
func MarshalTrigger(t Trigger) ([]byte, error) {
	if t == nil {
		return nil, ErrInvalidTrigger
	}
	return marshalTagged(string(t.Kind()), t)
}

// UnmarshalTrigger decodes a tagged trigger
func UnmarshalTrigger(data []byte) (Trigger, error) {
	kind, err := readTag(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTrigger, err)
	}

	switch TriggerKind(kind) {
	case TriggerRedeem:
		return decodeVariant[RedeemTrigger, Trigger](data)
	case TriggerBits:
		return decodeVariant[BitsTrigger, Trigger](data)
	case TriggerFollow:
		return FollowTrigger{}, nil
	case TriggerSubscription:
		return SubscriptionTrigger{}, nil
	case TriggerGiftedSubscription:
		return GiftedSubscriptionTrigger{}, nil
	case TriggerCommand:
		return decodeVariant[CommandTrigger, Trigger](data)
	case TriggerTimer:
		return decodeVariant[TimerTrigger, Trigger](data)
	default:
		return nil, fmt.Errorf("%w: %s %q", ErrInvalidTrigger, ErrMsgUnknownVariant, kind)
	}
}

// MarshalOutcome encodes an outcome with its type tag
func MarshalOutcome(o Outcome) ([]byte, error) {
	if o == nil {
		return nil, ErrInvalidOutcome
	}
	return marshalTagged(string(o.Kind()), o)
}

// UnmarshalOutcome decodes a tagged outcome
func UnmarshalOutcome(data []byte) (Outcome, error) {
	kind, err := readTag(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutcome, err)
	}

	switch OutcomeKind(kind) {
	case OutcomeThrowBits:
		return decodeVariant[ThrowBitsOutcome, Outcome](data)
	case OutcomeThrowable:
		return decodeVariant[ThrowableOutcome, Outcome](data)
	case OutcomeTriggerHotkey:
		return decodeVariant[TriggerHotkeyOutcome, Outcome](data)
	case OutcomePlaySound:
		return decodeVariant[PlaySoundOutcome, Outcome](data)
	default:
		return nil, fmt.Errorf("%w: %s %q", ErrInvalidOutcome, ErrMsgUnknownVariant, kind)
	}
}

// MarshalInput encodes an event input payload with its type tag. A nil payload encodes as "none".
func MarshalInput(in InputData) ([]byte, error) {
	if in == nil {
		in = NoInput{}
	}
	return marshalTagged(string(in.Kind()), in)
}

// UnmarshalInput decodes a tagged event input payload
func UnmarshalInput(data []byte) (InputData, error) {
	kind, err := readTag(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	switch EventKind(kind) {
	case EventNone:
		return NoInput{}, nil
	case EventRedeem:
		return decodeVariant[RedeemInput, InputData](data)
	case EventBits:
		return decodeVariant[BitsInput, InputData](data)
	case EventFollow:
		return FollowInput{}, nil
	case EventSubscription:
		return decodeVariant[SubscriptionInput, InputData](data)
	case EventGiftedSubscription:
		return decodeVariant[GiftedSubscriptionInput, InputData](data)
	case EventReSubscription:
		return decodeVariant[ReSubscriptionInput, InputData](data)
	case EventChat:
		return decodeVariant[ChatInput, InputData](data)
	default:
		return nil, fmt.Errorf("%w: %s %q", ErrInvalidInput, ErrMsgUnknownVariant, kind)
	}
}

// MarshalExternalEvent encodes an external event with its type tag
func MarshalExternalEvent(ev ExternalEvent) ([]byte, error) {
	if ev == nil {
		return nil, ErrInvalidEvent
	}
	return marshalTagged(string(ev.Kind()), ev)
}

// UnmarshalExternalEvent decodes a tagged external event
func UnmarshalExternalEvent(data []byte) (ExternalEvent, error) {
	kind, err := readTag(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	switch EventKind(kind) {
	case EventRedeem:
		return decodeVariant[RedeemEvent, ExternalEvent](data)
	case EventBits:
		return decodeVariant[CheerBitsEvent, ExternalEvent](data)
	case EventFollow:
		return decodeVariant[FollowEvent, ExternalEvent](data)
	case EventSubscription:
		return decodeVariant[SubscriptionEvent, ExternalEvent](data)
	case EventGiftedSubscription:
		return decodeVariant[GiftedSubscriptionEvent, ExternalEvent](data)
	case EventReSubscription:
		return decodeVariant[ReSubscriptionEvent, ExternalEvent](data)
	case EventChat:
		return decodeVariant[ChatMessageEvent, ExternalEvent](data)
	default:
		return nil, fmt.Errorf("%w: %s %q", ErrInvalidEvent, ErrMsgUnknownVariant, kind)
	}
}

// withUser encodes input as a flat object with the user placed first
func withUser(user *UserRef, input any) ([]byte, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return body, nil
	}
	u, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(body)+len(u)+10)
	out = append(out, `{"user":`...)
	out = append(out, u...)
	if string(body) != "{}" {
		out = append(out, ',')
	}
	out = append(out, body[1:]...)
	return out, nil
}

// splitUser decodes the flat object into input and returns its user, if any
func splitUser(data []byte, input any) (*UserRef, error) {
	var head struct {
		User *UserRef `json:"user"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, input); err != nil {
		return nil, err
	}
	return head.User, nil
}

func (e RedeemEvent) MarshalJSON() ([]byte, error) { return withUser(&e.User, e.Input) }

func (e *RedeemEvent) UnmarshalJSON(data []byte) error {
	user, err := splitUser(data, &e.Input)
	if user != nil {
		e.User = *user
	}
	return err
}

func (e CheerBitsEvent) MarshalJSON() ([]byte, error) { return withUser(e.User, e.Input) }

func (e *CheerBitsEvent) UnmarshalJSON(data []byte) error {
	user, err := splitUser(data, &e.Input)
	e.User = user
	return err
}

func (e SubscriptionEvent) MarshalJSON() ([]byte, error) { return withUser(&e.User, e.Input) }

func (e *SubscriptionEvent) UnmarshalJSON(data []byte) error {
	user, err := splitUser(data, &e.Input)
	if user != nil {
		e.User = *user
	}
	return err
}

func (e GiftedSubscriptionEvent) MarshalJSON() ([]byte, error) { return withUser(e.User, e.Input) }

func (e *GiftedSubscriptionEvent) UnmarshalJSON(data []byte) error {
	user, err := splitUser(data, &e.Input)
	e.User = user
	return err
}

func (e ReSubscriptionEvent) MarshalJSON() ([]byte, error) { return withUser(&e.User, e.Input) }

func (e *ReSubscriptionEvent) UnmarshalJSON(data []byte) error {
	user, err := splitUser(data, &e.Input)
	if user != nil {
		e.User = *user
	}
	return err
}

func (e ChatMessageEvent) MarshalJSON() ([]byte, error) { return withUser(&e.User, e.Input) }

func (e *ChatMessageEvent) UnmarshalJSON(data []byte) error {
	user, err := splitUser(data, &e.Input)
	if user != nil {
		e.User = *user
	}
	return err
}

// MarshalEffect encodes an effect message with its type tag
func MarshalEffect(e EffectMessage) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("%s: nil effect", ErrMsgUnknownVariant)
	}
	return marshalTagged(string(e.Kind()), e)
}

type eventContextJSON struct {
	User  *UserRef        `json:"user,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

func (c EventContext) MarshalJSON() ([]byte, error) {
	input, err := MarshalInput(c.Input)
	if err != nil {
		return nil, err
	}
	return json.Marshal(eventContextJSON{User: c.User, Input: input})
}

func (c *EventContext) UnmarshalJSON(data []byte) error {
	var raw eventContextJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.User = raw.User
	c.Input = NoInput{}
	if len(raw.Input) > 0 && string(raw.Input) != "null" {
		input, err := UnmarshalInput(raw.Input)
		if err != nil {
			return err
		}
		c.Input = input
	}
	return nil
}

type ruleJSON struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Enabled        bool            `json:"enabled"`
	Trigger        json.RawMessage `json:"trigger"`
	Outcome        json.RawMessage `json:"outcome"`
	MinimumRole    MinimumRole     `json:"minimum_role"`
	CooldownMs     uint32          `json:"cooldown_ms"`
	OutcomeDelayMs uint32          `json:"outcome_delay_ms"`
	Order          int             `json:"order"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (r Rule) MarshalJSON() ([]byte, error) {
	trigger, err := MarshalTrigger(r.Trigger)
	if err != nil {
		return nil, err
	}
	outcome, err := MarshalOutcome(r.Outcome)
	if err != nil {
		return nil, err
	}
	return json.Marshal(ruleJSON{
		ID:             r.ID,
		Name:           r.Name,
		Enabled:        r.Enabled,
		Trigger:        trigger,
		Outcome:        outcome,
		MinimumRole:    r.MinimumRole,
		CooldownMs:     r.CooldownMs,
		OutcomeDelayMs: r.OutcomeDelayMs,
		Order:          r.Order,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	})
}

func (r *Rule) UnmarshalJSON(data []byte) error {
	var raw ruleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	trigger, err := UnmarshalTrigger(raw.Trigger)
	if err != nil {
		return err
	}
	outcome, err := UnmarshalOutcome(raw.Outcome)
	if err != nil {
		return err
	}

	role := raw.MinimumRole
	if role == "" {
		role = RoleNone
	}

	*r = Rule{
		ID:             raw.ID,
		Name:           raw.Name,
		Enabled:        raw.Enabled,
		Trigger:        trigger,
		Outcome:        outcome,
		MinimumRole:    role,
		CooldownMs:     raw.CooldownMs,
		OutcomeDelayMs: raw.OutcomeDelayMs,
		Order:          raw.Order,
		CreatedAt:      raw.CreatedAt,
		UpdatedAt:      raw.UpdatedAt,
	}
	return nil
}
