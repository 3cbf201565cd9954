package domain

import (
	"time"

	"github.com/google/uuid"
)

// TriggerKind identifies a Trigger variant
type TriggerKind string

const (
	TriggerRedeem             TriggerKind = "redeem"
	TriggerBits               TriggerKind = "bits"
	TriggerFollow             TriggerKind = "follow"
	TriggerSubscription       TriggerKind = "subscription"
	TriggerGiftedSubscription TriggerKind = "gifted_subscription"
	TriggerCommand            TriggerKind = "command"
	TriggerTimer              TriggerKind = "timer"
)

// TriggerKinds lists every trigger kind in declaration order
var TriggerKinds = []TriggerKind{
	TriggerRedeem,
	TriggerBits,
	TriggerFollow,
	TriggerSubscription,
	TriggerGiftedSubscription,
	TriggerCommand,
	TriggerTimer,
}

// Trigger is the condition under which a rule becomes a candidate for an event.
// The variant set is closed: only types in this package implement it.
type Trigger interface {
	Kind() TriggerKind
	isTrigger()
}

// RedeemTrigger matches a channel point redemption by reward id
type RedeemTrigger struct {
	RewardID string `json:"reward_id"`
}

// BitsTrigger matches a cheer of at least MinBits bits
type BitsTrigger struct {
	MinBits uint32 `json:"min_bits"`
}

// FollowTrigger matches any follow
type FollowTrigger struct{}

// SubscriptionTrigger matches new subscriptions and re-subscriptions
type SubscriptionTrigger struct{}

// GiftedSubscriptionTrigger matches gifted subscription batches
type GiftedSubscriptionTrigger struct{}

// CommandTrigger matches chat messages whose first word is Text
type CommandTrigger struct {
	Text string `json:"text"`
}

// TimerTrigger fires every IntervalSeconds aligned to wall-clock boundaries
type TimerTrigger struct {
	IntervalSeconds uint64 `json:"interval_seconds"`
}

// MaxTimerIntervalSeconds caps timer intervals at one year
const MaxTimerIntervalSeconds uint64 = 365 * 24 * 60 * 60

func (RedeemTrigger) Kind() TriggerKind             { return TriggerRedeem }
func (BitsTrigger) Kind() TriggerKind               { return TriggerBits }
func (FollowTrigger) Kind() TriggerKind             { return TriggerFollow }
func (SubscriptionTrigger) Kind() TriggerKind       { return TriggerSubscription }
func (GiftedSubscriptionTrigger) Kind() TriggerKind { return TriggerGiftedSubscription }
func (CommandTrigger) Kind() TriggerKind            { return TriggerCommand }
func (TimerTrigger) Kind() TriggerKind              { return TriggerTimer }

func (RedeemTrigger) isTrigger()             {}
func (BitsTrigger) isTrigger()               {}
func (FollowTrigger) isTrigger()             {}
func (SubscriptionTrigger) isTrigger()       {}
func (GiftedSubscriptionTrigger) isTrigger() {}
func (CommandTrigger) isTrigger()            {}
func (TimerTrigger) isTrigger()              {}

// MinimumRole is the least privileged chat role allowed to fire a rule
type MinimumRole string

const (
	RoleNone MinimumRole = "none"
	RoleVIP  MinimumRole = "vip"
	RoleMod  MinimumRole = "mod"
)

// Valid reports whether r is one of the known roles
func (r MinimumRole) Valid() bool {
	switch r {
	case RoleNone, RoleVIP, RoleMod:
		return true
	}
	return false
}

// Rule is a configured trigger/outcome pair with its gating policy
type Rule struct {
	ID             uuid.UUID
	Name           string
	Enabled        bool
	Trigger        Trigger
	Outcome        Outcome
	MinimumRole    MinimumRole
	CooldownMs     uint32
	OutcomeDelayMs uint32
	Order          int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Cooldown returns the configured cooldown as a duration
func (r Rule) Cooldown() time.Duration {
	return time.Duration(r.CooldownMs) * time.Millisecond
}

// OutcomeDelay returns the configured pre-outcome delay as a duration
func (r Rule) OutcomeDelay() time.Duration {
	return time.Duration(r.OutcomeDelayMs) * time.Millisecond
}

// Validate checks that the rule carries a usable trigger, outcome and role
func (r Rule) Validate() error {
	if r.Trigger == nil {
		return ErrInvalidTrigger
	}
	if r.Outcome == nil {
		return ErrInvalidOutcome
	}
	if !r.MinimumRole.Valid() {
		return ErrInvalidRole
	}
	switch t := r.Trigger.(type) {
	case TimerTrigger:
		if t.IntervalSeconds == 0 || t.IntervalSeconds > MaxTimerIntervalSeconds {
			return ErrInvalidTrigger
		}
	case CommandTrigger:
		if len(t.Text) == 0 {
			return ErrInvalidTrigger
		}
	case RedeemTrigger:
		if len(t.RewardID) == 0 {
			return ErrInvalidTrigger
		}
	}
	if o, ok := r.Outcome.(ThrowableOutcome); ok {
		if len(o.ItemIDs) == 0 {
			return ErrInvalidOutcome
		}
		if o.UseInputAmount && o.InputScaling.Min > o.InputScaling.Max {
			return ErrInvalidOutcome
		}
	}
	return nil
}

// OrderUpdate sets the display position of one rule
type OrderUpdate struct {
	ID    uuid.UUID `json:"id" validate:"required"`
	Order int       `json:"order" validate:"min=0"`
}
