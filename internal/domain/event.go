package domain

// EventKind identifies both an ExternalEvent variant and the InputData payload it carries
type EventKind string

const (
	EventNone               EventKind = "none"
	EventRedeem             EventKind = "redeem"
	EventBits               EventKind = "bits"
	EventFollow             EventKind = "follow"
	EventSubscription       EventKind = "subscription"
	EventGiftedSubscription EventKind = "gifted_subscription"
	EventReSubscription     EventKind = "resubscription"
	EventChat               EventKind = "chat"
)

// UserRef identifies a chat user
type UserRef struct {
	ID          string `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// ChatFragment is one piece of a parsed chat message (text, emote, cheermote, mention)
type ChatFragment struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// InputData is the kind-specific payload of an EventContext. The variant set is closed.
type InputData interface {
	Kind() EventKind
	isInputData()
}

// NoInput is the payload of synthetic timer events
type NoInput struct{}

type RedeemInput struct {
	RewardID   string `json:"reward_id"`
	RewardName string `json:"reward_name"`
	Cost       uint32 `json:"cost"`
	UserInput  string `json:"user_input,omitempty"`
}

type BitsInput struct {
	Bits      uint32 `json:"bits"`
	Anonymous bool   `json:"anonymous"`
	Message   string `json:"message"`
}

type FollowInput struct{}

type SubscriptionInput struct {
	Tier   string `json:"tier"`
	IsGift bool   `json:"is_gift"`
}

type GiftedSubscriptionInput struct {
	Tier            string  `json:"tier"`
	CumulativeTotal *uint32 `json:"cumulative_total,omitempty"`
	Anonymous       bool    `json:"anonymous"`
	Total           uint32  `json:"total"`
}

type ReSubscriptionInput struct {
	CumulativeMonths uint32  `json:"cumulative_months"`
	DurationMonths   uint32  `json:"duration_months"`
	Message          string  `json:"message"`
	StreakMonths     *uint32 `json:"streak_months,omitempty"`
	Tier             string  `json:"tier"`
}

type ChatInput struct {
	Text      string         `json:"text"`
	Fragments []ChatFragment `json:"fragments,omitempty"`
	CheerBits *uint32        `json:"cheer_bits,omitempty"`
}

func (NoInput) Kind() EventKind                 { return EventNone }
func (RedeemInput) Kind() EventKind             { return EventRedeem }
func (BitsInput) Kind() EventKind               { return EventBits }
func (FollowInput) Kind() EventKind             { return EventFollow }
func (SubscriptionInput) Kind() EventKind       { return EventSubscription }
func (GiftedSubscriptionInput) Kind() EventKind { return EventGiftedSubscription }
func (ReSubscriptionInput) Kind() EventKind     { return EventReSubscription }
func (ChatInput) Kind() EventKind               { return EventChat }

func (NoInput) isInputData()                 {}
func (RedeemInput) isInputData()             {}
func (BitsInput) isInputData()               {}
func (FollowInput) isInputData()             {}
func (SubscriptionInput) isInputData()       {}
func (GiftedSubscriptionInput) isInputData() {}
func (ReSubscriptionInput) isInputData()     {}
func (ChatInput) isInputData()               {}

// ExternalEvent is one normalized event from the live platform feed. The variant set is closed.
type ExternalEvent interface {
	Kind() EventKind
	isExternalEvent()
}

// Event variants carry their payload in a named Input field and encode it
// flat next to "user".

type RedeemEvent struct {
	User  UserRef
	Input RedeemInput
}

// CheerBitsEvent has no user when the cheer is anonymous
type CheerBitsEvent struct {
	User  *UserRef
	Input BitsInput
}

type FollowEvent struct {
	User UserRef `json:"user"`
}

type SubscriptionEvent struct {
	User  UserRef
	Input SubscriptionInput
}

// GiftedSubscriptionEvent has no user when the gifter is anonymous
type GiftedSubscriptionEvent struct {
	User  *UserRef
	Input GiftedSubscriptionInput
}

type ReSubscriptionEvent struct {
	User  UserRef
	Input ReSubscriptionInput
}

type ChatMessageEvent struct {
	User  UserRef
	Input ChatInput
}

func (RedeemEvent) Kind() EventKind             { return EventRedeem }
func (CheerBitsEvent) Kind() EventKind          { return EventBits }
func (FollowEvent) Kind() EventKind             { return EventFollow }
func (SubscriptionEvent) Kind() EventKind       { return EventSubscription }
func (GiftedSubscriptionEvent) Kind() EventKind { return EventGiftedSubscription }
func (ReSubscriptionEvent) Kind() EventKind     { return EventReSubscription }
func (ChatMessageEvent) Kind() EventKind        { return EventChat }

func (RedeemEvent) isExternalEvent()             {}
func (CheerBitsEvent) isExternalEvent()          {}
func (FollowEvent) isExternalEvent()             {}
func (SubscriptionEvent) isExternalEvent()       {}
func (GiftedSubscriptionEvent) isExternalEvent() {}
func (ReSubscriptionEvent) isExternalEvent()     {}
func (ChatMessageEvent) isExternalEvent()        {}

// EventContext is the normalized per-event data used for gating and amount derivation
type EventContext struct {
	User  *UserRef
	Input InputData
}

// EmptyContext is the context of a synthetic timer event
func EmptyContext() EventContext {
	return EventContext{Input: NoInput{}}
}

// UserID returns the triggering user's id, or "" when there is none
func (c EventContext) UserID() string {
	if c.User == nil {
		return ""
	}
	return c.User.ID
}
