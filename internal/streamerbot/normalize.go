package streamerbot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

// ErrUnsupportedEvent is returned for event types with no ExternalEvent variant
var ErrUnsupportedEvent = errors.New("unsupported streamer.bot event")

// Frame is any message received from Streamer.bot. Event frames carry Event
// and Data; request responses carry ID and Status.
type Frame struct {
	Event     *EventInfo      `json:"event,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timeStamp,omitempty"`

	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// EventInfo identifies an event frame
type EventInfo struct {
	Source string `json:"source"`
	Type   string `json:"type"`
}

// flexString accepts both JSON strings and numbers (user ids arrive as either)
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type twitchUser struct {
	ID    flexString `json:"id"`
	Login string     `json:"login"`
	Name  string     `json:"name"`
}

func (u twitchUser) ref() domain.UserRef {
	return domain.UserRef{ID: string(u.ID), Login: u.Login, DisplayName: u.Name}
}

func optionalRef(u *twitchUser, anonymous bool) *domain.UserRef {
	if u == nil || anonymous || u.ID == "" {
		return nil
	}
	ref := u.ref()
	return &ref
}

type cheerData struct {
	User      *twitchUser `json:"user"`
	Anonymous bool        `json:"anonymous"`
	Bits      uint32      `json:"bits"`
	Message   string      `json:"message"`
}

type followData struct {
	User twitchUser `json:"user"`
}

type subData struct {
	User   twitchUser `json:"user"`
	Tier   string     `json:"tier"`
	IsGift bool       `json:"isGift"`
}

type reSubData struct {
	User             twitchUser `json:"user"`
	CumulativeMonths uint32     `json:"cumulativeMonths"`
	DurationMonths   uint32     `json:"durationMonths"`
	StreakMonths     *uint32    `json:"streakMonths"`
	Tier             string     `json:"tier"`
	Text             string     `json:"text"`
}

type giftSubData struct {
	User            *twitchUser `json:"user"`
	Anonymous       bool        `json:"anonymous"`
	Tier            string      `json:"tier"`
	CumulativeTotal *uint32     `json:"cumulativeTotal"`
	Total           uint32      `json:"total"`
}

type redemptionData struct {
	User   twitchUser `json:"user"`
	Reward struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Cost  uint32 `json:"cost"`
	} `json:"reward"`
	UserInput string `json:"userInput"`
}

type chatData struct {
	User    twitchUser `json:"user"`
	Message struct {
		Text      string `json:"text"`
		Bits      uint32 `json:"bits"`
		Fragments []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"fragments"`
	} `json:"message"`
}

// Normalize converts the data of a Twitch event frame into an ExternalEvent
func Normalize(eventType string, data json.RawMessage) (domain.ExternalEvent, error) {
	switch eventType {
	case EventTypeCheer:
		var d cheerData
		if err := decode(eventType, data, &d); err != nil {
			return nil, err
		}
		return domain.CheerBitsEvent{
			User:  optionalRef(d.User, d.Anonymous),
			Input: domain.BitsInput{Bits: d.Bits, Anonymous: d.Anonymous, Message: d.Message},
		}, nil

	case EventTypeFollow:
		var d followData
		if err := decode(eventType, data, &d); err != nil {
			return nil, err
		}
		return domain.FollowEvent{User: d.User.ref()}, nil

	case EventTypeSub:
		var d subData
		if err := decode(eventType, data, &d); err != nil {
			return nil, err
		}
		return domain.SubscriptionEvent{
			User:  d.User.ref(),
			Input: domain.SubscriptionInput{Tier: d.Tier, IsGift: d.IsGift},
		}, nil

	case EventTypeReSub:
		var d reSubData
		if err := decode(eventType, data, &d); err != nil {
			return nil, err
		}
		return domain.ReSubscriptionEvent{
			User:  d.User.ref(),
			Input: domain.ReSubscriptionInput{
				CumulativeMonths: d.CumulativeMonths,
				DurationMonths:   d.DurationMonths,
				Message:          d.Text,
				StreakMonths:     d.StreakMonths,
				Tier:             d.Tier,
			},
		}, nil

	case EventTypeGiftSub:
		var d giftSubData
		if err := decode(eventType, data, &d); err != nil {
			return nil, err
		}
		total := d.Total
		if total == 0 {
			total = 1
		}
		return domain.GiftedSubscriptionEvent{
			User:  optionalRef(d.User, d.Anonymous),
			Input: domain.GiftedSubscriptionInput{
				Tier:            d.Tier,
				CumulativeTotal: d.CumulativeTotal,
				Anonymous:       d.Anonymous,
				Total:           total,
			},
		}, nil

	case EventTypeRewardRedemption:
		var d redemptionData
		if err := decode(eventType, data, &d); err != nil {
			return nil, err
		}
		return domain.RedeemEvent{
			User:  d.User.ref(),
			Input: domain.RedeemInput{
				RewardID:   d.Reward.ID,
				RewardName: d.Reward.Title,
				Cost:       d.Reward.Cost,
				UserInput:  d.UserInput,
			},
		}, nil

	case EventTypeChatMessage:
		var d chatData
		if err := decode(eventType, data, &d); err != nil {
			return nil, err
		}
		input := domain.ChatInput{Text: d.Message.Text}
		for _, f := range d.Message.Fragments {
			input.Fragments = append(input.Fragments, domain.ChatFragment{Type: f.Type, Text: f.Text})
		}
		if d.Message.Bits > 0 {
			bits := d.Message.Bits
			input.CheerBits = &bits
		}
		return domain.ChatMessageEvent{User: d.User.ref(), Input: input}, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEvent, eventType)
	}
}

func decode(eventType string, data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: %s event without data", domain.ErrInvalidEvent, eventType)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidEvent, eventType, err)
	}
	return nil
}
