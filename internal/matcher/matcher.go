// Package matcher selects the rules whose trigger is satisfied by an external event.
package matcher

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

// Match filters rules down to the enabled ones whose trigger matches ev and
// returns them together with the event's normalized context. It has no side effects.
func Match(ev domain.ExternalEvent, rules []domain.Rule) ([]domain.Rule, domain.EventContext) {
	ctx := ContextFor(ev)
	if ev == nil {
		return nil, ctx
	}

	command := commandWord(ev)

	var matched []domain.Rule
	for _, rule := range rules {
		if !rule.Enabled || rule.Trigger == nil {
			continue
		}
		if triggerMatches(rule.Trigger, ev, command) {
			matched = append(matched, rule)
		}
	}
	return matched, ctx
}

// ContextFor builds the EventContext carried through gating and resolution.
// Anonymous cheers and gifts produce a context without a user.
func ContextFor(ev domain.ExternalEvent) domain.EventContext {
	switch e := ev.(type) {
	case domain.RedeemEvent:
		return withUser(e.User, e.Input)
	case domain.CheerBitsEvent:
		return domain.EventContext{User: anonymousAware(e.User, e.Input.Anonymous), Input: e.Input}
	case domain.FollowEvent:
		return withUser(e.User, domain.FollowInput{})
	case domain.SubscriptionEvent:
		return withUser(e.User, e.Input)
	case domain.GiftedSubscriptionEvent:
		return domain.EventContext{User: anonymousAware(e.User, e.Input.Anonymous), Input: e.Input}
	case domain.ReSubscriptionEvent:
		return withUser(e.User, e.Input)
	case domain.ChatMessageEvent:
		return withUser(e.User, e.Input)
	default:
		return domain.EmptyContext()
	}
}

func withUser(user domain.UserRef, input domain.InputData) domain.EventContext {
	return domain.EventContext{User: &user, Input: input}
}

func anonymousAware(user *domain.UserRef, anonymous bool) *domain.UserRef {
	if anonymous || user == nil {
		return nil
	}
	u := *user
	return &u
}

func triggerMatches(trigger domain.Trigger, ev domain.ExternalEvent, command string) bool {
	switch t := trigger.(type) {
	case domain.RedeemTrigger:
		e, ok := ev.(domain.RedeemEvent)
		return ok && e.Input.RewardID == t.RewardID
	case domain.BitsTrigger:
		e, ok := ev.(domain.CheerBitsEvent)
		return ok && e.Input.Bits >= t.MinBits
	case domain.FollowTrigger:
		_, ok := ev.(domain.FollowEvent)
		return ok
	case domain.SubscriptionTrigger:
		switch ev.(type) {
		case domain.SubscriptionEvent, domain.ReSubscriptionEvent:
			return true
		}
		return false
	case domain.GiftedSubscriptionTrigger:
		_, ok := ev.(domain.GiftedSubscriptionEvent)
		return ok
	case domain.CommandTrigger:
		return command != "" && NormalizeCommand(t.Text) == command
	case domain.TimerTrigger:
		// Timer rules only fire from the scheduler
		return false
	default:
		return false
	}
}

// commandWord returns the folded first word of a chat message, or "" for any other event
func commandWord(ev domain.ExternalEvent) string {
	chat, ok := ev.(domain.ChatMessageEvent)
	if !ok {
		return ""
	}
	fields := strings.Fields(chat.Input.Text)
	if len(fields) == 0 {
		return ""
	}
	return NormalizeCommand(fields[0])
}

// NormalizeCommand trims and case-folds command text for comparison
func NormalizeCommand(text string) string {
	return cases.Fold().String(strings.TrimSpace(text))
}
