package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalTrigger_FlatTaggedObject(t *testing.T) {
	data, err := MarshalTrigger(BitsTrigger{MinBits: 100})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"bits","min_bits":100}`, string(data))

	data, err = MarshalTrigger(FollowTrigger{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"follow"}`, string(data))
}

func TestUnmarshalTrigger(t *testing.T) {
	trigger, err := UnmarshalTrigger([]byte(`{"type":"timer","interval_seconds":300}`))
	require.NoError(t, err)
	assert.Equal(t, TimerTrigger{IntervalSeconds: 300}, trigger)

	trigger, err = UnmarshalTrigger([]byte(`{"type":"command","text":"!give"}`))
	require.NoError(t, err)
	assert.Equal(t, CommandTrigger{Text: "!give"}, trigger)

	_, err = UnmarshalTrigger([]byte(`{"type":"raid"}`))
	require.ErrorIs(t, err, ErrInvalidTrigger)
	assert.Contains(t, err.Error(), ErrMsgUnknownVariant)

	_, err = UnmarshalTrigger([]byte(`{"min_bits":5}`))
	require.ErrorIs(t, err, ErrInvalidTrigger)
	assert.Contains(t, err.Error(), ErrMsgMissingTypeField)
}

func TestUnmarshalOutcome_ThrowBitsTiers(t *testing.T) {
	icon := uuid.New()
	data := []byte(`{"type":"throw_bits","tier_icons":[null,"` + icon.String() + `",null,null,null],"amount":{"mode":"dynamic","value":25}}`)

	outcome, err := UnmarshalOutcome(data)
	require.NoError(t, err)

	bits, ok := outcome.(ThrowBitsOutcome)
	require.True(t, ok)
	assert.Nil(t, bits.TierIcons[0])
	require.NotNil(t, bits.TierIcons[1])
	assert.Equal(t, icon, *bits.TierIcons[1])
	assert.Equal(t, AmountPolicy{Mode: AmountDynamic, Value: 25}, bits.Amount)
}

func TestUnmarshalOutcome_Barrage(t *testing.T) {
	item := uuid.New()
	data := []byte(`{"type":"throwable","item_ids":["` + item.String() + `"],"amount":3,
		"use_input_amount":true,"input_scaling":{"multiplier":2.5,"min":10,"max":50},
		"barrage":{"amount_per_throw":2,"frequency":150}}`)

	outcome, err := UnmarshalOutcome(data)
	require.NoError(t, err)

	throwable, ok := outcome.(ThrowableOutcome)
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{item}, throwable.ItemIDs)
	assert.True(t, throwable.UseInputAmount)
	assert.Equal(t, InputScaling{Multiplier: 2.5, Min: 10, Max: 50}, throwable.InputScaling)
	require.NotNil(t, throwable.Barrage)
	assert.Equal(t, uint32(150), throwable.Barrage.FrequencyMs)
}

func TestUnmarshalExternalEvent(t *testing.T) {
	ev, err := UnmarshalExternalEvent([]byte(`{"type":"bits","bits":150,"anonymous":true,"message":"cheer150"}`))
	require.NoError(t, err)

	cheer, ok := ev.(CheerBitsEvent)
	require.True(t, ok)
	assert.Nil(t, cheer.User)
	assert.Equal(t, uint32(150), cheer.Input.Bits)
	assert.True(t, cheer.Input.Anonymous)

	ev, err = UnmarshalExternalEvent([]byte(`{"type":"chat","user":{"id":"1","login":"viewer","display_name":"Viewer"},"text":"!give 5"}`))
	require.NoError(t, err)
	chat, ok := ev.(ChatMessageEvent)
	require.True(t, ok)
	assert.Equal(t, "viewer", chat.User.Login)
	assert.Equal(t, "!give 5", chat.Input.Text)

	_, err = UnmarshalExternalEvent([]byte(`{"type":"none"}`))
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestMarshalExternalEvent_EmbedsPayload(t *testing.T) {
	data, err := MarshalExternalEvent(RedeemEvent{
		User:  UserRef{ID: "7", Login: "viewer", DisplayName: "Viewer"},
		Input: RedeemInput{RewardID: "r-1", RewardName: "Throw", Cost: 500},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"redeem","user":{"id":"7","login":"viewer","display_name":"Viewer"},
		"reward_id":"r-1","reward_name":"Throw","cost":500}`, string(data))
}

func TestExternalEvent_FlatRoundTrip(t *testing.T) {
	streak := uint32(3)
	events := []ExternalEvent{
		CheerBitsEvent{Input: BitsInput{Bits: 100, Anonymous: true}},
		GiftedSubscriptionEvent{User: &UserRef{ID: "1"}, Input: GiftedSubscriptionInput{Tier: "1000", Total: 5}},
		ReSubscriptionEvent{User: UserRef{ID: "2"}, Input: ReSubscriptionInput{CumulativeMonths: 9, StreakMonths: &streak}},
		ChatMessageEvent{User: UserRef{ID: "3"}, Input: ChatInput{Text: "!throw", Fragments: []ChatFragment{{Type: "text", Text: "!throw"}}}},
		FollowEvent{User: UserRef{ID: "4"}},
	}

	for _, ev := range events {
		t.Run(string(ev.Kind()), func(t *testing.T) {
			data, err := MarshalExternalEvent(ev)
			require.NoError(t, err)
			assert.NotContains(t, string(data), `"Input"`)

			got, err := UnmarshalExternalEvent(data)
			require.NoError(t, err)
			assert.Equal(t, ev, got)
		})
	}

	data, err := MarshalExternalEvent(CheerBitsEvent{Input: BitsInput{Bits: 1}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"bits","bits":1,"anonymous":false,"message":""}`, string(data))
}

func TestExternalEvent_IsNotInputData(t *testing.T) {
	events := []any{
		RedeemEvent{},
		CheerBitsEvent{},
		FollowEvent{},
		SubscriptionEvent{},
		GiftedSubscriptionEvent{},
		ReSubscriptionEvent{},
		ChatMessageEvent{},
	}

	for _, ev := range events {
		_, isInput := ev.(InputData)
		assert.False(t, isInput, "%T must not be usable as an input payload", ev)
	}
}

func TestEventContextJSON(t *testing.T) {
	var ec EventContext
	require.NoError(t, json.Unmarshal([]byte(`{}`), &ec))
	assert.Nil(t, ec.User)
	assert.Equal(t, NoInput{}, ec.Input)

	require.NoError(t, json.Unmarshal([]byte(`{"user":{"id":"9"},"input":{"type":"resubscription","cumulative_months":12,"duration_months":1,"message":"","tier":"1000"}}`), &ec))
	assert.Equal(t, "9", ec.UserID())
	assert.Equal(t, ReSubscriptionInput{CumulativeMonths: 12, DurationMonths: 1, Tier: "1000"}, ec.Input)

	data, err := json.Marshal(EmptyContext())
	require.NoError(t, err)
	assert.JSONEq(t, `{"input":{"type":"none"}}`, string(data))
}

func TestRuleJSON(t *testing.T) {
	id := uuid.New()
	data := []byte(`{"id":"` + id.String() + `","name":"Follow alert","enabled":true,
		"trigger":{"type":"follow"},"outcome":{"type":"trigger_hotkey","hotkey_id":"wave"},
		"cooldown_ms":1000,"outcome_delay_ms":250}`)

	var rule Rule
	require.NoError(t, json.Unmarshal(data, &rule))
	assert.Equal(t, id, rule.ID)
	assert.Equal(t, FollowTrigger{}, rule.Trigger)
	assert.Equal(t, TriggerHotkeyOutcome{HotkeyID: "wave"}, rule.Outcome)
	assert.Equal(t, RoleNone, rule.MinimumRole, "missing role defaults to none")
	assert.Equal(t, int64(1000), rule.Cooldown().Milliseconds())

	encoded, err := json.Marshal(rule)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"trigger":{"type":"follow"}`)

	err = json.Unmarshal([]byte(`{"trigger":{"type":"follow"},"outcome":{"type":"explode"}}`), &rule)
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}

func TestMarshalEffect(t *testing.T) {
	data, err := MarshalEffect(TriggerHotkeyEffect{HotkeyID: "spin"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"trigger_hotkey","hotkey_id":"spin"}`, string(data))
}
