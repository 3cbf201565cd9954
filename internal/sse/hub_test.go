package sse

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

func TestEmit_NoSubscribers(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	err := hub.Emit(domain.TriggerHotkeyEffect{HotkeyID: "hk"})

	var emitErr *domain.EmissionError
	require.ErrorAs(t, err, &emitErr)
	assert.Equal(t, domain.EffectTriggerHotkey, emitErr.Effect)
	assert.ErrorIs(t, err, domain.ErrNoSubscribers)
}

func TestEmit_NoClientWantsKind(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	sounds := hub.Register([]string{string(domain.EffectPlaySound)})

	err := hub.Emit(domain.TriggerHotkeyEffect{HotkeyID: "hk"})

	var emitErr *domain.EmissionError
	require.ErrorAs(t, err, &emitErr)
	assert.Equal(t, domain.EffectTriggerHotkey, emitErr.Effect)
	assert.ErrorIs(t, err, domain.ErrNoSubscribers)
	assert.Empty(t, sounds.EventChannel)

	require.NoError(t, hub.Emit(domain.PlaySoundEffect{Sound: domain.Sound{Name: "boop"}}))
}

func TestEmit_DeliversTaggedPayload(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	client := hub.Register(nil)
	require.NoError(t, hub.Emit(domain.TriggerHotkeyEffect{HotkeyID: "hk-1"}))

	select {
	case ev := <-client.EventChannel:
		assert.Equal(t, string(domain.EffectTriggerHotkey), ev.Type)
		assert.NotEmpty(t, ev.ID)
		assert.JSONEq(t, `{"type":"trigger_hotkey","hotkey_id":"hk-1"}`, string(ev.Payload))
	case <-time.After(time.Second):
		t.Fatal("effect was not delivered")
	}
}

func TestEmit_RespectsClientFilter(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	sounds := hub.Register([]string{string(domain.EffectPlaySound)})
	all := hub.Register(nil)

	require.NoError(t, hub.Emit(domain.TriggerHotkeyEffect{HotkeyID: "hk"}))
	require.NoError(t, hub.Emit(domain.PlaySoundEffect{Sound: domain.Sound{Name: "boop"}}))

	// Events are fanned out in order, so the unfiltered client sees both
	for _, want := range []domain.EffectKind{domain.EffectTriggerHotkey, domain.EffectPlaySound} {
		select {
		case ev := <-all.EventChannel:
			assert.Equal(t, string(want), ev.Type)
		case <-time.After(time.Second):
			t.Fatalf("missing %s", want)
		}
	}

	select {
	case ev := <-sounds.EventChannel:
		assert.Equal(t, string(domain.EffectPlaySound), ev.Type)
	case <-time.After(time.Second):
		t.Fatal("filtered client missed play_sound")
	}
	assert.Empty(t, sounds.EventChannel)
}

func TestEmit_BufferFull(t *testing.T) {
	// Not started, so nothing drains the broadcast channel
	hub := NewHub()
	hub.Register(nil)

	for i := 0; i < BroadcastBufferSize; i++ {
		require.NoError(t, hub.Emit(domain.TriggerHotkeyEffect{HotkeyID: "hk"}))
	}

	err := hub.Emit(domain.TriggerHotkeyEffect{HotkeyID: "hk"})
	assert.ErrorIs(t, err, domain.ErrBroadcastFull)
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	a := hub.Register(nil)
	b := hub.Register([]string{"play_sound"})
	assert.Equal(t, 2, hub.ClientCount())

	hub.Unregister(a.ID)
	assert.Equal(t, 1, hub.ClientCount())
	_, open := <-a.EventChannel
	assert.False(t, open)

	hub.Unregister(a.ID)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Stop()
	assert.Equal(t, 0, hub.ClientCount())
	_, open = <-b.EventChannel
	assert.False(t, open)
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "abc", Type: "play_sound", Timestamp: 1, Payload: json.RawMessage(`{"x":1}`)})
	require.NoError(t, err)

	s := string(msg)
	assert.True(t, strings.HasPrefix(s, "id: abc\nevent: play_sound\ndata: {"))
	assert.True(t, strings.HasSuffix(s, "\n\n"))
	assert.Contains(t, s, `"payload":{"x":1}`)
}

func TestHandler_StreamsEffects(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	srv := httptest.NewServer(Handler(hub))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?types=trigger_hotkey", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEventType := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "event: ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "event: "))
			}
		}
	}

	// The connected frame is written after registration
	assert.Equal(t, EventTypeConnected, readEventType())

	require.NoError(t, hub.Emit(domain.TriggerHotkeyEffect{HotkeyID: "hk"}))
	assert.Equal(t, string(domain.EffectTriggerHotkey), readEventType())
}
