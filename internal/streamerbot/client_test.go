package streamerbot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

// fakeStreamerbot runs one scripted WebSocket session per connection. Sessions
// run on server goroutines, so they only use assert.
func fakeStreamerbot(t *testing.T, session func(conn *websocket.Conn)) string {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		session(conn)
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func readRequest(t *testing.T, conn *websocket.Conn) Request {
	t.Helper()
	var req Request
	assert.NoError(t, conn.ReadJSON(&req))
	return req
}

func nextEvent(t *testing.T, c *Client) domain.ExternalEvent {
	t.Helper()
	select {
	case ev := <-c.Events():
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func TestGenerateAuthHash(t *testing.T) {
	assert.Equal(t,
		"HbemcTRAK8GnBZpkRzKZdmk94xa5VYtjm6/uKbA1epI=",
		GenerateAuthHash("hunter2", "c2FsdA==", "Y2hhbGxlbmdl"))
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("", "secret", 0)

	assert.Equal(t, DefaultURL, client.url)
	assert.Equal(t, DefaultEventBuffer, cap(client.events))
	assert.Equal(t, 1, cap(client.wakeup))
	assert.False(t, client.IsConnected())
	assert.False(t, client.IsDormant())
}

func TestClient_SubscribesAndNormalizesEvents(t *testing.T) {
	subscribed := make(chan Request, 1)
	url := fakeStreamerbot(t, func(conn *websocket.Conn) {
		assert.NoError(t, conn.WriteJSON(map[string]any{"request": "Hello", "info": map[string]any{"name": "test"}}))
		subscribed <- readRequest(t, conn)

		frames := []string{
			`{"event":{"source":"General","type":"Custom"},"data":{}}`,
			`{"event":{"source":"Twitch","type":"Raid"},"data":{}}`,
			`{"event":{"source":"Twitch","type":"Follow"},"data":{"user":{"id":123,"login":"fan","name":"Fan"}}}`,
			`{"event":{"source":"Twitch","type":"Cheer"},"data":{"user":{"id":"9","login":"x","name":"X"},"anonymous":true,"bits":250,"message":"cheer250"}}`,
		}
		for _, f := range frames {
			assert.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(f)))
		}
		// Keep the session open until the client hangs up
		_, _, _ = conn.ReadMessage()
	})

	client := NewClient(url, "", 10)
	client.Start(context.Background())
	defer client.Stop()

	select {
	case req := <-subscribed:
		assert.Equal(t, RequestSubscribe, req.Request)
		assert.Equal(t, SubscribedEvents, req.Events[SourceTwitch])
	case <-time.After(3 * time.Second):
		t.Fatal("client did not subscribe")
	}

	assert.Equal(t, domain.FollowEvent{User: domain.UserRef{ID: "123", Login: "fan", DisplayName: "Fan"}}, nextEvent(t, client))

	cheer, ok := nextEvent(t, client).(domain.CheerBitsEvent)
	require.True(t, ok)
	assert.Nil(t, cheer.User)
	assert.Equal(t, uint32(250), cheer.Input.Bits)
	assert.True(t, cheer.Input.Anonymous)

	assert.Eventually(t, client.IsConnected, time.Second, 10*time.Millisecond)
}

func TestClient_Authenticates(t *testing.T) {
	const password = "hunter2"
	authed := make(chan bool, 1)

	url := fakeStreamerbot(t, func(conn *websocket.Conn) {
		assert.NoError(t, conn.WriteJSON(map[string]any{
			"request":        "Hello",
			"authentication": map[string]string{"challenge": "Y2hhbGxlbmdl", "salt": "c2FsdA=="},
		}))

		req := readRequest(t, conn)
		ok := req.Request == RequestAuthenticate &&
			req.Authentication == GenerateAuthHash(password, "c2FsdA==", "Y2hhbGxlbmdl")
		authed <- ok
		if !ok {
			_ = conn.WriteJSON(Response{Status: StatusError, ID: req.ID, Error: "bad auth"})
			return
		}
		assert.NoError(t, conn.WriteJSON(Response{Status: StatusOK, ID: req.ID}))

		readRequest(t, conn) // Subscribe
		assert.NoError(t, conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"event":{"source":"Twitch","type":"RewardRedemption"},"data":{"user":{"id":"1","login":"a","name":"A"},"reward":{"id":"r1","title":"Throw","cost":500},"userInput":"hi"}}`)))
		_, _, _ = conn.ReadMessage()
	})

	client := NewClient(url, password, 10)
	client.Start(context.Background())
	defer client.Stop()

	select {
	case ok := <-authed:
		require.True(t, ok, "unexpected auth request")
	case <-time.After(3 * time.Second):
		t.Fatal("client did not authenticate")
	}

	redeem, ok := nextEvent(t, client).(domain.RedeemEvent)
	require.True(t, ok)
	assert.Equal(t, "r1", redeem.Input.RewardID)
	assert.Equal(t, uint32(500), redeem.Input.Cost)
	assert.Equal(t, "hi", redeem.Input.UserInput)
}

func TestClient_StopClosesEvents(t *testing.T) {
	client := NewClient("ws://127.0.0.1:1/unreachable", "", 1)
	client.Start(context.Background())
	client.Stop()

	_, open := <-client.Events()
	assert.False(t, open)
	assert.False(t, client.IsConnected())

	// Safe to call twice
	client.Stop()
}

func TestClient_Wake(t *testing.T) {
	client := NewClient("", "", 1)
	assert.False(t, client.Wake(), "awake client has nothing to wake")

	client.mu.Lock()
	client.dormant = true
	client.mu.Unlock()

	assert.True(t, client.Wake())
	assert.True(t, client.Wake(), "second wake must not block")

	select {
	case <-client.wakeup:
	default:
		t.Fatal("expected a wakeup signal")
	}
	select {
	case <-client.wakeup:
		t.Fatal("wakeup signals should coalesce")
	default:
	}
}

func TestHello_Challenge(t *testing.T) {
	var top, nested, none Hello
	require.NoError(t, json.Unmarshal([]byte(`{"authentication":{"challenge":"c","salt":"s"}}`), &top))
	require.NoError(t, json.Unmarshal([]byte(`{"info":{"authentication":{"challenge":"c2","salt":"s2"}}}`), &nested))
	require.NoError(t, json.Unmarshal([]byte(`{"info":{"name":"sb"}}`), &none))

	assert.Equal(t, "c", top.challenge().Challenge)
	assert.Equal(t, "s2", nested.challenge().Salt)
	assert.Nil(t, none.challenge())
}

func TestBackoffConstants(t *testing.T) {
	assert.Equal(t, 10, MaxConsecutiveFailures)
	assert.Equal(t, 1*time.Second, DefaultReconnectDelay)
	assert.Equal(t, 30*time.Second, MaxReconnectDelay)
	assert.Equal(t, 2.0, ReconnectMultiplier)
}
