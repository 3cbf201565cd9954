package streamerbot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/metrics"
)

// Client manages the WebSocket connection to Streamer.bot and turns its
// Twitch events into ExternalEvents
type Client struct {
	url      string
	password string
	conn     *websocket.Conn
	mu       sync.RWMutex
	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	// Connection state
	connected bool
	dormant   bool // Set to true after too many consecutive failures

	// Used to trigger reconnection from dormant mode
	wakeup chan struct{}

	events chan domain.ExternalEvent
}

// Request represents a Streamer.bot WebSocket request
type Request struct {
	Request        string              `json:"request"`
	ID             string              `json:"id"`
	Events         map[string][]string `json:"events,omitempty"`
	Authentication string              `json:"authentication,omitempty"`
}

// Response represents a Streamer.bot WebSocket response
type Response struct {
	Status string `json:"status"`
	ID     string `json:"id"`
	Error  string `json:"error,omitempty"`
}

type authentication struct {
	Challenge string `json:"challenge"`
	Salt      string `json:"salt"`
}

// Hello is the first message Streamer.bot sends. Depending on the version
// the challenge sits at the top level or under info.
type Hello struct {
	Authentication *authentication `json:"authentication,omitempty"`
	Info           struct {
		Authentication *authentication `json:"authentication,omitempty"`
	} `json:"info"`
}

func (h Hello) challenge() *authentication {
	if h.Authentication != nil && h.Authentication.Challenge != "" {
		return h.Authentication
	}
	if h.Info.Authentication != nil && h.Info.Authentication.Challenge != "" {
		return h.Info.Authentication
	}
	return nil
}

// NewClient creates a new Streamer.bot WebSocket client. Normalized events are
// published on a channel of capacity buffer.
func NewClient(url, password string, buffer int) *Client {
	if url == "" {
		url = DefaultURL
	}
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	return &Client{
		url:      url,
		password: password,
		shutdown: make(chan struct{}),
		wakeup:   make(chan struct{}, 1), // Buffered to avoid blocking
		events:   make(chan domain.ExternalEvent, buffer),
	}
}

// Events returns the ordered stream of normalized events. It is closed by Stop.
func (c *Client) Events() <-chan domain.ExternalEvent {
	return c.events
}

// Start begins the WebSocket connection with auto-reconnect
func (c *Client) Start(ctx context.Context) {
	c.wg.Add(1)
	go c.connectLoop(ctx)
}

// Stop shuts down the client and closes the event channel
func (c *Client) Stop() {
	c.stopOnce.Do(func() {
		close(c.shutdown)

		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.mu.Unlock()

		c.wg.Wait()
		close(c.events)
		c.setConnected(false)
	})
}

// IsConnected returns whether the client is currently connected
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// IsDormant reports whether reconnection has been suspended
func (c *Client) IsDormant() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dormant
}

// Wake asks a dormant client to retry immediately. It reports whether the
// client was dormant.
func (c *Client) Wake() bool {
	if !c.IsDormant() {
		return false
	}
	select {
	case c.wakeup <- struct{}{}:
	default:
		// Already waking up
	}
	return true
}

func (c *Client) connectLoop(ctx context.Context) {
	defer c.wg.Done()

	backoff := DefaultReconnectDelay
	consecutiveFailures := 0

	for {
		select {
		case <-c.shutdown:
			slog.Info(LogMsgClientStopped)
			return
		case <-ctx.Done():
			slog.Info(LogMsgClientStopped)
			return
		default:
		}

		connected, err := c.connect(ctx)
		c.setConnected(false)

		if connected {
			// The session was established, so the next failure starts a fresh backoff
			if consecutiveFailures > 0 {
				slog.Info(LogMsgConnectionRestore, "after_failures", consecutiveFailures)
			}
			backoff = DefaultReconnectDelay
			consecutiveFailures = 0
		}

		consecutiveFailures++

		if consecutiveFailures >= MaxConsecutiveFailures {
			if stop := c.handleDormantMode(ctx, &consecutiveFailures, &backoff); stop {
				return
			}
			continue
		}

		// Only log first few failures and then periodically to avoid log spam
		if consecutiveFailures <= 3 || consecutiveFailures%100 == 0 {
			slog.Warn(LogMsgReconnecting,
				"error", err,
				"backoff", backoff,
				"consecutive_failures", consecutiveFailures)
		}

		select {
		case <-time.After(backoff):
			backoff = min(time.Duration(float64(backoff)*ReconnectMultiplier), MaxReconnectDelay)
		case <-c.shutdown:
			return
		case <-ctx.Done():
			return
		}
	}
}

// handleDormantMode waits for a wakeup signal or the dormant retry interval
func (c *Client) handleDormantMode(ctx context.Context, consecutiveFailures *int, backoff *time.Duration) bool {
	c.mu.Lock()
	c.dormant = true
	c.mu.Unlock()

	slog.Warn(LogMsgGivingUp,
		"consecutive_failures", *consecutiveFailures,
		"max_allowed", MaxConsecutiveFailures,
		"retry_in", DormantRetryInterval)

	select {
	case <-c.wakeup:
	case <-time.After(DormantRetryInterval):
	case <-c.shutdown:
		return true
	case <-ctx.Done():
		return true
	}

	slog.Info(LogMsgWakingUp)
	c.mu.Lock()
	c.dormant = false
	c.mu.Unlock()
	*backoff = DefaultReconnectDelay
	*consecutiveFailures = 0
	return false
}

// connect dials, authenticates, subscribes and then runs the read loop until
// the connection ends. connected reports whether the handshake completed.
func (c *Client) connect(ctx context.Context) (connected bool, err error) {
	slog.Info(LogMsgConnecting, "url", c.url)

	dialer := websocket.Dialer{
		ReadBufferSize:   ReadBufferSize,
		WriteBufferSize:  WriteBufferSize,
		HandshakeTimeout: WriteTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		if resp != nil {
			return false, fmt.Errorf("failed to connect: %w (status: %s, code: %d)", err, resp.Status, resp.StatusCode)
		}
		return false, fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()
	stopClosing := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stopClosing()

	c.mu.Lock()
	select {
	case <-c.shutdown:
		c.mu.Unlock()
		return false, nil
	default:
	}
	c.conn = conn
	c.mu.Unlock()

	// A read timeout leaves the connection unusable, so a missing Hello fails the attempt
	_ = conn.SetReadDeadline(time.Now().Add(HelloTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return false, fmt.Errorf("no hello from streamer.bot: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	var hello Hello
	if err := json.Unmarshal(msg, &hello); err == nil {
		if auth := hello.challenge(); auth != nil {
			slog.Info(LogMsgAuthRequired)
			if err := c.authenticate(conn, auth); err != nil {
				return false, fmt.Errorf("authentication failed: %w", err)
			}
			slog.Info(LogMsgAuthSuccess)
		}
	}

	if err := c.subscribe(conn); err != nil {
		return false, err
	}

	c.setConnected(true)
	slog.Info(LogMsgConnected, "url", c.url)

	return true, c.readLoop(ctx, conn)
}

func (c *Client) authenticate(conn *websocket.Conn, auth *authentication) error {
	if c.password == "" {
		return fmt.Errorf("password required but not configured")
	}

	req := Request{
		Request:        RequestAuthenticate,
		ID:             uuid.New().String(),
		Authentication: GenerateAuthHash(c.password, auth.Salt, auth.Challenge),
	}
	if err := writeJSON(conn, req); err != nil {
		return fmt.Errorf("failed to send auth request: %w", err)
	}

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("failed to read auth response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(msg, &resp); err != nil {
		return fmt.Errorf("failed to parse auth response: %w", err)
	}
	if resp.Status != StatusOK {
		return fmt.Errorf("auth rejected: %s", resp.Error)
	}
	return nil
}

func (c *Client) subscribe(conn *websocket.Conn) error {
	req := Request{
		Request: RequestSubscribe,
		ID:      uuid.New().String(),
		Events:  map[string][]string{SourceTwitch: SubscribedEvents},
	}
	if err := writeJSON(conn, req); err != nil {
		return fmt.Errorf("failed to send subscribe request: %w", err)
	}
	slog.Info(LogMsgSubscribed, "source", SourceTwitch, "events", SubscribedEvents)
	return nil
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		select {
		case <-c.shutdown:
			return nil
		case <-ctx.Done():
			return nil
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.shutdown:
				return nil
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			slog.Warn(LogMsgReadError, "error", err)
			return err
		}

		var frame Frame
		if err := json.Unmarshal(msg, &frame); err != nil {
			continue // Ignore unparseable messages
		}

		if frame.Event == nil {
			if frame.Status == StatusError {
				slog.Warn(LogMsgRequestRejected, "id", frame.ID, "error", frame.Error)
			}
			continue
		}

		ev, ok := c.normalize(frame)
		if !ok {
			continue
		}

		// Blocks when the consumer falls behind so that nothing is dropped
		select {
		case c.events <- ev:
		case <-c.shutdown:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *Client) normalize(frame Frame) (domain.ExternalEvent, bool) {
	if frame.Event.Source != SourceTwitch {
		slog.Debug(LogMsgEventDropped, "source", frame.Event.Source, "type", frame.Event.Type)
		return nil, false
	}

	ev, err := Normalize(frame.Event.Type, frame.Data)
	switch {
	case err == nil:
		return ev, true
	case errors.Is(err, ErrUnsupportedEvent):
		slog.Debug(LogMsgEventDropped, "source", frame.Event.Source, "type", frame.Event.Type)
	default:
		slog.Warn(LogMsgEventMalformed, "type", frame.Event.Type, "error", err)
	}
	return nil, false
}

func writeJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	return conn.WriteJSON(v)
}

func (c *Client) setConnected(connected bool) {
	c.mu.Lock()
	c.connected = connected
	if !connected {
		c.conn = nil
	}
	c.mu.Unlock()

	if connected {
		metrics.StreamerbotConnected.Set(1)
	} else {
		metrics.StreamerbotConnected.Set(0)
	}
}
