package streamerbot

import "time"

// Default configuration values
const (
	// DefaultURL is the default WebSocket URL for Streamer.bot
	DefaultURL = "ws://127.0.0.1:8080/"

	// DefaultEventBuffer is the capacity of the normalized event channel
	DefaultEventBuffer = 100

	// DefaultReconnectDelay is the initial delay before attempting to reconnect
	DefaultReconnectDelay = 1 * time.Second

	// MaxReconnectDelay is the maximum delay between reconnection attempts
	MaxReconnectDelay = 30 * time.Second

	// ReconnectMultiplier is the multiplier for exponential backoff
	ReconnectMultiplier = 2.0

	// MaxConsecutiveFailures is the number of failed attempts before going dormant
	MaxConsecutiveFailures = 10

	// DormantRetryInterval is how long a dormant client waits before trying again on its own
	DormantRetryInterval = 5 * time.Minute

	// HelloTimeout bounds the wait for the initial Hello message
	HelloTimeout = 2 * time.Second

	// WriteTimeout is the timeout for writing messages
	WriteTimeout = 10 * time.Second

	// ReadBufferSize is the WebSocket read buffer size
	ReadBufferSize = 4096

	// WriteBufferSize is the WebSocket write buffer size
	WriteBufferSize = 4096
)

// Request types for Streamer.bot WebSocket API
const (
	RequestAuthenticate = "Authenticate"
	RequestSubscribe    = "Subscribe"
)

// SourceTwitch is the only event source consumed
const SourceTwitch = "Twitch"

// Twitch event types subscribed to
const (
	EventTypeCheer            = "Cheer"
	EventTypeFollow           = "Follow"
	EventTypeSub              = "Sub"
	EventTypeReSub            = "ReSub"
	EventTypeGiftSub          = "GiftSub"
	EventTypeRewardRedemption = "RewardRedemption"
	EventTypeChatMessage      = "ChatMessage"
)

// SubscribedEvents lists the Twitch event types requested on connect
var SubscribedEvents = []string{
	EventTypeCheer,
	EventTypeFollow,
	EventTypeSub,
	EventTypeReSub,
	EventTypeGiftSub,
	EventTypeRewardRedemption,
	EventTypeChatMessage,
}

// Response status values
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Log messages
const (
	LogMsgConnecting        = "Connecting to Streamer.bot WebSocket"
	LogMsgConnected         = "Connected to Streamer.bot WebSocket"
	LogMsgConnectionRestore = "Streamer.bot connection restored"
	LogMsgReconnecting      = "Reconnecting to Streamer.bot WebSocket"
	LogMsgAuthRequired      = "Streamer.bot requires authentication"
	LogMsgAuthSuccess       = "Streamer.bot authentication successful"
	LogMsgSubscribed        = "Subscribed to Streamer.bot events"
	LogMsgRequestRejected   = "Streamer.bot rejected request"
	LogMsgReadError         = "Error reading from Streamer.bot WebSocket"
	LogMsgClientStopped     = "Streamer.bot client stopped"
	LogMsgEventDropped      = "Ignoring Streamer.bot event"
	LogMsgEventMalformed    = "Malformed Streamer.bot event"
	LogMsgGivingUp          = "Streamer.bot connection failed too many times, entering dormant mode"
	LogMsgWakingUp          = "Streamer.bot waking from dormant mode"
)
