package scheduler

// UpdateBufferSize is the capacity of the rule-list update channel
const UpdateBufferSize = 5

// Log messages
const (
	LogMsgSchedulerStarted  = "Timer scheduler started"
	LogMsgSchedulerStopped  = "Timer scheduler stopped"
	LogMsgInitialLoadFailed = "Failed to load timer rules, scheduler idle until next update"
	LogMsgQueueRebuilt      = "Timer queue rebuilt"
	LogMsgTimerFired        = "Timer rule fired"
	LogMsgInvalidTimerRule  = "Skipping timer rule with unusable interval"
	LogMsgUpdateDropped     = "Scheduler update not delivered"
)
