package dispatch

// Log messages
const (
	LogMsgRuleExecuted        = "Rule executed"
	LogMsgResolutionFailed    = "Failed to resolve rule outcome"
	LogMsgEmissionFailed      = "Failed to emit rule effect"
	LogMsgRuleFailed          = "Rule execution failed"
	LogMsgRulePanicked        = "Rule execution panicked"
	LogMsgRecordFailed        = "Failed to record rule execution"
	LogMsgShutdownStarted     = "Waiting for in-flight rule executions"
	LogMsgShutdownComplete    = "Dispatcher shutdown complete"
	LogMsgShutdownTimeout     = "Dispatcher shutdown timed out"
	LogMsgDispatchAfterClosed = "Dispatcher is shut down, dropping batch"
)

// Execution metadata keys
const (
	MetaKeyTrigger = "trigger"
	MetaKeyOutcome = "outcome"
	MetaKeyInput   = "input"
	MetaKeyEffect  = "effect"
)
