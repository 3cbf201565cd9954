package engine

// Log messages
const (
	LogMsgEngineStarted     = "Event engine started"
	LogMsgEngineStopped     = "Event engine stopped"
	LogMsgEventReceived     = "External event received"
	LogMsgRuleStoreFailed   = "Failed to load rules for event"
	LogMsgRulesAdmitted     = "Rules admitted for dispatch"
	LogMsgTimerAdmitted     = "Timer rule admitted"
	LogMsgTestRuleSucceeded = "Test rule emitted"
	LogMsgSourceClosed      = "Event source closed"
)
