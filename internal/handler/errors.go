package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidID             = "Invalid id"
	ErrMsgInvalidTimeParam      = "Invalid %s time, expected RFC3339"
	ErrMsgInvalidIntParam       = "Invalid %s parameter"

	// Rule error messages
	ErrMsgListRulesFailed   = "Failed to list rules"
	ErrMsgGetRuleFailed     = "Failed to get rule"
	ErrMsgSaveRuleFailed    = "Failed to save rule"
	ErrMsgDeleteRuleFailed  = "Failed to delete rule"
	ErrMsgReorderFailed     = "Failed to reorder rules"
	ErrMsgTestRuleFailed    = "Failed to test rule"
	ErrMsgInvalidRuleFields = "Rule trigger, outcome or minimum role is invalid"

	// Execution error messages
	ErrMsgListExecutionsFailed  = "Failed to list executions"
	ErrMsgDeleteExecutionFailed = "Failed to delete executions"

	// Event ingestion error messages
	ErrMsgInvalidEvent      = "Invalid event payload"
	ErrMsgEngineUnavailable = "Event engine is not running"
	ErrMsgSubmitEventFailed = "Failed to queue event"

	// Asset error messages
	ErrMsgListAssetsFailed  = "Failed to list assets"
	ErrMsgSaveAssetFailed   = "Failed to save asset"
	ErrMsgDeleteAssetFailed = "Failed to delete asset"

	// Role error messages
	ErrMsgInvalidChannelRole = "Unknown role, expected moderator or vip"
	ErrMsgListRolesFailed    = "Failed to list role members"
	ErrMsgUpdateRoleFailed   = "Failed to update role"

	// Event source error messages
	ErrMsgSourceNotDormant = "Event source is not dormant"
)

// Success messages for API responses
const (
	MsgRuleDeleted       = "Rule deleted"
	MsgRulesReordered    = "Rules reordered"
	MsgExecutionsDeleted = "Executions deleted"
	MsgEventQueued       = "Event queued"
	MsgAssetDeleted      = "Asset deleted"
	MsgRoleGranted       = "Role granted"
	MsgRoleRevoked       = "Role revoked"
	MsgSourceWoken       = "Event source reconnecting"
)

// Log messages
const (
	LogMsgTimerReloadFailed = "Failed to reload timer rules after rule change"
	LogMsgTimersReloaded    = "Timer rules reloaded"
	LogMsgRuleSaved         = "Rule saved"
	LogMsgRuleDeleted       = "Rule deleted"
	LogMsgRuleTested        = "Rule test fired"
	LogMsgEventQueued       = "External event queued"
)
