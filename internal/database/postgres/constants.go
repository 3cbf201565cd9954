package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeForeignKeyViolation is raised when a referenced row does not exist
	PgErrorCodeForeignKeyViolation = "23503"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Rule Operations
const (
	ErrMsgFailedToQueryRules     = "failed to query rules"
	ErrMsgFailedToGetRule        = "failed to get rule"
	ErrMsgFailedToInsertRule     = "failed to insert rule"
	ErrMsgFailedToUpdateRule     = "failed to update rule"
	ErrMsgFailedToDeleteRule     = "failed to delete rule"
	ErrMsgFailedToUpdateOrder    = "failed to update rule order"
	ErrMsgFailedToMarshalTrigger = "failed to marshal trigger"
	ErrMsgFailedToMarshalOutcome = "failed to marshal outcome"
	ErrMsgFailedToDecodeRule     = "failed to decode rule"
)

// Error Messages - Asset Operations
const (
	ErrMsgFailedToQueryItems        = "failed to query items"
	ErrMsgFailedToQuerySounds       = "failed to query sounds"
	ErrMsgFailedToGetSound          = "failed to get sound"
	ErrMsgFailedToInsertItem        = "failed to insert item"
	ErrMsgFailedToInsertImpactSound = "failed to insert item impact sound"
	ErrMsgFailedToInsertSound       = "failed to insert sound"
	ErrMsgFailedToDeleteItem        = "failed to delete item"
	ErrMsgFailedToDeleteSound       = "failed to delete sound"
)

// Error Messages - Role Operations
const (
	ErrMsgFailedToQueryRoles = "failed to query channel roles"
	ErrMsgFailedToUpsertRole = "failed to upsert channel role"
	ErrMsgFailedToRemoveRole = "failed to remove channel role"
)

// Error Messages - Execution Operations
const (
	ErrMsgFailedToInsertExecution   = "failed to insert execution"
	ErrMsgFailedToQueryExecutions   = "failed to query executions"
	ErrMsgFailedToDeleteExecutions  = "failed to delete executions"
	ErrMsgFailedToMarshalMetadata   = "failed to marshal metadata"
	ErrMsgFailedToUnmarshalMetadata = "failed to unmarshal metadata"
)

// Log Messages
const (
	LogMsgFailedToRollback = "Failed to rollback transaction"
)

// DefaultExecutionPageSize applies when an execution query carries no limit
const DefaultExecutionPageSize = 50
