package cooldown

// =============================================================================
// Error Message Formats
// =============================================================================

const (
	// ErrFmtCooldownWithMinutes formats a remaining cooldown of a minute or more
	ErrFmtCooldownWithMinutes = "rule '%s' on cooldown: %dm %ds remaining"

	// ErrFmtCooldownSecondsOnly formats a remaining cooldown under a minute
	ErrFmtCooldownSecondsOnly = "rule '%s' on cooldown: %ds remaining"

	// ErrFmtCooldownMillis formats a remaining cooldown under a second
	ErrFmtCooldownMillis = "rule '%s' on cooldown: %dms remaining"
)
