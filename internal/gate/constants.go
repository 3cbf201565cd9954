package gate

// Role names used in directory lookup errors
const (
	RoleModerator = "moderator"
	RoleVIP       = "vip"
)

// Log messages
const (
	LogMsgGateDenied            = "Rule denied by gate"
	LogMsgDirectoryLookupFailed = "Role directory lookup failed, denying rule"
	LogMsgBroadcasterUnknown    = "Broadcaster identity unavailable"
)
