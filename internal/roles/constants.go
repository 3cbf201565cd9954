package roles

import "time"

// Cache defaults used when the configured values are unusable
const (
	DefaultCacheSize = 8
	DefaultCacheTTL  = 5 * time.Minute
)

// RoleLoadTimeout bounds a shared role list load
const RoleLoadTimeout = 5 * time.Second

// CacheSchemaVersion is bumped whenever the cached entry shape changes
const CacheSchemaVersion = "1.0"

// Log messages
const (
	LogMsgRoleCacheMiss = "Role cache miss, loading from store"
	LogMsgRoleAdded     = "Channel role granted"
	LogMsgRoleRemoved   = "Channel role revoked"
	LogMsgNoBroadcaster = "No broadcaster configured"
)

// Error messages
const (
	ErrMsgUnknownRole      = "unknown channel role"
	ErrMsgUserIDRequired   = "user id is required"
	ErrMsgFailedToLoadRole = "failed to load role members"
)
