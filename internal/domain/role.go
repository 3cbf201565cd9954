package domain

// ChannelRole names a membership list kept by the role directory
type ChannelRole string

const (
	ChannelModerator ChannelRole = "moderator"
	ChannelVIP       ChannelRole = "vip"
)

// Valid reports whether r is a known channel role
func (r ChannelRole) Valid() bool {
	return r == ChannelModerator || r == ChannelVIP
}
