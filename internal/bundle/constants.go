package bundle

import "errors"

// ErrDuplicateID is returned when two rules in one bundle share an id
var ErrDuplicateID = errors.New("duplicate rule id in bundle")

const (
	ErrMsgLookupFailed = "failed to look up existing records"
	ErrMsgExportFailed = "failed to export bundle"
	ErrMsgReadFailed   = "failed to read bundle"
	ErrMsgDecodeFailed = "failed to decode bundle"
	ErrMsgWriteFailed  = "failed to write bundle"
)

// FilePermission is applied to exported bundle files
const FilePermission = 0o644
