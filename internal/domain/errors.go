package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Rule errors
	ErrMsgRuleNotFound     = "rule not found"
	ErrMsgInvalidTrigger   = "invalid trigger"
	ErrMsgInvalidOutcome   = "invalid outcome"
	ErrMsgInvalidEvent     = "invalid event"
	ErrMsgInvalidInput     = "invalid event input"
	ErrMsgInvalidRole      = "invalid minimum role"
	ErrMsgUnknownVariant   = "unknown variant"
	ErrMsgMissingTypeField = "missing type field"

	// Asset errors
	ErrMsgAssetNotFound = "asset not found"
	ErrMsgItemNotFound  = "item not found"
	ErrMsgSoundNotFound = "sound not found"

	// Resolution errors
	ErrMsgNoBitsTier       = "no bits tier configured at or below tier"
	ErrMsgUnexpectedInput  = "unexpected event input"
	ErrMsgResolutionFailed = "failed to resolve outcome"

	// Emission errors
	ErrMsgNoSubscribers   = "no active subscribers"
	ErrMsgBroadcastFull   = "broadcast buffer full"
	ErrMsgEmissionFailed  = "failed to emit effect"
	ErrMsgDirectoryFailed = "role directory lookup failed"
)

var (
	ErrRuleNotFound    = errors.New(ErrMsgRuleNotFound)
	ErrInvalidTrigger  = errors.New(ErrMsgInvalidTrigger)
	ErrInvalidOutcome  = errors.New(ErrMsgInvalidOutcome)
	ErrInvalidEvent    = errors.New(ErrMsgInvalidEvent)
	ErrInvalidInput    = errors.New(ErrMsgInvalidInput)
	ErrInvalidRole     = errors.New(ErrMsgInvalidRole)
	ErrAssetNotFound   = errors.New(ErrMsgAssetNotFound)
	ErrNoBitsTier      = errors.New(ErrMsgNoBitsTier)
	ErrUnexpectedInput = errors.New(ErrMsgUnexpectedInput)
	ErrNoSubscribers   = errors.New(ErrMsgNoSubscribers)
	ErrBroadcastFull   = errors.New(ErrMsgBroadcastFull)
)

// ResolutionError reports that an outcome could not be turned into an effect.
// The rule execution is abandoned and its cooldown is left untouched.
type ResolutionError struct {
	Outcome OutcomeKind
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrMsgResolutionFailed, e.Outcome, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// DirectoryLookupError reports a failed role membership query. Gates treat it as a denial.
type DirectoryLookupError struct {
	Role string
	Err  error
}

func (e *DirectoryLookupError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrMsgDirectoryFailed, e.Role, e.Err)
}

func (e *DirectoryLookupError) Unwrap() error { return e.Err }

// EmissionError reports that a resolved effect could not be delivered to subscribers.
type EmissionError struct {
	Effect EffectKind
	Err    error
}

func (e *EmissionError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrMsgEmissionFailed, e.Effect, e.Err)
}

func (e *EmissionError) Unwrap() error { return e.Err }
