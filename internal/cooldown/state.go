package cooldown

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State tracks when each rule last completed successfully.
// It lives for the process lifetime and is never persisted.
// Reads (gate checks) share the lock; writes happen only after a successful run.
type State struct {
	mu        sync.RWMutex
	lastFired map[uuid.UUID]time.Time
	now       func() time.Time
}

// Option configures a State
type Option func(*State)

// WithClock replaces the wall clock, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		s.now = now
	}
}

// NewState creates an empty cooldown state
func NewState(opts ...Option) *State {
	s := &State{
		lastFired: make(map[uuid.UUID]time.Time),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the state's current time
func (s *State) Now() time.Time {
	return s.now()
}

// IsElapsed reports whether strictly more than cooldown has passed since the rule last fired.
// A rule that never fired is always elapsed.
func (s *State) IsElapsed(ruleID uuid.UUID, cooldown time.Duration) bool {
	s.mu.RLock()
	last, ok := s.lastFired[ruleID]
	s.mu.RUnlock()

	if !ok {
		return true
	}
	return s.now().Sub(last) > cooldown
}

// Remaining returns how long until the rule is admissible again, zero when it already is
func (s *State) Remaining(ruleID uuid.UUID, cooldown time.Duration) time.Duration {
	s.mu.RLock()
	last, ok := s.lastFired[ruleID]
	s.mu.RUnlock()

	if !ok {
		return 0
	}
	remaining := cooldown - s.now().Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// MarkFired records that the rule completed successfully now
func (s *State) MarkFired(ruleID uuid.UUID) {
	now := s.now()

	s.mu.Lock()
	s.lastFired[ruleID] = now
	s.mu.Unlock()
}

// LastFired returns when the rule last completed, or nil if it never has
func (s *State) LastFired(ruleID uuid.UUID) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	last, ok := s.lastFired[ruleID]
	if !ok {
		return nil
	}
	return &last
}

// Reset forgets the rule's last run
func (s *State) Reset(ruleID uuid.UUID) {
	s.mu.Lock()
	delete(s.lastFired, ruleID)
	s.mu.Unlock()
}

// ErrOnCooldown describes a gate denial caused by an active cooldown
type ErrOnCooldown struct {
	RuleID    uuid.UUID
	Remaining time.Duration
}

func (e ErrOnCooldown) Error() string {
	id := e.RuleID.String()
	minutes := int(e.Remaining.Minutes())
	seconds := int(e.Remaining.Seconds()) % 60

	switch {
	case minutes > 0:
		return fmt.Sprintf(ErrFmtCooldownWithMinutes, id, minutes, seconds)
	case e.Remaining < time.Second:
		return fmt.Sprintf(ErrFmtCooldownMillis, id, e.Remaining.Milliseconds())
	default:
		return fmt.Sprintf(ErrFmtCooldownSecondsOnly, id, seconds)
	}
}

// Is allows errors.Is() to work with ErrOnCooldown
func (e ErrOnCooldown) Is(target error) bool {
	_, ok := target.(ErrOnCooldown)
	return ok
}
