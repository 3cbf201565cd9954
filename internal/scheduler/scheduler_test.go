package scheduler

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/testing/leaktest"
)

type fakeSink struct {
	fired chan domain.Rule
}

func newFakeSink() *fakeSink {
	return &fakeSink{fired: make(chan domain.Rule, 100)}
}

func (f *fakeSink) FireTimer(_ context.Context, rule domain.Rule) {
	select {
	case f.fired <- rule:
	default:
	}
}

func (f *fakeSink) drain() {
	for {
		select {
		case <-f.fired:
		default:
			return
		}
	}
}

type MockRuleLoader struct {
	mock.Mock
}

func (m *MockRuleLoader) ListByTriggerKind(ctx context.Context, kind domain.TriggerKind) ([]domain.Rule, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rule), args.Error(1)
}

func timerRule(interval uint64) domain.Rule {
	return domain.Rule{
		ID:      uuid.New(),
		Name:    "timer",
		Enabled: true,
		Trigger: domain.TimerTrigger{IntervalSeconds: interval},
		Outcome: domain.TriggerHotkeyOutcome{HotkeyID: "hk"},
	}
}

// justBeforeBoundary pins the clock 10ms before a whole second, so a 1s timer
// rule is due almost immediately and again after every fire.
func justBeforeBoundary() func() time.Time {
	t := time.Unix(1_700_000_000, 0).Add(-10 * time.Millisecond)
	return func() time.Time { return t }
}

func TestNextDue(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		interval uint64
		want     int64
	}{
		{"aligned to interval boundary", time.Unix(1000, 0), 300, 1200},
		{"exact boundary moves to next", time.Unix(1200, 0), 300, 1500},
		{"sub-second is floored", time.Unix(1199, 999_000_000), 300, 1200},
		{"one second interval", time.Unix(42, 500_000_000), 1, 43},
		{"hourly", time.Unix(3600*5+17, 0), 3600, 3600 * 6},
		{"yearly", time.Unix(1000, 0), domain.MaxTimerIntervalSeconds, int64(domain.MaxTimerIntervalSeconds)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due, ok := NextDue(tt.now, tt.interval)
			require.True(t, ok)
			assert.Equal(t, tt.want, due.Unix())
			assert.True(t, due.After(tt.now))
		})
	}
}

func TestNextDue_UnusableIntervals(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		interval uint64
	}{
		{"zero", time.Unix(1000, 0), 0},
		{"over a year", time.Unix(1000, 0), domain.MaxTimerIntervalSeconds + 1},
		{"top bit set", time.Unix(1000, 0), 1 << 63},
		{"uint64 max", time.Unix(1000, 0), math.MaxUint64},
		{"past the int64 epoch", time.Unix(math.MaxInt64-10, 0), 3600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := NextDue(tt.now, tt.interval)
			assert.False(t, ok)
		})
	}
}

func TestBuild_FiltersAndOrders(t *testing.T) {
	now := time.Unix(1000, 0)
	s := New(newFakeSink(), WithClock(func() time.Time { return now }))

	slow := timerRule(600)
	fast := timerRule(300)
	disabled := timerRule(10)
	disabled.Enabled = false
	follow := timerRule(10)
	follow.Trigger = domain.FollowTrigger{}
	zero := timerRule(0)
	huge := timerRule(math.MaxUint64)

	queue := s.build(context.Background(), []domain.Rule{slow, disabled, follow, fast, zero, huge})

	require.Equal(t, 2, queue.Len())
	assert.Equal(t, fast.ID, queue.peek().rule.ID)
	assert.Equal(t, int64(1200), queue.peek().due.Unix())
}

func TestRun_FiresAlignedTimers(t *testing.T) {
	sink := newFakeSink()
	s := New(sink, WithClock(justBeforeBoundary()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop()

	rule := timerRule(1)
	require.NoError(t, s.Update(ctx, []domain.Rule{rule}))

	for i := 0; i < 2; i++ {
		select {
		case fired := <-sink.fired:
			assert.Equal(t, rule.ID, fired.ID)
		case <-time.After(time.Second):
			t.Fatalf("timer %d did not fire", i)
		}
	}
}

func TestRun_OversizedIntervalNeverFires(t *testing.T) {
	sink := newFakeSink()
	s := New(sink, WithClock(justBeforeBoundary()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop()

	require.NoError(t, s.Update(ctx, []domain.Rule{timerRule(1 << 63), timerRule(math.MaxUint64)}))

	select {
	case rule := <-sink.fired:
		t.Fatalf("rule %s with an oversized interval fired", rule.ID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRun_UpdateWithoutTimersGoesIdle(t *testing.T) {
	sink := newFakeSink()
	s := New(sink, WithClock(justBeforeBoundary()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop()

	require.NoError(t, s.Update(ctx, []domain.Rule{timerRule(1)}))
	select {
	case <-sink.fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	follow := timerRule(1)
	follow.Trigger = domain.FollowTrigger{}
	require.NoError(t, s.Update(ctx, []domain.Rule{follow}))

	// Let the loop consume the update, then discard anything fired before it
	time.Sleep(50 * time.Millisecond)
	sink.drain()

	select {
	case rule := <-sink.fired:
		t.Fatalf("idle scheduler fired %s", rule.ID)
	case <-time.After(100 * time.Millisecond):
	}

	// A later list with a timer rule wakes it up again
	again := timerRule(1)
	require.NoError(t, s.Update(ctx, []domain.Rule{again}))
	select {
	case fired := <-sink.fired:
		assert.Equal(t, again.ID, fired.ID)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not resume")
	}
}

func TestRun_ReplacesQueueWholesale(t *testing.T) {
	sink := newFakeSink()
	s := New(sink, WithClock(justBeforeBoundary()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	defer s.Stop()

	old := timerRule(1)
	replacement := timerRule(1)
	require.NoError(t, s.Update(ctx, []domain.Rule{old}))
	require.NoError(t, s.Update(ctx, []domain.Rule{replacement}))

	time.Sleep(50 * time.Millisecond)
	sink.drain()

	for i := 0; i < 3; i++ {
		select {
		case fired := <-sink.fired:
			assert.Equal(t, replacement.ID, fired.ID)
		case <-time.After(time.Second):
			t.Fatal("replacement rule did not fire")
		}
	}
}

func TestRun_InitialLoad(t *testing.T) {
	t.Run("loads timer rules", func(t *testing.T) {
		sink := newFakeSink()
		loader := new(MockRuleLoader)
		rule := timerRule(1)
		loader.On("ListByTriggerKind", mock.Anything, domain.TriggerTimer).Return([]domain.Rule{rule}, nil)

		s := New(sink, WithClock(justBeforeBoundary()), WithLoader(loader))
		s.Start(context.Background())
		defer s.Stop()

		select {
		case fired := <-sink.fired:
			assert.Equal(t, rule.ID, fired.ID)
		case <-time.After(time.Second):
			t.Fatal("loaded rule did not fire")
		}
		loader.AssertExpectations(t)
	})

	t.Run("load failure leaves scheduler idle", func(t *testing.T) {
		sink := newFakeSink()
		loader := new(MockRuleLoader)
		loader.On("ListByTriggerKind", mock.Anything, domain.TriggerTimer).Return(nil, errors.New("db down"))

		s := New(sink, WithClock(justBeforeBoundary()), WithLoader(loader))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		s.Start(ctx)
		defer s.Stop()

		select {
		case <-sink.fired:
			t.Fatal("scheduler fired without rules")
		case <-time.After(100 * time.Millisecond):
		}

		require.NoError(t, s.Update(ctx, []domain.Rule{timerRule(1)}))
		select {
		case <-sink.fired:
		case <-time.After(time.Second):
			t.Fatal("scheduler did not pick up update")
		}
	})
}

func TestUpdate_RespectsContext(t *testing.T) {
	s := New(newFakeSink())

	// Nothing consumes updates, so the buffer fills up
	for i := 0; i < UpdateBufferSize; i++ {
		require.NoError(t, s.Update(context.Background(), nil))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Update(ctx, nil), context.DeadlineExceeded)
}

func TestStop_NoGoroutineLeak(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		s := New(newFakeSink(), WithClock(justBeforeBoundary()))
		s.Start(context.Background())
		require.NoError(t, s.Update(context.Background(), []domain.Rule{timerRule(1)}))
		time.Sleep(30 * time.Millisecond)
		s.Stop()
	})
}
