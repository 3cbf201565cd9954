// Package scheduler fires timer rules on wall-clock aligned boundaries.
package scheduler

import (
	"container/heap"
	"context"
	"math"
	"sync"
	"time"

	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/logger"
	"github.com/osse101/ThrowBot_Go/internal/metrics"
)

// Sink receives synthetic timer events
type Sink interface {
	FireTimer(ctx context.Context, rule domain.Rule)
}

// RuleLoader supplies the initial timer rule list
type RuleLoader interface {
	ListByTriggerKind(ctx context.Context, kind domain.TriggerKind) ([]domain.Rule, error)
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock overrides the wall clock used for due-time computation
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLoader loads the initial rule list when the loop starts
func WithLoader(loader RuleLoader) Option {
	return func(s *Scheduler) { s.loader = loader }
}

// Scheduler owns a priority queue of timer rules. The queue is only touched by
// the loop goroutine; callers replace it wholesale through Update.
type Scheduler struct {
	sink    Sink
	loader  RuleLoader
	updates chan []domain.Rule
	now     func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a scheduler delivering fired rules to sink
func New(sink Sink, opts ...Option) *Scheduler {
	s := &Scheduler{
		sink:    sink,
		updates: make(chan []domain.Rule, UpdateBufferSize),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NextDue returns the first multiple of interval seconds since the epoch that
// is strictly after now. It reports false for a zero interval, one above
// domain.MaxTimerIntervalSeconds, or a due time past the int64 epoch range.
func NextDue(now time.Time, interval uint64) (time.Time, bool) {
	if interval == 0 || interval > domain.MaxTimerIntervalSeconds {
		return time.Time{}, false
	}
	sec := now.Unix()
	if sec < 0 {
		sec = 0
	}
	iv := int64(interval)
	periods := sec/iv + 1
	if periods > math.MaxInt64/iv {
		return time.Time{}, false
	}
	return time.Unix(periods*iv, 0), true
}

// Update replaces the scheduled rule set. Only enabled timer rules are kept.
func (s *Scheduler) Update(ctx context.Context, rules []domain.Rule) error {
	snapshot := make([]domain.Rule, len(rules))
	copy(snapshot, rules)

	select {
	case s.updates <- snapshot:
		return nil
	case <-ctx.Done():
		logger.FromContext(ctx).Warn(LogMsgUpdateDropped, "error", ctx.Err())
		return ctx.Err()
	}
}

// Start runs the loop in the background until Stop
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run(ctx)
	}()
}

// Stop cancels the loop started by Start and waits for it to exit
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Run blocks until ctx is done, waiting on either the earliest due rule or a
// rule-list update.
func (s *Scheduler) Run(ctx context.Context) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSchedulerStarted)
	defer log.Info(LogMsgSchedulerStopped)

	queue := s.build(ctx, s.initialRules(ctx))

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		var wake <-chan time.Time
		if next := queue.peek(); next != nil {
			timer.Reset(max(next.due.Sub(s.now()), 0))
			wake = timer.C
		}

		select {
		case <-ctx.Done():
			return

		case rules := <-s.updates:
			timer.Stop()
			queue = s.build(ctx, rules)

		case <-wake:
			e := heap.Pop(&queue).(*entry)
			metrics.SchedulerTicks.Inc()
			log.Debug(LogMsgTimerFired, "rule_id", e.rule.ID, "rule_name", e.rule.Name, "due", e.due)

			s.sink.FireTimer(ctx, e.rule)

			due, ok := NextDue(s.now(), interval(e.rule))
			if !ok {
				log.Warn(LogMsgInvalidTimerRule, "rule_id", e.rule.ID, "interval_seconds", interval(e.rule))
				continue
			}
			e.due = due
			heap.Push(&queue, e)
		}
	}
}

func (s *Scheduler) initialRules(ctx context.Context) []domain.Rule {
	if s.loader == nil {
		return nil
	}
	rules, err := s.loader.ListByTriggerKind(ctx, domain.TriggerTimer)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgInitialLoadFailed, "error", err)
		return nil
	}
	return rules
}

// build discards the previous queue and computes fresh due times for rules
func (s *Scheduler) build(ctx context.Context, rules []domain.Rule) entryQueue {
	now := s.now()
	queue := make(entryQueue, 0, len(rules))

	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		if _, ok := rule.Trigger.(domain.TimerTrigger); !ok {
			continue
		}
		due, ok := NextDue(now, interval(rule))
		if !ok {
			logger.FromContext(ctx).Warn(LogMsgInvalidTimerRule, "rule_id", rule.ID, "interval_seconds", interval(rule))
			continue
		}
		queue = append(queue, &entry{rule: rule, due: due})
	}
	heap.Init(&queue)

	metrics.ScheduledRules.Set(float64(queue.Len()))
	logger.FromContext(ctx).Info(LogMsgQueueRebuilt, "timer_rules", queue.Len())
	return queue
}

func interval(rule domain.Rule) uint64 {
	if t, ok := rule.Trigger.(domain.TimerTrigger); ok {
		return t.IntervalSeconds
	}
	return 0
}
