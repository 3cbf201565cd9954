// Package dispatch runs gated rules concurrently: delay, resolve, emit, then mark the cooldown.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/osse101/ThrowBot_Go/internal/cooldown"
	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/logger"
	"github.com/osse101/ThrowBot_Go/internal/metrics"
)

// Resolver turns an outcome into an effect
type Resolver interface {
	Resolve(ctx context.Context, outcome domain.Outcome, ec domain.EventContext) (domain.EffectMessage, error)
}

// Emitter delivers an effect to its subscribers
type Emitter interface {
	Emit(effect domain.EffectMessage) error
}

// ExecutionRecorder persists successful rule runs
type ExecutionRecorder interface {
	Record(ctx context.Context, execution *domain.Execution) error
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithLimit caps the number of concurrently running rules per batch. n <= 0 means unbounded.
func WithLimit(n int) Option {
	return func(d *Dispatcher) { d.limit = n }
}

// WithRecorder records every successful execution
func WithRecorder(r ExecutionRecorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// WithSleep replaces time.Sleep for the outcome delay
func WithSleep(sleep func(time.Duration)) Option {
	return func(d *Dispatcher) { d.sleep = sleep }
}

// Dispatcher executes batches of admitted rules off the caller's goroutine
type Dispatcher struct {
	resolver  Resolver
	emitter   Emitter
	cooldowns *cooldown.State
	recorder  ExecutionRecorder
	limit     int
	sleep     func(time.Duration)

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New creates a dispatcher sharing cooldowns with the gate
func New(resolver Resolver, emitter Emitter, cooldowns *cooldown.State, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		resolver:  resolver,
		emitter:   emitter,
		cooldowns: cooldowns,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch starts one task per rule and returns immediately. Tasks outlive ctx
// cancellation; they only keep its values (request id).
func (d *Dispatcher) Dispatch(ctx context.Context, ec domain.EventContext, rules []domain.Rule) {
	if len(rules) == 0 {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		logger.FromContext(ctx).Warn(LogMsgDispatchAfterClosed, "rules", len(rules))
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	taskCtx := context.WithoutCancel(ctx)
	go func() {
		defer d.wg.Done()

		var g errgroup.Group
		if d.limit > 0 {
			g.SetLimit(d.limit)
		}
		for _, rule := range rules {
			g.Go(func() error {
				d.run(taskCtx, rule, ec)
				return nil
			})
		}
		_ = g.Wait()
	}()
}

// run executes a single rule and contains its failure
func (d *Dispatcher) run(ctx context.Context, rule domain.Rule, ec domain.EventContext) {
	log := logger.FromContext(ctx).With("rule_id", rule.ID, "rule_name", rule.Name)

	defer func() {
		if r := recover(); r != nil {
			log.Error(LogMsgRulePanicked, "panic", r)
		}
	}()

	err := d.Execute(ctx, rule, ec)

	var resErr *domain.ResolutionError
	var emitErr *domain.EmissionError
	switch {
	case err == nil:
		log.Debug(LogMsgRuleExecuted)
	case errors.As(err, &resErr):
		log.Error(LogMsgResolutionFailed, "error", err)
	case errors.As(err, &emitErr):
		log.Warn(LogMsgEmissionFailed, "error", err)
	default:
		log.Error(LogMsgRuleFailed, "error", err)
	}
}

// Execute runs the full per-rule sequence synchronously. The cooldown is only
// marked once the effect has been emitted.
func (d *Dispatcher) Execute(ctx context.Context, rule domain.Rule, ec domain.EventContext) error {
	metrics.RulesInFlight.Inc()
	defer metrics.RulesInFlight.Dec()

	start := time.Now()
	label := outcomeLabel(rule.Outcome)
	defer func() {
		metrics.RuleExecutionDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	}()

	if delay := rule.OutcomeDelay(); delay > 0 {
		d.sleep(delay)
	}

	effect, err := d.resolver.Resolve(ctx, rule.Outcome, ec)
	if err != nil {
		metrics.ResolutionFailures.WithLabelValues(label).Inc()
		return err
	}

	if err := d.emitter.Emit(effect); err != nil {
		metrics.EmissionFailures.WithLabelValues(string(effect.Kind())).Inc()
		return err
	}
	metrics.EffectsEmitted.WithLabelValues(string(effect.Kind())).Inc()

	d.cooldowns.MarkFired(rule.ID)

	if d.recorder != nil {
		if err := d.recorder.Record(ctx, newExecution(rule, ec, effect, d.cooldowns.Now())); err != nil {
			logger.FromContext(ctx).Warn(LogMsgRecordFailed, "rule_id", rule.ID, "error", err)
		}
	}
	return nil
}

// Shutdown stops accepting batches and waits for in-flight tasks or ctx
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)

	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	log.Info(LogMsgShutdownStarted)

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgShutdownComplete)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgShutdownTimeout)
		return fmt.Errorf("dispatcher shutdown: %w", ctx.Err())
	}
}

func newExecution(rule domain.Rule, ec domain.EventContext, effect domain.EffectMessage, at time.Time) *domain.Execution {
	meta := map[string]any{
		MetaKeyOutcome: outcomeLabel(rule.Outcome),
		MetaKeyEffect:  string(effect.Kind()),
	}
	if rule.Trigger != nil {
		meta[MetaKeyTrigger] = string(rule.Trigger.Kind())
	}

	kind := domain.EventNone
	if ec.Input != nil {
		kind = ec.Input.Kind()
		if raw, err := domain.MarshalInput(ec.Input); err == nil {
			meta[MetaKeyInput] = json.RawMessage(raw)
		}
	}

	return &domain.Execution{
		ID:        uuid.New(),
		RuleID:    rule.ID,
		User:      ec.User,
		InputKind: kind,
		Metadata:  meta,
		CreatedAt: at,
	}
}

func outcomeLabel(o domain.Outcome) string {
	if o == nil {
		return "unknown"
	}
	return string(o.Kind())
}
