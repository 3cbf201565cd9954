// Package engine is the ingestion loop: it matches each external event against
// the current rules, gates the candidates and hands them to the dispatcher.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/logger"
	"github.com/osse101/ThrowBot_Go/internal/matcher"
	"github.com/osse101/ThrowBot_Go/internal/metrics"
)

// ErrEngineStopped is returned by Submit once Run has exited
var ErrEngineStopped = errors.New("engine stopped")

// RuleStore is the subset of the rule repository the engine reads per event
type RuleStore interface {
	ListEnabled(ctx context.Context) ([]domain.Rule, error)
}

// Admitter decides whether a matched rule may run
type Admitter interface {
	Admit(ctx context.Context, rule domain.Rule, ec domain.EventContext) bool
}

// Dispatcher runs admitted rules without blocking the caller
type Dispatcher interface {
	Dispatch(ctx context.Context, ec domain.EventContext, rules []domain.Rule)
}

// Resolver and Emitter back TestRule
type Resolver interface {
	Resolve(ctx context.Context, outcome domain.Outcome, ec domain.EventContext) (domain.EffectMessage, error)
}

type Emitter interface {
	Emit(effect domain.EffectMessage) error
}

// Engine processes external events strictly in arrival order
type Engine struct {
	rules      RuleStore
	gate       Admitter
	dispatcher Dispatcher
	resolver   Resolver
	emitter    Emitter

	queue chan domain.ExternalEvent
	done  chan struct{}
}

// New creates an engine with an internal submission queue of queueSize events
func New(rules RuleStore, gate Admitter, dispatcher Dispatcher, resolver Resolver, emitter Emitter, queueSize int) *Engine {
	if queueSize < 0 {
		queueSize = 0
	}
	return &Engine{
		rules:      rules,
		gate:       gate,
		dispatcher: dispatcher,
		resolver:   resolver,
		emitter:    emitter,
		queue:      make(chan domain.ExternalEvent, queueSize),
		done:       make(chan struct{}),
	}
}

// Submit enqueues an event from a secondary source (HTTP ingestion). It blocks
// while the queue is full.
func (e *Engine) Submit(ctx context.Context, ev domain.ExternalEvent) error {
	if ev == nil {
		return fmt.Errorf("%w: nil event", domain.ErrInvalidEvent)
	}
	select {
	case e.queue <- ev:
		return nil
	case <-e.done:
		return ErrEngineStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run consumes events from source and from Submit until ctx is done. A closed
// source leaves the submission queue running.
func (e *Engine) Run(ctx context.Context, source <-chan domain.ExternalEvent) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgEngineStarted)
	defer func() {
		close(e.done)
		log.Info(LogMsgEngineStopped)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-source:
			if !ok {
				log.Warn(LogMsgSourceClosed)
				source = nil
				continue
			}
			e.HandleEvent(ctx, ev)
		case ev := <-e.queue:
			e.HandleEvent(ctx, ev)
		}
	}
}

// HandleEvent runs one event through fetch, match and gate, then dispatches
// the admitted rules. It returns how many rules were admitted.
func (e *Engine) HandleEvent(ctx context.Context, ev domain.ExternalEvent) int {
	ctx = logger.WithRequestID(ctx, logger.GenerateRequestID())
	log := logger.FromContext(ctx)

	metrics.EventsIngested.WithLabelValues(string(ev.Kind())).Inc()
	log.Debug(LogMsgEventReceived, "event_type", ev.Kind())

	// Fetched for every event, never cached
	rules, err := e.rules.ListEnabled(ctx)
	if err != nil {
		log.Error(LogMsgRuleStoreFailed, "event_type", ev.Kind(), "error", err)
		return 0
	}

	candidates, ec := matcher.Match(ev, rules)

	admitted := make([]domain.Rule, 0, len(candidates))
	for _, rule := range candidates {
		metrics.RulesMatched.WithLabelValues(string(rule.Trigger.Kind())).Inc()
		if e.gate.Admit(ctx, rule, ec) {
			admitted = append(admitted, rule)
		}
	}

	if len(admitted) > 0 {
		log.Debug(LogMsgRulesAdmitted, "event_type", ev.Kind(), "matched", len(candidates), "admitted", len(admitted))
		e.dispatcher.Dispatch(ctx, ec, admitted)
	}
	return len(admitted)
}

// FireTimer injects a synthetic timer event for rule. It enters the pipeline
// at the gate with an empty context.
func (e *Engine) FireTimer(ctx context.Context, rule domain.Rule) {
	ctx = logger.WithRequestID(ctx, logger.GenerateRequestID())
	ec := domain.EmptyContext()

	metrics.RulesMatched.WithLabelValues(string(domain.TriggerTimer)).Inc()
	if !e.gate.Admit(ctx, rule, ec) {
		return
	}
	logger.FromContext(ctx).Debug(LogMsgTimerAdmitted, "rule_id", rule.ID)
	e.dispatcher.Dispatch(ctx, ec, []domain.Rule{rule})
}

// TestRule resolves and emits rule's outcome immediately. Gate, delay and
// cooldown are all skipped.
func (e *Engine) TestRule(ctx context.Context, rule domain.Rule, ec domain.EventContext) (domain.EffectMessage, error) {
	if ec.Input == nil {
		ec.Input = domain.NoInput{}
	}

	effect, err := e.resolver.Resolve(ctx, rule.Outcome, ec)
	if err != nil {
		return nil, err
	}
	if err := e.emitter.Emit(effect); err != nil {
		return nil, err
	}

	metrics.EffectsEmitted.WithLabelValues(string(effect.Kind())).Inc()
	logger.FromContext(ctx).Info(LogMsgTestRuleSucceeded, "rule_id", rule.ID, "effect", effect.Kind())
	return effect, nil
}
