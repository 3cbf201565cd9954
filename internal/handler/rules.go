package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/logger"
	"github.com/osse101/ThrowBot_Go/internal/repository"
)

// TimerReloader receives the full set of timer rules after every rule change
type TimerReloader interface {
	Update(ctx context.Context, rules []domain.Rule) error
}

// RuleTester resolves and emits a rule's outcome outside the normal pipeline
type RuleTester interface {
	TestRule(ctx context.Context, rule domain.Rule, ec domain.EventContext) (domain.EffectMessage, error)
}

// RuleHandler serves rule management endpoints
type RuleHandler struct {
	rules  repository.Rule
	timers TimerReloader
	tester RuleTester
}

func NewRuleHandler(rules repository.Rule, timers TimerReloader, tester RuleTester) *RuleHandler {
	return &RuleHandler{
		rules:  rules,
		timers: timers,
		tester: tester,
	}
}

// RuleRequest is the body of rule create and update requests.
// Trigger and outcome are tagged JSON documents, e.g. {"type":"bits","min_bits":100}.
type RuleRequest struct {
	Name           string          `json:"name" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Enabled        *bool           `json:"enabled"`
	Trigger        json.RawMessage `json:"trigger" validate:"required"`
	Outcome        json.RawMessage `json:"outcome" validate:"required"`
	MinimumRole    string          `json:"minimum_role" validate:"minimum_role"`
	CooldownMs     uint32          `json:"cooldown_ms"`
	OutcomeDelayMs uint32          `json:"outcome_delay_ms"`
	Order          int             `json:"order" validate:"min=0"`
}

// toRule decodes the tagged payloads and applies defaults: enabled, minimum role none
func (req RuleRequest) toRule() (domain.Rule, error) {
	trigger, err := domain.UnmarshalTrigger(req.Trigger)
	if err != nil {
		return domain.Rule{}, err
	}
	outcome, err := domain.UnmarshalOutcome(req.Outcome)
	if err != nil {
		return domain.Rule{}, err
	}

	rule := domain.Rule{
		Name:           req.Name,
		Enabled:        true,
		Trigger:        trigger,
		Outcome:        outcome,
		MinimumRole:    domain.MinimumRole(req.MinimumRole),
		CooldownMs:     req.CooldownMs,
		OutcomeDelayMs: req.OutcomeDelayMs,
		Order:          req.Order,
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}
	if rule.MinimumRole == "" {
		rule.MinimumRole = domain.RoleNone
	}
	if err := rule.Validate(); err != nil {
		return domain.Rule{}, err
	}
	return rule, nil
}

// ReorderRequest sets the display position of several rules at once
type ReorderRequest struct {
	Rules []domain.OrderUpdate `json:"rules" validate:"required,min=1,dive"`
}

// TestRuleRequest optionally supplies the event context a test fire resolves against
type TestRuleRequest struct {
	Context *domain.EventContext `json:"context"`
}

// HandleList returns every rule; ?enabled=true restricts to enabled rules
// @Summary List rules
// @Tags rules
// @Produce json
// @Param enabled query bool false "Only enabled rules"
// @Success 200 {object} DataResponse
// @Router /rules [get]
func (h *RuleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		rules []domain.Rule
		err   error
	)
	if r.URL.Query().Get("enabled") == "true" {
		rules, err = h.rules.ListEnabled(r.Context())
	} else {
		rules, err = h.rules.List(r.Context())
	}
	if err != nil {
		respondServiceError(w, r, ErrMsgListRulesFailed, err)
		return
	}
	respondData(w, http.StatusOK, rules)
}

// HandleGet returns one rule
// @Summary Get rule
// @Tags rules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} DataResponse
// @Failure 404 {object} ErrorResponse
// @Router /rules/{id} [get]
func (h *RuleHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := GetIDParam(r, w, "id")
	if !ok {
		return
	}
	rule, err := h.rules.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetRuleFailed, err)
		return
	}
	respondData(w, http.StatusOK, rule)
}

// HandleCreate stores a new rule and refreshes the scheduler
// @Summary Create rule
// @Tags rules
// @Accept json
// @Produce json
// @Param request body RuleRequest true "Rule definition"
// @Success 201 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Router /rules [post]
func (h *RuleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req RuleRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create rule"); err != nil {
		return
	}
	rule, err := req.toRule()
	if err != nil {
		respondServiceError(w, r, ErrMsgInvalidRuleFields, err)
		return
	}

	if err := h.rules.Create(r.Context(), &rule); err != nil {
		respondServiceError(w, r, ErrMsgSaveRuleFailed, err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgRuleSaved, "rule_id", rule.ID, "trigger", rule.Trigger.Kind())

	h.reloadTimers(r.Context())
	respondData(w, http.StatusCreated, rule)
}

// HandleUpdate replaces a rule and refreshes the scheduler
// @Summary Update rule
// @Tags rules
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param request body RuleRequest true "Rule definition"
// @Success 200 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /rules/{id} [put]
func (h *RuleHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := GetIDParam(r, w, "id")
	if !ok {
		return
	}
	var req RuleRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Update rule"); err != nil {
		return
	}
	rule, err := req.toRule()
	if err != nil {
		respondServiceError(w, r, ErrMsgInvalidRuleFields, err)
		return
	}
	rule.ID = id

	if err := h.rules.Update(r.Context(), &rule); err != nil {
		respondServiceError(w, r, ErrMsgSaveRuleFailed, err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgRuleSaved, "rule_id", rule.ID, "trigger", rule.Trigger.Kind())

	h.reloadTimers(r.Context())
	respondData(w, http.StatusOK, rule)
}

// HandleDelete removes a rule and refreshes the scheduler
// @Summary Delete rule
// @Tags rules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /rules/{id} [delete]
func (h *RuleHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := GetIDParam(r, w, "id")
	if !ok {
		return
	}
	if err := h.rules.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, ErrMsgDeleteRuleFailed, err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgRuleDeleted, "rule_id", id)

	h.reloadTimers(r.Context())
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgRuleDeleted})
}

// HandleReorder applies a batch of display positions
// @Summary Reorder rules
// @Tags rules
// @Accept json
// @Produce json
// @Param request body ReorderRequest true "New positions"
// @Success 200 {object} SuccessResponse
// @Router /rules/order [put]
func (h *RuleHandler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Reorder rules"); err != nil {
		return
	}
	if err := h.rules.UpdateOrder(r.Context(), req.Rules); err != nil {
		respondServiceError(w, r, ErrMsgReorderFailed, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgRulesReordered})
}

// HandleTest resolves and emits a rule's outcome without gate or cooldown.
// The body is optional; without it the rule fires with an empty context.
// @Summary Test-fire rule
// @Tags rules
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param request body TestRuleRequest false "Event context"
// @Success 200 {object} DataResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /rules/{id}/test [post]
func (h *RuleHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	id, ok := GetIDParam(r, w, "id")
	if !ok {
		return
	}

	ec := domain.EmptyContext()
	if r.ContentLength != 0 {
		var req TestRuleRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Test rule"); err != nil {
			return
		}
		if req.Context != nil {
			ec = *req.Context
		}
	}

	rule, err := h.rules.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, ErrMsgGetRuleFailed, err)
		return
	}

	effect, err := h.tester.TestRule(r.Context(), *rule, ec)
	if err != nil {
		respondServiceError(w, r, ErrMsgTestRuleFailed, err)
		return
	}
	payload, err := domain.MarshalEffect(effect)
	if err != nil {
		respondServiceError(w, r, ErrMsgTestRuleFailed, err)
		return
	}
	logger.FromContext(r.Context()).Info(LogMsgRuleTested, "rule_id", id, "effect", effect.Kind())
	respondData(w, http.StatusOK, json.RawMessage(payload))
}

// reloadTimers hands the scheduler the current timer rules. The store write has
// already succeeded, so a failure here is logged and the request still succeeds.
func (h *RuleHandler) reloadTimers(ctx context.Context) {
	log := logger.FromContext(ctx)

	timers, err := h.rules.ListByTriggerKind(ctx, domain.TriggerTimer)
	if err == nil {
		err = h.timers.Update(ctx, timers)
	}
	if err != nil {
		log.Error(LogMsgTimerReloadFailed, "error", fmt.Errorf("reload timers: %w", err))
		return
	}
	log.Debug(LogMsgTimersReloaded, "count", len(timers))
}
