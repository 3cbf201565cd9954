package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/repository"
)

const ruleColumns = `rule_id, name, enabled, trigger, outcome, minimum_role,
	cooldown_ms, outcome_delay_ms, sort_order, created_at, updated_at`

// RuleRepository implements repository.Rule for PostgreSQL.
// Triggers and outcomes are stored as tagged JSONB documents.
type RuleRepository struct {
	db *pgxpool.Pool
}

// NewRuleRepository creates a new RuleRepository
func NewRuleRepository(db *pgxpool.Pool) repository.Rule {
	return &RuleRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (domain.Rule, error) {
	var (
		rule                 domain.Rule
		triggerJSON, outcome []byte
		role                 string
		cooldownMs, delayMs  int64
	)
	err := row.Scan(&rule.ID, &rule.Name, &rule.Enabled, &triggerJSON, &outcome, &role,
		&cooldownMs, &delayMs, &rule.Order, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return domain.Rule{}, err
	}

	if rule.Trigger, err = domain.UnmarshalTrigger(triggerJSON); err != nil {
		return domain.Rule{}, fmt.Errorf("%s %s: %w", ErrMsgFailedToDecodeRule, rule.ID, err)
	}
	if rule.Outcome, err = domain.UnmarshalOutcome(outcome); err != nil {
		return domain.Rule{}, fmt.Errorf("%s %s: %w", ErrMsgFailedToDecodeRule, rule.ID, err)
	}
	rule.MinimumRole = domain.MinimumRole(role)
	rule.CooldownMs = uint32(cooldownMs)
	rule.OutcomeDelayMs = uint32(delayMs)
	return rule, nil
}

func (r *RuleRepository) queryRules(ctx context.Context, query string, args ...any) ([]domain.Rule, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryRules, err)
	}
	defer rows.Close()

	rules := []domain.Rule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryRules, err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryRules, err)
	}
	return rules, nil
}

// ListEnabled returns every enabled rule in display order
func (r *RuleRepository) ListEnabled(ctx context.Context) ([]domain.Rule, error) {
	return r.queryRules(ctx, `SELECT `+ruleColumns+` FROM rules WHERE enabled ORDER BY sort_order, created_at`)
}

// ListByTriggerKind returns the enabled rules with the given trigger kind
func (r *RuleRepository) ListByTriggerKind(ctx context.Context, kind domain.TriggerKind) ([]domain.Rule, error) {
	return r.queryRules(ctx, `SELECT `+ruleColumns+` FROM rules
		WHERE enabled AND trigger_type = $1 ORDER BY sort_order, created_at`, string(kind))
}

// List returns every rule, enabled or not
func (r *RuleRepository) List(ctx context.Context) ([]domain.Rule, error) {
	return r.queryRules(ctx, `SELECT `+ruleColumns+` FROM rules ORDER BY sort_order, created_at`)
}

// Get retrieves a rule by id
func (r *RuleRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Rule, error) {
	row := r.db.QueryRow(ctx, `SELECT `+ruleColumns+` FROM rules WHERE rule_id = $1`, id)
	rule, err := scanRule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRule, err)
	}
	return &rule, nil
}

func encodeRule(rule *domain.Rule) (triggerJSON, outcomeJSON []byte, err error) {
	if triggerJSON, err = domain.MarshalTrigger(rule.Trigger); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedToMarshalTrigger, err)
	}
	if outcomeJSON, err = domain.MarshalOutcome(rule.Outcome); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedToMarshalOutcome, err)
	}
	return triggerJSON, outcomeJSON, nil
}

// Create inserts a rule, assigning an id when the rule has none.
// Timestamps on the rule are replaced with the stored values.
func (r *RuleRepository) Create(ctx context.Context, rule *domain.Rule) error {
	triggerJSON, outcomeJSON, err := encodeRule(rule)
	if err != nil {
		return err
	}
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}

	query := `
		INSERT INTO rules (rule_id, name, enabled, trigger_type, trigger, outcome, minimum_role,
			cooldown_ms, outcome_delay_ms, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRow(ctx, query, rule.ID, rule.Name, rule.Enabled, string(rule.Trigger.Kind()),
		triggerJSON, outcomeJSON, string(rule.MinimumRole), int64(rule.CooldownMs),
		int64(rule.OutcomeDelayMs), rule.Order).Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertRule, err)
	}
	return nil
}

// Update replaces every mutable column of an existing rule
func (r *RuleRepository) Update(ctx context.Context, rule *domain.Rule) error {
	triggerJSON, outcomeJSON, err := encodeRule(rule)
	if err != nil {
		return err
	}

	query := `
		UPDATE rules
		SET name = $2, enabled = $3, trigger_type = $4, trigger = $5, outcome = $6,
			minimum_role = $7, cooldown_ms = $8, outcome_delay_ms = $9, sort_order = $10,
			updated_at = NOW()
		WHERE rule_id = $1
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRow(ctx, query, rule.ID, rule.Name, rule.Enabled, string(rule.Trigger.Kind()),
		triggerJSON, outcomeJSON, string(rule.MinimumRole), int64(rule.CooldownMs),
		int64(rule.OutcomeDelayMs), rule.Order).Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRuleNotFound
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateRule, err)
	}
	return nil
}

// Delete removes a rule and, by cascade, its execution history
func (r *RuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM rules WHERE rule_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteRule, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

// UpdateOrder applies every position change in one transaction.
// An unknown id aborts the whole batch.
func (r *RuleRepository) UpdateOrder(ctx context.Context, updates []domain.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	now := time.Now()
	for _, u := range updates {
		tag, err := tx.Exec(ctx, `UPDATE rules SET sort_order = $2, updated_at = $3 WHERE rule_id = $1`,
			u.ID, u.Order, now)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateOrder, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", domain.ErrRuleNotFound, u.ID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}
