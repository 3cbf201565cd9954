package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/repository"
)

type executionRepository struct {
	db *pgxpool.Pool
}

// NewExecutionRepository creates a new PostgreSQL execution history repository
func NewExecutionRepository(db *pgxpool.Pool) repository.Execution {
	return &executionRepository{db: db}
}

// Record stores one execution. CreatedAt is filled from the database when zero.
func (r *executionRepository) Record(ctx context.Context, execution *domain.Execution) error {
	if execution.ID == uuid.Nil {
		execution.ID = uuid.New()
	}

	var metadataJSON []byte
	if execution.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(execution.Metadata)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToMarshalMetadata, err)
		}
	}

	var userID, login, display *string
	if execution.User != nil {
		userID = &execution.User.ID
		login = &execution.User.Login
		display = &execution.User.DisplayName
	}

	query := `
		INSERT INTO rule_executions (execution_id, rule_id, user_id, user_login, user_display_name,
			input_kind, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
		RETURNING created_at
	`
	var createdAt any
	if !execution.CreatedAt.IsZero() {
		createdAt = execution.CreatedAt
	}
	err := r.db.QueryRow(ctx, query, execution.ID, execution.RuleID, userID, login, display,
		string(execution.InputKind), metadataJSON, createdAt).Scan(&execution.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertExecution, err)
	}
	return nil
}

// ListForRule pages through a rule's executions, newest first
func (r *executionRepository) ListForRule(ctx context.Context, ruleID uuid.UUID, q domain.ExecutionQuery) ([]domain.Execution, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT execution_id, rule_id, user_id, user_login, user_display_name, input_kind, metadata, created_at
		FROM rule_executions
		WHERE rule_id = $1`)

	args := []any{ruleID}
	argNum := 2

	if q.Start != nil {
		fmt.Fprintf(&queryBuilder, " AND created_at >= $%d", argNum)
		args = append(args, *q.Start)
		argNum++
	}
	if q.End != nil {
		fmt.Fprintf(&queryBuilder, " AND created_at < $%d", argNum)
		args = append(args, *q.End)
		argNum++
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultExecutionPageSize
	}
	fmt.Fprintf(&queryBuilder, " ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, limit, max(q.Offset, 0))

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryExecutions, err)
	}
	defer rows.Close()

	executions := []domain.Execution{}
	for rows.Next() {
		var (
			e                      domain.Execution
			userID, login, display *string
			inputKind              string
			metadataJSON           []byte
		)
		if err := rows.Scan(&e.ID, &e.RuleID, &userID, &login, &display, &inputKind, &metadataJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryExecutions, err)
		}
		e.InputKind = domain.EventKind(inputKind)
		if userID != nil {
			e.User = &domain.UserRef{ID: *userID}
			if login != nil {
				e.User.Login = *login
			}
			if display != nil {
				e.User.DisplayName = *display
			}
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
				return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUnmarshalMetadata, err)
			}
		}
		executions = append(executions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryExecutions, err)
	}
	return executions, nil
}

// DeleteMany removes the given executions and reports how many existed
func (r *executionRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM rule_executions WHERE execution_id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToDeleteExecutions, err)
	}
	return tag.RowsAffected(), nil
}
