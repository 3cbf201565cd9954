package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/repository"
)

type roleRepository struct {
	db *pgxpool.Pool
}

// NewRoleRepository creates a new PostgreSQL channel role repository
func NewRoleRepository(db *pgxpool.Pool) repository.Role {
	return &roleRepository{db: db}
}

// ListByRole returns the members of a role ordered by login
func (r *roleRepository) ListByRole(ctx context.Context, role domain.ChannelRole) ([]domain.UserRef, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, login, display_name
		FROM channel_roles
		WHERE role = $1
		ORDER BY login
	`, string(role))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryRoles, err)
	}
	defer rows.Close()

	users := []domain.UserRef{}
	for rows.Next() {
		var u domain.UserRef
		if err := rows.Scan(&u.ID, &u.Login, &u.DisplayName); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryRoles, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryRoles, err)
	}
	return users, nil
}

// Add grants a role, refreshing the stored names on conflict
func (r *roleRepository) Add(ctx context.Context, role domain.ChannelRole, user domain.UserRef) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO channel_roles (user_id, role, login, display_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, role)
		DO UPDATE SET login = EXCLUDED.login, display_name = EXCLUDED.display_name
	`, user.ID, string(role), user.Login, user.DisplayName)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertRole, err)
	}
	return nil
}

// Remove revokes a role. Removing a missing membership is not an error.
func (r *roleRepository) Remove(ctx context.Context, role domain.ChannelRole, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM channel_roles WHERE user_id = $1 AND role = $2`, userID, string(role))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToRemoveRole, err)
	}
	return nil
}
