package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ThrowBot_Go/internal/database/postgres"
	"github.com/osse101/ThrowBot_Go/internal/repository"
)

// Repositories holds all repository implementations used by the application.
type Repositories struct {
	Rules      repository.Rule
	Assets     repository.Asset
	Roles      repository.Role
	Executions repository.Execution
}

// InitializeRepositories creates all repository implementations over one pool
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Rules:      postgres.NewRuleRepository(dbPool),
		Assets:     postgres.NewAssetRepository(dbPool),
		Roles:      postgres.NewRoleRepository(dbPool),
		Executions: postgres.NewExecutionRepository(dbPool),
	}
}
