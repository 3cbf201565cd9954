package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ThrowBot_Go/internal/bundle"
	"github.com/osse101/ThrowBot_Go/internal/config"
	"github.com/osse101/ThrowBot_Go/internal/database"
	"github.com/osse101/ThrowBot_Go/internal/database/postgres"
	"github.com/osse101/ThrowBot_Go/internal/validation"
)

const storeTimeout = 2 * time.Minute

type SeedCommand struct{}

func (c *SeedCommand) Name() string {
	return "seed"
}

func (c *SeedCommand) Description() string {
	return "Load sounds, items and rules from a bundle file"
}

func (c *SeedCommand) Run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("bundle file required: seed <file.json>")
	}
	path := args[0]

	PrintInfo("Validating %s...", path)
	b, err := bundle.Load(path, validation.NewSchemaValidator())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	pool, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	sum, err := bundle.Apply(ctx, b, postgres.NewAssetRepository(pool), postgres.NewRuleRepository(pool))
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	PrintSuccess("Sounds: %d created, %d already present", sum.SoundsCreated, sum.SoundsSkipped)
	PrintSuccess("Items:  %d created, %d already present", sum.ItemsCreated, sum.ItemsSkipped)
	PrintSuccess("Rules:  %d created, %d updated", sum.RulesCreated, sum.RulesUpdated)
	PrintInfo("Running servers pick up timer changes on the next rule edit or restart")
	return nil
}

// openDatabase connects with the app's pool settings and applies pending migrations
func openDatabase(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := database.NewPool(databaseURL(), config.DefaultDBMaxConns,
		config.DefaultDBMaxConnIdleTime, config.DefaultDBMaxConnLifetime)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
