package main

import (
	"context"
	"fmt"

	"github.com/osse101/ThrowBot_Go/internal/bundle"
	"github.com/osse101/ThrowBot_Go/internal/database/postgres"
)

type ExportCommand struct{}

func (c *ExportCommand) Name() string {
	return "export"
}

func (c *ExportCommand) Description() string {
	return "Write every sound, item and rule to a bundle file"
}

func (c *ExportCommand) Run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("output file required: export <file.json>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	pool, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	b, err := bundle.Export(ctx, postgres.NewAssetRepository(pool), postgres.NewRuleRepository(pool))
	if err != nil {
		return err
	}
	if err := bundle.Save(args[0], b); err != nil {
		return err
	}

	PrintSuccess("Exported %d sounds, %d items and %d rules to %s",
		len(b.Sounds), len(b.Items), len(b.Rules), args[0])
	return nil
}
