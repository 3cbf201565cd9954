package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	dbWaitRetries  = 30
	dbWaitInterval = 2 * time.Second
)

type WaitForDBCommand struct{}

func (c *WaitForDBCommand) Name() string {
	return "wait-for-db"
}

func (c *WaitForDBCommand) Description() string {
	return "Wait for database to be ready (with retries)"
}

func (c *WaitForDBCommand) Run(args []string) error {
	PrintHeader("Waiting for database...")
	return pingDatabase(databaseURL(), dbWaitRetries, dbWaitInterval)
}

func pingDatabase(dbURL string, retries int, interval time.Duration) error {
	var err error
	for i := 0; i < retries; i++ {
		var db *sql.DB
		db, err = sql.Open("pgx", dbURL)
		if err == nil {
			err = db.Ping()
			db.Close()
			if err == nil {
				PrintSuccess("Database is ready")
				return nil
			}
		}

		fmt.Printf("Database not ready (%d/%d): %v\n", i+1, retries, err)
		if i < retries-1 {
			time.Sleep(interval)
		}
	}

	return fmt.Errorf("database failed to become ready after %d attempts: %w", retries, err)
}
