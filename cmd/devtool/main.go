package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	registry := NewRegistry()
	registry.Register(groupDatabase, &MigrateCommand{})
	registry.Register(groupDatabase, &WaitForDBCommand{})
	registry.Register(groupContent, &SeedCommand{})
	registry.Register(groupContent, &ExportCommand{})
	registry.Register(groupServer, &HealthCheckCommand{})
	registry.Register(groupServer, &TestEventCommand{})
	registry.Register(groupServer, &DoctorCommand{})

	if len(os.Args) < 2 {
		registry.PrintHelp(os.Stderr)
		os.Exit(1)
	}

	cmd, ok := registry.Get(os.Args[1])
	if !ok {
		PrintError("Unknown command: %s", os.Args[1])
		registry.PrintHelp(os.Stderr)
		os.Exit(1)
	}

	if err := cmd.Run(os.Args[2:]); err != nil {
		PrintError("%v", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// databaseURL prefers DB_URL and otherwise builds the URL the app would use
func databaseURL() string {
	if dbURL := os.Getenv("DB_URL"); dbURL != "" {
		return dbURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "throwbot"))
}

func apiURL() string {
	return getEnv("API_URL", "http://localhost:8080")
}
