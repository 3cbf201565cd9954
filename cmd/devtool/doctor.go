package main

import (
	"fmt"
	"time"
)

type DoctorCommand struct{}

func (c *DoctorCommand) Name() string {
	return "doctor"
}

func (c *DoctorCommand) Description() string {
	return "Diagnose environment issues (db + server)"
}

func (c *DoctorCommand) Run(args []string) error {
	PrintHeader("Running Doctor...")

	hasError := false

	if err := pingDatabase(databaseURL(), 1, time.Second); err != nil {
		PrintError("Database check failed: %v", err)
		hasError = true
	} else {
		PrintSuccess("Database OK")
	}

	if err := (&HealthCheckCommand{}).Run(nil); err != nil {
		PrintWarning("Server check failed (is it running?): %v", err)
		hasError = true
	} else {
		PrintSuccess("Server OK")
	}

	if hasError {
		return fmt.Errorf("doctor found issues")
	}

	PrintSuccess("All systems operational!")
	return nil
}
