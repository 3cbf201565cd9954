package main

import (
	"fmt"
	"net/http"
	"time"
)

const (
	healthTimeout  = 5 * time.Second
	slowHealthMark = time.Second
)

type HealthCheckCommand struct{}

func (c *HealthCheckCommand) Name() string {
	return "health-check"
}

func (c *HealthCheckCommand) Description() string {
	return "Check liveness and readiness of a running server"
}

func (c *HealthCheckCommand) Run(args []string) error {
	base := apiURL()
	if len(args) > 0 {
		base = args[0]
	}

	PrintHeader(fmt.Sprintf("Health Check (%s)", base))

	for _, path := range []string{"/healthz", "/readyz"} {
		start := time.Now()
		if err := checkEndpoint(base + path); err != nil {
			PrintError("%s failed: %v", path, err)
			return err
		}
		if d := time.Since(start); d > slowHealthMark {
			PrintWarning("%s slow response time (%v)", path, d)
		} else {
			PrintSuccess("%s ok (%v)", path, d)
		}
	}
	return nil
}

func checkEndpoint(url string) error {
	client := http.Client{Timeout: healthTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status code %d", resp.StatusCode)
	}
	return nil
}
