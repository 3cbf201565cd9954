package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const colorReset = "\033[0m"

type tone struct {
	color string
	mark  string
}

var (
	toneInfo    = tone{"\033[0;34m", "ℹ"}
	toneSuccess = tone{"\033[0;32m", "✓"}
	toneWarning = tone{"\033[1;33m", "⚠"}
	toneError   = tone{"\033[0;31m", "✗"}
)

// stdout is swapped in tests
var stdout io.Writer = os.Stdout

// NO_COLOR keeps CI logs and piped output free of escape codes
func colorEnabled() bool {
	_, off := os.LookupEnv("NO_COLOR")
	return !off
}

func paint(color, s string) string {
	if !colorEnabled() {
		return s
	}
	return color + s + colorReset
}

func say(t tone, format string, a ...any) {
	fmt.Fprintln(stdout, paint(t.color, t.mark+" "+fmt.Sprintf(format, a...)))
}

func PrintInfo(format string, a ...any)    { say(toneInfo, format, a...) }
func PrintSuccess(format string, a ...any) { say(toneSuccess, format, a...) }
func PrintWarning(format string, a ...any) { say(toneWarning, format, a...) }
func PrintError(format string, a ...any)   { say(toneError, format, a...) }

func PrintHeader(title string) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, paint(toneWarning.color, "=== "+title+" ==="))
}

// Shell metacharacters refused in arguments handed to the go tool. '&' and
// ';' stay allowed because database URLs carry query strings.
var hostilePatterns = []string{"|", "`", "$(", "&&", "||", ">", "<"}

func checkHostile(inputs ...string) error {
	for _, s := range inputs {
		if strings.ContainsAny(s, "\n\r\x00") {
			return fmt.Errorf("hostile input detected: control character in %q", s)
		}
		for _, p := range hostilePatterns {
			if strings.Contains(s, p) {
				return fmt.Errorf("hostile input detected: pattern %q in %q", p, s)
			}
		}
	}
	return nil
}

// runGoTool runs `go <args>` with output streamed to the terminal
func runGoTool(args ...string) error {
	if err := checkHostile(args...); err != nil {
		return err
	}
	// #nosec G204 - arguments are checked above
	cmd := exec.Command("go", args...)
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
