// Package logging builds the console logger used for degraded-state
// warnings (failed saves, discarded corrupt data). User-facing output
// goes through the ui helpers instead.
package logging

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a leveled stderr logger. Unknown level names fall back to
// warn so a typo in the config never silences real problems.
func New(level string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "taskpad",
		Level:  parseLevel(level),
	})
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning", "":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}
