// Package cli maps command lines onto handlers. Every handler writes through
// the Reporter and leaves the process exit code in its ExecutionResult.
package cli

import (
	"log/slog"

	"appinst/pkg/config"
	"appinst/pkg/display"
)

// Managers bundles what the handlers work with.
type Managers struct {
	Disp     *display.Reporter
	SysCfg   config.ReadOnly
	Settings *config.SettingsStore
	// LogLevel is raised to debug by --verbose.
	LogLevel *slog.LevelVar
}

// ExecutionResult is the outcome of a handler that did not fail.
type ExecutionResult struct {
	ExitCode int
}

// GlobalFlags are accepted by every command.
type GlobalFlags struct {
	Verbose bool
	Style   string
}
