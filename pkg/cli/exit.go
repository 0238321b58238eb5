package cli

import (
	"errors"
	"log/slog"

	"appinst/pkg/common"
	"appinst/pkg/display"
	"appinst/pkg/installer"
	"appinst/pkg/resource"
)

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return common.ExitOK
	case errors.Is(err, display.ErrPromptInput):
		return common.ExitPromptInput
	case errors.Is(err, installer.ErrCancelled):
		return common.ExitCancelled
	case errors.Is(err, installer.ErrHashMismatch):
		return common.ExitHashMismatch
	default:
		return common.ExitError
	}
}

// ReportError tells the user why the command failed. A declined hash
// mismatch has already been explained by the installer.
func ReportError(rep *display.Reporter, err error) {
	loc := rep.Localizer()
	var msg string
	switch {
	case errors.Is(err, display.ErrPromptInput):
		msg = loc.Get(resource.PromptInputError)
	case errors.Is(err, installer.ErrCancelled):
		msg = loc.Get(resource.OperationCancelled)
	case errors.Is(err, installer.ErrHashMismatch):
		return
	default:
		msg = "Error: " + err.Error()
	}
	if _, werr := rep.Error().WriteString(msg + "\n"); werr != nil {
		slog.Warn("Failed to report error", "error", err, "writeError", werr)
	}
}
