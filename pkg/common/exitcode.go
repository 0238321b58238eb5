package common

// Process exit codes. They are stable so scripts can tell a missing answer
// from a broken terminal or a user abort.
const (
	ExitOK           = 0
	ExitError        = 1
	ExitPromptInput  = 2
	ExitCancelled    = 3
	ExitHashMismatch = 4
)
