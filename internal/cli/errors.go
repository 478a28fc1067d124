package cli

import (
	"errors"
	"fmt"
)

// ExitError represents a command failure with a specific exit code.
//
// Commands return NewExitError(code) instead of calling os.Exit, after they
// have reported the failure themselves. [RunApp] extracts the code with
// [IsExitError] and [Execute] performs the actual exit, which keeps exit codes
// assertable in tests.
type ExitError struct {
	// Code is the exit code to return to the shell.
	// Convention: 0 = success, 1 = job or command failure.
	Code int
}

// Error returns "exit status N", matching the os/exec ExitError format.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError creates an [ExitError] with the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// IsExitError checks if err is or wraps an [ExitError] and extracts its code.
//
// Returns (code, true) for an *ExitError and (0, false) for nil or any
// other error.
func IsExitError(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
