package job

import (
	"errors"
	"fmt"
)

// Sentinel errors for job construction and execution.
var (
	// ErrStepExecutionFailed is wrapped by every [StepError]. Callers can test
	// for any step failure with errors.Is(err, ErrStepExecutionFailed).
	ErrStepExecutionFailed = errors.New("step execution failed")

	// ErrInvalidJob is returned by [NewSequencer] when the step list cannot
	// form a runnable job.
	ErrInvalidJob = errors.New("invalid job definition")
)

// StepError reports a failed invocation of a step's unit of work.
//
// The sequencer stops at the first StepError; no retry is attempted and the
// remaining steps are never started.
type StepError struct {
	// Step is the name of the failed step.
	Step string

	// Invocation is the 1-based invocation of the step that failed.
	Invocation int

	// Err is the underlying cause returned (or panicked) by the unit of work.
	Err error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed on invocation %d: %v", e.Step, e.Invocation, e.Err)
}

// Unwrap exposes both the cause and [ErrStepExecutionFailed] to errors.Is.
func (e *StepError) Unwrap() []error {
	return []error{ErrStepExecutionFailed, e.Err}
}
