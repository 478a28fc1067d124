package job

import "context"

// Tasklet is a step's unit of work.
//
// It is invoked once per repetition and returns [ContinueRepeating] to be
// invoked again or [Finished] to let the sequencer advance. A non-nil error
// fails the step and aborts the job.
type Tasklet func(ctx context.Context, sc *StepContext) (RepeatStatus, error)

// Step is a named unit of work within a job.
type Step struct {
	// Name identifies the step in execution records and progress output.
	// Names must be unique within a job.
	Name string

	// Tasklet is invoked until it returns [Finished] or an error.
	Tasklet Tasklet
}

// NewStep pairs a name with its unit of work.
func NewStep(name string, tasklet Tasklet) Step {
	return Step{Name: name, Tasklet: tasklet}
}

// FinishedTasklet adapts a function that always completes in one invocation.
func FinishedTasklet(fn func(ctx context.Context, sc *StepContext) error) Tasklet {
	return func(ctx context.Context, sc *StepContext) (RepeatStatus, error) {
		if err := fn(ctx, sc); err != nil {
			return Finished, err
		}
		return Finished, nil
	}
}
