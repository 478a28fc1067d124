package job

// ExecutionContext holds state shared across invocations within a single job
// execution.
//
// A fresh ExecutionContext is created for every [Sequencer.Run], so counters
// start at zero for each execution and concurrent runs never share state.
// It is not safe for concurrent use; steps run sequentially.
type ExecutionContext struct {
	counters map[string]int
}

func newExecutionContext() *ExecutionContext {
	return &ExecutionContext{counters: make(map[string]int)}
}

// Increment adds one to the named counter and returns the new value.
func (ec *ExecutionContext) Increment(key string) int {
	ec.counters[key]++
	return ec.counters[key]
}

// Counter returns the current value of the named counter, zero if unset.
func (ec *ExecutionContext) Counter(key string) int {
	return ec.counters[key]
}

// Snapshot returns a copy of all counters.
func (ec *ExecutionContext) Snapshot() map[string]int {
	out := make(map[string]int, len(ec.counters))
	for k, v := range ec.counters {
		out[k] = v
	}
	return out
}

// StepContext is passed to every tasklet invocation.
type StepContext struct {
	// JobName is the name of the running job.
	JobName string

	// ExecutionID identifies the running job execution.
	ExecutionID string

	// StepName is the name of the step being invoked.
	StepName string

	// Invocation is the 1-based count of invocations of this step so far,
	// including the current one.
	Invocation int

	// Execution is the job-scoped shared state.
	Execution *ExecutionContext
}
