package job

// RepeatStatus is the completion signal returned by a step's unit of work.
//
// The sequencer keeps invoking a step while it returns [ContinueRepeating] and
// advances to the next step once it returns [Finished].
type RepeatStatus int

const (
	// Finished means the step is done and the sequencer should advance.
	Finished RepeatStatus = iota

	// ContinueRepeating means the same step must be invoked again.
	ContinueRepeating
)

func (s RepeatStatus) String() string {
	switch s {
	case Finished:
		return "FINISHED"
	case ContinueRepeating:
		return "CONTINUABLE"
	default:
		return "UNKNOWN"
	}
}

// IsContinuable reports whether the step should be invoked again.
func (s RepeatStatus) IsContinuable() bool {
	return s == ContinueRepeating
}

// BatchStatus is the recorded state of a job or step execution.
type BatchStatus string

// Execution states, in lifecycle order.
const (
	StatusStarting  BatchStatus = "STARTING"
	StatusStarted   BatchStatus = "STARTED"
	StatusCompleted BatchStatus = "COMPLETED"
	StatusFailed    BatchStatus = "FAILED"
)

// IsTerminal reports whether no further transitions can happen.
func (s BatchStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}
