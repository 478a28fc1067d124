package job

import "time"

// JobExecution is the durable record of one run of a job.
type JobExecution struct {
	ID        string           `yaml:"id"`
	JobName   string           `yaml:"job_name"`
	Status    BatchStatus      `yaml:"status"`
	StartTime time.Time        `yaml:"start_time"`
	EndTime   time.Time        `yaml:"end_time,omitempty"`
	Failure   string           `yaml:"failure,omitempty"`
	Steps     []*StepExecution `yaml:"steps"`

	// Context is the final snapshot of execution context counters.
	Context map[string]int `yaml:"context,omitempty"`
}

// StepExecution is the durable record of one step within a job execution.
type StepExecution struct {
	Name        string      `yaml:"name"`
	Status      BatchStatus `yaml:"status"`
	Invocations int         `yaml:"invocations"`
	StartTime   time.Time   `yaml:"start_time"`
	EndTime     time.Time   `yaml:"end_time,omitempty"`
	Failure     string      `yaml:"failure,omitempty"`
}

// Step returns the execution record of the named step, or nil if the step
// has not started.
func (je *JobExecution) Step(name string) *StepExecution {
	for _, se := range je.Steps {
		if se.Name == name {
			return se
		}
	}
	return nil
}

// Duration returns the elapsed time of the execution. For an execution still
// in progress it returns zero.
func (je *JobExecution) Duration() time.Duration {
	if je.EndTime.IsZero() {
		return 0
	}
	return je.EndTime.Sub(je.StartTime)
}

// Clone returns a deep copy so repositories can store snapshots that later
// mutations by the sequencer do not affect.
func (je *JobExecution) Clone() *JobExecution {
	if je == nil {
		return nil
	}
	out := *je
	out.Steps = make([]*StepExecution, len(je.Steps))
	for i, se := range je.Steps {
		cp := *se
		out.Steps[i] = &cp
	}
	if je.Context != nil {
		out.Context = make(map[string]int, len(je.Context))
		for k, v := range je.Context {
			out.Context[k] = v
		}
	}
	return &out
}
