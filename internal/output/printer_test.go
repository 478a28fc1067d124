package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"systerm/internal/job"
)

func setupPrinter() (*Printer, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewPrinterWithWriter(buf), buf
}

func sampleExecution() *job.JobExecution {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &job.JobExecution{
		ID:        "0b9c1f2e-0000-4000-8000-000000000001",
		JobName:   "systemTerminationSimulationJob",
		Status:    job.StatusCompleted,
		StartTime: start,
		EndTime:   start.Add(1500 * time.Millisecond),
		Steps: []*job.StepExecution{
			{Name: "enterWorldStep", Status: job.StatusCompleted, Invocations: 1},
			{Name: "defeatProcessStep", Status: job.StatusCompleted, Invocations: 5},
		},
		Context: map[string]int{"processKilled": 5},
	}
}

func TestPrinter_Narrative(t *testing.T) {
	p, buf := setupPrinter()

	p.Narrative("first")
	p.Narrative("second")

	assert.Equal(t, "first\nsecond\n", buf.String())
}

func TestPrinter_NarrativeIsNeverQuiet(t *testing.T) {
	p, buf := setupPrinter()
	p.SetQuiet(true)

	p.JobStart("job", 4)
	p.StepStart(1, 4, "enterWorldStep")
	p.Narrative("story line")
	p.JobComplete(sampleExecution())

	assert.Equal(t, "story line\n", buf.String())
}

func TestPrinter_StepStart(t *testing.T) {
	p, buf := setupPrinter()

	p.JobStart("systemTerminationSimulationJob", 4)
	p.StepStart(3, 4, "defeatProcessStep")

	assert.Contains(t, buf.String(), "systemTerminationSimulationJob (4 steps)")
	assert.Contains(t, buf.String(), "[3/4] defeatProcessStep")
}

func TestPrinter_JobComplete(t *testing.T) {
	p, buf := setupPrinter()

	p.JobComplete(sampleExecution())

	assert.Contains(t, buf.String(), "systemTerminationSimulationJob COMPLETED in 1.5s")
	assert.Contains(t, buf.String(), "0b9c1f2e-0000-4000-8000-000000000001")
}

func TestPrinter_JobFailed(t *testing.T) {
	t.Run("with execution", func(t *testing.T) {
		p, buf := setupPrinter()
		exec := sampleExecution()
		exec.Status = job.StatusFailed

		p.JobFailed(exec, errors.New("boom"))

		assert.Contains(t, buf.String(), "systemTerminationSimulationJob FAILED: boom")
		assert.Contains(t, buf.String(), exec.ID)
	})

	t.Run("without execution", func(t *testing.T) {
		p, buf := setupPrinter()

		p.JobFailed(nil, errors.New("no repository"))

		assert.Contains(t, buf.String(), "job FAILED: no repository")
	})

	t.Run("quiet still reports failure", func(t *testing.T) {
		p, buf := setupPrinter()
		p.SetQuiet(true)

		p.JobFailed(sampleExecution(), errors.New("boom"))

		assert.Contains(t, buf.String(), "FAILED: boom")
		assert.NotContains(t, buf.String(), "execution ")
	})
}

func TestPrinter_StepPlan(t *testing.T) {
	p, buf := setupPrinter()

	p.StepPlan("job", []string{"a", "b", "c"}, map[string]string{"b": "repeats 5 times"})

	out := buf.String()
	assert.Contains(t, out, "1. a")
	assert.Contains(t, out, "2. b (repeats 5 times)")
	assert.Contains(t, out, "3. c")
	assert.Less(t, strings.Index(out, "1. a"), strings.Index(out, "3. c"))
}

func TestPrinter_History(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		p, buf := setupPrinter()
		p.History(nil)
		assert.Contains(t, buf.String(), "No executions recorded.")
	})

	t.Run("rows", func(t *testing.T) {
		p, buf := setupPrinter()
		failed := sampleExecution()
		failed.ID = "second"
		failed.Status = job.StatusFailed

		p.History([]*job.JobExecution{sampleExecution(), failed})

		out := buf.String()
		assert.Contains(t, out, "EXECUTION")
		assert.Contains(t, out, "0b9c1f2e-0000-4000-8000-000000000001")
		assert.Contains(t, out, "COMPLETED")
		assert.Contains(t, out, "second")
		assert.Contains(t, out, "FAILED")
	})
}

func TestPrinter_Execution(t *testing.T) {
	p, buf := setupPrinter()
	exec := sampleExecution()
	exec.Failure = "step \"x\" failed: panic: kaboom\ngoroutine 1 [running]:"

	p.Execution(exec)

	out := buf.String()
	assert.Contains(t, out, "defeatProcessStep")
	assert.Contains(t, out, "invocations=5")
	assert.Contains(t, out, "processKilled=5")
	assert.Contains(t, out, "panic: kaboom")
	assert.NotContains(t, out, "goroutine 1", "stack traces are trimmed")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", formatDuration(0))
	assert.Equal(t, "1.235s", formatDuration(1234567*time.Microsecond))
}
