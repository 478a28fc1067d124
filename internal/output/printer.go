// Package output renders job progress and execution records to the terminal.
//
// Narrative lines produced by steps are written verbatim, one per line, so the
// observable story stays stable regardless of styling. Everything else (step
// headers, summaries, history tables) is decoration styled with lipgloss and
// can be suppressed with quiet mode.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"systerm/internal/job"
)

// Printer writes formatted output.
//
// Create with [NewPrinter] for stdout or [NewPrinterWithWriter] for tests.
// Colors are chosen from the capabilities of the destination writer, so a
// bytes.Buffer receives plain text.
type Printer struct {
	out   io.Writer
	quiet bool

	header  lipgloss.Style
	step    lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

// NewPrinter creates a [Printer] writing to stdout.
func NewPrinter() *Printer {
	return NewPrinterWithWriter(os.Stdout)
}

// NewPrinterWithWriter creates a [Printer] writing to w.
func NewPrinterWithWriter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		out:     w,
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		step:    r.NewStyle().Foreground(lipgloss.Color("14")),
		success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		muted:   r.NewStyle().Faint(true),
	}
}

// SetQuiet suppresses everything except narrative lines and errors.
func (p *Printer) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// Narrative writes a line emitted by a step. It is never suppressed.
func (p *Printer) Narrative(line string) {
	fmt.Fprintln(p.out, line)
}

// JobStart announces a job execution.
func (p *Printer) JobStart(jobName string, totalSteps int) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, p.header.Render(fmt.Sprintf("▶ %s (%d steps)", jobName, totalSteps)))
}

// StepStart announces a step. It matches [job.ProgressCallback].
func (p *Printer) StepStart(stepIndex, totalSteps int, stepName string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, p.step.Render(fmt.Sprintf("[%d/%d] %s", stepIndex, totalSteps, stepName)))
}

// JobComplete prints the summary of a successful execution.
func (p *Printer) JobComplete(exec *job.JobExecution) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, p.success.Render(fmt.Sprintf("✓ %s %s in %s", exec.JobName, exec.Status, formatDuration(exec.Duration()))))
	fmt.Fprintln(p.out, p.muted.Render("execution "+exec.ID))
}

// JobFailed prints the failure of an execution. It is printed even in quiet
// mode. exec may be nil when the execution could not be recorded.
func (p *Printer) JobFailed(exec *job.JobExecution, err error) {
	name := "job"
	if exec != nil {
		name = exec.JobName
	}
	fmt.Fprintln(p.out, p.failure.Render(fmt.Sprintf("✗ %s FAILED: %v", name, err)))
	if exec != nil && !p.quiet {
		fmt.Fprintln(p.out, p.muted.Render("execution "+exec.ID))
	}
}

// StepPlan lists the steps a job would run, without running them.
func (p *Printer) StepPlan(jobName string, stepNames []string, repeating map[string]string) {
	fmt.Fprintln(p.out, p.header.Render(jobName))
	for i, name := range stepNames {
		line := fmt.Sprintf("  %d. %s", i+1, name)
		if note, ok := repeating[name]; ok {
			line += " " + p.muted.Render("("+note+")")
		}
		fmt.Fprintln(p.out, line)
	}
}

// History prints one line per execution, oldest first.
func (p *Printer) History(execs []*job.JobExecution) {
	if len(execs) == 0 {
		fmt.Fprintln(p.out, p.muted.Render("No executions recorded."))
		return
	}

	fmt.Fprintln(p.out, p.header.Render(fmt.Sprintf("%-36s  %-10s  %-20s  %s", "EXECUTION", "STATUS", "STARTED", "DURATION")))
	for _, exec := range execs {
		fmt.Fprintf(p.out, "%-36s  %s  %-20s  %s\n",
			exec.ID,
			p.statusStyle(exec.Status).Render(fmt.Sprintf("%-10s", exec.Status)),
			exec.StartTime.Local().Format("2006-01-02 15:04:05"),
			formatDuration(exec.Duration()),
		)
	}
}

// Execution prints a single execution with all of its steps.
func (p *Printer) Execution(exec *job.JobExecution) {
	fmt.Fprintln(p.out, p.header.Render(exec.JobName+" "+exec.ID))
	fmt.Fprintf(p.out, "Status:   %s\n", p.statusStyle(exec.Status).Render(string(exec.Status)))
	fmt.Fprintf(p.out, "Started:  %s\n", exec.StartTime.Local().Format(time.RFC3339))
	if !exec.EndTime.IsZero() {
		fmt.Fprintf(p.out, "Duration: %s\n", formatDuration(exec.Duration()))
	}
	if exec.Failure != "" {
		fmt.Fprintf(p.out, "Failure:  %s\n", p.failure.Render(firstLine(exec.Failure)))
	}

	fmt.Fprintln(p.out, "Steps:")
	for _, se := range exec.Steps {
		fmt.Fprintf(p.out, "  %-20s %s  invocations=%d\n",
			se.Name, p.statusStyle(se.Status).Render(string(se.Status)), se.Invocations)
	}

	if len(exec.Context) > 0 {
		fmt.Fprintln(p.out, "Context:")
		for _, key := range sortedKeys(exec.Context) {
			fmt.Fprintf(p.out, "  %s=%d\n", key, exec.Context[key])
		}
	}
}

func (p *Printer) statusStyle(s job.BatchStatus) lipgloss.Style {
	switch s {
	case job.StatusCompleted:
		return p.success
	case job.StatusFailed:
		return p.failure
	default:
		return p.muted
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	return d.Round(time.Millisecond).String()
}

// firstLine drops panic stack traces from failure messages.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
