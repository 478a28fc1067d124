// Package job runs a fixed, ordered sequence of steps to completion.
//
// The package provides [Sequencer], which invokes each [Step]'s [Tasklet]
// in order. A tasklet that returns [ContinueRepeating] is invoked again before
// the sequencer advances; [Finished] moves on to the next step. The first
// failure aborts the job and is returned to the caller as a [StepError].
//
// Key concepts:
//   - Shared state across repetitions lives in a per-execution [ExecutionContext]
//   - Every run is recorded through a [Repository] as a [JobExecution]
//   - Each tasklet invocation is wrapped in a [Tx] from the repository
//   - Progress can be tracked via [ProgressCallback]
package job

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProgressCallback is invoked before each step begins execution.
//
// The callback receives stepIndex (1-based), totalSteps count, and the step
// name. This enables progress reporting in the UI.
type ProgressCallback func(stepIndex, totalSteps int, stepName string)

// Sequencer executes an ordered list of steps.
//
// Create with [NewSequencer]. A Sequencer holds no per-run state, so Run may
// be called repeatedly and each call starts from a fresh [ExecutionContext].
type Sequencer struct {
	name     string
	steps    []Step
	repo     Repository
	logger   *zap.Logger
	progress ProgressCallback

	now   func() time.Time
	newID func() string
}

// Option configures a [Sequencer].
type Option func(*Sequencer)

// WithRepository records executions in repo instead of discarding them.
func WithRepository(repo Repository) Option {
	return func(s *Sequencer) {
		if repo != nil {
			s.repo = repo
		}
	}
}

// WithLogger sets the structured logger. The default logs nothing.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Sequencer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProgressCallback configures an optional callback fired before each step.
func WithProgressCallback(cb ProgressCallback) Option {
	return func(s *Sequencer) {
		s.progress = cb
	}
}

// NewSequencer builds a [Sequencer] for the named job.
//
// Steps run in the order given. Returns an error wrapping [ErrInvalidJob]
// when the job name is empty, there are no steps, a step has no name or
// tasklet, or two steps share a name.
func NewSequencer(name string, steps []Step, opts ...Option) (*Sequencer, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: job name is empty", ErrInvalidJob)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: job %q has no steps", ErrInvalidJob, name)
	}

	seen := make(map[string]bool, len(steps))
	for i, step := range steps {
		if step.Name == "" {
			return nil, fmt.Errorf("%w: step %d has no name", ErrInvalidJob, i+1)
		}
		if step.Tasklet == nil {
			return nil, fmt.Errorf("%w: step %q has no tasklet", ErrInvalidJob, step.Name)
		}
		if seen[step.Name] {
			return nil, fmt.Errorf("%w: duplicate step %q", ErrInvalidJob, step.Name)
		}
		seen[step.Name] = true
	}

	s := &Sequencer{
		name:   name,
		steps:  append([]Step(nil), steps...),
		repo:   nopRepository{},
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name returns the job name.
func (s *Sequencer) Name() string {
	return s.name
}

// StepNames returns the step names in execution order without running anything.
func (s *Sequencer) StepNames() []string {
	names := make([]string, len(s.steps))
	for i, step := range s.steps {
		names[i] = step.Name
	}
	return names
}

// Run executes every step in order and returns the execution record.
//
// Run is fail-fast: the first step failure marks the execution FAILED, skips
// all remaining steps, and is returned as a [*StepError]. Repository errors
// also abort the run. The returned execution is non-nil whenever the
// execution could be created, including on failure.
func (s *Sequencer) Run(ctx context.Context) (*JobExecution, error) {
	exec := &JobExecution{
		ID:        s.newID(),
		JobName:   s.name,
		Status:    StatusStarting,
		StartTime: s.now(),
	}
	if err := s.repo.CreateJobExecution(ctx, exec); err != nil {
		return nil, fmt.Errorf("failed to record job execution: %w", err)
	}

	log := s.logger.With(zap.String("job", s.name), zap.String("execution", exec.ID))
	log.Info("job started", zap.Int("steps", len(s.steps)))

	exec.Status = StatusStarted
	ec := newExecutionContext()
	totalSteps := len(s.steps)

	for i, step := range s.steps {
		if s.progress != nil {
			s.progress(i+1, totalSteps, step.Name)
		}

		if err := s.runStep(ctx, log, exec, ec, step); err != nil {
			exec.Status = StatusFailed
			exec.Failure = err.Error()
			s.finish(ctx, log, exec, ec)
			log.Error("job failed", zap.Error(err))
			return exec, err
		}
	}

	exec.Status = StatusCompleted
	if err := s.finish(ctx, log, exec, ec); err != nil {
		return exec, err
	}
	log.Info("job completed", zap.Duration("duration", exec.Duration()))
	return exec, nil
}

func (s *Sequencer) finish(ctx context.Context, log *zap.Logger, exec *JobExecution, ec *ExecutionContext) error {
	exec.EndTime = s.now()
	exec.Context = ec.Snapshot()
	if err := s.repo.UpdateJobExecution(ctx, exec); err != nil {
		log.Warn("failed to record job completion", zap.Error(err))
		return fmt.Errorf("failed to record job execution: %w", err)
	}
	return nil
}

// runStep invokes one step's tasklet until it reports Finished.
func (s *Sequencer) runStep(ctx context.Context, log *zap.Logger, exec *JobExecution, ec *ExecutionContext, step Step) error {
	se := &StepExecution{
		Name:      step.Name,
		Status:    StatusStarted,
		StartTime: s.now(),
	}
	exec.Steps = append(exec.Steps, se)
	if err := s.repo.UpdateJobExecution(ctx, exec); err != nil {
		return fmt.Errorf("failed to record start of step %q: %w", step.Name, err)
	}

	log = log.With(zap.String("step", step.Name))
	log.Debug("step started")

	for {
		status, err := s.invoke(ctx, log, exec, ec, se, step)
		if err != nil {
			se.Status = StatusFailed
			se.Failure = err.Error()
			se.EndTime = s.now()
			return err
		}
		if !status.IsContinuable() {
			break
		}
	}

	se.Status = StatusCompleted
	se.EndTime = s.now()
	if err := s.repo.UpdateJobExecution(ctx, exec); err != nil {
		return fmt.Errorf("failed to record completion of step %q: %w", step.Name, err)
	}
	log.Debug("step completed", zap.Int("invocations", se.Invocations))
	return nil
}

// invoke runs a single tasklet invocation inside a repository transaction.
// The transaction is released unconditionally once the invocation returns.
func (s *Sequencer) invoke(ctx context.Context, log *zap.Logger, exec *JobExecution, ec *ExecutionContext, se *StepExecution, step Step) (RepeatStatus, error) {
	invocation := se.Invocations + 1
	stepErr := func(err error) error {
		return &StepError{Step: step.Name, Invocation: invocation, Err: err}
	}

	tx, err := s.repo.Begin(ctx, exec)
	if err != nil {
		return Finished, stepErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() {
		if err := tx.Rollback(); err != nil {
			log.Warn("failed to release transaction", zap.Int("invocation", invocation), zap.Error(err))
		}
	}()

	se.Invocations = invocation
	sc := &StepContext{
		JobName:     s.name,
		ExecutionID: exec.ID,
		StepName:    step.Name,
		Invocation:  invocation,
		Execution:   ec,
	}

	status, err := callTasklet(ctx, step.Tasklet, sc)
	if err != nil {
		return Finished, stepErr(err)
	}

	if err := tx.Commit(); err != nil {
		return Finished, stepErr(fmt.Errorf("failed to commit: %w", err))
	}
	log.Debug("invocation committed", zap.Int("invocation", invocation), zap.Stringer("status", status))
	return status, nil
}

// callTasklet converts a panic in the tasklet into an error.
func callTasklet(ctx context.Context, tasklet Tasklet, sc *StepContext) (status RepeatStatus, err error) {
	defer func() {
		if r := recover(); r != nil {
			status = Finished
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return tasklet(ctx, sc)
}
