package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"systerm/internal/job"
)

// history is the on-disk layout of a [File] store.
type history struct {
	Executions []*job.JobExecution `yaml:"executions"`
}

// File stores executions in a YAML file.
//
// Every write rewrites the whole document atomically (write to a temp file,
// then rename), so a crash never leaves a half-written history behind. A
// missing file reads as an empty history. File serializes access within the
// process; it does not lock against other processes.
type File struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewFile creates a [File] store at path. The file and its directory are
// created on first write.
func NewFile(path string, logger *zap.Logger) *File {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &File{
		path:   path,
		logger: logger.With(zap.String("history", path)),
	}
}

// Path returns the history file location.
func (f *File) Path() string {
	return f.path
}

func (f *File) CreateJobExecution(ctx context.Context, exec *job.JobExecution) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	h, err := f.read()
	if err != nil {
		return err
	}
	if h.index(exec.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateExecution, exec.ID)
	}

	h.Executions = append(h.Executions, exec.Clone())
	return f.write(h)
}

func (f *File) UpdateJobExecution(ctx context.Context, exec *job.JobExecution) error {
	return f.save(exec.Clone())
}

func (f *File) save(exec *job.JobExecution) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	h, err := f.read()
	if err != nil {
		return err
	}
	i := h.index(exec.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrExecutionNotFound, exec.ID)
	}

	h.Executions[i] = exec
	return f.write(h)
}

func (f *File) Begin(ctx context.Context, exec *job.JobExecution) (job.Tx, error) {
	return &snapshotTx{exec: exec, save: f.save}, nil
}

func (f *File) ListJobExecutions(ctx context.Context) ([]*job.JobExecution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	h, err := f.read()
	if err != nil {
		return nil, err
	}
	sortByStart(h.Executions)
	return h.Executions, nil
}

func (f *File) FindJobExecution(ctx context.Context, id string) (*job.JobExecution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	h, err := f.read()
	if err != nil {
		return nil, err
	}
	i := h.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrExecutionNotFound, id)
	}
	return h.Executions[i], nil
}

func (h *history) index(id string) int {
	for i, exec := range h.Executions {
		if exec.ID == id {
			return i
		}
	}
	return -1
}

func (f *File) read() (*history, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &history{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read execution history: %w", err)
	}

	var h history
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("failed to parse execution history: %w", err)
	}
	return &h, nil
}

func (f *File) write(h *history) error {
	data, err := yaml.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to marshal execution history: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	// Write to temp, then rename
	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write execution history: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write execution history: %w", err)
	}

	f.logger.Debug("execution history written", zap.Int("executions", len(h.Executions)))
	return nil
}
