package repository

import (
	"context"
	"fmt"
	"sync"

	"systerm/internal/job"
)

// Memory stores executions in process memory.
//
// Memory is safe for concurrent use. Stored executions are copies, so later
// changes by the caller are only visible after another update or commit.
type Memory struct {
	mu    sync.RWMutex
	execs map[string]*job.JobExecution
}

// NewMemory creates an empty [Memory] store.
func NewMemory() *Memory {
	return &Memory{execs: make(map[string]*job.JobExecution)}
}

func (m *Memory) CreateJobExecution(ctx context.Context, exec *job.JobExecution) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.execs[exec.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateExecution, exec.ID)
	}
	m.execs[exec.ID] = exec.Clone()
	return nil
}

func (m *Memory) UpdateJobExecution(ctx context.Context, exec *job.JobExecution) error {
	return m.save(exec.Clone())
}

func (m *Memory) save(exec *job.JobExecution) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.execs[exec.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrExecutionNotFound, exec.ID)
	}
	m.execs[exec.ID] = exec
	return nil
}

func (m *Memory) Begin(ctx context.Context, exec *job.JobExecution) (job.Tx, error) {
	return &snapshotTx{exec: exec, save: m.save}, nil
}

func (m *Memory) ListJobExecutions(ctx context.Context) ([]*job.JobExecution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*job.JobExecution, 0, len(m.execs))
	for _, exec := range m.execs {
		out = append(out, exec.Clone())
	}
	sortByStart(out)
	return out, nil
}

func (m *Memory) FindJobExecution(ctx context.Context, id string) (*job.JobExecution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	exec, ok := m.execs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrExecutionNotFound, id)
	}
	return exec.Clone(), nil
}
