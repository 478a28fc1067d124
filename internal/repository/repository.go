// Package repository records job and step executions.
//
// Two implementations of [job.Repository] are provided:
//   - [Memory] keeps executions for the lifetime of the process
//   - [File] keeps every execution in a single YAML document on disk
//
// Both hand out per-invocation transactions: changes made by a tasklet
// invocation become visible to readers only when the sequencer commits.
package repository

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"systerm/internal/job"
)

// Sentinel errors returned by all stores.
var (
	// ErrExecutionNotFound is returned when no execution has the requested ID.
	ErrExecutionNotFound = errors.New("job execution not found")

	// ErrDuplicateExecution is returned when creating an execution whose ID
	// is already stored.
	ErrDuplicateExecution = errors.New("job execution already exists")
)

// Store is a [job.Repository] that can also be queried.
type Store interface {
	job.Repository

	// ListJobExecutions returns all executions ordered by start time, oldest first.
	ListJobExecutions(ctx context.Context) ([]*job.JobExecution, error)

	// FindJobExecution returns the execution with the given ID or
	// [ErrExecutionNotFound].
	FindJobExecution(ctx context.Context, id string) (*job.JobExecution, error)
}

// New returns a [File] store when path is set and a [Memory] store otherwise.
func New(path string, logger *zap.Logger) Store {
	if path == "" {
		return NewMemory()
	}
	return NewFile(path, logger)
}

// snapshotTx commits by handing a copy of the execution to save.
type snapshotTx struct {
	exec *job.JobExecution
	save func(*job.JobExecution) error
	done bool
}

func (tx *snapshotTx) Commit() error {
	if tx.done {
		return errors.New("transaction already closed")
	}
	if err := tx.save(tx.exec.Clone()); err != nil {
		return err
	}
	tx.done = true
	return nil
}

// Rollback discards the transaction. Changes already committed stay.
func (tx *snapshotTx) Rollback() error {
	tx.done = true
	return nil
}

func sortByStart(execs []*job.JobExecution) {
	sort.SliceStable(execs, func(i, j int) bool {
		return execs[i].StartTime.Before(execs[j].StartTime)
	})
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*File)(nil)
)
