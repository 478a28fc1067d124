package job

import "context"

// Repository records job and step executions.
//
// The sequencer creates the job execution before the first step, updates it as
// steps start and finish, and opens a transaction around every tasklet
// invocation. Implementations live in the repository package.
type Repository interface {
	// CreateJobExecution stores a new execution. The execution ID is unique.
	CreateJobExecution(ctx context.Context, exec *JobExecution) error

	// UpdateJobExecution replaces the stored state of an existing execution.
	UpdateJobExecution(ctx context.Context, exec *JobExecution) error

	// Begin opens a transaction scoped to one tasklet invocation. Commit
	// persists the execution as it is at commit time.
	Begin(ctx context.Context, exec *JobExecution) (Tx, error)
}

// Tx is a transaction boundary around one tasklet invocation.
//
// The sequencer always calls Rollback after the invocation, whether or not
// Commit succeeded; Rollback after a successful Commit must be a no-op.
type Tx interface {
	Commit() error
	Rollback() error
}

// nopRepository discards all records. It is the default when no repository
// is configured.
type nopRepository struct{}

func (nopRepository) CreateJobExecution(context.Context, *JobExecution) error { return nil }
func (nopRepository) UpdateJobExecution(context.Context, *JobExecution) error { return nil }
func (nopRepository) Begin(context.Context, *JobExecution) (Tx, error)       { return nopTx{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }
