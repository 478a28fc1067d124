package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"systerm/internal/job"
)

func newExecution(id string, start time.Time) *job.JobExecution {
	return &job.JobExecution{
		ID:        id,
		JobName:   "testJob",
		Status:    job.StatusStarting,
		StartTime: start,
	}
}

// stores returns a fresh instance of every implementation.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemory(),
		"file":   NewFile(filepath.Join(t.TempDir(), "nested", "history.yaml"), zap.NewNop()),
	}
}

func TestStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			exec := newExecution("exec-1", time.Now())
			require.NoError(t, store.CreateJobExecution(ctx, exec))

			got, err := store.FindJobExecution(ctx, "exec-1")
			require.NoError(t, err)
			assert.Equal(t, "testJob", got.JobName)
			assert.Equal(t, job.StatusStarting, got.Status)

			_, err = store.FindJobExecution(ctx, "missing")
			assert.ErrorIs(t, err, ErrExecutionNotFound)
		})
	}
}

func TestStore_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			exec := newExecution("dup", time.Now())
			require.NoError(t, store.CreateJobExecution(ctx, exec))

			err := store.CreateJobExecution(ctx, exec)
			assert.ErrorIs(t, err, ErrDuplicateExecution)
		})
	}
}

func TestStore_UpdateUnknown(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			err := store.UpdateJobExecution(ctx, newExecution("ghost", time.Now()))
			assert.ErrorIs(t, err, ErrExecutionNotFound)
		})
	}
}

func TestStore_StoresCopies(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			exec := newExecution("exec-1", time.Now())
			require.NoError(t, store.CreateJobExecution(ctx, exec))

			exec.Status = job.StatusCompleted

			got, err := store.FindJobExecution(ctx, "exec-1")
			require.NoError(t, err)
			assert.Equal(t, job.StatusStarting, got.Status, "mutation without update must not leak")

			require.NoError(t, store.UpdateJobExecution(ctx, exec))
			got, err = store.FindJobExecution(ctx, "exec-1")
			require.NoError(t, err)
			assert.Equal(t, job.StatusCompleted, got.Status)
		})
	}
}

func TestStore_Transaction(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			exec := newExecution("exec-1", time.Now())
			require.NoError(t, store.CreateJobExecution(ctx, exec))

			t.Run("rollback discards changes", func(t *testing.T) {
				tx, err := store.Begin(ctx, exec)
				require.NoError(t, err)

				exec.Steps = append(exec.Steps, &job.StepExecution{Name: "a", Invocations: 1})
				require.NoError(t, tx.Rollback())

				got, err := store.FindJobExecution(ctx, "exec-1")
				require.NoError(t, err)
				assert.Empty(t, got.Steps)
			})

			t.Run("commit persists changes", func(t *testing.T) {
				tx, err := store.Begin(ctx, exec)
				require.NoError(t, err)

				exec.Steps[0].Invocations = 2
				require.NoError(t, tx.Commit())
				require.NoError(t, tx.Rollback(), "rollback after commit is a no-op")

				got, err := store.FindJobExecution(ctx, "exec-1")
				require.NoError(t, err)
				require.Len(t, got.Steps, 1)
				assert.Equal(t, 2, got.Steps[0].Invocations)
			})

			t.Run("commit after rollback fails", func(t *testing.T) {
				tx, err := store.Begin(ctx, exec)
				require.NoError(t, err)
				require.NoError(t, tx.Rollback())
				assert.Error(t, tx.Commit())
			})
		})
	}
}

func TestStore_ListOrderedByStart(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.CreateJobExecution(ctx, newExecution("late", base.Add(2*time.Minute))))
			require.NoError(t, store.CreateJobExecution(ctx, newExecution("early", base)))
			require.NoError(t, store.CreateJobExecution(ctx, newExecution("middle", base.Add(time.Minute))))

			execs, err := store.ListJobExecutions(ctx)
			require.NoError(t, err)

			var ids []string
			for _, e := range execs {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, []string{"early", "middle", "late"}, ids)
		})
	}
}

func TestStore_WithSequencer(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			steps := []job.Step{
				job.NewStep("only", func(ctx context.Context, sc *job.StepContext) (job.RepeatStatus, error) {
					if sc.Execution.Increment("n") < 2 {
						return job.ContinueRepeating, nil
					}
					return job.Finished, nil
				}),
			}
			s, err := job.NewSequencer("testJob", steps, job.WithRepository(store))
			require.NoError(t, err)

			exec, err := s.Run(ctx)
			require.NoError(t, err)

			got, err := store.FindJobExecution(ctx, exec.ID)
			require.NoError(t, err)
			assert.Equal(t, job.StatusCompleted, got.Status)
			assert.Equal(t, 2, got.Context["n"])
			require.Len(t, got.Steps, 1)
			assert.Equal(t, job.StatusCompleted, got.Steps[0].Status)
			assert.Equal(t, 2, got.Steps[0].Invocations)
		})
	}
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.yaml")

	first := NewFile(path, nil)
	require.NoError(t, first.CreateJobExecution(ctx, newExecution("exec-1", time.Now())))

	second := NewFile(path, nil)
	got, err := second.FindJobExecution(ctx, "exec-1")
	require.NoError(t, err)
	assert.Equal(t, "testJob", got.JobName)
	assert.Equal(t, path, second.Path())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must not be left behind")
}

func TestFile_MissingFileIsEmpty(t *testing.T) {
	store := NewFile(filepath.Join(t.TempDir(), "none.yaml"), nil)

	execs, err := store.ListJobExecutions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, execs)
}

func TestFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.yaml")
	require.NoError(t, os.WriteFile(path, []byte("executions: [unclosed\n"), 0644))

	store := NewFile(path, nil)
	_, err := store.ListJobExecutions(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse execution history")

	err = store.CreateJobExecution(context.Background(), newExecution("x", time.Now()))
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	assert.IsType(t, &Memory{}, New("", nil))
	assert.IsType(t, &File{}, New(filepath.Join(t.TempDir(), "h.yaml"), zap.NewNop()))
}
