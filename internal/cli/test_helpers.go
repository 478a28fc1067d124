package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"systerm/internal/config"
	"systerm/internal/job"
	"systerm/internal/output"
	"systerm/internal/repository"
)

// testApp bundles an App with the buffers its output goes to.
type testApp struct {
	App    *App
	Out    *bytes.Buffer
	CmdOut *bytes.Buffer
}

// newTestApp builds an App with default config, a buffer printer and an
// in-memory store.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	buf := &bytes.Buffer{}
	return &testApp{
		App: &App{
			Config:  config.DefaultConfig(),
			Printer: output.NewPrinterWithWriter(buf),
			Logger:  zap.NewNop(),
			Store:   repository.NewMemory(),
		},
		Out:    buf,
		CmdOut: &bytes.Buffer{},
	}
}

// execute runs the root command with args and returns its error.
func (ta *testApp) execute(args ...string) error {
	rootCmd := NewRootCommand(ta.App)
	rootCmd.SetOut(ta.CmdOut)
	rootCmd.SetErr(ta.CmdOut)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// FailingStore is a repository.Store whose every operation fails.
type FailingStore struct {
	Err error
}

func (f *FailingStore) CreateJobExecution(ctx context.Context, exec *job.JobExecution) error {
	return f.Err
}

func (f *FailingStore) UpdateJobExecution(ctx context.Context, exec *job.JobExecution) error {
	return f.Err
}

func (f *FailingStore) Begin(ctx context.Context, exec *job.JobExecution) (job.Tx, error) {
	return nil, f.Err
}

func (f *FailingStore) ListJobExecutions(ctx context.Context) ([]*job.JobExecution, error) {
	return nil, f.Err
}

func (f *FailingStore) FindJobExecution(ctx context.Context, id string) (*job.JobExecution, error) {
	return nil, f.Err
}

var errStoreDown = errors.New("store is down")
