// Package cli implements the systerm command-line interface.
//
// Commands are built with Cobra around an [App], which carries every
// dependency a command needs. Tests construct an App with a buffer-backed
// printer and an in-memory store and drive [NewRootCommand] directly.
//
// Commands signal failure by returning an [ExitError] instead of calling
// os.Exit, so exit codes can be asserted in tests; [Execute] performs the
// actual process exit.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"systerm/internal/config"
	"systerm/internal/logging"
	"systerm/internal/output"
	"systerm/internal/repository"
)

// App holds the dependencies shared by all commands.
type App struct {
	Config  *config.Config
	Printer *output.Printer
	Logger  *zap.Logger
	Store   repository.Store
}

// NewApp wires production dependencies from cfg.
func NewApp(cfg *config.Config) (*App, error) {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	printer := output.NewPrinter()
	printer.SetQuiet(cfg.Output.Quiet)

	return &App{
		Config:  cfg,
		Printer: printer,
		Logger:  logger,
		Store:   repository.New(cfg.History.Path, logger),
	}, nil
}

// NewRootCommand builds the command tree for app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "systerm",
		Short: "System Termination simulation batch job",
		Long: `systerm runs the System Termination simulation: a fixed four-step job
that enters the world, meets the administrator NPC, terminates zombie
processes until the target is reached, and reports the reward.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newRunCommand(app),
		newStepsCommand(app),
		newHistoryCommand(app),
		newShowCommand(app),
	)
	return rootCmd
}

// ExecuteResult is the outcome of running the command tree.
type ExecuteResult struct {
	ExitCode int
	Err      error
}

// RunWithConfig builds an [App] from cfg and runs the command tree with args.
func RunWithConfig(cfg *config.Config, args []string) ExecuteResult {
	app, err := NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExecuteResult{ExitCode: 1, Err: err}
	}
	defer app.Logger.Sync()

	return RunApp(app, args)
}

// RunApp runs the command tree for an already wired app.
func RunApp(app *App, args []string) ExecuteResult {
	cmd := NewRootCommand(app)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		if code, ok := IsExitError(err); ok {
			return ExecuteResult{ExitCode: code, Err: err}
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return ExecuteResult{ExitCode: 1, Err: err}
	}
	return ExecuteResult{}
}

// Execute loads configuration, runs the CLI, and exits the process with the
// resulting code.
func Execute() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	result := RunWithConfig(cfg, os.Args[1:])
	os.Exit(result.ExitCode)
}
