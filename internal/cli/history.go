package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"systerm/internal/repository"
)

func newHistoryCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recorded job executions",
		Long: `List recorded job executions, oldest first.

Executions are kept between runs only when history.path (or
SYSTERM_HISTORY_PATH) points at a file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			execs, err := app.Store.ListJobExecutions(cmd.Context())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return NewExitError(1)
			}
			app.Printer.History(execs)
			return nil
		},
	}
}

func newShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <execution-id>",
		Short: "Show one job execution and its steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exec, err := app.Store.FindJobExecution(cmd.Context(), args[0])
			if errors.Is(err, repository.ErrExecutionNotFound) {
				fmt.Fprintf(cmd.ErrOrStderr(), "No execution with ID %s\n", args[0])
				return NewExitError(1)
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return NewExitError(1)
			}
			app.Printer.Execution(exec)
			return nil
		},
	}
}
