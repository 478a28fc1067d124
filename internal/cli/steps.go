package cli

import (
	"github.com/spf13/cobra"

	"systerm/internal/termination"
)

func newStepsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "Show the job's step sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := termination.NewJob(app.Config, app.Printer)
			if err != nil {
				app.Printer.JobFailed(nil, err)
				return NewExitError(1)
			}
			printPlan(app, s, app.Config.Job.Target)
			return nil
		},
	}
}
