package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"systerm/internal/job"
	"systerm/internal/termination"
)

func newRunCommand(app *App) *cobra.Command {
	var (
		target int
		quiet  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the System Termination job",
		Long: `Run the System Termination job:
  1. enterWorldStep    - Enter the simulation world
  2. meetNPCStep       - Meet the administrator NPC and receive the mission
  3. defeatProcessStep - Terminate zombie processes until the target is reached
  4. completeQuestStep - Report mission success and the reward

The job stops at the first failing step.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *app.Config
			if cmd.Flags().Changed("target") {
				cfg.Job.Target = target
			}
			if quiet {
				app.Printer.SetQuiet(true)
			}

			s, err := termination.NewJob(&cfg, app.Printer,
				job.WithRepository(app.Store),
				job.WithLogger(app.Logger),
				job.WithProgressCallback(app.Printer.StepStart),
			)
			if err != nil {
				app.Printer.JobFailed(nil, err)
				return NewExitError(1)
			}

			if dryRun {
				printPlan(app, s, cfg.Job.Target)
				return nil
			}

			app.Printer.JobStart(s.Name(), len(s.StepNames()))
			exec, err := s.Run(cmd.Context())
			if err != nil {
				app.Printer.JobFailed(exec, err)
				return NewExitError(1)
			}

			app.Printer.JobComplete(exec)
			return nil
		},
	}

	cmd.Flags().IntVarP(&target, "target", "t", 0, "number of zombie processes to terminate (overrides config)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the narrative")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the step plan without running it")
	return cmd
}

func printPlan(app *App, s *job.Sequencer, target int) {
	app.Printer.StepPlan(s.Name(), s.StepNames(), map[string]string{
		termination.StepDefeatProcess: fmt.Sprintf("repeats until %d processes are terminated", target),
	})
}
