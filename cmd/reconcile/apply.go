package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/danrasband/reconcile/internal/dashboard"
	"github.com/danrasband/reconcile/internal/engine"
	"github.com/danrasband/reconcile/internal/infrastructure/events"
	"github.com/danrasband/reconcile/internal/ports"
)

type applyOptions struct {
	scenarioPath   string
	dryRun         bool
	nonInteractive bool
}

func newApplyCmd(root *rootFlags) *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Plan and execute a reconciliation scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.nonInteractive = !term.IsTerminal(int(os.Stdout.Fd()))
			return runApply(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.scenarioPath, "scenario", "", "Path to a scenario YAML file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Compute and print the plan without invoking any transition callback")
	cmd.MarkFlagRequired("scenario") //nolint:errcheck

	return cmd
}

func runApply(ctx context.Context, cmd *cobra.Command, opts *applyOptions) error {
	logger := loggerFromContext(ctx)

	current, desired, regs, err := loadScenario(opts.scenarioPath)
	if err != nil {
		return err
	}

	planner := engine.NewPlanner(regs)
	plan, err := planner.Plan(current, desired)
	if err != nil {
		return err
	}

	if logger != nil {
		logger.Info(ctx, "executing plan", "steps", len(plan), "dry_run", opts.dryRun)
	}

	executor := engine.NewExecutor(regs.Transitions)
	publisher := events.NewLoggingPublisher(logger)
	executor.Publisher = publisher

	interactive := !opts.nonInteractive && len(plan) > 0
	model := dashboard.NewModel(plan)

	var program *tea.Program
	done := make(chan struct{})
	var programErr error

	if interactive {
		program = tea.NewProgram(model)
		go func() {
			_, programErr = program.Run()
			close(done)
		}()
	}

	stepIndex := 0
	forwardToDashboard := func(ctx context.Context, event ports.DomainEvent) error {
		if se, ok := event.(engine.StepEvent); ok && program != nil {
			program.Send(dashboard.StepDoneMsg{Index: stepIndex, Result: se.Result()})
		}
		stepIndex++
		return nil
	}
	if interactive {
		_, _ = publisher.Subscribe(ports.EventStepCompleted, forwardToDashboard)
		_, _ = publisher.Subscribe(ports.EventStepFailed, forwardToDashboard)
	}

	results := executor.Execute(ctx, plan, current, opts.dryRun)

	if interactive {
		program.Send(dashboard.DoneMsg{})
		<-done
		if programErr != nil {
			return programErr
		}
	} else {
		for _, res := range results {
			printStepResult(cmd, res)
		}
	}

	for _, res := range results {
		if res.Exception != nil {
			return fmt.Errorf("one or more steps failed; see output above")
		}
	}

	return nil
}

func printStepResult(cmd *cobra.Command, res engine.StepResult) {
	if res.Exception != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", res.Path.String(), res.Exception)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "OK   %s: %v\n", res.Path.String(), res.ExecutionResult)
}
