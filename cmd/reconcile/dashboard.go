package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/danrasband/reconcile/internal/dashboard"
	"github.com/danrasband/reconcile/internal/engine"
	"github.com/danrasband/reconcile/internal/infrastructure/events"
	"github.com/danrasband/reconcile/internal/ports"
)

type dashboardOptions struct {
	scenarioPath string
	dryRun       bool
}

func newDashboardCmd(root *rootFlags) *cobra.Command {
	opts := &dashboardOptions{}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Plan a scenario and watch it execute in a live terminal view",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.scenarioPath, "scenario", "", "Path to a scenario YAML file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Preview the plan without invoking any transition callback")
	cmd.MarkFlagRequired("scenario") //nolint:errcheck

	return cmd
}

func runDashboard(ctx context.Context, opts *dashboardOptions) error {
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

	executor := engine.NewExecutor(regs.Transitions)
	publisher := events.NewLoggingPublisher(logger)
	executor.Publisher = publisher

	model := dashboard.NewModel(plan)
	program := tea.NewProgram(model, tea.WithAltScreen())

	done := make(chan struct{})
	var programErr error
	go func() {
		_, programErr = program.Run()
		close(done)
	}()

	stepIndex := 0
	forwardToDashboard := func(ctx context.Context, event ports.DomainEvent) error {
		if se, ok := event.(engine.StepEvent); ok {
			program.Send(dashboard.StepDoneMsg{Index: stepIndex, Result: se.Result()})
		}
		stepIndex++
		return nil
	}
	_, _ = publisher.Subscribe(ports.EventStepCompleted, forwardToDashboard)
	_, _ = publisher.Subscribe(ports.EventStepFailed, forwardToDashboard)

	executor.Execute(ctx, plan, current, opts.dryRun)
	program.Send(dashboard.DoneMsg{})

	<-done
	return programErr
}
