package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danrasband/reconcile/internal/engine"
	"github.com/danrasband/reconcile/internal/scenario"
)

type planOptions struct {
	scenarioPath string
	fromGit      string
	gitRef       string
}

func newPlanCmd(root *rootFlags) *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute the shortest reconciliation plan for a scenario, without executing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return runPlan(ctx, cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.scenarioPath, "scenario", "", "Path to a scenario YAML file")
	cmd.Flags().StringVar(&opts.fromGit, "from-git", "", "Clone or update the scenario's source repository from this URL before loading it")
	cmd.Flags().StringVar(&opts.gitRef, "git-ref", "", "Branch to check out when --from-git is set")
	cmd.MarkFlagRequired("scenario") //nolint:errcheck

	return cmd
}

func runPlan(ctx context.Context, cmd *cobra.Command, opts *planOptions) error {
	logger := loggerFromContext(ctx)

	if opts.fromGit != "" {
		if err := scenario.FetchScenarioRepo(ctx, opts.fromGit, opts.gitRef, scenarioDir(opts.scenarioPath)); err != nil {
			return fmt.Errorf("fetch scenario repository: %w", err)
		}
	}

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
		logger.Info(ctx, "plan computed", "steps", len(plan))
	}

	if len(plan) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "already at goal state; no steps required")
		return nil
	}

	for i, step := range plan {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s  %v -> %v\n", i+1, step.Path.String(), map[string]interface{}(step.From), map[string]interface{}(step.To))
	}

	return nil
}
