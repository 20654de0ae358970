package main

import (
	"path/filepath"

	"github.com/danrasband/reconcile/internal/config"
	"github.com/danrasband/reconcile/internal/demo"
	"github.com/danrasband/reconcile/internal/engine"
	"github.com/danrasband/reconcile/internal/registry"
	"github.com/danrasband/reconcile/internal/scenario"
)

// loadScenario parses the scenario file at path, builds its current and
// desired graphs, and wires the transitions and validations the demo ETL
// graph-kind needs. Scenarios using any other graph-kind build successfully
// but have no registered transitions to plan with — this CLI ships only
// the one worked example; embedding applications register their own.
func loadScenario(path string) (current, desired *engine.Graph, regs *engine.Registries, err error) {
	parsed, err := config.ParseScenario(path)
	if err != nil {
		return nil, nil, nil, err
	}

	current, desired, err = scenario.BuildGraphs(parsed)
	if err != nil {
		return nil, nil, nil, err
	}

	regs = &engine.Registries{
		Transitions:      registry.NewTransitionRegistry(),
		NodeValidations:  registry.NewValidationRegistry(),
		GraphValidations: registry.NewValidationRegistry(),
	}

	graphKind := registry.NewKind(parsed.GraphKind)
	if string(graphKind) == "etl" {
		if err := demo.RegisterETL(regs.Transitions, regs.GraphValidations, graphKind); err != nil {
			return nil, nil, nil, err
		}
	}

	return current, desired, regs, nil
}

// scenarioDir returns the directory a --from-git checkout should land in:
// the scenario file's own containing directory.
func scenarioDir(scenarioPath string) string {
	return filepath.Dir(scenarioPath)
}
