// Package demo registers the transitions and validations for the ETL
// dependency scenario used as this system's canonical worked example:
// three jobs, /extract/likes, /extract/comments, and /transform, each
// independently startable/stoppable and relocatable between regions, with
// a graph-level rule that /transform may only run while both extract jobs
// are running.
package demo

import (
	"github.com/danrasband/reconcile/internal/engine"
	"github.com/danrasband/reconcile/internal/registry"
	"github.com/danrasband/reconcile/internal/state"
	rerrors "github.com/danrasband/reconcile/pkg/errors"
	"github.com/danrasband/reconcile/transitions/shellpack"
)

// ETLJobKind is the node-kind shared by every node in the demo ETL graph.
const ETLJobKind registry.Kind = registry.Kind("job")

var regions = []string{"America/East", "America/West"}

// RegisterETL wires the ETL demo's transitions (start, stop, move between
// every pair of regions) into transitions and its dependency rule into
// graphValidations under graphKind. The transition callbacks are
// shellpack no-ops (`true`): this package exercises the search and
// execution machinery, not real job control.
func RegisterETL(transitions *registry.TransitionRegistry, graphValidations *registry.ValidationRegistry, graphKind registry.Kind) error {
	start := shellpack.Step{
		Kind:    ETLJobKind,
		From:    state.Fragment{"running": false},
		To:      state.Fragment{"running": true},
		Command: "true",
	}
	if err := start.Register(transitions); err != nil {
		return err
	}

	stop := shellpack.Step{
		Kind:    ETLJobKind,
		From:    state.Fragment{"running": true},
		To:      state.Fragment{"running": false},
		Command: "true",
	}
	if err := stop.Register(transitions); err != nil {
		return err
	}

	for _, from := range regions {
		for _, to := range regions {
			if from == to {
				continue
			}
			move := shellpack.Step{
				Kind:    ETLJobKind,
				From:    state.Fragment{"running": false, "location": from},
				To:      state.Fragment{"location": to},
				Command: "true",
			}
			if err := move.Register(transitions); err != nil {
				return err
			}
		}
	}

	graphValidations.Register(graphKind, transformDependency)

	return nil
}

// transformDependency enforces that /transform may only be running when
// both /extract/likes and /extract/comments are running.
func transformDependency(subject interface{}) error {
	g, ok := subject.(*engine.Graph)
	if !ok {
		return nil
	}

	transformPath, _ := state.NewPath("/transform")
	likesPath, _ := state.NewPath("/extract/likes")
	commentsPath, _ := state.NewPath("/extract/comments")

	transform, ok := g.NodeAt(transformPath)
	if !ok {
		return nil
	}
	if running, _ := transform.CurrentState()["running"].(bool); !running {
		return nil
	}

	for _, p := range []state.Path{likesPath, commentsPath} {
		node, ok := g.NodeAt(p)
		if !ok {
			continue
		}
		running, _ := node.CurrentState()["running"].(bool)
		if !running {
			return rerrors.NewValidationFailure(
				string(transformPath),
				"transform-dependency",
				"/transform may only run while both extract jobs are running",
			)
		}
	}

	return nil
}
