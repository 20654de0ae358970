package scenario

import (
	"github.com/danrasband/reconcile/internal/config"
	"github.com/danrasband/reconcile/internal/engine"
	"github.com/danrasband/reconcile/internal/registry"
	"github.com/danrasband/reconcile/internal/state"
)

// BuildGraphs turns a parsed Scenario into the current and desired State
// Graphs the Planner operates on. The scenario's graph-kind doubles as the
// root node's kind. A node spec for "/" replaces the root's state only; the
// kind given in that spec is not used.
func BuildGraphs(s *config.Scenario) (current, desired *engine.Graph, err error) {
	graphKind := registry.NewKind(s.GraphKind)

	current, err = buildOne(graphKind, s.Current)
	if err != nil {
		return nil, nil, err
	}
	desired, err = buildOne(graphKind, s.Desired)
	if err != nil {
		return nil, nil, err
	}

	for _, e := range s.Edges {
		from, err := state.NewPath(e.From)
		if err != nil {
			return nil, nil, err
		}
		to, err := state.NewPath(e.To)
		if err != nil {
			return nil, nil, err
		}
		if err := current.AddEdges([2]state.Path{from, to}); err != nil {
			return nil, nil, err
		}
		if err := desired.AddEdges([2]state.Path{from, to}); err != nil {
			return nil, nil, err
		}
	}

	return current, desired, nil
}

func buildOne(graphKind registry.Kind, specs []config.NodeSpec) (*engine.Graph, error) {
	g := engine.NewGraph(graphKind, graphKind, nil)

	for _, spec := range specs {
		path, err := state.NewPath(spec.Path)
		if err != nil {
			return nil, err
		}
		kind := registry.NewKind(spec.Kind)
		nodeState := state.State(spec.State)

		if path.IsRoot() {
			root, _ := g.NodeAt(state.Root)
			root.SetState(nodeState)
			continue
		}

		if err := g.AddNodes(engine.NewNode(path, kind, nodeState)); err != nil {
			return nil, err
		}
	}

	return g, nil
}
