package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danrasband/reconcile/internal/registry"
	"github.com/danrasband/reconcile/internal/state"
)

func mustPath(t *testing.T, raw string) state.Path {
	t.Helper()
	p, err := state.NewPath(raw)
	require.NoError(t, err)
	return p
}

func TestNewGraph_AutoInsertsRoot(t *testing.T) {
	t.Parallel()

	g := NewGraph(registry.Kind("G"), registry.Kind("K"), nil)
	root, ok := g.NodeAt(state.Root)
	require.True(t, ok)
	require.Equal(t, "root", root.CurrentState()["name"])
}

func TestAddNodes_RejectsDuplicatePath(t *testing.T) {
	t.Parallel()

	g := NewGraph(registry.Kind("G"), registry.Kind("K"), nil)
	child := mustPath(t, "/child")

	require.NoError(t, g.AddNodes(NewNode(child, registry.Kind("K"), state.State{})))
	err := g.AddNodes(NewNode(child, registry.Kind("K"), state.State{}))
	require.Error(t, err)
}

func TestAddEdges_RejectsUnknownEndpoint(t *testing.T) {
	t.Parallel()

	g := NewGraph(registry.Kind("G"), registry.Kind("K"), nil)
	err := g.AddEdges([2]state.Path{state.Root, mustPath(t, "/missing")})
	require.Error(t, err)
}

func TestAddEdges_IsIdempotent(t *testing.T) {
	t.Parallel()

	g := NewGraph(registry.Kind("G"), registry.Kind("K"), nil)
	child := mustPath(t, "/child")
	require.NoError(t, g.AddNodes(NewNode(child, registry.Kind("K"), state.State{})))

	require.NoError(t, g.AddEdges([2]state.Path{state.Root, child}))
	require.NoError(t, g.AddEdges([2]state.Path{state.Root, child}))
	require.Len(t, g.CanonicalEdges(), 1)
}

func TestHasSameState_ComparesStructurallyNotByIdentity(t *testing.T) {
	t.Parallel()

	a := NewGraph(registry.Kind("G"), registry.Kind("K"), state.State{"name": "root"})
	b := NewGraph(registry.Kind("G"), registry.Kind("K"), state.State{"name": "root"})
	require.True(t, a.HasSameState(b))
	require.NotSame(t, a, b)

	child := mustPath(t, "/child")
	require.NoError(t, a.AddNodes(NewNode(child, registry.Kind("K"), state.State{"x": 1})))
	require.False(t, a.HasSameState(b))
}

func TestHasSameState_DetectsEdgeDifferences(t *testing.T) {
	t.Parallel()

	child := mustPath(t, "/child")
	a := NewGraph(registry.Kind("G"), registry.Kind("K"), state.State{"name": "root"})
	b := NewGraph(registry.Kind("G"), registry.Kind("K"), state.State{"name": "root"})
	require.NoError(t, a.AddNodes(NewNode(child, registry.Kind("K"), state.State{})))
	require.NoError(t, b.AddNodes(NewNode(child, registry.Kind("K"), state.State{})))

	require.NoError(t, a.AddEdges([2]state.Path{state.Root, child}))
	require.False(t, a.HasSameState(b))
}

func TestGraphNeighbors_DeterministicOrder(t *testing.T) {
	t.Parallel()

	transitions := registry.NewTransitionRegistry()
	require.NoError(t, transitions.Register(registry.Kind("K"), state.Fragment{}, state.Fragment{"blah": "blah"}, noopTransition))

	regs := &Registries{
		Transitions:      transitions,
		NodeValidations:  registry.NewValidationRegistry(),
		GraphValidations: registry.NewValidationRegistry(),
	}

	g := NewGraph(registry.Kind("G"), registry.Kind("K"), state.State{"name": "root"})
	child := mustPath(t, "/child")
	require.NoError(t, g.AddNodes(NewNode(child, registry.Kind("K"), state.State{"name": "child"})))

	neighbors, err := g.Neighbors(regs)
	require.NoError(t, err)
	require.Len(t, neighbors, 2)
	require.Equal(t, state.Root, neighbors[0].Path)
	require.Equal(t, child, neighbors[1].Path)
}

func TestGraphNeighbors_PrunesOnGraphValidationFailure(t *testing.T) {
	t.Parallel()

	transitions := registry.NewTransitionRegistry()
	require.NoError(t, transitions.Register(registry.Kind("K"), state.Fragment{}, state.Fragment{"blah": "blah"}, noopTransition))

	graphValidations := registry.NewValidationRegistry()
	graphValidations.Register(registry.Kind("G"), func(subject interface{}) error {
		return validationFailureFor(t)
	})

	regs := &Registries{
		Transitions:      transitions,
		NodeValidations:  registry.NewValidationRegistry(),
		GraphValidations: graphValidations,
	}

	g := NewGraph(registry.Kind("G"), registry.Kind("K"), state.State{"name": "root"})
	neighbors, err := g.Neighbors(regs)
	require.NoError(t, err)
	require.Empty(t, neighbors)
}
