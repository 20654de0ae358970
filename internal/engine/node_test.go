package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danrasband/reconcile/internal/registry"
	"github.com/danrasband/reconcile/internal/state"
)

func TestNodeNeighbors_FiltersByFromFragment(t *testing.T) {
	t.Parallel()

	transitions := registry.NewTransitionRegistry()
	require.NoError(t, transitions.Register(registry.Kind("job"), state.Fragment{"running": false}, state.Fragment{"running": true}, noopTransition))

	regs := &Registries{
		Transitions:      transitions,
		NodeValidations:  registry.NewValidationRegistry(),
		GraphValidations: registry.NewValidationRegistry(),
	}

	running := NewNode(mustPath(t, "/job"), registry.Kind("job"), state.State{"running": true})
	neighbors, err := running.Neighbors(regs)
	require.NoError(t, err)
	require.Empty(t, neighbors)

	stopped := NewNode(mustPath(t, "/job"), registry.Kind("job"), state.State{"running": false})
	neighbors, err = stopped.Neighbors(regs)
	require.NoError(t, err)
	require.Len(t, neighbors, 1)
	require.Equal(t, true, neighbors[0].Node.CurrentState()["running"])
}

func TestNodeNeighbors_PrunesValidationFailureButPropagatesOtherErrors(t *testing.T) {
	t.Parallel()

	transitions := registry.NewTransitionRegistry()
	require.NoError(t, transitions.Register(registry.Kind("K"), state.Fragment{}, state.Fragment{"a": 1}, noopTransition))

	nodeValidations := registry.NewValidationRegistry()
	nodeValidations.Register(registry.Kind("K"), func(subject interface{}) error {
		return validationFailureFor(t)
	})

	regs := &Registries{
		Transitions:      transitions,
		NodeValidations:  nodeValidations,
		GraphValidations: registry.NewValidationRegistry(),
	}

	n := NewNode(mustPath(t, "/n"), registry.Kind("K"), state.State{})
	neighbors, err := n.Neighbors(regs)
	require.NoError(t, err)
	require.Empty(t, neighbors)

	brokenValidations := registry.NewValidationRegistry()
	brokenValidations.Register(registry.Kind("K"), func(subject interface{}) error {
		return errors.New("broken predicate")
	})
	regs.NodeValidations = brokenValidations

	_, err = n.Neighbors(regs)
	require.Error(t, err)
}

func TestNodeNeighbors_SetStateDoesNotAffectNeighborCandidates(t *testing.T) {
	t.Parallel()

	transitions := registry.NewTransitionRegistry()
	require.NoError(t, transitions.Register(registry.Kind("K"), state.Fragment{}, state.Fragment{"a": 1}, noopTransition))

	regs := &Registries{
		Transitions:      transitions,
		NodeValidations:  registry.NewValidationRegistry(),
		GraphValidations: registry.NewValidationRegistry(),
	}

	n := NewNode(mustPath(t, "/n"), registry.Kind("K"), state.State{})
	neighbors, err := n.Neighbors(regs)
	require.NoError(t, err)
	require.Len(t, neighbors, 1)

	n.SetState(state.State{"unrelated": true})
	require.NotSame(t, n, neighbors[0].Node)
	require.Equal(t, 1, neighbors[0].Node.CurrentState()["a"])
}
