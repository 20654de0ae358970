package engine

import (
	"testing"

	rerrors "github.com/danrasband/reconcile/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/danrasband/reconcile/internal/registry"
	"github.com/danrasband/reconcile/internal/state"
)

func newTestRegistries() *Registries {
	return &Registries{
		Transitions:      registry.NewTransitionRegistry(),
		NodeValidations:  registry.NewValidationRegistry(),
		GraphValidations: registry.NewValidationRegistry(),
	}
}

// TestPlanner_SingleNodeSingleStep plans a single node needing one step.
func TestPlanner_SingleNodeSingleStep(t *testing.T) {
	t.Parallel()

	regs := newTestRegistries()
	require.NoError(t, regs.Transitions.Register(registry.Kind("K"), state.Fragment{}, state.Fragment{"blah": "blah"}, noopTransition))

	current := NewGraph(registry.Kind("G"), registry.Kind("K"), state.State{"name": "root"})
	desired := NewGraph(registry.Kind("G"), registry.Kind("K"), state.State{"name": "root", "blah": "blah"})

	planner := NewPlanner(regs)
	plan, err := planner.Plan(current, desired)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	require.Equal(t, state.Root, plan[0].Path)
	require.Equal(t, state.Fragment{"blah": "blah"}, plan[0].To)
}

// TestPlanner_MultiStepOnOneNode plans a node that needs more than one
// transition, including a NULL-key removal, to reach its desired state.
func TestPlanner_MultiStepOnOneNode(t *testing.T) {
	t.Parallel()

	regs := newTestRegistries()
	require.NoError(t, regs.Transitions.Register(
		registry.Kind("K"),
		state.Fragment{"name": "pre-transition"},
		state.Fragment{"name": "post-transition", "something_else": "something"},
		noopTransition,
	))
	require.NoError(t, regs.Transitions.Register(
		registry.Kind("K"),
		state.Fragment{"something_else": "something"},
		state.Fragment{"something_else": state.Null},
		noopTransition,
	))

	current := NewGraph(registry.Kind("G"), registry.Kind("K"), nil)
	child := mustPath(t, "/child")
	require.NoError(t, current.AddNodes(NewNode(child, registry.Kind("K"), state.State{"name": "pre-transition"})))

	desired := NewGraph(registry.Kind("G"), registry.Kind("K"), nil)
	require.NoError(t, desired.AddNodes(NewNode(child, registry.Kind("K"), state.State{"name": "post-transition"})))

	planner := NewPlanner(regs)
	plan, err := planner.Plan(current, desired)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	require.Equal(t, "something", plan[0].To["something_else"])
	require.Equal(t, state.Null, plan[1].To["something_else"])
}

// TestPlanner_UnreachableGoalReturnsEmptyPlan plans toward a desired state
// no registered transition can ever reach.
func TestPlanner_UnreachableGoalReturnsEmptyPlan(t *testing.T) {
	t.Parallel()

	regs := newTestRegistries()
	require.NoError(t, regs.Transitions.Register(registry.Kind("K"), state.Fragment{}, state.Fragment{"a": 1}, noopTransition))

	current := NewGraph(registry.Kind("G"), registry.Kind("K"), nil)
	desired := NewGraph(registry.Kind("G"), registry.Kind("K"), state.State{"name": "root", "unreachable": "value"})

	planner := NewPlanner(regs)
	plan, err := planner.Plan(current, desired)
	require.NoError(t, err)
	require.Empty(t, plan)
}

func TestPlanner_IdempotentAtGoal(t *testing.T) {
	t.Parallel()

	regs := newTestRegistries()
	require.NoError(t, regs.Transitions.Register(registry.Kind("K"), state.Fragment{}, state.Fragment{"a": 1}, noopTransition))

	g := NewGraph(registry.Kind("G"), registry.Kind("K"), nil)

	planner := NewPlanner(regs)
	plan, err := planner.Plan(g, g)
	require.NoError(t, err)
	require.Empty(t, plan)
}

func TestPlanner_SearchExhaustedOnTinyIterationBound(t *testing.T) {
	t.Parallel()

	regs := newTestRegistries()
	require.NoError(t, regs.Transitions.Register(registry.Kind("K"), state.Fragment{"n": 0}, state.Fragment{"n": 1}, noopTransition))
	require.NoError(t, regs.Transitions.Register(registry.Kind("K"), state.Fragment{"n": 1}, state.Fragment{"n": 2}, noopTransition))
	require.NoError(t, regs.Transitions.Register(registry.Kind("K"), state.Fragment{"n": 2}, state.Fragment{"n": 3}, noopTransition))

	current := NewGraph(registry.Kind("G"), registry.Kind("K"), state.State{"name": "root", "n": 0})
	desired := NewGraph(registry.Kind("G"), registry.Kind("K"), state.State{"name": "root", "n": 3})

	planner := NewPlanner(regs)
	planner.IterationBound = 1

	_, err := planner.Plan(current, desired)
	require.Error(t, err)
	var exhausted *rerrors.SearchExhausted
	require.ErrorAs(t, err, &exhausted)
}

func TestPlanner_RejectsMismatchedPathSets(t *testing.T) {
	t.Parallel()

	regs := newTestRegistries()
	current := NewGraph(registry.Kind("G"), registry.Kind("K"), nil)
	desired := NewGraph(registry.Kind("G"), registry.Kind("K"), nil)
	require.NoError(t, desired.AddNodes(NewNode(mustPath(t, "/extra"), registry.Kind("K"), state.State{})))

	planner := NewPlanner(regs)
	_, err := planner.Plan(current, desired)
	require.Error(t, err)
	var precondition *rerrors.PreconditionViolation
	require.ErrorAs(t, err, &precondition)
}

// TestPlanner_GraphValidationForcesSerialization covers a graph where two
// siblings each need a two-step transition, and both being in the
// intermediate state at once is forbidden, so the plan must finish one
// child's transition before starting the other's.
func TestPlanner_GraphValidationForcesSerialization(t *testing.T) {
	t.Parallel()

	regs := newTestRegistries()
	require.NoError(t, regs.Transitions.Register(
		registry.Kind("K"), state.Fragment{"name": "pre"}, state.Fragment{"name": "mid", "something_else": "something"}, noopTransition,
	))
	require.NoError(t, regs.Transitions.Register(
		registry.Kind("K"), state.Fragment{"something_else": "something"}, state.Fragment{"name": "post", "something_else": state.Null}, noopTransition,
	))

	regs.GraphValidations.Register(registry.Kind("G"), func(subject interface{}) error {
		g, ok := subject.(*Graph)
		if !ok {
			return nil
		}
		intermediateCount := 0
		for _, p := range g.SortedPaths() {
			node, _ := g.NodeAt(p)
			if node.CurrentState()["something_else"] == "something" {
				intermediateCount++
			}
		}
		if intermediateCount > 1 {
			return rerrors.NewValidationFailure("<graph>", "no-double-intermediate", "only one sibling may be mid-transition at a time")
		}
		return nil
	})

	current := NewGraph(registry.Kind("G"), registry.Kind("K"), nil)
	childA, childB := mustPath(t, "/a"), mustPath(t, "/b")
	require.NoError(t, current.AddNodes(
		NewNode(childA, registry.Kind("K"), state.State{"name": "pre"}),
		NewNode(childB, registry.Kind("K"), state.State{"name": "pre"}),
	))

	desired := NewGraph(registry.Kind("G"), registry.Kind("K"), nil)
	require.NoError(t, desired.AddNodes(
		NewNode(childA, registry.Kind("K"), state.State{"name": "post"}),
		NewNode(childB, registry.Kind("K"), state.State{"name": "post"}),
	))

	planner := NewPlanner(regs)
	plan, err := planner.Plan(current, desired)
	require.NoError(t, err)
	require.Len(t, plan, 4)

	// Whichever child goes first must complete both its steps before the
	// other child's first step appears.
	firstChild := plan[0].Path
	require.Equal(t, firstChild, plan[1].Path)
}
