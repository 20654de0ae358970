package shellpack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danrasband/reconcile/internal/registry"
	"github.com/danrasband/reconcile/internal/state"
)

type fakeNode struct {
	path    string
	kind    registry.Kind
	current state.State
}

func (f *fakeNode) PathString() string       { return f.path }
func (f *fakeNode) NodeKind() registry.Kind   { return f.kind }
func (f *fakeNode) CurrentState() state.State { return f.current }

func TestCallback_RunsCommandAndReturnsOutput(t *testing.T) {
	t.Parallel()

	reg := registry.NewTransitionRegistry()
	step := Step{
		Kind:    registry.Kind("job"),
		From:    state.Fragment{"running": false},
		To:      state.Fragment{"running": true},
		Command: "echo hello",
	}
	require.NoError(t, step.Register(reg))

	cb, ok := reg.Lookup(registry.Kind("job"), state.Fragment{"running": false}, state.Fragment{"running": true})
	require.True(t, ok)

	node := &fakeNode{path: "/job", kind: registry.Kind("job"), current: state.State{"running": false}}
	result, err := cb(context.Background(), node)
	require.NoError(t, err)
	require.Equal(t, "hello", result)
}

func TestCallback_ReturnsErrorOnNonZeroExit(t *testing.T) {
	t.Parallel()

	reg := registry.NewTransitionRegistry()
	step := Step{
		Kind:    registry.Kind("job"),
		From:    state.Fragment{"running": false},
		To:      state.Fragment{"running": true},
		Command: "exit 1",
	}
	require.NoError(t, step.Register(reg))

	cb, _ := reg.Lookup(registry.Kind("job"), state.Fragment{"running": false}, state.Fragment{"running": true})
	node := &fakeNode{path: "/job", kind: registry.Kind("job"), current: state.State{"running": false}}
	_, err := cb(context.Background(), node)
	require.Error(t, err)
}
