package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danrasband/reconcile/internal/config"
	"github.com/danrasband/reconcile/internal/state"
)

func TestBuildGraphs_WiresEdgesOnBothGraphs(t *testing.T) {
	t.Parallel()

	s := &config.Scenario{
		GraphKind: "etl",
		Current: []config.NodeSpec{
			{Path: "/extract/likes", Kind: "job", State: map[string]interface{}{"running": true}},
			{Path: "/transform", Kind: "job", State: map[string]interface{}{"running": false}},
		},
		Desired: []config.NodeSpec{
			{Path: "/extract/likes", Kind: "job", State: map[string]interface{}{"running": false}},
			{Path: "/transform", Kind: "job", State: map[string]interface{}{"running": true}},
		},
		Edges: []config.EdgeSpec{
			{From: "/extract/likes", To: "/transform"},
		},
	}

	current, desired, err := BuildGraphs(s)
	require.NoError(t, err)

	likes := mustPath(t, "/extract/likes")
	transform := mustPath(t, "/transform")

	require.Len(t, current.CanonicalEdges(), 1)
	require.Equal(t, [2]state.Path{likes, transform}, current.CanonicalEdges()[0])
	require.Len(t, desired.CanonicalEdges(), 1)
}

func TestBuildGraphs_RootOverrideReplacesAutoInsertedRoot(t *testing.T) {
	t.Parallel()

	s := &config.Scenario{
		GraphKind: "etl",
		Current: []config.NodeSpec{
			{Path: "/", Kind: "job", State: map[string]interface{}{"name": "custom-root"}},
		},
		Desired: []config.NodeSpec{
			{Path: "/", Kind: "job", State: map[string]interface{}{"name": "custom-root"}},
		},
	}

	current, _, err := BuildGraphs(s)
	require.NoError(t, err)

	root, ok := current.NodeAt(state.Root)
	require.True(t, ok)
	require.Equal(t, "custom-root", root.CurrentState()["name"])
}

func mustPath(t *testing.T, raw string) state.Path {
	t.Helper()
	p, err := state.NewPath(raw)
	require.NoError(t, err)
	return p
}
