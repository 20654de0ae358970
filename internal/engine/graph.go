package engine

import (
	"errors"
	"sort"

	"github.com/danrasband/reconcile/internal/registry"
	"github.com/danrasband/reconcile/internal/state"
	rerrors "github.com/danrasband/reconcile/pkg/errors"
)

// edge is a directed (from, to) pair of node paths.
type edge struct {
	From state.Path
	To   state.Path
}

// Graph is a whole state graph: a set of nodes keyed by path, plus a set of
// directed edges between them. The node set always includes the root
// at "/", inserted by NewGraph.
type Graph struct {
	kind  registry.Kind
	nodes map[state.Path]*Node
	edges map[edge]struct{}
}

// NewGraph constructs a graph of the given graph-kind, auto-inserting a
// root node at "/" with the supplied kind and state. Passing a nil root
// state defaults it to {"name": "root"}, matching the shape every scenario
// in this system uses for the implicit root.
func NewGraph(graphKind, rootKind registry.Kind, rootState state.State) *Graph {
	if rootState == nil {
		rootState = state.State{"name": "root"}
	}
	g := &Graph{
		kind:  graphKind,
		nodes: make(map[state.Path]*Node),
		edges: make(map[edge]struct{}),
	}
	g.nodes[state.Root] = NewNode(state.Root, rootKind, rootState)
	return g
}

// Kind returns the graph's own kind, the namespace graph-level validations
// are registered under.
func (g *Graph) Kind() registry.Kind { return g.kind }

// NodeAt returns the node at path, if any.
func (g *Graph) NodeAt(path state.Path) (*Node, bool) {
	n, ok := g.nodes[path]
	return n, ok
}

// SortedPaths returns every node path in the graph in ascending lexical
// order, the traversal order every deterministic operation in this package
// relies on.
func (g *Graph) SortedPaths() []state.Path {
	paths := make([]state.Path, 0, len(g.nodes))
	for p := range g.nodes {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths
}

// AddNodes inserts new nodes into the graph. It is a PreconditionViolation
// to add a node at a path already present (invariant: one node per path).
func (g *Graph) AddNodes(nodes ...*Node) error {
	for _, n := range nodes {
		if _, exists := g.nodes[n.path]; exists {
			return rerrors.NewPreconditionViolation("AddNodes", "node already exists at path "+n.path.String())
		}
	}
	for _, n := range nodes {
		g.nodes[n.path] = n
	}
	return nil
}

// AddEdges inserts directed edges between existing nodes. It is a
// PreconditionViolation to reference a path with no node. Adding the same
// edge twice is idempotent.
func (g *Graph) AddEdges(pairs ...[2]state.Path) error {
	for _, pair := range pairs {
		if _, ok := g.nodes[pair[0]]; !ok {
			return rerrors.NewPreconditionViolation("AddEdges", "no node at path "+pair[0].String())
		}
		if _, ok := g.nodes[pair[1]]; !ok {
			return rerrors.NewPreconditionViolation("AddEdges", "no node at path "+pair[1].String())
		}
	}
	for _, pair := range pairs {
		g.edges[edge{From: pair[0], To: pair[1]}] = struct{}{}
	}
	return nil
}

// CanonicalEdges returns every edge as a (from, to) path pair, sorted for a
// stable comparison and hashing order.
func (g *Graph) CanonicalEdges() [][2]state.Path {
	out := make([][2]state.Path, 0, len(g.edges))
	for e := range g.edges {
		out = append(out, [2]state.Path{e.From, e.To})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// HasSameState reports whether g and other have identical node sets with
// identical per-path state, and identical directed edge sets. Comparison is
// purely structural — it never touches Go identity.
func (g *Graph) HasSameState(other *Graph) bool {
	if other == nil || len(g.nodes) != len(other.nodes) {
		return false
	}
	for p, n := range g.nodes {
		on, ok := other.nodes[p]
		if !ok || !n.current.Equal(on.current) {
			return false
		}
	}

	edgesA, edgesB := g.CanonicalEdges(), other.CanonicalEdges()
	if len(edgesA) != len(edgesB) {
		return false
	}
	for i := range edgesA {
		if edgesA[i] != edgesB[i] {
			return false
		}
	}
	return true
}

// replaceNode returns a new graph with the node at path swapped for
// replacement, leaving every other node and every edge untouched —
// transitions never add, remove, or reconnect nodes, they only replace the
// state at one existing path.
func (g *Graph) replaceNode(path state.Path, replacement *Node) *Graph {
	out := &Graph{
		kind:  g.kind,
		nodes: make(map[state.Path]*Node, len(g.nodes)),
		edges: make(map[edge]struct{}, len(g.edges)),
	}
	for p, n := range g.nodes {
		if p == path {
			out.nodes[p] = replacement
			continue
		}
		out.nodes[p] = n
	}
	for e := range g.edges {
		out.edges[e] = struct{}{}
	}
	return out
}

// GraphNeighbor is one candidate whole-graph-state reachable from g by
// applying a single node-level transition, keyed by the path it was
// applied at and the (from, to) fragment pair that triggered it.
type GraphNeighbor struct {
	Path  state.Path
	From  state.Fragment
	To    state.Fragment
	Graph *Graph
}

// Neighbors enumerates every whole-graph-state reachable from g by
// replacing exactly one node with one of its own NodeNeighbor results,
// filtered by the graph-level validations registered for g's kind.
//
// Nodes are visited in SortedPaths order and, within a node, transitions in
// registration order, so the result is deterministic across runs for a
// fixed pair of registries. If two different transitions at the same path
// produce the exact same (path, from, to) key — which cannot happen given
// the Transition Registry's own (kind, from, to) uniqueness — the later
// one wins; this is enforced naturally by how the result is built.
func (g *Graph) Neighbors(regs *Registries) ([]GraphNeighbor, error) {
	byKey := make(map[graphTransitionKey]GraphNeighbor)
	keys := make([]graphTransitionKey, 0)

	for _, path := range g.SortedPaths() {
		node := g.nodes[path]
		nodeNeighbors, err := node.Neighbors(regs)
		if err != nil {
			return nil, err
		}

		for _, nb := range nodeNeighbors {
			candidate := g.replaceNode(path, nb.Node)

			if err := regs.GraphValidations.Run(g.kind, candidate); err != nil {
				var failure *rerrors.ValidationFailure
				if errors.As(err, &failure) {
					continue
				}
				return nil, err
			}

			key := graphTransitionKey{
				path: path,
				from: state.CanonicalKeyOf(nb.From),
				to:   state.CanonicalKeyOf(nb.To),
			}
			if _, seen := byKey[key]; !seen {
				keys = append(keys, key)
			}
			byKey[key] = GraphNeighbor{Path: path, From: nb.From, To: nb.To, Graph: candidate}
		}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].path < keys[j].path
	})

	out := make([]GraphNeighbor, 0, len(keys))
	for _, k := range keys {
		out = append(out, byKey[k])
	}
	return out, nil
}

type graphTransitionKey struct {
	path state.Path
	from string
	to   string
}
