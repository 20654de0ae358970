package engine

import (
	"errors"

	"github.com/danrasband/reconcile/internal/registry"
	"github.com/danrasband/reconcile/internal/state"
	rerrors "github.com/danrasband/reconcile/pkg/errors"
)

// Node is a single point in a state graph: an absolute path, a node-kind
// used to look up transitions and validations, and the attribute state
// currently held at that path.
type Node struct {
	path    state.Path
	kind    registry.Kind
	current state.State
}

// NewNode constructs a node at path with the given kind and initial state.
// A nil initial state is treated as empty.
func NewNode(path state.Path, kind registry.Kind, initial state.State) *Node {
	if initial == nil {
		initial = state.State{}
	}
	return &Node{path: path, kind: kind, current: initial.Clone()}
}

// Path returns the node's path.
func (n *Node) Path() state.Path { return n.path }

// PathString satisfies registry.NodeView.
func (n *Node) PathString() string { return n.path.String() }

// NodeKind satisfies registry.NodeView.
func (n *Node) NodeKind() registry.Kind { return n.kind }

// CurrentState satisfies registry.NodeView and returns the node's live
// state. Callers must not mutate the returned map; use SetState instead.
func (n *Node) CurrentState() state.State { return n.current }

// SetState replaces the node's state in place. Apart from graph
// construction (scenario.BuildGraphs sets the root's state this way), the
// Executor is its only caller — the Planner only ever builds new
// candidate nodes, it never mutates an existing one.
func (n *Node) SetState(s state.State) { n.current = s }

// clone returns an independent copy of n, sharing no mutable state with
// the original.
func (n *Node) clone() *Node {
	return &Node{path: n.path, kind: n.kind, current: n.current.Clone()}
}

// NodeNeighbor is one candidate state reachable from a node by a single
// registered transition, along with the (from, to) fragment pair that
// produced it.
type NodeNeighbor struct {
	From state.Fragment
	To   state.Fragment
	Node *Node
}

// Neighbors enumerates every node-state reachable from n by exactly one
// registered transition whose `from` fragment matches n's current state,
// filtered by the node-level validations registered for n's kind. A
// transition whose candidate result fails a validation with
// *rerrors.ValidationFailure is pruned silently; any other
// validation error propagates, since it signals a broken predicate rather
// than a rejected candidate.
//
// Enumeration order follows registration order (EnumerateFor), which is
// what gives the planner deterministic tie-breaking among transitions out
// of the same node.
func (n *Node) Neighbors(regs *Registries) ([]NodeNeighbor, error) {
	rules := regs.Transitions.EnumerateFor(n.kind)
	out := make([]NodeNeighbor, 0, len(rules))

	for _, rule := range rules {
		if !n.current.HasSuperset(rule.From) {
			continue
		}

		candidate := &Node{path: n.path, kind: n.kind, current: n.current.Merge(rule.To)}

		if err := regs.NodeValidations.Run(n.kind, candidate); err != nil {
			var failure *rerrors.ValidationFailure
			if errors.As(err, &failure) {
				continue
			}
			return nil, err
		}

		out = append(out, NodeNeighbor{From: rule.From, To: rule.To, Node: candidate})
	}

	return out, nil
}
