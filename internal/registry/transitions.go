package registry

import (
	"context"

	"github.com/danrasband/reconcile/internal/state"
	rerrors "github.com/danrasband/reconcile/pkg/errors"
)

// NodeView is the minimal read surface a transition callback or validation
// predicate needs from a node, without the registry package depending on
// the concrete engine.Node type (which itself depends on this package for
// registrations).
type NodeView interface {
	PathString() string
	NodeKind() Kind
	CurrentState() state.State
}

// TransitionCallback is the user-supplied function bound to a registered
// transition. It receives the live node and may return an arbitrary value
// (becomes the step's execution result) or fail.
type TransitionCallback func(ctx context.Context, node NodeView) (interface{}, error)

// TransitionRule is one registered (from, to, callback) triple, as returned
// by EnumerateFor. From/To are exposed so the node-neighbor enumeration
// (§4.3) can recover the triggering fragment pair; the callback is invoked
// only by the Executor, which resolves it through Lookup.
type TransitionRule struct {
	Kind     Kind
	From     state.Fragment
	To       state.Fragment
	Callback TransitionCallback
}

type transitionKey struct {
	kind Kind
	from string
	to   string
}

// TransitionRegistry holds, per node-kind, the mapping from a from-state
// fragment to a set of to-state fragments, each bound to a callback.
type TransitionRegistry struct {
	order []TransitionRule
	index map[transitionKey]int
}

// NewTransitionRegistry constructs an empty Transition Registry.
func NewTransitionRegistry() *TransitionRegistry {
	return &TransitionRegistry{index: make(map[transitionKey]int)}
}

// Register binds a callback to the (kind, from, to) triple. Re-registering
// the same triple overwrites the previous callback in place, preserving its
// original position in registration order. `to` must be non-empty — a
// transition that changes nothing is rejected as an InvalidRegistration.
// `from` may be empty, meaning "matches any state of this kind".
func (r *TransitionRegistry) Register(kind Kind, from, to state.Fragment, cb TransitionCallback) error {
	if len(to) == 0 {
		return rerrors.NewInvalidRegistration(kind.String(), "`to` fragment must not be empty")
	}
	if cb == nil {
		return rerrors.NewInvalidRegistration(kind.String(), "callback must not be nil")
	}

	key := transitionKey{kind: kind, from: state.CanonicalKeyOf(from), to: state.CanonicalKeyOf(to)}
	rule := TransitionRule{Kind: kind, From: from, To: to, Callback: cb}

	if idx, ok := r.index[key]; ok {
		r.order[idx] = rule
		return nil
	}
	r.index[key] = len(r.order)
	r.order = append(r.order, rule)
	return nil
}

// Lookup retrieves the callback registered for the exact (kind, from, to)
// triple, as used by the Executor when replaying a planned step.
func (r *TransitionRegistry) Lookup(kind Kind, from, to state.Fragment) (TransitionCallback, bool) {
	key := transitionKey{kind: kind, from: state.CanonicalKeyOf(from), to: state.CanonicalKeyOf(to)}
	idx, ok := r.index[key]
	if !ok {
		return nil, false
	}
	return r.order[idx].Callback, true
}

// EnumerateFor returns every registered rule for the given kind, in
// registration order, which the planner relies on for deterministic
// ordering of transitions out of a node.
func (r *TransitionRegistry) EnumerateFor(kind Kind) []TransitionRule {
	rules := make([]TransitionRule, 0, len(r.order))
	for _, rule := range r.order {
		if rule.Kind == kind {
			rules = append(rules, rule)
		}
	}
	return rules
}

// KindsFor returns every kind that has a rule registered for the exact
// (from, to) triple, regardless of kind. The Executor uses this to tell
// apart "no such transition at all" from "this node is the wrong kind for
// an otherwise-matching transition" when a wrapped callback invocation
// fails to resolve.
func (r *TransitionRegistry) KindsFor(from, to state.Fragment) []Kind {
	fromKey, toKey := state.CanonicalKeyOf(from), state.CanonicalKeyOf(to)
	var kinds []Kind
	for _, rule := range r.order {
		if state.CanonicalKeyOf(rule.From) == fromKey && state.CanonicalKeyOf(rule.To) == toKey {
			kinds = append(kinds, rule.Kind)
		}
	}
	return kinds
}
