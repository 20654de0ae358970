// Package state defines the attribute-map representation shared by every
// node in the reconciliation graph, along with the canonical, hashable form
// used as a map key during planning.
package state

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// nullSentinel is the single reserved value meaning "remove this key from
// the resulting state" when it appears in a transition's `to` fragment. It
// is distinct from a key being absent from the fragment, which means
// "leave this key untouched". Callers should compare against Null, not
// against nil, since a legitimate attribute value may itself be nil.
type nullSentinel struct{}

// Null is the sentinel value used in a transition's `to` fragment to mark a
// key for removal from the resulting state.
var Null = nullSentinel{}

// State is an unordered mapping from attribute name to attribute value. A
// State is also used, in partial form, as a Fragment: a matcher for the
// transition `from` clause or a patch for the transition `to` clause.
type State map[string]interface{}

// Fragment is a partial State used as a matcher or a patch. It is an alias,
// not a distinct type, because the two serve identical shapes — what
// differs is how the caller intends to use the map.
type Fragment = State

// Pair is one (key, value) entry of a canonicalized state, used as the
// stable, hashable unit of comparison.
type Pair struct {
	Key   string
	Value interface{}
}

// Clone returns a shallow copy of s.
func (s State) Clone() State {
	if s == nil {
		return State{}
	}
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Canonical returns the state's (key, value) pairs sorted by key. This is
// the stable form used to build a hashable map key and to compute the
// planner's heuristic.
func (s State) Canonical() []Pair {
	pairs := make([]Pair, 0, len(s))
	for k, v := range s {
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
	return pairs
}

// CanonicalKeyOf renders a fragment's canonical pairs as a stable string,
// for use as a map key (registration keys, transition-triple identity, and
// graph-state hashing all build on this).
func CanonicalKeyOf(f Fragment) string {
	pairs := State(f).Canonical()
	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "%s=%v;", p.Key, p.Value)
	}
	return b.String()
}

// HasSuperset reports whether s contains every (key, value) pair present in
// fragment — i.e. s is a superset of fragment. An empty fragment matches
// any state, including an empty one.
func (s State) HasSuperset(fragment Fragment) bool {
	for k, v := range fragment {
		current, ok := s[k]
		if !ok {
			return false
		}
		if !valuesEqual(current, v) {
			return false
		}
	}
	return true
}

// Merge returns (s ∪ patch) with any key whose patch value is Null removed
// from the result. s and patch are left unmodified.
func (s State) Merge(patch Fragment) State {
	out := s.Clone()
	for k, v := range patch {
		if v == Null {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// Equal reports whether two states contain the same keys mapped to equal
// values, ignoring ordering.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		ov, ok := other[k]
		if !ok || !valuesEqual(v, ov) {
			return false
		}
	}
	return true
}

// valuesEqual compares two attribute values. The data model (§3) requires
// attribute values to be equality-comparable and hashable after
// canonicalization, but reflect.DeepEqual is used here rather than == so a
// caller accidentally storing a slice or map does not panic a planner run.
func valuesEqual(a, b interface{}) bool {
	return reflect.DeepEqual(a, b)
}
