package engine

import (
	"strings"

	"github.com/danrasband/reconcile/internal/state"
)

// graphStateKey renders the whole observable state of g — every node's
// canonical state plus the canonical edge set — as a single string safe to
// use as a map key. The Planner uses this for its cameFrom/costSoFar
// bookkeeping: a whole graph-state is
// made hashable by folding the same canonicalization already used for a
// single fragment over every node in the graph, in path order, plus the
// sorted edge list.
func graphStateKey(g *Graph) string {
	var b strings.Builder
	for _, p := range g.SortedPaths() {
		b.WriteString(p.String())
		b.WriteByte('\x00')
		b.WriteString(state.CanonicalKeyOf(g.nodes[p].current))
		b.WriteByte('\x1e')
	}
	b.WriteString("\x1d")
	for _, e := range g.CanonicalEdges() {
		b.WriteString(e[0].String())
		b.WriteByte('>')
		b.WriteString(e[1].String())
		b.WriteByte('\x1e')
	}
	return b.String()
}
