package engine

import (
	"container/heap"

	"github.com/danrasband/reconcile/internal/state"
	rerrors "github.com/danrasband/reconcile/pkg/errors"
)

// DefaultIterationBound is the planner's default cap on frontier pops
// before it fails with SearchExhausted.
const DefaultIterationBound = 10_000

// TransitionStep is one planned move: replace the node at Path by merging
// the To fragment into its state, having matched it against From.
type TransitionStep struct {
	Path state.Path
	From state.Fragment
	To   state.Fragment
}

// Plan is an ordered list of transition steps, applied in order, that
// carries current toward desired.
type Plan []TransitionStep

// Planner runs a bounded A* search over the space of graph-states
// reachable from a starting graph by repeated
// application of Graph.Neighbors, guided by an admissible heuristic
// counting attribute pairs still mismatched against the desired graph.
type Planner struct {
	Registries     *Registries
	IterationBound int
}

// NewPlanner constructs a Planner with the given registries and the
// default iteration bound.
func NewPlanner(regs *Registries) *Planner {
	return &Planner{Registries: regs, IterationBound: DefaultIterationBound}
}

// frontierEntry is one item on the planner's priority queue.
type frontierEntry struct {
	f, g, seq int
	graph     *Graph
	key       string
}

// frontier is a min-heap over frontierEntry ordered by f, with ties broken
// by insertion order (seq) so the search is deterministic.
type frontier []*frontierEntry

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].f != f[j].f {
		return f[i].f < f[j].f
	}
	return f[i].seq < f[j].seq
}
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x interface{}) { *f = append(*f, x.(*frontierEntry)) }
func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

type cameFromEntry struct {
	predecessorKey string
	predecessor    *Graph
	triple         TransitionStep
	hasPredecessor bool
}

// Plan searches for a path of transitions from current to desired,
// returning the ordered list of steps to apply. Preconditions: current and
// desired must share an identical set of node paths.
func (p *Planner) Plan(current, desired *Graph) (Plan, error) {
	if err := checkSamePathSet(current, desired); err != nil {
		return nil, err
	}

	bound := p.IterationBound
	if bound <= 0 {
		bound = DefaultIterationBound
	}

	startKey := graphStateKey(current)
	costSoFar := map[string]int{startKey: 0}
	cameFrom := map[string]cameFromEntry{startKey: {}}

	pq := &frontier{}
	heap.Init(pq)
	seq := 0
	heap.Push(pq, &frontierEntry{f: heuristic(current, desired), g: 0, seq: seq, graph: current, key: startKey})

	iterations := 0
	for pq.Len() > 0 {
		if iterations >= bound {
			return nil, rerrors.NewSearchExhausted(bound)
		}
		iterations++

		entry := heap.Pop(pq).(*frontierEntry)
		if entry.graph.HasSameState(desired) {
			return reconstructPlan(cameFrom, entry.key), nil
		}

		neighbors, err := entry.graph.Neighbors(p.Registries)
		if err != nil {
			return nil, err
		}

		for _, nb := range neighbors {
			nKey := graphStateKey(nb.Graph)
			gPrime := entry.g + 1

			existing, seen := costSoFar[nKey]
			if seen && gPrime >= existing {
				continue
			}

			costSoFar[nKey] = gPrime
			cameFrom[nKey] = cameFromEntry{
				predecessorKey: entry.key,
				predecessor:    entry.graph,
				triple:         TransitionStep{Path: nb.Path, From: nb.From, To: nb.To},
				hasPredecessor: true,
			}

			seq++
			heap.Push(pq, &frontierEntry{
				f:     gPrime + heuristic(nb.Graph, desired),
				g:     gPrime,
				seq:   seq,
				graph: nb.Graph,
				key:   nKey,
			})
		}
	}

	return Plan{}, nil
}

// reconstructPlan walks cameFrom backward from goalKey to the search root,
// collecting transition triples, then reverses the result so steps read in
// the order they must be applied.
func reconstructPlan(cameFrom map[string]cameFromEntry, goalKey string) Plan {
	var steps []TransitionStep
	key := goalKey
	for {
		entry, ok := cameFrom[key]
		if !ok || !entry.hasPredecessor {
			break
		}
		steps = append(steps, entry.triple)
		key = entry.predecessorKey
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	if steps == nil {
		return Plan{}
	}
	return Plan(steps)
}

// heuristic estimates the number of remaining steps from s to desired: the
// count, summed across paths, of canonical attribute pairs present in s
// but absent from desired at the same path. It never divides, so it stays
// admissible even for transitions that change several pairs in one step.
func heuristic(s, desired *Graph) int {
	total := 0
	for _, path := range s.SortedPaths() {
		desiredNode, ok := desired.NodeAt(path)
		if !ok {
			continue
		}
		sourceNode, _ := s.NodeAt(path)

		desiredPairs := make(map[string]struct{})
		for _, pair := range desiredNode.current.Canonical() {
			desiredPairs[state.CanonicalKeyOf(state.Fragment{pair.Key: pair.Value})] = struct{}{}
		}
		for _, pair := range sourceNode.current.Canonical() {
			if _, present := desiredPairs[state.CanonicalKeyOf(state.Fragment{pair.Key: pair.Value})]; !present {
				total++
			}
		}
	}
	return total
}

func checkSamePathSet(a, b *Graph) error {
	pathsA, pathsB := a.SortedPaths(), b.SortedPaths()
	if len(pathsA) != len(pathsB) {
		return rerrors.NewPreconditionViolation("Plan", "current and desired graphs must have identical node-path sets")
	}
	for i := range pathsA {
		if pathsA[i] != pathsB[i] {
			return rerrors.NewPreconditionViolation("Plan", "current and desired graphs must have identical node-path sets")
		}
	}
	return nil
}
