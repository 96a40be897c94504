package hex

import (
	"container/heap"
	"fmt"
	"math"
)

// Distance is the cost type used for path finding. Edge weights and
// accumulated path distances share this type.
type Distance uint32

// NoConnection is returned from edge-weight functions and from Compute
// when two tiles are not connected at all.
const NoConnection Distance = math.MaxUint32

// EdgeWeightFunc returns the cost of moving from one tile onto a
// neighbouring tile, or NoConnection if the step is impossible. It is
// only ever invoked for pairs of neighbours, always in the natural
// direction of travel.
type EdgeWeightFunc func(from, to Coord) Distance

// PathFinder solves shortest-path queries towards one fixed target
// using Dijkstra's algorithm with a caller-supplied edge-weight
// function. Compute fills in the distance field; StepPath then replays
// the actual path from a source.
//
// The expansion runs from the target outwards, so that one distance
// field can serve path replays from any finalised source. Edge weights
// may be asymmetric, which is why the weight function is invoked in the
// forward direction (neighbour towards the expanded tile) even though
// the search itself runs in reverse.
type PathFinder struct {
	target Coord

	edges     EdgeWeightFunc
	distances *RangeMap[Distance]

	computedTiles int
}

// NewPathFinder constructs a path finder for the given fixed target.
func NewPathFinder(target Coord) *PathFinder {
	return &PathFinder{target: target}
}

// Target returns the fixed target coordinate.
func (f *PathFinder) Target() Coord {
	return f.target
}

// ComputedTiles returns how many tiles the last Compute finalised a
// distance for. Exposed for testing only.
func (f *PathFinder) ComputedTiles() int {
	return f.computedTiles
}

// queueItem is an entry of the Dijkstra priority queue. A coordinate
// may be queued multiple times; stale entries are skipped on pop by
// comparing against the stored distance.
type queueItem struct {
	dist  Distance
	coord Coord
}

type distanceQueue []queueItem

func (q distanceQueue) Len() int            { return len(q) }
func (q distanceQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q distanceQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *distanceQueue) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *distanceQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// Compute runs the Dijkstra expansion from the target until the source
// is finalised or the queue runs dry, and returns the shortest-path
// distance from source to target (or NoConnection).
//
// Only tiles within the given L1 range of the target are considered.
// That bounds the work done by a single query, which protects the
// processor against DoS through expensive path requests. Sources
// outside the range are rejected before any allocation.
//
// Priority-queue ordering influences how much work is done but never
// the result: edges are relaxed strictly by "<", so the distance field
// is unique, and path tie-breaking happens in the Stepper.
func (f *PathFinder) Compute(edges EdgeWeightFunc, source Coord, l1Range int) Distance {
	f.computedTiles = 0

	if DistanceL1(source, f.target) > l1Range {
		f.distances = nil
		return NoConnection
	}

	// A path has to leave the source through one of its six edges. If
	// all of them are blocked (the source sits inside an obstacle),
	// the search can be rejected before expanding anything.
	if source != f.target && !hasOutgoingEdge(edges, source) {
		f.distances = nil
		return NoConnection
	}

	f.edges = edges
	f.distances = NewRangeMap(f.target, l1Range, NoConnection)

	*f.distances.Access(f.target) = 0
	queue := distanceQueue{{dist: 0, coord: f.target}}

	for len(queue) > 0 {
		it := heap.Pop(&queue).(queueItem)

		// Entries whose distance no longer matches the stored one are
		// left-overs from before a relaxation and already finalised.
		if f.distances.Get(it.coord) != it.dist {
			continue
		}
		if DistanceL1(it.coord, f.target) > l1Range {
			continue
		}

		f.computedTiles++
		if it.coord == source {
			return it.dist
		}

		for _, n := range it.coord.Neighbours() {
			if !f.distances.IsInRange(n) {
				continue
			}

			// The step along the final path runs from n onto the tile
			// we are expanding, so the weight is queried that way.
			w := edges(n, it.coord)
			if w == NoConnection {
				continue
			}

			tentative := it.dist + w
			slot := f.distances.Access(n)
			if tentative < *slot {
				*slot = tentative
				heap.Push(&queue, queueItem{dist: tentative, coord: n})
			}
		}
	}

	return NoConnection
}

func hasOutgoingEdge(edges EdgeWeightFunc, c Coord) bool {
	for _, n := range c.Neighbours() {
		if edges(c, n) != NoConnection {
			return true
		}
	}
	return false
}

// StepPath returns a Stepper walking the shortest path from source to
// the target. It must only be called after a successful Compute for
// that source.
func (f *PathFinder) StepPath(source Coord) *Stepper {
	if f.distances == nil || !f.distances.IsInRange(source) || f.distances.Get(source) == NoConnection {
		panic(fmt.Sprintf("hex: no path from %v has been computed", source))
	}
	return &Stepper{finder: f, position: source}
}

// Stepper walks along a shortest path computed by a PathFinder. It
// borrows the finder's distance field; multiple steppers over one
// finder may coexist as long as the finder is not recomputed.
type Stepper struct {
	finder   *PathFinder
	position Coord

	// lastDirection is the direction of the previous step. Continuing
	// straight is preferred when several optimal steps exist, which
	// greedily minimises the number of turns in the final path.
	lastDirection Difference
}

// HasMore reports whether the target has not been reached yet.
func (s *Stepper) HasMore() bool {
	return s.position != s.finder.target
}

// Position returns the current position along the path.
func (s *Stepper) Position() Coord {
	return s.position
}

// tryStep advances onto target if that continues a shortest path and
// returns the step cost.
func (s *Stepper) tryStep(target Coord) (Distance, bool) {
	cur := s.finder.distances.Get(s.position)

	if !s.finder.distances.IsInRange(target) {
		return 0, false
	}
	dist := s.finder.distances.Get(target)
	if dist == NoConnection {
		return 0, false
	}

	step := s.finder.edges(s.position, target)
	if step == NoConnection {
		return 0, false
	}
	if dist+step != cur {
		return 0, false
	}

	s.lastDirection = Sub(target, s.position)
	s.position = target
	return step, true
}

// Next advances one tile along the path and returns the new position
// together with the cost this step accounts for. Must only be called
// while HasMore is true.
func (s *Stepper) Next() (Coord, Distance) {
	if !s.HasMore() {
		panic("hex: stepping past the path target")
	}

	if s.lastDirection != (Difference{}) {
		if step, ok := s.tryStep(s.position.Add(s.lastDirection)); ok {
			return s.position, step
		}
	}

	for _, n := range s.position.Neighbours() {
		if step, ok := s.tryStep(n); ok {
			return s.position, step
		}
	}

	panic(fmt.Sprintf("hex: no neighbour of %v continues the shortest path", s.position))
}
