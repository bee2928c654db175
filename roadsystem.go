package roadgraph

import (
	"log/slog"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"

	"github.com/voidshard/roadgraph/internal/arena"
	"github.com/voidshard/roadgraph/internal/geom"
)

// node is an intersection as stored in the arena
type node struct {
	pos   geom.Point
	roads []RoadID
}

// edge is a road as stored in the arena
type edge struct {
	a NodeID
	b NodeID
}

// RoadSystem is an undirected planar graph of intersections joined by
// straight roads. It is not safe for concurrent use; callers hand it to one
// writer at a time.
type RoadSystem struct {
	cfg *Config
	log *slog.Logger

	nodes *arena.Arena[*node]
	roads *arena.Arena[edge]

	// built on demand, dropped whenever an intersection comes or goes
	near *nodeIndex
}

// nodeIndex finds intersections by position
type nodeIndex struct {
	idx   *geom.Index
	byPos map[geom.Point]NodeID
}

// NewRoadSystem returns an empty road system. A nil config uses DefaultConfig().
func NewRoadSystem(cfg *Config) (*RoadSystem, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	err := cfg.init()
	if err != nil {
		return nil, err
	}
	return &RoadSystem{
		cfg:   cfg,
		log:   cfg.Logger,
		nodes: arena.New[*node](),
		roads: arena.New[edge](),
	}, nil
}

// Config returns the settings the system was built with
func (r *RoadSystem) Config() *Config {
	return r.cfg
}

// Stats returns the current node / road counts
func (r *RoadSystem) Stats() Stats {
	return Stats{Intersections: r.nodes.Len(), Roads: r.roads.Len()}
}

// NodeCount returns the number of intersections
func (r *RoadSystem) NodeCount() int {
	return r.nodes.Len()
}

// RoadCount returns the number of roads
func (r *RoadSystem) RoadCount() int {
	return r.roads.Len()
}

// String implements fmt.Stringer
func (r *RoadSystem) String() string {
	return r.Stats().String()
}

// InsertIntersection adds an intersection with no roads
func (r *RoadSystem) InsertIntersection(p geom.Point) NodeID {
	r.near = nil
	return NodeID(r.nodes.Insert(&node{pos: p, roads: []RoadID{}}))
}

// Intersection returns the intersection with the given id
func (r *RoadSystem) Intersection(id NodeID) (Intersection, error) {
	n, err := r.node(id)
	if err != nil {
		return Intersection{}, err
	}
	return Intersection{ID: id, Position: n.pos}, nil
}

// Intersections returns all intersections in a stable order
func (r *RoadSystem) Intersections() []Intersection {
	out := make([]Intersection, 0, r.nodes.Len())
	r.nodes.Each(func(id arena.ID, n *node) bool {
		out = append(out, Intersection{ID: NodeID(id), Position: n.pos})
		return true
	})
	return out
}

// Road returns the road with the given id
func (r *RoadSystem) Road(id RoadID) (Road, error) {
	e, ok := r.roads.Get(arena.ID(id))
	if !ok {
		return Road{}, errors.Wrapf(ErrRoadNotFound, "road %s", id)
	}
	return Road{ID: id, A: e.a, B: e.b}, nil
}

// Roads returns all roads in a stable order
func (r *RoadSystem) Roads() []Road {
	out := make([]Road, 0, r.roads.Len())
	r.roads.Each(func(id arena.ID, e edge) bool {
		out = append(out, Road{ID: RoadID(id), A: e.a, B: e.b})
		return true
	})
	return out
}

// RoadsAt returns the ids of all roads ending at the given intersection
func (r *RoadSystem) RoadsAt(id NodeID) ([]RoadID, error) {
	n, err := r.node(id)
	if err != nil {
		return nil, err
	}
	return append([]RoadID{}, n.roads...), nil
}

// Degree returns how many roads end at the given intersection
func (r *RoadSystem) Degree(id NodeID) (int, error) {
	n, err := r.node(id)
	if err != nil {
		return 0, err
	}
	return len(n.roads), nil
}

// Neighbours returns the intersections directly connected to id
func (r *RoadSystem) Neighbours(id NodeID) ([]NodeID, error) {
	n, err := r.node(id)
	if err != nil {
		return nil, err
	}
	out := make([]NodeID, 0, len(n.roads))
	for _, rid := range n.roads {
		e, _ := r.roads.Get(arena.ID(rid))
		out = append(out, Road{A: e.a, B: e.b}.Other(id))
	}
	return out, nil
}

// RoadBetween returns the road joining a & b, if there is one
func (r *RoadSystem) RoadBetween(a, b NodeID) (RoadID, bool) {
	n, ok := r.nodes.Get(arena.ID(a))
	if !ok {
		return 0, false
	}
	for _, rid := range n.roads {
		e, _ := r.roads.Get(arena.ID(rid))
		if (e.a == a && e.b == b) || (e.a == b && e.b == a) {
			return rid, true
		}
	}
	return 0, false
}

// Segment returns the geometry of a road
func (r *RoadSystem) Segment(id RoadID) (geom.Segment, error) {
	e, ok := r.roads.Get(arena.ID(id))
	if !ok {
		return geom.Segment{}, errors.Wrapf(ErrRoadNotFound, "road %s", id)
	}
	return r.segment(e), nil
}

// NearestIntersection returns the intersection closest to p, if one lies
// within the given distance. Ties go to the oldest slot.
func (r *RoadSystem) NearestIntersection(p geom.Point, within float64) (NodeID, bool) {
	if r.nodes.Len() == 0 {
		return 0, false
	}

	if r.near == nil {
		points := make([]geom.Point, 0, r.nodes.Len())
		byPos := map[geom.Point]NodeID{}
		r.nodes.Each(func(id arena.ID, n *node) bool {
			points = append(points, n.pos)
			if _, ok := byPos[n.pos]; !ok {
				byPos[n.pos] = NodeID(id)
			}
			return true
		})
		r.near = &nodeIndex{idx: geom.NewIndex(points), byPos: byPos}
	}

	found, ok := r.near.idx.Nearest(p, within)
	if !ok {
		return 0, false
	}
	id, ok := r.near.byPos[found]
	return id, ok
}

// FindIntersections returns every point where the straight line between
// intersections n1 & n2 crosses an existing road. Roads that already end at
// n1 or n2 are ignored. Results are in discovery order (oldest road first).
func (r *RoadSystem) FindIntersections(n1, n2 NodeID) ([]Crossing, error) {
	a, err := r.node(n1)
	if err != nil {
		return nil, err
	}
	b, err := r.node(n2)
	if err != nil {
		return nil, err
	}
	return r.crossings(geom.Seg(a.pos, b.pos), n1, n2), nil
}

// ConnectIntersections builds a road between n1 & n2. Every existing road the
// new one crosses is split at the crossing, with an intersection placed
// there, & the new road is broken into pieces running between consecutive
// crossings. Either the whole edit is applied or (on error) nothing is.
func (r *RoadSystem) ConnectIntersections(n1, n2 NodeID) (*Change, error) {
	a, err := r.node(n1)
	if err != nil {
		return nil, err
	}
	b, err := r.node(n2)
	if err != nil {
		return nil, err
	}

	p, err := r.planRoad(a.pos, b.pos, n1, n2)
	if err != nil {
		return nil, err
	}

	return r.apply(p), nil
}

// AddRoad builds a road between two points, reusing intersections that lie
// within MergeDistance of either end & creating them otherwise.
// Otherwise identical to ConnectIntersections.
func (r *RoadSystem) AddRoad(p1, p2 geom.Point) (*Change, error) {
	n1, p1 := r.resolve(p1)
	n2, p2 := r.resolve(p2)

	p, err := r.planRoad(p1, p2, n1, n2)
	if err != nil {
		return nil, err
	}

	return r.apply(p), nil
}

// ValidConnection reports if a road between p1 & p2 would be accepted:
// it must not overlap an existing road & every segment the edit would
// create (pieces of the new road & both halves of any road it splits) must
// be at least MinRoadLength long. The graph is not modified.
func (r *RoadSystem) ValidConnection(p1, p2 geom.Point) bool {
	n1, p1 := r.resolve(p1)
	n2, p2 := r.resolve(p2)

	p, err := r.planRoad(p1, p2, n1, n2)
	if err != nil {
		return false
	}

	for _, s := range p.segments() {
		if s.Length() < r.cfg.MinRoadLength {
			return false
		}
	}

	return true
}

// PointIntersectConnection returns the road nearest to p, provided p lies
// within HitTolerance of it (measured perpendicular to the road).
func (r *RoadSystem) PointIntersectConnection(p geom.Point) (Road, bool) {
	var (
		best  Road
		bestD float64
		found bool
	)

	r.roads.Each(func(id arena.ID, e edge) bool {
		d, ok := r.segment(e).DistanceTo(p)
		if !ok || d > r.cfg.HitTolerance {
			return true
		}
		if !found || d < bestD {
			best = Road{ID: RoadID(id), A: e.a, B: e.b}
			bestD = d
			found = true
		}
		return true
	})

	return best, found
}

// DisconnectIntersections removes the road between n1 & n2.
// Only the road is removed; both intersections remain even if left with no roads.
func (r *RoadSystem) DisconnectIntersections(n1, n2 NodeID) (*Change, error) {
	if _, err := r.node(n1); err != nil {
		return nil, err
	}
	if _, err := r.node(n2); err != nil {
		return nil, err
	}

	rid, ok := r.RoadBetween(n1, n2)
	if !ok {
		return nil, errors.Wrapf(ErrRoadNotFound, "between %s and %s", n1, n2)
	}

	r.removeRoad(rid)
	r.log.Debug("roads disconnected", "a", n1, "b", n2, "road", rid)

	return &Change{RemovedRoads: []RoadID{rid}}, nil
}

// RemoveRoad removes a single road, leaving its intersections in place
func (r *RoadSystem) RemoveRoad(id RoadID) (*Change, error) {
	if !r.roads.Valid(arena.ID(id)) {
		return nil, errors.Wrapf(ErrRoadNotFound, "road %s", id)
	}
	r.removeRoad(id)
	return &Change{RemovedRoads: []RoadID{id}}, nil
}

// RemoveIntersection removes an intersection & every road that ends there
func (r *RoadSystem) RemoveIntersection(id NodeID) (*Change, error) {
	n, err := r.node(id)
	if err != nil {
		return nil, err
	}

	chg := &Change{}
	for _, rid := range append([]RoadID{}, n.roads...) {
		r.removeRoad(rid)
		chg.RemovedRoads = append(chg.RemovedRoads, rid)
	}

	r.removeNode(id)
	chg.RemovedIntersections = append(chg.RemovedIntersections, id)

	r.log.Debug("intersection removed", "id", id, "roads", len(chg.RemovedRoads))
	return chg, nil
}

// PruneIsolated removes any of the given intersections that have no roads.
// Unknown ids are skipped. Returns the ids removed.
func (r *RoadSystem) PruneIsolated(ids ...NodeID) []NodeID {
	removed := []NodeID{}
	for _, id := range ids {
		n, ok := r.nodes.Get(arena.ID(id))
		if !ok || len(n.roads) > 0 {
			continue
		}
		r.removeNode(id)
		removed = append(removed, id)
	}
	return removed
}

// Validate checks the graph's structural invariants; no self loops, no road
// referencing a missing intersection, adjacency matching the road list, no
// doubled roads, no two intersections within MergeDistance, no intersection
// sitting on a road that doesn't end there & no two roads crossing anywhere
// but a shared intersection.
func (r *RoadSystem) Validate() error {
	pairs := map[[2]NodeID]RoadID{}
	segs := map[RoadID]geom.Segment{}
	roads := r.Roads()

	for _, road := range roads {
		if road.A == road.B {
			return errors.Wrapf(ErrInvalidGraph, "road %s is a self loop", road.ID)
		}
		for _, end := range []NodeID{road.A, road.B} {
			n, ok := r.nodes.Get(arena.ID(end))
			if !ok {
				return errors.Wrapf(ErrInvalidGraph, "road %s references missing intersection %s", road.ID, end)
			}
			if !containsRoad(n.roads, road.ID) {
				return errors.Wrapf(ErrInvalidGraph, "intersection %s does not list road %s", end, road.ID)
			}
		}

		key := pairKey(road.A, road.B)
		if other, ok := pairs[key]; ok {
			return errors.Wrapf(ErrInvalidGraph, "roads %s and %s join the same intersections", other, road.ID)
		}
		pairs[key] = road.ID

		seg, _ := r.Segment(road.ID)
		if seg.Length() <= r.cfg.MergeDistance {
			return errors.Wrapf(ErrInvalidGraph, "road %s has no length", road.ID)
		}
		segs[road.ID] = seg
	}

	points := []geom.Point{}
	var bad error
	r.nodes.Each(func(id arena.ID, n *node) bool {
		for _, rid := range n.roads {
			e, ok := r.roads.Get(arena.ID(rid))
			if !ok || (e.a != NodeID(id) && e.b != NodeID(id)) {
				bad = errors.Wrapf(ErrInvalidGraph, "intersection %s lists foreign road %s", NodeID(id), rid)
				return false
			}
		}
		points = append(points, n.pos)
		return true
	})
	if bad != nil {
		return bad
	}

	idx := geom.NewIndex(points)
	for _, p := range points {
		if len(idx.Within(p, r.cfg.MergeDistance)) > 1 {
			return errors.Wrapf(ErrInvalidGraph, "intersections coincide at %v", p)
		}
	}

	nodes := r.Intersections()
	for _, road := range roads {
		seg := segs[road.ID]
		box := seg.Bounds().ExpandedByMargin(r.cfg.MergeDistance)
		for _, n := range nodes {
			if road.Joins(n.ID) || !box.ContainsPoint(r2.Point{X: n.Position.X, Y: n.Position.Y}) {
				continue
			}
			if d, ok := seg.DistanceTo(n.Position); ok && d <= r.cfg.MergeDistance {
				return errors.Wrapf(ErrInvalidGraph, "intersection %s lies on road %s", n.ID, road.ID)
			}
		}
	}

	for i, ra := range roads {
		for _, rb := range roads[i+1:] {
			if ra.Joins(rb.A) || ra.Joins(rb.B) {
				continue
			}
			sa, sb := segs[ra.ID], segs[rb.ID]
			if !sa.Bounds().Intersects(sb.Bounds()) {
				continue
			}
			if p, ok := geom.Intersect(sa, sb); ok {
				return errors.Wrapf(ErrInvalidGraph, "roads %s and %s cross at %v", ra.ID, rb.ID, p)
			}
		}
	}

	return nil
}

// node returns the stored intersection or a wrapped ErrIntersectionNotFound
func (r *RoadSystem) node(id NodeID) (*node, error) {
	n, ok := r.nodes.Get(arena.ID(id))
	if !ok {
		return nil, errors.Wrapf(ErrIntersectionNotFound, "intersection %s", id)
	}
	return n, nil
}

// segment returns the geometry of an edge
func (r *RoadSystem) segment(e edge) geom.Segment {
	a, _ := r.nodes.Get(arena.ID(e.a))
	b, _ := r.nodes.Get(arena.ID(e.b))
	return geom.Seg(a.pos, b.pos)
}

// resolve returns the intersection within MergeDistance of p (and its
// position) or zero & p itself.
func (r *RoadSystem) resolve(p geom.Point) (NodeID, geom.Point) {
	id, ok := r.NearestIntersection(p, r.cfg.MergeDistance)
	if !ok {
		return 0, p
	}
	n, _ := r.nodes.Get(arena.ID(id))
	return id, n.pos
}

// addRoad links a & b, callers have already checked both exist & differ
func (r *RoadSystem) addRoad(a, b NodeID) RoadID {
	rid := RoadID(r.roads.Insert(edge{a: a, b: b}))
	na, _ := r.nodes.Get(arena.ID(a))
	nb, _ := r.nodes.Get(arena.ID(b))
	na.roads = append(na.roads, rid)
	nb.roads = append(nb.roads, rid)
	return rid
}

// removeNode drops an intersection, which must already have no roads
func (r *RoadSystem) removeNode(id NodeID) {
	r.nodes.Remove(arena.ID(id))
	r.near = nil
}

// removeRoad unlinks a road from both ends & frees it
func (r *RoadSystem) removeRoad(id RoadID) {
	e, ok := r.roads.Get(arena.ID(id))
	if !ok {
		return
	}
	for _, end := range []NodeID{e.a, e.b} {
		n, ok := r.nodes.Get(arena.ID(end))
		if !ok {
			continue
		}
		for i, rid := range n.roads {
			if rid == id {
				essentials.UnorderedDelete(&n.roads, i)
				break
			}
		}
	}
	r.roads.Remove(arena.ID(id))
}

// containsRoad returns if id is in the list
func containsRoad(in []RoadID, id RoadID) bool {
	for _, rid := range in {
		if rid == id {
			return true
		}
	}
	return false
}

// pairKey returns an order independent key for a pair of intersections
func pairKey(a, b NodeID) [2]NodeID {
	if b < a {
		a, b = b, a
	}
	return [2]NodeID{a, b}
}
