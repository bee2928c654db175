package roadgraph

import (
	"sort"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/voidshard/roadgraph/internal/arena"
	"github.com/voidshard/roadgraph/internal/geom"
)

// stop is somewhere a planned road passes through; either an existing
// intersection or one that apply() will create.
type stop struct {
	pos  geom.Point
	node NodeID // zero until created
}

// split is an existing road that will be cut in two at a stop
type split struct {
	road RoadID
	a, b NodeID
	apos geom.Point
	bpos geom.Point
	at   int // index into plan.stops
}

// waypoint is something a planned road passes between its ends; either a
// crossed road or an intersection sitting on the line.
type waypoint struct {
	dist     float64 // from the start of the road
	crossing Crossing
	node     NodeID // set if this is an intersection
	pos      geom.Point
}

// plan is everything a new road will do to the graph, worked out before
// anything is touched so that an edit either happens in full or not at all.
type plan struct {
	// stops from start to end, the road is built between consecutive stops
	stops []*stop

	// skip[i] is true if stops i & i+1 are already connected
	skip []bool

	splits []split
}

// segments returns the geometry of every road the plan would create
func (p *plan) segments() []geom.Segment {
	out := []geom.Segment{}
	for i := 0; i+1 < len(p.stops); i++ {
		if p.skip[i] {
			continue
		}
		out = append(out, geom.Seg(p.stops[i].pos, p.stops[i+1].pos))
	}
	for _, s := range p.splits {
		at := p.stops[s.at].pos
		out = append(out, geom.Seg(s.apos, at), geom.Seg(at, s.bpos))
	}
	return out
}

// via records that the road passes through an existing intersection
func (p *plan) via(id NodeID, pos geom.Point, merge float64) {
	for _, s := range p.stops {
		if s.node == id {
			return
		}
	}

	// a crossing we've just placed is really this intersection
	last := p.stops[len(p.stops)-1]
	if len(p.stops) > 1 && last.node == 0 && last.pos.Dist(pos) <= merge {
		last.node = id
		last.pos = pos
		return
	}

	p.stops = append(p.stops, &stop{pos: pos, node: id})
}

// crossingAt returns the index of the stop a crossing at pos should use,
// sharing the previous stop if it's within merge distance.
func (p *plan) crossingAt(pos geom.Point, merge float64) int {
	last := len(p.stops) - 1
	if last > 0 && p.stops[last].pos.Dist(pos) <= merge {
		return last
	}
	p.stops = append(p.stops, &stop{pos: pos})
	return len(p.stops) - 1
}

// planRoad works out how to build a road from p1 to p2, where n1 & n2 are the
// intersections at either end (zero if they are to be created).
func (r *RoadSystem) planRoad(p1, p2 geom.Point, n1, n2 NodeID) (*plan, error) {
	merge := r.cfg.MergeDistance

	if n1 != 0 && n1 == n2 {
		return nil, errors.Wrapf(ErrSelfLoop, "intersection %s", n1)
	}
	if p1.Dist(p2) <= merge {
		return nil, errors.Wrapf(ErrDegenerateSegment, "%v to %v", p1, p2)
	}
	if n1 != 0 && n2 != 0 {
		if rid, ok := r.RoadBetween(n1, n2); ok {
			return nil, errors.Wrapf(ErrDuplicateRoad, "road %s joins %s and %s", rid, n1, n2)
		}
	}

	seg := geom.Seg(p1, p2)
	if rid, ok := r.overlapping(seg); ok {
		return nil, errors.Wrapf(ErrOverlappingRoad, "road %s", rid)
	}

	ways := []waypoint{}
	for _, h := range SortByDistance(p1, r.crossings(seg, n1, n2)) {
		ways = append(ways, waypoint{dist: h.Distance, crossing: h})
	}
	ways = append(ways, r.intersectionsOn(seg, n1, n2)...)
	sort.SliceStable(ways, func(i, j int) bool {
		return ways[i].dist < ways[j].dist
	})

	p := &plan{stops: []*stop{{pos: p1, node: n1}}}
	pendingEnd := []int{} // splits at the far end, whose stop isn't placed yet

	for _, w := range ways {
		if w.node != 0 {
			p.via(w.node, w.pos, merge)
			continue
		}

		h := w.crossing
		e, _ := r.roads.Get(arena.ID(h.Road))
		ea, _ := r.nodes.Get(arena.ID(e.a))
		eb, _ := r.nodes.Get(arena.ID(e.b))
		sp := split{road: h.Road, a: e.a, b: e.b, apos: ea.pos, bpos: eb.pos}

		switch {
		case h.Point.Dist(p1) <= merge:
			sp.at = 0
		case h.Point.Dist(p2) <= merge:
			pendingEnd = append(pendingEnd, len(p.splits))
		case h.Point.Dist(ea.pos) <= merge:
			p.via(e.a, ea.pos, merge)
			continue
		case h.Point.Dist(eb.pos) <= merge:
			p.via(e.b, eb.pos, merge)
			continue
		default:
			sp.at = p.crossingAt(h.Point, merge)
		}

		p.splits = append(p.splits, sp)
	}

	p.stops = append(p.stops, &stop{pos: p2, node: n2})
	for _, i := range pendingEnd {
		p.splits[i].at = len(p.stops) - 1
	}

	p.skip = make([]bool, len(p.stops)-1)
	for i := range p.skip {
		a, b := p.stops[i].node, p.stops[i+1].node
		if a == 0 || b == 0 {
			continue
		}
		if a == b {
			p.skip[i] = true
			continue
		}
		_, p.skip[i] = r.RoadBetween(a, b)
	}

	return p, nil
}

// apply carries out a plan. Planning has already checked everything that
// could fail so this always succeeds.
func (r *RoadSystem) apply(p *plan) *Change {
	chg := &Change{}

	for _, s := range p.stops {
		if s.node != 0 {
			continue
		}
		s.node = r.InsertIntersection(s.pos)
		chg.AddedIntersections = append(chg.AddedIntersections, s.node)
	}

	for _, s := range p.splits {
		at := p.stops[s.at].node
		r.removeRoad(s.road)
		chg.RemovedRoads = append(chg.RemovedRoads, s.road)

		for _, end := range []NodeID{s.a, s.b} {
			if rid, ok := r.link(end, at); ok {
				chg.AddedRoads = append(chg.AddedRoads, rid)
			}
		}
	}

	for i := 0; i+1 < len(p.stops); i++ {
		if rid, ok := r.link(p.stops[i].node, p.stops[i+1].node); ok {
			chg.AddedRoads = append(chg.AddedRoads, rid)
		}
	}

	r.log.Debug(
		"road built",
		"from", p.stops[0].node,
		"to", p.stops[len(p.stops)-1].node,
		"stops", len(p.stops),
		"splits", len(p.splits),
		"roads", len(chg.AddedRoads),
		"stats", r.Stats(),
	)

	return chg
}

// link connects a & b unless they are the same or already connected
func (r *RoadSystem) link(a, b NodeID) (RoadID, bool) {
	if a == b {
		return 0, false
	}
	if _, ok := r.RoadBetween(a, b); ok {
		return 0, false
	}
	return r.addRoad(a, b), true
}

// crossings returns every point where seg meets an existing road, in road
// slot order. Roads ending at n1 or n2 are skipped.
func (r *RoadSystem) crossings(seg geom.Segment, n1, n2 NodeID) []Crossing {
	merge := r.cfg.MergeDistance
	box := seg.Bounds().ExpandedByMargin(merge)

	out := []Crossing{}
	r.roads.Each(func(id arena.ID, e edge) bool {
		if e.a == n1 || e.b == n1 || e.a == n2 || e.b == n2 {
			return true
		}

		es := r.segment(e)
		if !box.Intersects(es.Bounds()) {
			return true
		}

		p, ok := geom.Intersect(seg, es)
		if !ok {
			p, ok = geom.Touch(seg, es, merge)
		}
		if ok {
			out = append(out, Crossing{Road: RoadID(id), Point: p})
		}
		return true
	})

	return out
}

// intersectionsOn returns every intersection other than n1 & n2 lying within
// MergeDistance of seg, away from its ends. Most have roads & are found as
// crossings too, but ones without roads are only found here.
func (r *RoadSystem) intersectionsOn(seg geom.Segment, n1, n2 NodeID) []waypoint {
	merge := r.cfg.MergeDistance
	box := seg.Bounds().ExpandedByMargin(merge)

	out := []waypoint{}
	r.nodes.Each(func(id arena.ID, n *node) bool {
		nid := NodeID(id)
		if nid == n1 || nid == n2 || !box.ContainsPoint(r2.Point{X: n.pos.X, Y: n.pos.Y}) {
			return true
		}
		if n.pos.Dist(seg[0]) <= merge || n.pos.Dist(seg[1]) <= merge {
			return true
		}
		if d, ok := seg.DistanceTo(n.pos); ok && d <= merge {
			out = append(out, waypoint{dist: n.pos.Dist(seg[0]), node: nid, pos: n.pos})
		}
		return true
	})

	return out
}

// overlapping returns the first road that seg would run along
func (r *RoadSystem) overlapping(seg geom.Segment) (RoadID, bool) {
	merge := r.cfg.MergeDistance
	box := seg.Bounds().ExpandedByMargin(merge)

	var (
		found RoadID
		ok    bool
	)
	r.roads.Each(func(id arena.ID, e edge) bool {
		es := r.segment(e)
		if !box.Intersects(es.Bounds()) {
			return true
		}
		if geom.Overlap(seg, es, merge) {
			found, ok = RoadID(id), true
			return false
		}
		return true
	})

	return found, ok
}
