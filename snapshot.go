package roadgraph

import (
	"github.com/golang/geo/r2"

	"github.com/voidshard/roadgraph/internal/geom"
)

// IntersectionView is an intersection as the presentation layer sees it
type IntersectionView struct {
	ID       NodeID
	Position geom.Point
}

// RoadView is a road with its end positions resolved
type RoadView struct {
	ID   RoadID
	From geom.Point
	To   geom.Point
}

// Segment returns the centre line of the road
func (v RoadView) Segment() geom.Segment {
	return geom.Seg(v.From, v.To)
}

// Strip returns the four corners of the road drawn at the given width
func (v RoadView) Strip(width float64) [4]geom.Point {
	return geom.Strip(v.Segment(), width)
}

// Snapshot is a read only copy of a RoadSystem, in slot order, for drawing.
// Two snapshots taken with no edit in between are equal.
type Snapshot struct {
	Intersections []IntersectionView
	Roads         []RoadView
}

// Snapshot copies out the current network
func (r *RoadSystem) Snapshot() *Snapshot {
	s := &Snapshot{
		Intersections: make([]IntersectionView, 0, r.nodes.Len()),
		Roads:         make([]RoadView, 0, r.roads.Len()),
	}

	for _, n := range r.Intersections() {
		s.Intersections = append(s.Intersections, IntersectionView{ID: n.ID, Position: n.Position})
	}
	for _, road := range r.Roads() {
		seg, _ := r.Segment(road.ID)
		s.Roads = append(s.Roads, RoadView{ID: road.ID, From: seg[0], To: seg[1]})
	}

	return s
}

// Bounds returns the rect holding every intersection, empty if there are none
func (s *Snapshot) Bounds() r2.Rect {
	if len(s.Intersections) == 0 {
		return r2.EmptyRect()
	}
	pts := make([]geom.Point, len(s.Intersections))
	for i, n := range s.Intersections {
		pts[i] = n.Position
	}
	return geom.Bounds(pts...)
}
