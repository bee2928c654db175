package roadgraph

import (
	"fmt"

	"github.com/voidshard/roadgraph/internal/arena"
	"github.com/voidshard/roadgraph/internal/geom"
)

// Point is a position in world space
type Point = geom.Point

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y float64) Point {
	return geom.Pt(x, y)
}

// NodeID identifies an Intersection. IDs are only valid until the
// intersection is removed, after which they fail lookups (they are never
// silently reused for a different intersection).
type NodeID uint64

// RoadID identifies a Road, with the same lifetime rules as NodeID
type RoadID uint64

// String returns slot:generation, handy for logs
func (n NodeID) String() string {
	id := arena.ID(n)
	return fmt.Sprintf("n%d:%d", id.Index(), id.Generation())
}

// String returns slot:generation, handy for logs
func (r RoadID) String() string {
	id := arena.ID(r)
	return fmt.Sprintf("r%d:%d", id.Index(), id.Generation())
}

// Intersection is a node in the road graph
type Intersection struct {
	ID       NodeID
	Position geom.Point
}

// Road is an undirected edge between two intersections.
// A & B are ordered as the road was created, which carries no meaning.
type Road struct {
	ID RoadID
	A  NodeID
	B  NodeID
}

// Other returns the end of the road that isn't n
func (r Road) Other(n NodeID) NodeID {
	if r.A == n {
		return r.B
	}
	return r.A
}

// Joins returns if the road ends at n
func (r Road) Joins(n NodeID) bool {
	return r.A == n || r.B == n
}

// Crossing is where a candidate road crosses an existing one
type Crossing struct {
	Road  RoadID
	Point geom.Point

	// Distance from the reference point, set by SortByDistance
	Distance float64
}

// Change describes what a mutation did to the graph
type Change struct {
	AddedIntersections   []NodeID `json:",omitempty"`
	AddedRoads           []RoadID `json:",omitempty"`
	RemovedRoads         []RoadID `json:",omitempty"`
	RemovedIntersections []NodeID `json:",omitempty"`
}

// Empty returns true if nothing changed
func (c *Change) Empty() bool {
	return c == nil || len(c.AddedIntersections)+len(c.AddedRoads)+len(c.RemovedRoads)+len(c.RemovedIntersections) == 0
}

// merge appends another change onto this one
func (c *Change) merge(o *Change) {
	if o == nil {
		return
	}
	c.AddedIntersections = append(c.AddedIntersections, o.AddedIntersections...)
	c.AddedRoads = append(c.AddedRoads, o.AddedRoads...)
	c.RemovedRoads = append(c.RemovedRoads, o.RemovedRoads...)
	c.RemovedIntersections = append(c.RemovedIntersections, o.RemovedIntersections...)
}

// Stats holds generic counts about a RoadSystem
type Stats struct {
	Intersections int
	Roads         int
}

// String matches how the network is usually summarised in logs
func (s Stats) String() string {
	return fmt.Sprintf("RoadSystem intersections:%d roads:%d", s.Intersections, s.Roads)
}
