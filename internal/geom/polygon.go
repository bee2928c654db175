package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// A Polygon is an ordered ring of points, the last point forms an edge with
// the first.
type Polygon struct {
	Points []Point
}

// NewPolygon returns a polygon over the given points
func NewPolygon(points ...Point) *Polygon {
	return &Polygon{Points: points}
}

// Bounds returns the bounding rect of all points
func (p *Polygon) Bounds() r2.Rect {
	if len(p.Points) == 0 {
		return r2.EmptyRect()
	}
	return Bounds(p.Points...)
}

// IsClosed returns if the polygon has enough points to enclose anything
func (p *Polygon) IsClosed() bool {
	return len(p.Points) >= 3
}

// Contains returns whether or not the polygon contains the point, by
// casting a ray to the right & counting edge crossings.
func (p *Polygon) Contains(point Point) bool {
	if !p.IsClosed() {
		return false
	}

	contains := false
	for i := range p.Points {
		start := p.Points[(i+len(p.Points)-1)%len(p.Points)]
		end := p.Points[i]
		if intersectsWithRaycast(point, start, end) {
			contains = !contains
		}
	}

	return contains
}

// Edges returns the sides of the polygon, including the closing edge from
// the last point back to the first.
func (p *Polygon) Edges() []Segment {
	if len(p.Points) < 2 {
		return nil
	}
	edges := make([]Segment, len(p.Points))
	for i, a := range p.Points {
		edges[i] = Seg(a, p.Points[(i+1)%len(p.Points)])
	}
	return edges
}

// Intersects returns true if any side of p crosses or touches a side of
// other. A polygon entirely inside another shares no sides & so is not
// reported.
func (p *Polygon) Intersects(other *Polygon) bool {
	if !p.Bounds().Intersects(other.Bounds()) {
		return false
	}
	theirs := other.Edges()
	for _, mine := range p.Edges() {
		for _, e := range theirs {
			if _, ok := Intersect(mine, e); ok {
				return true
			}
		}
	}
	return false
}

// Centroid returns the area weighted centre of the polygon. False for
// polygons with fewer than 3 points or no area.
//
// https://en.wikipedia.org/wiki/Centroid#Of_a_polygon
func (p *Polygon) Centroid() (Point, bool) {
	if !p.IsClosed() {
		return Point{}, false
	}

	area := 0.0
	cx := 0.0
	cy := 0.0
	for i, a := range p.Points {
		b := p.Points[(i+1)%len(p.Points)]
		term := a.X*b.Y - b.X*a.Y
		cx += (a.X + b.X) * term
		cy += (a.Y + b.Y) * term
		area += term
	}
	area *= 0.5

	if area == 0 || math.IsNaN(area) {
		return Point{}, false
	}

	c := Pt(cx/(6*area), cy/(6*area))
	return c, Finite(c)
}

// Centroid is sugar for NewPolygon(points...).Centroid()
func Centroid(points ...Point) (Point, bool) {
	return NewPolygon(points...).Centroid()
}

// PointInPolygon is sugar for NewPolygon(polygon...).Contains(p)
func PointInPolygon(p Point, polygon ...Point) bool {
	return NewPolygon(polygon...).Contains(p)
}

// intersectsWithRaycast returns if a ray from point heading towards +X crosses
// the edge (start, end). Edges are treated as half open in Y so a ray passing
// exactly through a vertex is only counted once.
func intersectsWithRaycast(point, start, end Point) bool {
	if (start.Y > point.Y) == (end.Y > point.Y) {
		return false // edge entirely above or below the ray
	}

	// x where the edge crosses the ray's height
	x := start.X + (point.Y-start.Y)*(end.X-start.X)/(end.Y-start.Y)
	return point.X < x
}
