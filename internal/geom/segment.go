package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// parallelTolerance is how close (relative to the segment lengths) the
// intersection denominator may get to zero before segments count as parallel.
const parallelTolerance = 1e-12

// Segment is a straight line between two points
type Segment [2]Point

// Seg is shorthand for Segment{a, b}
func Seg(a, b Point) Segment {
	return Segment{a, b}
}

// Vector returns point2 - point1
func (s Segment) Vector() Point {
	return s[1].Sub(s[0])
}

// Length of the segment
func (s Segment) Length() float64 {
	return s[0].Dist(s[1])
}

// Direction returns the unit vector from point1 to point2, the zero vector
// for a zero length segment.
func (s Segment) Direction() Point {
	l := s.Length()
	if l == 0 {
		return Point{}
	}
	return s.Vector().Scale(1 / l)
}

// Midpoint of the segment
func (s Segment) Midpoint() Point {
	return s[0].Mid(s[1])
}

// Rotation is the angle (radians, counter clockwise) between the +X axis
// and the segment direction.
func (s Segment) Rotation() float64 {
	v := s.Vector()
	return math.Atan2(v.Y, v.X)
}

// Bounds returns the bounding rect of the segment
func (s Segment) Bounds() r2.Rect {
	return Bounds(s[0], s[1])
}

// Param returns the projection parameter of p onto the segment, where 0 is
// point1 and 1 is point2. Zero length segments return 0.
func (s Segment) Param(p Point) float64 {
	v := s.Vector()
	l2 := v.Dot(v)
	if l2 == 0 {
		return 0
	}
	return p.Sub(s[0]).Dot(v) / l2
}

// DistanceTo returns the perpendicular distance from p to the segment.
// False if p does not project onto the segment (or the segment has no length).
func (s Segment) DistanceTo(p Point) (float64, bool) {
	l := s.Length()
	if l == 0 {
		return 0, false
	}
	t := s.Param(p)
	if t < 0 || t > 1 {
		return 0, false
	}
	return math.Abs(Cross(p.Sub(s[0]), s.Vector())) / l, true
}

// Intersect returns where segments a & b cross, endpoints included.
// Parallel & collinear segments never intersect.
//
// https://stackoverflow.com/questions/563198/how-do-you-detect-where-two-line-segments-intersect
func Intersect(a, b Segment) (Point, bool) {
	s1 := a.Vector()
	s2 := b.Vector()

	denom := -s2.X*s1.Y + s1.X*s2.Y
	scale := s1.Norm() * s2.Norm()
	if scale == 0 || math.Abs(denom) <= parallelTolerance*scale {
		return Point{}, false
	}

	dx := a[0].X - b[0].X
	dy := a[0].Y - b[0].Y

	s := (-s1.Y*dx + s1.X*dy) / denom // along b
	t := (s2.X*dy - s2.Y*dx) / denom  // along a

	if math.IsNaN(s) || math.IsNaN(t) {
		return Point{}, false
	}
	if s < 0 || s > 1 || t < 0 || t > 1 {
		return Point{}, false
	}

	p := a[0].Add(s1.Scale(t))
	if !Finite(p) {
		return Point{}, false
	}
	return p, true
}

// ParallelOffset returns the segment moved sideways by distance. Positive
// distances move to the right of point1 -> point2, negative to the left.
func ParallelOffset(s Segment, distance float64) Segment {
	v := s[0].Sub(s[1])
	if v.Norm() == 0 {
		return s
	}
	n := Pt(-v.Y, v.X).Normalize().Scale(distance)
	return Segment{s[0].Add(n), s[1].Add(n)}
}

// Strip returns the four corners of a road of the given width running
// along s, in winding order.
func Strip(s Segment, width float64) [4]Point {
	left := ParallelOffset(s, -width/2)
	right := ParallelOffset(s, width/2)
	return [4]Point{left[0], left[1], right[1], right[0]}
}

// Overlap returns true if a & b are collinear (within tol) & share a stretch
// longer than tol. Segments that only touch end to end don't overlap.
func Overlap(a, b Segment, tol float64) bool {
	l := a.Length()
	if l == 0 || b.Length() == 0 {
		return false
	}

	v := a.Vector()
	for _, p := range b {
		if math.Abs(Cross(p.Sub(a[0]), v))/l > tol {
			return false
		}
	}

	t0 := a.Param(b[0]) * l
	t1 := a.Param(b[1]) * l
	lo, hi := math.Min(t0, t1), math.Max(t0, t1)

	return math.Min(hi, l)-math.Max(lo, 0) > tol
}

// Touch returns a point where a & b meet within tol when Intersect misses
// by rounding; an end of one lying on the other.
func Touch(a, b Segment, tol float64) (Point, bool) {
	for _, p := range a {
		if d, ok := b.DistanceTo(p); ok && d <= tol {
			return p, true
		}
	}
	for _, p := range b {
		if d, ok := a.DistanceTo(p); ok && d <= tol {
			return p, true
		}
	}
	return Point{}, false
}
