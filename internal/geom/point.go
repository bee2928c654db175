// Package geom holds the planar primitives the road graph is built from.
// Points are model2d coordinates so we get the vector maths for free.
package geom

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/unixpickle/model3d/model2d"
)

// Point is a position in world space
type Point = model2d.Coord

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Cross returns the z component of the 3D cross product of a & b,
// ie. the perp-dot product.
func Cross(a, b Point) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Finite returns false if either component is NaN or Inf
func Finite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Bounds returns the smallest rect holding all given points
func Bounds(pts ...Point) r2.Rect {
	rpts := make([]r2.Point, len(pts))
	for i, p := range pts {
		rpts[i] = r2.Point{X: p.X, Y: p.Y}
	}
	return r2.RectFromPoints(rpts...)
}
