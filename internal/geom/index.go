package geom

import (
	"github.com/unixpickle/model3d/model2d"
)

// Index answers nearest point queries over a fixed set of points
type Index struct {
	tree *model2d.CoordTree
}

// NewIndex builds an index over points. Duplicates are fine.
func NewIndex(points []Point) *Index {
	if len(points) == 0 {
		return &Index{}
	}
	return &Index{tree: model2d.NewCoordTree(points)}
}

// Nearest returns the closest indexed point to p, if it is within dist
func (i *Index) Nearest(p Point, dist float64) (Point, bool) {
	if i.tree == nil {
		return Point{}, false
	}
	found := i.tree.KNN(1, p)
	if len(found) == 0 || found[0].Dist(p) > dist {
		return Point{}, false
	}
	return found[0], true
}

// Within returns all indexed points no further than dist from p, nearest first
func (i *Index) Within(p Point, dist float64) []Point {
	if i.tree == nil {
		return nil
	}
	for k := 1; ; k++ {
		neighbours := i.tree.KNN(k, p)
		if len(neighbours) < k {
			return trimBeyond(neighbours, p, dist)
		}
		if neighbours[len(neighbours)-1].Dist(p) > dist {
			return neighbours[:len(neighbours)-1]
		}
	}
}

// trimBeyond drops the tail of a nearest-first list that is further than dist
func trimBeyond(in []Point, p Point, dist float64) []Point {
	for j, c := range in {
		if c.Dist(p) > dist {
			return in[:j]
		}
	}
	return in
}
