package roadgraph

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"sort"

	"github.com/voidshard/roadgraph/internal/geom"
)

// SortByDistance orders crossings nearest to ref first, filling in each
// Crossing.Distance. Crossings the same distance away keep their order so
// the result is deterministic.
func SortByDistance(ref geom.Point, in []Crossing) []Crossing {
	for i := range in {
		in[i].Distance = in[i].Point.Dist(ref)
	}
	sort.SliceStable(in, func(a, b int) bool {
		return in[a].Distance < in[b].Distance
	})
	return in
}

// savePNG to disk
func savePNG(fpath string, in image.Image) error {
	buff := new(bytes.Buffer)
	err := png.Encode(buff, in)
	if err != nil {
		return err
	}
	return os.WriteFile(fpath, buff.Bytes(), 0644)
}
