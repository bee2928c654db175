package roadgraph

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"
	"golang.org/x/image/colornames"
)

// ColourScheme defines how the parts of a road network should be coloured.
type ColourScheme struct {
	Background    color.Color
	Roads         color.Color
	CentreLines   color.Color
	Intersections color.Color
}

// DefaultScheme returns a reasonable default ColourScheme.
func DefaultScheme() *ColourScheme {
	return &ColourScheme{
		Background:    colornames.White,
		Roads:         colornames.Dimgray,
		CentreLines:   colornames.Gold,
		Intersections: colornames.Crimson,
	}
}

// Image draws the snapshot. World coordinates map 1:1 onto pixels, offset so
// the whole network fits with the given padding on every side. This is a
// debugging aid, not a renderer.
func (s *Snapshot) Image(scheme *ColourScheme, roadWidth, padding float64) image.Image {
	if scheme == nil {
		scheme = DefaultScheme()
	}

	bnds := s.Bounds()
	if bnds.IsEmpty() {
		bnds = r2.RectFromPoints(r2.Point{})
	}
	bnds = bnds.ExpandedByMargin(padding + roadWidth)

	width := int(math.Max(1, math.Ceil(bnds.X.Length())))
	height := int(math.Max(1, math.Ceil(bnds.Y.Length())))

	ctx := gg.NewContext(width, height)
	ctx.SetColor(scheme.Background)
	ctx.Clear()
	ctx.Translate(-bnds.X.Lo, -bnds.Y.Lo)

	for _, road := range s.Roads {
		drawRoad(ctx, road, roadWidth, scheme)
	}

	ctx.SetColor(scheme.Intersections)
	for _, n := range s.Intersections {
		ctx.DrawCircle(n.Position.X, n.Position.Y, math.Max(roadWidth/2, 1))
		ctx.Fill()
	}

	return ctx.Image()
}

// SavePNG draws the snapshot & writes it to fpath
func (s *Snapshot) SavePNG(fpath string, scheme *ColourScheme, roadWidth, padding float64) error {
	return savePNG(fpath, s.Image(scheme, roadWidth, padding))
}

// drawRoad (strip + centre line) on to ctx
func drawRoad(ctx *gg.Context, road RoadView, width float64, scheme *ColourScheme) {
	strip := road.Strip(width)

	ctx.SetColor(scheme.Roads)
	ctx.MoveTo(strip[0].X, strip[0].Y)
	for _, p := range strip[1:] {
		ctx.LineTo(p.X, p.Y)
	}
	ctx.ClosePath()
	ctx.Fill()

	ctx.SetColor(scheme.CentreLines)
	ctx.SetLineCapSquare()
	ctx.SetLineWidth(1)
	ctx.DrawLine(road.From.X, road.From.Y, road.To.X, road.To.Y)
	ctx.Stroke()
}
