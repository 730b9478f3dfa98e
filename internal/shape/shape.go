// Package shape draws the parametric primitives of the shape library from a
// pair of corner points.
package shape

import (
	"image/color"
	"log"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"WebCanvas/internal/state"
)

const (
	// ArrowHead is the length of each arrow barb.
	ArrowHead = 20
	// arrowAngle is the barb angle either side of the shaft.
	arrowAngle = math.Pi / 6

	// SelectionDash is the on/off length of the selection marquee.
	SelectionDash = 5
)

// Target is anything that can fill polygons, usually a surface.Raster.
type Target interface {
	FillPolygons(c color.Color, polys ...[]r2.Vec)
}

// Style is the pen used to outline a shape.
type Style struct {
	Color color.Color
	Size  float64
}

// Draw outlines kind between start and end onto t. It holds no state.
func Draw(t Target, kind state.ShapeKind, start, end r2.Vec, style Style) {
	polys := Outline(kind, start, end, style.Size)
	if len(polys) == 0 {
		return
	}
	t.FillPolygons(style.Color, polys...)
}

// Outline returns the polygons that make up the stroked shape.
func Outline(kind state.ShapeKind, start, end r2.Vec, width float64) [][]r2.Vec {
	switch kind {
	case state.ShapeRectangle:
		return Polyline(Rectangle(start, end), true, width)
	case state.ShapeCircle:
		return Polyline(Ring(start, r2.Norm(r2.Sub(end, start))), true, width)
	case state.ShapeTriangle:
		return Polyline(Triangle(start, end), true, width)
	case state.ShapeArrow:
		shaft, barbs := Arrow(start, end)
		return append(Polyline(shaft, false, width), Polyline(barbs, false, width)...)
	case state.ShapeLine:
		return Polyline([]r2.Vec{start, end}, false, width)
	default:
		log.Printf("[SHAPE] Unknown shape %q", kind)
		return nil
	}
}

// Rectangle returns the corners of the axis-aligned box spanning start and end.
func Rectangle(start, end r2.Vec) []r2.Vec {
	return []r2.Vec{start, {X: end.X, Y: start.Y}, end, {X: start.X, Y: end.Y}}
}

// Triangle is isosceles with its base on end.Y and its apex on start.Y,
// halfway between start.X and end.X.
func Triangle(start, end r2.Vec) []r2.Vec {
	return []r2.Vec{
		{X: start.X, Y: end.Y},
		{X: (start.X + end.X) / 2, Y: start.Y},
		end,
	}
}

// Arrow returns the shaft, ending in the first barb, and the second barb.
func Arrow(start, end r2.Vec) (shaft, barb []r2.Vec) {
	angle := math.Atan2(end.Y-start.Y, end.X-start.X)
	b1 := r2.Vec{
		X: end.X - ArrowHead*math.Cos(angle-arrowAngle),
		Y: end.Y - ArrowHead*math.Sin(angle-arrowAngle),
	}
	b2 := r2.Vec{
		X: end.X - ArrowHead*math.Cos(angle+arrowAngle),
		Y: end.Y - ArrowHead*math.Sin(angle+arrowAngle),
	}
	return []r2.Vec{start, end, b1}, []r2.Vec{end, b2}
}

// DrawSelection draws the dashed marquee used by the select tool.
func DrawSelection(t Target, start, end r2.Vec, c color.Color) {
	polys := Dashes(Rectangle(start, end), SelectionDash, 1)
	if len(polys) == 0 {
		return
	}
	t.FillPolygons(c, polys...)
}
