package shape

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"WebCanvas/internal/state"
	"WebCanvas/internal/surface"
)

var ink = color.NRGBA{R: 0x16, G: 0xA3, B: 0x4A, A: 0xFF}

func opaque(t *testing.T, r *surface.Raster, x, y int) bool {
	t.Helper()
	return r.Image().RGBAAt(x, y).A == 0xFF
}

type recorder struct {
	calls int
	polys int
	color color.Color
}

func (r *recorder) FillPolygons(c color.Color, polys ...[]r2.Vec) {
	r.calls++
	r.polys += len(polys)
	r.color = c
}

func TestDrawEveryShape(t *testing.T) {
	for _, kind := range state.Shapes {
		t.Run(string(kind), func(t *testing.T) {
			rec := &recorder{}
			Draw(rec, kind, r2.Vec{X: 10, Y: 10}, r2.Vec{X: 60, Y: 40}, Style{Color: ink, Size: 3})
			assert.Equal(t, 1, rec.calls)
			assert.Positive(t, rec.polys)
			assert.Equal(t, ink, rec.color)
		})
	}
}

func TestUnknownShapeDrawsNothing(t *testing.T) {
	rec := &recorder{}
	Draw(rec, "hexagon", r2.Vec{}, r2.Vec{X: 5, Y: 5}, Style{Color: ink, Size: 3})
	assert.Zero(t, rec.calls)
}

func TestRectangleOutline(t *testing.T) {
	r := surface.NewRaster(80, 80)
	Draw(r, state.ShapeRectangle, r2.Vec{X: 10, Y: 10}, r2.Vec{X: 50, Y: 30}, Style{Color: ink, Size: 4})

	assert.True(t, opaque(t, r, 30, 10), "top edge")
	assert.True(t, opaque(t, r, 30, 29), "bottom edge")
	assert.True(t, opaque(t, r, 10, 20), "left edge")
	assert.True(t, opaque(t, r, 49, 20), "right edge")
	assert.False(t, opaque(t, r, 30, 20), "outline only, not filled")
}

func TestCircleRadiusIsDistanceToEnd(t *testing.T) {
	r := surface.NewRaster(120, 120)
	Draw(r, state.ShapeCircle, r2.Vec{X: 60, Y: 60}, r2.Vec{X: 90, Y: 100}, Style{Color: ink, Size: 4})

	// radius 50
	assert.True(t, opaque(t, r, 10, 60))
	assert.True(t, opaque(t, r, 60, 10))
	assert.True(t, opaque(t, r, 109, 60))
	assert.False(t, opaque(t, r, 60, 60))
	assert.False(t, opaque(t, r, 40, 60))
}

func TestTriangleVertices(t *testing.T) {
	got := Triangle(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 40, Y: 30})
	assert.Equal(t, []r2.Vec{{X: 0, Y: 30}, {X: 20, Y: 0}, {X: 40, Y: 30}}, got)
}

func TestArrowBarbs(t *testing.T) {
	start, end := r2.Vec{X: 0, Y: 0}, r2.Vec{X: 100, Y: 0}
	shaft, barb := Arrow(start, end)
	require.Len(t, shaft, 3)
	require.Len(t, barb, 2)
	assert.Equal(t, start, shaft[0])
	assert.Equal(t, end, shaft[1])
	assert.Equal(t, end, barb[0])

	for _, tip := range []r2.Vec{shaft[2], barb[1]} {
		d := r2.Sub(tip, end)
		assert.InDelta(t, ArrowHead, r2.Norm(d), 1e-9)
		angle := math.Abs(math.Atan2(d.Y, -d.X))
		assert.InDelta(t, math.Pi/6, angle, 1e-9)
	}
	assert.InDelta(t, -shaft[2].Y, barb[1].Y, 1e-9, "barbs are mirrored about the shaft")
}

func TestLineCoversSegment(t *testing.T) {
	r := surface.NewRaster(60, 60)
	Draw(r, state.ShapeLine, r2.Vec{X: 5, Y: 5}, r2.Vec{X: 55, Y: 55}, Style{Color: ink, Size: 5})
	assert.True(t, opaque(t, r, 30, 30))
	assert.False(t, opaque(t, r, 50, 10))
}

func TestPolylineDegenerate(t *testing.T) {
	assert.Nil(t, Polyline(nil, false, 3))
	assert.Nil(t, Polyline([]r2.Vec{{X: 1, Y: 1}}, false, 0))

	polys := Polyline([]r2.Vec{{X: 1, Y: 1}, {X: 1, Y: 1}}, false, 4)
	assert.Len(t, polys, 2, "zero-length segment keeps its round caps")
}

func TestDashesAlternate(t *testing.T) {
	rect := Rectangle(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 40, Y: 20})
	polys := Dashes(rect, 5, 1)
	// perimeter 120 split into 24 pieces of 5, half of them drawn
	assert.Len(t, polys, 12)
}

func TestDrawSelection(t *testing.T) {
	r := surface.NewRaster(50, 50)
	DrawSelection(r, r2.Vec{X: 10, Y: 10}, r2.Vec{X: 40, Y: 40}, ink)

	on, off := r.Image().RGBAAt(12, 10), r.Image().RGBAAt(17, 10)
	assert.Positive(t, on.A)
	assert.Zero(t, off.A)
	assert.Zero(t, r.Image().RGBAAt(25, 25).A)
}
