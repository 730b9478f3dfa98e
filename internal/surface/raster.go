// Package surface implements the raster layers the overlay draws on.
package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"
)

// Raster is a single mutable RGBA layer with an anti-aliased polygon filler.
type Raster struct {
	img *image.RGBA
	ras *vector.Rasterizer
}

func NewRaster(width, height int) *Raster {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Raster{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		ras: vector.NewRasterizer(width, height),
	}
}

func (r *Raster) Bounds() image.Rectangle {
	return r.img.Bounds()
}

// Image exposes the live pixel buffer for display. Callers must not retain it
// across mutations if they need a stable copy; use Snapshot for that.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// FillPolygons fills all polygons in one pass with nonzero-like coverage.
// Each polygon is re-oriented so overlapping pieces reinforce instead of
// cancelling. Polygons with fewer than three vertices or non-finite
// coordinates are skipped.
func (r *Raster) FillPolygons(c color.Color, polys ...[]r2.Vec) {
	size := r.img.Bounds().Size()
	r.ras.Reset(size.X, size.Y)
	r.ras.DrawOp = draw.Over

	drawn := false
	for _, poly := range polys {
		if len(poly) < 3 || !finite(poly) {
			continue
		}
		if signedArea(poly) < 0 {
			for i := len(poly) - 1; i >= 0; i-- {
				r.lineTo(poly[i], i == len(poly)-1)
			}
		} else {
			for i, p := range poly {
				r.lineTo(p, i == 0)
			}
		}
		r.ras.ClosePath()
		drawn = true
	}
	if !drawn {
		return
	}
	r.ras.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

func (r *Raster) lineTo(p r2.Vec, first bool) {
	x := float32(p.X - float64(r.img.Rect.Min.X))
	y := float32(p.Y - float64(r.img.Rect.Min.Y))
	if first {
		r.ras.MoveTo(x, y)
		return
	}
	r.ras.LineTo(x, y)
}

// Resize swaps in a width x height buffer holding the old pixels at the
// origin. Pixels outside the new bounds are dropped.
func (r *Raster) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), r.img, image.Point{}, draw.Src)
	r.img = img
	r.ras = vector.NewRasterizer(width, height)
}

// Clear resets every pixel to transparent.
func (r *Raster) Clear() {
	clear(r.img.Pix)
}

// Composite draws src over the layer, aligned at the origin.
func (r *Raster) Composite(src image.Image) {
	draw.Draw(r.img, r.img.Bounds(), src, src.Bounds().Min, draw.Over)
}

// Snapshot returns a deep copy of the layer.
func (r *Raster) Snapshot() *image.RGBA {
	cp := image.NewRGBA(r.img.Rect)
	copy(cp.Pix, r.img.Pix)
	return cp
}

// Restore replaces the layer contents wholesale with img.
func (r *Raster) Restore(img image.Image) {
	if src, ok := img.(*image.RGBA); ok && src.Rect == r.img.Rect {
		copy(r.img.Pix, src.Pix)
		return
	}
	r.Clear()
	draw.Draw(r.img, r.img.Bounds(), img, img.Bounds().Min, draw.Src)
}

func signedArea(poly []r2.Vec) float64 {
	var a float64
	for i := range poly {
		j := (i + 1) % len(poly)
		a += r2.Cross(poly[i], poly[j])
	}
	return a / 2
}

func finite(poly []r2.Vec) bool {
	for _, p := range poly {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}
