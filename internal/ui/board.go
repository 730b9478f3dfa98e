package ui

import (
	"math"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
)

// boardRenderer stacks the background, the persistent layer and the scratch
// layer at one board pixel per canvas unit. The layers grow with the viewport
// and never shrink, so ink outside a smaller window is kept.
type boardRenderer struct {
	board      *BoardWidget
	background *fynecanvas.Rectangle
	layer      *fynecanvas.Image
	scratch    *fynecanvas.Image
}

func newBoardRenderer(b *BoardWidget) *boardRenderer {
	r := &boardRenderer{
		board:      b,
		background: fynecanvas.NewRectangle(b.background),
		layer:      fynecanvas.NewImageFromImage(b.ctrl.Layer().Image()),
		scratch:    fynecanvas.NewImageFromImage(b.ctrl.Scratch().Image()),
	}
	for _, img := range []*fynecanvas.Image{r.layer, r.scratch} {
		img.FillMode = fynecanvas.ImageFillOriginal
		img.ScaleMode = fynecanvas.ImageScalePixels
	}
	return r
}

func (r *boardRenderer) size() fyne.Size {
	bounds := r.board.ctrl.Layer().Bounds()
	return fyne.NewSize(float32(bounds.Dx()), float32(bounds.Dy()))
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	bounds := r.board.ctrl.Layer().Bounds()
	w, h := int(math.Ceil(float64(size.Width))), int(math.Ceil(float64(size.Height)))
	if w > bounds.Dx() || h > bounds.Dy() {
		r.board.ctrl.Resize(max(w, bounds.Dx()), max(h, bounds.Dy()))
	}
	r.bind()
	for _, img := range []*fynecanvas.Image{r.layer, r.scratch} {
		img.Move(fyne.NewPos(0, 0))
		img.Resize(r.size())
	}
}

func (r *boardRenderer) MinSize() fyne.Size {
	return r.size()
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.layer, r.scratch}
}

// bind points the images at the current buffers, which Resize replaces.
func (r *boardRenderer) bind() {
	r.layer.Image = r.board.ctrl.Layer().Image()
	r.scratch.Image = r.board.ctrl.Scratch().Image()
}

func (r *boardRenderer) Refresh() {
	r.bind()
	r.background.FillColor = r.board.background
	r.background.Refresh()
	r.layer.Refresh()
	r.scratch.Refresh()
}

func (r *boardRenderer) Destroy() {}
