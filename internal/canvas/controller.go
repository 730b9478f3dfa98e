// Package canvas drives the two drawing layers from pointer gestures.
//
// A Controller owns the persistent layer, which holds committed ink, and a
// scratch layer that carries live previews for the shape, text and select
// tools. Each gesture is recorded in a bounded history of full raster
// snapshots, before and after, and changed rasters are saved in the
// background when a store is attached.
package canvas

import (
	"context"
	"image"
	"image/color"
	"io"
	"log"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"WebCanvas/internal/export"
	"WebCanvas/internal/history"
	"WebCanvas/internal/shape"
	"WebCanvas/internal/state"
	"WebCanvas/internal/store"
	"WebCanvas/internal/stroke"
	"WebCanvas/internal/surface"
)

// Surface is a drawable raster layer. surface.Raster is the production
// implementation.
type Surface interface {
	FillPolygons(c color.Color, polys ...[]r2.Vec)
	DrawText(text string, at r2.Vec, sizePx float64, c color.Color) image.Rectangle
	Clear()
	Composite(src image.Image)
	Snapshot() *image.RGBA
	Restore(img image.Image)
	Image() *image.RGBA
	Bounds() image.Rectangle
	Resize(width, height int)
}

// SelectionColor is the ink of the select tool's marquee.
var SelectionColor = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}

// DrawingState is the per-gesture pointer state.
type DrawingState struct {
	Drawing bool
	Start   r2.Vec
	Samples []stroke.Sample
}

type entry struct {
	id  string
	pix *image.RGBA
}

type Controller struct {
	mu sync.Mutex

	layer   Surface
	scratch Surface

	history *history.Buffer[entry]
	draw    DrawingState

	// tool of the latest update in the current gesture, empty before one
	tool    state.Tool
	inked   bool // the gesture has changed the persistent layer
	preview bool // scratch holds a shape or text preview

	strokeTmpl stroke.Options
	background color.Color
	enabled    bool

	saver    *saver
	autosave bool

	// OnChange runs after any operation that changed a layer, outside the
	// controller's lock.
	OnChange func()
}

type Option func(*Controller)

// WithHistoryCap bounds the undo history.
func WithHistoryCap(n int) Option {
	return func(c *Controller) { c.history = history.New[entry](n) }
}

// WithBackground sets the color the eraser paints with.
func WithBackground(bg color.Color) Option {
	return func(c *Controller) { c.background = bg }
}

// WithStrokeTemplate sets the outline options shared by every stroke.
func WithStrokeTemplate(opts stroke.Options) Option {
	return func(c *Controller) { c.strokeTmpl = opts }
}

// WithStore saves the persistent layer under key. With autosave every
// committed change is queued; otherwise only Close saves.
func WithStore(s store.Store, key string, autosave bool) Option {
	return func(c *Controller) {
		c.saver = newSaver(s, key)
		c.autosave = autosave
	}
}

// New wires a controller over the two layers and records the blank baseline.
func New(layer, scratch Surface, opts ...Option) *Controller {
	c := &Controller{
		layer:      layer,
		scratch:    scratch,
		history:    history.New[entry](history.DefaultCap),
		strokeTmpl: stroke.DefaultOptions(0),
		background: color.White,
		enabled:    true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.snapshot("baseline")
	return c
}

// TextSize maps the tool size to a font pixel size.
func TextSize(size float64) float64 {
	return 12 + 2*size
}

// Begin starts a gesture at (x, y). It is ignored while a gesture is active
// or the controller is disabled.
func (c *Controller) Begin(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draw.Drawing || !c.enabled {
		return
	}

	c.snapshot("begin")
	c.scratch.Clear()
	c.draw = DrawingState{
		Drawing: true,
		Start:   r2.Vec{X: x, Y: y},
		Samples: append(c.draw.Samples[:0], stroke.Sample{X: x, Y: y, T: state.Now()}),
	}
	c.tool = ""
	c.inked = false
	c.preview = false
}

// Update feeds the pointer position to the active tool. It is a no-op while
// idle.
func (c *Controller) Update(x, y float64, settings state.ToolSettings) {
	c.mu.Lock()
	if !c.draw.Drawing {
		c.mu.Unlock()
		return
	}
	changed := c.update(r2.Vec{X: x, Y: y}, settings)
	c.mu.Unlock()
	if changed {
		c.changed()
	}
}

func (c *Controller) update(p r2.Vec, settings state.ToolSettings) bool {
	ink, err := surface.ParseColor(settings.Color)
	if err != nil {
		ink = color.NRGBA{A: 0xFF}
	}

	switch settings.Tool {
	case state.ToolBrush, state.ToolEraser:
		c.draw.Samples = append(c.draw.Samples, stroke.Sample{X: p.X, Y: p.Y, T: state.Now()})
		c.tool = settings.Tool
		if len(c.draw.Samples) < 2 {
			return false
		}
		opts := c.strokeTmpl
		opts.Size = settings.Size
		opts.Smoothing = settings.Smoothing
		opts.Streamline = settings.Smoothing
		outline := stroke.Outline(c.draw.Samples, opts)
		if len(outline) == 0 {
			return false
		}
		var fill color.Color = ink
		if settings.Tool == state.ToolEraser {
			fill = c.background
		}
		c.layer.FillPolygons(fill, outline)
		c.inked = true

	case state.ToolShape:
		c.scratch.Clear()
		shape.Draw(c.scratch, settings.Shape, c.draw.Start, p, shape.Style{Color: ink, Size: settings.Size})
		c.tool = settings.Tool
		c.preview = true

	case state.ToolText:
		c.scratch.Clear()
		drawn := c.scratch.DrawText(settings.Text, p, TextSize(settings.Size), ink)
		c.tool = settings.Tool
		c.preview = !drawn.Empty()

	case state.ToolSelect:
		c.scratch.Clear()
		shape.DrawSelection(c.scratch, c.draw.Start, p, SelectionColor)
		c.tool = settings.Tool
		c.preview = false

	default:
		return false
	}
	return true
}

// End finishes the gesture and snapshots the result. Shape and text previews
// are committed to the persistent layer. It is a no-op while idle.
func (c *Controller) End() {
	c.mu.Lock()
	changed := c.end()
	c.mu.Unlock()
	if changed {
		c.changed()
	}
}

func (c *Controller) end() bool {
	if !c.draw.Drawing {
		return false
	}

	changed := false
	if c.tool.Previewed() {
		if c.preview {
			c.layer.Composite(c.scratch.Image())
			c.inked = true
		}
		c.scratch.Clear()
		changed = true
	}

	c.draw.Drawing = false
	c.draw.Start = r2.Vec{}
	c.draw.Samples = c.draw.Samples[:0]

	reason := "end"
	if c.tool != "" {
		reason = string(c.tool)
	}
	pix := c.snapshot(reason)
	if c.inked {
		changed = true
		if c.autosave {
			c.queueSave(pix)
		}
	}
	c.tool = ""
	c.inked = false
	c.preview = false
	return changed
}

// Clear wipes both layers, abandoning any gesture in progress.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.draw = DrawingState{Samples: c.draw.Samples[:0]}
	c.tool = ""
	c.inked = false
	c.preview = false
	c.layer.Clear()
	c.scratch.Clear()
	c.commit("clear")
	c.mu.Unlock()
	c.changed()
}

// Undo restores the previous snapshot. It reports false at the baseline.
func (c *Controller) Undo() bool {
	return c.step(c.history.Undo, "Undo")
}

// Redo restores the next snapshot. It reports false when there is nothing to
// redo.
func (c *Controller) Redo() bool {
	return c.step(c.history.Redo, "Redo")
}

func (c *Controller) step(move func() (entry, bool), what string) bool {
	c.mu.Lock()
	e, ok := move()
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.layer.Restore(e.pix)
	log.Printf("[HISTORY] %s to %s (index %d of %d)", what, e.id, c.history.Index(), c.history.Len())
	if c.autosave {
		c.queueSave(e.pix)
	}
	c.mu.Unlock()
	c.changed()
	return true
}

func (c *Controller) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanUndo()
}

func (c *Controller) CanRedo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.CanRedo()
}

// Drawing reports whether a gesture is active.
func (c *Controller) Drawing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draw.Drawing
}

// State returns a copy of the gesture state.
func (c *Controller) State() DrawingState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.draw
	st.Samples = append([]stroke.Sample(nil), c.draw.Samples...)
	return st
}

// SetEnabled toggles drawing. Disabling ends any gesture in progress.
func (c *Controller) SetEnabled(on bool) {
	c.mu.Lock()
	c.enabled = on
	changed := false
	if !on {
		changed = c.end()
	}
	c.mu.Unlock()
	if changed {
		c.changed()
	}
}

func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// SetStrokeTemplate swaps the outline options for subsequent updates.
func (c *Controller) SetStrokeTemplate(opts stroke.Options) {
	c.mu.Lock()
	c.strokeTmpl = opts
	c.mu.Unlock()
}

// SetBackground changes the eraser color.
func (c *Controller) SetBackground(bg color.Color) {
	c.mu.Lock()
	c.background = bg
	c.mu.Unlock()
}

// Resize changes both layers to width x height, keeping their contents
// anchored at the origin. History is kept; older snapshots restore at the
// origin and are clipped to the current size.
func (c *Controller) Resize(width, height int) {
	c.mu.Lock()
	b := c.layer.Bounds()
	if b.Dx() == width && b.Dy() == height {
		c.mu.Unlock()
		return
	}
	c.layer.Resize(width, height)
	c.scratch.Resize(width, height)
	log.Printf("[CANVAS] Resized layers to %dx%d", width, height)
	c.mu.Unlock()
	c.changed()
}

// Layer returns the persistent layer.
func (c *Controller) Layer() Surface { return c.layer }

// Scratch returns the preview layer.
func (c *Controller) Scratch() Surface { return c.scratch }

// ExportImage encodes the persistent layer as PNG.
func (c *Controller) ExportImage() ([]byte, error) {
	return export.PNG(c.current())
}

// ExportPDF writes the persistent layer as a one-page PDF.
func (c *Controller) ExportPDF(w io.Writer) error {
	return export.WritePDF(w, c.current())
}

func (c *Controller) current() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layer.Snapshot()
}

// Load restores the saved layer for the attached store's key and makes it the
// new history baseline. store.ErrNotFound is not an error. On any failure the
// layer stays blank.
func (c *Controller) Load(ctx context.Context) error {
	if c.saver == nil {
		return nil
	}
	img, err := c.saver.load(ctx)

	c.mu.Lock()
	c.layer.Clear()
	if err == nil && img != nil {
		c.layer.Restore(img)
	}
	c.history.Reset()
	c.snapshot("baseline")
	c.mu.Unlock()
	c.changed()
	return err
}

// Close stops accepting gestures and flushes pending saves.
func (c *Controller) Close() {
	c.SetEnabled(false)
	if c.saver == nil {
		return
	}
	c.mu.Lock()
	if !c.autosave {
		c.queueSave(c.layer.Snapshot())
	}
	c.mu.Unlock()
	c.saver.Close()
}

// commit records the persistent layer in history and queues it for saving.
func (c *Controller) commit(reason string) {
	pix := c.snapshot(reason)
	if c.autosave {
		c.queueSave(pix)
	}
}

func (c *Controller) snapshot(reason string) *image.RGBA {
	e := entry{id: state.NextSnapshotID(), pix: c.layer.Snapshot()}
	c.history.Push(e)
	log.Printf("[HISTORY] Snapshot %s (%s), index %d of %d", e.id, reason, c.history.Index(), c.history.Len())
	return e.pix
}

func (c *Controller) queueSave(pix *image.RGBA) {
	if c.saver != nil {
		c.saver.Queue(pix)
	}
}

func (c *Controller) changed() {
	if c.OnChange != nil {
		c.OnChange()
	}
}
