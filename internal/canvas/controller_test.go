package canvas

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WebCanvas/internal/export"
	"WebCanvas/internal/state"
	"WebCanvas/internal/store"
	"WebCanvas/internal/surface"
)

const pageKey = "https://example.com/article"

func newController(opts ...Option) *Controller {
	return New(surface.NewRaster(64, 64), surface.NewRaster(64, 64), opts...)
}

func settings(tool state.Tool) state.ToolSettings {
	s := state.DefaultSettings()
	s.Tool = tool
	return s
}

func blank(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// alphas survives a PNG round trip exactly; premultiplied color channels of
// partly covered pixels may not.
func alphas(img *image.RGBA) []byte {
	out := make([]byte, 0, len(img.Pix)/4)
	for i := 3; i < len(img.Pix); i += 4 {
		out = append(out, img.Pix[i])
	}
	return out
}

func scenarioStroke(c *Controller, s state.ToolSettings) {
	c.Begin(0, 0)
	c.Update(10, 0, s)
	c.Update(10, 10, s)
	c.End()
}

func TestGestureAlwaysReturnsToIdle(t *testing.T) {
	for _, tool := range state.Tools {
		for k := 0; k < 5; k++ {
			c := newController()
			c.Begin(20, 20)
			assert.True(t, c.State().Drawing)
			for i := 0; i < k; i++ {
				c.Update(float64(20+3*i), float64(20+i), settings(tool))
			}
			c.End()

			st := c.State()
			assert.False(t, st.Drawing, "tool %s k=%d", tool, k)
			assert.Empty(t, st.Samples, "tool %s k=%d", tool, k)
		}
	}
}

func TestUpdateAndEndWhileIdleAreNoops(t *testing.T) {
	c := newController()
	c.Update(10, 10, settings(state.ToolBrush))
	c.Update(20, 20, settings(state.ToolBrush))
	c.End()

	assert.True(t, blank(c.Layer().Image()))
	assert.Equal(t, 1, c.history.Len())
	assert.False(t, c.CanUndo())
}

func TestUnknownToolUpdatesQuietly(t *testing.T) {
	c := newController()
	var out bytes.Buffer
	log.SetOutput(&out)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	c.Begin(10, 10)
	out.Reset()
	calls := 0
	c.OnChange = func() { calls++ }
	for i := 0; i < 50; i++ {
		c.Update(float64(10+i), 10, settings(state.Tool("laser")))
	}
	assert.Empty(t, out.String(), "pointer moves are not logged")
	assert.Zero(t, calls)
	assert.Len(t, c.State().Samples, 1)
	c.End()
	assert.True(t, blank(c.Layer().Image()))
}

func TestBeginIgnoredWhileDrawing(t *testing.T) {
	c := newController()
	c.Begin(1, 1)
	c.Begin(30, 30)
	assert.Equal(t, float64(1), c.State().Start.X)
	assert.Len(t, c.State().Samples, 1)
}

func TestEmptyGestureSnapshotsBeginAndEnd(t *testing.T) {
	c := newController()
	c.Begin(10, 10)
	assert.Equal(t, 2, c.history.Len(), "pre-stroke raster recorded on begin")
	c.End()

	assert.True(t, blank(c.Layer().Image()), "a single sample leaves no ink")
	assert.Equal(t, 3, c.history.Len())
	assert.Equal(t, 2, c.history.Index())
	assert.True(t, c.CanUndo())
	assert.False(t, c.CanRedo())
}

func TestBeginSnapshotsPreStrokeRaster(t *testing.T) {
	c := newController()
	scenarioStroke(c, settings(state.ToolBrush))
	before := append([]byte(nil), c.Layer().Image().Pix...)

	c.Begin(30, 30)
	c.Update(50, 40, settings(state.ToolBrush))
	c.Update(55, 55, settings(state.ToolBrush))
	begin, ok := c.history.At(c.history.Index())
	require.True(t, ok)
	assert.Equal(t, before, begin.pix.Pix)
	c.End()

	end, ok := c.history.Current()
	require.True(t, ok)
	assert.Equal(t, c.Layer().Image().Pix, end.pix.Pix)
	assert.NotEqual(t, before, end.pix.Pix)
	assert.Equal(t, 5, c.history.Len())
}

func TestBrushStrokeInksPersistentLayer(t *testing.T) {
	c := newController()
	s := settings(state.ToolBrush)
	s.Size = 5
	scenarioStroke(c, s)

	assert.Equal(t, color.RGBA{R: 0x4F, G: 0x46, B: 0xE5, A: 0xFF}, c.Layer().Image().RGBAAt(5, 0))
	assert.True(t, blank(c.Scratch().Image()))
	assert.Equal(t, 3, c.history.Len())
	assert.True(t, c.CanUndo())
	assert.False(t, c.CanRedo())
}

func TestEraserPaintsBackground(t *testing.T) {
	bg := color.NRGBA{R: 0xFA, G: 0xFA, B: 0xF0, A: 0xFF}
	c := newController(WithBackground(bg))
	scenarioStroke(c, settings(state.ToolBrush))
	scenarioStroke(c, settings(state.ToolEraser))

	assert.Equal(t, color.RGBA{R: 0xFA, G: 0xFA, B: 0xF0, A: 0xFF}, c.Layer().Image().RGBAAt(5, 0))
	assert.Equal(t, 5, c.history.Len())
}

func TestUndoRedoRestoresBytes(t *testing.T) {
	c := newController()
	var layers [][]byte
	layers = append(layers, append([]byte(nil), c.Layer().Image().Pix...))

	paths := [][2]float64{{5, 5}, {20, 30}, {40, 10}}
	for _, p := range paths {
		s := settings(state.ToolBrush)
		c.Begin(p[0], p[1])
		c.Update(p[0]+12, p[1]+3, s)
		c.Update(p[0]+15, p[1]+14, s)
		c.End()
		layers = append(layers, append([]byte(nil), c.Layer().Image().Pix...))
	}

	// entries are baseline, then begin and end per gesture; entry i holds
	// the layer after i/2 gestures
	last := c.history.Index()
	require.Equal(t, 2*len(paths), last)
	for i := last - 1; i >= 0; i-- {
		require.True(t, c.Undo())
		assert.Equal(t, layers[i/2], c.Layer().Image().Pix, "undo to %d", i)
	}
	assert.False(t, c.Undo())
	assert.Equal(t, layers[0], c.Layer().Image().Pix)

	for i := 1; i <= last; i++ {
		require.True(t, c.Redo())
		assert.Equal(t, layers[i/2], c.Layer().Image().Pix, "redo to %d", i)
	}
	assert.False(t, c.Redo())

	// undo then redo from the middle
	require.True(t, c.Undo())
	require.True(t, c.Redo())
	assert.Equal(t, layers[len(layers)-1], c.Layer().Image().Pix)
}

func TestDrawAfterUndoDropsRedo(t *testing.T) {
	c := newController()
	scenarioStroke(c, settings(state.ToolBrush))
	c.Begin(30, 30)
	c.Update(50, 40, settings(state.ToolBrush))
	c.End()
	require.True(t, c.Undo())
	require.True(t, c.CanRedo())

	// begin overwrites the redoable entry, end appends
	c.Begin(40, 50)
	assert.False(t, c.CanRedo())
	assert.Equal(t, 5, c.history.Len())
	c.Update(60, 60, settings(state.ToolBrush))
	c.End()
	assert.False(t, c.CanRedo())
	assert.Equal(t, 6, c.history.Len())
	assert.Equal(t, 5, c.history.Index())
}

func TestUndoDuringGesture(t *testing.T) {
	c := newController()
	scenarioStroke(c, settings(state.ToolBrush))
	inked := append([]byte(nil), c.Layer().Image().Pix...)

	c.Begin(30, 30)
	assert.True(t, c.Drawing())
	assert.True(t, c.CanUndo(), "index > 0 regardless of the gesture")
	require.True(t, c.Undo())
	assert.Equal(t, inked, c.Layer().Image().Pix)
	assert.True(t, c.CanRedo())

	c.End()
	assert.False(t, c.CanRedo(), "end discards the redoable begin snapshot")
	assert.Equal(t, 4, c.history.Len())
}

func TestShapePreviewCommitsOnEnd(t *testing.T) {
	c := newController()
	s := settings(state.ToolShape)
	s.Shape = state.ShapeRectangle
	s.Size = 3

	c.Begin(10, 10)
	c.Update(40, 40, s)
	assert.NotZero(t, c.Scratch().Image().RGBAAt(10, 25).A, "preview on scratch")
	assert.Zero(t, c.Layer().Image().RGBAAt(10, 25).A, "nothing committed yet")

	c.Update(30, 30, s)
	assert.Zero(t, c.Scratch().Image().RGBAAt(40, 25).A, "previous preview cleared")

	c.End()
	assert.Equal(t, uint8(0xFF), c.Layer().Image().RGBAAt(10, 20).A)
	assert.True(t, blank(c.Scratch().Image()))
	assert.Equal(t, 3, c.history.Len())
}

func TestTextPreviewCommitsOnEnd(t *testing.T) {
	c := newController()
	s := settings(state.ToolText)
	s.Text = "Hi"

	c.Begin(5, 5)
	c.Update(5, 40, s)
	assert.False(t, blank(c.Scratch().Image()))
	assert.True(t, blank(c.Layer().Image()))

	c.End()
	assert.False(t, blank(c.Layer().Image()))
	assert.True(t, blank(c.Scratch().Image()))
	assert.Equal(t, 3, c.history.Len())
}

func TestEmptyTextLeavesLayerBlank(t *testing.T) {
	c := newController()
	s := settings(state.ToolText)
	s.Text = ""
	c.Begin(5, 5)
	c.Update(5, 40, s)
	c.End()
	assert.True(t, blank(c.Layer().Image()))
	assert.Equal(t, 3, c.history.Len(), "snapshots are taken regardless of ink")
}

func TestSelectionStaysOnScratch(t *testing.T) {
	c := newController()
	c.Begin(5, 5)
	c.Update(30, 30, settings(state.ToolSelect))
	c.End()

	assert.True(t, blank(c.Layer().Image()))
	assert.False(t, blank(c.Scratch().Image()), "marquee remains visible")
	assert.Equal(t, 3, c.history.Len())
	assert.Equal(t, 2, c.history.Index())

	c.Begin(40, 40)
	assert.True(t, blank(c.Scratch().Image()), "next gesture drops the marquee")
	c.End()
}

func TestClearWipesBothLayers(t *testing.T) {
	c := newController()
	scenarioStroke(c, settings(state.ToolBrush))
	c.Begin(5, 5)
	c.Update(30, 30, settings(state.ToolSelect))

	c.Clear()
	assert.True(t, blank(c.Layer().Image()))
	assert.True(t, blank(c.Scratch().Image()))
	assert.False(t, c.State().Drawing)
	assert.Equal(t, 5, c.history.Len(), "baseline, stroke, begin, clear")

	require.True(t, c.Undo())
	assert.False(t, blank(c.Layer().Image()))
}

func TestHistoryCapBoundsSnapshots(t *testing.T) {
	c := newController(WithHistoryCap(3))
	for i := 0; i < 6; i++ {
		c.Begin(float64(i*8), 5)
		c.Update(float64(i*8+5), 20, settings(state.ToolBrush))
		c.End()
	}
	// 1 + 2*6 pushes
	assert.Equal(t, 3, c.history.Len())
	assert.Equal(t, 2, c.history.Index())
	assert.True(t, c.Undo())
	assert.True(t, c.Undo())
	assert.False(t, c.Undo())

	c.Begin(1, 1)
	c.End()
	assert.Equal(t, 3, c.history.Len())
	assert.Equal(t, 2, c.history.Index())
}

func TestResizeKeepsInkAndHistory(t *testing.T) {
	c := newController()
	scenarioStroke(c, settings(state.ToolBrush))
	calls := 0
	c.OnChange = func() { calls++ }

	c.Resize(100, 80)
	assert.Equal(t, image.Rect(0, 0, 100, 80), c.Layer().Bounds())
	assert.Equal(t, image.Rect(0, 0, 100, 80), c.Scratch().Bounds())
	assert.Equal(t, uint8(0xFF), c.Layer().Image().RGBAAt(5, 0).A)
	assert.Equal(t, 1, calls)

	c.Resize(100, 80)
	assert.Equal(t, 1, calls, "same size is a no-op")

	c.Begin(70, 60)
	c.Update(90, 70, settings(state.ToolBrush))
	c.End()
	assert.NotZero(t, c.Layer().Image().RGBAAt(80, 65).A)

	// back past the resize: the older, smaller snapshot restores at the origin
	for c.CanUndo() {
		c.Undo()
	}
	assert.Equal(t, image.Rect(0, 0, 100, 80), c.Layer().Bounds())
	assert.True(t, blank(c.Layer().Image()))
	for c.CanRedo() {
		c.Redo()
	}
	assert.NotZero(t, c.Layer().Image().RGBAAt(80, 65).A)
	assert.Equal(t, uint8(0xFF), c.Layer().Image().RGBAAt(5, 0).A)
}

func TestDisableEndsGesture(t *testing.T) {
	c := newController()
	s := settings(state.ToolShape)
	c.Begin(10, 10)
	c.Update(40, 40, s)

	c.SetEnabled(false)
	assert.False(t, c.Enabled())
	assert.False(t, c.State().Drawing)
	assert.False(t, blank(c.Layer().Image()), "preview committed")

	c.Begin(5, 5)
	assert.False(t, c.State().Drawing, "begin ignored while disabled")

	c.SetEnabled(true)
	c.Begin(5, 5)
	assert.True(t, c.State().Drawing)
}

func TestOnChange(t *testing.T) {
	c := newController()
	calls := 0
	c.OnChange = func() { calls++ }

	scenarioStroke(c, settings(state.ToolBrush))
	assert.Equal(t, 3, calls, "two inking updates and the commit")

	c.Update(1, 1, settings(state.ToolBrush))
	c.End()
	assert.Equal(t, 3, calls, "idle calls change nothing")

	c.Undo()
	c.Clear()
	assert.Equal(t, 5, calls)
}

func TestExportImage(t *testing.T) {
	c := newController()
	scenarioStroke(c, settings(state.ToolBrush))

	blob, err := c.ExportImage()
	require.NoError(t, err)
	img, err := export.DecodePNG(blob)
	require.NoError(t, err)
	assert.Equal(t, c.Layer().Bounds(), img.Bounds())
	_, _, _, a := img.At(5, 0).RGBA()
	assert.Equal(t, uint32(0xFFFF), a)
}

func TestPersistenceRoundTrip(t *testing.T) {
	mem := store.NewMemory()
	c := newController(WithStore(mem, pageKey, true))
	scenarioStroke(c, settings(state.ToolBrush))
	want := alphas(c.Layer().Image())
	ink := c.Layer().Image().RGBAAt(5, 0)
	c.Close()
	require.Equal(t, 1, mem.Len())

	c2 := newController(WithStore(mem, pageKey, true))
	defer c2.Close()
	require.NoError(t, c2.Load(context.Background()))
	assert.Equal(t, want, alphas(c2.Layer().Image()))
	assert.Equal(t, ink, c2.Layer().Image().RGBAAt(5, 0))
	assert.False(t, c2.CanUndo(), "loaded image is the baseline")
	assert.Equal(t, 1, c2.history.Len())
}

func TestManualSaveWritesOnlyOnClose(t *testing.T) {
	mem := store.NewMemory()
	c := newController(WithStore(mem, pageKey, false))
	scenarioStroke(c, settings(state.ToolBrush))
	assert.Equal(t, 0, mem.Len())

	c.Close()
	blob, err := mem.Get(context.Background(), pageKey)
	require.NoError(t, err)
	img, err := export.DecodePNG(blob)
	require.NoError(t, err)
	_, _, _, a := img.At(5, 0).RGBA()
	assert.Equal(t, uint32(0xFFFF), a)
}

func TestLoadWithNothingSaved(t *testing.T) {
	c := newController(WithStore(store.NewMemory(), pageKey, true))
	defer c.Close()
	assert.NoError(t, c.Load(context.Background()))
	assert.True(t, blank(c.Layer().Image()))
}

func TestLoadFailureLeavesBlankCanvas(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.Set(context.Background(), pageKey, []byte("garbage")))

	c := newController(WithStore(mem, pageKey, true))
	defer c.Close()
	scenarioStroke(c, settings(state.ToolBrush))

	assert.Error(t, c.Load(context.Background()))
	assert.True(t, blank(c.Layer().Image()))
	assert.Equal(t, 1, c.history.Len())

	// drawing still works
	scenarioStroke(c, settings(state.ToolBrush))
	assert.False(t, blank(c.Layer().Image()))
}

func TestLoadWithoutStore(t *testing.T) {
	c := newController()
	assert.NoError(t, c.Load(context.Background()))
}
