package ui

import (
	"fmt"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"WebCanvas/internal/state"
	"WebCanvas/internal/surface"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// --- The Main Toolbar ---
type toolPanel struct {
	board *BoardWidget
	tools *state.ToolState

	toolSelect   *widget.Select
	shapeSelect  *widget.Select
	textEntry    *widget.Entry
	swatches     *fyne.Container
	sizeSlider   *widget.Slider
	smoothSlider *widget.Slider
	enable       *widget.Check
	actions      *widget.Toolbar
}

func newToolPanel(board *BoardWidget, tools *state.ToolState, palette []string, save func(format string)) *toolPanel {
	p := &toolPanel{board: board, tools: tools}
	current := tools.Settings()

	p.toolSelect = widget.NewSelect(names(state.Tools), func(s string) {
		tools.SetTool(state.Tool(s))
	})
	p.toolSelect.SetSelected(string(current.Tool))

	p.shapeSelect = widget.NewSelect(names(state.Shapes), func(s string) {
		tools.SetShape(state.ShapeKind(s))
	})
	p.shapeSelect.Selected = string(current.Shape)

	p.textEntry = widget.NewEntry()
	p.textEntry.SetText(current.Text)
	p.textEntry.OnChanged = tools.SetText

	p.swatches = container.NewHBox()
	p.SetPalette(palette)

	p.sizeSlider = widget.NewSlider(state.MinSize, state.MaxSize)
	p.sizeSlider.SetValue(current.Size)
	p.sizeSlider.OnChanged = tools.SetSize

	p.smoothSlider = widget.NewSlider(0, 1)
	p.smoothSlider.Step = 0.05
	p.smoothSlider.SetValue(current.Smoothing)
	p.smoothSlider.OnChanged = tools.SetSmoothing

	p.enable = widget.NewCheck("Draw", board.SetEnabled)
	p.enable.SetChecked(board.ctrl.Enabled())

	p.actions = widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), board.Undo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), board.Redo),
		widget.NewToolbarAction(theme.DeleteIcon(), board.Clear),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { save(formatPNG) }),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), func() { save(formatPDF) }),
	)

	tools.OnChange = p.sync
	return p
}

// sync mirrors settings changed elsewhere, such as picking a shape, into the
// controls.
func (p *toolPanel) sync(ts state.ToolSettings) {
	fyne.Do(func() {
		if p.toolSelect.Selected != string(ts.Tool) {
			p.toolSelect.SetSelected(string(ts.Tool))
		}
		if p.shapeSelect.Selected != string(ts.Shape) {
			p.shapeSelect.Selected = string(ts.Shape)
			p.shapeSelect.Refresh()
		}
		p.board.statusBar.SetText(fmt.Sprintf("%s, %s, size %.0f", ts.Tool, ts.Color, ts.Size))
	})
}

// SetPalette rebuilds the swatch row. Unparsable entries are skipped.
func (p *toolPanel) SetPalette(palette []string) {
	objects := make([]fyne.CanvasObject, 0, len(palette))
	for _, hex := range palette {
		c, err := surface.ParseColor(hex)
		if err != nil {
			log.Printf("[UI] Skipping swatch: %v", err)
			continue
		}
		objects = append(objects, newColorSwatch(c, func(c color.Color) {
			p.tools.SetColor(surface.FormatColor(c))
		}))
	}
	p.swatches.Objects = objects
	p.swatches.Refresh()
}

func (p *toolPanel) object() fyne.CanvasObject {
	sized := func(o fyne.CanvasObject, w float32) fyne.CanvasObject {
		return container.New(layout.NewGridWrapLayout(fyne.NewSize(w, 35)), o)
	}
	return container.NewVBox(
		container.NewHBox(
			widget.NewLabel("Tool:"),
			p.toolSelect,
			widget.NewLabel("Shape:"),
			p.shapeSelect,
			widget.NewLabel("Text:"),
			sized(p.textEntry, 140),
			widget.NewSeparator(),
			p.enable,
			layout.NewSpacer(),
			p.actions,
		),
		container.NewHBox(
			widget.NewLabel("Color:"),
			p.swatches,
			widget.NewSeparator(),
			widget.NewLabel("Size:"),
			sized(p.sizeSlider, 150),
			widget.NewLabel("Smoothing:"),
			sized(p.smoothSlider, 120),
			layout.NewSpacer(),
		),
	)
}

func names[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
