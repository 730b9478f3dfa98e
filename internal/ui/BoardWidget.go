package ui

import (
	"fmt"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"WebCanvas/internal/canvas"
	"WebCanvas/internal/state"
)

// BoardWidget forwards pointer events to the drawing controller and shows
// its two layers.
type BoardWidget struct {
	widget.BaseWidget
	ctrl       *canvas.Controller
	tools      *state.ToolState
	background color.Color
	statusBar  *widget.Label
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(ctrl *canvas.Controller, tools *state.ToolState, background color.Color) *BoardWidget {
	b := &BoardWidget{
		ctrl:       ctrl,
		tools:      tools,
		background: background,
		statusBar:  widget.NewLabel("Ready"),
	}
	b.ExtendBaseWidget(b)
	ctrl.OnChange = func() { fyne.Do(b.Refresh) }
	return b
}

func (b *BoardWidget) SetStatus(text string) {
	fyne.Do(func() { b.statusBar.SetText(text) })
}

// SetBackground repaints the board and makes the eraser use bg.
func (b *BoardWidget) SetBackground(bg color.Color) {
	b.background = bg
	b.ctrl.SetBackground(bg)
	b.Refresh()
}

// Undo and Redo are refused while the pointer is down.
func (b *BoardWidget) Undo() {
	if b.ctrl.Drawing() {
		b.SetStatus("Finish drawing before undoing")
		return
	}
	if !b.ctrl.Undo() {
		b.SetStatus("Nothing to undo")
		return
	}
	b.SetStatus("Undone")
}

func (b *BoardWidget) Redo() {
	if b.ctrl.Drawing() {
		b.SetStatus("Finish drawing before redoing")
		return
	}
	if !b.ctrl.Redo() {
		b.SetStatus("Nothing to redo")
		return
	}
	b.SetStatus("Redone")
}

func (b *BoardWidget) Clear() {
	b.ctrl.Clear()
	b.SetStatus("Cleared")
}

func (b *BoardWidget) SetEnabled(on bool) {
	b.ctrl.SetEnabled(on)
	if on {
		b.SetStatus(fmt.Sprintf("Drawing with %s", b.tools.Settings().Tool))
	} else {
		b.SetStatus("Drawing disabled")
	}
	log.Printf("[UI] Drawing enabled: %v", on)
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.ctrl.Begin(float64(e.Position.X), float64(e.Position.Y))
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.ctrl.End()
	}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.ctrl.Update(float64(e.Position.X), float64(e.Position.Y), b.tools.Settings())
}

func (b *BoardWidget) DragEnd() {
	b.ctrl.End()
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.ctrl.Update(float64(e.Position.X), float64(e.Position.Y), b.tools.Settings())
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

func (b *BoardWidget) MouseOut() {
	b.ctrl.End()
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return newBoardRenderer(b)
}
