package ui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"WebCanvas/internal/canvas"
	"WebCanvas/internal/config"
	"WebCanvas/internal/state"
	"WebCanvas/internal/surface"
)

// Overlay is the drawing window: the board under a toolbar.
type Overlay struct {
	Window fyne.Window
	Board  *BoardWidget
	panel  *toolPanel
	ctrl   *canvas.Controller
}

func NewOverlay(a fyne.App, cfg config.Config, ctrl *canvas.Controller, tools *state.ToolState, page string) *Overlay {
	title := "Web Canvas"
	if page != "" {
		title += " - " + page
	}
	win := a.NewWindow(title)

	bg, err := surface.ParseColor(cfg.Canvas.Background)
	if err != nil {
		bg = surface.MustParseColor(config.DefaultBackground)
	}
	o := &Overlay{
		Window: win,
		Board:  NewBoardWidget(ctrl, tools, bg),
		ctrl:   ctrl,
	}
	o.panel = newToolPanel(o.Board, tools, cfg.UI.Palette, func(format string) {
		showExportDialog(win, o.Board, format)
	})

	content := container.NewBorder(o.panel.object(), o.Board.statusBar, nil, nil, container.NewScroll(o.Board))
	win.SetContent(content)
	win.Resize(fyne.NewSize(float32(cfg.Canvas.Width), float32(cfg.Canvas.Height)+90))

	win.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { o.Board.Undo() })
	win.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault},
		func(fyne.Shortcut) { o.Board.Redo() })

	win.SetOnClosed(func() {
		log.Println("[UI] Window closed, flushing saves")
		ctrl.Close()
	})
	return o
}

// ApplyConfig takes a reloaded config: stroke shape, eraser background and
// palette. Canvas size and history cap apply on the next start.
func (o *Overlay) ApplyConfig(cfg config.Config) {
	o.ctrl.SetStrokeTemplate(cfg.StrokeTemplate())
	bg, err := surface.ParseColor(cfg.Canvas.Background)
	fyne.Do(func() {
		if err == nil {
			o.Board.SetBackground(bg)
		}
		o.panel.SetPalette(cfg.UI.Palette)
	})
}

func (o *Overlay) ShowAndRun() {
	o.Window.ShowAndRun()
}
