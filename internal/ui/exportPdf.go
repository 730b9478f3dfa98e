package ui

import (
	"fmt"
	"io"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"WebCanvas/internal/canvas"
)

const (
	formatPNG = "png"
	formatPDF = "pdf"
)

// writeExport encodes the persistent layer in format to w.
func writeExport(ctrl *canvas.Controller, format string, w io.Writer) error {
	switch format {
	case formatPNG:
		blob, err := ctrl.ExportImage()
		if err != nil {
			return err
		}
		_, err = w.Write(blob)
		return err
	case formatPDF:
		return ctrl.ExportPDF(w)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// showExportDialog asks where to save the drawing and writes it there.
func showExportDialog(win fyne.Window, board *BoardWidget, format string) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if writer == nil {
			return
		}
		defer func() {
			if err := writer.Close(); err != nil {
				log.Printf("[UI] Error closing %s: %v", writer.URI(), err)
			}
		}()

		if err := writeExport(board.ctrl, format, writer); err != nil {
			log.Printf("[UI] Export to %s failed: %v", writer.URI(), err)
			dialog.ShowError(err, win)
			return
		}
		log.Printf("[UI] Exported %s", writer.URI())
		board.SetStatus("Saved " + writer.URI().Name())
	}, win)
	fd.SetFileName("drawing." + format)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{"." + format}))
	fd.Show()
}
