package gui

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	xfilepicker "github.com/alexballas/xfilepicker/dialog"
	"github.com/pkg/errors"

	"drawpad.app/drawpad/internal/autosave"
	"drawpad.app/drawpad/internal/surface"
)

func clearAction(s *FyneScreen) {
	s.Surface.ClearAll()
	s.setStatus("Cleared")
}

func widthAction(s *FyneScreen, delta float64) {
	s.Surface.SetStrokeWidth(s.Surface.StrokeWidth() + delta)
	if s.WidthSlider != nil {
		s.WidthSlider.SetValue(s.Surface.StrokeWidth())
	}
	s.setStatus("Stroke width %g", s.Surface.StrokeWidth())
}

func exportAction(s *FyneScreen) {
	if !s.exportLimit.Allow() {
		return
	}

	w := s.Current
	var resumeHotkeys func()
	fd := xfilepicker.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if resumeHotkeys != nil {
			defer resumeHotkeys()
		}
		check(w, err)
		if err != nil || writer == nil {
			return
		}

		path := writer.URI().Path()
		err = writeExport(s.Surface, writer, writer.URI().Name())
		if closeErr := writer.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			check(w, err)
			return
		}

		s.setStatus("Exported %s", filepath.Base(path))

		if s.Config.OpenAfterExport {
			go func() {
				if err := s.openFile(path); err != nil {
					fyne.Do(func() {
						check(w, errors.Wrap(err, "open export"))
					})
				}
			}()
		}
	}, w)

	if f, ok := fd.(interface{ SetFileName(string) }); ok {
		f.SetFileName("drawpad.png")
	}

	if f, ok := fd.(xfilepicker.FilePicker); ok {
		cwd, err := os.Getwd()
		if err == nil {
			if lister, listerErr := storage.ListerForURI(storage.NewFileURI(cwd)); listerErr == nil {
				f.SetLocation(lister)
			}
		}
	}

	resumeHotkeys = suspendHotkeys(s)
	fd.Show()
	fd.Resize(fyne.NewSize(filePickerFillSize, filePickerFillSize))
}

// writeExport encodes the surface in the format named by the file
// extension, PNG unless it is .jpg or .jpeg.
func writeExport(ds *surface.DrawingSurface, w io.Writer, name string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))

	u, ok := ds.ExportImage(string(surface.ParseFormat(ext)))
	if !ok {
		return errors.New("writeExport: nothing to export")
	}

	data, _, err := autosave.DecodeDataURL(u)
	if err != nil {
		return errors.Wrap(err, "writeExport")
	}

	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "writeExport")
	}
	return nil
}

func hotkeys(s *FyneScreen) func(rune) {
	return func(r rune) {
		if !s.Hotkeys || s.hotkeysSuspended() {
			return
		}

		switch r {
		case 'c':
			clearAction(s)
		case '+', '=':
			widthAction(s, 1)
		case '-':
			widthAction(s, -1)
		case 'e':
			exportAction(s)
		}
	}
}
