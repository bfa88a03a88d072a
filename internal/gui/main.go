package gui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"drawpad.app/drawpad/internal/surface"
)

type numericalEntry struct {
	widget.Entry
}

func newNumericalEntry() *numericalEntry {
	e := &numericalEntry{}
	e.ExtendBaseWidget(e)
	return e
}

func (e *numericalEntry) TypedRune(r rune) {
	if r >= '0' && r <= '9' {
		e.Entry.TypedRune(r)
	}
}

// colorEntry applies its text through set when submitted and falls back
// to the current value when the color is rejected.
func colorEntry(s *FyneScreen, what string, get func() string, set func(string, ...surface.Guard[string]) surface.Result) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(get())
	e.SetPlaceHolder("#rrggbb")
	e.OnSubmitted = func(v string) {
		r := set(v)
		s.setStatus("%s %s: %s", what, v, r)
		if !r.OK() {
			e.SetText(get())
		}
	}
	return e
}

func mainWindow(s *FyneScreen) fyne.CanvasObject {
	ds := s.Surface

	strokeColor := colorEntry(s, "Stroke color", ds.StrokeColor, ds.SetStrokeColor)
	background := colorEntry(s, "Background", ds.Background, ds.SetBackground)
	borderColor := colorEntry(s, "Border color", func() string { return ds.Border().Color }, ds.SetBorderColor)

	borderSize := newNumericalEntry()
	borderSize.SetText(strconv.Itoa(ds.Border().Size))
	borderSize.OnSubmitted = func(v string) {
		n, err := strconv.Atoi(v)
		if err != nil {
			n = -1
		}
		r := ds.SetBorderSize(n)
		s.setStatus("Border size %s: %s", v, r)
		if !r.OK() {
			borderSize.SetText(strconv.Itoa(ds.Border().Size))
		}
	}

	widthSlider := widget.NewSlider(surface.MinStrokeWidth, surface.MaxStrokeWidth)
	widthSlider.Step = 1
	widthSlider.SetValue(ds.StrokeWidth())
	widthSlider.OnChanged = func(v float64) {
		ds.SetStrokeWidth(v)
		s.setStatus("Stroke width %g", ds.StrokeWidth())
	}

	cursorSelect := widget.NewSelect([]string{
		string(surface.CursorCrosshair),
		string(surface.CursorPointer),
		string(surface.CursorDefault),
	}, func(v string) {
		ds.SetCursor(surface.Cursor(v))
	})
	cursorSelect.SetSelected(string(ds.Cursor()))

	clearButton := widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() {
		clearAction(s)
	})

	exportButton := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), func() {
		exportAction(s)
	})

	openAfter := widget.NewCheck("Open after export", func(b bool) {
		s.Config.OpenAfterExport = b
	})
	openAfter.SetChecked(s.Config.OpenAfterExport)

	status := widget.NewLabel("Ready")

	s.StrokeColorEntry = strokeColor
	s.BackgroundEntry = background
	s.BorderColorEntry = borderColor
	s.BorderSizeEntry = borderSize
	s.WidthSlider = widthSlider
	s.CursorSelect = cursorSelect
	s.OpenAfterExport = openAfter
	s.Status = status

	form := container.New(layout.NewFormLayout(),
		widget.NewLabel("Stroke"), strokeColor,
		widget.NewLabel("Width"), widthSlider,
		widget.NewLabel("Background"), background,
		widget.NewLabel("Border"), container.NewGridWithColumns(2, borderSize, borderColor),
		widget.NewLabel("Cursor"), cursorSelect,
	)
	actions := container.NewHBox(clearButton, exportButton, openAfter, layout.NewSpacer(), status)
	top := container.NewVBox(form, actions)

	return container.NewBorder(top, nil, nil, nil, s.Host.Object())
}
