package gui

import (
	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

func aboutWindow(s *FyneScreen) fyne.CanvasObject {
	richhead := widget.NewRichTextFromMarkdown(aboutText(s))

	for i := range richhead.Segments {
		if seg, ok := richhead.Segments[i].(*widget.TextSegment); ok {
			seg.Style.Alignment = fyne.TextAlignCenter
		}
	}

	return container.NewVBox(richhead)
}

func aboutText(s *FyneScreen) string {
	version := s.version
	if version == "" {
		version = "dev"
	}

	text := `
# Drawpad

Freehand drawing with mouse or touch

---

## Version

` + version

	if err := s.Config.CheckVersion(s.version); err != nil {
		text += "\n\n---\n\n**Settings:** " + err.Error()
	}

	return text
}
