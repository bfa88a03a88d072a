package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	fynedialog "fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	xfilepicker "github.com/alexballas/xfilepicker/dialog"

	"drawpad.app/drawpad/internal/config"
	"drawpad.app/drawpad/internal/surface"
)

func settingsWindow(s *FyneScreen) fyne.CanvasObject {
	w := s.Current

	themeText := widget.NewLabel("Theme")
	dropdownTheme := widget.NewSelect([]string{"Default", "Light", "Dark"}, parseTheme(s))
	dropdownTheme.PlaceHolder = s.Config.Theme

	autosaveText := widget.NewLabel("Autosave Folder")
	autosaveEntry := widget.NewEntry()
	autosaveEntry.SetPlaceHolder("Disabled")
	autosaveEntry.SetText(s.Config.Autosave.Dir)
	autosaveEntry.OnSubmitted = func(dir string) {
		updateAutosaveDir(s, dir)
	}

	autosaveFolderReset := widget.NewButtonWithIcon("", theme.CancelIcon(), func() {
		autosaveEntry.SetText("")
		updateAutosaveDir(s, "")
	})

	autosaveFolderSelect := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() {
		var resumeHotkeys func()
		fd := xfilepicker.NewFolderOpen(func(lu fyne.ListableURI, err error) {
			if resumeHotkeys != nil {
				defer resumeHotkeys()
			}
			if err != nil {
				fynedialog.ShowError(err, w)
				return
			}
			if lu == nil {
				return
			}

			autosaveEntry.SetText(lu.Path())
			updateAutosaveDir(s, lu.Path())
		}, w)

		if f, ok := fd.(xfilepicker.FilePicker); ok && s.Config.Autosave.Dir != "" {
			lister, err := storage.ListerForURI(storage.NewFileURI(s.Config.Autosave.Dir))
			if err == nil {
				f.SetLocation(lister)
			}
		}

		resumeHotkeys = suspendHotkeys(s)
		fd.Show()
		fd.Resize(fyne.NewSize(filePickerFillSize, filePickerFillSize))
	})

	autosaveRightButtons := container.NewHBox(autosaveFolderSelect, autosaveFolderReset)
	autosaveControls := container.New(layout.NewBorderLayout(nil, nil, nil, autosaveRightButtons), autosaveRightButtons, autosaveEntry)

	intervalText := widget.NewLabel("Autosave Interval")
	intervalEntry := widget.NewEntry()
	intervalEntry.SetText(s.Config.Autosave.Every)
	intervalEntry.Validator = func(v string) error {
		a := s.Config.Autosave
		a.Every = v
		_, err := a.Interval()
		return err
	}
	intervalEntry.OnSubmitted = func(v string) {
		if intervalEntry.Validate() != nil {
			return
		}
		a := s.Config.Autosave
		a.Every = v
		applyAutosave(s, a)
	}

	formatText := widget.NewLabel("Autosave Format")
	dropdownFormat := widget.NewSelect([]string{string(surface.FormatPNG), string(surface.FormatJPEG)}, nil)
	dropdownFormat.SetSelected(string(surface.ParseFormat(s.Config.Autosave.Format)))
	dropdownFormat.OnChanged = func(v string) {
		a := s.Config.Autosave
		a.Format = v
		applyAutosave(s, a)
	}

	defaultsText := widget.NewLabel("Defaults")
	saveDefaults := widget.NewButton("Save Current Options", func() {
		saveDefaultsAction(s)
	})

	return container.New(layout.NewFormLayout(),
		themeText, dropdownTheme,
		autosaveText, autosaveControls,
		intervalText, intervalEntry,
		formatText, dropdownFormat,
		defaultsText, saveDefaults,
	)
}

func updateAutosaveDir(s *FyneScreen, dir string) {
	a := s.Config.Autosave
	a.Dir = dir
	applyAutosave(s, a)
}

// applyAutosave switches the running saver first and only stores the
// settings once that worked.
func applyAutosave(s *FyneScreen, a config.Autosave) {
	if err := s.SetAutosave(a); err != nil {
		check(s.Current, err)
		return
	}

	s.Config.Autosave = a
	check(s.Current, s.saveConfig())

	if a.Enabled() {
		s.setStatus("Autosave on")
		return
	}
	s.setStatus("Autosave off")
}

func saveDefaultsAction(s *FyneScreen) {
	if err := s.Config.SetSurfaceOptions(s.Surface.Options()); err != nil {
		check(s.Current, err)
		return
	}

	if err := s.saveConfig(); err != nil {
		check(s.Current, err)
		return
	}
	s.setStatus("Defaults saved")
}

func parseTheme(s *FyneScreen) func(string) {
	return func(t string) {
		s.Config.Theme = t
		s.Config.ApplyAppConfig()
		check(s.Current, s.saveConfig())

		if s.Current != nil && s.Current.Content() != nil {
			s.Current.Content().Refresh()
		}
	}
}
