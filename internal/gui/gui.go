package gui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/pkg/errors"
	"github.com/skratchdot/open-golang/open"
	"golang.org/x/time/rate"

	"drawpad.app/drawpad/internal/autosave"
	"drawpad.app/drawpad/internal/config"
	"drawpad.app/drawpad/internal/fynehost"
	"drawpad.app/drawpad/internal/surface"
)

const (
	filePickerFillSize = 10000
	exportThrottle     = time.Second
	windowWidth        = 820
	windowHeight       = 760
)

// FyneScreen .
type FyneScreen struct {
	Current          fyne.Window
	Surface          *surface.DrawingSurface
	Host             *fynehost.Container
	Config           *config.Config
	Saver            *autosave.Saver
	StrokeColorEntry *widget.Entry
	BackgroundEntry  *widget.Entry
	BorderColorEntry *widget.Entry
	BorderSizeEntry  *numericalEntry
	WidthSlider      *widget.Slider
	CursorSelect     *widget.Select
	OpenAfterExport  *widget.Check
	Status           *widget.Label
	LogOutput        io.Writer
	ctx              context.Context
	persist          func(*config.Config) error
	openFile         func(string) error
	exportLimit      *rate.Limiter
	version          string
	suspendCount     atomic.Int32
	Hotkeys          bool
}

// Start .
func Start(ctx context.Context, s *FyneScreen) {
	w := s.Current

	w.SetContent(content(s))
	w.Canvas().SetOnTypedRune(hotkeys(s))
	w.Resize(fyne.NewSize(windowWidth, windowHeight))
	w.CenterOnScreen()

	go func() {
		<-ctx.Done()
		fyne.Do(func() {
			fyne.CurrentApp().Quit()
		})
	}()

	w.ShowAndRun()
}

func content(s *FyneScreen) fyne.CanvasObject {
	return container.NewAppTabs(
		container.NewTabItem("Draw", container.NewPadded(mainWindow(s))),
		container.NewTabItem("Settings", container.NewVScroll(container.NewPadded(settingsWindow(s)))),
		container.NewTabItem("About", container.NewVScroll(aboutWindow(s))),
	)
}

func initFyneNewScreen(ctx context.Context, a fyne.App, version string, conf *config.Config, opts surface.Options, so ...surface.SurfaceOption) *FyneScreen {
	w := a.NewWindow("Drawpad")
	host := fynehost.NewContainer()

	return &FyneScreen{
		Current:  w,
		Host:     host,
		Surface:  surface.New(host, opts, so...),
		Config:   conf,
		ctx:      ctx,
		persist:  (*config.Config).SaveAppConfig,
		openFile: open.Run,
		version:  version,
		Hotkeys:  true,
		// One export dialog per second, whether from the button or 'e'.
		exportLimit: rate.NewLimiter(rate.Every(exportThrottle), 1),
	}
}

func newApp(conf *config.Config) fyne.App {
	drawpad := app.NewWithID("app.drawpad.drawpad")
	conf.ApplyAppConfig()
	return drawpad
}

// SetAutosave replaces the autosave destination. A config without a
// folder or URL turns autosave off.
func (s *FyneScreen) SetAutosave(a config.Autosave) error {
	if s.Saver != nil {
		s.Saver.Wait()
	}

	if !a.Enabled() {
		s.Saver = nil
		s.Surface.RegisterDrawCallback(nil)
		return nil
	}

	every, err := a.Interval()
	if err != nil {
		return errors.Wrap(err, "SetAutosave")
	}

	sink, err := autosave.NewSink(a.Dir, a.URL)
	if err != nil {
		return errors.Wrap(err, "SetAutosave")
	}

	saver := autosave.New(s.ctx, sink, every, surface.ParseFormat(a.Format))
	saver.LogOutput = s.LogOutput
	s.Saver = saver
	s.Surface.RegisterDrawCallback(saver.OnDraw)
	return nil
}

// SetLogOutput sends the diagnostics of the screen, its board and any
// later autosaver to w.
func (s *FyneScreen) SetLogOutput(w io.Writer) {
	s.LogOutput = w
	s.Host.SetLogOutput(w)
	if s.Saver != nil {
		s.Saver.LogOutput = w
	}
}

// Close waits for pending autosaves and detaches the surface.
func (s *FyneScreen) Close() {
	if s.Saver != nil {
		s.Saver.Wait()
	}
	s.Surface.Close()
}

func (s *FyneScreen) saveConfig() error {
	s.Config.Version = s.version
	return s.persist(s.Config)
}

func (s *FyneScreen) setStatus(format string, a ...any) {
	if s.Status == nil {
		return
	}
	s.Status.SetText(fmt.Sprintf(format, a...))
}

func check(win fyne.Window, err error) {
	if err != nil {
		cleanErr := strings.ReplaceAll(err.Error(), ": ", "\n")
		dialog.ShowError(errors.New(cleanErr), win)
	}
}
