package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"drawpad.app/drawpad/internal/autosave"
	"drawpad.app/drawpad/internal/config"
	"drawpad.app/drawpad/internal/gui"
	"drawpad.app/drawpad/internal/surface"
	"drawpad.app/drawpad/internal/termhost"
)

var (
	version        string
	build          string
	widthArg       = flag.Float64("width", surface.DefaultWidth, "Surface width, in -unit.")
	heightArg      = flag.Float64("height", surface.DefaultHeight, "Surface height, in -unit.")
	unitArg        = flag.String("unit", string(surface.DefaultSizeUnit), "Size unit, px or %.")
	bgArg          = flag.String("bg", surface.DefaultBackground, "Background color, #rgb or #rrggbb.")
	strokeArg      = flag.String("stroke", surface.DefaultStrokeColor, "Stroke color.")
	strokeWidthArg = flag.Float64("stroke-width", surface.DefaultStrokeWidth, "Stroke width, 1 to 10.")
	cursorArg      = flag.String("cursor", string(surface.DefaultCursor), "Cursor: crosshair, pointer or default.")
	borderWidthArg = flag.Int("border-width", 0, "Border width in pixels.")
	borderColorArg = flag.String("border-color", surface.BorderNone, "Border color.")
	borderStyleArg = flag.String("border-style", surface.BorderNone, "Border style.")
	tuiPtr         = flag.Bool("tui", false, "Draw in the terminal instead of a window.")
	autosaveArg    = flag.String("autosave", "", "Folder to autosave snapshots into.")
	uploadArg      = flag.String("upload", "", "URL to POST autosave snapshots to.")
	everyArg       = flag.String("every", "", "Minimum time between autosaves, e.g. 30s.")
	formatArg      = flag.String("format", "", "Autosave format, png or jpeg.")
	logArg         = flag.String("log", "", "Write JSON logs to this file.")
	versionPtr     = flag.Bool("version", false, "Print version.")
)

// optionFlags maps flag names onto surface option keys.
var optionFlags = map[string]string{
	"width":        "width",
	"height":       "height",
	"unit":         "sizeUnit",
	"bg":           "background",
	"stroke":       "strokeColor",
	"stroke-width": "strokeWidth",
	"cursor":       "cursor",
	"border-width": "borderWidth",
	"border-color": "borderColor",
	"border-style": "borderStyle",
}

func main() {
	flag.Parse()

	exit, err := checkflags()
	check(err)
	if exit {
		os.Exit(0)
	}

	conf, err := config.GetAppConfig()
	check(err)

	if err := conf.CheckVersion(version); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
	}

	opts, err := surfaceOptions(conf, overrides(flag.Visit))
	check(err)

	logw, closeLog, err := logOutput(*logArg)
	check(err)
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := autosaveSettings(conf.Autosave)

	if *tuiPtr {
		check(runTerminal(ctx, opts, a, logw))
		return
	}

	scr := gui.NewFyneScreen(ctx, version, conf, opts, surface.WithLogOutput(logw))
	scr.SetLogOutput(logw)
	check(scr.SetAutosave(a))
	defer scr.Close()

	gui.Start(ctx, scr)
}

func runTerminal(ctx context.Context, opts surface.Options, a config.Autosave, logw io.Writer) error {
	var saver *autosave.Saver
	if a.Enabled() {
		every, err := a.Interval()
		if err != nil {
			return errors.Wrap(err, "runTerminal")
		}

		sink, err := autosave.NewSink(a.Dir, a.URL)
		if err != nil {
			return errors.Wrap(err, "runTerminal")
		}

		saver = autosave.New(ctx, sink, every, surface.ParseFormat(a.Format))
		saver.LogOutput = logw
		defer saver.Wait()
	}

	scr, err := termhost.InitTcellNewScreen()
	if err != nil {
		return errors.Wrap(err, "runTerminal")
	}

	scr.LogOutput = logw
	ds := surface.New(scr, opts, surface.WithLogOutput(logw))
	defer ds.Close()

	if saver != nil {
		ds.RegisterDrawCallback(saver.OnDraw)
		scr.Save = func(s *surface.DrawingSurface, done func(string, error)) {
			saver.SaveAsync(s, func(where string, err error) {
				done("Saved "+where, err)
			})
		}
	}

	go func() {
		<-ctx.Done()
		scr.Quit()
	}()

	scr.Run(ds)
	return nil
}

// overrides collects the surface flags given on the command line.
func overrides(visit func(func(*flag.Flag))) map[string]any {
	out := map[string]any{}
	visit(func(f *flag.Flag) {
		if key, ok := optionFlags[f.Name]; ok {
			out[key] = f.Value.String()
		}
	})
	return out
}

// surfaceOptions lays the flag overrides over the configured defaults.
func surfaceOptions(conf *config.Config, over map[string]any) (surface.Options, error) {
	m := maps.Clone(conf.Surface)
	if m == nil {
		m = map[string]any{}
	}
	maps.Copy(m, over)

	opts, err := surface.DecodeOptions(m)
	if err != nil {
		return surface.Options{}, errors.Wrap(err, "surfaceOptions")
	}
	return opts, nil
}

// autosaveSettings applies the autosave flags for this run only.
func autosaveSettings(a config.Autosave) config.Autosave {
	if *autosaveArg != "" {
		a.Dir = *autosaveArg
	}
	if *uploadArg != "" {
		a.URL = *uploadArg
	}
	if *everyArg != "" {
		a.Every = *everyArg
	}
	if *formatArg != "" {
		a.Format = *formatArg
	}
	return a
}

func logOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(err, "logOutput")
	}
	return f, func() { _ = f.Close() }, nil
}

func check(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Encountered error(s): %s\n", err)
		os.Exit(1)
	}
}

func checkflags() (exit bool, err error) {
	if checkVerflag() {
		return true, nil
	}

	if err := checkUnitflag(); err != nil {
		return false, errors.Wrap(err, "checkflags error")
	}

	if err := checkFormatflag(); err != nil {
		return false, errors.Wrap(err, "checkflags error")
	}

	if err := checkEveryflag(); err != nil {
		return false, errors.Wrap(err, "checkflags error")
	}

	return false, nil
}

func checkVerflag() bool {
	if *versionPtr {
		fmt.Printf("Drawpad Version: %s, ", version)
		fmt.Printf("Build: %s\n", build)
		return true
	}
	return false
}

func checkUnitflag() error {
	switch surface.SizeUnit(*unitArg) {
	case surface.UnitPixel, surface.UnitPercent:
		return nil
	}
	return errors.Errorf("checkUnitflag error: unknown unit %q", *unitArg)
}

func checkFormatflag() error {
	switch *formatArg {
	case "", "png", "jpeg", "jpg":
		return nil
	}
	return errors.Errorf("checkFormatflag error: unknown format %q", *formatArg)
}

func checkEveryflag() error {
	if *everyArg == "" {
		return nil
	}
	if _, err := time.ParseDuration(*everyArg); err != nil {
		return errors.Wrap(err, "checkEveryflag error")
	}
	return nil
}
