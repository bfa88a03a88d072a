// Package surface implements a freehand drawing surface: a canvas mounted
// in a host container, driven by normalized mouse and touch events, with
// validated setters for its appearance and a raster export.
//
// The package never talks to a UI toolkit directly. Hosts provide the
// Container, Canvas and Context implementations and forward input through
// DrawingSurface.HandleInput.
package surface

import (
	"bytes"
	"encoding/base64"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// ExportQuality is the quality factor used for lossy exports.
const ExportQuality = 1.0

// Border describes the container border.
type Border struct {
	Size  int
	Color string
	Style string
}

// Pointer is the last known pointer sample.
type Pointer struct {
	X, Y    float64
	Pressed bool
	Cursor  Cursor
}

// DrawingSurface owns a canvas, its drawing context and the visual state
// applied to them. It is not safe for concurrent use; hosts deliver input
// and call setters from their UI loop.
type DrawingSurface struct {
	container Container
	canvas    Canvas
	ctx       Context
	stop      func()

	width       float64
	height      float64
	unit        SizeUnit
	background  string
	strokeColor string
	strokeWidth float64
	border      Border
	pointer     Pointer

	onDraw func(*DrawingSurface)

	Logger      zerolog.Logger
	LogOutput   io.Writer
	initLogOnce sync.Once
}

// SurfaceOption configures a DrawingSurface during New.
type SurfaceOption func(*DrawingSurface)

// WithLogger sets the logger diagnostics are written to.
func WithLogger(l zerolog.Logger) SurfaceOption {
	return func(s *DrawingSurface) {
		s.Logger = l
	}
}

// WithLogOutput makes the surface log JSON diagnostics to w.
func WithLogOutput(w io.Writer) SurfaceOption {
	return func(s *DrawingSurface) {
		s.LogOutput = w
	}
}

// Log returns the zerolog logger, initializing it lazily if LogOutput is set.
func (s *DrawingSurface) Log() *zerolog.Logger {
	if s.LogOutput != nil {
		s.initLogOnce.Do(func() {
			s.Logger = zerolog.New(s.LogOutput).With().Timestamp().Str("component", "surface").Logger()
		})
	}
	return &s.Logger
}

// New builds a drawing surface inside container. A nil container, or one
// that fails to create a canvas, leaves the surface inert: state is kept
// and setters still validate, but nothing is drawn. A canvas without a
// usable context has the same effect on drawing, clearing and export.
func New(container Container, opts Options, so ...SurfaceOption) *DrawingSurface {
	m := opts.merged()

	s := &DrawingSurface{
		Logger:      zerolog.Nop(),
		width:       m.Width,
		height:      m.Height,
		unit:        m.SizeUnit,
		background:  m.Background,
		strokeColor: m.StrokeColor,
		strokeWidth: m.StrokeWidth,
		border: Border{
			Color: BorderNone,
			Style: BorderNone,
		},
		pointer: Pointer{Cursor: m.Cursor},
	}
	for _, o := range so {
		o(s)
	}

	// Configured border values follow the setter rules: a size or color
	// turns a none style into solid.
	if m.BorderStyle != BorderNone {
		s.border.Style = m.BorderStyle
	}
	if m.BorderWidth > 0 {
		s.applyBorderSize(m.BorderWidth)
	}
	if m.BorderColor != BorderNone {
		s.applyBorderColor(m.BorderColor)
	}

	if container == nil {
		s.Log().Warn().Msg("no container given, canvas not created")
		return s
	}
	s.container = container

	canvas, err := container.CreateCanvas()
	if err != nil {
		s.Log().Warn().Err(err).Msg("canvas creation failed")
		return s
	}
	s.canvas = canvas

	s.syncSize()
	s.container.SetBorder(s.border)
	s.canvas.SetBackground(s.background)
	s.canvas.SetCursor(s.pointer.Cursor)
	s.stop = s.canvas.Listen(s.HandleInput)

	ctx, err := s.canvas.Context()
	if err != nil {
		s.Log().Warn().Err(err).Msg("drawing context unavailable, drawing disabled")
		return s
	}
	s.ctx = ctx

	s.Log().Debug().
		Float64("width", s.width).
		Float64("height", s.height).
		Str("unit", string(s.unit)).
		Msg("surface ready")

	return s
}

// Close detaches the input listener. The surface stays readable.
func (s *DrawingSurface) Close() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

// Container returns the host container, nil if none was given.
func (s *DrawingSurface) Container() Container { return s.container }

// Canvas returns the mounted canvas, nil on an inert surface.
func (s *DrawingSurface) Canvas() Canvas { return s.canvas }

// Background returns the background color.
func (s *DrawingSurface) Background() string { return s.background }

// StrokeColor returns the color of the next segment.
func (s *DrawingSurface) StrokeColor() string { return s.strokeColor }

// StrokeWidth returns the line width of the next segment.
func (s *DrawingSurface) StrokeWidth() float64 { return s.strokeWidth }

// Width returns the container width in the current size unit.
func (s *DrawingSurface) Width() float64 { return s.width }

// Height returns the container height in the current size unit.
func (s *DrawingSurface) Height() float64 { return s.height }

// SizeUnit returns the unit of Width and Height.
func (s *DrawingSurface) SizeUnit() SizeUnit { return s.unit }

// Cursor returns the pointer cursor shown over the canvas.
func (s *DrawingSurface) Cursor() Cursor { return s.pointer.Cursor }

// Pressed reports whether a stroke is in progress.
func (s *DrawingSurface) Pressed() bool { return s.pointer.Pressed }

// Pointer returns the last pointer sample.
func (s *DrawingSurface) Pointer() Pointer { return s.pointer }

// Border returns the container border.
func (s *DrawingSurface) Border() Border { return s.border }

// Options snapshots the current state in the form New accepts.
func (s *DrawingSurface) Options() Options {
	return Options{
		Width:       s.width,
		Height:      s.height,
		SizeUnit:    s.unit,
		Background:  s.background,
		StrokeColor: s.strokeColor,
		StrokeWidth: s.strokeWidth,
		Cursor:      s.pointer.Cursor,
		BorderWidth: s.border.Size,
		BorderColor: s.border.Color,
		BorderStyle: s.border.Style,
	}
}

// BorderValue returns one part of the border: "size" as an int, "color"
// and "style" as strings. Unknown parts report false.
func (s *DrawingSurface) BorderValue(part string) (any, bool) {
	switch part {
	case "size":
		return s.border.Size, true
	case "color":
		return s.border.Color, true
	case "style":
		return s.border.Style, true
	}
	return nil, false
}

// ContentSize is the drawing-surface size, border inset excluded.
func (s *DrawingSurface) ContentSize() (width, height int) {
	return contentDimension(s.width, s.border.Size), contentDimension(s.height, s.border.Size)
}

// RegisterDrawCallback installs fn to run after every stroked segment.
// A nil fn removes the callback.
func (s *DrawingSurface) RegisterDrawCallback(fn func(*DrawingSurface)) {
	s.onDraw = fn
}

// ClearAll erases everything drawn. Background and border are untouched.
func (s *DrawingSurface) ClearAll() {
	if s.ctx == nil {
		return
	}
	s.ctx.Clear()
	s.ctx.BeginPath()
}

// ExportImage encodes the canvas as a base64 data URL. format is "png" or
// "jpeg"; anything else exports PNG. It reports false when there is no
// canvas or context, or encoding fails.
func (s *DrawingSurface) ExportImage(format string) (string, bool) {
	if s.canvas == nil || s.ctx == nil {
		return "", false
	}

	f := ParseFormat(format)

	var buf bytes.Buffer
	if err := s.ctx.Encode(&buf, f, ExportQuality); err != nil {
		s.Log().Error().Err(err).Str("format", string(f)).Msg("export failed")
		return "", false
	}

	return "data:" + f.MIME() + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), true
}
