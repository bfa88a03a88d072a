// Package drawctx provides a canvas-style 2D drawing context backed by the
// gg software rasterizer.
package drawctx

import (
	"image"
	"io"
	"math"
	"sync"

	"drawpad.app/drawpad/internal/surface"
	"github.com/gogpu/gg"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var _ surface.Context = (*Context)(nil)

// Context is a raster drawing context. The zero value is not usable; use New.
type Context struct {
	dc     *gg.Context
	width  int
	height int

	strokeColor gg.RGBA
	fillColor   gg.RGBA
	lineWidth   float64
	hasPoint    bool

	// OnChange runs after every call that changes pixels.
	OnChange func()

	Logger      zerolog.Logger
	LogOutput   io.Writer
	initLogOnce sync.Once
}

// New returns a transparent w x h context. Non-positive sizes keep a
// 1x1 backing store and report a zero size.
func New(w, h int) *Context {
	c := &Context{
		dc:          gg.NewContext(backing(w), backing(h)),
		strokeColor: gg.Black,
		fillColor:   gg.Black,
		lineWidth:   1,
		Logger:      zerolog.Nop(),
	}
	c.width, c.height = clampSize(w), clampSize(h)
	return c
}

// Log returns the zerolog logger, initializing it lazily if LogOutput is set.
func (c *Context) Log() *zerolog.Logger {
	if c.LogOutput != nil {
		c.initLogOnce.Do(func() {
			c.Logger = zerolog.New(c.LogOutput).With().Timestamp().Str("component", "drawctx").Logger()
		})
	}
	return &c.Logger
}

// Size returns the drawing size in pixels.
func (c *Context) Size() (int, int) {
	return c.width, c.height
}

// Resize reallocates the raster, dropping everything drawn, the way a
// canvas element does when its dimensions are assigned.
func (c *Context) Resize(w, h int) error {
	if err := c.dc.Resize(backing(w), backing(h)); err != nil {
		return errors.Wrap(err, "drawctx resize")
	}
	// gg skips reallocation for an unchanged size; clear explicitly.
	c.dc.Clear()
	c.width, c.height = clampSize(w), clampSize(h)
	c.hasPoint = false
	c.changed()
	return nil
}

// Image returns a snapshot of the drawing area.
func (c *Context) Image() image.Image {
	img := c.dc.Image()
	if c.width == img.Bounds().Dx() && c.height == img.Bounds().Dy() {
		return img
	}

	if sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(image.Rect(0, 0, c.width, c.height))
	}
	return img
}

func (c *Context) BeginPath() {
	c.dc.ClearPath()
	c.hasPoint = false
}

func (c *Context) MoveTo(x, y float64) {
	c.dc.MoveTo(x, y)
	c.hasPoint = true
}

// LineTo adds a line from the current point. Without a current point it
// only sets one.
func (c *Context) LineTo(x, y float64) {
	if !c.hasPoint {
		c.MoveTo(x, y)
		return
	}
	c.dc.LineTo(x, y)
}

func (c *Context) Arc(x, y, r float64) {
	if r <= 0 || math.IsNaN(r) {
		return
	}
	c.dc.DrawCircle(x, y, r)
	c.hasPoint = true
}

// Stroke paints the current path with the stroke style. gg consumes the
// path; the current point survives so drawing can continue from it.
func (c *Context) Stroke() {
	x, y, ok := c.dc.GetCurrentPoint()
	c.dc.SetColor(c.strokeColor.Color())
	c.dc.SetLineWidth(c.lineWidth)
	if err := c.dc.Stroke(); err != nil {
		c.Log().Error().Err(err).Msg("stroke failed")
	}
	if ok {
		c.dc.MoveTo(x, y)
	}
	c.changed()
}

func (c *Context) Fill() {
	x, y, ok := c.dc.GetCurrentPoint()
	c.dc.SetColor(c.fillColor.Color())
	if err := c.dc.Fill(); err != nil {
		c.Log().Error().Err(err).Msg("fill failed")
	}
	if ok {
		c.dc.MoveTo(x, y)
	}
	c.changed()
}

// SetStrokeStyle ignores values it cannot parse, keeping the previous style.
func (c *Context) SetStrokeStyle(color string) {
	if col, ok := ParseColor(color); ok {
		c.strokeColor = col
	}
}

// SetFillStyle ignores values it cannot parse, keeping the previous style.
func (c *Context) SetFillStyle(color string) {
	if col, ok := ParseColor(color); ok {
		c.fillColor = col
	}
}

func (c *Context) SetLineWidth(w float64) {
	if w > 0 && !math.IsNaN(w) && !math.IsInf(w, 0) {
		c.lineWidth = w
	}
}

func (c *Context) Clear() {
	c.dc.Clear()
	c.changed()
}

// Encode writes the drawing area as PNG or JPEG. quality in [0,1] maps
// onto JPEG quality 1-100.
func (c *Context) Encode(w io.Writer, f surface.Format, quality float64) error {
	if c.width == 0 || c.height == 0 {
		return errors.New("drawctx encode: empty drawing area")
	}

	switch f {
	case surface.FormatJPEG:
		if err := c.dc.EncodeJPEG(w, jpegQuality(quality)); err != nil {
			return errors.Wrap(err, "drawctx encode jpeg")
		}
	default:
		if err := c.dc.EncodePNG(w); err != nil {
			return errors.Wrap(err, "drawctx encode png")
		}
	}
	return nil
}

func (c *Context) changed() {
	if c.OnChange != nil {
		c.OnChange()
	}
}

// ParseColor parses the #rgb, #rgba and #rrggbb forms gg understands.
func ParseColor(s string) (gg.RGBA, bool) {
	if !surface.IsHexColor(s) {
		return gg.RGBA{}, false
	}
	switch len(s) - 1 {
	case 3, 4, 6:
		return gg.Hex(s), true
	}
	return gg.RGBA{}, false
}

func jpegQuality(q float64) int {
	if math.IsNaN(q) {
		return 100
	}
	v := int(math.Round(q * 100))
	if v < 1 {
		return 1
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampSize(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func backing(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
