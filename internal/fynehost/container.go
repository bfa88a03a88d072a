// Package fynehost mounts a drawing surface in a fyne user interface.
package fynehost

import (
	"image/color"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"github.com/pkg/errors"

	"drawpad.app/drawpad/internal/drawctx"
	"drawpad.app/drawpad/internal/surface"
)

var _ surface.Container = (*Container)(nil)

// Container is the host element: a box sized in pixels or percent of the
// space its parent gives it, with a border frame drawn over the board.
type Container struct {
	box    *fyne.Container
	frame  *canvas.Rectangle
	layout *boxLayout
	board  *Board
	logw   io.Writer
}

func NewContainer() *Container {
	frame := canvas.NewRectangle(color.Transparent)
	l := &boxLayout{unit: surface.UnitPixel}

	return &Container{
		box:    container.New(l, frame),
		frame:  frame,
		layout: l,
	}
}

// Object is the fyne object to place in a window or layout.
func (c *Container) Object() fyne.CanvasObject { return c.box }

// Board returns the mounted board, nil before CreateCanvas.
func (c *Container) Board() *Board { return c.board }

// CreateCanvas mounts a new Board. A container holds a single board.
func (c *Container) CreateCanvas() (surface.Canvas, error) {
	if c.board != nil {
		return nil, errors.New("fynehost: canvas already mounted")
	}

	c.board = NewBoard()
	c.board.ctx.LogOutput = c.logw
	c.box.Objects = []fyne.CanvasObject{c.board, c.frame}
	c.box.Refresh()
	return c.board, nil
}

// SetLogOutput sends drawing diagnostics of the board to w. It only takes
// effect before the board logs for the first time.
func (c *Container) SetLogOutput(w io.Writer) {
	c.logw = w
	if c.board != nil {
		c.board.ctx.LogOutput = w
	}
}

func (c *Container) SetBoxSize(w, h float64, unit surface.SizeUnit) {
	c.layout.width = float32(w)
	c.layout.height = float32(h)
	c.layout.unit = unit
	c.box.Refresh()
}

// SetBorder draws the frame. Styles other than "none" render solid and a
// "none" color renders black.
func (c *Container) SetBorder(b surface.Border) {
	c.layout.border = float32(b.Size)

	if b.Style == surface.BorderNone || b.Size == 0 {
		c.frame.StrokeWidth = 0
		c.frame.StrokeColor = color.Transparent
	} else {
		c.frame.StrokeWidth = float32(b.Size)
		c.frame.StrokeColor = hexColor(b.Color, color.Black)
	}

	c.frame.Refresh()
	c.box.Refresh()
}

type boxLayout struct {
	width, height float32
	unit          surface.SizeUnit
	border        float32
}

func (l *boxLayout) boxSize(avail fyne.Size) fyne.Size {
	if l.unit == surface.UnitPercent {
		return fyne.NewSize(avail.Width*l.width/100, avail.Height*l.height/100)
	}
	return fyne.NewSize(l.width, l.height)
}

func (l *boxLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	box := l.boxSize(size)
	inner := fyne.NewSize(max(box.Width-2*l.border, 0), max(box.Height-2*l.border, 0))

	for _, o := range objects {
		if _, ok := o.(*Board); ok {
			o.Move(fyne.NewPos(l.border, l.border))
			o.Resize(inner)
			continue
		}
		o.Move(fyne.NewPos(0, 0))
		o.Resize(box)
	}
}

func (l *boxLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	if l.unit == surface.UnitPercent {
		return fyne.NewSize(0, 0)
	}
	return fyne.NewSize(l.width, l.height)
}

// hexColor converts a surface color, falling back when it cannot be
// parsed the way a browser ignores an invalid CSS color.
func hexColor(s string, fallback color.Color) color.Color {
	if c, ok := drawctx.ParseColor(s); ok {
		return c.Color()
	}
	return fallback
}
