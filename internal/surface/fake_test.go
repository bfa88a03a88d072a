package surface

import (
	"errors"
	"fmt"
	"io"
)

type fakeContainer struct {
	canvas    *fakeCanvas
	createErr error

	boxW, boxH float64
	unit       SizeUnit
	border     Border
	borderSets int
}

func newFakeContainer() *fakeContainer {
	return &fakeContainer{canvas: &fakeCanvas{ctx: &fakeContext{}}}
}

func (c *fakeContainer) CreateCanvas() (Canvas, error) {
	if c.createErr != nil {
		return nil, c.createErr
	}
	return c.canvas, nil
}

func (c *fakeContainer) SetBoxSize(w, h float64, unit SizeUnit) {
	c.boxW, c.boxH, c.unit = w, h, unit
}

func (c *fakeContainer) SetBorder(b Border) {
	c.border = b
	c.borderSets++
}

type fakeCanvas struct {
	ctx    *fakeContext
	ctxErr error

	drawW, drawH int
	background   string
	cursor       Cursor
	listener     func(InputEvent)
}

func (c *fakeCanvas) SetDrawingSize(w, h int) { c.drawW, c.drawH = w, h }
func (c *fakeCanvas) SetBackground(bg string) { c.background = bg }
func (c *fakeCanvas) SetCursor(cur Cursor)    { c.cursor = cur }

func (c *fakeCanvas) Context() (Context, error) {
	if c.ctxErr != nil {
		return nil, c.ctxErr
	}
	return c.ctx, nil
}

func (c *fakeCanvas) Listen(fn func(InputEvent)) func() {
	c.listener = fn
	return func() { c.listener = nil }
}

func (c *fakeCanvas) emit(ev InputEvent) {
	if c.listener != nil {
		c.listener(ev)
	}
}

// fakeContext records calls as short strings.
type fakeContext struct {
	calls     []string
	strokes   int
	fills     int
	clears    int
	encodeErr error
}

func (c *fakeContext) record(format string, args ...any) {
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
}

func (c *fakeContext) BeginPath()              { c.record("begin") }
func (c *fakeContext) MoveTo(x, y float64)     { c.record("move %g,%g", x, y) }
func (c *fakeContext) LineTo(x, y float64)     { c.record("line %g,%g", x, y) }
func (c *fakeContext) Stroke()                 { c.strokes++; c.record("stroke") }
func (c *fakeContext) Arc(x, y, r float64)     { c.record("arc %g,%g r%g", x, y, r) }
func (c *fakeContext) Fill()                   { c.fills++; c.record("fill") }
func (c *fakeContext) SetStrokeStyle(s string) { c.record("strokeStyle %s", s) }
func (c *fakeContext) SetFillStyle(s string)   { c.record("fillStyle %s", s) }
func (c *fakeContext) SetLineWidth(w float64)  { c.record("lineWidth %g", w) }
func (c *fakeContext) Clear()                  { c.clears++; c.record("clear") }

func (c *fakeContext) Encode(w io.Writer, f Format, quality float64) error {
	if c.encodeErr != nil {
		return c.encodeErr
	}
	c.record("encode %s %g", f, quality)
	_, err := io.WriteString(w, string(f))
	return err
}

var errBoom = errors.New("boom")
