// Package termhost mounts a drawing surface in a terminal. Each cell shows
// CellWidth x CellHeight raster pixels as a pair of half-block pixels.
package termhost

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/gdamore/tcell/v2/encoding"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"

	"drawpad.app/drawpad/internal/drawctx"
	"drawpad.app/drawpad/internal/surface"
)

// Raster pixels per terminal cell.
const (
	CellWidth  = 4
	CellHeight = 8
)

var (
	_ surface.Container = (*Screen)(nil)
	_ surface.Canvas    = (*Canvas)(nil)
)

// Screen is the terminal container. Row 0 holds the status line, the box
// starts below it.
type Screen struct {
	Current tcell.Screen

	// Save runs on the s key. It may call done from any goroutine; the
	// message, or error, then goes to the status line.
	Save func(s *surface.DrawingSurface, done func(msg string, err error))

	// LogOutput is handed to the drawing context of the canvas.
	LogOutput io.Writer

	canvas     *Canvas
	boxW, boxH float64
	unit       surface.SizeUnit
	border     surface.Border

	down       bool
	inside     bool
	lastAction string
	finiOnce   sync.Once
}

// Canvas is the raster shown inside the box.
type Canvas struct {
	ctx        *drawctx.Context
	background string
	cursor     surface.Cursor
	listener   func(surface.InputEvent)
}

// New initialises s and wraps it. Mouse reporting is enabled.
func New(s tcell.Screen) (*Screen, error) {
	encoding.Register()
	if err := s.Init(); err != nil {
		return nil, errors.Wrap(err, "can't start terminal screen")
	}

	s.SetStyle(tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(tcell.ColorWhite))
	s.EnableMouse()

	return &Screen{
		Current:    s,
		unit:       surface.UnitPixel,
		lastAction: "Ready",
	}, nil
}

// InitTcellNewScreen opens the controlling terminal.
func InitTcellNewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "can't start new interactive screen")
	}
	return New(s)
}

func (p *Screen) CreateCanvas() (surface.Canvas, error) {
	if p.canvas != nil {
		return nil, errors.New("termhost: canvas already mounted")
	}
	ctx := drawctx.New(0, 0)
	ctx.LogOutput = p.LogOutput
	p.canvas = &Canvas{
		ctx:        ctx,
		background: surface.DefaultBackground,
		cursor:     surface.CursorCrosshair,
	}
	return p.canvas, nil
}

func (p *Screen) SetBoxSize(w, h float64, unit surface.SizeUnit) {
	p.boxW, p.boxH, p.unit = w, h, unit
}

func (p *Screen) SetBorder(b surface.Border) {
	p.border = b
}

func (c *Canvas) SetDrawingSize(w, h int) {
	if err := c.ctx.Resize(w, h); err != nil {
		c.ctx.Log().Error().Err(err).Int("width", w).Int("height", h).Msg("resize failed")
	}
}

func (c *Canvas) SetBackground(bg string) { c.background = bg }

// SetCursor is stored only; terminals keep their own pointer.
func (c *Canvas) SetCursor(cur surface.Cursor) { c.cursor = cur }

func (c *Canvas) Context() (surface.Context, error) { return c.ctx, nil }

func (c *Canvas) Listen(fn func(surface.InputEvent)) func() {
	c.listener = fn
	return func() { c.listener = nil }
}

// Image returns the current raster.
func (c *Canvas) Image() image.Image { return c.ctx.Image() }

// geometry is the layout of the box on the current terminal, in cells.
type geometry struct {
	box   image.Rectangle
	inner image.Rectangle
}

func (p *Screen) layout() geometry {
	w, h := p.Current.Size()
	avail := image.Rect(0, 1, w, max(h, 1))

	var cols, rows int
	if p.unit == surface.UnitPercent {
		cols = int(float64(avail.Dx()) * p.boxW / 100)
		rows = int(float64(avail.Dy()) * p.boxH / 100)
	} else {
		cols = int(math.Ceil(p.boxW / CellWidth))
		rows = int(math.Ceil(p.boxH / CellHeight))
	}

	box := image.Rect(avail.Min.X, avail.Min.Y, avail.Min.X+cols, avail.Min.Y+rows)
	inner := box
	if bx, by := p.borderCells(); bx > 0 {
		minX, minY := box.Min.X+bx, box.Min.Y+by
		inner = image.Rectangle{
			Min: image.Pt(minX, minY),
			Max: image.Pt(max(box.Max.X-bx, minX), max(box.Max.Y-by, minY)),
		}
	}
	return geometry{box: box, inner: inner}
}

func (p *Screen) borderCells() (int, int) {
	if p.border.Style == surface.BorderNone || p.border.Size <= 0 {
		return 0, 0
	}
	bx := (p.border.Size + CellWidth - 1) / CellWidth
	by := (p.border.Size + CellHeight - 1) / CellHeight
	return bx, by
}

// HandleEvent processes one terminal event and reports whether the user
// asked to quit.
func (p *Screen) HandleEvent(s *surface.DrawingSurface, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		p.Current.Sync()
	case *tcell.EventKey:
		return p.handleKey(s, ev)
	case *tcell.EventMouse:
		p.handleMouse(ev)
	case *tcell.EventInterrupt:
		if r, ok := ev.Data().(saveResult); ok {
			p.lastAction = r.status()
			return false
		}
		return true
	}
	return false
}

// saveResult travels from a Save callback to the event loop.
type saveResult struct {
	msg string
	err error
}

func (r saveResult) status() string {
	if r.err != nil {
		return "Save failed: " + r.err.Error()
	}
	return r.msg
}

// Quit makes a running Run return. It is safe to call from any goroutine.
func (p *Screen) Quit() {
	_ = p.Current.PostEvent(tcell.NewEventInterrupt(nil))
}

func (p *Screen) handleKey(s *surface.DrawingSurface, ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
		return true
	case ev.Rune() == 'c':
		s.ClearAll()
		p.lastAction = "Cleared"
	case ev.Rune() == '+':
		s.SetStrokeWidth(s.StrokeWidth() + 1)
		p.lastAction = fmt.Sprintf("Stroke width %g", s.StrokeWidth())
	case ev.Rune() == '-':
		s.SetStrokeWidth(s.StrokeWidth() - 1)
		p.lastAction = fmt.Sprintf("Stroke width %g", s.StrokeWidth())
	case ev.Rune() == 's':
		if p.Save == nil {
			p.lastAction = "Saving is not configured"
			break
		}
		p.lastAction = "Saving"
		p.Save(s, func(msg string, err error) {
			_ = p.Current.PostEvent(tcell.NewEventInterrupt(saveResult{msg: msg, err: err}))
		})
	}
	return false
}

func (p *Screen) handleMouse(ev *tcell.EventMouse) {
	if p.canvas == nil || p.canvas.listener == nil {
		return
	}

	g := p.layout()
	cx, cy := ev.Position()
	in := image.Pt(cx, cy).In(g.inner)
	pressed := ev.Buttons()&tcell.Button1 != 0

	x := float64((cx-g.inner.Min.X)*CellWidth + CellWidth/2)
	y := float64((cy-g.inner.Min.Y)*CellHeight + CellHeight/2)
	emit := func(a surface.Action) {
		p.canvas.listener(surface.InputEvent{Action: a, Source: surface.SourceMouse, X: x, Y: y})
	}

	if !in {
		if p.inside {
			emit(surface.ActionLeave)
		}
		p.inside = false
		p.down = pressed
		return
	}
	p.inside = true

	switch {
	case pressed && !p.down:
		emit(surface.ActionPress)
	case !pressed && p.down:
		emit(surface.ActionRelease)
	default:
		emit(surface.ActionMove)
	}
	p.down = pressed
}

// Run draws and processes events until ESC or Ctrl-C, then restores the
// terminal.
func (p *Screen) Run(s *surface.DrawingSurface) {
	defer p.Fini()

	p.Draw(s)
	for {
		ev := p.Current.PollEvent()
		if ev == nil {
			return
		}
		if p.HandleEvent(s, ev) {
			return
		}
		p.Draw(s)
	}
}

// Fini restores the terminal. Later calls do nothing.
func (p *Screen) Fini() {
	p.finiOnce.Do(p.Current.Fini)
}

// Draw renders the status line, the border and the raster.
func (p *Screen) Draw(s *surface.DrawingSurface) {
	scr := p.Current
	scr.Clear()

	g := p.layout()
	p.drawBorder(g)
	p.drawRaster(g)

	boldStyle := tcell.StyleDefault.
		Background(tcell.ColorBlack).
		Foreground(tcell.ColorWhite).Bold(true)
	status := fmt.Sprintf("%s %s w=%g", p.lastAction, s.StrokeColor(), s.StrokeWidth())
	p.emitStr(0, 0, boldStyle, status)

	w, _ := scr.Size()
	help := "c clear  +/- width  s save  ESC exit"
	p.emitStr(w-runewidth.StringWidth(help)-1, 0, tcell.StyleDefault, help)

	scr.Show()
}

func (p *Screen) drawBorder(g geometry) {
	if g.box.Eq(g.inner) {
		return
	}

	style := tcell.StyleDefault.Background(cellColor(p.border.Color, tcell.ColorBlack))
	for y := g.box.Min.Y; y < g.box.Max.Y; y++ {
		for x := g.box.Min.X; x < g.box.Max.X; x++ {
			if !image.Pt(x, y).In(g.inner) {
				p.Current.SetContent(x, y, ' ', nil, style)
			}
		}
	}
}

func (p *Screen) drawRaster(g geometry) {
	if p.canvas == nil || g.inner.Empty() {
		return
	}

	bg := cellColor(p.canvas.background, tcell.ColorBlack)
	bgStyle := tcell.StyleDefault.Background(bg)
	for y := g.inner.Min.Y; y < g.inner.Max.Y; y++ {
		for x := g.inner.Min.X; x < g.inner.Max.X; x++ {
			p.Current.SetContent(x, y, ' ', nil, bgStyle)
		}
	}

	small := Downsample(p.canvas.ctx.Image())
	if small == nil {
		return
	}

	br, bgc, bb := bg.RGB()
	under := color.RGBA{R: uint8(br), G: uint8(bgc), B: uint8(bb), A: 0xff}
	b := small.Bounds()
	for row := 0; row*2 < b.Dy(); row++ {
		for col := 0; col < b.Dx(); col++ {
			x, y := g.inner.Min.X+col, g.inner.Min.Y+row
			if !image.Pt(x, y).In(g.inner) {
				continue
			}
			top := over(small.RGBAAt(col, row*2), under)
			bottom := under
			if row*2+1 < b.Dy() {
				bottom = over(small.RGBAAt(col, row*2+1), under)
			}
			style := tcell.StyleDefault.Foreground(toCell(top)).Background(toCell(bottom))
			p.Current.SetContent(x, y, '▀', nil, style)
		}
	}
}

// Downsample scales a raster to one pixel per half cell. It returns nil
// for an empty raster.
func Downsample(src image.Image) *image.RGBA {
	sb := src.Bounds()
	if sb.Empty() {
		return nil
	}

	half := CellHeight / 2
	w := (sb.Dx() + CellWidth - 1) / CellWidth
	h := (sb.Dy() + half - 1) / half
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, sb, xdraw.Src, nil)
	return dst
}

// over composites a premultiplied pixel onto an opaque background.
func over(px, bg color.RGBA) color.RGBA {
	k := 255 - uint32(px.A)
	return color.RGBA{
		R: uint8(uint32(px.R) + uint32(bg.R)*k/255),
		G: uint8(uint32(px.G) + uint32(bg.G)*k/255),
		B: uint8(uint32(px.B) + uint32(bg.B)*k/255),
		A: 0xff,
	}
}

func toCell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// cellColor maps a surface color to a terminal color, fallback when it
// cannot be parsed.
func cellColor(s string, fallback tcell.Color) tcell.Color {
	c, ok := drawctx.ParseColor(s)
	if !ok {
		return fallback
	}
	n := color.NRGBAModel.Convert(c.Color()).(color.NRGBA)
	return tcell.NewRGBColor(int32(n.R), int32(n.G), int32(n.B))
}

func (p *Screen) emitStr(x, y int, style tcell.Style, str string) {
	s := p.Current
	for _, c := range str {
		var comb []rune
		w := runewidth.RuneWidth(c)
		if w == 0 {
			comb = []rune{c}
			c = ' '
			w = 1
		}
		s.SetContent(x, y, c, comb, style)
		x += w
	}
}
