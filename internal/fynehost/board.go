package fynehost

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"drawpad.app/drawpad/internal/drawctx"
	"drawpad.app/drawpad/internal/surface"
)

var (
	_ surface.Canvas     = (*Board)(nil)
	_ desktop.Mouseable  = (*Board)(nil)
	_ desktop.Hoverable  = (*Board)(nil)
	_ desktop.Cursorable = (*Board)(nil)
	_ mobile.Touchable   = (*Board)(nil)
	_ fyne.Draggable     = (*Board)(nil)
)

// Board is the canvas element of the fyne host: a background rectangle
// with the raster of a drawctx.Context on top. It turns fyne pointer
// callbacks into surface input events.
type Board struct {
	widget.BaseWidget

	ctx        *drawctx.Context
	raster     *canvas.Image
	background *canvas.Rectangle
	cursor     desktop.Cursor

	listener func(surface.InputEvent)
	touching bool
	last     fyne.Position
	lastMove *fyne.Position
}

// NewBoard returns an empty board with the default background.
func NewBoard() *Board {
	b := &Board{
		ctx:        drawctx.New(0, 0),
		background: canvas.NewRectangle(hexColor(surface.DefaultBackground, color.Transparent)),
		cursor:     desktop.CrosshairCursor,
	}
	b.raster = canvas.NewImageFromImage(b.ctx.Image())
	b.raster.ScaleMode = canvas.ImageScalePixels
	b.ctx.OnChange = b.refreshRaster
	b.ExtendBaseWidget(b)
	return b
}

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	return &boardRenderer{board: b}
}

// DrawingContext exposes the raster context, mainly for hosts that
// composite or save the board themselves.
func (b *Board) DrawingContext() *drawctx.Context { return b.ctx }

func (b *Board) SetDrawingSize(w, h int) {
	if err := b.ctx.Resize(w, h); err != nil {
		b.ctx.Log().Error().Err(err).Int("width", w).Int("height", h).Msg("resize failed")
	}
	b.Refresh()
}

func (b *Board) SetBackground(c string) {
	b.background.FillColor = hexColor(c, b.background.FillColor)
	b.background.Refresh()
}

func (b *Board) SetCursor(c surface.Cursor) {
	switch c {
	case surface.CursorDefault:
		b.cursor = desktop.DefaultCursor
	case surface.CursorPointer:
		b.cursor = desktop.PointerCursor
	default:
		b.cursor = desktop.CrosshairCursor
	}
}

func (b *Board) Context() (surface.Context, error) {
	return b.ctx, nil
}

func (b *Board) Listen(fn func(surface.InputEvent)) func() {
	b.listener = fn
	return func() {
		b.listener = nil
	}
}

// Cursor implements desktop.Cursorable.
func (b *Board) Cursor() desktop.Cursor { return b.cursor }

// MouseDown implements desktop.Mouseable. Only the primary button draws.
func (b *Board) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.lastMove = nil
	b.emit(surface.ActionPress, surface.SourceMouse, e.Position)
}

// MouseUp implements desktop.Mouseable.
func (b *Board) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.emit(surface.ActionRelease, surface.SourceMouse, e.Position)
}

func (b *Board) MouseIn(e *desktop.MouseEvent) {
	b.last = e.Position
}

func (b *Board) MouseMoved(e *desktop.MouseEvent) {
	b.move(surface.SourceMouse, e.Position)
}

// MouseOut has no coordinates; the last seen position is reported.
func (b *Board) MouseOut() {
	b.emit(surface.ActionLeave, surface.SourceMouse, b.last)
}

// TouchDown implements mobile.Touchable. Touch positions are taken
// relative to the window, not the board.
func (b *Board) TouchDown(e *mobile.TouchEvent) {
	b.touching = true
	b.lastMove = nil
	b.emit(surface.ActionPress, surface.SourceTouch, e.AbsolutePosition)
}

func (b *Board) TouchUp(e *mobile.TouchEvent) {
	b.touching = false
	b.emit(surface.ActionRelease, surface.SourceTouch, e.AbsolutePosition)
}

func (b *Board) TouchCancel(e *mobile.TouchEvent) {
	b.touching = false
	b.emit(surface.ActionLeave, surface.SourceTouch, e.AbsolutePosition)
}

// Dragged implements fyne.Draggable. Drivers deliver pressed pointer
// motion here instead of MouseMoved.
func (b *Board) Dragged(e *fyne.DragEvent) {
	if b.touching {
		b.move(surface.SourceTouch, e.AbsolutePosition)
		return
	}
	b.move(surface.SourceMouse, e.Position)
}

// DragEnd is covered by MouseUp and TouchUp.
func (b *Board) DragEnd() {}

// move drops a sample identical to the previous one; some drivers report
// the same motion through both MouseMoved and Dragged.
func (b *Board) move(src surface.Source, pos fyne.Position) {
	if b.lastMove != nil && *b.lastMove == pos {
		return
	}
	p := pos
	b.lastMove = &p
	b.emit(surface.ActionMove, src, pos)
}

func (b *Board) emit(a surface.Action, src surface.Source, pos fyne.Position) {
	if src == surface.SourceMouse {
		b.last = pos
	}
	if b.listener == nil {
		return
	}
	b.listener(surface.InputEvent{
		Action: a,
		Source: src,
		X:      float64(pos.X),
		Y:      float64(pos.Y),
	})
}

func (b *Board) refreshRaster() {
	b.raster.Image = b.ctx.Image()
	b.raster.Refresh()
}

type boardRenderer struct {
	board *Board
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.board.background.Move(fyne.NewPos(0, 0))
	r.board.background.Resize(size)

	w, h := r.board.ctx.Size()
	r.board.raster.Move(fyne.NewPos(0, 0))
	r.board.raster.Resize(fyne.NewSize(float32(w), float32(h)))
}

func (r *boardRenderer) MinSize() fyne.Size {
	w, h := r.board.ctx.Size()
	return fyne.NewSize(float32(w), float32(h))
}

func (r *boardRenderer) Refresh() {
	r.board.refreshRaster()
	r.Layout(r.board.Size())
	r.board.background.Refresh()
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.board.background, r.board.raster}
}

func (r *boardRenderer) Destroy() {}
