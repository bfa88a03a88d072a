package surface

import "io"

// Format is a raster export format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// MIME returns the media type used in data URLs.
func (f Format) MIME() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// ParseFormat maps a user supplied format name onto a Format.
// Empty or unknown names fall back to PNG.
func ParseFormat(name string) Format {
	switch name {
	case "jpeg", "jpg", "image/jpeg":
		return FormatJPEG
	}
	return FormatPNG
}

// Container is the host element a surface mounts its canvas into.
type Container interface {
	// CreateCanvas builds a canvas element and mounts it in the container.
	CreateCanvas() (Canvas, error)
	// SetBoxSize sizes the container's outer box.
	SetBoxSize(width, height float64, unit SizeUnit)
	SetBorder(b Border)
}

// Canvas is the drawing element created by a Container.
type Canvas interface {
	// SetDrawingSize sets the raster dimensions, border inset excluded.
	SetDrawingSize(width, height int)
	SetBackground(color string)
	SetCursor(c Cursor)
	// Context acquires the 2D drawing context of the canvas.
	Context() (Context, error)
	// Listen subscribes fn to the canvas input events. The returned
	// func detaches it.
	Listen(fn func(InputEvent)) (stop func())
}

// Context is an immediate-mode 2D drawing context with canvas semantics:
// Stroke and Fill paint the current path, BeginPath discards it.
type Context interface {
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()
	// Arc adds a full circle of radius r centered on (x, y).
	Arc(x, y, r float64)
	Fill()
	SetStrokeStyle(color string)
	SetFillStyle(color string)
	SetLineWidth(w float64)
	// Clear erases the whole drawing area to transparent.
	Clear()
	// Encode writes the raster in format f. quality is in [0,1] and only
	// used by lossy formats.
	Encode(w io.Writer, f Format, quality float64) error
}
