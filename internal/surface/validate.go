package surface

import (
	"math"
	"regexp"
)

// Stroke width bounds.
const (
	MinStrokeWidth = 1
	MaxStrokeWidth = 10
)

// MaxDimension is the largest accepted width or height, in either unit.
// A 16384 x 16384 raster is the biggest the hosts will allocate.
const MaxDimension = 16384

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{1,6}$`)

// IsHexColor reports whether s is '#' followed by one to six hex digits.
func IsHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

// ClampStrokeWidth coerces w into [1,10]. NaN and values <= 0 become 1.
func ClampStrokeWidth(w float64) float64 {
	switch {
	case math.IsNaN(w), w <= 0:
		return MinStrokeWidth
	case w > MaxStrokeWidth:
		return MaxStrokeWidth
	}
	return w
}

// NormalizeCursor maps anything outside the known set to crosshair.
func NormalizeCursor(c Cursor) Cursor {
	switch c {
	case CursorDefault, CursorCrosshair, CursorPointer:
		return c
	}
	return CursorCrosshair
}

func validDimension(v float64) bool {
	return !math.IsNaN(v) && v > 0 && v <= MaxDimension
}

func validUnit(u SizeUnit) bool {
	return u == UnitPixel || u == UnitPercent
}

// contentDimension is the drawing-surface size left once the border
// inset is taken off both sides.
func contentDimension(v float64, border int) int {
	c := math.Round(v) - 2*float64(border)
	switch {
	case c <= 0 || math.IsNaN(c):
		return 0
	case c > MaxDimension:
		return MaxDimension
	}
	return int(c)
}
