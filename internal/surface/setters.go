package surface

// Result is the outcome of a setter call.
type Result int

const (
	// Applied means the value was stored and the visuals synced.
	Applied Result = iota
	// Vetoed means a guard returned false; nothing changed.
	Vetoed
	// Rejected means the value failed validation; nothing changed.
	Rejected
)

func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case Vetoed:
		return "vetoed"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// OK reports whether the value was applied.
func (r Result) OK() bool { return r == Applied }

// Guard is called with the current value before a setter mutates it.
// Returning false vetoes the change.
type Guard[T any] func(current T) bool

func allow[T any](current T, guards []Guard[T]) bool {
	for _, g := range guards {
		if g != nil && !g(current) {
			return false
		}
	}
	return true
}

// SetWidth sets the container width in the current size unit. The canvas
// drawing width becomes w minus the border on both sides.
func (s *DrawingSurface) SetWidth(w float64, guards ...Guard[float64]) Result {
	if !allow(s.width, guards) {
		return Vetoed
	}
	if !validDimension(w) {
		return Rejected
	}

	s.width = w
	s.syncSize()
	return Applied
}

// SetHeight is SetWidth for the vertical axis.
func (s *DrawingSurface) SetHeight(h float64, guards ...Guard[float64]) Result {
	if !allow(s.height, guards) {
		return Vetoed
	}
	if !validDimension(h) {
		return Rejected
	}

	s.height = h
	s.syncSize()
	return Applied
}

// SetSizeUnit switches the container box between pixels and percent.
func (s *DrawingSurface) SetSizeUnit(u SizeUnit, guards ...Guard[SizeUnit]) Result {
	if !allow(s.unit, guards) {
		return Vetoed
	}
	if !validUnit(u) {
		return Rejected
	}

	s.unit = u
	s.syncSize()
	return Applied
}

func (s *DrawingSurface) SetBackground(c string, guards ...Guard[string]) Result {
	if !allow(s.background, guards) {
		return Vetoed
	}
	if !IsHexColor(c) {
		return Rejected
	}

	s.background = c
	if s.canvas != nil {
		s.canvas.SetBackground(c)
	}
	return Applied
}

// SetStrokeColor changes the color of the next segment drawn. Segments
// already on the canvas keep theirs.
func (s *DrawingSurface) SetStrokeColor(c string, guards ...Guard[string]) Result {
	if !allow(s.strokeColor, guards) {
		return Vetoed
	}
	if !IsHexColor(c) {
		return Rejected
	}

	s.strokeColor = c
	return Applied
}

// SetStrokeWidth clamps w into [1,10]; it never rejects.
func (s *DrawingSurface) SetStrokeWidth(w float64, guards ...Guard[float64]) Result {
	if !allow(s.strokeWidth, guards) {
		return Vetoed
	}

	s.strokeWidth = ClampStrokeWidth(w)
	return Applied
}

// SetCursor sets the pointer style. Unknown cursors fall back to crosshair.
func (s *DrawingSurface) SetCursor(c Cursor, guards ...Guard[Cursor]) Result {
	if !allow(s.pointer.Cursor, guards) {
		return Vetoed
	}

	s.pointer.Cursor = NormalizeCursor(c)
	if s.canvas != nil {
		s.canvas.SetCursor(s.pointer.Cursor)
	}
	return Applied
}

// SetBorderSize sets the border thickness. A border without a style gets
// a solid one.
func (s *DrawingSurface) SetBorderSize(n int, guards ...Guard[int]) Result {
	if !allow(s.border.Size, guards) {
		return Vetoed
	}
	if n < 0 {
		return Rejected
	}

	s.applyBorderSize(n)
	s.syncBorder()
	s.syncSize()
	return Applied
}

// SetBorderColor sets the border color. A border without a style gets a
// solid one.
func (s *DrawingSurface) SetBorderColor(c string, guards ...Guard[string]) Result {
	if !allow(s.border.Color, guards) {
		return Vetoed
	}
	if !IsHexColor(c) {
		return Rejected
	}

	s.applyBorderColor(c)
	s.syncBorder()
	return Applied
}

// SetBorderStyle stores any non-empty style, "none" included.
func (s *DrawingSurface) SetBorderStyle(style string, guards ...Guard[string]) Result {
	if !allow(s.border.Style, guards) {
		return Vetoed
	}
	if style == "" {
		return Rejected
	}

	s.border.Style = style
	s.syncBorder()
	return Applied
}

// SetPressed forces the pointer state without an input event.
func (s *DrawingSurface) SetPressed(pressed bool, guards ...Guard[bool]) Result {
	if !allow(s.pointer.Pressed, guards) {
		return Vetoed
	}

	s.pointer.Pressed = pressed
	return Applied
}

func (s *DrawingSurface) applyBorderSize(n int) {
	s.border.Size = n
	if s.border.Style == BorderNone {
		s.border.Style = DefaultBorderStyle
	}
}

func (s *DrawingSurface) applyBorderColor(c string) {
	s.border.Color = c
	if s.border.Style == BorderNone {
		s.border.Style = DefaultBorderStyle
	}
}

func (s *DrawingSurface) syncBorder() {
	if s.container == nil || s.canvas == nil {
		return
	}
	s.container.SetBorder(s.border)
}

func (s *DrawingSurface) syncSize() {
	if s.container == nil || s.canvas == nil {
		return
	}
	s.container.SetBoxSize(s.width, s.height, s.unit)
	w, h := s.ContentSize()
	s.canvas.SetDrawingSize(w, h)
}
