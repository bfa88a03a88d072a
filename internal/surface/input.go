package surface

// Action is what an input event does to the pointer.
type Action int

const (
	ActionPress Action = iota
	ActionMove
	ActionRelease
	ActionLeave
)

func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionMove:
		return "move"
	case ActionRelease:
		return "release"
	case ActionLeave:
		return "leave"
	}
	return "unknown"
}

// Source is the input modality an event came from.
type Source int

const (
	SourceMouse Source = iota
	SourceTouch
)

func (s Source) String() string {
	if s == SourceTouch {
		return "touch"
	}
	return "mouse"
}

// InputEvent is a pointer sample normalized by the host. Mouse positions
// are relative to the canvas, touch positions are the first touch point
// relative to the viewport. The two only agree when the canvas sits at
// the viewport origin.
type InputEvent struct {
	Action Action
	Source Source
	X, Y   float64
}

// HandleInput advances the pointer state machine by one event.
func (s *DrawingSurface) HandleInput(ev InputEvent) {
	switch ev.Action {
	case ActionPress:
		s.press(ev)
	case ActionMove:
		s.move(ev)
	case ActionRelease, ActionLeave:
		s.release(ev)
	}
}

func (s *DrawingSurface) press(ev InputEvent) {
	s.setPointer(ev)
	s.pointer.Pressed = true

	if s.ctx != nil {
		s.ctx.BeginPath()
		s.ctx.MoveTo(ev.X, ev.Y)
	}
}

func (s *DrawingSurface) move(ev InputEvent) {
	s.setPointer(ev)
	if !s.pointer.Pressed {
		return
	}

	s.drawSegment()
}

func (s *DrawingSurface) release(ev InputEvent) {
	s.setPointer(ev)
	s.pointer.Pressed = false

	if s.ctx != nil {
		s.ctx.BeginPath()
	}
}

func (s *DrawingSurface) setPointer(ev InputEvent) {
	s.pointer.X = ev.X
	s.pointer.Y = ev.Y
}

// drawSegment strokes from the previous path point to the pointer and
// restarts the path there, so every segment keeps its own style.
func (s *DrawingSurface) drawSegment() {
	if s.ctx == nil {
		return
	}

	x, y := s.pointer.X, s.pointer.Y

	s.ctx.SetStrokeStyle(s.strokeColor)
	s.ctx.SetLineWidth(s.strokeWidth)
	s.ctx.LineTo(x, y)
	s.ctx.Stroke()

	// Thick segments leave gaps at sharp turns; a disc rounds the joint.
	if s.strokeWidth > 1 {
		s.ctx.BeginPath()
		s.ctx.Arc(x, y, s.strokeWidth/2)
		s.ctx.SetFillStyle(s.strokeColor)
		s.ctx.Fill()
	}

	s.ctx.BeginPath()
	s.ctx.MoveTo(x, y)

	if s.onDraw != nil {
		s.onDraw(s)
	}
}
