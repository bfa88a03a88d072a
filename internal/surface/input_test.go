package surface

import (
	"reflect"
	"testing"
)

func TestPointerSequence(t *testing.T) {
	c := newFakeContainer()
	s := New(c, Options{})
	ctx := c.canvas.ctx

	if s.Pressed() {
		t.Fatalf("expected not pressed before press")
	}

	c.canvas.emit(InputEvent{Action: ActionPress, X: 10, Y: 10})
	if !s.Pressed() {
		t.Fatalf("expected pressed")
	}

	c.canvas.emit(InputEvent{Action: ActionMove, X: 20, Y: 15})
	c.canvas.emit(InputEvent{Action: ActionMove, X: 30, Y: 25})
	c.canvas.emit(InputEvent{Action: ActionRelease, X: 31, Y: 26})

	if ctx.strokes != 2 {
		t.Fatalf("expected 2 strokes, got %d", ctx.strokes)
	}
	if s.Pressed() {
		t.Fatalf("expected not pressed after release")
	}
	if p := s.Pointer(); p.X != 31 || p.Y != 26 {
		t.Fatalf("expected release coordinates, got %v,%v", p.X, p.Y)
	}

	want := []string{
		"begin", "move 10,10",
		"strokeStyle #000000", "lineWidth 1", "line 20,15", "stroke", "begin", "move 20,15",
		"strokeStyle #000000", "lineWidth 1", "line 30,25", "stroke", "begin", "move 30,25",
		"begin",
	}
	if !reflect.DeepEqual(ctx.calls, want) {
		t.Fatalf("got calls:\n%v\nwant:\n%v", ctx.calls, want)
	}
}

func TestMoveWhileUp(t *testing.T) {
	c := newFakeContainer()
	s := New(c, Options{})

	s.HandleInput(InputEvent{Action: ActionMove, X: 5, Y: 6})

	if c.canvas.ctx.strokes != 0 || len(c.canvas.ctx.calls) != 0 {
		t.Fatalf("expected no drawing, got %v", c.canvas.ctx.calls)
	}
	if p := s.Pointer(); p.X != 5 || p.Y != 6 {
		t.Fatalf("expected coordinates tracked, got %v,%v", p.X, p.Y)
	}
}

func TestThickStrokeRoundsJoint(t *testing.T) {
	c := newFakeContainer()
	s := New(c, Options{StrokeWidth: 6, StrokeColor: "#00ff00"})

	s.HandleInput(InputEvent{Action: ActionPress, X: 0, Y: 0})
	s.HandleInput(InputEvent{Action: ActionMove, X: 8, Y: 4})

	want := []string{
		"begin", "move 0,0",
		"strokeStyle #00ff00", "lineWidth 6", "line 8,4", "stroke",
		"begin", "arc 8,4 r3", "fillStyle #00ff00", "fill",
		"begin", "move 8,4",
	}
	if !reflect.DeepEqual(c.canvas.ctx.calls, want) {
		t.Fatalf("got calls:\n%v\nwant:\n%v", c.canvas.ctx.calls, want)
	}
}

func TestLiveStyleChange(t *testing.T) {
	c := newFakeContainer()
	s := New(c, Options{})

	s.HandleInput(InputEvent{Action: ActionPress})
	s.HandleInput(InputEvent{Action: ActionMove, X: 1, Y: 1})
	s.SetStrokeColor("#ff0000")
	s.SetStrokeWidth(2)
	s.HandleInput(InputEvent{Action: ActionMove, X: 2, Y: 2})

	calls := c.canvas.ctx.calls
	if calls[2] != "strokeStyle #000000" {
		t.Fatalf("first segment styled %q", calls[2])
	}
	if calls[8] != "strokeStyle #ff0000" || calls[9] != "lineWidth 2" {
		t.Fatalf("second segment styled %q %q", calls[8], calls[9])
	}
}

func TestLeaveEndsStroke(t *testing.T) {
	c := newFakeContainer()
	s := New(c, Options{})

	s.HandleInput(InputEvent{Action: ActionPress, Source: SourceTouch, X: 1, Y: 1})
	s.HandleInput(InputEvent{Action: ActionLeave, X: -3, Y: 2})

	if s.Pressed() {
		t.Fatalf("expected leave to lift the pointer")
	}
	if p := s.Pointer(); p.X != -3 || p.Y != 2 {
		t.Fatalf("expected leave coordinates, got %v,%v", p.X, p.Y)
	}

	s.HandleInput(InputEvent{Action: ActionMove, X: 9, Y: 9})
	if c.canvas.ctx.strokes != 0 {
		t.Fatalf("expected no strokes after leave")
	}
}

func TestEveryPressStartsFreshPath(t *testing.T) {
	for _, src := range []Source{SourceMouse, SourceTouch} {
		t.Run(src.String(), func(t *testing.T) {
			c := newFakeContainer()
			s := New(c, Options{})

			// a pressed flag set from outside leaves a stale path behind
			s.SetPressed(true)
			s.HandleInput(InputEvent{Action: ActionMove, X: 3, Y: 3})
			c.canvas.ctx.calls = nil

			s.HandleInput(InputEvent{Action: ActionPress, Source: src, X: 50, Y: 50})
			if got := c.canvas.ctx.calls; len(got) != 2 || got[0] != "begin" || got[1] != "move 50,50" {
				t.Fatalf("expected fresh path at press point, got %v", got)
			}
		})
	}
}

func TestDrawCallback(t *testing.T) {
	c := newFakeContainer()
	s := New(c, Options{})

	var got []*DrawingSurface
	s.RegisterDrawCallback(func(ds *DrawingSurface) {
		got = append(got, ds)
	})

	s.HandleInput(InputEvent{Action: ActionPress})
	s.HandleInput(InputEvent{Action: ActionMove, X: 1})
	s.HandleInput(InputEvent{Action: ActionMove, X: 2})
	s.HandleInput(InputEvent{Action: ActionRelease})
	s.HandleInput(InputEvent{Action: ActionMove, X: 3})

	if len(got) != 2 {
		t.Fatalf("expected 2 callbacks, got %d", len(got))
	}
	if got[0] != s {
		t.Fatalf("expected the surface passed to the callback")
	}

	s.RegisterDrawCallback(nil)
	s.HandleInput(InputEvent{Action: ActionPress})
	s.HandleInput(InputEvent{Action: ActionMove, X: 4})
	if len(got) != 2 {
		t.Fatalf("expected callback removed")
	}
}

func TestActionAndSourceNames(t *testing.T) {
	if ActionPress.String() != "press" || ActionLeave.String() != "leave" || Action(99).String() != "unknown" {
		t.Fatalf("unexpected action names")
	}
	if SourceMouse.String() != "mouse" || SourceTouch.String() != "touch" {
		t.Fatalf("unexpected source names")
	}
}
