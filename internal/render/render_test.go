package render

import (
	"errors"
	"testing"
	"time"

	"github.com/tessera-ui/tessera/internal/grid"
)

func glyphAt(t *testing.T, n *Null, row, col int) string {
	t.Helper()
	c, ok := n.Grid().Cell(row, col)
	if !ok {
		t.Fatalf("cell (%d,%d) out of bounds", row, col)
	}
	return c.Glyph
}

func TestDrawHLine(t *testing.T) {
	n := NewNull(5, 10)
	n.DrawHLine(2, 1, 4, "-", 0, grid.AttrNone)
	for col := 1; col <= 4; col++ {
		if g := glyphAt(t, n, 2, col); g != "-" {
			t.Errorf("cell (2,%d) = %q, want -", col, g)
		}
	}
	if g := glyphAt(t, n, 2, 5); g != " " {
		t.Errorf("cell (2,5) = %q, want space", g)
	}
}

func TestDrawVLine(t *testing.T) {
	n := NewNull(5, 10)
	n.DrawVLine(1, 3, 3, "|", 0, grid.AttrNone)
	for row := 1; row <= 3; row++ {
		if g := glyphAt(t, n, row, 3); g != "|" {
			t.Errorf("cell (%d,3) = %q, want |", row, g)
		}
	}
}

func TestDrawRectOutline(t *testing.T) {
	n := NewNull(6, 10)
	n.DrawRect(1, 1, 4, 5, "#", 0, grid.AttrNone, false)

	// Border cells painted, interior untouched.
	for col := 1; col <= 5; col++ {
		if g := glyphAt(t, n, 1, col); g != "#" {
			t.Errorf("top border (1,%d) = %q", col, g)
		}
		if g := glyphAt(t, n, 4, col); g != "#" {
			t.Errorf("bottom border (4,%d) = %q", col, g)
		}
	}
	for row := 2; row <= 3; row++ {
		if g := glyphAt(t, n, row, 1); g != "#" {
			t.Errorf("left border (%d,1) = %q", row, g)
		}
		if g := glyphAt(t, n, row, 5); g != "#" {
			t.Errorf("right border (%d,5) = %q", row, g)
		}
	}
	if g := glyphAt(t, n, 2, 3); g != " " {
		t.Errorf("interior (2,3) = %q, want space", g)
	}
}

func TestDrawRectFilled(t *testing.T) {
	n := NewNull(6, 10)
	n.DrawRect(0, 0, 3, 3, "x", 1, grid.AttrBold, true)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			if g := glyphAt(t, n, row, col); g != "x" {
				t.Errorf("cell (%d,%d) = %q, want x", row, col, g)
			}
		}
	}
}

func TestInitColorPairInvalid(t *testing.T) {
	n := NewNull(2, 2)
	if err := n.InitColorPair(300, grid.RGB{}, grid.RGB{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("InitColorPair(300) err = %v, want ErrInvalidArgument", err)
	}
	if err := n.InitColorPair(12, grid.RGB{R: 5}, grid.RGB{}); err != nil {
		t.Errorf("InitColorPair(12) err = %v, want nil", err)
	}
}

func TestPollEventTimeouts(t *testing.T) {
	n := NewNull(2, 2)

	// Non-blocking poll on an empty queue.
	if _, ok := n.PollEvent(0); ok {
		t.Error("PollEvent(0) returned an event from an empty queue")
	}

	// Timed poll expires.
	start := time.Now()
	if _, ok := n.PollEvent(10 * time.Millisecond); ok {
		t.Error("PollEvent(10ms) returned an event from an empty queue")
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Error("PollEvent returned before the timeout elapsed")
	}

	// Queued events are served in order.
	n.PostEvent(KeyEvent{Code: KeyUp})
	n.PostEvent(CharEvent{Ch: "a"})
	ev, ok := n.PollEvent(0)
	if !ok {
		t.Fatal("PollEvent(0) found no event after PostEvent")
	}
	if ke, isKey := ev.(KeyEvent); !isKey || ke.Code != KeyUp {
		t.Errorf("first event = %#v, want KeyEvent{KeyUp}", ev)
	}
	ev, _ = n.PollEvent(-1)
	if ce, isCh := ev.(CharEvent); !isCh || ce.Ch != "a" {
		t.Errorf("second event = %#v, want CharEvent{a}", ev)
	}
}
