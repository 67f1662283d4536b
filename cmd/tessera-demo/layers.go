package main

import (
	"fmt"

	"github.com/tessera-ui/tessera/internal/compositor"
	"github.com/tessera-ui/tessera/internal/grid"
	"github.com/tessera-ui/tessera/internal/render"
	"github.com/tessera-ui/tessera/internal/theme"
)

// demoLayer is the permanent bottom layer: a full-screen tour of the
// drawing primitives, color pairs, and attributes.
type demoLayer struct {
	compositor.Base

	scheme      *theme.Scheme
	lastMouse   string
	wantOverlay bool
}

func newDemoLayer(s *theme.Scheme) *demoLayer {
	return &demoLayer{scheme: s}
}

func (d *demoLayer) FullScreen() bool { return true }

func (d *demoLayer) HandleKey(ev render.KeyEvent) bool {
	switch ev.Code {
	case render.KeyEscape:
		d.RequestClose()
		return true
	}
	return false
}

func (d *demoLayer) HandleChar(ev render.CharEvent) bool {
	switch ev.Ch {
	case "q":
		d.RequestClose()
		return true
	case "o":
		d.wantOverlay = true
		return true
	}
	return false
}

func (d *demoLayer) HandleSystem(ev render.SystemEvent) {
	if ev.Kind == render.SystemResize {
		d.MarkDirty()
	}
}

// TakeOverlayRequest reports and clears a pending overlay request. The
// event loop owns the stack, so the layer only signals intent.
func (d *demoLayer) TakeOverlayRequest() bool {
	want := d.wantOverlay
	d.wantOverlay = false
	return want
}

// NoteMouse records the last click for the status line.
func (d *demoLayer) NoteMouse(ev render.MouseEvent) {
	d.lastMouse = fmt.Sprintf("mouse %v at %d,%d", ev.Button, ev.Row, ev.Col)
	d.MarkDirty()
}

func (d *demoLayer) SetScheme(s *theme.Scheme) {
	d.scheme = s
	d.MarkDirty()
}

func (d *demoLayer) Render(r render.Renderer) error {
	rows, cols := r.Size()
	r.Clear()

	r.DrawText(0, 0, " tessera demo ", theme.PairStatus, grid.AttrBold)
	r.DrawText(0, 16, d.scheme.Name, theme.PairText, grid.AttrNone)

	r.DrawText(2, 2, "color pairs", theme.PairText, grid.AttrUnderline)
	for i, e := range d.scheme.Entries {
		row := 3 + i
		if row >= rows-3 {
			break
		}
		r.DrawText(row, 2, fmt.Sprintf("pair %3d", e.ID), theme.PairText, grid.AttrNone)
		r.DrawText(row, 12, "the quick brown fox", uint8(e.ID), grid.AttrNone)
	}

	r.DrawText(2, 36, "attributes", theme.PairText, grid.AttrUnderline)
	r.DrawText(3, 36, "bold", theme.PairText, grid.AttrBold)
	r.DrawText(4, 36, "underline", theme.PairText, grid.AttrUnderline)
	r.DrawText(5, 36, "reverse", theme.PairText, grid.AttrReverse)
	r.DrawText(6, 36, "wide: 漢字テスト", theme.PairText, grid.AttrNone)
	r.DrawText(7, 36, "combined: café naïve", theme.PairText, grid.AttrNone)

	if rows > 14 && cols > 60 {
		r.DrawRect(9, 2, 4, 30, "░", theme.PairDirectory, grid.AttrNone, true)
		r.DrawRect(9, 36, 4, 22, "█", theme.PairSelection, grid.AttrNone, false)
		r.DrawHLine(14, 2, cols-4, "─", theme.PairText, grid.AttrNone)
	}

	if d.lastMouse != "" {
		r.DrawText(rows-2, 2, d.lastMouse, theme.PairDirectory, grid.AttrNone)
	}
	r.DrawText(rows-1, 0, " q/esc quit   o overlay   click anywhere ", theme.PairStatus, grid.AttrNone)

	r.MoveCursor(rows-1, 0)
	r.SetCursorVisible(true)
	return nil
}

// overlayLayer is a modal centered dialog. It consumes every key so
// nothing leaks to the demo screen underneath while it is up.
type overlayLayer struct {
	compositor.Base
}

func newOverlayLayer() *overlayLayer {
	return &overlayLayer{}
}

func (o *overlayLayer) HandleKey(ev render.KeyEvent) bool {
	if ev.Code == render.KeyEscape || ev.Code == render.KeyEnter {
		o.RequestClose()
	}
	return true
}

func (o *overlayLayer) HandleChar(ev render.CharEvent) bool { return true }

func (o *overlayLayer) HandleSystem(ev render.SystemEvent) {
	if ev.Kind == render.SystemResize {
		o.MarkDirty()
	}
}

func (o *overlayLayer) Render(r render.Renderer) error {
	rows, cols := r.Size()
	h, w := 5, 44
	if rows < h+2 || cols < w+2 {
		return nil
	}
	top := (rows - h) / 2
	left := (cols - w) / 2

	r.DrawRect(top, left, h, w, " ", theme.PairSelection, grid.AttrNone, true)
	r.DrawRect(top, left, h, w, "─", theme.PairSelection, grid.AttrNone, false)
	r.DrawText(top+1, left+2, "overlay layer", theme.PairSelection, grid.AttrBold)
	r.DrawText(top+3, left+2, "esc or enter closes this dialog", theme.PairSelection, grid.AttrNone)
	return nil
}
