package native

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/tessera-ui/tessera/internal/render"
)

// specialKeys maps fyne key names to unified key codes.
var specialKeys = map[fyne.KeyName]render.KeyCode{
	fyne.KeyUp:        render.KeyUp,
	fyne.KeyDown:      render.KeyDown,
	fyne.KeyLeft:      render.KeyLeft,
	fyne.KeyRight:     render.KeyRight,
	fyne.KeyReturn:    render.KeyEnter,
	fyne.KeyEnter:     render.KeyEnter,
	fyne.KeyEscape:    render.KeyEscape,
	fyne.KeyTab:       render.KeyTab,
	fyne.KeyBackspace: render.KeyBackspace,
	fyne.KeyInsert:    render.KeyInsert,
	fyne.KeyDelete:    render.KeyDelete,
	fyne.KeyHome:      render.KeyHome,
	fyne.KeyEnd:       render.KeyEnd,
	fyne.KeyPageUp:    render.KeyPageUp,
	fyne.KeyPageDown:  render.KeyPageDown,
	fyne.KeyF1:        render.KeyF1,
	fyne.KeyF2:        render.KeyF2,
	fyne.KeyF3:        render.KeyF3,
	fyne.KeyF4:        render.KeyF4,
	fyne.KeyF5:        render.KeyF5,
	fyne.KeyF6:        render.KeyF6,
	fyne.KeyF7:        render.KeyF7,
	fyne.KeyF8:        render.KeyF8,
	fyne.KeyF9:        render.KeyF9,
	fyne.KeyF10:       render.KeyF10,
	fyne.KeyF11:       render.KeyF11,
	fyne.KeyF12:       render.KeyF12,
}

// modifierKeys maps modifier key names to mask bits for state
// tracking.
var modifierKeys = map[fyne.KeyName]render.ModMask{
	desktop.KeyShiftLeft:    render.ModShift,
	desktop.KeyShiftRight:   render.ModShift,
	desktop.KeyControlLeft:  render.ModControl,
	desktop.KeyControlRight: render.ModControl,
	desktop.KeyAltLeft:      render.ModAlt,
	desktop.KeyAltRight:     render.ModAlt,
	desktop.KeySuperLeft:    render.ModCommand,
	desktop.KeySuperRight:   render.ModCommand,
}

// installInput wires fyne keyboard delivery into the event queue.
//
// Key events and text input are separate paths on purpose: TypedKey
// carries the physical key (queued as KeyEvent for special keys and
// command chords), while TypedRune carries text after the platform's
// input method has run, so IME-composed characters arrive here as
// CharEvent and are never synthesized from raw keys.
func (b *Backend) installInput() {
	cv := b.win.Canvas()

	cv.SetOnTypedRune(func(r rune) {
		if b.mods&(render.ModControl|render.ModAlt|render.ModCommand) != 0 {
			// The chord already went out as a KeyEvent.
			return
		}
		b.post(render.CharEvent{Ch: string(r)})
	})

	cv.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if out, ok := convertFyneKey(ev.Name, b.mods); ok {
			b.post(out)
		}
	})

	if dc, ok := cv.(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			if m, isMod := modifierKeys[ev.Name]; isMod {
				b.mods |= m
			}
		})
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			if m, isMod := modifierKeys[ev.Name]; isMod {
				b.mods &^= m
			}
		})
	}
}

// convertFyneKey translates a typed key to a KeyEvent. Printable keys
// without command modifiers return ok=false: their text arrives
// through TypedRune instead.
func convertFyneKey(name fyne.KeyName, mods render.ModMask) (render.Event, bool) {
	if code, isSpecial := specialKeys[name]; isSpecial {
		ke := render.KeyEvent{Code: code, Mods: mods}
		switch code {
		case render.KeyEnter:
			ke.Ch = "\n"
		case render.KeyTab:
			ke.Ch = "\t"
		}
		return ke, true
	}
	if _, isMod := modifierKeys[name]; isMod {
		return nil, false
	}

	command := mods&(render.ModControl|render.ModAlt|render.ModCommand) != 0
	if !command {
		return nil, false
	}

	// Command chord on a printable key: fyne names printable keys by
	// their unshifted character ("A", "1", "-").
	if len(name) == 1 {
		r := rune(name[0])
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		return render.KeyEvent{Code: render.KeyCode(r), Mods: mods, Ch: string(r)}, true
	}
	if name == fyne.KeySpace {
		return render.KeyEvent{Code: render.KeySpace, Mods: mods, Ch: " "}, true
	}
	return nil, false
}

// onMouse converts a pixel position (top-left origin, from fyne) to a
// grid position and queues the event.
func (b *Backend) onMouse(x, y float32, button render.MouseButton) {
	row := int(y / b.cell.H)
	col := int(x / b.cell.W)
	rows, cols := b.grid.Size()
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return
	}
	b.post(render.MouseEvent{Row: row, Col: col, Button: button})
}

// gridArea is the window's root widget: it hosts the active painter's
// canvas object, captures mouse input for the backend, and reports
// size changes so the render thread notices a resize even when no
// draw call is pending.
type gridArea struct {
	widget.BaseWidget
	content  fyne.CanvasObject
	onMouse  func(x, y float32, button render.MouseButton)
	onResize func()

	// lastSize is the last laid-out size, owned by the fyne thread
	// after Init.
	lastSize fyne.Size
}

// Compile-time interface checks.
var (
	_ fyne.Widget       = (*gridArea)(nil)
	_ desktop.Mouseable = (*gridArea)(nil)
)

func newGridArea(content fyne.CanvasObject, onMouse func(x, y float32, button render.MouseButton), onResize func()) *gridArea {
	g := &gridArea{content: content, onMouse: onMouse, onResize: onResize}
	g.ExtendBaseWidget(g)
	return g
}

// setContent swaps the hosted painter object (bridge fallback).
func (g *gridArea) setContent(content fyne.CanvasObject) {
	g.content = content
	g.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (g *gridArea) CreateRenderer() fyne.WidgetRenderer {
	return &gridAreaRenderer{area: g}
}

// MouseDown implements desktop.Mouseable.
func (g *gridArea) MouseDown(ev *desktop.MouseEvent) {
	g.onMouse(ev.Position.X, ev.Position.Y, convertMouseButton(ev.Button))
}

// MouseUp implements desktop.Mouseable.
func (g *gridArea) MouseUp(ev *desktop.MouseEvent) {}

func convertMouseButton(b desktop.MouseButton) render.MouseButton {
	switch b {
	case desktop.MouseButtonPrimary:
		return render.ButtonLeft
	case desktop.MouseButtonTertiary:
		return render.ButtonMiddle
	case desktop.MouseButtonSecondary:
		return render.ButtonRight
	}
	return render.ButtonNone
}

type gridAreaRenderer struct {
	area *gridArea
}

func (r *gridAreaRenderer) Layout(size fyne.Size) {
	r.area.content.Resize(size)
	if size != r.area.lastSize {
		r.area.lastSize = size
		if r.area.onResize != nil {
			r.area.onResize()
		}
	}
}

func (r *gridAreaRenderer) MinSize() fyne.Size {
	return fyne.NewSize(1, 1)
}

func (r *gridAreaRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.area.content}
}

func (r *gridAreaRenderer) Refresh() {
	r.area.content.Refresh()
}

func (r *gridAreaRenderer) Destroy() {}
