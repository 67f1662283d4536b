package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/tessera-ui/tessera/internal/render"
)

// specialKeys maps tcell special keys to unified key codes.
var specialKeys = map[tcell.Key]render.KeyCode{
	tcell.KeyUp:         render.KeyUp,
	tcell.KeyDown:       render.KeyDown,
	tcell.KeyLeft:       render.KeyLeft,
	tcell.KeyRight:      render.KeyRight,
	tcell.KeyEnter:      render.KeyEnter,
	tcell.KeyEscape:     render.KeyEscape,
	tcell.KeyTab:        render.KeyTab,
	tcell.KeyBackspace:  render.KeyBackspace,
	tcell.KeyBackspace2: render.KeyBackspace,
	tcell.KeyInsert:     render.KeyInsert,
	tcell.KeyDelete:     render.KeyDelete,
	tcell.KeyHome:       render.KeyHome,
	tcell.KeyEnd:        render.KeyEnd,
	tcell.KeyPgUp:       render.KeyPageUp,
	tcell.KeyPgDn:       render.KeyPageDown,
	tcell.KeyF1:         render.KeyF1,
	tcell.KeyF2:         render.KeyF2,
	tcell.KeyF3:         render.KeyF3,
	tcell.KeyF4:         render.KeyF4,
	tcell.KeyF5:         render.KeyF5,
	tcell.KeyF6:         render.KeyF6,
	tcell.KeyF7:         render.KeyF7,
	tcell.KeyF8:         render.KeyF8,
	tcell.KeyF9:         render.KeyF9,
	tcell.KeyF10:        render.KeyF10,
	tcell.KeyF11:        render.KeyF11,
	tcell.KeyF12:        render.KeyF12,
}

// convertMods translates tcell modifier flags to the unified bitmask.
// The terminal Meta key maps to Command for parity with desktop
// backends.
func convertMods(m tcell.ModMask) render.ModMask {
	var mods render.ModMask
	if m&tcell.ModShift != 0 {
		mods |= render.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= render.ModControl
	}
	if m&tcell.ModAlt != 0 {
		mods |= render.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mods |= render.ModCommand
	}
	return mods
}

// convertKey translates a tcell key event to a unified event.
//
// A printable rune without command modifiers is text input and becomes
// a CharEvent. Everything else (special keys, control chords) becomes
// a KeyEvent; control letters are normalized back to the letter with
// ModControl set. Unmapped keys pass through as their raw code.
func convertKey(ev *tcell.EventKey) render.Event {
	mods := convertMods(ev.Modifiers())

	if code, ok := specialKeys[ev.Key()]; ok {
		ke := render.KeyEvent{Code: code, Mods: mods}
		switch code {
		case render.KeyEnter:
			ke.Ch = "\n"
		case render.KeyTab:
			ke.Ch = "\t"
		}
		return ke
	}

	// Ctrl+letter arrives as a C0 control code.
	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return render.KeyEvent{
			Code: render.KeyCode('a' + rune(k) - rune(tcell.KeyCtrlA)),
			Mods: mods | render.ModControl,
			Ch:   string(rune(k)),
		}
	}

	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if mods&(render.ModControl|render.ModAlt|render.ModCommand) == 0 {
			return render.CharEvent{Ch: string(r)}
		}
		return render.KeyEvent{Code: render.KeyCode(r), Mods: mods, Ch: string(r)}
	}

	// Unknown device code: pass the raw value through.
	return render.KeyEvent{Code: render.KeyCode(ev.Key()), Mods: mods}
}

// convertButton maps the lowest pressed tcell button to the unified
// button id.
func convertButton(b tcell.ButtonMask) render.MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return render.ButtonLeft
	case b&tcell.Button3 != 0:
		return render.ButtonMiddle
	case b&tcell.Button2 != 0:
		return render.ButtonRight
	}
	return render.ButtonNone
}
