package render

// Event is the unified input event delivered by every backend.
// Concrete types: KeyEvent, CharEvent, MouseEvent, SystemEvent,
// MenuEvent.
type Event interface {
	isEvent()
}

// KeyCode identifies a key. Values below 1000 are Unicode code points
// passed through from the device; named constants cover special keys.
// Codes a backend cannot map are delivered as their raw integer value.
type KeyCode int

// Special key codes.
const (
	KeyTab       KeyCode = 9
	KeyEnter     KeyCode = 10
	KeyEscape    KeyCode = 27
	KeySpace     KeyCode = 32
	KeyBackspace KeyCode = 127

	KeyUp    KeyCode = 1000
	KeyDown  KeyCode = 1001
	KeyLeft  KeyCode = 1002
	KeyRight KeyCode = 1003

	KeyF1  KeyCode = 1100
	KeyF2  KeyCode = 1101
	KeyF3  KeyCode = 1102
	KeyF4  KeyCode = 1103
	KeyF5  KeyCode = 1104
	KeyF6  KeyCode = 1105
	KeyF7  KeyCode = 1106
	KeyF8  KeyCode = 1107
	KeyF9  KeyCode = 1108
	KeyF10 KeyCode = 1109
	KeyF11 KeyCode = 1110
	KeyF12 KeyCode = 1111

	KeyInsert   KeyCode = 1200
	KeyDelete   KeyCode = 1201
	KeyHome     KeyCode = 1202
	KeyEnd      KeyCode = 1203
	KeyPageUp   KeyCode = 1204
	KeyPageDown KeyCode = 1205
)

// IsSpecial reports whether the code names a non-character key.
func (k KeyCode) IsSpecial() bool {
	return k >= 1000
}

// ModMask is a bitmask of held modifier keys.
type ModMask uint8

// Modifier flags.
const (
	ModShift ModMask = 1 << iota
	ModControl
	ModAlt
	ModCommand
)

// Has reports whether all modifiers in mask are held.
func (m ModMask) Has(mask ModMask) bool {
	return m&mask == mask
}

// KeyEvent is a keyboard command: a special key, or a key chord with
// command modifiers. Plain printable input arrives as CharEvent
// instead.
type KeyEvent struct {
	// Code is the key code, or the raw device code if unmapped.
	Code KeyCode

	// Mods is the held modifier set.
	Mods ModMask

	// Ch is the character the key produces, if any.
	Ch string
}

func (KeyEvent) isEvent() {}

// CharEvent is text input: a printable grapheme typed without command
// modifiers, including characters composed through an input method.
type CharEvent struct {
	Ch string
}

func (CharEvent) isEvent() {}

// MouseButton identifies which button an event refers to.
type MouseButton int

// Mouse buttons. ButtonNone marks pure movement.
const (
	ButtonNone   MouseButton = 0
	ButtonLeft   MouseButton = 1
	ButtonMiddle MouseButton = 2
	ButtonRight  MouseButton = 3
)

// MouseEvent is a click or movement in grid coordinates.
type MouseEvent struct {
	Row    int
	Col    int
	Button MouseButton
}

func (MouseEvent) isEvent() {}

// SystemKind classifies a SystemEvent.
type SystemKind int

// System event kinds.
const (
	SystemResize SystemKind = 3000
	SystemClose  SystemKind = 3001
)

// SystemEvent is a window/terminal-level notification.
type SystemEvent struct {
	Kind SystemKind
}

func (SystemEvent) isEvent() {}

// MenuEvent is a native menu-bar selection (desktop backends only).
type MenuEvent struct {
	ItemID string
}

func (MenuEvent) isEvent() {}
