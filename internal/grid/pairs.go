package grid

import "fmt"

// MaxPairs is the number of color-pair slots, including the reserved
// default slot 0.
const MaxPairs = 256

// ColorTable maps color-pair ids to foreground/background colors.
//
// Slot 0 is reserved and always holds the default pair (white on
// black). Ids 1-255 are caller-registered. Re-registering an id
// overwrites it and bumps the generation counter so caches keyed on
// pair ids can detect the change.
//
// The table is owned by a single backend instance and is not safe for
// concurrent use.
type ColorTable struct {
	pairs      [MaxPairs]Pair
	registered [MaxPairs]bool
	generation uint64
}

// NewColorTable returns a table with only the default pair present.
func NewColorTable() *ColorTable {
	t := &ColorTable{}
	t.pairs[0] = Pair{FG: DefaultFG, BG: DefaultBG}
	t.registered[0] = true
	return t
}

// Set registers or overwrites the pair for id. Id must be in [1, 255];
// slot 0 is not assignable. On error the table is left unchanged.
func (t *ColorTable) Set(id int, fg, bg RGB) error {
	if id < 1 || id >= MaxPairs {
		return fmt.Errorf("color pair id %d out of range [1, %d]", id, MaxPairs-1)
	}
	t.pairs[id] = Pair{FG: fg, BG: bg}
	t.registered[id] = true
	t.generation++
	return nil
}

// Get returns the pair for id. Unregistered ids fall back to the
// default pair, so draw calls with a stale id degrade visibly rather
// than failing.
func (t *ColorTable) Get(id uint8) Pair {
	if !t.registered[id] {
		return t.pairs[0]
	}
	return t.pairs[id]
}

// Registered reports whether id has been explicitly set (or is the
// default slot).
func (t *ColorTable) Registered(id uint8) bool {
	return t.registered[id]
}

// Generation returns a counter that increments on every successful Set.
func (t *ColorTable) Generation() uint64 {
	return t.generation
}

// Effective returns the pair for a cell with REVERSE applied: the
// foreground and background swap when the attribute is set.
func (t *ColorTable) Effective(id uint8, attrs Attr) Pair {
	p := t.Get(id)
	if attrs.Has(AttrReverse) {
		p.FG, p.BG = p.BG, p.FG
	}
	return p
}
