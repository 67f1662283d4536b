package grid

import "testing"

func TestColorTableDefaults(t *testing.T) {
	tbl := NewColorTable()
	p := tbl.Get(0)
	if p.FG != DefaultFG || p.BG != DefaultBG {
		t.Errorf("pair 0 = %v/%v, want %v/%v", p.FG, p.BG, DefaultFG, DefaultBG)
	}
	// Unregistered ids fall back to the default pair.
	if got := tbl.Get(42); got != p {
		t.Errorf("unregistered pair = %v, want default %v", got, p)
	}
}

func TestColorTableSet(t *testing.T) {
	tbl := NewColorTable()
	fg := RGB{R: 200, G: 10, B: 10}
	bg := RGB{R: 0, G: 0, B: 40}
	if err := tbl.Set(5, fg, bg); err != nil {
		t.Fatalf("Set(5): %v", err)
	}
	if got := tbl.Get(5); got.FG != fg || got.BG != bg {
		t.Errorf("Get(5) = %v, want %v/%v", got, fg, bg)
	}
	if !tbl.Registered(5) {
		t.Error("Registered(5) = false after Set")
	}
}

func TestColorTableSetInvalidID(t *testing.T) {
	tbl := NewColorTable()
	if err := tbl.Set(7, RGB{R: 1}, RGB{}); err != nil {
		t.Fatalf("Set(7): %v", err)
	}
	before := tbl.Get(7)
	gen := tbl.Generation()

	for _, id := range []int{0, -1, 256, 300} {
		if err := tbl.Set(id, RGB{}, RGB{}); err == nil {
			t.Errorf("Set(%d) succeeded, want error", id)
		}
	}

	// A rejected Set leaves the table untouched.
	if got := tbl.Get(7); got != before {
		t.Errorf("pair 7 changed after rejected Set: %v != %v", got, before)
	}
	if tbl.Generation() != gen {
		t.Errorf("generation changed after rejected Set: %d != %d", tbl.Generation(), gen)
	}
}

func TestColorTableGeneration(t *testing.T) {
	tbl := NewColorTable()
	g0 := tbl.Generation()
	_ = tbl.Set(1, RGB{R: 9}, RGB{})
	if tbl.Generation() != g0+1 {
		t.Errorf("generation = %d, want %d", tbl.Generation(), g0+1)
	}
	// Re-registering the same id bumps the counter again.
	_ = tbl.Set(1, RGB{R: 10}, RGB{})
	if tbl.Generation() != g0+2 {
		t.Errorf("generation = %d, want %d", tbl.Generation(), g0+2)
	}
}

func TestEffectiveReverse(t *testing.T) {
	tbl := NewColorTable()
	fg := RGB{R: 1, G: 2, B: 3}
	bg := RGB{R: 4, G: 5, B: 6}
	_ = tbl.Set(3, fg, bg)

	p := tbl.Effective(3, AttrNone)
	if p.FG != fg || p.BG != bg {
		t.Errorf("Effective without reverse = %v", p)
	}
	p = tbl.Effective(3, AttrReverse|AttrBold)
	if p.FG != bg || p.BG != fg {
		t.Errorf("Effective with reverse = %v, want swapped", p)
	}
}
