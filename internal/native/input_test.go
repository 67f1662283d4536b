package native

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

func TestGridAreaLayoutReportsSizeChange(t *testing.T) {
	var calls int
	area := newGridArea(canvas.NewRectangle(color.Black), nil, func() { calls++ })
	area.lastSize = fyne.NewSize(800, 480)
	r := area.CreateRenderer().(*gridAreaRenderer)

	// Laying out at the known size is not a resize.
	r.Layout(fyne.NewSize(800, 480))
	if calls != 0 {
		t.Errorf("calls = %d after unchanged layout, want 0", calls)
	}

	r.Layout(fyne.NewSize(900, 480))
	if calls != 1 {
		t.Errorf("calls = %d after resize, want 1", calls)
	}

	// Repeating the same size stays quiet.
	r.Layout(fyne.NewSize(900, 480))
	if calls != 1 {
		t.Errorf("calls = %d after repeat layout, want 1", calls)
	}
}
