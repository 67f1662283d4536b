package native

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

// Overlay colors for the cursor block and the IME caret.
var (
	cursorColor = color.NRGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xa0}
	caretColor  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// positionedRun is a shaped run placed at a pixel position
// (bottom-left origin).
type positionedRun struct {
	X, Y float32
	Run  *ShapedRun
}

// frame is the output of one render pass: batched background fills,
// placed text runs, and the cursor/caret overlays, all in bottom-left
// pixel coordinates. Painters translate to their device's space.
type frame struct {
	width, height float32
	cellW, cellH  float32

	batches []RectBatch
	runs    []positionedRun
	cursor  *RectBatch
	caret   *RectBatch
}

// flipY converts a bottom-left rect origin to fyne's top-left space.
func (f *frame) flipY(y, h float32) float32 {
	return f.height - y - h
}

// underlineThickness is the height of the drawn underline bar.
const underlineThickness = 1

// bridgePainter draws frames with managed canvas objects. One
// rectangle per batch, one text object per run; the object list is
// rebuilt each frame and swapped into the container in a single
// refresh.
type bridgePainter struct {
	container *fyne.Container
}

func newBridgePainter() *bridgePainter {
	return &bridgePainter{container: container.NewWithoutLayout()}
}

// Paint replaces the container contents with this frame's objects.
// Runs on the render thread; the object swap is marshaled onto the
// fyne thread.
func (bp *bridgePainter) Paint(f *frame) {
	objects := make([]fyne.CanvasObject, 0, len(f.batches)+2*len(f.runs)+2)

	for _, bt := range f.batches {
		rect := canvas.NewRectangle(bt.BG)
		rect.Move(fyne.NewPos(bt.X, f.flipY(bt.Y, bt.H)))
		rect.Resize(fyne.NewSize(bt.W, bt.H))
		objects = append(objects, rect)
	}

	for _, pr := range f.runs {
		attrs := pr.Run.Attrs
		text := canvas.NewText(pr.Run.Text, *attrs.Color)
		text.TextStyle = attrs.Face.Style
		text.TextSize = attrs.Face.Size
		text.Move(fyne.NewPos(pr.X, f.flipY(pr.Y, f.cellH)))
		objects = append(objects, text)

		if attrs.Underline {
			line := canvas.NewRectangle(*attrs.Color)
			line.Move(fyne.NewPos(pr.X, f.flipY(pr.Y, underlineThickness)))
			line.Resize(fyne.NewSize(pr.Run.Width, underlineThickness))
			objects = append(objects, line)
		}
	}

	for _, overlay := range []*RectBatch{f.cursor, f.caret} {
		if overlay == nil {
			continue
		}
		rect := canvas.NewRectangle(overlay.BG)
		rect.Move(fyne.NewPos(overlay.X, f.flipY(overlay.Y, overlay.H)))
		rect.Resize(fyne.NewSize(overlay.W, overlay.H))
		objects = append(objects, rect)
	}

	fyne.Do(func() {
		bp.container.Objects = objects
		bp.container.Refresh()
	})
}
