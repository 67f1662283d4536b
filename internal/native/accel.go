package native

import (
	"fmt"
	"image"
	"image/draw"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/tessera-ui/tessera/internal/render"
)

// rasterPainter is the acceleration path: frames are rasterized
// directly into an RGBA buffer with x/image, bypassing per-object
// canvas bookkeeping. Behavior matches the bridge painter for any
// given frame; a panic while painting is reported as an error so the
// backend can fall back.
type rasterPainter struct {
	raster *canvas.Raster
	img    *image.RGBA
	face   font.Face
	ascent int
}

// newRasterPainter parses the bundled monospace face and allocates the
// frame buffer.
func newRasterPainter(width, height float32, fontSize float32) (*rasterPainter, error) {
	src := theme.TextMonospaceFont().Content()
	parsed, err := opentype.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: parse monospace font: %s", render.ErrInvalidFont, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(fontSize),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: build font face: %s", render.ErrInvalidFont, err)
	}

	rp := &rasterPainter{
		img:    image.NewRGBA(image.Rect(0, 0, int(width), int(height))),
		face:   face,
		ascent: face.Metrics().Ascent.Ceil(),
	}
	rp.raster = canvas.NewRaster(func(w, h int) image.Image {
		return rp.img
	})
	return rp, nil
}

// Paint rasterizes one frame. Any panic during the frame is recovered
// and returned as an error.
func (rp *rasterPainter) Paint(f *frame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("raster frame panic: %v", r)
		}
	}()

	if w, h := int(f.width), int(f.height); rp.img.Bounds().Dx() != w || rp.img.Bounds().Dy() != h {
		rp.img = image.NewRGBA(image.Rect(0, 0, w, h))
	}

	for _, bt := range f.batches {
		rp.fill(f, bt)
	}

	for _, pr := range f.runs {
		attrs := pr.Run.Attrs
		src := image.NewUniform(*attrs.Color)
		top := int(f.flipY(pr.Y, f.cellH))
		d := font.Drawer{
			Dst:  rp.img,
			Src:  src,
			Face: rp.face,
			Dot:  fixed.P(int(pr.X), top+rp.ascent),
		}
		d.DrawString(pr.Run.Text)
		if attrs.Face.Style.Bold {
			// The bundled theme ships one monospace weight; emulate
			// bold with a second pass offset by one pixel.
			d.Dot = fixed.P(int(pr.X)+1, top+rp.ascent)
			d.DrawString(pr.Run.Text)
		}
		if attrs.Underline {
			rp.fill(f, RectBatch{
				X: pr.X, Y: pr.Y,
				W: pr.Run.Width, H: underlineThickness,
				BG: *attrs.Color,
			})
		}
	}

	if f.cursor != nil {
		rp.blend(f, *f.cursor)
	}
	if f.caret != nil {
		rp.fill(f, *f.caret)
	}

	fyne.Do(rp.raster.Refresh)
	return nil
}

// fill paints an opaque rectangle.
func (rp *rasterPainter) fill(f *frame, bt RectBatch) {
	draw.Draw(rp.img, rp.deviceRect(f, bt), image.NewUniform(bt.BG), image.Point{}, draw.Src)
}

// blend composites a translucent rectangle over existing content.
func (rp *rasterPainter) blend(f *frame, bt RectBatch) {
	draw.Draw(rp.img, rp.deviceRect(f, bt), image.NewUniform(bt.BG), image.Point{}, draw.Over)
}

func (rp *rasterPainter) deviceRect(f *frame, bt RectBatch) image.Rectangle {
	top := int(f.flipY(bt.Y, bt.H))
	return image.Rect(int(bt.X), top, int(bt.X+bt.W), top+int(bt.H))
}
