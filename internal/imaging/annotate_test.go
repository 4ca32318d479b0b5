package imaging

import (
	"image"
	"image/color"
	"testing"
)

func rgb8(c color.Color) (uint32, uint32, uint32) {
	r, g, b, _ := c.RGBA()
	return r >> 8, g >> 8, b >> 8
}

func TestAnnotator_Mark(t *testing.T) {
	src := createInMemoryImage(40, 40, color.RGBA{255, 255, 255, 255})
	a := NewAnnotator(src, color.NRGBA{R: 255, A: 255}, 3)
	defer a.Close()

	a.Mark(20, 20)
	if err := a.Err(); err != nil {
		t.Fatalf("Mark failed: %v", err)
	}

	out := a.Image()
	if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 40 {
		t.Fatalf("bounds: got %v", out.Bounds())
	}
	if r, g, b := rgb8(out.At(20, 20)); r < 240 || g > 15 || b > 15 {
		t.Errorf("marker center: got (%d,%d,%d), want red", r, g, b)
	}
	if r, g, b := rgb8(out.At(2, 2)); r != 255 || g != 255 || b != 255 {
		t.Errorf("far pixel: got (%d,%d,%d), want white", r, g, b)
	}
	// The source image is never drawn on.
	if r, g, b := rgb8(src.At(20, 20)); r != 255 || g != 255 || b != 255 {
		t.Errorf("source modified: got (%d,%d,%d)", r, g, b)
	}
}

func TestAnnotator_Path(t *testing.T) {
	src := createInMemoryImage(40, 40, color.RGBA{0, 0, 0, 255})
	a := NewAnnotator(src, color.NRGBA{R: 255, A: 255}, 3)
	defer a.Close()

	a.Path([]image.Point{{X: 20, Y: 38}}, color.NRGBA{G: 255, A: 255}, 4)
	if r, g, b := rgb8(a.Image().At(20, 30)); r != 0 || g != 0 || b != 0 {
		t.Errorf("single point path drew (%d,%d,%d)", r, g, b)
	}

	a.Path([]image.Point{{X: 20, Y: 38}, {X: 20, Y: 2}}, color.NRGBA{G: 255, A: 255}, 4)
	if err := a.Err(); err != nil {
		t.Fatalf("Path failed: %v", err)
	}
	if r, g, _ := rgb8(a.Image().At(20, 20)); g < 200 || r > 15 {
		t.Errorf("path pixel: got r=%d g=%d, want green", r, g)
	}
	if _, g, _ := rgb8(a.Image().At(5, 20)); g != 0 {
		t.Errorf("pixel off the path: got g=%d, want 0", g)
	}
}
