package imaging

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"
)

// Annotator draws waypoint markers onto a private copy of an image.
//
// The source image is never modified. Drawing errors do not interrupt
// marking; the first one is kept and reported by Err.
type Annotator struct {
	dc     *gg.Context
	color  color.Color
	radius float64
	err    error
}

// NewAnnotator copies img into a drawing context. Marks are filled circles of
// the given color and radius.
func NewAnnotator(img image.Image, c color.Color, radius float64) *Annotator {
	return &Annotator{
		dc:     gg.NewContextForImage(img),
		color:  c,
		radius: radius,
	}
}

// Mark draws a filled circle centered at (x, y).
func (a *Annotator) Mark(x, y int) {
	a.dc.SetColor(a.color)
	a.dc.DrawCircle(float64(x), float64(y), a.radius)
	a.keep(a.dc.Fill())
}

// Path strokes a polyline through points.
func (a *Annotator) Path(points []image.Point, c color.Color, width float64) {
	if len(points) < 2 {
		return
	}
	a.dc.SetColor(c)
	a.dc.SetLineWidth(width)
	a.dc.MoveTo(float64(points[0].X), float64(points[0].Y))
	for _, p := range points[1:] {
		a.dc.LineTo(float64(p.X), float64(p.Y))
	}
	a.keep(a.dc.Stroke())
}

// Image returns the annotated copy. Shapes still queued on a GPU accelerator
// are flushed first; a flush failure is reported by Err.
func (a *Annotator) Image() image.Image {
	a.keep(a.dc.FlushGPU())
	return a.dc.Image()
}

// Err returns the first drawing error, if any.
func (a *Annotator) Err() error {
	return a.err
}

// Close releases the drawing context.
func (a *Annotator) Close() error {
	return a.dc.Close()
}

func (a *Annotator) keep(err error) {
	if a.err == nil {
		a.err = err
	}
}
