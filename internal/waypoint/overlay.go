package waypoint

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ironsheep/road-finder/internal/imaging"
	"github.com/ironsheep/road-finder/internal/road"
)

// PathColor is the color of the centerline drawn by Overlay.
var PathColor = color.NRGBA{G: 255, A: 255}

// Overlay strokes the polyline through points onto a copy of img, two pixels
// wide in PathColor. Fewer than two points return img itself.
func Overlay(img image.Image, points []road.Point) (image.Image, error) {
	if len(points) < 2 {
		return img, nil
	}
	a := imaging.NewAnnotator(img, PathColor, 0)
	defer a.Close()
	pts := make([]image.Point, len(points))
	for i, p := range points {
		pts[i] = p.ImagePoint()
	}
	a.Path(pts, PathColor, 2)
	out := a.Image()
	if err := a.Err(); err != nil {
		return nil, fmt.Errorf("failed to draw centerline: %w", err)
	}
	return out, nil
}

// Annotate returns the image both front ends save: the marked frame, with the
// simplified centerline drawn over it when simplification is enabled.
func Annotate(marked image.Image, simplified []road.Point, tolerance float64) (image.Image, error) {
	if tolerance <= 0 {
		return marked, nil
	}
	return Overlay(marked, simplified)
}
