package waypoint

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"github.com/ironsheep/road-finder/internal/road"
)

// Simplify drops points that lie within tolerance pixels of the polyline
// through their neighbors (Douglas-Peucker). The first and last points are
// always kept and order is preserved. A non-positive tolerance, or two or
// fewer points, returns a copy of points.
func Simplify(points []road.Point, tolerance float64) []road.Point {
	if len(points) <= 2 || tolerance <= 0 {
		return append([]road.Point(nil), points...)
	}

	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{float64(p.X), float64(p.Y)}
	}
	reduced := simplify.DouglasPeucker(tolerance).Simplify(ls.Clone()).(orb.LineString)

	out := make([]road.Point, len(reduced))
	for i, p := range reduced {
		out[i] = road.Point{X: int(math.Round(p.X())), Y: int(math.Round(p.Y()))}
	}
	return out
}
