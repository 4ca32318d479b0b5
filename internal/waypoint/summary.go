package waypoint

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/road-finder/internal/road"
)

// Summary describes a centerline relative to the image.
type Summary struct {
	// Count is the number of points summarized.
	Count int `json:"count"`
	// MeanX is the average column of the points.
	MeanX float64 `json:"mean_x"`
	// LateralOffset is MeanX relative to the image center, scaled to [-1, 1].
	// Negative means the road lies to the left.
	LateralOffset float64 `json:"lateral_offset"`
	// Slope is the fitted change in x per pixel moving up the image.
	Slope float64 `json:"slope"`
	// HeadingDegrees is Slope as an angle from straight ahead; positive bends
	// right.
	HeadingDegrees float64 `json:"heading_degrees"`
	// StdDevX is the sample standard deviation of the x values.
	StdDevX float64 `json:"stddev_x"`
	// Straight reports whether StdDevX is within the requested tolerance.
	Straight bool `json:"straight"`
}

// Summarize fits a line through points, which must come from an image of the
// given width. Fewer than two points give a zero slope and deviation.
func Summarize(points []road.Point, width int, tolerance float64) Summary {
	s := Summary{Count: len(points), Straight: true}
	if len(points) == 0 {
		return s
	}

	xs := make([]float64, len(points))
	forward := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.X)
		forward[i] = float64(points[0].Y - p.Y)
	}

	s.MeanX = stat.Mean(xs, nil)
	if center := float64(width-1) / 2; center > 0 {
		s.LateralOffset = math.Max(-1, math.Min(1, (s.MeanX-center)/center))
	}
	if len(points) < 2 {
		return s
	}

	_, beta := stat.LinearRegression(forward, xs, nil, false)
	s.Slope = beta
	s.HeadingDegrees = math.Atan(beta) * 180 / math.Pi
	s.StdDevX = stat.StdDev(xs, nil)
	s.Straight = s.StdDevX <= tolerance
	return s
}
