package road

import "image"

// ProbePoints returns the two locations sampled for the road color: a tenth of
// the height above the bottom edge, on the left and right quarter lines.
// Points are clamped into the image so tiny inputs still probe real pixels.
func ProbePoints(width, height int) [2]image.Point {
	y := height - height/10
	return [2]image.Point{
		clampPoint(width/4, y, width, height),
		clampPoint(3*(width/4), y, width, height),
	}
}

// Seeds returns the two flood-fill origins: a twentieth of the height above
// the bottom edge, on the one-third and two-thirds lines. Two seeds let the
// fill reach both sides of a painted center line.
func Seeds(width, height int) [2]image.Point {
	y := height - height/20
	return [2]image.Point{
		clampPoint(width/3, y, width, height),
		clampPoint(2*width/3, y, width, height),
	}
}

// EstimateRoadColor averages the samples taken at both ProbePoints of the
// smoothed grid.
func EstimateRoadColor(g *Grid, radius int) Pixel {
	probes := ProbePoints(g.width, g.height)
	s := newSampler(radius)
	samples := append([]Pixel(nil), s.sample(g, probes[0])...)
	samples = append(samples, s.sample(g, probes[1])...)
	return Average(samples)
}

func clampPoint(x, y, width, height int) image.Point {
	return image.Point{
		X: min(max(x, 0), max(width-1, 0)),
		Y: min(max(y, 0), max(height-1, 0)),
	}
}
