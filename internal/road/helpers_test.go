package road

import "image"

var (
	roadGray  = Pixel{A: 255, R: 100, G: 100, B: 100}
	skyBlue   = Pixel{A: 255, R: 40, G: 120, B: 230}
	wallGreen = Pixel{A: 255, R: 0, G: 200, B: 0}
)

// fillGrid builds a grid whose pixel colors come from fill.
func fillGrid(width, height int, fill func(x, y int) Pixel) *Grid {
	g := NewGrid(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.Set(x, y, fill(x, y))
		}
	}
	return g
}

// lowerHalfRoad is 120x90 with road from y=45 down.
func lowerHalfRoad() *Grid {
	return fillGrid(120, 90, func(x, y int) Pixel {
		if y >= 45 {
			return roadGray
		}
		return skyBlue
	})
}

// wideningRoad is 60x60: road 40 pixels wide below y=40 between green walls,
// the full 60 pixels above. Every extraction on it reports a leak.
func wideningRoad() *Grid {
	return fillGrid(60, 60, func(x, y int) Pixel {
		if y >= 40 && (x < 10 || x > 49) {
			return wallGreen
		}
		return roadGray
	})
}

// wideningConfig makes the probes and smoothing fit inside wideningRoad's walls.
func wideningConfig() Config {
	cfg := DefaultConfig()
	cfg.SmoothRadius = 1
	cfg.ProbeRadius = 3
	return cfg
}

// recordingMarker remembers every mark.
type recordingMarker struct {
	marks []image.Point
}

func (m *recordingMarker) Mark(x, y int) {
	m.marks = append(m.marks, image.Point{X: x, Y: y})
}
