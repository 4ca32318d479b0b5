package road

import "image"

// Smooth denoises g by replacing every pixel with the Average of its Sample at
// the given radius. g is left untouched; the result is a new grid of the same
// size.
func Smooth(g *Grid, radius int) *Grid {
	out := NewGrid(g.width, g.height)
	s := newSampler(radius)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			out.pix[y*g.width+x] = Average(s.sample(g, image.Point{X: x, Y: y}))
		}
	}
	return out
}
