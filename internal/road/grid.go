package road

import (
	"image"

	"github.com/disintegration/imaging"
)

// Grid is a fixed-size, row-major array of pixels. The dimensions never change
// after construction.
type Grid struct {
	width, height int
	pix           []Pixel
}

// Position is a grid coordinate plus the hop count from the origin of the
// traversal that reached it. Dist is bookkeeping only; two positions with the
// same X and Y are the same place.
type Position struct {
	X, Y int
	Dist int
}

// NewGrid allocates a width×height grid of zero pixels. Negative dimensions
// are treated as zero.
func NewGrid(width, height int) *Grid {
	width, height = max(width, 0), max(height, 0)
	return &Grid{width: width, height: height, pix: make([]Pixel, width*height)}
}

// GridFromImage copies img into a new grid. The image's bounds are shifted so
// the grid always starts at (0,0).
func GridFromImage(img image.Image) *Grid {
	src := imaging.Clone(img)
	b := src.Bounds()
	g := NewGrid(b.Dx(), b.Dy())
	for y := 0; y < g.height; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < g.width; x++ {
			c := row[x*4 : x*4+4]
			g.pix[y*g.width+x] = Pixel{R: c[0], G: c[1], B: c[2], A: c[3]}
		}
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// In reports whether (x, y) lies inside the grid.
func (g *Grid) In(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the pixel at (x, y). The caller must check In first.
func (g *Grid) At(x, y int) Pixel {
	return g.pix[y*g.width+x]
}

// Set overwrites the pixel at (x, y). The caller must check In first.
func (g *Grid) Set(x, y int, p Pixel) {
	g.pix[y*g.width+x] = p
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{width: g.width, height: g.height, pix: make([]Pixel, len(g.pix))}
	copy(c.pix, g.pix)
	return c
}

// Count returns how many pixels equal p.
func (g *Grid) Count(p Pixel) int {
	n := 0
	for _, q := range g.pix {
		if q == p {
			n++
		}
	}
	return n
}

// Image renders g as a non-premultiplied RGBA image.
func (g *Grid) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.width, g.height))
	for i, p := range g.pix {
		img.Pix[i*4+0] = p.R
		img.Pix[i*4+1] = p.G
		img.Pix[i*4+2] = p.B
		img.Pix[i*4+3] = p.A
	}
	return img
}
