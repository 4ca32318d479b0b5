package road

import (
	"fmt"
	"image/color"
	"math"
)

// Pixel is one color sample with 8-bit alpha, red, green and blue channels.
// Pixels are plain values and compare channel-wise with ==.
type Pixel struct {
	A uint8 `json:"a"`
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Sentinel marks road pixels in the working grid when labels run in
// LabelSentinel mode. Opaque magenta.
var Sentinel = Pixel{A: 255, R: 255, G: 0, B: 255}

// PixelFromColor converts any color to a non-premultiplied Pixel.
func PixelFromColor(c color.Color) Pixel {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Pixel{A: n.A, R: n.R, G: n.G, B: n.B}
}

// NRGBA returns p as a standard library color.
func (p Pixel) NRGBA() color.NRGBA {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

func (p Pixel) String() string {
	return fmt.Sprintf("[A: %d, R: %d, G: %d, B: %d]", p.A, p.R, p.G, p.B)
}

// Closest returns the option nearest to p by RGBDistance. Ties keep the
// earlier option. ok is false when options is empty.
func (p Pixel) Closest(options []Pixel) (best Pixel, ok bool) {
	if len(options) == 0 {
		return Pixel{}, false
	}
	best = options[0]
	dist := RGBDistance(p, best)
	for _, o := range options[1:] {
		if d := RGBDistance(p, o); d < dist {
			best, dist = o, d
		}
	}
	return best, true
}

// Average returns the channel-wise mean of pixels, each channel floored
// independently. An empty slice averages to the zero Pixel.
func Average(pixels []Pixel) Pixel {
	n := len(pixels)
	if n == 0 {
		return Pixel{}
	}
	var a, r, g, b int
	for _, p := range pixels {
		a += int(p.A)
		r += int(p.R)
		g += int(p.G)
		b += int(p.B)
	}
	return Pixel{A: uint8(a / n), R: uint8(r / n), G: uint8(g / n), B: uint8(b / n)}
}

// RGBDistance is the Euclidean distance between p1 and p2 in RGB space.
// Alpha is ignored.
func RGBDistance(p1, p2 Pixel) float64 {
	dr := float64(p1.R) - float64(p2.R)
	dg := float64(p1.G) - float64(p2.G)
	db := float64(p1.B) - float64(p2.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// ShadeDistance compares hue and chroma only: each pixel has its own minimum
// channel subtracted before RGBDistance is taken, so two pixels that differ
// only in brightness are at distance zero.
func ShadeDistance(p1, p2 Pixel) float64 {
	return RGBDistance(p1.chroma(), p2.chroma())
}

func (p Pixel) chroma() Pixel {
	m := min(p.R, p.G, p.B)
	return Pixel{A: p.A, R: p.R - m, G: p.G - m, B: p.B - m}
}
