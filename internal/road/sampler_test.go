package road

import (
	"image"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomGrid(seed uint64, width, height int) *Grid {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return fillGrid(width, height, func(x, y int) Pixel {
		return Pixel{A: 255, R: uint8(r.IntN(256)), G: uint8(r.IntN(256)), B: uint8(r.IntN(256))}
	})
}

func TestSampleSize(t *testing.T) {
	g := fillGrid(40, 40, func(x, y int) Pixel { return roadGray })
	tests := []struct {
		name   string
		seed   image.Point
		radius int
		want   int
	}{
		{"radius zero", image.Pt(20, 20), 0, 1},
		{"radius one", image.Pt(20, 20), 1, 5},
		{"interior radius five", image.Pt(20, 20), 5, 61},
		{"interior radius fifteen", image.Pt(20, 20), 15, 481},
		{"corner radius five", image.Pt(0, 0), 5, 21},
		{"edge radius two", image.Pt(0, 20), 2, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Sample(g, tt.seed, tt.radius), tt.want)
		})
	}
}

func TestSampleOutOfBounds(t *testing.T) {
	g := NewGrid(10, 10)
	assert.Nil(t, Sample(g, image.Pt(-1, 0), 3))
	assert.Nil(t, Sample(g, image.Pt(10, 5), 3))
}

func TestSampleWeightsExpandingNode(t *testing.T) {
	// Only the seed is white. The seed is recorded once for itself and once
	// for each of the four neighbors it discovers.
	white := Pixel{A: 255, R: 255, G: 255, B: 255}
	g := fillGrid(11, 11, func(x, y int) Pixel {
		if x == 5 && y == 5 {
			return white
		}
		return Pixel{A: 255}
	})

	for _, r := range []int{1, 2, 5} {
		samples := Sample(g, image.Pt(5, 5), r)
		n := 0
		for _, p := range samples {
			if p == white {
				n++
			}
		}
		assert.Equal(t, 5, n, "radius %d", r)
	}

	// Radius-one samples of a pixel hold only that pixel's color, so
	// smoothing with radius one changes nothing.
	for _, p := range Sample(g, image.Pt(3, 3), 1) {
		assert.Equal(t, Pixel{A: 255}, p)
	}
}

func TestSampleReturnsCopy(t *testing.T) {
	g := randomGrid(3, 20, 20)
	a := Sample(g, image.Pt(5, 5), 2)
	b := Sample(g, image.Pt(6, 6), 2)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Sample(g, image.Pt(5, 5), 2))
}

func TestSmoothUniform(t *testing.T) {
	g := fillGrid(30, 20, func(x, y int) Pixel { return skyBlue })
	for _, r := range []int{0, 1, 5} {
		out := Smooth(g, r)
		require.Equal(t, 30, out.Width())
		require.Equal(t, 20, out.Height())
		assert.Equal(t, 30*20, out.Count(skyBlue), "radius %d", r)
	}
}

func TestSmoothLeavesInputAlone(t *testing.T) {
	g := randomGrid(7, 25, 25)
	before := g.Clone()
	out := Smooth(g, 3)
	assert.Equal(t, before, g)
	assert.NotEqual(t, g, out)
	assert.Equal(t, g, Smooth(g, 1), "radius one is the identity")
}

func TestProbePointsAndSeeds(t *testing.T) {
	assert.Equal(t, [2]image.Point{{X: 30, Y: 81}, {X: 90, Y: 81}}, ProbePoints(120, 90))
	assert.Equal(t, [2]image.Point{{X: 40, Y: 86}, {X: 80, Y: 86}}, Seeds(120, 90))

	// Tiny images are clamped to real pixels.
	assert.Equal(t, [2]image.Point{{}, {}}, ProbePoints(1, 1))
	assert.Equal(t, [2]image.Point{{X: 0, Y: 2}, {X: 1, Y: 2}}, Seeds(2, 3))
}

func TestEstimateRoadColorWithinProbedRange(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		g := randomGrid(seed, 64, 48)
		got := EstimateRoadColor(g, 4)

		probes := ProbePoints(64, 48)
		samples := append(Sample(g, probes[0], 4), Sample(g, probes[1], 4)...)
		lo, hi := samples[0], samples[0]
		for _, p := range samples {
			lo = Pixel{R: min(lo.R, p.R), G: min(lo.G, p.G), B: min(lo.B, p.B)}
			hi = Pixel{R: max(hi.R, p.R), G: max(hi.G, p.G), B: max(hi.B, p.B)}
		}
		assert.GreaterOrEqual(t, got.R, lo.R)
		assert.LessOrEqual(t, got.R, hi.R)
		assert.GreaterOrEqual(t, got.G, lo.G)
		assert.LessOrEqual(t, got.G, hi.G)
		assert.GreaterOrEqual(t, got.B, lo.B)
		assert.LessOrEqual(t, got.B, hi.B)
		assert.Equal(t, Average(samples), got)
	}
}

func TestEstimateRoadColorLowerHalf(t *testing.T) {
	g := lowerHalfRoad()
	assert.Equal(t, roadGray, EstimateRoadColor(Smooth(g, 5), 15))
}
