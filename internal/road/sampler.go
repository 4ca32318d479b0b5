package road

import "image"

// neighbors lists the 4-connected step offsets in traversal order.
var neighbors = [4]image.Point{{X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 0}, {X: -1, Y: 0}}

// Sample gathers the colors around seed, breadth-first over 4-adjacency, out to
// radius hops. Positions outside the grid are never visited and no position is
// visited twice.
//
// The seed's color is included once. After that, each newly discovered
// neighbor appends the color of the node being expanded, not the neighbor's
// own color. A node with k fresh neighbors therefore contributes k copies of
// itself, and nodes on the radius boundary contribute none. The retry
// thresholds were tuned against this weighting, so it is kept as is.
//
// For a seed at least radius pixels from every edge the result holds exactly
// 2r²+2r+1 colors. A seed outside the grid yields nil.
func Sample(g *Grid, seed image.Point, radius int) []Pixel {
	s := newSampler(radius)
	out := s.sample(g, seed)
	if out == nil {
		return nil
	}
	return append([]Pixel(nil), out...)
}

// sampler holds scratch space for repeated Sample calls with one radius. The
// visited set is a (2r+1)² window around the current seed, cleared by bumping
// a generation stamp instead of reallocating.
type sampler struct {
	radius int
	side   int
	stamp  uint32
	seen   []uint32
	queue  []Position
	out    []Pixel
}

func newSampler(radius int) *sampler {
	radius = max(radius, 0)
	side := 2*radius + 1
	return &sampler{radius: radius, side: side, seen: make([]uint32, side*side)}
}

// visit marks (x, y) as seen for the current seed and reports whether it was
// new. (x, y) must be within radius hops of seed.
func (s *sampler) visit(seed image.Point, x, y int) bool {
	i := (y-seed.Y+s.radius)*s.side + (x - seed.X + s.radius)
	if s.seen[i] == s.stamp {
		return false
	}
	s.seen[i] = s.stamp
	return true
}

// sample returns a slice that is only valid until the next call.
func (s *sampler) sample(g *Grid, seed image.Point) []Pixel {
	if !g.In(seed.X, seed.Y) {
		return nil
	}
	s.stamp++
	if s.stamp == 0 {
		clear(s.seen)
		s.stamp = 1
	}

	s.queue = append(s.queue[:0], Position{X: seed.X, Y: seed.Y})
	s.out = append(s.out[:0], g.At(seed.X, seed.Y))
	s.visit(seed, seed.X, seed.Y)

	for qi := 0; qi < len(s.queue); qi++ {
		cur := s.queue[qi]
		if cur.Dist+1 > s.radius {
			continue
		}
		for _, d := range neighbors {
			nx, ny := cur.X+d.X, cur.Y+d.Y
			if !g.In(nx, ny) || !s.visit(seed, nx, ny) {
				continue
			}
			s.queue = append(s.queue, Position{X: nx, Y: ny, Dist: cur.Dist + 1})
			s.out = append(s.out, g.At(cur.X, cur.Y))
		}
	}
	return s.out
}
