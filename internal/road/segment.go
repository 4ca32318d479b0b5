package road

import (
	"fmt"
	"image"
	"strings"
)

// Thresholds are the base distances of the three acceptance criteria. Each is
// multiplied by the attempt's strength before use, so every criterion loosens
// as strength grows.
type Thresholds struct {
	// Color accepts anything this close to the road color.
	Color float64 `toml:"color"`
	// Gradient and Step together accept a pixel within Gradient of the road
	// color that is also within Step of the pixel it was reached from.
	Gradient float64 `toml:"gradient"`
	Step     float64 `toml:"step"`
	// Shade and ShadeColor together accept a pixel whose hue matches the road
	// within Shade while staying within ShadeColor in plain RGB distance.
	Shade      float64 `toml:"shade"`
	ShadeColor float64 `toml:"shade_color"`
}

// DefaultThresholds returns the tuned base distances: 25, 35, 1, 10 and 600.
func DefaultThresholds() Thresholds {
	return Thresholds{Color: 25, Gradient: 35, Step: 1, Shade: 10, ShadeColor: 600}
}

// Accepts reports whether candidate belongs to the road. prev is the
// pre-growth color of the pixel candidate was reached from.
func (t Thresholds) Accepts(candidate, ref, prev Pixel, strength float64) bool {
	d := RGBDistance(candidate, ref)
	if d < t.Color*strength {
		return true
	}
	if d < t.Gradient*strength && RGBDistance(candidate, prev) < t.Step*strength {
		return true
	}
	return ShadeDistance(candidate, ref) < t.Shade*strength && d < t.ShadeColor*strength
}

// LabelMode selects how road pixels are recorded.
type LabelMode int

const (
	// LabelPlane keeps labels in a boolean plane and leaves pixel colors alone.
	LabelPlane LabelMode = iota
	// LabelSentinel paints Sentinel into the working grid and treats every
	// Sentinel-colored pixel as labeled.
	LabelSentinel
)

func (m LabelMode) String() string {
	switch m {
	case LabelPlane:
		return "plane"
	case LabelSentinel:
		return "sentinel"
	default:
		return fmt.Sprintf("LabelMode(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m LabelMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *LabelMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "plane", "":
		*m = LabelPlane
	case "sentinel":
		*m = LabelSentinel
	default:
		return fmt.Errorf("unknown label mode %q", text)
	}
	return nil
}

// Session is the mutable state shared by both seed fills of one attempt: the
// working grid, the labels and the visited set. Fills from different seeds
// see each other's work, so the order of Grow calls matters.
type Session struct {
	grid        *Grid
	labels      []bool
	visited     []bool
	mode        LabelMode
	thresholds  Thresholds
	minStrength float64
}

// NewSession takes ownership of working. The grid must not be modified by the
// caller afterwards.
func NewSession(working *Grid, cfg Config) *Session {
	n := working.width * working.height
	return &Session{
		grid:        working,
		labels:      make([]bool, n),
		visited:     make([]bool, n),
		mode:        cfg.LabelMode,
		thresholds:  cfg.Thresholds,
		minStrength: cfg.MinStrength,
	}
}

func (s *Session) Width() int  { return s.grid.width }
func (s *Session) Height() int { return s.grid.height }

// Grid returns the working grid. In sentinel mode it carries the labels.
func (s *Session) Grid() *Grid { return s.grid }

// Labeled reports whether (x, y) is classified as road.
func (s *Session) Labeled(x, y int) bool {
	if !s.grid.In(x, y) {
		return false
	}
	if s.mode == LabelSentinel {
		return s.grid.At(x, y) == Sentinel
	}
	return s.labels[y*s.grid.width+x]
}

// Visited reports whether a fill in the current attempt reached (x, y).
func (s *Session) Visited(x, y int) bool {
	return s.grid.In(x, y) && s.visited[y*s.grid.width+x]
}

// LabeledCount returns the number of labeled positions.
func (s *Session) LabeledCount() int {
	if s.mode == LabelSentinel {
		return s.grid.Count(Sentinel)
	}
	n := 0
	for _, l := range s.labels {
		if l {
			n++
		}
	}
	return n
}

// Coverage returns the labeled fraction of the grid, 0 for an empty grid.
func (s *Session) Coverage() float64 {
	total := len(s.labels)
	if total == 0 {
		return 0
	}
	return float64(s.LabeledCount()) / float64(total)
}

// ResetVisited forgets every visited position.
func (s *Session) ResetVisited() {
	clear(s.visited)
}

// SessionState is a rollback point taken with Snapshot.
type SessionState struct {
	pix    []Pixel
	labels []bool
}

// Snapshot copies the grid and the labels.
func (s *Session) Snapshot() SessionState {
	st := SessionState{labels: append([]bool(nil), s.labels...)}
	if s.mode == LabelSentinel {
		st.pix = append([]Pixel(nil), s.grid.pix...)
	}
	return st
}

// Restore rolls the grid and labels back to st.
func (s *Session) Restore(st SessionState) {
	copy(s.labels, st.labels)
	if st.pix != nil {
		copy(s.grid.pix, st.pix)
	}
}

// LabeledImage renders the working grid with every labeled pixel painted in
// Sentinel.
func (s *Session) LabeledImage() image.Image {
	if s.mode == LabelSentinel {
		return s.grid.Image()
	}
	g := s.grid.Clone()
	for i, l := range s.labels {
		if l {
			g.pix[i] = Sentinel
		}
	}
	return g.Image()
}

func (s *Session) label(i int) {
	s.labels[i] = true
	s.visited[i] = true
	if s.mode == LabelSentinel {
		s.grid.pix[i] = Sentinel
	}
}

// Grow flood-fills from seed, labeling every reachable neighbor that
// Thresholds.Accepts at the given strength against ref. The seed is labeled
// unconditionally. It returns the number of positions labeled by this call.
//
// Candidates are read from the live grid; the "reached from" color comes from
// a copy taken when Grow starts, so in sentinel mode a second Grow in the same
// attempt sees what the first one painted.
//
// A strength below the session minimum returns ErrCriticalFailure and changes
// nothing.
func (s *Session) Grow(seed image.Point, ref Pixel, strength float64) (int, error) {
	if strength < s.minStrength {
		return 0, fmt.Errorf("%w: strength %.2f below %.2f", ErrCriticalFailure, strength, s.minStrength)
	}
	if !s.grid.In(seed.X, seed.Y) {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrSeedOutOfBounds, seed.X, seed.Y, s.grid.width, s.grid.height)
	}

	// Plane mode never writes pixels, so the grid is its own snapshot.
	before := s.grid
	if s.mode == LabelSentinel {
		before = s.grid.Clone()
	}

	w := s.grid.width
	s.label(seed.Y*w + seed.X)
	grown := 1

	queue := []image.Point{seed}
	for qi := 0; qi < len(queue); qi++ {
		cur := queue[qi]
		prev := before.At(cur.X, cur.Y)
		for _, d := range neighbors {
			nx, ny := cur.X+d.X, cur.Y+d.Y
			if !s.grid.In(nx, ny) {
				continue
			}
			ni := ny*w + nx
			if s.visited[ni] || !s.thresholds.Accepts(s.grid.pix[ni], ref, prev, strength) {
				continue
			}
			s.label(ni)
			grown++
			queue = append(queue, image.Point{X: nx, Y: ny})
		}
	}
	return grown, nil
}
