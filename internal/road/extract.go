package road

import (
	"fmt"
	"image"
	"math"
)

// Point is one centerline sample.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// ImagePoint converts p to an image.Point.
func (p Point) ImagePoint() image.Point {
	return image.Point{X: p.X, Y: p.Y}
}

// Labels is a read-only view of a labeled grid.
type Labels interface {
	Width() int
	Height() int
	Labeled(x, y int) bool
}

// Marker draws a point marker centered at (x, y).
type Marker interface {
	Mark(x, y int)
}

// ExtractConfig tunes the scanline extractor.
type ExtractConfig struct {
	// ScanRows is the number of evenly spaced rows scanned.
	ScanRows int `toml:"scan_rows"`
	// MinRowCoverage is the labeled-pixel count a row must exceed to yield a
	// point.
	MinRowCoverage int `toml:"min_row_coverage"`
	// GrowthTolerance is the fraction by which a row may exceed the row below
	// it before the fill is considered to have leaked.
	GrowthTolerance float64 `toml:"growth_tolerance"`
}

// DefaultExtractConfig scans 30 rows, needs more than 100 labeled pixels per
// point and tolerates 10% growth between rows.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{ScanRows: 30, MinRowCoverage: 100, GrowthTolerance: 0.10}
}

// Extraction is the extractor result. OK is false when runaway growth was
// detected, in which case Points is nil and AnomalyRow names the offending
// row. A successful extraction may still hold zero points.
type Extraction struct {
	OK         bool
	Points     []Point
	AnomalyRow int
}

// ExtractPoints scans labels from the bottom row upward in steps of
// height/ScanRows and derives one centerline point per row from the mean x of
// its labeled pixels. Each point is passed to marker, which may be nil.
//
// Road width should not grow sharply moving away from the camera. A row whose
// count exceeds the previous scanned row's by more than GrowthTolerance fails
// the whole extraction. Rows with MinRowCoverage or fewer labeled pixels are
// skipped but still become the baseline for the next comparison.
func ExtractPoints(labels Labels, marker Marker, cfg ExtractConfig) Extraction {
	if cfg.ScanRows <= 0 {
		cfg.ScanRows = DefaultExtractConfig().ScanRows
	}
	w, h := labels.Width(), labels.Height()
	skip := max(h/cfg.ScanRows, 1)

	var points []Point
	last := math.MaxInt
	scanned := 0
	for y := h - skip; y > 0 && scanned < cfg.ScanRows; y -= skip {
		scanned++
		hits, xsum := 0, 0
		for x := 0; x < w; x++ {
			if labels.Labeled(x, y) {
				hits++
				xsum += x
			}
		}
		if float64(hits)-cfg.GrowthTolerance*float64(last) > float64(last) {
			return Extraction{AnomalyRow: y}
		}
		last = hits
		if hits <= cfg.MinRowCoverage {
			continue
		}
		p := Point{X: xsum / hits, Y: y}
		points = append(points, p)
		if marker != nil {
			marker.Mark(p.X, p.Y)
		}
	}
	return Extraction{OK: true, Points: points, AnomalyRow: -1}
}
