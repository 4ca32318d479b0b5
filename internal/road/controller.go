package road

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/ironsheep/road-finder/internal/imaging"
)

// Config holds every tunable of the segmentation pipeline.
type Config struct {
	// MaxAttempts bounds the retry loop.
	MaxAttempts int `toml:"max_attempts"`
	// InitialStrength is the strength of the first attempt.
	InitialStrength float64 `toml:"initial_strength"`
	// StrengthStep is added or subtracted between attempts.
	StrengthStep float64 `toml:"strength_step"`
	// MinStrength is the floor below which growth is a critical failure.
	MinStrength float64 `toml:"min_strength"`
	// CoverageLimit is the labeled fraction above which a failed attempt is
	// treated as over-growth and the strength lowered.
	CoverageLimit float64 `toml:"coverage_limit"`

	SmoothRadius int           `toml:"smooth_radius"`
	ProbeRadius  int           `toml:"probe_radius"`
	Thresholds   Thresholds    `toml:"thresholds"`
	Extract      ExtractConfig `toml:"extract"`
	LabelMode    LabelMode     `toml:"label_mode"`

	MarkerRadius float64     `toml:"marker_radius"`
	MarkerColor  color.NRGBA `toml:"-"`

	// Verbose raises attempt progress from Debug to Info.
	Verbose bool `toml:"verbose"`
	// DebugLabelsPath, when set, receives a PNG of the labeled working grid
	// of the successful attempt.
	DebugLabelsPath string `toml:"debug_labels_path"`

	// Canvas creates the annotation surface for each attempt. Nil uses an
	// imaging.Annotator.
	Canvas CanvasFactory `toml:"-"`
}

// DefaultConfig returns the tuned defaults: 8 attempts from strength 1.0 in
// steps of 0.1, a 0.2 floor, smoothing radius 5, probe radius 15 and red
// markers of radius 5.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     8,
		InitialStrength: 1.0,
		StrengthStep:    0.1,
		MinStrength:     0.2,
		CoverageLimit:   0.5,
		SmoothRadius:    5,
		ProbeRadius:     15,
		Thresholds:      DefaultThresholds(),
		Extract:         DefaultExtractConfig(),
		LabelMode:       LabelPlane,
		MarkerRadius:    5,
		MarkerColor:     color.NRGBA{R: 255, A: 255},
	}
}

// Validate reports the first setting that would make Process misbehave.
func (c Config) Validate() error {
	switch {
	case c.MaxAttempts < 1:
		return fmt.Errorf("%w: max_attempts must be at least 1, got %d", ErrInvalidConfig, c.MaxAttempts)
	case c.StrengthStep <= 0:
		return fmt.Errorf("%w: strength_step must be positive, got %g", ErrInvalidConfig, c.StrengthStep)
	case c.InitialStrength <= 0:
		return fmt.Errorf("%w: initial_strength must be positive, got %g", ErrInvalidConfig, c.InitialStrength)
	case c.CoverageLimit <= 0 || c.CoverageLimit > 1:
		return fmt.Errorf("%w: coverage_limit must be in (0,1], got %g", ErrInvalidConfig, c.CoverageLimit)
	case c.SmoothRadius < 0 || c.ProbeRadius < 0:
		return fmt.Errorf("%w: radii must not be negative", ErrInvalidConfig)
	case c.Extract.ScanRows < 1:
		return fmt.Errorf("%w: scan_rows must be at least 1, got %d", ErrInvalidConfig, c.Extract.ScanRows)
	case c.Extract.MinRowCoverage < 0 || c.Extract.GrowthTolerance < 0:
		return fmt.Errorf("%w: extract limits must not be negative", ErrInvalidConfig)
	case c.MarkerRadius < 0:
		return fmt.Errorf("%w: marker_radius must not be negative", ErrInvalidConfig)
	}
	return nil
}

// NextStrength derives the following attempt's strength from a failed one.
// Coverage above CoverageLimit means the fill spread too far, so the strength
// drops by one step; otherwise it rises by one step.
func (c Config) NextStrength(strength, coverage float64) float64 {
	if coverage > c.CoverageLimit {
		return strength - c.StrengthStep
	}
	return strength + c.StrengthStep
}

// Canvas receives the markers of one attempt and yields the annotated image.
// Err reports the first marker that could not be drawn. Close is called once
// the attempt is over, after Image when the attempt succeeded.
type Canvas interface {
	Marker
	Image() image.Image
	Err() error
	Close() error
}

// CanvasFactory returns a fresh canvas holding a copy of original.
type CanvasFactory func(original image.Image, cfg Config) Canvas

var _ Canvas = (*imaging.Annotator)(nil)

func annotatorCanvas(original image.Image, cfg Config) Canvas {
	return imaging.NewAnnotator(original, cfg.MarkerColor, cfg.MarkerRadius)
}

// Status tells a finished run apart from one that ran out of attempts.
type Status int

const (
	// Completed means an attempt passed extraction.
	Completed Status = iota
	// Exhausted means every attempt leaked; there is no image and no points.
	Exhausted
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome is the result of a run that did not hit a critical failure.
type Outcome struct {
	Status Status
	// Image is the annotated copy of the input. Nil unless Completed.
	Image image.Image
	// Points run from the bottom of the image to the top. Nil unless
	// Completed.
	Points []Point
	// Attempts is the number of attempts made.
	Attempts int
	// Strength is the strength of the last attempt made.
	Strength float64
	// RoadColor is the estimated reference color.
	RoadColor Pixel
	// Coverage is the labeled fraction of the final attempt.
	Coverage float64
}

// Processor runs the segmentation pipeline. A Processor is immutable and may
// be shared, but each Process call runs on a single goroutine.
type Processor struct {
	cfg Config
}

// New returns a Processor using cfg.
func New(cfg Config) *Processor {
	return &Processor{cfg: cfg}
}

// ProcessFile decodes the image at path and runs Process on it.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Outcome, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	return p.Process(ctx, img)
}

// Process finds the road in img.
//
// The context is checked between attempts only; an attempt in progress always
// runs to completion.
func (p *Processor) Process(ctx context.Context, img image.Image) (*Outcome, error) {
	return p.run(ctx, img, GridFromImage(img))
}

// ProcessGrid is Process for an already decoded grid. The grid is not
// modified.
func (p *Processor) ProcessGrid(ctx context.Context, g *Grid) (*Outcome, error) {
	return p.run(ctx, g.Image(), g)
}

func (p *Processor) run(ctx context.Context, img image.Image, original *Grid) (*Outcome, error) {
	cfg := p.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w, h := original.Width(), original.Height()
	if w == 0 || h == 0 {
		return nil, ErrEmptyImage
	}
	newCanvas := cfg.Canvas
	if newCanvas == nil {
		newCanvas = annotatorCanvas
	}
	level := slog.LevelDebug
	if cfg.Verbose {
		level = slog.LevelInfo
	}
	log := Logger()

	working := Smooth(original, cfg.SmoothRadius)
	roadColor := EstimateRoadColor(working, cfg.ProbeRadius)
	log.Debug("estimated road color", "color", roadColor.String(), "width", w, "height", h)

	session := NewSession(working, cfg)
	seeds := Seeds(w, h)
	strength := cfg.InitialStrength
	var last Outcome

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.Log(ctx, level, "coloring", "attempt", attempt, "strength", strength)

		before := session.Snapshot()
		session.ResetVisited()
		for _, seed := range seeds {
			n, err := session.Grow(seed, roadColor, strength)
			if err != nil {
				return nil, err
			}
			log.Debug("grew region", "seed", seed, "labeled", n)
		}

		canvas := newCanvas(img, cfg)
		ext := ExtractPoints(session, canvas, cfg.Extract)
		coverage := session.Coverage()
		if ext.OK {
			annotated := canvas.Image()
			if err := errors.Join(canvas.Err(), canvas.Close()); err != nil {
				return nil, fmt.Errorf("failed to annotate image: %w", err)
			}
			log.Log(ctx, level, "done", "attempt", attempt, "points", len(ext.Points))
			p.dumpLabels(session)
			return &Outcome{
				Status:    Completed,
				Image:     annotated,
				Points:    ext.Points,
				Attempts:  attempt,
				Strength:  strength,
				RoadColor: roadColor,
				Coverage:  coverage,
			}, nil
		}
		if err := canvas.Close(); err != nil {
			log.Warn("failed to release canvas", "attempt", attempt, "error", err)
		}

		log.Log(ctx, level, "failure, retrying", "attempt", attempt, "anomaly_row", ext.AnomalyRow, "coverage", coverage)
		session.Restore(before)
		last = Outcome{Status: Exhausted, Attempts: attempt, Strength: strength, RoadColor: roadColor, Coverage: coverage}
		strength = cfg.NextStrength(strength, coverage)
	}
	return &last, nil
}

func (p *Processor) dumpLabels(s *Session) {
	if p.cfg.DebugLabelsPath == "" {
		return
	}
	if err := imaging.SavePNG(p.cfg.DebugLabelsPath, s.LabeledImage()); err != nil {
		Logger().Warn("failed to write label dump", "path", p.cfg.DebugLabelsPath, "error", err)
	}
}
