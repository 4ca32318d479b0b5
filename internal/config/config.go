// Package config assembles road-finder settings from defaults, an optional
// TOML file and environment variables. Command-line flags are applied on top
// by the binary.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ironsheep/road-finder/internal/imaging"
	"github.com/ironsheep/road-finder/internal/road"
	"github.com/ironsheep/road-finder/internal/waypoint"
)

// Environment variables read by FromEnv.
const (
	EnvLogLevel = "ROAD_FINDER_LOG_LEVEL"
	EnvOutput   = "ROAD_FINDER_OUTPUT"
	EnvMaxWidth = "ROAD_FINDER_MAX_WIDTH"
)

// DefaultOutput is where the interactive loop writes annotated images.
const DefaultOutput = "out.png"

// Settings is the complete runtime configuration.
type Settings struct {
	Road road.Config `toml:"road"`
	// MarkerColor is a hex color for waypoint markers, applied to Road.MarkerColor.
	MarkerColor string `toml:"marker_color"`
	// Output is the annotated image path.
	Output string `toml:"output"`
	// MaxWidth downscales wider images before processing; 0 disables.
	MaxWidth int `toml:"max_width"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	Waypoints Waypoints `toml:"waypoints"`
	Serial    Serial    `toml:"serial"`
}

// Waypoints configures post-processing and JCode export.
type Waypoints struct {
	SimplifyTolerance float64 `toml:"simplify_tolerance"`
	StraightTolerance float64 `toml:"straight_tolerance"`
	// JCodePath, when set, receives a JCode program after every success.
	JCodePath  string  `toml:"jcode_path"`
	Scale      float64 `toml:"scale"`
	Speed      float64 `toml:"speed"`
	MinSpacing float64 `toml:"min_spacing"`
}

// Frame returns the JCode frame for an image of the given size. Unset scale
// and speed fall back to waypoint.DefaultFrame.
func (w Waypoints) Frame(width, height int) waypoint.Frame {
	f := waypoint.DefaultFrame(width, height)
	if w.Scale > 0 {
		f.Scale = w.Scale
	}
	if w.Speed > 0 {
		f.Speed = w.Speed
	}
	f.MinSpacing = w.MinSpacing
	return f
}

// Serial configures streaming to a motion controller. An empty Port disables it.
type Serial struct {
	Port   string `toml:"port"`
	Baud   int    `toml:"baud"`
	Buffer int    `toml:"buffer"`
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		Road:        road.DefaultConfig(),
		MarkerColor: "#FF0000",
		Output:      DefaultOutput,
		LogLevel:    "info",
		Waypoints: Waypoints{
			SimplifyTolerance: 2,
			StraightTolerance: 3,
			Speed:             5,
			MinSpacing:        0.25,
		},
		Serial: Serial{Baud: 115200, Buffer: 8},
	}
}

// Load reads path over Default. An empty path returns the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &s)
		if err != nil {
			return s, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		for _, key := range md.Undecoded() {
			slog.Warn("unknown config key", "file", path, "key", key.String())
		}
	}
	if err := s.applyMarkerColor(); err != nil {
		return s, err
	}
	return s, nil
}

// FromEnv applies the ROAD_FINDER_* variables found through lookup, which is
// normally os.LookupEnv.
func (s *Settings) FromEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		s.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup(EnvOutput); ok && v != "" {
		s.Output = v
	}
	if v, ok := lookup(EnvMaxWidth); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", EnvMaxWidth, err)
		}
		s.MaxWidth = n
	}
	return nil
}

// SetMarkerColor parses hex and stores it on both the string and the core
// configuration.
func (s *Settings) SetMarkerColor(hex string) error {
	s.MarkerColor = hex
	return s.applyMarkerColor()
}

func (s *Settings) applyMarkerColor() error {
	if s.MarkerColor == "" {
		return nil
	}
	c, err := imaging.ParseHexColor(s.MarkerColor)
	if err != nil {
		return fmt.Errorf("failed to parse marker_color: %w", err)
	}
	s.Road.MarkerColor = c
	return nil
}

// Level maps LogLevel to a slog level.
func (s Settings) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log_level %q", road.ErrInvalidConfig, s.LogLevel)
	}
	return l, nil
}

// Validate checks the core configuration and the surrounding settings.
func (s Settings) Validate() error {
	if err := s.Road.Validate(); err != nil {
		return err
	}
	if _, err := s.Level(); err != nil {
		return err
	}
	var errs []error
	if s.Output == "" {
		errs = append(errs, errors.New("output must not be empty"))
	}
	if s.MaxWidth < 0 {
		errs = append(errs, fmt.Errorf("max_width must not be negative, got %d", s.MaxWidth))
	}
	if s.Waypoints.SimplifyTolerance < 0 || s.Waypoints.StraightTolerance < 0 {
		errs = append(errs, errors.New("waypoint tolerances must not be negative"))
	}
	if s.Serial.Port != "" && (s.Serial.Baud <= 0 || s.Serial.Buffer <= 0) {
		errs = append(errs, errors.New("serial baud and buffer must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", road.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
