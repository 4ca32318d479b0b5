// Package cli implements the interactive prompt of road-finder: it asks for
// image paths one at a time, finds the road in each and writes the annotated
// result.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ironsheep/road-finder/internal/config"
	"github.com/ironsheep/road-finder/internal/imaging"
	"github.com/ironsheep/road-finder/internal/road"
	"github.com/ironsheep/road-finder/internal/waypoint"
)

const (
	promptMessage = "Enter an image file path to process:"
	missMessage   = "Could not find the road in the image."
	issueMessage  = "An issue occurred while processing the image."
)

// ErrNoRoad is returned by ProcessPath when every attempt failed.
var ErrNoRoad = errors.New("cli: road not found")

// Loop reads image paths from In until EOF.
type Loop struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	Settings  config.Settings
	Processor *road.Processor
	// Device, when set, receives the waypoints of every processed image.
	// It must not change once an image has been streamed.
	Device io.ReadWriter

	stream *waypoint.Streamer
}

// New returns a Loop with a processor built from settings.
func New(settings config.Settings, in io.Reader, out, errOut io.Writer) *Loop {
	return &Loop{
		In:        in,
		Out:       out,
		Err:       errOut,
		Settings:  settings,
		Processor: road.New(settings.Road),
	}
}

// Result describes one processed image.
type Result struct {
	Outcome *road.Outcome
	Summary waypoint.Summary
	// Waypoints is the simplified centerline.
	Waypoints []road.Point
	// Scale is the factor the input was downscaled by before processing.
	Scale float64
}

// Run prompts for paths until In is exhausted or ctx is cancelled. Problems
// with a single image are reported on Err and do not end the loop.
func (l *Loop) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(l.In)
	for {
		fmt.Fprintln(l.Out, promptMessage)
		if !scanner.Scan() {
			return scanner.Err()
		}
		path := strings.TrimSpace(scanner.Text())
		if path == "" {
			continue
		}

		_, err := l.ProcessPath(ctx, path)
		switch {
		case err == nil:
			fmt.Fprintf(l.Out, "The image was processed and the result is stored at %s\n", l.Settings.Output)
		case errors.Is(err, ErrNoRoad):
			fmt.Fprintln(l.Out, missMessage)
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			slog.Debug("processing failed", "path", path, "error", err)
			fmt.Fprintln(l.Err, issueMessage)
		}
	}
}

// ProcessPath runs the full pipeline on the image at path: load, downscale,
// segment, annotate, save, then export and stream waypoints when configured.
func (l *Loop) ProcessPath(ctx context.Context, path string) (*Result, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	img, scale := imaging.Downscale(img, l.Settings.MaxWidth)

	out, err := l.Processor.Process(ctx, img)
	if err != nil {
		return nil, err
	}
	if out.Status != road.Completed {
		return &Result{Outcome: out, Scale: scale}, ErrNoRoad
	}

	wp := l.Settings.Waypoints
	bounds := out.Image.Bounds()
	res := &Result{
		Outcome:   out,
		Summary:   waypoint.Summarize(out.Points, bounds.Dx(), wp.StraightTolerance),
		Waypoints: waypoint.Simplify(out.Points, wp.SimplifyTolerance),
		Scale:     scale,
	}
	slog.Info("road found",
		"path", path,
		"attempts", out.Attempts,
		"points", len(out.Points),
		"offset", res.Summary.LateralOffset,
		"heading", res.Summary.HeadingDegrees)

	annotated, err := waypoint.Annotate(out.Image, res.Waypoints, wp.SimplifyTolerance)
	if err != nil {
		return nil, err
	}
	if err := imaging.SavePNG(l.Settings.Output, annotated); err != nil {
		return nil, err
	}

	if wp.JCodePath == "" && l.Device == nil {
		return res, nil
	}
	code := waypoint.ToJCode(res.Waypoints, wp.Frame(bounds.Dx(), bounds.Dy()))
	if wp.JCodePath != "" {
		if err := waypoint.SaveJCode(wp.JCodePath, code); err != nil {
			return nil, err
		}
	}
	if l.Device != nil {
		if err := l.streamer().Stream(ctx, code); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// streamer returns the one Streamer bound to Device, so instructions still
// held by the device from the previous image stay counted.
func (l *Loop) streamer() *waypoint.Streamer {
	if l.stream == nil {
		l.stream = waypoint.NewStreamer(l.Device, l.Settings.Serial.Buffer)
		l.stream.OnLog = func(msg string) {
			slog.Info("device", "message", msg)
		}
	}
	return l.stream
}
