package waypoint

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/JoshPattman/jcode"

	"github.com/ironsheep/road-finder/internal/road"
)

// Frame maps image pixels to robot units.
type Frame struct {
	// Width and Height are the image dimensions in pixels.
	Width, Height int
	// Scale is robot units per pixel.
	Scale float64
	// Speed is the travel speed written at the start of the program.
	Speed float64
	// MinSpacing drops interior waypoints closer than this to the previous
	// kept one.
	MinSpacing float64
}

// DefaultFrame maps the full image height to 8 units at speed 5, keeping
// waypoints at least a quarter unit apart.
func DefaultFrame(width, height int) Frame {
	f := Frame{Width: width, Height: height, Speed: 5, MinSpacing: 0.25}
	if height > 0 {
		f.Scale = 8 / float64(height)
	}
	return f
}

// ToJCode converts centerline points into a JCode program: one Speed
// instruction followed by a Waypoint per kept point.
func ToJCode(points []road.Point, f Frame) []jcode.Instruction {
	code := []jcode.Instruction{jcode.Speed{Speed: f.Speed}}
	cx := float64(f.Width) / 2
	var last jcode.Waypoint
	for i, p := range points {
		wp := jcode.Waypoint{
			XPos: (float64(p.X) - cx) * f.Scale,
			YPos: float64(f.Height-p.Y) * f.Scale,
		}
		if i == 0 || i == len(points)-1 || jcode.Dist(last, wp) >= f.MinSpacing {
			code = append(code, wp)
			last = wp
		}
	}
	return code
}

// WriteJCode encodes code to w.
func WriteJCode(w io.Writer, code []jcode.Instruction) error {
	if err := jcode.NewEncoder(w).Write(code...); err != nil {
		return fmt.Errorf("failed to write jcode: %w", err)
	}
	return nil
}

// SaveJCode writes code to a new file at path.
func SaveJCode(path string, code []jcode.Instruction) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Join(errors.New("could not create jcode file"), err)
	}
	defer f.Close()
	return WriteJCode(f, code)
}

// ReadJCode decodes every instruction from r until EOF.
func ReadJCode(r io.Reader) ([]jcode.Instruction, error) {
	dec := jcode.NewDecoder(r)
	var code []jcode.Instruction
	for {
		ins, err := dec.Read()
		if errors.Is(err, io.EOF) {
			return code, nil
		}
		if err != nil {
			return code, fmt.Errorf("failed to parse jcode: %w", err)
		}
		code = append(code, ins)
	}
}
