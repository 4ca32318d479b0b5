package waypoint

import (
	"context"
	"fmt"
	"io"

	"github.com/JoshPattman/jcode"
	"github.com/tarm/serial"
)

// OpenSerial connects to a motion controller on the named port.
func OpenSerial(port string, baud int) (io.ReadWriteCloser, error) {
	p, err := serial.OpenPort(&serial.Config{Name: port, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", port, err)
	}
	return p, nil
}

// Streamer sends JCode programs to one device that acknowledges each
// instruction with a Consumed message once it has executed it.
//
// A Streamer owns the device's read side for its whole life: instructions
// still held by the device when Stream returns stay counted, and their
// acknowledgements are retired by the next call before any new instruction
// is sent. Use one Streamer per device.
type Streamer struct {
	// Drain waits for every acknowledgement before Stream returns.
	Drain bool
	// OnProgress, if set, is called after every acknowledgement of the
	// program being streamed.
	OnProgress func(done, total int)
	// OnLog, if set, receives Log messages sent by the device.
	OnLog func(message string)

	buffer   int
	enc      *jcode.Encoder
	dec      *jcode.Decoder
	inFlight int
}

// NewStreamer binds a streamer to dev, keeping at most bufferSize
// unacknowledged instructions on the device.
func NewStreamer(dev io.ReadWriter, bufferSize int) *Streamer {
	return &Streamer{
		buffer: max(bufferSize, 1),
		enc:    jcode.NewEncoder(dev),
		dec:    jcode.NewDecoder(dev),
	}
}

// InFlight returns the number of instructions sent but not yet acknowledged.
func (s *Streamer) InFlight() int { return s.inFlight }

// Stream writes code to the device. The context is checked before every write
// or read; a read already blocked on the device is not interrupted.
func (s *Streamer) Stream(ctx context.Context, code []jcode.Instruction) error {
	// Acks owed for earlier programs arrive first.
	earlier := s.inFlight
	queue := code
	done := 0
	for len(queue) > 0 || (s.Drain && s.inFlight > 0) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(queue) > 0 && s.inFlight < s.buffer {
			if err := s.enc.Write(queue[0]); err != nil {
				return fmt.Errorf("failed to send instruction: %w", err)
			}
			queue = queue[1:]
			s.inFlight++
			continue
		}

		ins, err := s.dec.Read()
		if err != nil {
			return fmt.Errorf("failed to read from device: %w", err)
		}
		switch ins := ins.(type) {
		case jcode.Consumed:
			if s.inFlight == 0 {
				continue
			}
			s.inFlight--
			if earlier > 0 {
				earlier--
				continue
			}
			done++
			if s.OnProgress != nil {
				s.OnProgress(done, len(code))
			}
		case jcode.Log:
			if s.OnLog != nil {
				s.OnLog(ins.Message)
			}
		}
	}
	return nil
}
