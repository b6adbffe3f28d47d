package stroke

import (
	"errors"
	"fmt"
	"io"

	"github.com/JoshPattman/jcode"
)

// JCodeWriter records strokes as plotter instructions instead of moving the
// pointer: every move becomes a waypoint and every click lowers and/or lifts
// the pen. Instructions are encoded to the writer on Close.
type JCodeWriter struct {
	w       io.Writer
	instrs  []jcode.Instruction
	penDown bool
	closed  bool
}

// NewJCodeWriter starts a program moving at speed units per second.
func NewJCodeWriter(w io.Writer, speed float64) *JCodeWriter {
	return &JCodeWriter{
		w:      w,
		instrs: []jcode.Instruction{jcode.Speed{Speed: speed}},
	}
}

// MoveAbsolute appends a waypoint.
func (j *JCodeWriter) MoveAbsolute(x, y int) error {
	if j.closed {
		return errors.New("jcode: writer closed")
	}
	j.instrs = append(j.instrs, jcode.Waypoint{XPos: float64(x), YPos: float64(y)})
	return nil
}

// Click appends pen transitions for button.
func (j *JCodeWriter) Click(button Button) error {
	if j.closed {
		return errors.New("jcode: writer closed")
	}
	switch button {
	case LeftClick:
		j.instrs = append(j.instrs, jcode.Pen{Mode: jcode.PenDown}, jcode.Pen{Mode: jcode.PenUp})
		j.penDown = false
	case LeftDown:
		j.instrs = append(j.instrs, jcode.Pen{Mode: jcode.PenDown})
		j.penDown = true
	case LeftUp:
		j.instrs = append(j.instrs, jcode.Pen{Mode: jcode.PenUp})
		j.penDown = false
	default:
		return fmt.Errorf("jcode: unsupported button code %s", button)
	}
	return nil
}

// Instructions returns the instructions recorded so far.
func (j *JCodeWriter) Instructions() []jcode.Instruction {
	return j.instrs
}

// Close lifts the pen if a stroke was left open and encodes the program.
func (j *JCodeWriter) Close() error {
	if j.closed {
		return nil
	}
	j.closed = true
	if j.penDown {
		j.instrs = append(j.instrs, jcode.Pen{Mode: jcode.PenUp})
		j.penDown = false
	}
	enc := jcode.NewEncoder(j.w)
	if err := enc.Write(j.instrs...); err != nil {
		return fmt.Errorf("jcode: failed to encode program: %w", err)
	}
	return nil
}
