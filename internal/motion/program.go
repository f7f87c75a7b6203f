package motion

import (
	"errors"
	"fmt"

	"github.com/nanofab-data/microfab/internal/geom"
)

// Frame is an opaque token naming the physical coordinate frame a program
// is expressed in. The compiler never transforms between frames; it only
// refuses to concatenate programs bound to different ones.
type Frame string

// ErrFrameMismatch is returned by Append when the two programs are bound
// to different coordinate frames.
var ErrFrameMismatch = errors.New("programs bound to different coordinate frames")

// Program is an append-only ordered sequence of instructions bound to one
// coordinate frame. A Program is built by a single producer in program
// order; callers receiving one from a lowering call must treat it as
// read-only.
type Program struct {
	frame        Frame
	instructions []Instruction
}

// NewProgram returns an empty program bound to frame.
func NewProgram(frame Frame) *Program {
	return &Program{frame: frame}
}

// Frame returns the coordinate frame the program is bound to.
func (p *Program) Frame() Frame { return p.frame }

// Len returns the number of instructions.
func (p *Program) Len() int { return len(p.instructions) }

// Instructions returns the instruction sequence. The returned slice is
// shared with the program and must not be modified.
func (p *Program) Instructions() []Instruction { return p.instructions }

// Add appends raw instructions in order.
func (p *Program) Add(instrs ...Instruction) {
	p.instructions = append(p.instructions, instrs...)
}

// Move appends a linear move to target. feed and extra are optional and
// mutually exclusive; use Rate to supply one.
func (p *Program) Move(target geom.Coordinate, feed, extra *float64) error {
	if feed != nil && extra != nil {
		return fmt.Errorf("move cannot carry both dependent (F=%g) and independent (E=%g) rates", *feed, *extra)
	}
	p.Add(Move{Target: target, Feed: feed, Extra: extra})
	return nil
}

// Gate appends a laser gate switch.
func (p *Program) Gate(on bool) {
	p.Add(LaserGate{On: on})
}

// AddComment appends a free-text annotation. Multi-line text becomes one
// comment instruction per line so the rendered program stays line-oriented.
func (p *Program) AddComment(text string) {
	for _, line := range splitLines(text) {
		p.Add(Comment(line))
	}
}

// Append concatenates other's instructions onto p, preserving order.
// The receiving program's frame is authoritative; a program bound to a
// different frame is rejected with ErrFrameMismatch.
func (p *Program) Append(other *Program) error {
	if other.frame != p.frame {
		return fmt.Errorf("append %q onto %q: %w", other.frame, p.frame, ErrFrameMismatch)
	}
	p.instructions = append(p.instructions, other.instructions...)
	return nil
}

// ValidateGates checks the laser gate well-formedness invariant: every On
// must be followed by exactly one Off before program end, with no nested
// gating. The instruction index of the first violation is reported.
func (p *Program) ValidateGates() error {
	on := false
	openIdx := -1
	for i, instr := range p.instructions {
		g, ok := instr.(LaserGate)
		if !ok {
			continue
		}
		switch {
		case g.On && on:
			return fmt.Errorf("instruction %d: laser gate opened while already open (opened at %d)", i, openIdx)
		case !g.On && !on:
			return fmt.Errorf("instruction %d: laser gate closed while not open", i)
		}
		on = g.On
		if on {
			openIdx = i
		}
	}
	if on {
		return fmt.Errorf("laser gate opened at instruction %d but never closed", openIdx)
	}
	return nil
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	return append(lines, text[start:])
}
