// Package draw is the drawable shape library of the compiler. Each shape
// is a declarative description of fabrication geometry that lowers itself
// into a motion.Program: move to the feature with the laser gated off,
// gate on, traverse the exposing segment, gate off. Shapes are immutable
// once constructed; geometric constraints are checked by the constructors
// so lowering never fails on shape-internal state.
package draw

import (
	"errors"
	"fmt"

	"github.com/nanofab-data/microfab/internal/geom"
	"github.com/nanofab-data/microfab/internal/motion"
)

// Drawable is the lowering capability every shape implements.
type Drawable interface {
	// Lower compiles the shape into an instruction program bound to frame.
	Lower(frame motion.Frame) (*motion.Program, error)

	// Center returns a representative center point of the shape (the
	// bounding-box midpoint for point-list shapes). The coordinate is 3D
	// when the shape has a vertical extent and 2D otherwise.
	Center() geom.Coordinate
}

// ErrUnimplemented marks a shape whose lowering is intentionally
// incomplete. Lowering such a shape fails outright rather than emitting a
// partial program.
var ErrUnimplemented = errors.New("shape lowering not implemented")

// GeometryError reports a constraint violation in a shape's construction
// parameters. Segment is the index of the offending element, or -1 when
// the violation is not tied to one.
type GeometryError struct {
	Shape   string
	Segment int
	Detail  string
}

func (e *GeometryError) Error() string {
	if e.Segment < 0 {
		return fmt.Sprintf("%s: %s", e.Shape, e.Detail)
	}
	return fmt.Sprintf("%s: segment %d: %s", e.Shape, e.Segment, e.Detail)
}

// checkRates rejects a shape carrying both a dependent and an independent
// feed rate; the controller accepts at most one per move.
func checkRates(shape string, feed, extra *float64) error {
	if feed != nil && extra != nil {
		return &GeometryError{
			Shape:   shape,
			Segment: -1,
			Detail:  fmt.Sprintf("cannot carry both dependent (F=%g) and independent (E=%g) rates", *feed, *extra),
		}
	}
	return nil
}

// mustMove is Program.Move for targets already validated by a shape
// constructor. The only Move failure mode is the double-rate case, which
// checkRates has ruled out.
func mustMove(p *motion.Program, target geom.Coordinate, feed, extra *float64) {
	if err := p.Move(target, feed, extra); err != nil {
		panic(fmt.Sprintf("draw: validated move rejected: %v", err))
	}
}
