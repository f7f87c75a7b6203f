package draw

import (
	"github.com/nanofab-data/microfab/internal/geom"
	"github.com/nanofab-data/microfab/internal/motion"
)

// SingleLine is a two-point gated segment. No kinematic lead is added;
// the optional feed/extra rates pass through to the emitted moves.
type SingleLine struct {
	start geom.Coordinate
	end   geom.Coordinate
	feed  *float64
	extra *float64
}

// NewSingleLine builds a line from start to end.
func NewSingleLine(start, end geom.Coordinate, feed, extra *float64) (*SingleLine, error) {
	if err := checkRates("SingleLine", feed, extra); err != nil {
		return nil, err
	}
	return &SingleLine{start: start, end: end, feed: feed, extra: extra}, nil
}

// Lower emits: move to start (gate off), gate on, move to end, gate off.
func (l *SingleLine) Lower(frame motion.Frame) (*motion.Program, error) {
	p := motion.NewProgram(frame)
	mustMove(p, l.start, l.feed, l.extra)
	p.Gate(true)
	mustMove(p, l.end, l.feed, l.extra)
	p.Gate(false)
	return p, nil
}

// Center returns the midpoint of the segment's bounding box.
func (l *SingleLine) Center() geom.Coordinate {
	c, err := geom.Center([]geom.Coordinate{l.start, l.end})
	if err != nil {
		// Both endpoints exist, so a common axis set always remains.
		return l.start
	}
	return c
}

// VerticalProbeLine is a single-axis Z sweep at a fixed lateral position
// with the laser gated on for the whole sweep. It is used for focus and
// surface probing rather than fabrication.
type VerticalProbeLine struct {
	position geom.Point2D
	zMin     float64
	zMax     float64
	feed     *float64
}

// NewVerticalProbeLine builds a probe sweep from zMin to zMax at position.
func NewVerticalProbeLine(position geom.Point2D, zMin, zMax float64, feed *float64) (*VerticalProbeLine, error) {
	if zMax < zMin {
		return nil, &GeometryError{
			Shape:   "VerticalProbeLine",
			Segment: -1,
			Detail:  "zMax below zMin",
		}
	}
	return &VerticalProbeLine{position: position, zMin: zMin, zMax: zMax, feed: feed}, nil
}

// Lower emits the gated vertical sweep.
func (l *VerticalProbeLine) Lower(frame motion.Frame) (*motion.Program, error) {
	p := motion.NewProgram(frame)
	mustMove(p, geom.XYZ(l.position.X, l.position.Y, l.zMin), l.feed, nil)
	p.Gate(true)
	mustMove(p, geom.XYZ(l.position.X, l.position.Y, l.zMax), l.feed, nil)
	p.Gate(false)
	return p, nil
}

// Center returns the lateral probe position.
func (l *VerticalProbeLine) Center() geom.Coordinate {
	return l.position.Coordinate()
}
