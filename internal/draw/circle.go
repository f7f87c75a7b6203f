package draw

import (
	"fmt"
	"math"

	"github.com/nanofab-data/microfab/internal/geom"
	"github.com/nanofab-data/microfab/internal/motion"
)

// Circle is a single gated circular pass: the head moves to the 3 o'clock
// point of the circle, gates on, and traverses the full arc back to the
// entry point.
type Circle struct {
	center    geom.Point3D
	radius    float64
	clockwise bool
	feed      *float64
}

// NewCircle builds a circle of the given radius around center.
func NewCircle(center geom.Point3D, radius float64, clockwise bool, feed *float64) (*Circle, error) {
	if radius <= 0 {
		return nil, &GeometryError{Shape: "Circle", Segment: -1,
			Detail: fmt.Sprintf("radius must be positive, got %g", radius)}
	}
	return &Circle{center: center, radius: radius, clockwise: clockwise, feed: feed}, nil
}

// Lower emits the entry move and the gated full-circle arc.
func (c *Circle) Lower(frame motion.Frame) (*motion.Program, error) {
	p := motion.NewProgram(frame)
	p.AddComment(fmt.Sprintf("Draw circle with radius %g at %s", c.radius, c.center.Coordinate()))

	entry := c.center.AddXY(geom.Point2D{X: c.radius})
	mustMove(p, entry.Coordinate(), nil, nil)
	p.Gate(true)
	p.Add(motion.Arc{
		EndX:      entry.X,
		EndY:      entry.Y,
		CenterX:   c.center.X,
		CenterY:   c.center.Y,
		Clockwise: c.clockwise,
		Feed:      c.feed,
	})
	p.Gate(false)
	return p, nil
}

// Center returns the circle center.
func (c *Circle) Center() geom.Coordinate {
	return c.center.Coordinate()
}

// FilledCircle fills an annulus (or full disc when the end radius is
// zero) with concentric gated circles stepped by the hatch size. The step
// sign follows the radius sweep automatically.
type FilledCircle struct {
	center      geom.Point3D
	radiusStart float64
	radiusEnd   float64
	hatchSize   float64
	clockwise   bool
	feed        *float64
}

// NewFilledCircle builds a concentric fill from radiusStart toward
// radiusEnd.
func NewFilledCircle(center geom.Point3D, radiusStart, radiusEnd, hatchSize float64, clockwise bool, feed *float64) (*FilledCircle, error) {
	if hatchSize == 0 {
		return nil, &GeometryError{Shape: "FilledCircle", Segment: -1, Detail: "hatch size must be nonzero"}
	}
	if radiusStart <= 0 && radiusEnd <= 0 {
		return nil, &GeometryError{Shape: "FilledCircle", Segment: -1,
			Detail: fmt.Sprintf("at least one radius must be positive (start=%g, end=%g)", radiusStart, radiusEnd)}
	}
	return &FilledCircle{
		center:      center,
		radiusStart: radiusStart,
		radiusEnd:   radiusEnd,
		hatchSize:   math.Abs(hatchSize),
		clockwise:   clockwise,
		feed:        feed,
	}, nil
}

// Lower emits one circle per radius step, sweeping from the start radius
// toward (and excluding) the end radius.
func (f *FilledCircle) Lower(frame motion.Frame) (*motion.Program, error) {
	p := motion.NewProgram(frame)

	step := f.hatchSize
	if f.radiusEnd < f.radiusStart {
		step = -step
	}
	for i, r := 0, f.radiusStart; (step > 0 && r < f.radiusEnd) || (step < 0 && r > f.radiusEnd); i, r = i+1, f.radiusStart+float64(i+1)*step {
		if r <= 0 {
			continue
		}
		circle, err := NewCircle(f.center, r, f.clockwise, f.feed)
		if err != nil {
			return nil, fmt.Errorf("ring %d: %w", i, err)
		}
		sub, err := circle.Lower(frame)
		if err != nil {
			return nil, fmt.Errorf("ring %d: %w", i, err)
		}
		if err := p.Append(sub); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Center returns the fill center.
func (f *FilledCircle) Center() geom.Coordinate {
	return f.center.Coordinate()
}
