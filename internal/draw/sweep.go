package draw

import (
	"fmt"

	"github.com/nanofab-data/microfab/internal/geom"
	"github.com/nanofab-data/microfab/internal/motion"
)

// Segment is one swept interval on a single axis.
type Segment struct {
	Start float64
	End   float64
}

// direction returns the sign of the segment's travel: +1, -1, or 0 for a
// degenerate zero-length segment.
func (s Segment) direction() float64 {
	switch {
	case s.End > s.Start:
		return 1
	case s.End < s.Start:
		return -1
	}
	return 0
}

// LeadDistance is the constant-acceleration stopping distance v²/(2a):
// the extra travel a sweep needs before its first gated segment (and
// after its last) so the axis is at commanded velocity while the laser
// is on.
func LeadDistance(velocity, acceleration float64) float64 {
	return velocity * velocity / (2 * acceleration)
}

// lineSweep is the shared core of XLineSweep and YLineSweep: an ordered
// list of same-direction segments on one axis, with the remaining axes
// held at a fixed secondary position.
type lineSweep struct {
	shape        string
	axis         geom.Axis
	segments     []Segment
	secondary    geom.Coordinate
	velocity     float64
	acceleration float64
}

// validateMonotone checks that every segment travels in the direction of
// segment 0. Violations are rejected at construction, naming the
// offending segment and both conflicting segments.
func validateMonotone(shape string, segments []Segment) error {
	if len(segments) == 0 {
		return &GeometryError{Shape: shape, Segment: -1, Detail: "no segments"}
	}
	dir := segments[0].direction()
	for i, seg := range segments[1:] {
		if seg.direction() != dir {
			return &GeometryError{
				Shape:   shape,
				Segment: i + 1,
				Detail: fmt.Sprintf("direction mismatch with segment 0 ([%g %g] vs [%g %g])",
					segments[0].Start, segments[0].End, seg.Start, seg.End),
			}
		}
	}
	return nil
}

func newLineSweep(shape string, axis geom.Axis, segments []Segment, secondary geom.Coordinate, velocity, acceleration float64) (lineSweep, error) {
	if err := validateMonotone(shape, segments); err != nil {
		return lineSweep{}, err
	}
	if velocity <= 0 || acceleration <= 0 {
		return lineSweep{}, &GeometryError{
			Shape:   shape,
			Segment: -1,
			Detail:  fmt.Sprintf("velocity and acceleration must be positive (v=%g, a=%g)", velocity, acceleration),
		}
	}
	segs := make([]Segment, len(segments))
	copy(segs, segments)
	return lineSweep{
		shape:        shape,
		axis:         axis,
		segments:     segs,
		secondary:    secondary,
		velocity:     velocity,
		acceleration: acceleration,
	}, nil
}

// lower emits the approach move offset by the lead distance, one gated
// move per segment, and the departure move. The secondary axes ride along
// only on the approach and departure; per-segment moves command the sweep
// axis alone.
func (s *lineSweep) lower(frame motion.Frame) *motion.Program {
	p := motion.NewProgram(frame)
	feed := motion.Rate(s.velocity)
	dir := s.segments[0].direction()
	lead := LeadDistance(s.velocity, s.acceleration)

	start := s.segments[0].Start - dir*lead
	mustMove(p, s.secondary.With(s.axis, start), feed, nil)

	for _, seg := range s.segments {
		mustMove(p, geom.Coordinate{}.With(s.axis, seg.Start), feed, nil)
		p.Gate(true)
		mustMove(p, geom.Coordinate{}.With(s.axis, seg.End), feed, nil)
		p.Gate(false)
	}

	end := s.segments[len(s.segments)-1].End + dir*lead
	mustMove(p, s.secondary.With(s.axis, end), feed, nil)
	return p
}

// sweptCenter is the midpoint between the first segment's start and the
// last segment's end on the sweep axis.
func (s *lineSweep) sweptCenter() float64 {
	return (s.segments[0].Start + s.segments[len(s.segments)-1].End) / 2
}

// XLineSweep sweeps segments along the X axis at a fixed y, z.
type XLineSweep struct {
	sweep lineSweep
	y, z  float64
}

// NewXLineSweep builds a monotone X sweep. All segments must travel in
// the direction of the first; mixed directions are rejected.
func NewXLineSweep(y, z float64, segments []Segment, velocity, acceleration float64) (*XLineSweep, error) {
	secondary := geom.Coordinate{}.With(geom.AxisY, y).With(geom.AxisZ, z)
	sweep, err := newLineSweep("XLineSweep", geom.AxisX, segments, secondary, velocity, acceleration)
	if err != nil {
		return nil, err
	}
	return &XLineSweep{sweep: sweep, y: y, z: z}, nil
}

// Lower compiles the sweep; see lineSweep.lower for the emitted pattern.
func (s *XLineSweep) Lower(frame motion.Frame) (*motion.Program, error) {
	return s.sweep.lower(frame), nil
}

// Center returns the midpoint of the swept X extent at the held y, z.
func (s *XLineSweep) Center() geom.Coordinate {
	return geom.XYZ(s.sweep.sweptCenter(), s.y, s.z)
}

// YLineSweep sweeps segments along the Y axis at a fixed x, z.
type YLineSweep struct {
	sweep lineSweep
	x, z  float64
}

// NewYLineSweep builds a monotone Y sweep. All segments must travel in
// the direction of the first; mixed directions are rejected.
func NewYLineSweep(x, z float64, segments []Segment, velocity, acceleration float64) (*YLineSweep, error) {
	secondary := geom.Coordinate{}.With(geom.AxisX, x).With(geom.AxisZ, z)
	sweep, err := newLineSweep("YLineSweep", geom.AxisY, segments, secondary, velocity, acceleration)
	if err != nil {
		return nil, err
	}
	return &YLineSweep{sweep: sweep, x: x, z: z}, nil
}

// Lower compiles the sweep; see lineSweep.lower for the emitted pattern.
func (s *YLineSweep) Lower(frame motion.Frame) (*motion.Program, error) {
	return s.sweep.lower(frame), nil
}

// Center returns the midpoint of the swept Y extent at the held x, z.
func (s *YLineSweep) Center() geom.Coordinate {
	return geom.XYZ(s.x, s.sweep.sweptCenter(), s.z)
}
