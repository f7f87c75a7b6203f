package draw

import (
	"fmt"

	"github.com/nanofab-data/microfab/internal/geom"
	"github.com/nanofab-data/microfab/internal/motion"
)

// PolyLine is a single gated traversal of an ordered point list: the gate
// opens after the move to the first point and closes after the last. No
// kinematic lead is added.
type PolyLine struct {
	points []geom.Coordinate
	feed   *float64
	extra  *float64
}

// NewPolyLine builds a polyline through points, which must contain at
// least two entries.
func NewPolyLine(points []geom.Coordinate, feed, extra *float64) (*PolyLine, error) {
	if err := checkRates("PolyLine", feed, extra); err != nil {
		return nil, err
	}
	if len(points) < 2 {
		return nil, &GeometryError{
			Shape:   "PolyLine",
			Segment: -1,
			Detail:  fmt.Sprintf("need at least 2 points, got %d", len(points)),
		}
	}
	pts := make([]geom.Coordinate, len(points))
	copy(pts, points)
	return &PolyLine{points: pts, feed: feed, extra: extra}, nil
}

// Lower emits the traversal with the gate open from the second point on.
func (l *PolyLine) Lower(frame motion.Frame) (*motion.Program, error) {
	p := motion.NewProgram(frame)
	mustMove(p, l.points[0], l.feed, l.extra)
	p.Gate(true)
	for _, pt := range l.points[1:] {
		mustMove(p, pt, l.feed, l.extra)
	}
	p.Gate(false)
	return p, nil
}

// Center returns the bounding-box midpoint over all points (not the
// centroid).
func (l *PolyLine) Center() geom.Coordinate {
	c, err := geom.Center(l.points)
	if err != nil {
		return l.points[0]
	}
	return c
}

// PolyLineBatch lowers each contained polyline independently and
// concatenates their programs in order. A comment naming each line's
// index is inserted before it; the comments are diagnostics, not
// semantics.
type PolyLineBatch struct {
	lines []*PolyLine
}

// NewPolyLineBatch builds a batch over point lists sharing the same
// optional rates.
func NewPolyLineBatch(lines [][]geom.Coordinate, feed, extra *float64) (*PolyLineBatch, error) {
	if len(lines) == 0 {
		return nil, &GeometryError{Shape: "PolyLineBatch", Segment: -1, Detail: "no lines"}
	}
	batch := make([]*PolyLine, 0, len(lines))
	for i, points := range lines {
		line, err := NewPolyLine(points, feed, extra)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		batch = append(batch, line)
	}
	return &PolyLineBatch{lines: batch}, nil
}

// Lower concatenates the per-line programs in order.
func (b *PolyLineBatch) Lower(frame motion.Frame) (*motion.Program, error) {
	p := motion.NewProgram(frame)
	for i, line := range b.lines {
		p.AddComment(fmt.Sprintf("[Polyline] - Draw line %d:", i))
		sub, err := line.Lower(frame)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		if err := p.Append(sub); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Center returns the bounding-box midpoint over every point of every
// contained line.
func (b *PolyLineBatch) Center() geom.Coordinate {
	var all []geom.Coordinate
	for _, line := range b.lines {
		all = append(all, line.points...)
	}
	c, err := geom.Center(all)
	if err != nil {
		return all[0]
	}
	return c
}
