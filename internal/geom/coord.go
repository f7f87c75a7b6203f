package geom

import (
	"fmt"
	"strings"
)

// Axis identifies one motion axis of the instrument. The set is closed:
// X, Y, Z are the stage axes, A and B the auxiliary (galvo offset) axes.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisA
	AxisB

	numAxes = 5
)

var axisNames = [numAxes]string{"X", "Y", "Z", "A", "B"}

// String returns the case-sensitive axis letter used in motion programs.
func (a Axis) String() string {
	if int(a) < numAxes {
		return axisNames[a]
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// ParseAxis converts an axis letter into an Axis. Axis names are
// case-sensitive: "x" is not a valid axis.
func ParseAxis(s string) (Axis, error) {
	for i, name := range axisNames {
		if s == name {
			return Axis(i), nil
		}
	}
	return 0, fmt.Errorf("unknown axis %q (want one of %s)", s, strings.Join(axisNames[:], ", "))
}

// Coordinate addresses a subset of the instrument axes with target values.
// It replaces the open axis-name map of earlier tooling with a fixed-field
// record so that axis typos fail at construction instead of at lowering.
//
// The zero Coordinate addresses no axes. Coordinates are values; With
// returns a copy and never mutates its receiver.
type Coordinate struct {
	vals [numAxes]float64
	mask uint8
}

// XY returns a coordinate addressing the X and Y axes.
func XY(x, y float64) Coordinate {
	return Coordinate{}.With(AxisX, x).With(AxisY, y)
}

// XYZ returns a coordinate addressing the X, Y and Z axes.
func XYZ(x, y, z float64) Coordinate {
	return XY(x, y).With(AxisZ, z)
}

// With returns a copy of c with axis a set to v.
func (c Coordinate) With(a Axis, v float64) Coordinate {
	c.vals[a] = v
	c.mask |= 1 << a
	return c
}

// Get returns the value for axis a and whether the axis is addressed.
func (c Coordinate) Get(a Axis) (float64, bool) {
	return c.vals[a], c.Has(a)
}

// Has reports whether axis a is addressed by c.
func (c Coordinate) Has(a Axis) bool {
	return c.mask&(1<<a) != 0
}

// Axes returns the addressed axes in canonical X, Y, Z, A, B order.
func (c Coordinate) Axes() []Axis {
	axes := make([]Axis, 0, numAxes)
	for a := Axis(0); a < numAxes; a++ {
		if c.Has(a) {
			axes = append(axes, a)
		}
	}
	return axes
}

// Merge returns c overlaid with other: axes addressed by other win,
// axes only addressed by c are kept.
func (c Coordinate) Merge(other Coordinate) Coordinate {
	out := c
	for a := Axis(0); a < numAxes; a++ {
		if other.Has(a) {
			out = out.With(a, other.vals[a])
		}
	}
	return out
}

// Equal reports whether c and other address the same axes with the same
// values.
func (c Coordinate) Equal(other Coordinate) bool {
	if c.mask != other.mask {
		return false
	}
	for a := Axis(0); a < numAxes; a++ {
		if c.Has(a) && c.vals[a] != other.vals[a] {
			return false
		}
	}
	return true
}

// String renders the coordinate as axis-letter/value pairs, e.g.
// "X1.5 Y-2 Z0.75".
func (c Coordinate) String() string {
	var b strings.Builder
	for _, a := range c.Axes() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s%g", a, c.vals[a])
	}
	return b.String()
}

// Center returns the bounding-box midpoint of the given coordinates,
// computed per axis over the axes common to every coordinate. When every
// coordinate addresses X, Y and Z the result is a full 3D coordinate;
// when Z is missing from any of them the result drops to the lateral
// plane. An empty input or an empty common axis set is an error.
func Center(coords []Coordinate) (Coordinate, error) {
	if len(coords) == 0 {
		return Coordinate{}, fmt.Errorf("center of zero coordinates")
	}

	common := coords[0].mask
	for _, c := range coords[1:] {
		common &= c.mask
	}
	if common == 0 {
		return Coordinate{}, fmt.Errorf("coordinates share no common axis")
	}

	var out Coordinate
	for a := Axis(0); a < numAxes; a++ {
		if common&(1<<a) == 0 {
			continue
		}
		min, max := coords[0].vals[a], coords[0].vals[a]
		for _, c := range coords[1:] {
			if c.vals[a] < min {
				min = c.vals[a]
			}
			if c.vals[a] > max {
				max = c.vals[a]
			}
		}
		out = out.With(a, (min+max)/2)
	}
	return out, nil
}
