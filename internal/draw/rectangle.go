package draw

import (
	"fmt"
	"math"

	"github.com/nanofab-data/microfab/internal/geom"
	"github.com/nanofab-data/microfab/internal/motion"
)

// SliceHorizontal and SliceVertical name the two hatch sweep directions
// of a sliced rectangle layer.
const (
	SliceHorizontal = 0
	SliceVertical   = 1
)

// SlicedRectangle is a full hatch-filled, layer-sliced rectangle:
// alternating horizontal/vertical serpentine hatching per layer plus a
// kinematic lead injected around every hatch line.
//
// The top-level lowering is intentionally incomplete: Lower fails with
// ErrUnimplemented rather than emitting a partial program. The slicing
// and lead-injection helpers are complete and tested on their own.
type SlicedRectangle struct {
	bottomLeft   geom.Point3D
	width        float64
	length       float64
	height       float64
	hatchSize    float64
	layerHeight  float64
	velocity     float64
	acceleration float64
}

// SlicedRectangleSpec carries the construction parameters of a
// SlicedRectangle.
type SlicedRectangleSpec struct {
	BottomLeft   geom.Point3D
	Width        float64 // extent along Y
	Length       float64 // extent along X
	Height       float64 // structure height along Z
	HatchSize    float64
	LayerHeight  float64
	Velocity     float64
	Acceleration float64
}

// NewSlicedRectangle validates spec and builds the rectangle.
func NewSlicedRectangle(spec SlicedRectangleSpec) (*SlicedRectangle, error) {
	if spec.Width <= 0 || spec.Length <= 0 || spec.Height <= 0 {
		return nil, &GeometryError{Shape: "SlicedRectangle", Segment: -1,
			Detail: fmt.Sprintf("width, length and height must be positive (w=%g, l=%g, h=%g)",
				spec.Width, spec.Length, spec.Height)}
	}
	if spec.HatchSize <= 0 || spec.LayerHeight <= 0 {
		return nil, &GeometryError{Shape: "SlicedRectangle", Segment: -1,
			Detail: fmt.Sprintf("hatch size and layer height must be positive (hatch=%g, layer=%g)",
				spec.HatchSize, spec.LayerHeight)}
	}
	return &SlicedRectangle{
		bottomLeft:   spec.BottomLeft,
		width:        spec.Width,
		length:       spec.Length,
		height:       spec.Height,
		hatchSize:    spec.HatchSize,
		layerHeight:  spec.LayerHeight,
		velocity:     spec.Velocity,
		acceleration: spec.Acceleration,
	}, nil
}

// HatchLine is one gated hatch stroke with its injected lead points: the
// axis approaches via Approach, exposes from Start to End, and departs to
// Depart at commanded velocity.
type HatchLine struct {
	Approach geom.Point3D
	Start    geom.Point3D
	End      geom.Point3D
	Depart   geom.Point3D
}

// LayerSegments slices one layer at height z into serpentine hatch
// segments. direction selects the hatch axis: SliceHorizontal sweeps
// along X (lines stacked along Y), SliceVertical sweeps along Y (lines
// stacked along X). The hatch pitch is recomputed so the lines exactly
// span the rectangle.
func (r *SlicedRectangle) LayerSegments(direction int, z float64) ([][2]geom.Point3D, error) {
	var span, stack float64
	switch direction {
	case SliceHorizontal:
		span, stack = r.length, r.width
	case SliceVertical:
		span, stack = r.width, r.length
	default:
		return nil, &GeometryError{Shape: "SlicedRectangle", Segment: -1,
			Detail: fmt.Sprintf("unknown slicing direction %d (want %d horizontal or %d vertical)",
				direction, SliceHorizontal, SliceVertical)}
	}

	n := int(math.Ceil(stack / r.hatchSize))
	pitch := stack / float64(n)
	origin := r.bottomLeft.Add(geom.Point3D{Z: z})

	segments := make([][2]geom.Point3D, 0, n+1)
	for i := 0; i <= n; i++ {
		offset := float64(i) * pitch
		reach := span * math.Pow(-1, float64(i%2))

		var start, end geom.Point3D
		if direction == SliceHorizontal {
			start = origin.Add(geom.Point3D{Y: offset})
			if i%2 == 1 {
				start = start.Add(geom.Point3D{X: span})
			}
			end = start.Add(geom.Point3D{X: reach})
		} else {
			start = origin.Add(geom.Point3D{X: offset})
			if i%2 == 1 {
				start = start.Add(geom.Point3D{Y: span})
			}
			end = start.Add(geom.Point3D{Y: reach})
		}
		segments = append(segments, [2]geom.Point3D{start, end})
	}
	return segments, nil
}

// InjectLead prepends and appends the constant-acceleration lead travel
// to every segment, along the segment's direction, so each gated stroke
// is traversed at commanded velocity. Zero-length segments are rejected.
func (r *SlicedRectangle) InjectLead(segments [][2]geom.Point3D) ([]HatchLine, error) {
	lead := LeadDistance(r.velocity, r.acceleration)
	lines := make([]HatchLine, 0, len(segments))
	for i, seg := range segments {
		d := seg[1].Add(seg[0].Scale(-1))
		norm := math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
		if norm == 0 {
			return nil, &GeometryError{Shape: "SlicedRectangle", Segment: i,
				Detail: "zero-length hatch segment"}
		}
		unit := d.Scale(1 / norm)
		lines = append(lines, HatchLine{
			Approach: seg[0].Add(unit.Scale(-lead)),
			Start:    seg[0],
			End:      seg[1],
			Depart:   seg[1].Add(unit.Scale(lead)),
		})
	}
	return lines, nil
}

// LayerCount returns ceil(height/layerHeight).
func (r *SlicedRectangle) LayerCount() int {
	return int(math.Ceil(r.height / r.layerHeight))
}

// Lower is not implemented: the full-rectangle fill never shipped on the
// instrument. Failing outright beats emitting a partial program the
// hardware would happily execute.
func (r *SlicedRectangle) Lower(motion.Frame) (*motion.Program, error) {
	return nil, fmt.Errorf("SlicedRectangle: %w", ErrUnimplemented)
}

// Center returns the midpoint of the rectangle's footprint.
func (r *SlicedRectangle) Center() geom.Coordinate {
	return r.bottomLeft.AddXY(geom.Point2D{X: r.length / 2, Y: r.width / 2}).Coordinate()
}
