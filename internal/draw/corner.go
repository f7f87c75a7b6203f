package draw

import (
	"fmt"
	"math"

	"github.com/nanofab-data/microfab/internal/geom"
	"github.com/nanofab-data/microfab/internal/motion"
	"github.com/nanofab-data/microfab/internal/units"
)

// HatchedCorner fills an L-shaped right-angle corner region with N
// parallel diagonal strokes, replicated over z-layers:
//
//	             Length
//	\-----------------   |
//	|\----------------   |
//	||X----------------  Width
//	|||\--------------   |
//	||||\-------------   |
//	|||||
//	|||||
//
// The corner center (marked X) sits on the inner elbow. Each stroke is a
// 3-point path forming the L turn, built from precomputed offsets rotated
// by the corner's angle so one algorithm serves all four placements.
// Stroke direction alternates within a layer and the alternation phase
// flips between layers, so the whole fill serpentines.
type HatchedCorner struct {
	cornerCenter geom.Point3D
	length       float64
	width        float64
	height       float64
	hatchSize    float64
	layerHeight  float64
	rotationRad  float64
	feed         *float64
	extra        *float64
}

// HatchedCornerSpec carries the construction parameters of a HatchedCorner.
type HatchedCornerSpec struct {
	CornerCenter geom.Point3D
	Length       float64
	Width        float64
	Height       float64
	HatchSize    float64 // stroke pitch before span correction
	LayerHeight  float64
	RotationDeg  float64
	Feed         *float64
	Extra        *float64
}

// NewHatchedCorner validates spec and builds the corner.
func NewHatchedCorner(spec HatchedCornerSpec) (*HatchedCorner, error) {
	if err := checkRates("HatchedCorner", spec.Feed, spec.Extra); err != nil {
		return nil, err
	}
	if spec.HatchSize <= 0 {
		return nil, &GeometryError{Shape: "HatchedCorner", Segment: -1,
			Detail: fmt.Sprintf("hatch size must be positive, got %g", spec.HatchSize)}
	}
	if spec.LayerHeight <= 0 {
		return nil, &GeometryError{Shape: "HatchedCorner", Segment: -1,
			Detail: fmt.Sprintf("layer height must be positive, got %g", spec.LayerHeight)}
	}
	if spec.Length <= 0 || spec.Width <= 0 || spec.Height <= 0 {
		return nil, &GeometryError{Shape: "HatchedCorner", Segment: -1,
			Detail: fmt.Sprintf("length, width and height must be positive (l=%g, w=%g, h=%g)",
				spec.Length, spec.Width, spec.Height)}
	}
	return &HatchedCorner{
		cornerCenter: spec.CornerCenter,
		length:       spec.Length,
		width:        spec.Width,
		height:       spec.Height,
		hatchSize:    spec.HatchSize,
		layerHeight:  spec.LayerHeight,
		rotationRad:  units.Radians(spec.RotationDeg),
		feed:         spec.Feed,
		extra:        spec.Extra,
	}, nil
}

// StrokeCount returns the per-layer stroke count n = round(width/hatch)+1.
func (c *HatchedCorner) StrokeCount() int {
	return int(math.Round(c.width/c.hatchSize)) + 1
}

// CorrectedPitch returns the recomputed hatch pitch width/(n-1), so the
// n strokes exactly span the requested width without fractional-pitch
// drift.
func (c *HatchedCorner) CorrectedPitch() float64 {
	return c.width / float64(c.StrokeCount()-1)
}

// LayerCount returns ceil(height/layerHeight): layers sit at
// z = k*layerHeight for k = 0.. until the height is covered.
func (c *HatchedCorner) LayerCount() int {
	return int(math.Ceil(c.height / c.layerHeight))
}

// Lower emits one serpentine layer fill per z-layer.
func (c *HatchedCorner) Lower(frame motion.Frame) (*motion.Program, error) {
	p := motion.NewProgram(frame)
	n := c.StrokeCount()
	pitch := c.CorrectedPitch()

	changeStart := false
	for k := 0; k < c.LayerCount(); k++ {
		z := float64(k) * c.layerHeight
		layer, err := c.singleLayer(c.cornerCenter.Add(geom.Point3D{Z: z}), n, pitch, changeStart)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", k, err)
		}
		changeStart = !changeStart
		sub, err := layer.Lower(frame)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", k, err)
		}
		if err := p.Append(sub); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// singleLayer builds the stroke batch for one layer. Stroke i runs along
// the diagonal offset -(i - n/2)*pitch; the stroke's two arms reach out
// to the far edge offset length - width/2. Direction alternates by
// (i + changeStart) mod 2.
func (c *HatchedCorner) singleLayer(center geom.Point3D, n int, pitch float64, changeStart bool) (*PolyLineBatch, error) {
	phase := 0
	if changeStart {
		phase = 1
	}

	armReach := c.length - c.width/2
	lines := make([][]geom.Coordinate, 0, n)
	for i := 0; i < n; i++ {
		diag := -(float64(i) - float64(n)/2) * pitch

		p1 := center.AddXY(geom.Point2D{X: armReach, Y: diag}.Rotate2D(c.rotationRad))
		p2 := center.AddXY(geom.Point2D{X: diag, Y: diag}.Rotate2D(c.rotationRad))
		p3 := center.AddXY(geom.Point2D{X: diag, Y: armReach}.Rotate2D(c.rotationRad))

		if (i+phase)%2 == 0 {
			lines = append(lines, []geom.Coordinate{p1.Coordinate(), p2.Coordinate(), p3.Coordinate()})
		} else {
			lines = append(lines, []geom.Coordinate{p3.Coordinate(), p2.Coordinate(), p1.Coordinate()})
		}
	}
	return NewPolyLineBatch(lines, c.feed, c.extra)
}

// Center returns the corner center displaced halfway into the filled
// region, rotated with the corner.
func (c *HatchedCorner) Center() geom.Coordinate {
	off := (c.length - c.width) / 2
	return c.cornerCenter.AddXY(geom.Point2D{X: off, Y: off}.Rotate2D(c.rotationRad)).Coordinate()
}

// CornerRectangle marks the four corners of a rectangle with hatched
// corner fills sharing all hatch parameters. It is a pure composition:
// lowering concatenates the four corner programs with identifying
// comments, in top-left, top-right, bottom-right, bottom-left order, with
// rotations 0°, 90°, 180°, 270° respectively.
type CornerRectangle struct {
	center geom.Point3D

	topLeft     *HatchedCorner
	topRight    *HatchedCorner
	bottomRight *HatchedCorner
	bottomLeft  *HatchedCorner
}

// CornerRectangleSpec carries the construction parameters of a
// CornerRectangle.
type CornerRectangleSpec struct {
	Center          geom.Point3D
	RectangleWidth  float64
	RectangleHeight float64
	CornerLength    float64
	CornerWidth     float64
	Height          float64
	LayerHeight     float64
	HatchSize       float64
	Feed            *float64
	Extra           *float64
}

// NewCornerRectangle places and rotates the four corners.
func NewCornerRectangle(spec CornerRectangleSpec) (*CornerRectangle, error) {
	corner := func(dx, dy, rotationDeg float64) (*HatchedCorner, error) {
		return NewHatchedCorner(HatchedCornerSpec{
			CornerCenter: spec.Center.AddXY(geom.Point2D{X: dx, Y: dy}),
			Length:       spec.CornerLength,
			Width:        spec.CornerWidth,
			Height:       spec.Height,
			HatchSize:    spec.HatchSize,
			LayerHeight:  spec.LayerHeight,
			RotationDeg:  rotationDeg,
			Feed:         spec.Feed,
			Extra:        spec.Extra,
		})
	}

	w, h := spec.RectangleWidth/2, spec.RectangleHeight/2
	tl, err := corner(-w, -h, 0)
	if err != nil {
		return nil, fmt.Errorf("top left: %w", err)
	}
	tr, err := corner(w, -h, 90)
	if err != nil {
		return nil, fmt.Errorf("top right: %w", err)
	}
	br, err := corner(w, h, 180)
	if err != nil {
		return nil, fmt.Errorf("bottom right: %w", err)
	}
	bl, err := corner(-w, h, 270)
	if err != nil {
		return nil, fmt.Errorf("bottom left: %w", err)
	}

	return &CornerRectangle{
		center:      spec.Center,
		topLeft:     tl,
		topRight:    tr,
		bottomRight: br,
		bottomLeft:  bl,
	}, nil
}

// Lower concatenates the four corner programs in fixed order.
func (r *CornerRectangle) Lower(frame motion.Frame) (*motion.Program, error) {
	p := motion.NewProgram(frame)
	corners := []struct {
		name  string
		shape *HatchedCorner
	}{
		{"Top Left", r.topLeft},
		{"Top Right", r.topRight},
		{"Bottom Right", r.bottomRight},
		{"Bottom Left", r.bottomLeft},
	}
	for _, c := range corners {
		p.AddComment(fmt.Sprintf("Drawing %s corner", c.name))
		sub, err := c.shape.Lower(frame)
		if err != nil {
			return nil, fmt.Errorf("%s corner: %w", c.name, err)
		}
		if err := p.Append(sub); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Center returns the rectangle center.
func (r *CornerRectangle) Center() geom.Coordinate {
	return r.center.Coordinate()
}
