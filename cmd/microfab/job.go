package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nanofab-data/microfab/internal/config"
	"github.com/nanofab-data/microfab/internal/draw"
	"github.com/nanofab-data/microfab/internal/geom"
)

// Job is the on-disk description of one lowering request: a shape plus
// the coordinate frame its program will be bound to.
type Job struct {
	Frame string    `json:"frame"`
	Shape ShapeSpec `json:"shape"`
}

// ShapeSpec is the declarative shape description of a job file. Kind
// selects the shape; the remaining fields are interpreted per kind and
// unset kinematic fields fall back to the write config defaults.
// Coordinates are [x,y] or [x,y,z] arrays in µm.
type ShapeSpec struct {
	Kind string `json:"kind"`

	// single_line
	Start []float64 `json:"start,omitempty"`
	End   []float64 `json:"end,omitempty"`

	// x_line_sweep / y_line_sweep
	Segments     [][2]float64 `json:"segments,omitempty"`
	X            *float64     `json:"x,omitempty"`
	Y            *float64     `json:"y,omitempty"`
	Z            *float64     `json:"z,omitempty"`
	Velocity     *float64     `json:"velocity,omitempty"`
	Acceleration *float64     `json:"acceleration,omitempty"`

	// polyline / polyline_batch
	Points [][]float64   `json:"points,omitempty"`
	Lines  [][][]float64 `json:"lines,omitempty"`

	// hatched_corner / corner_rectangle / sliced_rectangle
	Center          []float64 `json:"center,omitempty"`
	BottomLeft      []float64 `json:"bottom_left,omitempty"`
	Length          *float64  `json:"length,omitempty"`
	Width           *float64  `json:"width,omitempty"`
	Height          *float64  `json:"height,omitempty"`
	HatchSize       *float64  `json:"hatch_size,omitempty"`
	LayerHeight     *float64  `json:"layer_height,omitempty"`
	RotationDeg     *float64  `json:"rotation_deg,omitempty"`
	RectangleWidth  *float64  `json:"rectangle_width,omitempty"`
	RectangleHeight *float64  `json:"rectangle_height,omitempty"`
	CornerLength    *float64  `json:"corner_length,omitempty"`
	CornerWidth     *float64  `json:"corner_width,omitempty"`

	// circle / filled_circle
	Radius      *float64 `json:"radius,omitempty"`
	RadiusStart *float64 `json:"radius_start,omitempty"`
	RadiusEnd   *float64 `json:"radius_end,omitempty"`
	Clockwise   *bool    `json:"clockwise,omitempty"`

	// vertical_probe_line
	Position []float64 `json:"position,omitempty"`
	ZMin     *float64  `json:"z_min,omitempty"`
	ZMax     *float64  `json:"z_max,omitempty"`

	// rates shared by non-sweep shapes
	Feed  *float64 `json:"feed,omitempty"`
	Extra *float64 `json:"extra,omitempty"`
}

// LoadJob reads and parses a job file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	job := &Job{}
	if err := json.Unmarshal(data, job); err != nil {
		return nil, fmt.Errorf("parse job file %s: %w", path, err)
	}
	if job.Shape.Kind == "" {
		return nil, fmt.Errorf("job file %s: missing shape kind", path)
	}
	return job, nil
}

// coordinate converts a 2- or 3-element array into a Coordinate.
func coordinate(field string, v []float64) (geom.Coordinate, error) {
	switch len(v) {
	case 2:
		return geom.XY(v[0], v[1]), nil
	case 3:
		return geom.XYZ(v[0], v[1], v[2]), nil
	}
	return geom.Coordinate{}, fmt.Errorf("%s: want [x,y] or [x,y,z], got %d values", field, len(v))
}

// point3 converts a 2- or 3-element array into a Point3D (z = 0 when
// absent).
func point3(field string, v []float64) (geom.Point3D, error) {
	switch len(v) {
	case 2:
		return geom.Point3D{X: v[0], Y: v[1]}, nil
	case 3:
		return geom.Point3D{X: v[0], Y: v[1], Z: v[2]}, nil
	}
	return geom.Point3D{}, fmt.Errorf("%s: want [x,y] or [x,y,z], got %d values", field, len(v))
}

// point2 converts a 2-element array into a Point2D.
func point2(field string, v []float64) (geom.Point2D, error) {
	if len(v) != 2 {
		return geom.Point2D{}, fmt.Errorf("%s: want [x,y], got %d values", field, len(v))
	}
	return geom.Point2D{X: v[0], Y: v[1]}, nil
}

func pick(v *float64, fallback *float64, name string) (float64, error) {
	if v != nil {
		return *v, nil
	}
	if fallback != nil {
		return *fallback, nil
	}
	return 0, fmt.Errorf("%s: not set and no config default", name)
}

// BuildShape constructs the Drawable described by spec, filling kinematic
// gaps from cfg.
func BuildShape(spec ShapeSpec, cfg *config.WriteConfig) (draw.Drawable, error) {
	feed := spec.Feed
	if feed == nil && spec.Extra == nil {
		feed = cfg.FeedRate
	}
	extra := spec.Extra
	if feed == nil && extra == nil {
		extra = cfg.ExtraRate
	}

	switch spec.Kind {
	case "single_line":
		start, err := coordinate("start", spec.Start)
		if err != nil {
			return nil, err
		}
		end, err := coordinate("end", spec.End)
		if err != nil {
			return nil, err
		}
		return draw.NewSingleLine(start, end, feed, extra)

	case "x_line_sweep", "y_line_sweep":
		velocity, err := pick(spec.Velocity, cfg.Velocity, "velocity")
		if err != nil {
			return nil, err
		}
		acceleration, err := pick(spec.Acceleration, cfg.Acceleration, "acceleration")
		if err != nil {
			return nil, err
		}
		segments := make([]draw.Segment, len(spec.Segments))
		for i, s := range spec.Segments {
			segments[i] = draw.Segment{Start: s[0], End: s[1]}
		}
		z, err := pick(spec.Z, ptr(0), "z")
		if err != nil {
			return nil, err
		}
		if spec.Kind == "x_line_sweep" {
			y, err := pick(spec.Y, nil, "y")
			if err != nil {
				return nil, err
			}
			return draw.NewXLineSweep(y, z, segments, velocity, acceleration)
		}
		x, err := pick(spec.X, nil, "x")
		if err != nil {
			return nil, err
		}
		return draw.NewYLineSweep(x, z, segments, velocity, acceleration)

	case "polyline":
		points, err := coordinates("points", spec.Points)
		if err != nil {
			return nil, err
		}
		return draw.NewPolyLine(points, feed, extra)

	case "polyline_batch":
		lines := make([][]geom.Coordinate, len(spec.Lines))
		for i, line := range spec.Lines {
			points, err := coordinates(fmt.Sprintf("lines[%d]", i), line)
			if err != nil {
				return nil, err
			}
			lines[i] = points
		}
		return draw.NewPolyLineBatch(lines, feed, extra)

	case "hatched_corner":
		center, err := point3("center", spec.Center)
		if err != nil {
			return nil, err
		}
		hatch, err := pick(spec.HatchSize, cfg.HatchSize, "hatch_size")
		if err != nil {
			return nil, err
		}
		layer, err := pick(spec.LayerHeight, cfg.LayerHeight, "layer_height")
		if err != nil {
			return nil, err
		}
		rotation := 0.0
		if spec.RotationDeg != nil {
			rotation = *spec.RotationDeg
		}
		length, err := pick(spec.Length, nil, "length")
		if err != nil {
			return nil, err
		}
		width, err := pick(spec.Width, nil, "width")
		if err != nil {
			return nil, err
		}
		height, err := pick(spec.Height, nil, "height")
		if err != nil {
			return nil, err
		}
		return draw.NewHatchedCorner(draw.HatchedCornerSpec{
			CornerCenter: center,
			Length:       length,
			Width:        width,
			Height:       height,
			HatchSize:    hatch,
			LayerHeight:  layer,
			RotationDeg:  rotation,
			Feed:         feed,
			Extra:        extra,
		})

	case "corner_rectangle":
		center, err := point3("center", spec.Center)
		if err != nil {
			return nil, err
		}
		hatch, err := pick(spec.HatchSize, cfg.HatchSize, "hatch_size")
		if err != nil {
			return nil, err
		}
		layer, err := pick(spec.LayerHeight, cfg.LayerHeight, "layer_height")
		if err != nil {
			return nil, err
		}
		rectW, err := pick(spec.RectangleWidth, nil, "rectangle_width")
		if err != nil {
			return nil, err
		}
		rectH, err := pick(spec.RectangleHeight, nil, "rectangle_height")
		if err != nil {
			return nil, err
		}
		cornerL, err := pick(spec.CornerLength, nil, "corner_length")
		if err != nil {
			return nil, err
		}
		cornerW, err := pick(spec.CornerWidth, nil, "corner_width")
		if err != nil {
			return nil, err
		}
		height, err := pick(spec.Height, nil, "height")
		if err != nil {
			return nil, err
		}
		return draw.NewCornerRectangle(draw.CornerRectangleSpec{
			Center:          center,
			RectangleWidth:  rectW,
			RectangleHeight: rectH,
			CornerLength:    cornerL,
			CornerWidth:     cornerW,
			Height:          height,
			LayerHeight:     layer,
			HatchSize:       hatch,
			Feed:            feed,
			Extra:           extra,
		})

	case "sliced_rectangle":
		bottomLeft, err := point3("bottom_left", spec.BottomLeft)
		if err != nil {
			return nil, err
		}
		hatch, err := pick(spec.HatchSize, cfg.HatchSize, "hatch_size")
		if err != nil {
			return nil, err
		}
		layer, err := pick(spec.LayerHeight, cfg.LayerHeight, "layer_height")
		if err != nil {
			return nil, err
		}
		velocity, err := pick(spec.Velocity, cfg.Velocity, "velocity")
		if err != nil {
			return nil, err
		}
		acceleration, err := pick(spec.Acceleration, cfg.Acceleration, "acceleration")
		if err != nil {
			return nil, err
		}
		width, err := pick(spec.Width, nil, "width")
		if err != nil {
			return nil, err
		}
		length, err := pick(spec.Length, nil, "length")
		if err != nil {
			return nil, err
		}
		height, err := pick(spec.Height, nil, "height")
		if err != nil {
			return nil, err
		}
		return draw.NewSlicedRectangle(draw.SlicedRectangleSpec{
			BottomLeft:   bottomLeft,
			Width:        width,
			Length:       length,
			Height:       height,
			HatchSize:    hatch,
			LayerHeight:  layer,
			Velocity:     velocity,
			Acceleration: acceleration,
		})

	case "circle":
		center, err := point3("center", spec.Center)
		if err != nil {
			return nil, err
		}
		radius, err := pick(spec.Radius, nil, "radius")
		if err != nil {
			return nil, err
		}
		return draw.NewCircle(center, radius, clockwise(spec.Clockwise), feed)

	case "filled_circle":
		center, err := point3("center", spec.Center)
		if err != nil {
			return nil, err
		}
		hatch, err := pick(spec.HatchSize, cfg.HatchSize, "hatch_size")
		if err != nil {
			return nil, err
		}
		radiusStart, err := pick(spec.RadiusStart, nil, "radius_start")
		if err != nil {
			return nil, err
		}
		radiusEnd := 0.0
		if spec.RadiusEnd != nil {
			radiusEnd = *spec.RadiusEnd
		}
		return draw.NewFilledCircle(center, radiusStart, radiusEnd, hatch, clockwise(spec.Clockwise), feed)

	case "vertical_probe_line":
		position, err := point2("position", spec.Position)
		if err != nil {
			return nil, err
		}
		zMin, err := pick(spec.ZMin, cfg.ProbeZMin, "z_min")
		if err != nil {
			return nil, err
		}
		zMax, err := pick(spec.ZMax, cfg.ProbeZMax, "z_max")
		if err != nil {
			return nil, err
		}
		return draw.NewVerticalProbeLine(position, zMin, zMax, feed)
	}

	return nil, fmt.Errorf("unknown shape kind %q", spec.Kind)
}

func coordinates(field string, points [][]float64) ([]geom.Coordinate, error) {
	out := make([]geom.Coordinate, len(points))
	for i, p := range points {
		c, err := coordinate(fmt.Sprintf("%s[%d]", field, i), p)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func clockwise(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

func ptr(v float64) *float64 { return &v }
