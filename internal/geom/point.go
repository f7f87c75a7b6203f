// Package geom provides the coordinate value types shared by the drawing
// compiler: 2D/3D points with vector arithmetic and rotation, and the
// axis-addressed Coordinate record that motion instructions target.
//
// All values are micrometres in the instrument frame unless a caller says
// otherwise; geom itself treats units as opaque.
package geom

import "math"

// Point2D is an immutable 2D point or displacement vector.
type Point2D struct {
	X float64
	Y float64
}

// Point3D is an immutable 3D point or displacement vector.
type Point3D struct {
	X float64
	Y float64
	Z float64
}

// Add returns p + q.
func (p Point2D) Add(q Point2D) Point2D {
	return Point2D{X: p.X + q.X, Y: p.Y + q.Y}
}

// Scale returns p scaled by factor.
func (p Point2D) Scale(factor float64) Point2D {
	return Point2D{X: p.X * factor, Y: p.Y * factor}
}

// Rotate2D rotates p about the origin by angleRad radians
// (counter-clockwise, standard rotation matrix).
func (p Point2D) Rotate2D(angleRad float64) Point2D {
	sin, cos := math.Sincos(angleRad)
	return Point2D{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// To3D lifts p to a 3D point at height z.
func (p Point2D) To3D(z float64) Point3D {
	return Point3D{X: p.X, Y: p.Y, Z: z}
}

// Coordinate returns the coordinate record addressing the X and Y axes.
func (p Point2D) Coordinate() Coordinate {
	return XY(p.X, p.Y)
}

// Add returns p + q.
func (p Point3D) Add(q Point3D) Point3D {
	return Point3D{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

// AddXY translates the lateral components of p by q, leaving Z unchanged.
func (p Point3D) AddXY(q Point2D) Point3D {
	return Point3D{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z}
}

// Scale returns p scaled by factor.
func (p Point3D) Scale(factor float64) Point3D {
	return Point3D{X: p.X * factor, Y: p.Y * factor, Z: p.Z * factor}
}

// Rotate2D rotates the X,Y components of p about the origin by angleRad
// radians. Z is untouched: the build surface rotates in the lateral plane
// only.
func (p Point3D) Rotate2D(angleRad float64) Point3D {
	xy := Point2D{X: p.X, Y: p.Y}.Rotate2D(angleRad)
	return Point3D{X: xy.X, Y: xy.Y, Z: p.Z}
}

// XY projects p onto the lateral plane.
func (p Point3D) XY() Point2D {
	return Point2D{X: p.X, Y: p.Y}
}

// Coordinate returns the coordinate record addressing the X, Y and Z axes.
func (p Point3D) Coordinate() Coordinate {
	return XYZ(p.X, p.Y, p.Z)
}
