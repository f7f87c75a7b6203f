// Package planefit characterizes tilted build-surface interfaces from
// sampled height measurements. A planar height function z = sx·x + sy·y + z0
// is fitted to scattered (x,y,z) samples by least squares; the fitted
// plane reports its tilt as a slope ratio, a polar angle and an azimuth
// angle, plus residual statistics over the sample set.
//
// Units are opaque to the fitter; the instrument feeds micrometres.
package planefit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sample is one height measurement at a lateral position.
type Sample struct {
	X float64
	Y float64
	Z float64
}

// DegenerateInputError reports a sample set that does not determine a
// plane: fewer than 3 samples, or laterally collinear samples leaving the
// design matrix rank-deficient.
type DegenerateInputError struct {
	Samples int
	Rank    int
}

func (e *DegenerateInputError) Error() string {
	if e.Samples < 3 {
		return fmt.Sprintf("plane fit needs at least 3 samples, got %d", e.Samples)
	}
	return fmt.Sprintf("plane fit over %d collinear samples (design matrix rank %d)", e.Samples, e.Rank)
}

// Plane is a fitted planar height function z = SlopeX·x + SlopeY·y + Z0
// with derived tilt and deviation statistics over the fitted sample set.
type Plane struct {
	SlopeX float64
	SlopeY float64
	Z0     float64

	// MeanDev is the Euclidean norm of the residual vector divided by
	// the sample count; MaxDev the largest absolute residual.
	MeanDev float64
	MaxDev  float64

	// TiltRatio is the dimensionless slope of the surface normal,
	// hypot(nx,ny)/nz. PolarDeg is the tilt from level in degrees
	// (0 = level); AzimuthDeg the downhill-axis direction in degrees,
	// normalized to the half-open interval (-180, 180].
	TiltRatio  float64
	PolarDeg   float64
	AzimuthDeg float64

	// SampleCount is the number of samples the plane was fitted to.
	SampleCount int
}

// Fit solves the least-squares system for the plane parameters. The
// design matrix has columns (x, y, 1) and target z; the minimum-norm
// solution is taken via SVD. Fewer than 3 samples, or a rank-deficient
// design matrix (collinear lateral positions), fail with
// DegenerateInputError.
func Fit(samples []Sample) (*Plane, error) {
	n := len(samples)
	if n < 3 {
		return nil, &DegenerateInputError{Samples: n}
	}

	a := mat.NewDense(n, 3, nil)
	b := mat.NewVecDense(n, nil)
	for i, s := range samples {
		a.Set(i, 0, s.X)
		a.Set(i, 1, s.Y)
		a.Set(i, 2, 1)
		b.SetVec(i, s.Z)
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, fmt.Errorf("plane fit: SVD factorization failed")
	}
	rank := svdRank(&svd, n)
	if rank < 3 {
		return nil, &DegenerateInputError{Samples: n, Rank: rank}
	}

	var params mat.VecDense
	svd.SolveVecTo(&params, b, rank)

	p := &Plane{
		SlopeX:      params.AtVec(0),
		SlopeY:      params.AtVec(1),
		Z0:          params.AtVec(2),
		SampleCount: n,
	}

	// Residual statistics: r = A·params - z.
	var r mat.VecDense
	r.MulVec(a, &params)
	r.SubVec(&r, b)
	p.MeanDev = mat.Norm(&r, 2) / float64(n)
	for i := 0; i < n; i++ {
		if dev := math.Abs(r.AtVec(i)); dev > p.MaxDev {
			p.MaxDev = dev
		}
	}

	// Surface normal from the cross product of two in-plane tangents,
	// evaluated at the origin and unit lateral offsets.
	p0 := p.vec(0, 0)
	t1 := sub3(p.vec(1, 0), p0)
	t2 := sub3(p.vec(0, 1), p0)
	nx, ny, nz := cross3(t1, t2)

	rxy := math.Hypot(nx, ny)
	p.TiltRatio = rxy / nz
	p.PolarDeg = math.Atan2(rxy, nz) * 180 / math.Pi
	p.AzimuthDeg = normalizeAzimuth(math.Atan2(ny, nx) * 180 / math.Pi)

	return p, nil
}

// Height evaluates the fitted plane at the given lateral position.
func (p *Plane) Height(x, y float64) float64 {
	return p.SlopeX*x + p.SlopeY*y + p.Z0
}

// Report returns the human-readable fit summary logged after interface
// characterization.
func (p *Plane) Report() string {
	return fmt.Sprintf(
		"polar angle:    %.1f° (%.2f %%)\n"+
			"azimuth angle:  %.1f°\n"+
			"mean deviation: %.3f µm (max. %.3f µm)",
		p.PolarDeg, 100*p.TiltRatio, p.AzimuthDeg, p.MeanDev, p.MaxDev)
}

// LogResults passes the report to a logger function line by line, each
// line preceded by the optional name.
func (p *Plane) LogResults(logf func(format string, args ...any), name string) {
	for _, line := range []string{
		fmt.Sprintf("polar angle:    %.1f° (%.2f %%)", p.PolarDeg, 100*p.TiltRatio),
		fmt.Sprintf("azimuth angle:  %.1f°", p.AzimuthDeg),
		fmt.Sprintf("mean deviation: %.3f µm (max. %.3f µm)", p.MeanDev, p.MaxDev),
	} {
		if name != "" {
			logf("%s %s", name, line)
		} else {
			logf("%s", line)
		}
	}
}

// vec returns the 3D point on the plane above the lateral position.
func (p *Plane) vec(x, y float64) [3]float64 {
	return [3]float64{x, y, p.Height(x, y)}
}

func sub3(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross3(a, b [3]float64) (x, y, z float64) {
	return a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]
}

// normalizeAzimuth maps a degree angle into (-180, 180] with a modulo
// formula, so a straight -x normal reports +180 rather than -180.
func normalizeAzimuth(deg float64) float64 {
	return 180 - math.Mod(180-deg, 360)
}

// svdRank counts singular values above the conventional cutoff
// max(m,n)·eps·sigma_max.
func svdRank(svd *mat.SVD, rows int) int {
	values := svd.Values(nil)
	if len(values) == 0 {
		return 0
	}
	tol := float64(max(rows, 3)) * 2.220446049250313e-16 * values[0]
	rank := 0
	for _, v := range values {
		if v > tol {
			rank++
		}
	}
	return rank
}
