package draw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanofab-data/microfab/internal/geom"
	"github.com/nanofab-data/microfab/internal/motion"
	"github.com/nanofab-data/microfab/internal/testutil"
)

func testCornerSpec() HatchedCornerSpec {
	return HatchedCornerSpec{
		CornerCenter: geom.Point3D{},
		Length:       10,
		Width:        5,
		Height:       3,
		HatchSize:    0.5,
		LayerHeight:  0.75,
		Feed:         motion.Rate(2000),
	}
}

func TestHatchedCornerCounts(t *testing.T) {
	t.Parallel()

	c, err := NewHatchedCorner(testCornerSpec())
	require.NoError(t, err)

	assert.Equal(t, 11, c.StrokeCount())
	assert.Equal(t, 0.5, c.CorrectedPitch())
	assert.Equal(t, 4, c.LayerCount())
}

func TestHatchedCornerPitchCorrection(t *testing.T) {
	t.Parallel()

	// A hatch size that does not divide the width gets recomputed so the
	// strokes span it exactly.
	spec := testCornerSpec()
	spec.HatchSize = 0.6
	c, err := NewHatchedCorner(spec)
	require.NoError(t, err)

	assert.Equal(t, 9, c.StrokeCount())
	assert.InDelta(t, 0.625, c.CorrectedPitch(), 1e-12)
}

func TestHatchedCornerLayers(t *testing.T) {
	t.Parallel()

	c, err := NewHatchedCorner(testCornerSpec())
	require.NoError(t, err)

	p, err := c.Lower("galvo")
	require.NoError(t, err)
	testutil.AssertGatesWellFormed(t, p)

	moves := testutil.Moves(p)
	// 4 layers of 11 three-point strokes.
	require.Len(t, moves, 4*11*3)

	// Every move of layer k sits at z = k * layerHeight.
	for k := 0; k < 4; k++ {
		for j := 0; j < 33; j++ {
			testutil.AssertAxis(t, moves[k*33+j].Target, geom.AxisZ, float64(k)*0.75)
		}
	}
}

func TestHatchedCornerSerpentine(t *testing.T) {
	t.Parallel()

	c, err := NewHatchedCorner(testCornerSpec())
	require.NoError(t, err)

	p, err := c.Lower("galvo")
	require.NoError(t, err)
	moves := testutil.Moves(p)

	// Stroke 0 of layer 0: diagonal offset 2.75, arm reach 10 - 5/2 = 7.5.
	// Even strokes run arm-first.
	testutil.AssertAxis(t, moves[0].Target, geom.AxisX, 7.5)
	testutil.AssertAxis(t, moves[0].Target, geom.AxisY, 2.75)
	testutil.AssertAxis(t, moves[1].Target, geom.AxisX, 2.75)
	testutil.AssertAxis(t, moves[1].Target, geom.AxisY, 2.75)
	testutil.AssertAxis(t, moves[2].Target, geom.AxisX, 2.75)
	testutil.AssertAxis(t, moves[2].Target, geom.AxisY, 7.5)

	// Stroke 1 of layer 0 reverses: it starts on the far arm.
	testutil.AssertAxis(t, moves[3].Target, geom.AxisX, 2.25)
	testutil.AssertAxis(t, moves[3].Target, geom.AxisY, 7.5)

	// Layer 1 flips the alternation phase, so its stroke 0 also starts on
	// the far arm.
	testutil.AssertAxis(t, moves[33].Target, geom.AxisX, 2.75)
	testutil.AssertAxis(t, moves[33].Target, geom.AxisY, 7.5)
	testutil.AssertAxis(t, moves[33].Target, geom.AxisZ, 0.75)
}

func TestHatchedCornerRotation(t *testing.T) {
	t.Parallel()

	spec := testCornerSpec()
	spec.RotationDeg = 90
	c, err := NewHatchedCorner(spec)
	require.NoError(t, err)

	p, err := c.Lower("galvo")
	require.NoError(t, err)
	moves := testutil.Moves(p)

	// (7.5, 2.75) rotated by 90° is (-2.75, 7.5).
	testutil.AssertAxis(t, moves[0].Target, geom.AxisX, -2.75)
	testutil.AssertAxis(t, moves[0].Target, geom.AxisY, 7.5)
}

func TestHatchedCornerValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*HatchedCornerSpec)
	}{
		{"zero hatch", func(s *HatchedCornerSpec) { s.HatchSize = 0 }},
		{"negative layer height", func(s *HatchedCornerSpec) { s.LayerHeight = -1 }},
		{"zero width", func(s *HatchedCornerSpec) { s.Width = 0 }},
		{"both rates", func(s *HatchedCornerSpec) { s.Extra = motion.Rate(0.5) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testCornerSpec()
			tt.mutate(&spec)
			_, err := NewHatchedCorner(spec)
			assert.Error(t, err)
		})
	}
}

func TestHatchedCornerCenter(t *testing.T) {
	t.Parallel()

	spec := testCornerSpec()
	spec.CornerCenter = geom.Point3D{X: 1, Y: 2, Z: 3}
	c, err := NewHatchedCorner(spec)
	require.NoError(t, err)

	// Offset (length-width)/2 = 2.5 into the fill, unrotated.
	center := c.Center()
	testutil.AssertAxis(t, center, geom.AxisX, 3.5)
	testutil.AssertAxis(t, center, geom.AxisY, 4.5)
	testutil.AssertAxis(t, center, geom.AxisZ, 3)
}

func TestCornerRectangleOrder(t *testing.T) {
	t.Parallel()

	r, err := NewCornerRectangle(CornerRectangleSpec{
		Center:          geom.Point3D{},
		RectangleWidth:  100,
		RectangleHeight: 60,
		CornerLength:    10,
		CornerWidth:     5,
		Height:          0.5,
		LayerHeight:     0.75,
		HatchSize:       0.5,
		Feed:            motion.Rate(2000),
	})
	require.NoError(t, err)

	p, err := r.Lower("galvo")
	require.NoError(t, err)
	testutil.AssertGatesWellFormed(t, p)

	var cornerComments []string
	for _, instr := range p.Instructions() {
		c, ok := instr.(motion.Comment)
		if !ok {
			continue
		}
		if len(c) > 7 && c[:7] == "Drawing" {
			cornerComments = append(cornerComments, string(c))
		}
	}
	assert.Equal(t, []string{
		"Drawing Top Left corner",
		"Drawing Top Right corner",
		"Drawing Bottom Right corner",
		"Drawing Bottom Left corner",
	}, cornerComments)
}

func TestCornerRectanglePlacement(t *testing.T) {
	t.Parallel()

	r, err := NewCornerRectangle(CornerRectangleSpec{
		Center:          geom.Point3D{},
		RectangleWidth:  100,
		RectangleHeight: 60,
		CornerLength:    10,
		CornerWidth:     5,
		Height:          0.5,
		LayerHeight:     0.75,
		HatchSize:       0.5,
		Feed:            motion.Rate(2000),
	})
	require.NoError(t, err)

	// Each corner's center is pushed toward the rectangle center by its
	// rotation: the filled regions all point inward.
	tl := r.topLeft.Center()
	testutil.AssertAxis(t, tl, geom.AxisX, -50+2.5)
	testutil.AssertAxis(t, tl, geom.AxisY, -30+2.5)

	br := r.bottomRight.Center()
	testutil.AssertAxis(t, br, geom.AxisX, 50-2.5)
	testutil.AssertAxis(t, br, geom.AxisY, 30-2.5)

	center := r.Center()
	testutil.AssertAxis(t, center, geom.AxisX, 0)
	testutil.AssertAxis(t, center, geom.AxisY, 0)
}
