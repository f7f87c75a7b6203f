package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanofab-data/microfab/internal/config"
	"github.com/nanofab-data/microfab/internal/draw"
)

func writeJobFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJob(t *testing.T) {
	t.Parallel()

	path := writeJobFile(t, `{
		"frame": "galvo",
		"shape": {"kind": "single_line", "start": [0, 0], "end": [10, 0, 1]}
	}`)
	job, err := LoadJob(path)
	require.NoError(t, err)
	assert.Equal(t, "galvo", job.Frame)
	assert.Equal(t, "single_line", job.Shape.Kind)
}

func TestLoadJobMissingKind(t *testing.T) {
	t.Parallel()

	path := writeJobFile(t, `{"frame": "galvo", "shape": {}}`)
	_, err := LoadJob(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing shape kind")
}

func TestBuildShapeKinds(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultWriteConfig()
	tests := []struct {
		name string
		spec ShapeSpec
		want any
	}{
		{
			"single line",
			ShapeSpec{Kind: "single_line", Start: []float64{0, 0}, End: []float64{10, 0}},
			&draw.SingleLine{},
		},
		{
			"x line sweep",
			ShapeSpec{Kind: "x_line_sweep", Y: ptr(5), Segments: [][2]float64{{0, 10}}},
			&draw.XLineSweep{},
		},
		{
			"y line sweep",
			ShapeSpec{Kind: "y_line_sweep", X: ptr(5), Segments: [][2]float64{{0, 10}}},
			&draw.YLineSweep{},
		},
		{
			"polyline",
			ShapeSpec{Kind: "polyline", Points: [][]float64{{0, 0}, {1, 1}}},
			&draw.PolyLine{},
		},
		{
			"polyline batch",
			ShapeSpec{Kind: "polyline_batch", Lines: [][][]float64{{{0, 0}, {1, 1}}}},
			&draw.PolyLineBatch{},
		},
		{
			"hatched corner",
			ShapeSpec{Kind: "hatched_corner", Center: []float64{0, 0, 0},
				Length: ptr(10), Width: ptr(5), Height: ptr(3)},
			&draw.HatchedCorner{},
		},
		{
			"corner rectangle",
			ShapeSpec{Kind: "corner_rectangle", Center: []float64{0, 0},
				RectangleWidth: ptr(100), RectangleHeight: ptr(60),
				CornerLength: ptr(10), CornerWidth: ptr(5), Height: ptr(3)},
			&draw.CornerRectangle{},
		},
		{
			"sliced rectangle",
			ShapeSpec{Kind: "sliced_rectangle", BottomLeft: []float64{0, 0},
				Width: ptr(4), Length: ptr(10), Height: ptr(3)},
			&draw.SlicedRectangle{},
		},
		{
			"circle",
			ShapeSpec{Kind: "circle", Center: []float64{0, 0}, Radius: ptr(5)},
			&draw.Circle{},
		},
		{
			"filled circle",
			ShapeSpec{Kind: "filled_circle", Center: []float64{0, 0}, RadiusStart: ptr(5)},
			&draw.FilledCircle{},
		},
		{
			"vertical probe line",
			ShapeSpec{Kind: "vertical_probe_line", Position: []float64{3, 4}},
			&draw.VerticalProbeLine{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape, err := BuildShape(tt.spec, cfg)
			require.NoError(t, err)
			assert.IsType(t, tt.want, shape)
		})
	}
}

func TestBuildShapeConfigFallbacks(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultWriteConfig()

	// A sweep without explicit kinematics picks up the config's 200/1000.
	shape, err := BuildShape(ShapeSpec{
		Kind: "x_line_sweep", Y: ptr(0), Segments: [][2]float64{{0, 10}},
	}, cfg)
	require.NoError(t, err)

	p, err := shape.Lower("stage")
	require.NoError(t, err)
	// Lead 200²/(2·1000) = 20 ahead of the first segment.
	first := p.Instructions()[0]
	assert.Contains(t, first.Text(), "X-20.0000000000")
	assert.Contains(t, first.Text(), "F200.000000")

	// The probe range falls back to the configured -5..25 µm.
	probe, err := BuildShape(ShapeSpec{
		Kind: "vertical_probe_line", Position: []float64{0, 0},
	}, cfg)
	require.NoError(t, err)
	pp, err := probe.Lower("stage")
	require.NoError(t, err)
	assert.Contains(t, pp.Instructions()[0].Text(), "Z-5.0000000000")
}

func TestBuildShapeErrors(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultWriteConfig()

	_, err := BuildShape(ShapeSpec{Kind: "warp_core"}, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown shape kind")

	_, err = BuildShape(ShapeSpec{Kind: "single_line", Start: []float64{0}, End: []float64{1, 1}}, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start")

	// A sweep needs its held lateral position; there is no config default
	// for it.
	_, err = BuildShape(ShapeSpec{Kind: "x_line_sweep", Segments: [][2]float64{{0, 10}}}, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "y")
}

func TestReadSamples(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y,z\n0,0,10\n100, 0, 10.5\n0,100,9.5\n"), 0o644))

	samples, err := readSamples(path)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, 100.0, samples[1].X)
	assert.Equal(t, 10.5, samples[1].Z)
}

func TestReadSamplesWithoutHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte("0,0,10\n1,1,11\n"), 0o644))

	samples, err := readSamples(path)
	require.NoError(t, err)
	assert.Len(t, samples, 2)
}

func TestReadSamplesBadRow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte("0,0,10\n1,oops,11\n"), 0o644))

	_, err := readSamples(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestReadSamplesShortRow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "samples.csv")
	require.NoError(t, os.WriteFile(path, []byte("0,0\n"), 0o644))

	_, err := readSamples(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want x,y,z")
}
