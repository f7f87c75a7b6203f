// Package preview renders lowered motion programs for visual inspection
// before they are handed to the instrument: a PNG of the lateral toolpath
// and an HTML chart of the exposed points. Previews are diagnostics; the
// rendered text program stays the only executable artifact.
package preview

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/nanofab-data/microfab/internal/geom"
	"github.com/nanofab-data/microfab/internal/motion"
)

// arcSteps is the polyline resolution used to preview arc instructions.
const arcSteps = 64

// pathSegment is one straight XY piece of the toolpath.
type pathSegment struct {
	x0, y0, x1, y1 float64
	exposed        bool
}

// tracePath walks the program and collects lateral path segments,
// tracking per-axis position state (moves may command a subset of axes)
// and the laser gate.
func tracePath(p *motion.Program) []pathSegment {
	var segments []pathSegment
	var cur geom.Coordinate
	exposed := false

	xy := func(c geom.Coordinate) (x, y float64, ok bool) {
		x, okX := c.Get(geom.AxisX)
		y, okY := c.Get(geom.AxisY)
		return x, y, okX && okY
	}

	for _, instr := range p.Instructions() {
		switch in := instr.(type) {
		case motion.LaserGate:
			exposed = in.On
		case motion.Move:
			next := cur.Merge(in.Target)
			x0, y0, ok0 := xy(cur)
			x1, y1, ok1 := xy(next)
			if ok0 && ok1 && (x0 != x1 || y0 != y1) {
				segments = append(segments, pathSegment{x0, y0, x1, y1, exposed})
			}
			cur = next
		case motion.Arc:
			x0, y0, ok0 := xy(cur)
			if ok0 {
				segments = append(segments, arcSegments(x0, y0, in, exposed)...)
			}
			cur = cur.With(geom.AxisX, in.EndX).With(geom.AxisY, in.EndY)
		}
	}
	return segments
}

// arcSegments approximates the arc from (x0,y0) to its endpoint as short
// chords. A full circle (endpoint equal to start) traverses 360°.
func arcSegments(x0, y0 float64, a motion.Arc, exposed bool) []pathSegment {
	r := math.Hypot(x0-a.CenterX, y0-a.CenterY)
	if r == 0 {
		return nil
	}
	start := math.Atan2(y0-a.CenterY, x0-a.CenterX)
	end := math.Atan2(a.EndY-a.CenterY, a.EndX-a.CenterX)

	sweep := end - start
	if a.Clockwise {
		for sweep >= 0 {
			sweep -= 2 * math.Pi
		}
	} else {
		for sweep <= 0 {
			sweep += 2 * math.Pi
		}
	}

	segments := make([]pathSegment, 0, arcSteps)
	px, py := x0, y0
	for i := 1; i <= arcSteps; i++ {
		theta := start + sweep*float64(i)/arcSteps
		nx := a.CenterX + r*math.Cos(theta)
		ny := a.CenterY + r*math.Sin(theta)
		segments = append(segments, pathSegment{px, py, nx, ny, exposed})
		px, py = nx, ny
	}
	return segments
}

// PlotXY saves a PNG of the program's lateral toolpath. Exposed (laser
// on) travel is drawn solid, positioning travel dashed and light.
func PlotXY(prog *motion.Program, path string) error {
	segments := tracePath(prog)
	if len(segments) == 0 {
		return fmt.Errorf("program has no lateral travel to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Toolpath (frame %s)", prog.Frame())
	p.X.Label.Text = "X (µm)"
	p.Y.Label.Text = "Y (µm)"

	exposedColor := color.RGBA{R: 0xd6, G: 0x28, B: 0x28, A: 0xff}
	travelColor := color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}

	for _, seg := range segments {
		line, err := plotter.NewLine(plotter.XYs{
			{X: seg.x0, Y: seg.y0},
			{X: seg.x1, Y: seg.y1},
		})
		if err != nil {
			return err
		}
		if seg.exposed {
			line.Color = exposedColor
			line.Width = vg.Points(1.5)
		} else {
			line.Color = travelColor
			line.Width = vg.Points(0.75)
			line.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
		}
		p.Add(line)
	}

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save toolpath plot %s: %w", path, err)
	}
	return nil
}
