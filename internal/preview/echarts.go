package preview

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/nanofab-data/microfab/internal/motion"
)

// WriteHTML renders an interactive scatter of the program's exposed
// segment endpoints to a standalone HTML file. The third value of each
// point is the segment's order index, so the visual map shows write
// order as a color ramp.
func WriteHTML(prog *motion.Program, path string) error {
	segments := tracePath(prog)

	data := make([]opts.ScatterData, 0, len(segments))
	maxAbs := 0.0
	order := 0
	for _, seg := range segments {
		if !seg.exposed {
			continue
		}
		for _, pt := range [][2]float64{{seg.x0, seg.y0}, {seg.x1, seg.y1}} {
			maxAbs = math.Max(maxAbs, math.Max(math.Abs(pt[0]), math.Abs(pt[1])))
			data = append(data, opts.ScatterData{Value: []interface{}{pt[0], pt[1], order}})
		}
		order++
	}
	if len(data) == 0 {
		return fmt.Errorf("program has no exposed travel to chart")
	}

	// Small padding so edge points stay visible; square axes keep the
	// geometry undistorted.
	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Toolpath Preview",
			Theme:     "dark",
			Width:     "900px",
			Height:    "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Exposed Toolpath",
			Subtitle: fmt.Sprintf("frame=%s points=%d", prog.Frame(), len(data)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (µm)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (µm)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(order),
			Text:       []string{"last", "first"},
		}),
	)
	scatter.AddSeries("exposed", data,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}),
	)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file %s: %w", path, err)
	}
	defer f.Close()
	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
