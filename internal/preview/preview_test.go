package preview

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nanofab-data/microfab/internal/geom"
	"github.com/nanofab-data/microfab/internal/motion"
)

func gatedSquare(t *testing.T) *motion.Program {
	t.Helper()
	p := motion.NewProgram("galvo")
	mustMove := func(c geom.Coordinate) {
		if err := p.Move(c, nil, nil); err != nil {
			t.Fatal(err)
		}
	}
	mustMove(geom.XY(0, 0))
	p.Gate(true)
	mustMove(geom.XY(10, 0))
	mustMove(geom.XY(10, 10))
	mustMove(geom.XY(0, 10))
	mustMove(geom.XY(0, 0))
	p.Gate(false)
	return p
}

func TestTracePathGateState(t *testing.T) {
	t.Parallel()

	segments := tracePath(gatedSquare(t))
	if len(segments) != 4 {
		t.Fatalf("len = %d, want 4", len(segments))
	}
	for i, seg := range segments {
		if !seg.exposed {
			t.Errorf("segment %d not exposed", i)
		}
	}
}

func TestTracePathMergesPartialMoves(t *testing.T) {
	t.Parallel()

	p := motion.NewProgram("stage")
	if err := p.Move(geom.XYZ(1, 2, 3), nil, nil); err != nil {
		t.Fatal(err)
	}
	// A Z-only move has no lateral travel and produces no segment; the
	// following X-only move inherits the last known Y.
	if err := p.Move(geom.Coordinate{}.With(geom.AxisZ, 5), nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := p.Move(geom.Coordinate{}.With(geom.AxisX, 7), nil, nil); err != nil {
		t.Fatal(err)
	}

	segments := tracePath(p)
	if len(segments) != 1 {
		t.Fatalf("len = %d, want 1", len(segments))
	}
	seg := segments[0]
	if seg.x0 != 1 || seg.y0 != 2 || seg.x1 != 7 || seg.y1 != 2 {
		t.Errorf("segment = %+v, want (1,2)->(7,2)", seg)
	}
	if seg.exposed {
		t.Error("ungated travel marked exposed")
	}
}

func TestTracePathFullCircleArc(t *testing.T) {
	t.Parallel()

	p := motion.NewProgram("galvo")
	if err := p.Move(geom.XY(5, 0), nil, nil); err != nil {
		t.Fatal(err)
	}
	p.Gate(true)
	p.Add(motion.Arc{EndX: 5, EndY: 0, CenterX: 0, CenterY: 0, Clockwise: true})
	p.Gate(false)

	segments := tracePath(p)
	if len(segments) != arcSteps {
		t.Fatalf("len = %d, want %d", len(segments), arcSteps)
	}
	// Every chord endpoint stays on the radius.
	for i, seg := range segments {
		if r := math.Hypot(seg.x1, seg.y1); math.Abs(r-5) > 1e-9 {
			t.Errorf("chord %d endpoint off the circle: r = %g", i, r)
		}
	}
	last := segments[len(segments)-1]
	if math.Abs(last.x1-5) > 1e-9 || math.Abs(last.y1) > 1e-9 {
		t.Errorf("arc does not close at the entry point: (%g, %g)", last.x1, last.y1)
	}
}

func TestPlotXY(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "toolpath.png")
	if err := PlotXY(gatedSquare(t), path); err != nil {
		t.Fatalf("PlotXY: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("empty plot file")
	}
}

func TestPlotXYEmptyProgram(t *testing.T) {
	t.Parallel()

	p := motion.NewProgram("galvo")
	if err := PlotXY(p, filepath.Join(t.TempDir(), "empty.png")); err == nil {
		t.Error("expected error for program without lateral travel")
	}
}

func TestWriteHTML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "toolpath.html")
	if err := WriteHTML(gatedSquare(t), path); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "Exposed Toolpath") {
		t.Error("chart title missing from rendered HTML")
	}
}

func TestWriteHTMLNoExposure(t *testing.T) {
	t.Parallel()

	p := motion.NewProgram("galvo")
	if err := p.Move(geom.XY(0, 0), nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := p.Move(geom.XY(1, 1), nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := WriteHTML(p, filepath.Join(t.TempDir(), "none.html")); err == nil {
		t.Error("expected error for program without exposed travel")
	}
}
