// Package motion defines the instruction stream produced by the drawing
// compiler: an ordered program of linear moves, arc moves, laser gate
// switches and comments, bound to one coordinate frame. Programs are built
// incrementally by a single producer and treated as read-only once
// returned; instruction order is significant and never reordered.
package motion

import (
	"fmt"
	"strings"

	"github.com/nanofab-data/microfab/internal/geom"
)

// Instruction is one element of a motion program. The variant set is
// closed: Move, Arc, LaserGate and Comment.
type Instruction interface {
	// Text renders the instruction in the controller's program syntax,
	// one line without trailing newline.
	Text() string

	isInstruction()
}

// Move is a coordinated linear move to Target. Feed is the dependent
// (path) feed rate, Extra the independent per-axis rate; at most one of
// the two may be set.
type Move struct {
	Target geom.Coordinate
	Feed   *float64
	Extra  *float64
}

// Arc is a circular interpolation in the XY plane from the current
// position to (EndX, EndY) around the absolute center (CenterX, CenterY).
type Arc struct {
	EndX      float64
	EndY      float64
	CenterX   float64
	CenterY   float64
	Clockwise bool
	Feed      *float64
}

// LaserGate switches the writing laser. Instructions between an On gate
// and the matching Off gate are traversed with the laser exposing.
type LaserGate struct {
	On bool
}

// Comment is a free-text annotation with no motion effect.
type Comment string

func (Move) isInstruction()      {}
func (Arc) isInstruction()       {}
func (LaserGate) isInstruction() {}
func (Comment) isInstruction()   {}

// Rate returns a pointer to v, for the optional feed rate fields.
func Rate(v float64) *float64 { return &v }

// Text renders the move as a LINEAR command. Axis values use full
// precision so the controller never sees rounded targets.
func (m Move) Text() string {
	var b strings.Builder
	b.WriteString("LINEAR")
	for _, a := range m.Target.Axes() {
		v, _ := m.Target.Get(a)
		fmt.Fprintf(&b, " %s%.10f", a, v)
	}
	if m.Feed != nil {
		fmt.Fprintf(&b, " F%f", *m.Feed)
	}
	if m.Extra != nil {
		fmt.Fprintf(&b, " E%f", *m.Extra)
	}
	return b.String()
}

// Text renders the arc as a CW or CCW command with explicit center.
func (a Arc) Text() string {
	var b strings.Builder
	if a.Clockwise {
		b.WriteString("CW")
	} else {
		b.WriteString("CCW")
	}
	fmt.Fprintf(&b, " X%.10f Y%.10f I%.10f J%.10f", a.EndX, a.EndY, a.CenterX, a.CenterY)
	if a.Feed != nil {
		fmt.Fprintf(&b, " F%f", *a.Feed)
	}
	return b.String()
}

// Text renders the gate as a galvo laser override on the A axis.
func (g LaserGate) Text() string {
	if g.On {
		return "GALVO LASEROVERRIDE A ON"
	}
	return "GALVO LASEROVERRIDE A OFF"
}

// Text renders the comment with the controller's quote prefix. Empty
// comments render as blank lines.
func (c Comment) Text() string {
	if c == "" {
		return ""
	}
	return "' " + string(c)
}
