// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"testing"

	"github.com/nanofab-data/microfab/internal/geom"
	"github.com/nanofab-data/microfab/internal/motion"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInDelta checks that got is within delta of want.
func AssertInDelta(t *testing.T, got, want, delta float64) {
	t.Helper()
	if math.Abs(got-want) > delta {
		t.Errorf("got %g, want %g (±%g)", got, want, delta)
	}
}

// AssertGatesWellFormed checks the laser gate pairing invariant on a
// lowered program.
func AssertGatesWellFormed(t *testing.T, p *motion.Program) {
	t.Helper()
	if err := p.ValidateGates(); err != nil {
		t.Errorf("gate invariant violated: %v", err)
	}
}

// AssertAxis checks that the coordinate addresses axis a with value want.
func AssertAxis(t *testing.T, c geom.Coordinate, a geom.Axis, want float64) {
	t.Helper()
	v, ok := c.Get(a)
	if !ok {
		t.Errorf("axis %s not addressed in %s", a, c)
		return
	}
	if math.Abs(v-want) > 1e-9 {
		t.Errorf("axis %s = %g, want %g", a, v, want)
	}
}

// Moves extracts the Move instructions of a program in order.
func Moves(p *motion.Program) []motion.Move {
	var moves []motion.Move
	for _, instr := range p.Instructions() {
		if m, ok := instr.(motion.Move); ok {
			moves = append(moves, m)
		}
	}
	return moves
}

// Gates extracts the LaserGate instructions of a program in order.
func Gates(p *motion.Program) []motion.LaserGate {
	var gates []motion.LaserGate
	for _, instr := range p.Instructions() {
		if g, ok := instr.(motion.LaserGate); ok {
			gates = append(gates, g)
		}
	}
	return gates
}
