package units

import (
	"math"
	"testing"
)

func TestIsValid(t *testing.T) {
	t.Parallel()

	for _, unit := range ValidUnits {
		if !IsValid(unit) {
			t.Errorf("IsValid(%q) = false", unit)
		}
	}
	for _, unit := range []string{"", "km", "UM", "micron"} {
		if IsValid(unit) {
			t.Errorf("IsValid(%q) = true", unit)
		}
	}
}

func TestConvertLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		lengthUM float64
		target   string
		want     float64
	}{
		{"um passthrough", 1500, UM, 1500},
		{"um to mm", 1500, MM, 1.5},
		{"um to nm", 1.5, NM, 1500},
		{"unknown unit defaults to um", 42, "furlong", 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvertLength(tt.lengthUM, tt.target); got != tt.want {
				t.Errorf("ConvertLength(%g, %s) = %g, want %g", tt.lengthUM, tt.target, got, tt.want)
			}
		})
	}
}

func TestAngleConversions(t *testing.T) {
	t.Parallel()

	if got := Degrees(math.Pi); got != 180 {
		t.Errorf("Degrees(pi) = %g, want 180", got)
	}
	if got := Radians(180); got != math.Pi {
		t.Errorf("Radians(180) = %g, want pi", got)
	}
	if got := Degrees(Radians(37.5)); math.Abs(got-37.5) > 1e-12 {
		t.Errorf("round trip = %g, want 37.5", got)
	}
}
