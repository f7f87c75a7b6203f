// Package units provides shared constants and validation for length units
package units

import "math"

// Unit constants
const (
	UM = "um"
	MM = "mm"
	NM = "nm"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{UM, MM, NM}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "um, mm, nm"
}

// ConvertLength converts a length from micrometres to the target units.
// Programs and plane fits are expressed in µm (micrometres)
func ConvertLength(lengthUM float64, targetUnits string) float64 {
	switch targetUnits {
	case MM:
		return lengthUM / 1000.0 // µm to mm
	case NM:
		return lengthUM * 1000.0 // µm to nm
	case UM:
		return lengthUM // no conversion needed
	default:
		return lengthUM // default to µm if unknown unit
	}
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
