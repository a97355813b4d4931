package greenops

import (
	"math"
	"strings"
)

// unitFactor returns the kilogram conversion factor for unit,
// case-insensitively.
func unitFactor(unit string) (float64, bool) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(unit)), "co2e") {
	case "g":
		return GramsToKg, true
	case "kg", "":
		return KgToKg, true
	case "t", "tonne", "tonnes":
		return TonsToKg, true
	case "lb", "lbs":
		return PoundsToKg, true
	default:
		return 0, false
	}
}

// NormalizeToKg converts a carbon amount to kilograms. An empty unit means
// kilograms.
func NormalizeToKg(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}

	factor, ok := unitFactor(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}

	result := value * factor
	if math.IsInf(result, 0) {
		return 0, ErrCalculationOverflow
	}
	return result, nil
}

// IsRecognizedUnit reports whether unit is a supported carbon unit.
func IsRecognizedUnit(unit string) bool {
	_, ok := unitFactor(unit)
	return ok
}
