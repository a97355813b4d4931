package greenops

import (
	"context"
	"fmt"
	"math"

	"github.com/rshade/ecoscore/internal/logging"
)

// equivalencyDef describes how one equivalency is derived.
type equivalencyDef struct {
	kind    EquivalencyType
	factor  float64
	label   string
	compact string
}

//nolint:gochecknoglobals // Constant lookup table
var equivalencyDefs = []equivalencyDef{
	{EquivalencyMilesDriven, EPAMilesDrivenFactor, "miles driven", "mi"},
	{EquivalencySmartphonesCharged, EPASmartphoneChargeFactor, "smartphones charged", "phones"},
	{EquivalencyTreeSeedlings, EPATreeSeedlingFactor, "tree seedlings grown for 10 years", "seedlings"},
	{EquivalencyHomeDays, EPAHomeDayFactor, "days of home electricity", "home-days"},
}

// Calculate normalizes input to kilograms and computes every equivalency.
//
// Amounts below MinEquivalencyThresholdKg yield an empty output with
// InputKg set and no error. Invalid units and negative values are errors.
func Calculate(input CarbonInput) (EquivalencyOutput, error) {
	kg, err := NormalizeToKg(input.Value, input.Unit)
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}, err
	}
	if kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}, nil
	}

	results := make([]EquivalencyResult, 0, len(equivalencyDefs))
	for _, def := range equivalencyDefs {
		v := kg / def.factor
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
		}
		results = append(results, EquivalencyResult{
			Type:           def.kind,
			Value:          v,
			FormattedValue: formatEquivalencyValue(v),
			Label:          def.label,
		})
	}

	miles, phones := results[0].FormattedValue, results[1].FormattedValue
	return EquivalencyOutput{
		InputKg:     kg,
		Results:     results,
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones", miles, phones),
		CompactText: fmt.Sprintf("(≈ %s %s, %s %s)", miles, equivalencyDefs[0].compact, phones, equivalencyDefs[1].compact),
	}, nil
}

// ForEmissions computes equivalencies for a report's total emissions in
// kg CO2e. It returns nil when there is nothing worth showing; calculation
// errors are logged, not returned, since equivalencies are decorative.
func ForEmissions(ctx context.Context, totalKg float64) *EquivalencyOutput {
	out, err := Calculate(CarbonInput{Value: totalKg, Unit: "kg"})
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "greenops").
			Err(err).
			Float64("total_kg", totalKg).
			Msg("equivalency calculation failed")
		return nil
	}
	if out.IsEmpty {
		return nil
	}
	return &out
}

// formatEquivalencyValue scales values of a million or more and otherwise
// rounds to a comma-separated integer.
func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
