// Package greenops turns carbon footprints into relatable equivalencies.
//
// Report totals (kg CO2e) are expressed as miles driven, smartphones
// charged, tree seedlings grown and days of home electricity, using EPA
// published conversion factors.
package greenops

import "fmt"

// EquivalencyType represents a category of carbon emission equivalency.
type EquivalencyType int

const (
	// EquivalencyMilesDriven is miles driven in an average passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota

	// EquivalencySmartphonesCharged is full smartphone charges.
	EquivalencySmartphonesCharged

	// EquivalencyTreeSeedlings is tree seedlings grown for 10 years needed
	// to absorb the footprint.
	EquivalencyTreeSeedlings

	// EquivalencyHomeDays is days of average US home electricity use.
	EquivalencyHomeDays
)

// String returns the camelCase name used in JSON.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "milesDriven"
	case EquivalencySmartphonesCharged:
		return "smartphonesCharged"
	case EquivalencyTreeSeedlings:
		return "treeSeedlings"
	case EquivalencyHomeDays:
		return "homeDays"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", int(e))
	}
}

// MarshalText encodes the type by name.
func (e EquivalencyType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// CarbonInput is a carbon amount with its unit.
type CarbonInput struct {
	Value float64 `json:"value"`

	// Unit is one of g, kg, t, lb, optionally suffixed CO2e.
	Unit string `json:"unit"`
}

// EquivalencyResult is a single calculated equivalency.
type EquivalencyResult struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formattedValue"`
	Label          string          `json:"label"`
}

// EquivalencyOutput holds every equivalency for one carbon amount.
type EquivalencyOutput struct {
	// InputKg is the normalized input in kilograms CO2e.
	InputKg float64 `json:"inputKg"`

	Results []EquivalencyResult `json:"results"`

	// DisplayText is the prose form, e.g.
	// "Equivalent to driving ~781 miles or charging ~18,248 smartphones".
	DisplayText string `json:"displayText"`

	// CompactText is the abbreviated form, e.g. "(≈ 781 mi, 18,248 phones)".
	CompactText string `json:"compactText"`

	IsEmpty bool `json:"isEmpty"`
}
