package analysis

// Material thresholds.
const (
	// SustainableRecycledContent is the recycled content percentage above
	// which a material counts as sustainable.
	SustainableRecycledContent = 50.0

	// HighCarbonThreshold flags materials whose embodied carbon factor
	// exceeds this value.
	HighCarbonThreshold = 1.0
)

// Transport thresholds.
const (
	// HighImpactEmissionsFactor flags transport legs whose emissions factor
	// exceeds this value.
	HighImpactEmissionsFactor = 0.8
)

// Energy thresholds.
const (
	// HighConsumptionThreshold flags energy sources whose consumption
	// exceeds this value.
	HighConsumptionThreshold = 3000.0

	// LowEfficiencyThreshold is the efficiency (0-1) below which equipment
	// is considered inefficient.
	LowEfficiencyThreshold = 0.7
)

// Percentage bounds.
const (
	minPercent = 0.0
	maxPercent = 100.0
	percent    = 100.0
)

// UnspecifiedGroup is the grouping key for items missing the grouped field.
const UnspecifiedGroup = "unspecified"

// renewableKeywords are matched case-insensitively against energy sources.
//
//nolint:gochecknoglobals // Constant lookup table
var renewableKeywords = []string{
	"solar", "wind", "hydro", "geothermal", "biomass",
	"tidal", "wave", "renewable", "biogas",
}

// fossilKeywords identify fossil energy sources.
//
//nolint:gochecknoglobals // Constant lookup table
var fossilKeywords = []string{"coal", "oil", "diesel", "natural gas"}
