package engine

import (
	"time"

	"github.com/rshade/ecoscore/internal/analysis"
	"github.com/rshade/ecoscore/internal/greenops"
	"github.com/rshade/ecoscore/internal/lifecycle"
	"github.com/rshade/ecoscore/internal/suggest"
)

// Compliance statuses.
const (
	ComplianceCompliant          = "compliant"
	CompliancePartiallyCompliant = "partially-compliant"
	ComplianceNonCompliant       = "non-compliant"
)

// RegulatoryCompliance summarizes readiness against reporting standards.
type RegulatoryCompliance struct {
	Status    string   `json:"status"`
	Standards []string `json:"standards"`
	Gaps      []string `json:"gaps"`
}

// Metrics is the aggregated scoring block. Fractions are in [0,1] and
// scores in [0,100]; optional fields are nil when not computed.
type Metrics struct {
	SustainabilityScore    float64 `json:"sustainabilityScore"`
	EstimatedCarbonSavings float64 `json:"estimatedCarbonSavings"`

	EstimatedCostSavings     *float64 `json:"estimatedCostSavings,omitempty"`
	EstimatedWaterSavings    *float64 `json:"estimatedWaterSavings,omitempty"`
	EstimatedEnergyReduction *float64 `json:"estimatedEnergyReduction,omitempty"`
	EstimatedWasteReduction  *float64 `json:"estimatedWasteReduction,omitempty"`

	MaterialScore  *float64 `json:"materialScore,omitempty"`
	TransportScore *float64 `json:"transportScore,omitempty"`
	EnergyScore    *float64 `json:"energyScore,omitempty"`

	ImprovementAreas []string `json:"improvementAreas"`

	IndustryAverage      *float64              `json:"industryAverage,omitempty"`
	BestInClass          *float64              `json:"bestInClass,omitempty"`
	PercentileRanking    *float64              `json:"percentileRanking,omitempty"`
	RegulatoryCompliance *RegulatoryCompliance `json:"regulatoryCompliance,omitempty"`
}

// CircularEconomyBlock is the circular-economy section of a report.
type CircularEconomyBlock struct {
	lifecycle.CircularMetrics

	Recommendations []lifecycle.CircularRecommendation `json:"recommendations,omitempty"`
}

// Report is a sustainability report. It is never mutated after assembly.
type Report struct {
	ReportID  string    `json:"reportId"`
	Timestamp time.Time `json:"timestamp"`
	Format    Format    `json:"format"`

	// Suggestions are the suggestion texts, in rule table order.
	Suggestions []string `json:"suggestions"`

	// DetailedSuggestions carry impact, savings, timeframe and complexity
	// when implementation details are requested.
	DetailedSuggestions []suggest.Suggestion `json:"detailedSuggestions,omitempty"`

	Metrics          Metrics `json:"metrics"`
	Summary          string  `json:"summary"`
	DataCompleteness float64 `json:"dataCompleteness"`

	MaterialAnalysis    *analysis.MaterialAnalysis  `json:"materialAnalysis,omitempty"`
	TransportAnalysis   *analysis.TransportAnalysis `json:"transportAnalysis,omitempty"`
	EnergyAnalysis      *analysis.EnergyAnalysis    `json:"energyAnalysis,omitempty"`
	CarbonEquivalencies *greenops.EquivalencyOutput `json:"carbonEquivalencies,omitempty"`
	TotalEmissionsKg    *float64                    `json:"totalEmissionsKg,omitempty"`

	LifecycleAssessment    *lifecycle.Assessment   `json:"lifecycleAssessment,omitempty"`
	CircularEconomyMetrics *CircularEconomyBlock   `json:"circularEconomyMetrics,omitempty"`
	LifecycleCostAnalysis  *lifecycle.CostAnalysis `json:"lifecycleCostAnalysis,omitempty"`
}

// Stats describes how a report was computed. It is not part of the report.
type Stats struct {
	// Batches is the number of material batches processed.
	Batches int

	// MaterialCount is the number of materials after preparation.
	MaterialCount int

	// FactorsApplied counts materials whose embodied carbon came from the
	// factor source.
	FactorsApplied int
}
