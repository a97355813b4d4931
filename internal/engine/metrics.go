package engine

import (
	"math"

	"github.com/rshade/ecoscore/internal/analysis"
	"github.com/rshade/ecoscore/internal/ingest"
	"github.com/rshade/ecoscore/internal/suggest"
)

// Scoring constants.
const (
	// BaselineScore is the score before any category contribution.
	BaselineScore = 50.0

	MaterialWeight  = 10.0
	TransportWeight = 10.0
	EnergyWeight    = 15.0

	// LowFractionThreshold is the sustainable fraction below which a
	// category is listed as an improvement area.
	LowFractionThreshold = 0.3

	// Reference footprints for carbon savings estimation.
	MaterialCarbonReference  = 1.0
	TransportCarbonReference = 1.0
	EnergyCarbonReference    = 0.5

	maxScore = 100.0
)

// Improvement area labels.
const (
	AreaMaterialData   = "Material data collection"
	AreaTransportData  = "Transport data collection"
	AreaEnergyData     = "Energy data collection"
	AreaMaterialChoice = "Material selection"
	AreaTransport      = "Transport efficiency"
	AreaRenewable      = "Renewable energy adoption"
)

// Benchmark constants.
const (
	IndustryAverageScore    = 55.0
	BestInClassScore        = 85.0
	benchmarkScoreDeviation = 15.0
)

// Regulatory compliance thresholds.
const (
	ComplianceScoreThreshold        = 70.0
	PartialComplianceScoreThreshold = 50.0
	ComplianceCompletenessThreshold = 0.6
)

// RegulatoryStandards are the standards compliance is assessed against.
//
//nolint:gochecknoglobals // Constant lookup table
var RegulatoryStandards = []string{
	"ISO 14001",
	"ISO 14040/14044",
	"EN 15978",
	"GHG Protocol",
}

// categoryInputs bundles the prepared items and their analyses.
type categoryInputs struct {
	materials []ingest.Material
	transport []ingest.Transport
	energy    []ingest.Energy

	materialAnalysis  analysis.MaterialAnalysis
	transportAnalysis analysis.TransportAnalysis
	energyAnalysis    analysis.EnergyAnalysis
}

// aggregateMetrics combines the category analyses into the metrics block.
// suggestions feed the non-carbon savings estimates.
func aggregateMetrics(in categoryInputs, suggestions []suggest.Suggestion) Metrics {
	m := Metrics{
		SustainabilityScore: BaselineScore,
		ImprovementAreas:    []string{},
	}

	type category struct {
		count     int
		fraction  float64
		weight    float64
		noData    string
		lowScore  string
		scoreSlot **float64
	}
	categories := []category{
		{len(in.materials), in.materialAnalysis.SustainableFraction, MaterialWeight, AreaMaterialData, AreaMaterialChoice, &m.MaterialScore},
		{len(in.transport), in.transportAnalysis.SustainableFraction, TransportWeight, AreaTransportData, AreaTransport, &m.TransportScore},
		{len(in.energy), in.energyAnalysis.SustainableFraction, EnergyWeight, AreaEnergyData, AreaRenewable, &m.EnergyScore},
	}

	for _, c := range categories {
		if c.count == 0 {
			m.ImprovementAreas = append(m.ImprovementAreas, c.noData)
			continue
		}
		m.SustainabilityScore += c.fraction * c.weight
		score := clamp(c.fraction*maxScore, 0, maxScore)
		*c.scoreSlot = &score
		if c.fraction < LowFractionThreshold {
			m.ImprovementAreas = append(m.ImprovementAreas, c.lowScore)
		}
	}

	m.SustainabilityScore = clamp(m.SustainabilityScore, 0, maxScore)
	m.EstimatedCarbonSavings = carbonSavings(in)

	best := suggest.MaxSavings(suggestions)
	m.EstimatedCostSavings = positiveFraction(best.Cost)
	m.EstimatedWaterSavings = positiveFraction(best.Water)
	m.EstimatedEnergyReduction = positiveFraction(best.Energy)
	m.EstimatedWasteReduction = positiveFraction(best.Waste)

	return m
}

// carbonSavings sums how far each item's footprint sits below its category
// reference, clamped to [0,1].
func carbonSavings(in categoryInputs) float64 {
	var total float64
	for _, m := range in.materials {
		if m.EmbodiedCarbon != nil {
			total += math.Max(0, MaterialCarbonReference-*m.EmbodiedCarbon)
		}
	}
	for _, t := range in.transport {
		if t.EmissionsFactor != nil {
			total += math.Max(0, TransportCarbonReference-*t.EmissionsFactor)
		}
	}
	for _, e := range in.energy {
		if e.CarbonIntensity != nil {
			total += math.Max(0, EnergyCarbonReference-*e.CarbonIntensity)
		}
	}
	return clamp(total, 0, 1)
}

// benchmark fills the industry comparison fields.
func benchmark(m *Metrics) {
	avg, best := IndustryAverageScore, BestInClassScore
	m.IndustryAverage = &avg
	m.BestInClass = &best
	percentile := percentileRanking(m.SustainabilityScore)
	m.PercentileRanking = &percentile
}

// percentileRanking places score on a normal distribution around the
// industry average.
func percentileRanking(score float64) float64 {
	z := (score - IndustryAverageScore) / benchmarkScoreDeviation
	cdf := 0.5 * (1 + math.Erf(z/math.Sqrt2))
	return clamp(cdf*maxScore, 0, maxScore)
}

// regulatoryCompliance rates the report against RegulatoryStandards.
func regulatoryCompliance(m Metrics, completeness float64) *RegulatoryCompliance {
	status := ComplianceNonCompliant
	switch {
	case m.SustainabilityScore >= ComplianceScoreThreshold && completeness >= ComplianceCompletenessThreshold:
		status = ComplianceCompliant
	case m.SustainabilityScore >= PartialComplianceScoreThreshold:
		status = CompliancePartiallyCompliant
	}

	gaps := make([]string, 0, len(m.ImprovementAreas)+1)
	for _, area := range m.ImprovementAreas {
		gaps = append(gaps, "Improve "+lowerFirst(area))
	}
	if completeness < ComplianceCompletenessThreshold {
		gaps = append(gaps, "Raise data completeness to at least 60% for verified reporting")
	}

	standards := make([]string, len(RegulatoryStandards))
	copy(standards, RegulatoryStandards)

	return &RegulatoryCompliance{Status: status, Standards: standards, Gaps: gaps}
}

func positiveFraction(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	v = clamp(v, 0, 1)
	return &v
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
