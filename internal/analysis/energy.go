package analysis

import (
	"strings"

	"github.com/rshade/ecoscore/internal/ingest"
)

// EnergyAnalysis is the detailed block for energy sources.
type EnergyAnalysis struct {
	Count int `json:"count"`

	TotalConsumption float64 `json:"totalConsumption"`
	TotalCost        float64 `json:"totalCost"`
	TotalEmissions   float64 `json:"totalEmissions"`

	AverageCarbonIntensity float64 `json:"averageCarbonIntensity"`
	AverageEfficiency      float64 `json:"averageEfficiency"`

	RenewablePercentage   float64 `json:"renewablePercentage"`
	SustainablePercentage float64 `json:"sustainablePercentage"`
	SustainableFraction   float64 `json:"sustainableFraction"`

	ConsumptionBySource    map[string]float64 `json:"consumptionBySource"`
	ConsumptionByUnit      map[string]float64 `json:"consumptionByUnit"`
	HighConsumptionSources []string           `json:"highConsumptionSources"`
	FossilSources          []string           `json:"fossilSources"`

	DataCompleteness float64 `json:"dataCompleteness"`
}

// IsRenewableSource reports whether source names a renewable technology.
func IsRenewableSource(source string) bool {
	return containsAny(strings.ToLower(source), renewableKeywords)
}

// IsFossilSource reports whether source names a fossil fuel.
func IsFossilSource(source string) bool {
	return containsAny(strings.ToLower(source), fossilKeywords)
}

// IsSustainableEnergy reports whether e is flagged renewable or its source
// names a renewable technology.
func IsSustainableEnergy(e ingest.Energy) bool {
	return isTrue(e.Renewable) || IsRenewableSource(e.Source)
}

// NormalizeEfficiency maps an efficiency to [0,1]. Values above 1 are read
// as percentages.
func NormalizeEfficiency(v float64) float64 {
	if v > 1 {
		v /= percent
	}
	return clamp(v, 0, 1)
}

// AnalyzeEnergy computes the energy block.
func AnalyzeEnergy(items []ingest.Energy) EnergyAnalysis {
	out := EnergyAnalysis{
		Count:                  len(items),
		ConsumptionBySource:    map[string]float64{},
		ConsumptionByUnit:      map[string]float64{},
		HighConsumptionSources: []string{},
		FossilSources:          []string{},
	}
	if len(items) == 0 {
		return out
	}

	var intensity, efficiency mean
	var renewable, sustainable int

	for _, e := range items {
		consumption := deref(e.Consumption)
		out.TotalConsumption += consumption
		out.TotalCost += deref(e.Cost)
		intensity.add(e.CarbonIntensity)
		if e.Efficiency != nil {
			n := NormalizeEfficiency(*e.Efficiency)
			efficiency.add(&n)
		}

		if e.CarbonIntensity != nil {
			out.TotalEmissions += consumption * *e.CarbonIntensity
		}
		if consumption > HighConsumptionThreshold {
			out.HighConsumptionSources = append(out.HighConsumptionSources, e.Source)
		}
		if IsFossilSource(e.Source) {
			out.FossilSources = append(out.FossilSources, e.Source)
		}
		if isTrue(e.Renewable) {
			renewable++
		}
		if IsSustainableEnergy(e) {
			sustainable++
		}

		key := e.Source
		if key == "" {
			key = UnspecifiedGroup
		}
		out.ConsumptionBySource[key] += consumption
		out.ConsumptionByUnit[groupKey(e.Unit)] += consumption
	}

	out.AverageCarbonIntensity = intensity.value()
	out.AverageEfficiency = efficiency.value()
	out.RenewablePercentage = share(renewable, len(items))
	out.SustainablePercentage = share(sustainable, len(items))
	out.SustainableFraction = out.SustainablePercentage / percent
	out.DataCompleteness = completeness(items, energyWeights)

	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
