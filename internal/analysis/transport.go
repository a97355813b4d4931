package analysis

import "github.com/rshade/ecoscore/internal/ingest"

// TransportAnalysis is the detailed block for transport legs.
type TransportAnalysis struct {
	Count int `json:"count"`

	TotalDistance  float64 `json:"totalDistance"`
	TotalWeight    float64 `json:"totalWeight"`
	TotalEmissions float64 `json:"totalEmissions"`

	AverageEmissionsFactor float64 `json:"averageEmissionsFactor"`
	AverageLoadFactor      float64 `json:"averageLoadFactor"`

	ElectricPercentage    float64 `json:"electricPercentage"`
	SustainablePercentage float64 `json:"sustainablePercentage"`
	SustainableFraction   float64 `json:"sustainableFraction"`

	DistanceByType      map[string]float64 `json:"distanceByType"`
	ByFuelType          map[string]int     `json:"byFuelType"`
	HighImpactTransport []string           `json:"highImpactTransport"`

	DataCompleteness float64 `json:"dataCompleteness"`
}

// IsSustainableTransport reports whether t is electric or carries a
// measured carbon footprint.
func IsSustainableTransport(t ingest.Transport) bool {
	return isTrue(t.IsElectric) || t.CarbonFootprint != nil
}

// AnalyzeTransport computes the transport block.
func AnalyzeTransport(items []ingest.Transport) TransportAnalysis {
	out := TransportAnalysis{
		Count:               len(items),
		DistanceByType:      map[string]float64{},
		ByFuelType:          map[string]int{},
		HighImpactTransport: []string{},
	}
	if len(items) == 0 {
		return out
	}

	var factor, load mean
	var electric, sustainable int

	for _, t := range items {
		out.TotalDistance += deref(t.Distance)
		out.TotalWeight += deref(t.Weight)
		factor.add(t.EmissionsFactor)
		load.add(t.LoadFactor)

		if t.EmissionsFactor != nil {
			out.TotalEmissions += deref(t.Distance) * *t.EmissionsFactor
			if *t.EmissionsFactor > HighImpactEmissionsFactor {
				out.HighImpactTransport = append(out.HighImpactTransport, t.Type)
			}
		}
		if isTrue(t.IsElectric) {
			electric++
		}
		if IsSustainableTransport(t) {
			sustainable++
		}

		key := t.Type
		if key == "" {
			key = UnspecifiedGroup
		}
		out.DistanceByType[key] += deref(t.Distance)
		out.ByFuelType[groupKey(t.FuelType)]++
	}

	out.AverageEmissionsFactor = factor.value()
	out.AverageLoadFactor = load.value()
	out.ElectricPercentage = share(electric, len(items))
	out.SustainablePercentage = share(sustainable, len(items))
	out.SustainableFraction = out.SustainablePercentage / percent
	out.DataCompleteness = completeness(items, transportWeights)

	return out
}
