package analysis

import "github.com/rshade/ecoscore/internal/ingest"

// MaterialAnalysis is the detailed block for construction materials.
type MaterialAnalysis struct {
	Count int `json:"count"`

	TotalQuantity       float64 `json:"totalQuantity"`
	TotalEmbodiedCarbon float64 `json:"totalEmbodiedCarbon"`

	AverageEmbodiedCarbon  float64 `json:"averageEmbodiedCarbon"`
	AverageRecycledContent float64 `json:"averageRecycledContent"`

	HighRecycledContentPercentage float64 `json:"highRecycledContentPercentage"`
	LocallySourcedPercentage      float64 `json:"locallySourcedPercentage"`
	RecyclablePercentage          float64 `json:"recyclablePercentage"`
	SustainablePercentage         float64 `json:"sustainablePercentage"`

	// SustainableFraction is SustainablePercentage as a fraction in [0,1].
	SustainableFraction float64 `json:"sustainableFraction"`

	ByType              map[string]int     `json:"byType"`
	QuantityByUnit      map[string]float64 `json:"quantityByUnit"`
	HighCarbonMaterials []string           `json:"highCarbonMaterials"`
	MissingCarbonData   []string           `json:"missingCarbonData"`

	DataCompleteness float64 `json:"dataCompleteness"`
}

// IsSustainableMaterial reports whether m has more than 50% recycled
// content or is locally sourced.
func IsSustainableMaterial(m ingest.Material) bool {
	if m.RecycledContent != nil && *m.RecycledContent > SustainableRecycledContent {
		return true
	}
	return isTrue(m.LocallySourced)
}

// AnalyzeMaterials computes the material block.
func AnalyzeMaterials(items []ingest.Material) MaterialAnalysis {
	out := MaterialAnalysis{
		Count:               len(items),
		ByType:              map[string]int{},
		QuantityByUnit:      map[string]float64{},
		HighCarbonMaterials: []string{},
		MissingCarbonData:   []string{},
	}
	if len(items) == 0 {
		return out
	}

	var carbon, recycled mean
	var highRecycled, local, recyclable, sustainable int

	for _, m := range items {
		out.TotalQuantity += deref(m.Quantity)
		carbon.add(m.EmbodiedCarbon)
		recycled.add(m.RecycledContent)

		if m.EmbodiedCarbon == nil {
			out.MissingCarbonData = append(out.MissingCarbonData, m.Name)
		} else {
			out.TotalEmbodiedCarbon += deref(m.Quantity) * *m.EmbodiedCarbon
			if *m.EmbodiedCarbon > HighCarbonThreshold {
				out.HighCarbonMaterials = append(out.HighCarbonMaterials, m.Name)
			}
		}

		if m.RecycledContent != nil && *m.RecycledContent > SustainableRecycledContent {
			highRecycled++
		}
		if isTrue(m.LocallySourced) {
			local++
		}
		if isTrue(m.Recyclable) {
			recyclable++
		}
		if IsSustainableMaterial(m) {
			sustainable++
		}

		out.ByType[groupKey(m.Type)]++
		out.QuantityByUnit[groupKey(m.Unit)] += deref(m.Quantity)
	}

	out.AverageEmbodiedCarbon = carbon.value()
	out.AverageRecycledContent = clamp(recycled.value(), minPercent, maxPercent)
	out.HighRecycledContentPercentage = share(highRecycled, len(items))
	out.LocallySourcedPercentage = share(local, len(items))
	out.RecyclablePercentage = share(recyclable, len(items))
	out.SustainablePercentage = share(sustainable, len(items))
	out.SustainableFraction = out.SustainablePercentage / percent
	out.DataCompleteness = completeness(items, materialWeights)

	return out
}
