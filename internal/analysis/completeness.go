package analysis

import "github.com/rshade/ecoscore/internal/ingest"

// fieldWeight scores the presence of one field on an item.
type fieldWeight[T any] struct {
	field   string
	weight  float64
	present func(T) bool
}

// completeness averages the weighted field presence of items. Each weight
// table sums to 1, so the result is in [0,1].
func completeness[T any](items []T, weights []fieldWeight[T]) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, item := range items {
		for _, w := range weights {
			if w.present(item) {
				sum += w.weight
			}
		}
	}
	return clamp(sum/float64(len(items)), 0, 1)
}

//nolint:gochecknoglobals // Constant lookup table
var materialWeights = []fieldWeight[ingest.Material]{
	{"name", 0.2, func(m ingest.Material) bool { return m.Name != "" }},
	{"embodiedCarbon", 0.2, func(m ingest.Material) bool { return m.EmbodiedCarbon != nil }},
	{"quantity", 0.2, func(m ingest.Material) bool { return m.Quantity != nil }},
	{"recycledContent", 0.1, func(m ingest.Material) bool { return m.RecycledContent != nil }},
	{"locallySourced", 0.1, func(m ingest.Material) bool { return m.LocallySourced != nil }},
	{"type", 0.1, func(m ingest.Material) bool { return m.Type != nil }},
	{"unit", 0.05, func(m ingest.Material) bool { return m.Unit != nil }},
	{"supplier", 0.05, func(m ingest.Material) bool { return m.Supplier != nil }},
}

//nolint:gochecknoglobals // Constant lookup table
var transportWeights = []fieldWeight[ingest.Transport]{
	{"type", 0.2, func(t ingest.Transport) bool { return t.Type != "" }},
	{"distance", 0.2, func(t ingest.Transport) bool { return t.Distance != nil }},
	{"fuelType", 0.2, func(t ingest.Transport) bool { return t.FuelType != nil }},
	{"emissionsFactor", 0.1, func(t ingest.Transport) bool { return t.EmissionsFactor != nil }},
	{"carbonFootprint", 0.1, func(t ingest.Transport) bool { return t.CarbonFootprint != nil }},
	{"isElectric", 0.1, func(t ingest.Transport) bool { return t.IsElectric != nil }},
	{"weight", 0.05, func(t ingest.Transport) bool { return t.Weight != nil }},
	{"loadFactor", 0.05, func(t ingest.Transport) bool { return t.LoadFactor != nil }},
}

//nolint:gochecknoglobals // Constant lookup table
var energyWeights = []fieldWeight[ingest.Energy]{
	{"source", 0.2, func(e ingest.Energy) bool { return e.Source != "" }},
	{"consumption", 0.2, func(e ingest.Energy) bool { return e.Consumption != nil }},
	{"unit", 0.2, func(e ingest.Energy) bool { return e.Unit != nil }},
	{"carbonIntensity", 0.1, func(e ingest.Energy) bool { return e.CarbonIntensity != nil }},
	{"renewable", 0.1, func(e ingest.Energy) bool { return e.Renewable != nil }},
	{"efficiency", 0.1, func(e ingest.Energy) bool { return e.Efficiency != nil }},
	{"cost", 0.05, func(e ingest.Energy) bool { return e.Cost != nil }},
	{"provider", 0.05, func(e ingest.Energy) bool { return e.Provider != nil }},
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// mean accumulates an average over the values actually supplied.
type mean struct {
	sum   float64
	count int
}

func (m *mean) add(p *float64) {
	if p == nil {
		return
	}
	m.sum += *p
	m.count++
}

func (m mean) value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

// share returns n/total as a percentage in [0,100]; 0 when total is 0.
func share(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return clamp(float64(n)/float64(total)*percent, minPercent, maxPercent)
}

func groupKey(s *string) string {
	if s == nil || *s == "" {
		return UnspecifiedGroup
	}
	return *s
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func isTrue(p *bool) bool {
	return p != nil && *p
}
