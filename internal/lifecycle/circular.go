package lifecycle

// Circular-economy input defaults.
const (
	DefaultRecycledContent      = 0.3
	DefaultReuseRate            = 0.2
	DefaultRecyclability        = 0.5
	DefaultProductLifespan      = 50.0
	DefaultWasteRecyclingRate   = 0.4
	DefaultDesignForDisassembly = 0.3
	DefaultRepairabilityScore   = 0.4
	DefaultBiodegradableContent = 0.1
	DefaultByproductSynergy     = 0.2
)

// Recommendation thresholds on the derived metrics.
const (
	ResourceReuseThreshold        = 0.5
	WasteRecyclingThreshold       = 0.6
	ClosedLoopThreshold           = 0.5
	CircularityIndexThreshold     = 0.5
	DesignForCircularityThreshold = 0.5
	IndustrialSymbiosisThreshold  = 0.3
	ProductLifespanThreshold      = 50.0

	minRecommendations = 3
)

// CircularInput holds the optional ratios (0–1) and lifespan (years).
type CircularInput struct {
	MaterialRecycledContent   *float64 `json:"materialRecycledContent,omitempty"   yaml:"materialRecycledContent,omitempty"`
	MaterialReuseRate         *float64 `json:"materialReuseRate,omitempty"         yaml:"materialReuseRate,omitempty"`
	MaterialRecyclability     *float64 `json:"materialRecyclability,omitempty"     yaml:"materialRecyclability,omitempty"`
	ProductLifespan           *float64 `json:"productLifespan,omitempty"           yaml:"productLifespan,omitempty"`
	WasteRecyclingRate        *float64 `json:"wasteRecyclingRate,omitempty"        yaml:"wasteRecyclingRate,omitempty"`
	DesignForDisassembly      *float64 `json:"designForDisassembly,omitempty"      yaml:"designForDisassembly,omitempty"`
	RepairabilityScore        *float64 `json:"repairabilityScore,omitempty"        yaml:"repairabilityScore,omitempty"`
	BiodegradableContent      *float64 `json:"biodegradableContent,omitempty"      yaml:"biodegradableContent,omitempty"`
	ByproductSynergyPotential *float64 `json:"byproductSynergyPotential,omitempty" yaml:"byproductSynergyPotential,omitempty"`
}

// CircularMetrics are the derived circularity indices.
// All values are in [0,1] except ProductLifespan, which is in years.
type CircularMetrics struct {
	ResourceReuseRate        float64 `json:"resourceReuseRate"`
	WasteRecyclingRate       float64 `json:"wasteRecyclingRate"`
	ProductLifespan          float64 `json:"productLifespan"`
	ClosedLoopPotential      float64 `json:"closedLoopPotential"`
	MaterialCircularityIndex float64 `json:"materialCircularityIndex"`
	DesignForCircularity     float64 `json:"designForCircularity"`
	IndustrialSymbiosis      float64 `json:"industrialSymbiosis"`
}

// CircularRecommendation is a structured circular-economy action.
type CircularRecommendation struct {
	Recommendation           string   `json:"recommendation"`
	Impact                   string   `json:"impact"`
	ImplementationDifficulty string   `json:"implementationDifficulty"`
	Timeframe                string   `json:"timeframe"`
	PotentialBenefits        []string `json:"potentialBenefits"`
}

func (r CircularRecommendation) clone() CircularRecommendation {
	r.PotentialBenefits = append([]string(nil), r.PotentialBenefits...)
	return r
}

// CircularResult bundles metrics and recommendations.
type CircularResult struct {
	Metrics         CircularMetrics          `json:"metrics"`
	Recommendations []CircularRecommendation `json:"recommendations,omitempty"`
}

func ratio(p *float64, def float64) float64 {
	return clamp01(valueOr(p, def))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// CalculateCircularity derives the circularity indices from in.
func CalculateCircularity(in CircularInput) CircularMetrics {
	recycled := ratio(in.MaterialRecycledContent, DefaultRecycledContent)
	reuse := ratio(in.MaterialReuseRate, DefaultReuseRate)
	recyclability := ratio(in.MaterialRecyclability, DefaultRecyclability)
	lifespan := nonNegative(valueOr(in.ProductLifespan, DefaultProductLifespan))
	wasteRecycling := ratio(in.WasteRecyclingRate, DefaultWasteRecyclingRate)
	disassembly := ratio(in.DesignForDisassembly, DefaultDesignForDisassembly)
	repairability := ratio(in.RepairabilityScore, DefaultRepairabilityScore)
	biodegradable := ratio(in.BiodegradableContent, DefaultBiodegradableContent)
	synergy := ratio(in.ByproductSynergyPotential, DefaultByproductSynergy)

	wasteRate := clamp01(0.7*wasteRecycling + 0.3*recyclability)

	return CircularMetrics{
		ResourceReuseRate:   clamp01(0.6*reuse + 0.4*recycled),
		WasteRecyclingRate:  wasteRate,
		ProductLifespan:     lifespan * (1 + 0.2*repairability),
		ClosedLoopPotential: clamp01(0.4*recyclability + 0.3*disassembly + 0.3*reuse),
		MaterialCircularityIndex: clamp01(
			0.3*recycled + 0.3*recyclability + 0.2*reuse + 0.1*biodegradable + 0.1*synergy),
		DesignForCircularity: clamp01(0.5*disassembly + 0.5*repairability),
		IndustrialSymbiosis:  clamp01(0.7*synergy + 0.3*wasteRate),
	}
}

type circularRule struct {
	fires func(CircularMetrics) bool
	rec   CircularRecommendation
}

var circularRules = []circularRule{ //nolint:gochecknoglobals // Declarative rule table
	{
		fires: func(m CircularMetrics) bool { return m.ResourceReuseRate < ResourceReuseThreshold },
		rec: CircularRecommendation{
			Recommendation:           "Establish a material reuse programme with salvage audits before demolition",
			Impact:                   "high",
			ImplementationDifficulty: "moderate",
			Timeframe:                "medium",
			PotentialBenefits:        []string{"Lower virgin material demand", "Reduced embodied carbon", "Material cost savings"},
		},
	},
	{
		fires: func(m CircularMetrics) bool { return m.WasteRecyclingRate < WasteRecyclingThreshold },
		rec: CircularRecommendation{
			Recommendation:           "Introduce on-site waste segregation and partner with certified recyclers",
			Impact:                   "medium",
			ImplementationDifficulty: "simple",
			Timeframe:                "short",
			PotentialBenefits:        []string{"Higher diversion from landfill", "Lower disposal fees"},
		},
	},
	{
		fires: func(m CircularMetrics) bool { return m.ClosedLoopPotential < ClosedLoopThreshold },
		rec: CircularRecommendation{
			Recommendation:           "Set up take-back agreements with suppliers to close material loops",
			Impact:                   "high",
			ImplementationDifficulty: "complex",
			Timeframe:                "long",
			PotentialBenefits:        []string{"Closed-loop material flows", "Supply chain resilience"},
		},
	},
	{
		fires: func(m CircularMetrics) bool { return m.MaterialCircularityIndex < CircularityIndexThreshold },
		rec: CircularRecommendation{
			Recommendation:           "Increase the share of recycled and recyclable materials in specifications",
			Impact:                   "high",
			ImplementationDifficulty: "moderate",
			Timeframe:                "short",
			PotentialBenefits:        []string{"Higher material circularity index", "Reduced embodied carbon"},
		},
	},
	{
		fires: func(m CircularMetrics) bool { return m.DesignForCircularity < DesignForCircularityThreshold },
		rec: CircularRecommendation{
			Recommendation:           "Adopt design-for-disassembly principles such as mechanical fixings and modular components",
			Impact:                   "medium",
			ImplementationDifficulty: "moderate",
			Timeframe:                "medium",
			PotentialBenefits:        []string{"Easier repair and refurbishment", "Higher end-of-life recovery"},
		},
	},
	{
		fires: func(m CircularMetrics) bool { return m.IndustrialSymbiosis < IndustrialSymbiosisThreshold },
		rec: CircularRecommendation{
			Recommendation:           "Identify by-product exchange opportunities with nearby industries",
			Impact:                   "medium",
			ImplementationDifficulty: "complex",
			Timeframe:                "long",
			PotentialBenefits:        []string{"Waste turned into feedstock", "New revenue streams"},
		},
	},
	{
		fires: func(m CircularMetrics) bool { return m.ProductLifespan < ProductLifespanThreshold },
		rec: CircularRecommendation{
			Recommendation:           "Extend service life through durable specifications and planned maintenance",
			Impact:                   "medium",
			ImplementationDifficulty: "simple",
			Timeframe:                "medium",
			PotentialBenefits:        []string{"Longer asset lifespan", "Deferred replacement costs"},
		},
	},
}

// genericCircularRecommendations pad the list when few rules fire.
var genericCircularRecommendations = []CircularRecommendation{ //nolint:gochecknoglobals // Constant catalog
	{
		Recommendation:           "Track circularity KPIs across the project lifecycle",
		Impact:                   "low",
		ImplementationDifficulty: "simple",
		Timeframe:                "immediate",
		PotentialBenefits:        []string{"Measurable progress", "Better reporting"},
	},
	{
		Recommendation:           "Create a material passport for major building components",
		Impact:                   "medium",
		ImplementationDifficulty: "moderate",
		Timeframe:                "short",
		PotentialBenefits:        []string{"Future reuse of components", "Transparent material data"},
	},
	{
		Recommendation:           "Engage stakeholders in a circular economy roadmap",
		Impact:                   "low",
		ImplementationDifficulty: "simple",
		Timeframe:                "short",
		PotentialBenefits:        []string{"Aligned project goals", "Shared accountability"},
	},
}

// CircularRecommendations inspects m against the thresholds and returns the
// fired recommendations, padded with generic ones to at least three.
func CircularRecommendations(m CircularMetrics) []CircularRecommendation {
	var recs []CircularRecommendation
	for _, rule := range circularRules {
		if rule.fires(m) {
			recs = append(recs, rule.rec.clone())
		}
	}
	for i := 0; len(recs) < minRecommendations && i < len(genericCircularRecommendations); i++ {
		recs = append(recs, genericCircularRecommendations[i].clone())
	}
	return recs
}
