package suggest

import (
	"strings"

	"github.com/rshade/ecoscore/internal/analysis"
	"github.com/rshade/ecoscore/internal/ingest"
)

// LongHaulDistance is the leg distance above which a modal shift to rail
// or sea is suggested.
const LongHaulDistance = 500.0

// DefaultRules returns the built-in rule table in emission order: material,
// transport and energy rules (baseline first, then conditional), followed
// by the general rules.
func DefaultRules() []Rule {
	rules := make([]Rule, 0, len(materialRules)+len(transportRules)+len(energyRules)+len(generalRules))
	rules = append(rules, materialRules...)
	rules = append(rules, transportRules...)
	rules = append(rules, energyRules...)
	rules = append(rules, generalRules...)
	return rules
}

func hasMaterials(ctx *Context) bool { return len(ctx.Materials) > 0 }
func hasTransport(ctx *Context) bool { return len(ctx.Transport) > 0 }
func hasEnergy(ctx *Context) bool    { return len(ctx.Energy) > 0 }
func always(*Context) bool           { return true }

// materialNamed fires when any material name contains one of the words.
func materialNamed(words ...string) Predicate {
	return func(ctx *Context) bool {
		for _, m := range ctx.Materials {
			name := strings.ToLower(m.Name)
			for _, w := range words {
				if strings.Contains(name, w) {
					return true
				}
			}
		}
		return false
	}
}

func missingEmbodiedCarbon(ctx *Context) bool {
	for _, m := range ctx.Materials {
		if m.EmbodiedCarbon == nil {
			return true
		}
	}
	return false
}

func dieselTransport(ctx *Context) bool {
	for _, t := range ctx.Transport {
		if strings.Contains(ingest.Lower(t.FuelType), "diesel") ||
			strings.Contains(strings.ToLower(t.Type), "diesel") {
			return true
		}
	}
	return false
}

func longHaulTransport(ctx *Context) bool {
	for _, t := range ctx.Transport {
		if t.Distance != nil && *t.Distance > LongHaulDistance {
			return true
		}
	}
	return false
}

func fossilEnergy(ctx *Context) bool {
	for _, e := range ctx.Energy {
		if analysis.IsFossilSource(e.Source) {
			return true
		}
	}
	return false
}

func lowEfficiency(ctx *Context) bool {
	for _, e := range ctx.Energy {
		if e.Efficiency != nil && analysis.NormalizeEfficiency(*e.Efficiency) < analysis.LowEfficiencyThreshold {
			return true
		}
	}
	return false
}

func highConsumption(ctx *Context) bool {
	for _, e := range ctx.Energy {
		if e.Consumption != nil && *e.Consumption > analysis.HighConsumptionThreshold {
			return true
		}
	}
	return false
}

//nolint:gochecknoglobals // Constant rule table
var materialRules = []Rule{
	{
		ID:   "material-recycled-content",
		When: hasMaterials,
		Suggestion: Suggestion{
			Category:                 CategoryMaterial,
			Text:                     "Specify materials with higher recycled content to cut embodied carbon",
			Impact:                   ImpactMedium,
			EstimatedSavings:         Savings{Carbon: 0.15, Cost: 0.05, Waste: 0.2},
			ImplementationTimeframe:  TimeframeShort,
			ImplementationComplexity: ComplexityModerate,
			Tags:                     []string{"recycled-content", "procurement"},
		},
	},
	{
		ID:   "material-local-sourcing",
		When: hasMaterials,
		Suggestion: Suggestion{
			Category:                 CategoryMaterial,
			Text:                     "Source materials from local suppliers to reduce delivery emissions",
			Impact:                   ImpactMedium,
			EstimatedSavings:         Savings{Carbon: 0.1, Cost: 0.05},
			ImplementationTimeframe:  TimeframeShort,
			ImplementationComplexity: ComplexitySimple,
			Tags:                     []string{"local-sourcing", "supply-chain"},
		},
	},
	{
		ID:   "material-design-for-disassembly",
		When: hasMaterials,
		Suggestion: Suggestion{
			Category:                 CategoryMaterial,
			Text:                     "Design assemblies for disassembly so materials can be recovered at end of life",
			Impact:                   ImpactMedium,
			EstimatedSavings:         Savings{Carbon: 0.05, Waste: 0.3},
			ImplementationTimeframe:  TimeframeLong,
			ImplementationComplexity: ComplexityComplex,
			Tags:                     []string{"circular-design", "end-of-life"},
		},
	},
	{
		ID:   "material-geopolymer-concrete",
		When: materialNamed("concrete"),
		Suggestion: Suggestion{
			Category:                 CategoryMaterial,
			Text:                     "Replace Portland cement concrete with geopolymer or low-clinker concrete",
			Impact:                   ImpactHigh,
			EstimatedSavings:         Savings{Carbon: 0.4, Cost: 0.05},
			ImplementationTimeframe:  TimeframeMedium,
			ImplementationComplexity: ComplexityModerate,
			Tags:                     []string{"concrete", "geopolymer", "low-carbon"},
		},
	},
	{
		ID:   "material-eaf-steel",
		When: materialNamed("steel"),
		Suggestion: Suggestion{
			Category:                 CategoryMaterial,
			Text:                     "Use recycled steel produced in electric arc furnaces",
			Impact:                   ImpactHigh,
			EstimatedSavings:         Savings{Carbon: 0.35, Energy: 0.3},
			ImplementationTimeframe:  TimeframeShort,
			ImplementationComplexity: ComplexityModerate,
			Tags:                     []string{"steel", "recycled-content"},
		},
	},
	{
		ID:   "material-recycled-aluminium",
		When: materialNamed("aluminium", "aluminum"),
		Suggestion: Suggestion{
			Category:                 CategoryMaterial,
			Text:                     "Specify recycled aluminium, which needs a fraction of the energy of primary smelting",
			Impact:                   ImpactHigh,
			EstimatedSavings:         Savings{Carbon: 0.45, Energy: 0.9},
			ImplementationTimeframe:  TimeframeShort,
			ImplementationComplexity: ComplexitySimple,
			Tags:                     []string{"aluminium", "recycled-content"},
		},
	},
	{
		ID:   "material-request-epds",
		When: missingEmbodiedCarbon,
		Suggestion: Suggestion{
			Category:                 CategoryMaterial,
			Text:                     "Request Environmental Product Declarations for materials without embodied carbon data",
			Impact:                   ImpactLow,
			EstimatedSavings:         Savings{},
			ImplementationTimeframe:  TimeframeImmediate,
			ImplementationComplexity: ComplexitySimple,
			Tags:                     []string{"data-quality", "epd"},
		},
	},
}

//nolint:gochecknoglobals // Constant rule table
var transportRules = []Rule{
	{
		ID:   "transport-route-optimisation",
		When: hasTransport,
		Suggestion: Suggestion{
			Category:                 CategoryTransport,
			Text:                     "Optimise delivery routes and consolidate loads to reduce trips",
			Impact:                   ImpactMedium,
			EstimatedSavings:         Savings{Carbon: 0.1, Cost: 0.1, Energy: 0.1},
			ImplementationTimeframe:  TimeframeImmediate,
			ImplementationComplexity: ComplexitySimple,
			Tags:                     []string{"logistics", "route-planning"},
		},
	},
	{
		ID:   "transport-fleet-electrification",
		When: hasTransport,
		Suggestion: Suggestion{
			Category:                 CategoryTransport,
			Text:                     "Transition the vehicle fleet to electric or hybrid models",
			Impact:                   ImpactHigh,
			EstimatedSavings:         Savings{Carbon: 0.3, Cost: 0.15, Energy: 0.2},
			ImplementationTimeframe:  TimeframeLong,
			ImplementationComplexity: ComplexityComplex,
			Tags:                     []string{"electrification", "fleet"},
		},
	},
	{
		ID:   "transport-eco-driving",
		When: hasTransport,
		Suggestion: Suggestion{
			Category:                 CategoryTransport,
			Text:                     "Train drivers in fuel-efficient driving techniques",
			Impact:                   ImpactLow,
			EstimatedSavings:         Savings{Carbon: 0.05, Cost: 0.05},
			ImplementationTimeframe:  TimeframeImmediate,
			ImplementationComplexity: ComplexitySimple,
			Tags:                     []string{"training", "fuel-efficiency"},
		},
	},
	{
		ID:   "transport-biodiesel",
		When: dieselTransport,
		Suggestion: Suggestion{
			Category:                 CategoryTransport,
			Text:                     "Switch diesel vehicles to biodiesel or renewable diesel blends",
			Impact:                   ImpactMedium,
			EstimatedSavings:         Savings{Carbon: 0.2},
			ImplementationTimeframe:  TimeframeShort,
			ImplementationComplexity: ComplexitySimple,
			Tags:                     []string{"diesel", "biofuel"},
		},
	},
	{
		ID:   "transport-modal-shift",
		When: longHaulTransport,
		Suggestion: Suggestion{
			Category:                 CategoryTransport,
			Text:                     "Shift long-distance legs over 500 km to rail or sea freight",
			Impact:                   ImpactHigh,
			EstimatedSavings:         Savings{Carbon: 0.5, Cost: 0.2},
			ImplementationTimeframe:  TimeframeMedium,
			ImplementationComplexity: ComplexityModerate,
			Tags:                     []string{"modal-shift", "rail", "sea-freight"},
		},
	},
}

//nolint:gochecknoglobals // Constant rule table
var energyRules = []Rule{
	{
		ID:   "energy-renewable-procurement",
		When: hasEnergy,
		Suggestion: Suggestion{
			Category:                 CategoryEnergy,
			Text:                     "Procure renewable electricity through on-site generation or a power purchase agreement",
			Impact:                   ImpactHigh,
			EstimatedSavings:         Savings{Carbon: 0.5, Cost: 0.1},
			ImplementationTimeframe:  TimeframeMedium,
			ImplementationComplexity: ComplexityModerate,
			Tags:                     []string{"renewable", "procurement"},
		},
	},
	{
		ID:   "energy-smart-metering",
		When: hasEnergy,
		Suggestion: Suggestion{
			Category:                 CategoryEnergy,
			Text:                     "Install smart metering and an energy management system",
			Impact:                   ImpactMedium,
			EstimatedSavings:         Savings{Cost: 0.1, Energy: 0.15},
			ImplementationTimeframe:  TimeframeShort,
			ImplementationComplexity: ComplexityModerate,
			Tags:                     []string{"monitoring", "metering"},
		},
	},
	{
		ID:   "energy-led-lighting",
		When: hasEnergy,
		Suggestion: Suggestion{
			Category:                 CategoryEnergy,
			Text:                     "Upgrade lighting to LED fittings with occupancy controls",
			Impact:                   ImpactLow,
			EstimatedSavings:         Savings{Cost: 0.08, Energy: 0.1},
			ImplementationTimeframe:  TimeframeImmediate,
			ImplementationComplexity: ComplexitySimple,
			Tags:                     []string{"lighting", "efficiency"},
		},
	},
	{
		ID:   "energy-phase-out-fossil",
		When: fossilEnergy,
		Suggestion: Suggestion{
			Category:                 CategoryEnergy,
			Text:                     "Phase out fossil fuel energy sources in favour of electrified alternatives",
			Impact:                   ImpactHigh,
			EstimatedSavings:         Savings{Carbon: 0.6},
			ImplementationTimeframe:  TimeframeLong,
			ImplementationComplexity: ComplexityComplex,
			Tags:                     []string{"fossil-fuel", "electrification"},
		},
	},
	{
		ID:   "energy-equipment-upgrade",
		When: lowEfficiency,
		Suggestion: Suggestion{
			Category:                 CategoryEnergy,
			Text:                     "Replace equipment running below 70% efficiency with high-efficiency models",
			Impact:                   ImpactMedium,
			EstimatedSavings:         Savings{Cost: 0.15, Energy: 0.25},
			ImplementationTimeframe:  TimeframeMedium,
			ImplementationComplexity: ComplexityModerate,
			Tags:                     []string{"efficiency", "equipment"},
		},
	},
	{
		ID:   "energy-audit",
		When: highConsumption,
		Suggestion: Suggestion{
			Category:                 CategoryEnergy,
			Text:                     "Commission an energy audit for high-consumption sources",
			Impact:                   ImpactMedium,
			EstimatedSavings:         Savings{Cost: 0.1, Energy: 0.2},
			ImplementationTimeframe:  TimeframeImmediate,
			ImplementationComplexity: ComplexitySimple,
			Tags:                     []string{"audit", "consumption"},
		},
	},
}

//nolint:gochecknoglobals // Constant rule table
var generalRules = []Rule{
	{
		ID:   "general-waste-management",
		When: always,
		Suggestion: Suggestion{
			Category:                 CategoryGeneral,
			Text:                     "Implement a site waste management plan targeting high diversion from landfill",
			Impact:                   ImpactMedium,
			EstimatedSavings:         Savings{Cost: 0.05, Waste: 0.5},
			ImplementationTimeframe:  TimeframeShort,
			ImplementationComplexity: ComplexityModerate,
			Tags:                     []string{"waste", "site-management"},
		},
	},
	{
		ID:   "general-circular-procurement",
		When: always,
		Suggestion: Suggestion{
			Category:                 CategoryGeneral,
			Text:                     "Adopt circular procurement policies that favour reuse and take-back schemes",
			Impact:                   ImpactMedium,
			EstimatedSavings:         Savings{Carbon: 0.1, Water: 0.1, Waste: 0.3},
			ImplementationTimeframe:  TimeframeMedium,
			ImplementationComplexity: ComplexityModerate,
			Tags:                     []string{"circular-economy", "procurement"},
		},
	},
	{
		ID:   "general-science-based-targets",
		When: always,
		Suggestion: Suggestion{
			Category:                 CategoryGeneral,
			Text:                     "Set science-based emissions reduction targets aligned with a 1.5°C pathway",
			Impact:                   ImpactHigh,
			EstimatedSavings:         Savings{Carbon: 0.3},
			ImplementationTimeframe:  TimeframeLong,
			ImplementationComplexity: ComplexityComplex,
			Tags:                     []string{"targets", "governance"},
		},
	},
}
