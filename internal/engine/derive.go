package engine

import (
	"github.com/rshade/ecoscore/internal/lifecycle"
)

// recycledContentScale converts recycled content percentages to ratios.
const recycledContentScale = 100.0

// assessmentInput fills stages the caller left unset from the category
// averages: raw material extraction from embodied carbon, transportation
// from emissions factors and use phase from carbon intensity.
func assessmentInput(supplied *lifecycle.AssessmentInput, in categoryInputs) lifecycle.AssessmentInput {
	var out lifecycle.AssessmentInput
	if supplied != nil {
		out = *supplied
	}

	if out.RawMaterialExtraction == nil && hasEmbodiedCarbon(in) {
		out.RawMaterialExtraction = carbonStage(in.materialAnalysis.AverageEmbodiedCarbon)
	}
	if out.Transportation == nil && hasEmissionsFactor(in) {
		out.Transportation = carbonStage(in.transportAnalysis.AverageEmissionsFactor)
	}
	if out.UsePhase == nil && hasCarbonIntensity(in) {
		out.UsePhase = carbonStage(in.energyAnalysis.AverageCarbonIntensity)
	}
	return out
}

// circularInput derives recycled content and recyclability from the
// materials when the caller supplied no circular-economy input for them.
func circularInput(supplied *lifecycle.CircularInput, in categoryInputs) lifecycle.CircularInput {
	var out lifecycle.CircularInput
	if supplied != nil {
		out = *supplied
	}

	if out.MaterialRecycledContent == nil && hasRecycledContent(in) {
		v := in.materialAnalysis.AverageRecycledContent / recycledContentScale
		out.MaterialRecycledContent = &v
	}
	if out.MaterialRecyclability == nil && hasRecyclableFlag(in) {
		v := in.materialAnalysis.RecyclablePercentage / recycledContentScale
		out.MaterialRecyclability = &v
	}
	return out
}

// costInput uses the energy bill as the operational cost when the caller
// supplied none.
func costInput(supplied *lifecycle.CostInput, in categoryInputs) lifecycle.CostInput {
	var out lifecycle.CostInput
	if supplied != nil {
		out = *supplied
	}
	if out.OperationalCostAnnual == nil && in.energyAnalysis.TotalCost > 0 {
		v := in.energyAnalysis.TotalCost
		out.OperationalCostAnnual = &v
	}
	return out
}

func carbonStage(v float64) *lifecycle.StageFootprint {
	return &lifecycle.StageFootprint{Carbon: &v}
}

func hasEmbodiedCarbon(in categoryInputs) bool {
	for _, m := range in.materials {
		if m.EmbodiedCarbon != nil {
			return true
		}
	}
	return false
}

func hasEmissionsFactor(in categoryInputs) bool {
	for _, t := range in.transport {
		if t.EmissionsFactor != nil {
			return true
		}
	}
	return false
}

func hasCarbonIntensity(in categoryInputs) bool {
	for _, e := range in.energy {
		if e.CarbonIntensity != nil {
			return true
		}
	}
	return false
}

func hasRecycledContent(in categoryInputs) bool {
	for _, m := range in.materials {
		if m.RecycledContent != nil {
			return true
		}
	}
	return false
}

func hasRecyclableFlag(in categoryInputs) bool {
	for _, m := range in.materials {
		if m.Recyclable != nil {
			return true
		}
	}
	return false
}
