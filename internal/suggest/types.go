// Package suggest provides the sustainability suggestion engine and its
// declarative rule table.
//
// Impact, estimated savings, timeframe and complexity are static per rule.
// They describe the typical effect of the measure, not the magnitude of
// the data that triggered it.
package suggest

import (
	"slices"

	"github.com/rshade/ecoscore/internal/ingest"
)

// Suggestion categories.
const (
	CategoryMaterial  = "material"
	CategoryTransport = "transport"
	CategoryEnergy    = "energy"
	CategoryGeneral   = "general"
)

// Impact levels.
const (
	ImpactLow    = "low"
	ImpactMedium = "medium"
	ImpactHigh   = "high"
)

// Implementation timeframes.
const (
	TimeframeImmediate = "immediate"
	TimeframeShort     = "short"
	TimeframeMedium    = "medium"
	TimeframeLong      = "long"
)

// Implementation complexity levels.
const (
	ComplexitySimple   = "simple"
	ComplexityModerate = "moderate"
	ComplexityComplex  = "complex"
)

// Savings holds estimated savings fractions in [0,1]. Zero means the rule
// makes no estimate for that dimension.
type Savings struct {
	Carbon float64 `json:"carbon,omitempty"`
	Cost   float64 `json:"cost,omitempty"`
	Energy float64 `json:"energy,omitempty"`
	Water  float64 `json:"water,omitempty"`
	Waste  float64 `json:"waste,omitempty"`
}

// Suggestion is an actionable improvement recommendation.
type Suggestion struct {
	Category                 string   `json:"category"`
	Text                     string   `json:"text"`
	Impact                   string   `json:"impact"`
	EstimatedSavings         Savings  `json:"estimatedSavings"`
	ImplementationTimeframe  string   `json:"implementationTimeframe"`
	ImplementationComplexity string   `json:"implementationComplexity"`
	Tags                     []string `json:"tags"`
}

// clone returns a copy that shares no slices with s.
func (s Suggestion) clone() Suggestion {
	s.Tags = slices.Clone(s.Tags)
	if s.Tags == nil {
		s.Tags = []string{}
	}
	return s
}

// Context is the input the rules inspect.
type Context struct {
	Materials []ingest.Material
	Transport []ingest.Transport
	Energy    []ingest.Energy
}

// Predicate decides whether a rule fires.
type Predicate func(ctx *Context) bool

// Rule pairs a predicate with the suggestion it emits.
type Rule struct {
	// ID is a stable identifier, used in logs and tests.
	ID         string
	When       Predicate
	Suggestion Suggestion
}
