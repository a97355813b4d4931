package engine

import (
	"strings"

	"github.com/rshade/ecoscore/internal/apperr"
)

// Format selects the level of detail of a report.
type Format string

// Report formats.
const (
	// FormatBasic carries flattened suggestions and the headline metrics.
	FormatBasic Format = "basic"

	// FormatDetailed adds per-category analysis blocks and the optional
	// lifecycle sections.
	FormatDetailed Format = "detailed"

	// FormatExecutive is FormatBasic limited to high-impact suggestions.
	FormatExecutive Format = "executive"

	// FormatTechnical is FormatDetailed with implementation details.
	FormatTechnical Format = "technical"
)

// ParseFormat parses a format name case-insensitively. An empty name is
// FormatBasic.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatBasic, nil
	case FormatBasic, FormatDetailed, FormatExecutive, FormatTechnical:
		return f, nil
	default:
		return "", apperr.Validation("format must be one of basic, detailed, executive, technical; got %q", s)
	}
}

// IsDetailed reports whether the format carries analysis blocks.
func (f Format) IsDetailed() bool {
	return f == FormatDetailed || f == FormatTechnical
}

// Options are the caller's report options. Zero value plus
// IncludeRecommendations is the default; use DefaultOptions.
type Options struct {
	Format Format `json:"format"`

	IncludeLifecycleAssessment    bool `json:"includeLifecycleAssessment"`
	IncludeCircularEconomyMetrics bool `json:"includeCircularEconomyMetrics"`
	IncludeLifecycleCost          bool `json:"includeLifecycleCost"`
	IncludeBenchmarking           bool `json:"includeBenchmarking"`
	IncludeRegulatoryCompliance   bool `json:"includeRegulatoryCompliance"`
	IncludeRecommendations        bool `json:"includeRecommendations"`
	IncludeImplementationDetails  bool `json:"includeImplementationDetails"`
}

// DefaultOptions returns a basic report with recommendations.
func DefaultOptions() Options {
	return Options{Format: FormatBasic, IncludeRecommendations: true}
}

// Normalize resolves implied options: an empty format becomes basic and the
// technical format forces implementation details.
func (o Options) Normalize() Options {
	if o.Format == "" {
		o.Format = FormatBasic
	}
	if o.Format == FormatTechnical {
		o.IncludeImplementationDetails = true
	}
	return o
}
