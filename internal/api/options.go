package api

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/rshade/ecoscore/internal/apperr"
	"github.com/rshade/ecoscore/internal/engine"
)

// Report query parameters.
const (
	paramDetailed              = "detailed"
	paramFormat                = "format"
	paramLifecycleAssessment   = "includeLifecycleAssessment"
	paramCircularEconomy       = "includeCircularEconomyMetrics"
	paramLifecycleCost         = "includeLifecycleCost"
	paramBenchmarking          = "includeBenchmarking"
	paramRegulatoryCompliance  = "includeRegulatoryCompliance"
	paramRecommendations       = "includeRecommendations"
	paramImplementationDetails = "includeImplementationDetails"
)

// ParseReportOptions reads report options from query parameters.
// detailed=true selects the detailed format unless format is given.
// includeRecommendations defaults to true; every other flag to false.
func ParseReportOptions(q url.Values) (engine.Options, error) {
	opts := engine.DefaultOptions()

	detailed, err := boolParam(q, paramDetailed, false)
	if err != nil {
		return opts, err
	}
	if detailed {
		opts.Format = engine.FormatDetailed
	}
	if raw := q.Get(paramFormat); raw != "" {
		if opts.Format, err = engine.ParseFormat(raw); err != nil {
			return opts, err
		}
	}

	flags := []struct {
		name   string
		target *bool
	}{
		{paramLifecycleAssessment, &opts.IncludeLifecycleAssessment},
		{paramCircularEconomy, &opts.IncludeCircularEconomyMetrics},
		{paramLifecycleCost, &opts.IncludeLifecycleCost},
		{paramBenchmarking, &opts.IncludeBenchmarking},
		{paramRegulatoryCompliance, &opts.IncludeRegulatoryCompliance},
		{paramRecommendations, &opts.IncludeRecommendations},
		{paramImplementationDetails, &opts.IncludeImplementationDetails},
	}
	for _, f := range flags {
		if *f.target, err = boolParam(q, f.name, *f.target); err != nil {
			return opts, err
		}
	}
	return opts.Normalize(), nil
}

func boolParam(q url.Values, name string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback, apperr.Validation("query parameter %s must be true or false, got %q", name, raw)
	}
	return v, nil
}
