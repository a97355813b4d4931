package api

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecoscore/internal/engine"
)

func TestParseReportOptions(t *testing.T) {
	tests := []struct {
		query string
		want  engine.Options
	}{
		{"", engine.Options{Format: engine.FormatBasic, IncludeRecommendations: true}},
		{"detailed=true", engine.Options{Format: engine.FormatDetailed, IncludeRecommendations: true}},
		{"detailed=true&format=executive", engine.Options{Format: engine.FormatExecutive, IncludeRecommendations: true}},
		{"format=technical&includeRecommendations=false", engine.Options{
			Format: engine.FormatTechnical, IncludeImplementationDetails: true,
		}},
		{"includeLifecycleAssessment=true&includeCircularEconomyMetrics=1&includeLifecycleCost=TRUE" +
			"&includeBenchmarking=true&includeRegulatoryCompliance=true", engine.Options{
			Format:                        engine.FormatBasic,
			IncludeLifecycleAssessment:    true,
			IncludeCircularEconomyMetrics: true,
			IncludeLifecycleCost:          true,
			IncludeBenchmarking:           true,
			IncludeRegulatoryCompliance:   true,
			IncludeRecommendations:        true,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			got, err := ParseReportOptions(q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDataQuality(t *testing.T) {
	assert.Equal(t, QualityHigh, NewDataQuality(0.7).Level)
	assert.Equal(t, QualityMedium, NewDataQuality(0.4).Level)
	assert.Equal(t, QualityLow, NewDataQuality(0.39).Level)
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	ok, remaining, _ := rl.Allow("a")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	now = now.Add(20 * time.Second)
	ok, remaining, _ = rl.Allow("a")
	assert.True(t, ok)
	assert.Zero(t, remaining)

	now = now.Add(10 * time.Second)
	ok, _, retry := rl.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, 30*time.Second, retry)

	ok, _, _ = rl.Allow("b")
	assert.True(t, ok, "clients are independent")

	now = now.Add(31 * time.Second)
	ok, _, _ = rl.Allow("a")
	assert.True(t, ok, "oldest request left the window")

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, rl.Cleanup())
}

func TestRateLimiter_Disabled(t *testing.T) {
	var nilLimiter *RateLimiter
	assert.False(t, nilLimiter.Enabled())
	assert.False(t, NewRateLimiter(0, time.Minute).Enabled())

	ok, _, _ := NewRateLimiter(0, time.Minute).Allow("x")
	assert.True(t, ok)
}
