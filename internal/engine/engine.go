package engine

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rshade/ecoscore/internal/analysis"
	"github.com/rshade/ecoscore/internal/engine/batch"
	"github.com/rshade/ecoscore/internal/greenops"
	"github.com/rshade/ecoscore/internal/ingest"
	"github.com/rshade/ecoscore/internal/lifecycle"
	"github.com/rshade/ecoscore/internal/logging"
	"github.com/rshade/ecoscore/internal/suggest"
)

// Engine builds reports. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	rules     *suggest.Engine
	factors   FactorSource
	batchSize int
	now       func() time.Time
	newID     func(time.Time) string
}

// Option configures an Engine.
type Option func(*Engine)

// WithFactorSource sets the source for missing embodied carbon factors.
func WithFactorSource(src FactorSource) Option {
	return func(e *Engine) { e.factors = src }
}

// WithBatchSize sets the material batch size. Out-of-range sizes fall back
// to batch.DefaultBatchSize.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		if n >= batch.MinBatchSize && n <= batch.MaxBatchSize {
			e.batchSize = n
		}
	}
}

// WithSuggestionEngine replaces the built-in suggestion rules.
func WithSuggestionEngine(s *suggest.Engine) Option {
	return func(e *Engine) { e.rules = s }
}

// WithClock sets the clock used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator sets the report ID generator.
func WithIDGenerator(gen func(time.Time) string) Option {
	return func(e *Engine) { e.newID = gen }
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		rules:     suggest.NewEngine(),
		batchSize: batch.DefaultBatchSize,
		now:       time.Now,
		newID:     NewReportID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewReportID returns a ULID for t.
func NewReportID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy()).String()
}

// BatchSize returns the material batch size.
func (e *Engine) BatchSize() int {
	return e.batchSize
}

// Generate builds a report for payload.
//
// Materials are prepared first (see PrepareMaterials); every later step is
// a total function of the prepared inputs. The only error sources are the
// factor source and context cancellation.
func (e *Engine) Generate(ctx context.Context, payload *ingest.Payload, opts Options) (*Report, Stats, error) {
	log := logging.FromContext(ctx)
	start := time.Now()
	opts = opts.Normalize()

	if payload == nil {
		payload = &ingest.Payload{}
	}

	log.Debug().
		Str("component", "engine").
		Str("operation", "generate").
		Str("format", string(opts.Format)).
		Int("materials", len(payload.Materials)).
		Int("transport", len(payload.Transport)).
		Int("energy", len(payload.Energy)).
		Msg("generating report")

	materials, stats, err := e.PrepareMaterials(ctx, payload.Materials)
	if err != nil {
		return nil, stats, err
	}

	in := categoryInputs{
		materials:         materials,
		transport:         payload.Transport,
		energy:            payload.Energy,
		materialAnalysis:  analysis.AnalyzeMaterials(materials),
		transportAnalysis: analysis.AnalyzeTransport(payload.Transport),
		energyAnalysis:    analysis.AnalyzeEnergy(payload.Energy),
	}

	generated := e.rules.Run(&suggest.Context{
		Materials: in.materials,
		Transport: in.transport,
		Energy:    in.energy,
	})
	highImpact := suggest.HighImpact(generated)

	metrics := aggregateMetrics(in, generated)
	completeness := dataCompleteness(in.materialAnalysis, in.transportAnalysis, in.energyAnalysis)

	if opts.IncludeBenchmarking {
		benchmark(&metrics)
	}
	if opts.IncludeRegulatoryCompliance {
		metrics.RegulatoryCompliance = regulatoryCompliance(metrics, completeness)
	}

	now := e.now().UTC()
	report := &Report{
		ReportID:         e.newID(now),
		Timestamp:        now,
		Format:           opts.Format,
		Suggestions:      []string{},
		Summary:          summarize(metrics, len(highImpact)),
		DataCompleteness: completeness,
	}

	if opts.IncludeRecommendations {
		emitted := generated
		if opts.Format == FormatExecutive {
			emitted = highImpact
		}
		report.Suggestions = suggest.Texts(emitted)
		if opts.IncludeImplementationDetails {
			report.DetailedSuggestions = emitted
		}
	}

	if opts.Format.IsDetailed() {
		report.Metrics = metrics
		attachAnalyses(ctx, report, in)
		e.attachLifecycle(report, payload, in, opts)
	} else {
		report.Metrics = basicMetrics(metrics)
	}

	log.Debug().
		Str("component", "engine").
		Str("report_id", report.ReportID).
		Float64("score", report.Metrics.SustainabilityScore).
		Int("suggestions", len(report.Suggestions)).
		Dur("duration", time.Since(start)).
		Msg("report generated")

	return report, stats, nil
}

// basicMetrics keeps the headline fields (plus any requested extras) for
// basic and executive reports.
func basicMetrics(m Metrics) Metrics {
	return Metrics{
		SustainabilityScore:    m.SustainabilityScore,
		EstimatedCarbonSavings: m.EstimatedCarbonSavings,
		ImprovementAreas:       m.ImprovementAreas,
		IndustryAverage:        m.IndustryAverage,
		BestInClass:            m.BestInClass,
		PercentileRanking:      m.PercentileRanking,
		RegulatoryCompliance:   m.RegulatoryCompliance,
	}
}

func attachAnalyses(ctx context.Context, r *Report, in categoryInputs) {
	if len(in.materials) > 0 {
		r.MaterialAnalysis = &in.materialAnalysis
	}
	if len(in.transport) > 0 {
		r.TransportAnalysis = &in.transportAnalysis
	}
	if len(in.energy) > 0 {
		r.EnergyAnalysis = &in.energyAnalysis
	}

	total := in.materialAnalysis.TotalEmbodiedCarbon +
		in.transportAnalysis.TotalEmissions +
		in.energyAnalysis.TotalEmissions
	r.TotalEmissionsKg = &total
	r.CarbonEquivalencies = greenops.ForEmissions(ctx, total)
}

func (e *Engine) attachLifecycle(r *Report, payload *ingest.Payload, in categoryInputs, opts Options) {
	if opts.IncludeLifecycleAssessment {
		a := lifecycle.Assess(assessmentInput(payload.Lifecycle, in))
		r.LifecycleAssessment = &a
	}

	if opts.IncludeCircularEconomyMetrics {
		m := lifecycle.CalculateCircularity(circularInput(payload.CircularEconomy, in))
		block := &CircularEconomyBlock{CircularMetrics: m}
		if opts.IncludeRecommendations {
			block.Recommendations = lifecycle.CircularRecommendations(m)
		}
		r.CircularEconomyMetrics = block
	}

	if opts.IncludeLifecycleCost {
		c := lifecycle.AnalyzeCost(costInput(payload.LifecycleCost, in))
		r.LifecycleCostAnalysis = &c
	}
}
