package engine

import (
	"context"
	"strings"

	"github.com/rshade/ecoscore/internal/apperr"
	"github.com/rshade/ecoscore/internal/engine/batch"
	"github.com/rshade/ecoscore/internal/ingest"
	"github.com/rshade/ecoscore/internal/logging"
)

// FactorSource supplies embodied carbon factors for materials that arrive
// without one. Implementations are opaque to the engine.
type FactorSource interface {
	// EmbodiedCarbon returns the factor for a material name and optional
	// type. ok is false when the source has no factor.
	EmbodiedCarbon(ctx context.Context, name, materialType string) (factor float64, ok bool, err error)
}

// PrepareMaterials processes materials in batches of the engine's batch
// size, filling missing embodied carbon factors from the factor source. It
// returns the prepared materials in input order and preparation stats.
func (e *Engine) PrepareMaterials(ctx context.Context, materials []ingest.Material) ([]ingest.Material, Stats, error) {
	log := logging.FromContext(ctx)

	proc, err := batch.NewProcessor[ingest.Material](e.batchSize)
	if err != nil {
		return nil, Stats{}, apperr.Wrap(apperr.KindInternal, err, "invalid batch size")
	}
	proc.OnProgress(func(p batch.Progress) {
		log.Trace().
			Str("component", "engine").
			Str("operation", "prepare_materials").
			Int("batch", p.BatchesDone).
			Int("batches", p.Batches).
			Float64("progress", p.Fraction()).
			Msg("material batch prepared")
	})

	var applied int
	prepared, batches, err := batch.Collect(ctx, proc, materials,
		func(ctx context.Context, m ingest.Material) (ingest.Material, error) {
			filled, ok, lookupErr := e.fillFactor(ctx, m)
			if lookupErr != nil {
				return m, lookupErr
			}
			if ok {
				applied++
			}
			return filled, nil
		})
	if err != nil {
		return nil, Stats{Batches: batches}, apperr.FromForeign(err)
	}

	log.Debug().
		Str("component", "engine").
		Str("operation", "prepare_materials").
		Int("materials", len(prepared)).
		Int("batches", batches).
		Int("factors_applied", applied).
		Msg("materials prepared")

	return prepared, Stats{Batches: batches, MaterialCount: len(prepared), FactorsApplied: applied}, nil
}

// fillFactor returns m with EmbodiedCarbon set from the factor source when
// it was missing. The input is never modified.
func (e *Engine) fillFactor(ctx context.Context, m ingest.Material) (ingest.Material, bool, error) {
	if m.EmbodiedCarbon != nil || e.factors == nil {
		return m, false, nil
	}

	materialType := ""
	if m.Type != nil {
		materialType = strings.TrimSpace(*m.Type)
	}

	factor, ok, err := e.factors.EmbodiedCarbon(ctx, m.Name, materialType)
	if err != nil || !ok {
		return m, false, err
	}

	m.EmbodiedCarbon = &factor
	return m, true, nil
}
