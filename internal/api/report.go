package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rshade/ecoscore/internal/apperr"
	"github.com/rshade/ecoscore/internal/engine"
	"github.com/rshade/ecoscore/internal/engine/cache"
	"github.com/rshade/ecoscore/internal/ingest"
	"github.com/rshade/ecoscore/internal/logging"
)

// reportOperation names report cache keys.
const reportOperation = "report"

// cachedReport is what the report cache stores.
type cachedReport struct {
	Report           json.RawMessage `json:"report"`
	Batches          int             `json:"batches"`
	DataCompleteness float64         `json:"dataCompleteness"`
}

// reportKeyPayload is the normalized request used for the cache key.
type reportKeyPayload struct {
	Materials       []ingest.Material  `json:"materials,omitempty"`
	Transport       []ingest.Transport `json:"transport,omitempty"`
	Energy          []ingest.Energy    `json:"energy,omitempty"`
	HasMaterials    bool               `json:"hasMaterials"`
	HasTransport    bool               `json:"hasTransport"`
	HasEnergy       bool               `json:"hasEnergy"`
	Lifecycle       any                `json:"lifecycle,omitempty"`
	CircularEconomy any                `json:"circularEconomy,omitempty"`
	LifecycleCost   any                `json:"lifecycleCost,omitempty"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.FromContext(ctx)

	opts, err := ParseReportOptions(r.URL.Query())
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(ctx, w, apperr.Validation("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(ctx, w, apperr.Malformed(err, "reading request body"))
		return
	}

	payload, err := ingest.ParsePayloadWithContext(ctx, body)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	key, err := cache.GenerateKey(cache.KeyParams{
		Operation: reportOperation,
		Payload:   keyPayload(payload),
		Options:   opts,
	})
	if err != nil {
		s.writeError(ctx, w, apperr.Wrap(apperr.KindInternal, err, "building cache key"))
		return
	}

	data, hit, err := s.reports.GetOrCompute(ctx, key, func(ctx context.Context) (json.RawMessage, error) {
		return s.computeReport(ctx, payload, opts)
	})
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	var entry cachedReport
	if err := json.Unmarshal(data, &entry); err != nil {
		s.writeError(ctx, w, apperr.Wrap(apperr.KindInternal, err, "decoding cached report"))
		return
	}

	if payload.HasMaterials && len(payload.Materials) > 0 {
		s.publishMaterials(ctx, payload.Materials)
	}

	meta := s.metadata(ctx, RequestTypeReport)
	meta.CacheHit = hit
	meta.Batches = entry.Batches
	meta.DataQuality = NewDataQuality(entry.DataCompleteness)

	resp, err := mergeEnvelope(entry.Report, meta)
	if err != nil {
		s.writeError(ctx, w, apperr.Wrap(apperr.KindInternal, err, "encoding report"))
		return
	}

	log.Info().
		Str("component", "api").
		Str("operation", "report").
		Str("format", string(opts.Format)).
		Bool("cache_hit", hit).
		Int("batches", entry.Batches).
		Msg("report served")

	writeJSON(ctx, w, http.StatusOK, resp)
}

func (s *Server) computeReport(ctx context.Context, payload *ingest.Payload, opts engine.Options) (json.RawMessage, error) {
	report, stats, err := s.engine.Generate(ctx, payload, opts)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "encoding report")
	}
	return json.Marshal(cachedReport{
		Report:           raw,
		Batches:          stats.Batches,
		DataCompleteness: report.DataCompleteness,
	})
}

// mergeEnvelope adds success and metadata to the top level of a report.
// Field bytes are kept as generated.
func mergeEnvelope(report json.RawMessage, meta Metadata) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(report, &fields); err != nil {
		return nil, err
	}
	rawMeta, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	fields["success"] = json.RawMessage("true")
	fields["metadata"] = rawMeta
	return fields, nil
}

func keyPayload(p *ingest.Payload) reportKeyPayload {
	k := reportKeyPayload{
		Materials:    p.Materials,
		Transport:    p.Transport,
		Energy:       p.Energy,
		HasMaterials: p.HasMaterials,
		HasTransport: p.HasTransport,
		HasEnergy:    p.HasEnergy,
	}
	if p.Lifecycle != nil {
		k.Lifecycle = p.Lifecycle
	}
	if p.CircularEconomy != nil {
		k.CircularEconomy = p.CircularEconomy
	}
	if p.LifecycleCost != nil {
		k.LifecycleCost = p.LifecycleCost
	}
	return k
}
