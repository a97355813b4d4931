package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rshade/ecoscore/internal/apperr"
	"github.com/rshade/ecoscore/internal/engine/cache"
	"github.com/rshade/ecoscore/internal/ingest"
	"github.com/rshade/ecoscore/internal/logging"
	"github.com/rshade/ecoscore/internal/pagination"
)

// materialsKey is the single materials listing cache key.
//
//nolint:gochecknoglobals // Derived once from a constant
var materialsKey = cache.GenerateSimpleKey(RequestTypeMaterials, "listing")

// errNoMaterials is returned when nothing has populated the listing.
var errNoMaterials = errors.New("no cached materials available; submit a report with materials first")

// MaterialSorter sorts material listings by the fields clients may request.
//
//nolint:gochecknoglobals // Constant sort table
var MaterialSorter = pagination.NewSorter(map[string]func(a, b ingest.Material) int{
	"name":            pagination.By(func(m ingest.Material) string { return strings.ToLower(m.Name) }),
	"type":            pagination.By(func(m ingest.Material) string { return ingest.Lower(m.Type) }),
	"quantity":        pagination.By(func(m ingest.Material) float64 { return deref(m.Quantity) }),
	"embodiedCarbon":  pagination.By(func(m ingest.Material) float64 { return deref(m.EmbodiedCarbon) }),
	"recycledContent": pagination.By(func(m ingest.Material) float64 { return deref(m.RecycledContent) }),
})

type materialsResponse struct {
	Success bool              `json:"success"`
	Data    []ingest.Material `json:"data"`
	pagination.Meta
	Metadata Metadata `json:"metadata"`
}

func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := pagination.ParseQuery(r.URL.Query())
	if err != nil {
		s.writeError(ctx, w, apperr.Validation("%v", err))
		return
	}

	materials, hit, err := s.listing(ctx)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	sorted, err := MaterialSorter.Sort(materials, params.SortField, params.SortOrder)
	if err != nil {
		s.writeError(ctx, w, apperr.Validation("%v", err))
		return
	}

	meta := s.metadata(ctx, RequestTypeMaterials)
	meta.CacheHit = hit

	writeJSON(ctx, w, http.StatusOK, materialsResponse{
		Success:  true,
		Data:     pagination.Apply(sorted, params),
		Meta:     pagination.NewMeta(params, len(sorted)),
		Metadata: meta,
	})
}

// listing returns the cached materials. With a MaterialSource an absent
// or expired listing is reloaded from it; without one it is NotFound.
func (s *Server) listing(ctx context.Context) ([]ingest.Material, bool, error) {
	var (
		data json.RawMessage
		hit  bool
		err  error
	)
	if s.source != nil {
		data, hit, err = s.materials.GetOrCompute(ctx, materialsKey, s.loadSource)
	} else {
		var entry *cache.Entry
		entry, err = s.materials.Get(materialsKey)
		if errors.Is(err, cache.ErrCacheNotFound) || errors.Is(err, cache.ErrCacheExpired) {
			return nil, false, apperr.Wrap(apperr.KindNotFound, err, "%v", errNoMaterials)
		}
		if entry != nil {
			data, hit = entry.Data, true
		}
	}
	if err != nil {
		return nil, false, apperr.FromForeign(err)
	}

	var materials []ingest.Material
	if err := json.Unmarshal(data, &materials); err != nil {
		return nil, false, apperr.Wrap(apperr.KindInternal, err, "decoding cached materials")
	}
	return materials, hit, nil
}

func (s *Server) loadSource(ctx context.Context) (json.RawMessage, error) {
	materials, err := s.source.ListMaterials(ctx)
	if err != nil {
		return nil, err
	}
	if len(materials) == 0 {
		return nil, apperr.NotFound("%v", errNoMaterials)
	}
	return json.Marshal(materials)
}

// SeedMaterials loads the listing from the MaterialSource, if any.
func (s *Server) SeedMaterials(ctx context.Context) error {
	if s.source == nil {
		return nil
	}
	materials, _, err := s.listing(ctx)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info().
		Str("component", "api").
		Int("materials", len(materials)).
		Msg("materials listing seeded from catalog")
	return nil
}

// publishMaterials replaces the listing with the materials of a request.
func (s *Server) publishMaterials(ctx context.Context, materials []ingest.Material) {
	data, err := json.Marshal(materials)
	if err == nil {
		err = s.materials.Set(materialsKey, data)
	}
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "api").
			Err(err).
			Msg("failed to cache materials listing")
	}
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
