package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/ecoscore/internal/engine"
	"github.com/rshade/ecoscore/internal/engine/cache"
	"github.com/rshade/ecoscore/internal/ingest"
	"github.com/rshade/ecoscore/pkg/version"
)

const concreteBody = `{"materials":[{"name":"Concrete Mix A"}]}`

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	base := []Option{
		WithReportCache(cache.NewMemoryStore("reports", cache.DefaultReportTTLSeconds)),
		WithMaterialsCache(cache.NewMemoryStore("materials", cache.DefaultMaterialsTTLSeconds)),
	}
	return New(engine.New(), append(base, opts...)...)
}

func do(t *testing.T, s *Server, method, target, body string, headers ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

func metadataOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	meta, ok := body["metadata"].(map[string]any)
	require.True(t, ok, "metadata envelope missing: %v", body)
	return meta
}

func TestPostReport_ConcreteScenario(t *testing.T) {
	s := newTestServer(t)

	rec, body := do(t, s, http.MethodPost, "/", concreteBody, HeaderRequestID, "req-123")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, true, body["success"])
	assert.Equal(t, "req-123", rec.Header().Get(HeaderRequestID))

	suggestions, ok := body["suggestions"].([]any)
	require.True(t, ok)
	var geopolymer bool
	for _, sg := range suggestions {
		if strings.Contains(sg.(string), "geopolymer") {
			geopolymer = true
		}
	}
	assert.True(t, geopolymer)

	metrics := body["metrics"].(map[string]any)
	assert.Contains(t, metrics["improvementAreas"], "Transport data collection")
	assert.Contains(t, metrics["improvementAreas"], "Energy data collection")

	meta := metadataOf(t, body)
	assert.Equal(t, version.GetAPIVersion(), meta["version"])
	assert.Equal(t, "req-123", meta["requestId"])
	assert.Equal(t, RequestTypeReport, meta["requestType"])
	assert.Equal(t, false, meta["cacheHit"])
	assert.EqualValues(t, 1, meta["batches"])
	quality := meta["dataQuality"].(map[string]any)
	assert.Equal(t, QualityLow, quality["level"])
	assert.NotEmpty(t, body["reportId"])
}

func TestPostReport_CacheHit(t *testing.T) {
	s := newTestServer(t)

	_, first := do(t, s, http.MethodPost, "/?format=detailed", concreteBody)
	_, second := do(t, s, http.MethodPost, "/?format=detailed", concreteBody)

	assert.Equal(t, false, metadataOf(t, first)["cacheHit"])
	assert.Equal(t, true, metadataOf(t, second)["cacheHit"])
	assert.Equal(t, first["reportId"], second["reportId"], "cached report is returned as stored")
	assert.NotEqual(t, metadataOf(t, first)["requestId"], metadataOf(t, second)["requestId"])

	_, other := do(t, s, http.MethodPost, "/?format=executive", concreteBody)
	assert.Equal(t, false, metadataOf(t, other)["cacheHit"], "options are part of the key")
}

func TestPostReport_Batches(t *testing.T) {
	items := make([]string, 120)
	for i := range items {
		items[i] = fmt.Sprintf(`{"name":"m-%d","embodiedCarbon":0.4}`, i)
	}
	body := `{"materials":[` + strings.Join(items, ",") + `]}`

	rec, resp := do(t, newTestServer(t), http.MethodPost, "/?detailed=true", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, metadataOf(t, resp)["batches"])
	analysis := resp["materialAnalysis"].(map[string]any)
	assert.EqualValues(t, 120, analysis["count"])
}

func TestPostReport_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       string
		headers    []string
		wantStatus int
		wantKind   string
		wantMsg    string
	}{
		{"malformed json", "/", `{"materials": [`, nil, 400, "MalformedRequest", "not valid JSON"},
		{"no arrays", "/", `{"notes":"x"}`, nil, 400, "ValidationError", "at least one of"},
		{"not an array", "/", `{"materials":{"name":"x"}}`, nil, 400, "ValidationError", "materials must be an array"},
		{"missing name", "/", `{"materials":[{"name":"ok"},{"quantity":2}]}`, nil, 400, "ValidationError", "materials[1]"},
		{"bad bool option", "/?detailed=maybe", concreteBody, nil, 400, "ValidationError", "detailed"},
		{"bad format", "/?format=verbose", concreteBody, nil, 400, "ValidationError", "format"},
		{"incompatible api version", "/", concreteBody, []string{HeaderAPIVersion, "3.0.0"}, 400, "ValidationError", HeaderAPIVersion},
		{"unknown route", "/reports", concreteBody, nil, 404, "NotFound", "no route"},
		{
			"huge lifespan", "/?detailed=true&includeLifecycleCost=true",
			`{"materials":[{"name":"Steel"}],"lifecycleCost":{"lifespan":20000000}}`,
			nil, 400, "ValidationError", "lifecycleCost.lifespan",
		},
		{
			"discount rate near -1", "/?detailed=true&includeLifecycleCost=true",
			`{"materials":[{"name":"Steel"}],"lifecycleCost":{"discountRate":-0.99,"lifespan":500}}`,
			nil, 400, "ValidationError", "lifecycleCost",
		},
		{
			"overflowing embodied carbon", "/?detailed=true",
			`{"materials":[{"name":"Steel","embodiedCarbon":1e308,"quantity":10}]}`,
			nil, 400, "ValidationError", "materials[0].embodiedCarbon",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, newTestServer(t), http.MethodPost, tt.target, tt.body, tt.headers...)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantKind, body["kind"])
			assert.Contains(t, body["error"], tt.wantMsg)
			assert.Nil(t, body["stack"])
			metadataOf(t, body)
		})
	}
}

func TestPostReport_ExtremeValuesStillEncode(t *testing.T) {
	body := `{
		"materials":[{"name":"Steel","embodiedCarbon":1e12,"quantity":1e12,"recycledContent":1e12}],
		"transport":[{"type":"truck","distance":1e12,"emissionsFactor":1e12,"weight":1e12}],
		"energy":[{"source":"grid","consumption":1e12,"carbonIntensity":1e12,"cost":1e12}],
		"lifecycleCost":{"lifespan":200,"discountRate":-0.5,"inflationRate":1,"energyCostEscalation":1}
	}`
	target := "/?format=technical&includeLifecycleAssessment=true&includeCircularEconomyMetrics=true" +
		"&includeLifecycleCost=true&includeBenchmarking=true&includeRegulatoryCompliance=true"

	start := time.Now()
	rec, resp := do(t, newTestServer(t), http.MethodPost, target, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Less(t, time.Since(start), 5*time.Second)
	require.NotNil(t, resp["lifecycleCostAnalysis"])
	assert.EqualValues(t, 200, resp["lifecycleCostAnalysis"].(map[string]any)["lifespan"])
}

func TestPostReport_BodyTooLarge(t *testing.T) {
	s := newTestServer(t, WithConfig(Config{CORSOrigin: "*", MaxBodyBytes: 16}))
	rec, body := do(t, s, http.MethodPost, "/", concreteBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "exceeds 16 bytes")
}

type failingFactors struct{}

func (failingFactors) EmbodiedCarbon(context.Context, string, string) (float64, bool, error) {
	return 0, false, errors.New("disk on fire")
}

func TestPostReport_InternalErrorStack(t *testing.T) {
	eng := engine.New(engine.WithFactorSource(failingFactors{}))

	prod := New(eng)
	rec, body := do(t, prod, http.MethodPost, "/", concreteBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "InternalError", body["kind"])
	assert.Nil(t, body["stack"])
	assert.Nil(t, body["details"])

	dev := New(eng, WithConfig(Config{CORSOrigin: "*", Development: true}))
	rec, body = do(t, dev, http.MethodPost, "/", concreteBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, body["stack"])
	assert.Contains(t, body["details"], "disk on fire")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, WithConfig(Config{CORSOrigin: "https://app.example.com"}))

	for _, target := range []string{"/", "/materials"} {
		rec, _ := do(t, s, http.MethodOptions, target, "not json", HeaderAPIVersion, "9.9.9")
		assert.Equal(t, http.StatusNoContent, rec.Code, target)
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Empty(t, rec.Body.String())
	}
}

func TestRateLimited(t *testing.T) {
	s := newTestServer(t, WithRateLimiter(NewRateLimiter(1, time.Minute)))

	rec, _ := do(t, s, http.MethodPost, "/", concreteBody)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := do(t, s, http.MethodPost, "/", concreteBody)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RateLimited", body["kind"])
	assert.Contains(t, body["error"], "quota")
	assert.NotEmpty(t, rec.Header().Get(HeaderRetryAfter))

	rec, _ = do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code, "health checks are not limited")
}

func TestGetMaterials(t *testing.T) {
	s := newTestServer(t)

	rec, body := do(t, s, http.MethodGet, "/materials", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NotFound", body["kind"])

	items := make([]string, 45)
	for i := range items {
		items[i] = fmt.Sprintf(`{"name":"material-%02d"}`, i)
	}
	rec, _ = do(t, s, http.MethodPost, "/", `{"materials":[`+strings.Join(items, ",")+`]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = do(t, s, http.MethodGet, "/materials?page=3&pageSize=20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 45, body["total"])
	assert.EqualValues(t, 3, body["page"])
	assert.EqualValues(t, 20, body["pageSize"])
	assert.EqualValues(t, 3, body["totalPages"])
	data := body["data"].([]any)
	require.Len(t, data, 5)
	assert.Equal(t, "material-40", data[0].(map[string]any)["name"])
	meta := metadataOf(t, body)
	assert.Equal(t, RequestTypeMaterials, meta["requestType"])
	assert.Equal(t, true, meta["cacheHit"])

	_, body = do(t, s, http.MethodGet, "/materials?sort=name:desc&pageSize=1", "")
	assert.Equal(t, "material-44", body["data"].([]any)[0].(map[string]any)["name"])

	rec, _ = do(t, s, http.MethodGet, "/materials?pageSize=1000", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = do(t, s, http.MethodGet, "/materials?sort=supplier", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakeSource struct {
	materials []ingest.Material
	calls     int
}

func (f *fakeSource) ListMaterials(context.Context) ([]ingest.Material, error) {
	f.calls++
	return f.materials, nil
}

func TestGetMaterials_SeededFromSource(t *testing.T) {
	ec := 1.9
	src := &fakeSource{materials: []ingest.Material{{Name: "Steel", EmbodiedCarbon: &ec}, {Name: "Brick"}}}
	s := newTestServer(t, WithMaterialSource(src))

	require.NoError(t, s.SeedMaterials(context.Background()))
	assert.Equal(t, 1, src.calls)

	rec, body := do(t, s, http.MethodGet, "/materials?sort=name", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["total"])
	assert.Equal(t, "Brick", body["data"].([]any)[0].(map[string]any)["name"])
	assert.Equal(t, 1, src.calls, "served from cache")
}

func TestGetMaterials_EmptySource(t *testing.T) {
	s := newTestServer(t, WithMaterialSource(&fakeSource{}))
	rec, _ := do(t, s, http.MethodGet, "/materials", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	rec, body := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, RequestTypeHealth, metadataOf(t, body)["requestType"])
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}
