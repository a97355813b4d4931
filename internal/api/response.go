package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rshade/ecoscore/internal/apperr"
	"github.com/rshade/ecoscore/internal/logging"
	"github.com/rshade/ecoscore/pkg/version"
)

// Request types recorded in the metadata envelope.
const (
	RequestTypeReport    = "report"
	RequestTypeMaterials = "materials"
	RequestTypeHealth    = "health"
	RequestTypeError     = "error"
)

// Data quality levels derived from report completeness.
const (
	QualityHigh   = "high"
	QualityMedium = "medium"
	QualityLow    = "low"

	highQualityAt   = 0.7
	mediumQualityAt = 0.4
)

// Metadata is the envelope attached to every response.
type Metadata struct {
	Version        string       `json:"version"`
	RequestID      string       `json:"requestId"`
	Timestamp      time.Time    `json:"timestamp"`
	ProcessingTime float64      `json:"processingTime"`
	RequestType    string       `json:"requestType"`
	DataQuality    *DataQuality `json:"dataQuality,omitempty"`
	CacheHit       bool         `json:"cacheHit"`
	Batches        int          `json:"batches,omitempty"`
}

// DataQuality grades the completeness of the submitted data.
type DataQuality struct {
	Completeness float64 `json:"completeness"`
	Level        string  `json:"level"`
}

// NewDataQuality grades a completeness in [0,1].
func NewDataQuality(completeness float64) *DataQuality {
	level := QualityLow
	switch {
	case completeness >= highQualityAt:
		level = QualityHigh
	case completeness >= mediumQualityAt:
		level = QualityMedium
	}
	return &DataQuality{Completeness: completeness, Level: level}
}

type errorResponse struct {
	Success  bool     `json:"success"`
	Error    string   `json:"error"`
	Kind     string   `json:"kind"`
	Details  string   `json:"details,omitempty"`
	Stack    string   `json:"stack,omitempty"`
	Metadata Metadata `json:"metadata"`
}

type requestStartKey struct{}

func withRequestStart(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestStartKey{}, t)
}

// metadata builds the envelope for the request carried in ctx.
func (s *Server) metadata(ctx context.Context, requestType string) Metadata {
	now := s.now()
	var elapsed time.Duration
	if start, ok := ctx.Value(requestStartKey{}).(time.Time); ok {
		elapsed = now.Sub(start)
	}
	return Metadata{
		Version:        version.GetAPIVersion(),
		RequestID:      logging.RequestIDFromContext(ctx),
		Timestamp:      now.UTC(),
		ProcessingTime: float64(elapsed) / float64(time.Millisecond),
		RequestType:    requestType,
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "api").
			Err(err).
			Msg("failed to write response")
	}
}

// writeError maps err to its status and writes the error envelope. Stack
// traces are only exposed in development mode.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		e = apperr.FromForeign(err)
	}
	status := e.Kind.HTTPStatus()

	resp := errorResponse{
		Success:  false,
		Error:    e.Message,
		Kind:     string(e.Kind),
		Details:  e.Details,
		Metadata: s.metadata(ctx, RequestTypeError),
	}
	if resp.Details == "" && e.Err != nil && (e.Kind != apperr.KindInternal || s.cfg.Development) {
		resp.Details = e.Err.Error()
	}
	if s.cfg.Development {
		resp.Stack = e.Stack
	}

	log := logging.FromContext(ctx)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.
		Str("component", "api").
		Str("kind", string(e.Kind)).
		Int("status", status).
		Err(err).
		Msg("request failed")

	writeJSON(ctx, w, status, resp)
}
