package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/rshade/ecoscore/internal/apperr"
	"github.com/rshade/ecoscore/internal/logging"
	"github.com/rshade/ecoscore/pkg/version"
)

// requestContext attaches the request ID, start time and a request-scoped
// logger to the context, and recovers panics into 500 responses.
func (s *Server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		ctx := logging.ContextWithRequestID(r.Context(), r.Header.Get(HeaderRequestID))
		requestID := logging.GetOrGenerateRequestID(ctx)
		ctx = logging.ContextWithRequestID(ctx, requestID)
		ctx = withRequestStart(ctx, start)

		logger := s.logger.With().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		ctx = logger.WithContext(ctx)

		w.Header().Set(HeaderRequestID, requestID)
		w.Header().Set(HeaderAPIVersion, version.GetAPIVersion())

		defer func() {
			if rec := recover(); rec != nil {
				s.writeError(ctx, w, apperr.New(apperr.KindInternal, "internal error: %v", rec))
			}
		}()

		next.ServeHTTP(w, r.WithContext(ctx))

		logger.Debug().
			Str("component", "api").
			Dur("duration", s.now().Sub(start)).
			Msg("request handled")
	})
}

// cors sets the CORS headers and answers preflight requests with 204
// before any validation runs.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.cfg.CORSOrigin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, "+HeaderRequestID+", "+HeaderAPIVersion)
		h.Set("Access-Control-Expose-Headers", HeaderRequestID+", "+HeaderAPIVersion)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// versionCheck rejects clients requesting an incompatible API version.
func (s *Server) versionCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := version.CheckCompatible(r.Header.Get(HeaderAPIVersion)); err != nil {
			s.writeError(r.Context(), w, apperr.Validation("%s: %v", HeaderAPIVersion, err))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limited applies the rate limiter to next.
func (s *Server) limited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		allowed, remaining, retryAfter := s.limiter.Allow(clientKey(r))
		if !allowed {
			w.Header().Set(HeaderRetryAfter, strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			w.Header().Set(HeaderRemaining, "0")
			s.writeError(r.Context(), w, apperr.RateLimited("request quota exceeded"))
			return
		}
		w.Header().Set(HeaderRemaining, strconv.Itoa(remaining))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(r.Context(), w, apperr.NotFound("no route for %s %s", r.Method, r.URL.Path))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, struct {
		Success  bool     `json:"success"`
		Status   string   `json:"status"`
		Metadata Metadata `json:"metadata"`
	}{true, "ok", s.metadata(r.Context(), RequestTypeHealth)})
}
