package api

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"roombook/internal/domain"
	"roombook/internal/metrics"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	identityKey  contextKey = "identity"

	requestIDHeader = "X-Request-ID"
)

// RequestIDFromContext returns the id assigned by the request middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.status = status
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

// requestContext assigns a request id and recovers panics. It wraps the
// whole router so unmatched paths are covered too.
func requestContext(logger *zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID))

		defer func() {
			if rec := recover(); rec != nil {
				logger.Error().
					Str("request_id", requestID).
					Interface("panic", rec).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("Panic recovered")
				writeErrorMessage(w, http.StatusInternalServerError, domain.KindInternal, "internal error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// instrument logs and measures a single route. route is the router pattern
// so that path parameters do not explode metric cardinality.
func instrument(logger *zerolog.Logger, route string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(recorder, r, ps)

		elapsed := time.Since(start)
		metrics.ObserveHTTP(route, r.Method, recorder.status, elapsed)

		event := logger.Info()
		if recorder.status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Str("request_id", RequestIDFromContext(r.Context())).
			Str("method", r.Method).
			Str("route", route).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", elapsed).
			Msg("http request")
	}
}
