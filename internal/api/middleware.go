package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/sankeyflow/pkg/observability"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds client supplied ids.
const maxRequestIDLen = 128

type ctxKey int

const requestIDKey ctxKey = 0

// requestID reuses a client supplied X-Request-ID or generates a UUID, and
// echoes it on the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the id assigned by the request id middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// accessLog logs each request and reports it to the API hooks.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := RequestIDFromContext(r.Context())
		hooks := observability.API()

		hooks.OnRequest(r.Context(), id, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		hooks.OnResponse(r.Context(), id, r.Method, route, status, elapsed)

		logf := s.logger.Info
		if status >= http.StatusInternalServerError {
			logf = s.logger.Error
		}
		logf("request",
			"id", id,
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed.Round(time.Microsecond))
	})
}
