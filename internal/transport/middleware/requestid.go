package middleware

import (
	"net/http"

	"github.com/haingladys/jsdc-accounting/pkg/logger"

	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

// RequestID propagates X-Trace-ID and binds it, with chi's request id, to the
// request logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		fields := []any{"trace_id", traceID}
		if reqID := chiMiddleware.GetReqID(r.Context()); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		ctx := logger.With(r.Context(), fields...)

		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
