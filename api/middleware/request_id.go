package middleware

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/tigraytip/storefront-backend/pkg/logger"
)

// RequestIDHeader is echoed back so clients can correlate failures.
const RequestIDHeader = "X-Request-Id"

// RequestID assigns each request an id, attaches it to the log context, and
// echoes it in the response headers. Incoming ids are trusted as-is.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := logg.WithRequestID(r.Context(), requestID)
			ctx = context.WithValue(ctx, chimiddleware.RequestIDKey, requestID)

			w.Header().Set(RequestIDHeader, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
