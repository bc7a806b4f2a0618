package middleware

import (
	"net/http"

	"github.com/google/uuid"

	wrap "github.com/uberspeed/dispatch/pkg/logger/wrapper"
)

// RequestID injects a request id into the log context, taking the caller's
// X-Request-ID when present.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := wrap.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
