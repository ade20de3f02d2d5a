package middleware

import (
	"net/http"

	"github.com/tasknest/tasknest-api/internal/api/shared"
)

// TraceMiddleware assigns each request a trace ID and stores it in the
// request context. Handlers echo the ID in error responses so a client
// report can be matched against server logs.
func TraceMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
