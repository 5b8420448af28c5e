package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds request handling. The deadline also propagates through the
// request context, so provider calls and row locks give up with it.
func Timeout(limit time.Duration) func(http.Handler) http.Handler {
	const body = `{"success":false,"error":{"code":"TIMEOUT","message":"request timed out"}}`

	return func(next http.Handler) http.Handler {
		handler := http.TimeoutHandler(next, limit, body)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), limit)
			defer cancel()

			handler.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
