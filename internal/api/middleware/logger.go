package middleware

import (
	"net/http"
	"time"

	"github.com/pujakart/promotion-service/internal/observability"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs method, path, status and latency for every request.
func RequestLogger(logger *observability.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			ctx := observability.WithFields(r.Context(),
				observability.Field{Key: "method", Value: r.Method},
				observability.Field{Key: "path", Value: r.URL.Path},
				observability.Field{Key: "status", Value: sw.status},
				observability.Field{Key: "latency", Value: time.Since(start).String()},
			)
			logger.Info(ctx, "request completed")
		})
	}
}
