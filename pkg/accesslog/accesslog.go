package accesslog

import (
	"net/http"
	"time"

	"github.com/KretovDmitry/order-management-service/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns a middleware that records an access log message for every HTTP request being processed.
func Handler(logger logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				logger.With(r.Context(),
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start).String(),
				).Infof("%s %s %s %d", r.Method, r.URL.Path, r.Proto, status)
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(f)
	}
}
