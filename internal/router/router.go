package router

import (
	"net/http"
	"time"

	"CompanyAPI/internal/auth"
	"CompanyAPI/internal/config"
	"CompanyAPI/internal/handler"
	"CompanyAPI/internal/logger"
)

// New builds the API handler: routes, then bearer auth on writes, request
// logging and CORS outermost. A nil validator leaves writes open.
func New(cfg *config.Config, h *handler.Handler, validator *auth.JWTValidator) http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)

	var next http.Handler = mux
	next = auth.RequireBearer(validator, next)
	next = withLogging(next)
	return newCORS(cfg.CORS).Handler(next)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		fields := map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      sw.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		switch {
		case sw.status >= 500:
			logger.Error("response", fields)
		case sw.status >= 400:
			logger.Warn("response", fields)
		default:
			logger.Info("response", fields)
		}
	})
}
