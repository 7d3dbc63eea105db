package router

import (
	"net/http"
	"strings"

	"CompanyAPI/internal/config"

	"github.com/rs/cors"
)

// newCORS answers preflight requests and adds CORS headers. AllowOrigin is a
// comma list; empty or "*" allows every origin.
func newCORS(cfg config.CORSConfig) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: parseOrigins(cfg.AllowOrigin),
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Accept"},
		ExposedHeaders:   []string{"X-Pagination", "Location"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           86400,
	})
}

func parseOrigins(allowOrigin string) []string {
	parts := strings.Split(allowOrigin, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		res = append(res, p)
	}
	if len(res) == 0 {
		return []string{"*"}
	}
	return res
}
