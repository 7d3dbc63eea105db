package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"CompanyAPI/internal/auth"
	"CompanyAPI/internal/config"
	"CompanyAPI/internal/handler"
	"CompanyAPI/internal/logger"
	"CompanyAPI/internal/mapping"
	"CompanyAPI/internal/repository"
	"CompanyAPI/internal/store/memory"

	"github.com/golang-jwt/jwt/v5"
)

func testConfig() *config.Config {
	return &config.Config{
		Paging: config.PagingConfig{DefaultPageSize: 5, MaxPageSize: 20},
		CORS:   config.CORSConfig{AllowOrigin: "*"},
		Auth: config.AuthConfig{
			Enabled: true,
			JWT: config.JWTConfig{
				ValidationType: "HS256",
				Issuer:         "auth-service",
				Audience:       "company-api",
				HMACSecret:     "router-secret",
			},
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	store := memory.New()
	if err := store.Seed(context.Background(), memory.DemoCompanies()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	reg, err := mapping.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	h := handler.New(func() repository.CompanyRepository { return repository.New(store, reg) }, reg, cfg.Paging)

	var v *auth.JWTValidator
	if cfg.Auth.Enabled {
		v, err = auth.NewJWTValidator(cfg.Auth.JWT)
		if err != nil {
			t.Fatalf("NewJWTValidator: %v", err)
		}
	}
	return New(cfg, h, v)
}

func token(t *testing.T, cfg config.JWTConfig) string {
	t.Helper()
	now := time.Now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": cfg.Issuer,
		"aud": cfg.Audience,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(time.Minute).Unix(),
	}).SignedString([]byte(cfg.HMACSecret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return signed
}

func TestRouterGuardsWrites(t *testing.T) {
	cfg := testConfig()
	r := newTestRouter(t, cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/companies", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}

	body := `{"name":"Acme"}`
	req := httptest.NewRequest(http.MethodPost, "/api/companies", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("POST without token status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/companies", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token(t, cfg.Auth.JWT))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST with token status = %d: %s", w.Code, w.Body.String())
	}
}

func TestRouterWithoutAuth(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Enabled = false
	r := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/companies", strings.NewReader(`{"name":"Acme"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST status = %d", w.Code)
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Enabled = false
	r := newTestRouter(t, cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/companies", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("PUT /api/companies status = %d", w.Code)
	}
}

func TestWithLoggingRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(nil) })

	h := withLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	out := buf.String()
	if !strings.Contains(out, `"status":418`) || !strings.Contains(out, `"level":"warning"`) {
		t.Fatalf("unexpected log line: %s", out)
	}
}
