package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"CompanyAPI/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const claimsContextKey contextKey = "jwt_claims"

type JWTValidator struct {
	cfg       config.JWTConfig
	key       any
	expected  string
	clockFunc func() time.Time
}

func NewJWTValidator(cfg config.JWTConfig) (*JWTValidator, error) {
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, errors.New("jwt issuer is required")
	}
	if strings.TrimSpace(cfg.Audience) == "" {
		return nil, errors.New("jwt audience is required")
	}
	alg := strings.ToUpper(strings.TrimSpace(cfg.ValidationType))
	if alg == "" {
		return nil, errors.New("jwt validation type is required")
	}

	v := &JWTValidator{
		cfg:       cfg,
		expected:  alg,
		clockFunc: time.Now,
	}

	switch alg {
	case "HS256":
		if cfg.HMACSecret == "" {
			return nil, errors.New("jwt hmac secret is required for HS256")
		}
		v.key = []byte(cfg.HMACSecret)
	case "RS256":
		pem, err := loadPublicKeyPEM(cfg)
		if err != nil {
			return nil, err
		}
		key, err := jwt.ParseRSAPublicKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("jwt public key is not RSA: %w", err)
		}
		v.key = key
	case "ES256":
		pem, err := loadPublicKeyPEM(cfg)
		if err != nil {
			return nil, err
		}
		key, err := jwt.ParseECPublicKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("jwt public key is not ECDSA: %w", err)
		}
		v.key = key
	default:
		return nil, fmt.Errorf("unsupported jwt validation type: %s", cfg.ValidationType)
	}

	return v, nil
}

// ValidateToken checks signature, issuer, audience and the exp/nbf/iat
// claims, all three of which are required.
func (v *JWTValidator) ValidateToken(token string) (map[string]any, error) {
	skew := v.cfg.ClockSkewSec
	if skew < 0 {
		skew = 0
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{v.expected}),
		jwt.WithIssuer(v.cfg.Issuer),
		jwt.WithAudience(v.cfg.Audience),
		jwt.WithLeeway(time.Duration(skew)*time.Second),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.clockFunc),
	)

	claims := jwt.MapClaims{}
	if _, err := parser.ParseWithClaims(token, claims, v.keyFunc); err != nil {
		return nil, fmt.Errorf("invalid jwt: %w", err)
	}
	for _, check := range []struct {
		name string
		get  func() (*jwt.NumericDate, error)
	}{
		{"exp", claims.GetExpirationTime},
		{"nbf", claims.GetNotBefore},
		{"iat", claims.GetIssuedAt},
	} {
		if d, err := check.get(); err != nil || d == nil {
			return nil, fmt.Errorf("jwt claim %s is required", check.name)
		}
	}
	return claims, nil
}

// keyFunc runs after WithValidMethods accepted the token's alg.
func (v *JWTValidator) keyFunc(*jwt.Token) (any, error) {
	return v.key, nil
}

func WithClaims(ctx context.Context, claims map[string]any) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

func ClaimsFromContext(ctx context.Context) (map[string]any, bool) {
	claims, ok := ctx.Value(claimsContextKey).(map[string]any)
	return claims, ok
}

func loadPublicKeyPEM(cfg config.JWTConfig) ([]byte, error) {
	keyPEM := strings.TrimSpace(cfg.PublicKeyPEM)
	if keyPEM == "" && strings.TrimSpace(cfg.PublicKeyPath) != "" {
		data, err := os.ReadFile(cfg.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read jwt public key: %w", err)
		}
		keyPEM = string(data)
	}
	if keyPEM == "" {
		return nil, errors.New("jwt public key is required")
	}
	return []byte(keyPEM), nil
}
