package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mtlprog/nexus/api"
	"github.com/mtlprog/nexus/internal/domain"
)

type contextKey string

const (
	// ContextKeyAPIKey is the key for storing the accepted API key in request context.
	ContextKeyAPIKey contextKey = "api_key"
)

// AuthMiddleware handles Bearer API key authentication for ingest routes.
// With no keys configured every request passes through.
type AuthMiddleware struct {
	keys [][]byte
}

// NewAuthMiddleware creates a new AuthMiddleware accepting any of keys.
func NewAuthMiddleware(keys []string) *AuthMiddleware {
	m := &AuthMiddleware{}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			m.keys = append(m.keys, []byte(k))
		}
	}
	return m
}

// Enabled reports whether any key is configured.
func (m *AuthMiddleware) Enabled() bool {
	return len(m.keys) > 0
}

// Authenticate validates the Bearer key and adds it to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			unauthorized(w, "invalid authorization header format")
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			unauthorized(w, "missing token")
			return
		}

		if !m.valid(token) {
			unauthorized(w, domain.ErrInvalidToken.Error())
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyAPIKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) valid(token string) bool {
	candidate := []byte(token)
	ok := false
	for _, k := range m.keys {
		if subtle.ConstantTimeCompare(candidate, k) == 1 {
			ok = true
		}
	}
	return ok
}

// GetAPIKeyFromContext retrieves the accepted API key from request context.
func GetAPIKeyFromContext(ctx context.Context) (string, error) {
	key, ok := ctx.Value(ContextKeyAPIKey).(string)
	if !ok || key == "" {
		return "", domain.ErrInvalidToken
	}
	return key, nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="nexus"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{
		Error: api.ErrorDetail{Code: "INVALID_TOKEN", Message: message},
	})
}
