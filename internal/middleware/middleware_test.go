package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/nexus/internal/middleware"
)

func echoKey(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := middleware.GetAPIKeyFromContext(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(key))
	})
}

func TestAuthenticate_DisabledPassesThrough(t *testing.T) {
	auth := middleware.NewAuthMiddleware([]string{"", "  "})
	require.False(t, auth.Enabled())

	w := httptest.NewRecorder()
	auth.Authenticate(echoKey(t)).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/mock/log", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthenticate(t *testing.T) {
	auth := middleware.NewAuthMiddleware([]string{"key-1", "key-2"})

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic key-1", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"unknown key", "Bearer nope", http.StatusUnauthorized},
		{"first key", "Bearer key-1", http.StatusOK},
		{"second key lowercase scheme", "bearer key-2", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/mock/log", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			auth.Authenticate(echoKey(t)).ServeHTTP(w, req)

			assert.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	h := middleware.CORS("http://localhost:3000", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/mock/agents", nil)
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, called)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_DefaultsToAnyOrigin(t *testing.T) {
	h := middleware.CORS("", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/mock/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
