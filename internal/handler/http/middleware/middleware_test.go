package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-scan-go/internal/config"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(svc jwt.Service, final http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(svc.JWTAuth()))
	r.Use(AuthRequired(svc.JWTAuth()))
	r.Get("/", final.ServeHTTP)
	return r
}

func TestAuthRequired(t *testing.T) {
	svc := jwt.NewJWTService("test-secret")

	var got jwt.Principal
	h := protected(svc, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentPrincipal(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("valid access token", func(t *testing.T) {
		token, _, err := svc.GenerateAccessToken(42, jwt.RoleStaff, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, int64(42), got.UserID)
		assert.Equal(t, jwt.RoleStaff, got.Role)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		token, _, err := jwt.NewJWTService("other-secret").GenerateAccessToken(42, jwt.RoleStaff, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non access token", func(t *testing.T) {
		_, token, err := svc.JWTAuth().Encode(map[string]interface{}{"user_id": "42", "type": "refresh"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := RequireAdmin(ok)

	tests := []struct {
		name      string
		principal *jwt.Principal
		want      int
	}{
		{name: "admin", principal: &jwt.Principal{UserID: 1, Role: jwt.RoleAdmin}, want: http.StatusNoContent},
		{name: "staff", principal: &jwt.Principal{UserID: 2, Role: jwt.RoleStaff}, want: http.StatusForbidden},
		{name: "anonymous", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.principal != nil {
				req = req.WithContext(WithPrincipal(req.Context(), *tt.principal))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestClientIP(t *testing.T) {
	var got string
	h := ClientIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClientIPFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.3, 203.0.113.9")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.9", got)
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	called := false
	h := RateLimit(config.RateLimitConfig{Enabled: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/check-in", nil))
	assert.True(t, called)
}

func TestRateKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/check-in", nil)
	assert.Equal(t, "rl:ip:unknown:user:anon:route:POST /api/v1/attendance/check-in", rateKey("rl", req))

	ctx := WithPrincipal(req.Context(), jwt.Principal{UserID: 7, Role: jwt.RoleStaff})
	assert.Equal(t, "rl:ip:unknown:user:7:route:POST /api/v1/attendance/check-in", rateKey("rl", req.WithContext(ctx)))
}
