package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-scan-go/internal/handler/http/response"
)

// RequireAdmin requires the admin role
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := CurrentPrincipal(r.Context())
		if !ok {
			response.Unauthorized(w, "Authentication required")
			return
		}

		if !principal.IsAdmin() {
			response.Forbidden(w, "Admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
