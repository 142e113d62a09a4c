package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/attendance-scan-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type principalKey struct{}

// AuthRequired accepts access tokens issued by the gateway and stores the
// caller's principal in the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.Unauthorized(w, "Invalid token")
				return
			}

			principal, err := jwt.PrincipalFromClaims(claims)
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// CurrentPrincipal returns the principal stored by AuthRequired
func CurrentPrincipal(ctx context.Context) (jwt.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(jwt.Principal)
	return p, ok
}

// WithPrincipal is used by tests and by callers outside the HTTP stack
func WithPrincipal(ctx context.Context, p jwt.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}
