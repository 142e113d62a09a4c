package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/netverify"
)

type clientIPKey struct{}

// ClientIP resolves the caller's public address once per request
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), clientIPKey{}, netverify.ResolveCaller(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIPFromContext returns "" when ClientIP did not run or found nothing
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
