package netverify

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IsPublic reports whether addr parses as a globally routable address.
func IsPublic(addr string) bool {
	ip, err := netip.ParseAddr(strings.TrimSpace(addr))
	if err != nil {
		return false
	}
	ip = ip.Unmap()
	return ip.IsGlobalUnicast() && !ip.IsPrivate() && !ip.IsLoopback() && !ip.IsLinkLocalUnicast()
}

// ResolveCaller picks the caller's address from a request, preferring:
// X-Real-IP when public, the first public X-Forwarded-For entry, the leftmost
// X-Forwarded-For entry, then the connection's remote host.
func ResolveCaller(r *http.Request) string {
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" && IsPublic(real) {
		return real
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		var entries []string
		for _, part := range strings.Split(fwd, ",") {
			if p := strings.TrimSpace(part); p != "" {
				entries = append(entries, p)
			}
		}
		for _, p := range entries {
			if IsPublic(p) {
				return p
			}
		}
		if len(entries) > 0 {
			return entries[0]
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
