package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/facetworks/facet/internal/domain"
)

// WithRequestMeta captures the caller's address and user agent into the
// context for audit entries. Proxy headers are trusted here; the service is
// expected to sit behind a reverse proxy that sets them.
func WithRequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta := &domain.RequestMeta{
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		}
		ctx := domain.NewContextWithRequestMeta(r.Context(), meta)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP extracts the real client IP, checking proxy headers before
// falling back to the connection address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// The first entry is the originating client.
		if idx := strings.Index(forwarded, ","); idx != -1 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
