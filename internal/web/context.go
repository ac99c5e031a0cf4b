package web

import (
	"net"
	"net/http"

	"github.com/JonMunkholm/crm/internal/core"
)

// requestMetadata stores the client IP and User-Agent in the request
// context for the customer change log. It runs after TrustedRealIP so the
// address is the resolved client.
func requestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		ctx := core.ContextWithIPAddress(r.Context(), ip)
		ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
