package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
)

// Policy classifies a request origin as trusted or not. The services never
// inspect the network themselves; callers inject the predicate so tests can
// simulate either side without a real network stack.
type Policy interface {
	Trusted(r *http.Request) bool
}

// LoopbackPolicy trusts only requests originating from the local machine.
type LoopbackPolicy struct{}

func (LoopbackPolicy) Trusted(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	host = strings.ToLower(strings.Trim(host, "[]"))
	switch host {
	case "127.0.0.1", "::1", "localhost":
		return true
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return true
	}
	return false
}

// RequireTrustedAPI rejects untrusted callers with a 401 JSON envelope.
func RequireTrustedAPI(p Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !p.Trusted(r) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireTrustedPage redirects untrusted callers to location instead of
// serving an admin page.
func RequireTrustedPage(p Policy, location string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !p.Trusted(r) {
				http.Redirect(w, r, location, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
