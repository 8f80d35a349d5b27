package http

import (
	"net"
	"net/http"
	"strings"

	. "github.com/roelfdiedericks/slackclaw/internal/logging"
)

const authRealm = `Basic realm="slackclaw"`

// basicAuth middleware enforces HTTP Basic Authentication when configured
func (s *Server) basicAuth(handler http.HandlerFunc) http.HandlerFunc {
	if s.auth == nil {
		return handler
	}

	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := getClientIP(r)

		if s.rateLimiter.IsLimited(clientIP) {
			L_warn("http: rate limited", "ip", clientIP)
			w.Header().Set("WWW-Authenticate", authRealm)
			http.Error(w, "Too many failed attempts. Try again later.", http.StatusTooManyRequests)
			return
		}

		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", authRealm)
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		if err := s.auth.Verify(username, password); err != nil {
			s.rateLimiter.RecordFailure(clientIP)
			L_warn("http: auth failed", "username", username, "ip", clientIP)
			w.Header().Set("WWW-Authenticate", authRealm)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		s.rateLimiter.ClearFailure(clientIP)
		L_trace("http: auth success", "username", username, "ip", clientIP)

		handler(w, r)
	}
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For first (if behind reverse proxy)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
