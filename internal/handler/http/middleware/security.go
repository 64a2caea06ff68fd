package middleware

import (
	"net/http"

	"newsdesk/pkg/security/csp"
)

// SecurityHeaders sets the CSP header built from policy and the usual
// hardening headers for a JSON API. A nil policy sends no CSP header.
func SecurityHeaders(policy *csp.Builder) func(http.Handler) http.Handler {
	var value string
	if policy != nil {
		value = policy.Build()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if value != "" {
				h.Set("Content-Security-Policy", value)
			}
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			next.ServeHTTP(w, r)
		})
	}
}
