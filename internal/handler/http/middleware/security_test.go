package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"newsdesk/pkg/security/csp"
)

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(csp.APIPolicy())(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
}

func TestSecurityHeaders_EmptyPolicy(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(csp.NewBuilder())(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	_, set := rr.Header()["Content-Security-Policy"]
	assert.False(t, set)
	assert.Equal(t, "no-referrer", rr.Header().Get("Referrer-Policy"))
}

func TestSecurityHeaders_NilPolicy(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(nil)(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Empty(t, rr.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}
