package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(remoteAddr, xff, xri string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/otp/verify", nil)
	req.RemoteAddr = remoteAddr
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	if xri != "" {
		req.Header.Set("X-Real-IP", xri)
	}
	return req
}

/* ───────── 1. parsing ───────── */

func TestParseTrustedProxies(t *testing.T) {
	tp, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 172.16.0.1 ", "", "2001:db8::/32"})
	require.NoError(t, err)

	assert.True(t, tp.Trusts("10.1.2.3:443"))
	assert.True(t, tp.Trusts("172.16.0.1:80"))
	assert.False(t, tp.Trusts("172.16.0.2:80"))
	assert.True(t, tp.Trusts("[2001:db8::5]:8080"))
	assert.True(t, tp.Trusts("10.0.0.9"))
	assert.False(t, tp.Trusts("garbage"))

	_, err = ParseTrustedProxies([]string{"10.0.0.0/8", "proxy.internal"})
	assert.Error(t, err)
}

func TestLoadTrustedProxiesFromEnv(t *testing.T) {
	t.Setenv("RATE_LIMIT_TRUSTED_PROXIES", "")
	tp, err := LoadTrustedProxiesFromEnv()
	require.NoError(t, err)
	assert.False(t, tp.Trusts("10.0.0.1:1"))

	t.Setenv("RATE_LIMIT_TRUSTED_PROXIES", "10.0.0.0/8")
	tp, err = LoadTrustedProxiesFromEnv()
	require.NoError(t, err)
	assert.True(t, tp.Trusts("10.0.0.1:1"))

	t.Setenv("RATE_LIMIT_TRUSTED_PROXIES", "10.0.0.0/99")
	_, err = LoadTrustedProxiesFromEnv()
	assert.Error(t, err)
}

/* ───────── 2. ClientIP ───────── */

func TestClientIP(t *testing.T) {
	tp, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		proxies    TrustedProxies
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"no proxies trusted ignores XFF", TrustedProxies{}, "203.0.113.7:5000", "198.51.100.1", "", "203.0.113.7"},
		{"untrusted peer ignores XFF", tp, "203.0.113.7:5000", "198.51.100.1", "", "203.0.113.7"},
		{"untrusted peer ignores X-Real-IP", tp, "203.0.113.7:5000", "", "198.51.100.1", "203.0.113.7"},
		{"trusted proxy XFF", tp, "10.0.0.2:5000", "198.51.100.1, 10.0.0.3", "", "198.51.100.1"},
		{"trusted proxy X-Real-IP", tp, "10.0.0.2:5000", "", "198.51.100.9", "198.51.100.9"},
		{"trusted proxy bad XFF falls to X-Real-IP", tp, "10.0.0.2:5000", "junk", "198.51.100.9", "198.51.100.9"},
		{"trusted proxy without headers", tp, "10.0.0.2:5000", "", "", "10.0.0.2"},
		{"IPv6 peer", TrustedProxies{}, "[2001:db8::1]:443", "", "", "2001:db8::1"},
		{"peer without port", TrustedProxies{}, "203.0.113.7", "", "", "203.0.113.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.proxies.ClientIP(request(tt.remoteAddr, tt.xff, tt.xri)))
		})
	}
}

func TestClientIP_RotatedHeadersKeepOneKey(t *testing.T) {
	tp, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, xff := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		seen[tp.ClientIP(request("203.0.113.7:5000", xff, ""))] = true
	}
	assert.Equal(t, map[string]bool{"203.0.113.7": true}, seen)
}

func TestParseFirstIP(t *testing.T) {
	tests := map[string]string{
		"203.0.113.195":             "203.0.113.195",
		"203.0.113.195, 70.41.3.18": "203.0.113.195",
		"invalid, 70.41.3.18":       "",
		"":                          "",
		"2001:db8::1, 2001:db8::2":  "2001:db8::1",
	}
	for in, want := range tests {
		assert.Equal(t, want, parseFirstIP(in), "parseFirstIP(%q)", in)
	}
}
