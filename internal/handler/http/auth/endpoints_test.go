package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPublicEndpoint(t *testing.T) {
	cases := map[string]bool{
		"/health":            true,
		"/health/":           true,
		"/health?verbose=1":  true,
		"/health/detail":     false,
		"/healthcheck":       false,
		"/otp/send":          true,
		"/otp/verify":        true,
		"/news/add":          false,
		"/breaking-news":     false,
		"/metrics":           true,
		"/api/auto-news/run": false,
	}
	for path, want := range cases {
		assert.Equal(t, want, IsPublicEndpoint(path), path)
	}
}

func TestRequiresAdmin(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodGet, "/news/getallnews?status=published", false},
		{http.MethodHead, "/news/getallnews/?status=published&limit=5", false},
		{http.MethodGet, "/news/getallnews", true},
		{http.MethodGet, "/news/getallnews?status=draft", true},
		{http.MethodGet, "/news/getallnews?status=archived", true},
		{http.MethodGet, "/news/getnewsbysection/sports", false},
		{http.MethodGet, "/news/getnewsbyslug/sports/derby-day", false},
		{http.MethodGet, "/breaking-news", false},
		{http.MethodPost, "/news/add", true},
		{http.MethodPut, "/news/updatenews/sports/a", true},
		{http.MethodPatch, "/news/flags/sports/a", true},
		{http.MethodDelete, "/breaking-news/3", true},
		{http.MethodPost, "/otp/send", false},
		{http.MethodPost, "/otp/verify", false},
		{http.MethodGet, "/api/auto-news/drafts", true},
		{http.MethodPost, "/api/auto-news/run", true},
		{http.MethodOptions, "/news/add", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(tt.method, tt.path, nil)
		assert.Equal(t, tt.want, RequiresAdmin(r), tt.method+" "+tt.path)
	}
}
