package auth

import (
	"net/http"
	"strings"
)

// PublicEndpoints are reachable without a token regardless of method.
// The OTP endpoints are how a token is obtained in the first place.
var PublicEndpoints = []string{
	"/health",
	"/ready",
	"/metrics",
	"/otp/send",
	"/otp/verify",
}

// draftsPrefix guards unpublished drafts for reads as well as writes.
const draftsPrefix = "/api/auto-news/"

// catalogPath lists articles of every status. Only its published view is
// public; readers otherwise go through the section and slug endpoints.
const catalogPath = "/news/getallnews"

// IsPublicEndpoint reports whether path is one of PublicEndpoints. A trailing
// slash or query string is tolerated; sub-paths are not.
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if path == endpoint || path == endpoint+"/" || strings.HasPrefix(path, endpoint+"?") {
			return true
		}
	}
	return false
}

// RequiresAdmin reports whether a request must carry an admin token:
// any mutating method outside the public endpoints, everything under the
// drafts API, and the article catalogue unless it asks for ?status=published.
func RequiresAdmin(r *http.Request) bool {
	path := r.URL.Path
	if IsPublicEndpoint(path) {
		return false
	}
	if strings.HasPrefix(path, draftsPrefix) {
		return true
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if strings.TrimSuffix(path, "/") == catalogPath {
			return r.URL.Query().Get("status") != "published"
		}
		return false
	case http.MethodOptions:
		return false
	}
	return true
}
