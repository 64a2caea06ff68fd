package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoUser writes the authenticated user, or "anonymous".
func echoUser(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		u = "anonymous"
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(u))
}

func serve(h http.Handler, method, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAuthz_Disabled(t *testing.T) {
	h := Authz(nil)(http.HandlerFunc(echoUser))

	w := serve(h, http.MethodPost, "/news/add", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestAuthz_Enabled(t *testing.T) {
	iss, err := NewIssuer(testSecret, time.Hour)
	require.NoError(t, err)
	h := Authz(iss)(http.HandlerFunc(echoUser))

	token, _, err := iss.Issue("editor@example.com")
	require.NoError(t, err)

	editorToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "reader@example.com", "role": "viewer", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name     string
		method   string
		path     string
		authz    string
		wantCode int
		wantBody string
	}{
		{"public read", http.MethodGet, "/news/getnewsbysection/sports", "", http.StatusOK, "anonymous"},
		{"published catalogue is public", http.MethodGet, "/news/getallnews?status=published", "", http.StatusOK, "anonymous"},
		{"draft catalogue needs token", http.MethodGet, "/news/getallnews?status=draft", "", http.StatusUnauthorized, ""},
		{"unfiltered catalogue needs token", http.MethodGet, "/news/getallnews", "", http.StatusUnauthorized, ""},
		{"draft catalogue with admin token", http.MethodGet, "/news/getallnews?status=draft", "Bearer " + token, http.StatusOK, "editor@example.com"},
		{"otp stays open", http.MethodPost, "/otp/send", "", http.StatusOK, "anonymous"},
		{"write without token", http.MethodPost, "/news/add", "", http.StatusUnauthorized, ""},
		{"write with bad token", http.MethodPost, "/news/add", "Bearer nope", http.StatusUnauthorized, ""},
		{"write with admin token", http.MethodPost, "/news/add", "Bearer " + token, http.StatusOK, "editor@example.com"},
		{"drafts read needs token", http.MethodGet, "/api/auto-news/drafts", "", http.StatusUnauthorized, ""},
		{"non-admin role", http.MethodDelete, "/breaking-news/1", "Bearer " + editorToken, http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, tt.method, tt.path, tt.authz)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}
}
