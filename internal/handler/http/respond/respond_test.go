package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/domain/entity"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

/* ───────── 1. JSON ───────── */

func TestJSON(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		data         any
		expectedBody string
	}{
		{"map", http.StatusOK, map[string]string{"message": "success"}, `{"message":"success"}` + "\n"},
		{"struct", http.StatusCreated, struct{ ID int }{ID: 123}, `{"ID":123}` + "\n"},
		{"nil", http.StatusNoContent, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.code, tt.data)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedBody, w.Body.String())
		})
	}
}

/* ───────── 2. Envelope ───────── */

func TestOK_SetsSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, http.StatusCreated, Envelope{Msg: "created", News: map[string]int{"id": 1}})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "created", body["msg"])
	assert.NotContains(t, body, "data")
	assert.NotContains(t, body, "token")
}

func TestOK_EmptySliceIsKept(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, http.StatusOK, Envelope{Data: []string{}})

	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusBadRequest, "title is required")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"msg":"title is required"}`, w.Body.String())
}

/* ───────── 3. SafeError ───────── */

func TestSafeError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		err     error
		wantMsg string
	}{
		{"validation passes through", http.StatusBadRequest, errors.New("title is required"), "title is required"},
		{"not found passes through", http.StatusNotFound, errors.New("news not found"), "news not found"},
		{"rate limit passes through", http.StatusTooManyRequests, errors.New("too many otp requests"), "too many otp requests"},
		{"unknown text is masked", http.StatusBadRequest, errors.New("pq: relation news does not exist"), "internal server error"},
		{"5xx always masked", http.StatusInternalServerError, errors.New("invalid connection"), "internal server error"},
		{"typed validation error", http.StatusBadRequest,
			&entity.ValidationError{Field: "link", Message: "must use http or https scheme"},
			"link: must use http or https scheme"},
		{"wrapped validation", http.StatusBadRequest, fmt.Errorf("create: %w", errors.New("slug is invalid")), "create: slug is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SafeError(w, tt.code, tt.err)

			assert.Equal(t, tt.code, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMsg, body["msg"])
		})
	}
}

func TestSafeError_NilWritesNothing(t *testing.T) {
	w := httptest.NewRecorder()
	SafeError(w, http.StatusBadRequest, nil)

	assert.Equal(t, 0, w.Body.Len())
}
