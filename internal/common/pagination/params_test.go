package pagination_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"newsdesk/internal/common/pagination"
)

func TestParseQueryParams(t *testing.T) {
	t.Parallel()

	config := pagination.Config{DefaultLimit: 20, MaxLimit: 100}

	tests := []struct {
		name      string
		query     string
		want      pagination.Params
		wantError bool
	}{
		{name: "defaults", query: "", want: pagination.Params{Limit: 20}},
		{name: "limit and offset", query: "limit=30&offset=60", want: pagination.Params{Limit: 30, Offset: 60}},
		{name: "page converts to offset", query: "page=3&limit=10", want: pagination.Params{Limit: 10, Offset: 20}},
		{name: "offset wins over page", query: "page=3&offset=5", want: pagination.Params{Limit: 20, Offset: 5}},
		{name: "limit too large", query: "limit=101", wantError: true},
		{name: "limit zero", query: "limit=0", wantError: true},
		{name: "negative offset", query: "offset=-1", wantError: true},
		{name: "non-numeric page", query: "page=abc", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/news/getallnews?"+tt.query, nil)
			got, err := pagination.ParseQueryParams(req, config)
			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error for %q", tt.query)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("overrides", func(t *testing.T) {
		t.Setenv("PAGINATION_DEFAULT_LIMIT", "10")
		t.Setenv("PAGINATION_MAX_LIMIT", "40")
		got := pagination.LoadFromEnv()
		if got != (pagination.Config{DefaultLimit: 10, MaxLimit: 40}) {
			t.Errorf("got %+v", got)
		}
	})
	t.Run("invalid values fall back", func(t *testing.T) {
		t.Setenv("PAGINATION_DEFAULT_LIMIT", "abc")
		t.Setenv("PAGINATION_MAX_LIMIT", "-5")
		got := pagination.LoadFromEnv()
		if got != pagination.DefaultConfig() {
			t.Errorf("got %+v, want defaults", got)
		}
	})
	t.Run("default above max is clamped", func(t *testing.T) {
		t.Setenv("PAGINATION_DEFAULT_LIMIT", "500")
		t.Setenv("PAGINATION_MAX_LIMIT", "30")
		got := pagination.LoadFromEnv()
		if got.DefaultLimit != 30 {
			t.Errorf("DefaultLimit = %d, want 30", got.DefaultLimit)
		}
	})
}
