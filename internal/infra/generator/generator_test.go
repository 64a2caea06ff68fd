package generator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/resilience/retry"
	"newsdesk/internal/usecase/draft"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (f *fakeMetrics) RecordRequest(_, outcome string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcome)
}

func testConfig(baseURL string) Config {
	cfg := DefaultConfig()
	cfg.OpenAIKey = "sk-test"
	cfg.OpenAIBaseURL = baseURL
	cfg.AnthropicKey = "ak-test"
	cfg.AnthropicBaseURL = baseURL
	cfg.Timeout = 5 * time.Second
	return cfg
}

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
}

func openAIServer(t *testing.T, status int, content string, seen func(map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		_ = json.Unmarshal(body, &req)
		if seen != nil {
			seen(req)
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"bad request","type":"invalid_request_error"}}`))
			return
		}
		resp := map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []any{map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAI_Generate_Success(t *testing.T) {
	var req map[string]any
	srv := openAIServer(t, http.StatusOK, validDraftJSON, func(r map[string]any) { req = r })
	defer srv.Close()

	metrics := &fakeMetrics{}
	g := NewOpenAI(testConfig(srv.URL))
	g.engine.metrics = metrics

	res := g.Generate(context.Background(), "The city beat the town 2-1 in the final on Saturday.")
	require.True(t, res.OK(), "err: %v", res.Err)
	assert.Equal(t, "City Wins Final", res.Draft.Title)
	assert.Len(t, res.Draft.Tags, 5)
	assert.Equal(t, []string{"success"}, metrics.outcomes)

	format, _ := req["response_format"].(map[string]any)
	assert.Equal(t, "json_object", format["type"])
	assert.Equal(t, "gpt-4o-mini", req["model"])
}

func TestOpenAI_Generate_FailuresYieldSentinel(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		content string
	}{
		{"api error", http.StatusBadRequest, ""},
		{"malformed json", http.StatusOK, "{not json"},
		{"missing tags", http.StatusOK, `{"title":"T","content":"<p>c</p>","summary":"S","tags":[],"subCategory":"X"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := openAIServer(t, tt.status, tt.content, nil)
			defer srv.Close()

			metrics := &fakeMetrics{}
			g := NewOpenAI(testConfig(srv.URL))
			g.engine.metrics = metrics
			g.engine.retryConfig = fastRetry()

			res := g.Generate(context.Background(), "some facts")
			assert.False(t, res.OK())
			assert.True(t, errors.Is(res.Err, draft.ErrGeneration))
			assert.Equal(t, entity.SentinelDraft(), res.Draft)
			assert.Equal(t, []string{"failure"}, metrics.outcomes)
		})
	}
}

func TestOpenAI_Generate_RetriesServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": validDraftJSON}}},
		})
	}))
	defer srv.Close()

	g := NewOpenAI(testConfig(srv.URL))
	g.engine.metrics = &fakeMetrics{}
	g.engine.retryConfig = fastRetry()

	res := g.Generate(context.Background(), "facts")
	require.True(t, res.OK(), "err: %v", res.Err)
	assert.Equal(t, 2, calls)
}

func TestGenerate_EmptyFacts(t *testing.T) {
	g := NewOpenAI(testConfig("http://127.0.0.1:1"))
	g.engine.metrics = &fakeMetrics{}
	res := g.Generate(context.Background(), "   ")
	assert.False(t, res.OK())
	assert.Equal(t, entity.SentinelDraft(), res.Draft)
}

func TestClaude_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ak-test", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"model":       "claude-sonnet-4-5-20250929",
			"content":     []any{map[string]any{"type": "text", "text": validDraftJSON}},
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 10, "output_tokens": 20},
		})
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Provider = ProviderClaude
	g, err := New(cfg)
	require.NoError(t, err)
	c := g.(*Claude)
	c.engine.metrics = &fakeMetrics{}

	res := c.Generate(context.Background(), "facts about the final")
	require.True(t, res.OK(), "err: %v", res.Err)
	assert.Equal(t, "Football", res.Draft.SubCategory)
}

func TestNew_Validation(t *testing.T) {
	cfg := DefaultConfig()
	_, err := New(cfg)
	assert.ErrorContains(t, err, "OPENAI_API_KEY")

	cfg.Provider = "gemini"
	_, err = New(cfg)
	assert.ErrorContains(t, err, "unknown draft provider")
}

func TestUnavailable(t *testing.T) {
	res := Unavailable{Reason: "no api key"}.Generate(context.Background(), "facts")
	assert.False(t, res.OK())
	assert.True(t, errors.Is(res.Err, draft.ErrGeneration))
	assert.Equal(t, "Error Generating Title", res.Draft.Title)
}
