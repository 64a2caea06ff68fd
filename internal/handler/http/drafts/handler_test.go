package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/common/pagination"
	"newsdesk/internal/domain/entity"
	"newsdesk/internal/usecase/draft"
)

type stubRunner struct {
	stats draft.RunStats
	err   error
	block bool
	calls int
}

func (s *stubRunner) Run(ctx context.Context) (draft.RunStats, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return s.stats, ctx.Err()
	}
	return s.stats, s.err
}

type stubLister struct {
	drafts []*entity.NewsArticle
	err    error
	page   pagination.Params
}

func (s *stubLister) ListDrafts(_ context.Context, page pagination.Params) ([]*entity.NewsArticle, error) {
	s.page = page
	return s.drafts, s.err
}

type envelope struct {
	Success bool            `json:"success"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

func serve(t *testing.T, h Handler, method, path string) (int, envelope) {
	t.Helper()
	mux := http.NewServeMux()
	Register(mux, h)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr.Code, env
}

/* ───────── 1. run ───────── */

func TestRun_Accepted(t *testing.T) {
	runner := &stubRunner{stats: draft.RunStats{Sources: 6, Links: 12, Scraped: 9, Generated: 8, Saved: 8, DurationMs: 1500}}

	code, env := serve(t, Handler{Runner: runner}, http.MethodPost, "/api/auto-news/run")

	require.Equal(t, http.StatusAccepted, code)
	assert.True(t, env.Success)
	assert.Equal(t, "draft run completed", env.Msg)

	var got draft.RunStats
	require.NoError(t, json.Unmarshal(env.Data, &got))
	if diff := cmp.Diff(runner.stats, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_RunDeadlineReportsPartialStats(t *testing.T) {
	runner := &stubRunner{err: context.DeadlineExceeded, stats: draft.RunStats{Sources: 6, Links: 2, Saved: 1}}

	code, env := serve(t, Handler{Runner: runner}, http.MethodPost, "/api/auto-news/run")

	require.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, "draft run stopped at timeout", env.Msg)
	assert.JSONEq(t, `{"sources":6,"sourceFailures":0,"links":2,"skippedExisting":0,"scraped":0,"scrapeFailures":0,`+
		`"generated":0,"generationFailures":0,"saved":1,"saveFailures":0,"durationMs":0}`, string(env.Data))
}

func TestRun_RequestTimeoutLeavesRunInBackground(t *testing.T) {
	runner := &stubRunner{block: true}

	code, env := serve(t, Handler{Runner: runner, Timeout: 20 * time.Millisecond}, http.MethodPost, "/api/auto-news/run")

	require.Equal(t, http.StatusAccepted, code)
	assert.True(t, env.Success)
	assert.Equal(t, "draft run continues in background", env.Msg)
	assert.Empty(t, env.Data)
}

func TestRun_UnexpectedError(t *testing.T) {
	runner := &stubRunner{err: errors.New("boom")}
	code, env := serve(t, Handler{Runner: runner}, http.MethodPost, "/api/auto-news/run")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", env.Msg)
}

func TestRun_GetNotAllowed(t *testing.T) {
	mux := http.NewServeMux()
	runner := &stubRunner{}
	Register(mux, Handler{Runner: runner})
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/auto-news/run", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Zero(t, runner.calls)
}

/* ───────── 2. list ───────── */

func TestList(t *testing.T) {
	lister := &stubLister{drafts: []*entity.NewsArticle{
		{ID: 2, Title: "Second", Slug: "second", Category: "world", Status: entity.StatusDraft, Tags: []string{}},
		{ID: 1, Title: "First", Slug: "first", Category: "sports", Status: entity.StatusDraft, Tags: []string{}},
	}}

	code, env := serve(t, Handler{Lister: lister, PageCfg: pagination.DefaultConfig()}, http.MethodGet, "/api/auto-news/drafts?limit=2&page=2")

	require.Equal(t, http.StatusOK, code)
	var got []entity.NewsArticle
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Slug)
	assert.Equal(t, pagination.Params{Limit: 2, Offset: 2}, lister.page)
}

func TestList_Errors(t *testing.T) {
	code, _ := serve(t, Handler{Lister: &stubLister{}, PageCfg: pagination.DefaultConfig()}, http.MethodGet, "/api/auto-news/drafts?limit=abc")
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := serve(t, Handler{Lister: &stubLister{err: errors.New("db down")}, PageCfg: pagination.DefaultConfig()},
		http.MethodGet, "/api/auto-news/drafts")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", env.Msg)
}
