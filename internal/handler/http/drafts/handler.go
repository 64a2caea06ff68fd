// Package drafts exposes the automatic draft pipeline under /api/auto-news.
package drafts

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"newsdesk/internal/common/pagination"
	"newsdesk/internal/domain/entity"
	"newsdesk/internal/handler/http/auth"
	"newsdesk/internal/handler/http/respond"
	"newsdesk/internal/usecase/draft"
)

// DefaultRunTimeout bounds a run triggered over HTTP.
const DefaultRunTimeout = 5 * time.Minute

// Runner runs the draft pipeline once.
type Runner interface {
	Run(ctx context.Context) (draft.RunStats, error)
}

// Lister lists stored drafts newest first.
type Lister interface {
	ListDrafts(ctx context.Context, page pagination.Params) ([]*entity.NewsArticle, error)
}

type Handler struct {
	Runner  Runner
	Lister  Lister
	PageCfg pagination.Config
	// Timeout defaults to DefaultRunTimeout.
	Timeout time.Duration
}

// Register mounts the drafts routes on mux.
func Register(mux *http.ServeMux, h Handler) {
	mux.HandleFunc("GET /api/auto-news/drafts", h.List)
	mux.HandleFunc("POST /api/auto-news/run", h.Run)
}

func (h Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.ParseQueryParams(r, h.PageCfg)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	drafts, err := h.Lister.ListDrafts(r.Context(), page)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.OK(w, http.StatusOK, respond.Envelope{Data: drafts})
}

// Run executes the pipeline and answers 202 with the run stats. When the
// request gives up before the run ends, the run continues in background
// and the response carries no stats. A run stopped by its own deadline
// still reports what it did.
func (h Handler) Run(w http.ResponseWriter, r *http.Request) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	admin, ok := auth.UserFromContext(r.Context())
	if !ok {
		admin = "anonymous"
	}
	slog.Default().Info("draft run requested", slog.String("admin", admin))

	stats, err := h.Runner.Run(ctx)
	if err != nil && ctx.Err() != nil {
		slog.Default().Warn("stopped waiting for draft run",
			slog.Duration("timeout", timeout),
			slog.Any("error", err))
		respond.OK(w, http.StatusAccepted, respond.Envelope{Msg: "draft run continues in background"})
		return
	}

	msg := "draft run completed"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = "draft run stopped at timeout"
		slog.Default().Warn("draft run interrupted", slog.Any("error", err))
	case err != nil:
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.OK(w, http.StatusAccepted, respond.Envelope{Msg: msg, Data: stats})
}
