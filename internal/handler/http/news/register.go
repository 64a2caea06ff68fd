// Package news serves the editorial news API under /news.
package news

import (
	"net/http"

	"newsdesk/internal/common/pagination"
	newsUC "newsdesk/internal/usecase/news"
)

// Register mounts the news routes on mux. Admin checks are applied by the
// auth middleware around the whole mux.
func Register(mux *http.ServeMux, svc *newsUC.Service, pageCfg pagination.Config) {
	mux.Handle("POST /news/add", CreateHandler{Svc: svc})
	mux.Handle("GET /news/getallnews", ListHandler{Svc: svc, PageCfg: pageCfg})
	mux.Handle("GET /news/getnewsbysection/{section}", SectionHandler{Svc: svc, PageCfg: pageCfg})
	mux.Handle("GET /news/getnewsbyslug/{section}/{slug}", GetHandler{Svc: svc})
	mux.Handle("PUT /news/updatenews/{section}/{slug}", UpdateHandler{Svc: svc})
	mux.Handle("DELETE /news/deletenews/{section}/{slug}", DeleteHandler{Svc: svc})
	mux.Handle("PATCH /news/flags/{section}/{slug}", FlagsHandler{Svc: svc})
}
