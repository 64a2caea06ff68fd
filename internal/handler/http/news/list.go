package news

import (
	"net/http"

	"newsdesk/internal/common/pagination"
	"newsdesk/internal/handler/http/respond"
	newsUC "newsdesk/internal/usecase/news"
)

// ListHandler returns every article, optionally narrowed with ?status=.
// auth.Authz keeps it admin-only unless the filter is "published".
type ListHandler struct {
	Svc     *newsUC.Service
	PageCfg pagination.Config
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.ParseQueryParams(r, h.PageCfg)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	articles, err := h.Svc.List(r.Context(), r.URL.Query().Get("status"), page)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.OK(w, http.StatusOK, respond.Envelope{Data: articles})
}

// SectionHandler lists the visible published articles of one section.
type SectionHandler struct {
	Svc     *newsUC.Service
	PageCfg pagination.Config
}

func (h SectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.ParseQueryParams(r, h.PageCfg)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	articles, err := h.Svc.ListBySection(r.Context(), r.PathValue("section"), page)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.OK(w, http.StatusOK, respond.Envelope{Data: articles})
}
