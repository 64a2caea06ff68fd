package news

import (
	"net/http"

	"newsdesk/internal/handler/http/respond"
	newsUC "newsdesk/internal/usecase/news"
)

type CreateHandler struct{ Svc *newsUC.Service }

// ServeHTTP stores an admin-entered article. The slug is derived from the
// title when omitted and suffixed when taken.
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	article, err := h.Svc.Create(r.Context(), req.input())
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.OK(w, http.StatusCreated, respond.Envelope{Msg: "news created", News: article})
}
