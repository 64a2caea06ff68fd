package news

import (
	"net/http"

	"newsdesk/internal/handler/http/respond"
	newsUC "newsdesk/internal/usecase/news"
)

type GetHandler struct{ Svc *newsUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	article, err := h.Svc.Get(r.Context(), r.PathValue("section"), r.PathValue("slug"))
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.OK(w, http.StatusOK, respond.Envelope{News: article})
}
