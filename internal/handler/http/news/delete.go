package news

import (
	"net/http"

	"newsdesk/internal/handler/http/respond"
	newsUC "newsdesk/internal/usecase/news"
)

type DeleteHandler struct{ Svc *newsUC.Service }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("section"), r.PathValue("slug")); err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.OK(w, http.StatusOK, respond.Envelope{Msg: "news deleted"})
}
