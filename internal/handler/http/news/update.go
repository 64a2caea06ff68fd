package news

import (
	"net/http"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/handler/http/respond"
	newsUC "newsdesk/internal/usecase/news"
)

// UpdateHandler applies a partial update; fields missing from the body are
// left as they are.
type UpdateHandler struct{ Svc *newsUC.Service }

func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decode(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	article, err := h.Svc.Update(r.Context(), r.PathValue("section"), r.PathValue("slug"), req.input())
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.OK(w, http.StatusOK, respond.Envelope{Msg: "news updated", News: article})
}

// FlagsHandler toggles isLatest, isTrending and isHidden.
type FlagsHandler struct{ Svc *newsUC.Service }

func (h FlagsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var flags entity.Flags
	if err := decode(r, &flags); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	article, err := h.Svc.SetFlags(r.Context(), r.PathValue("section"), r.PathValue("slug"), flags)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.OK(w, http.StatusOK, respond.Envelope{Msg: "flags updated", News: article})
}
