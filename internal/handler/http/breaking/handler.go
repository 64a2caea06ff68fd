// Package breaking serves the breaking-news ticker API.
package breaking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/handler/http/pathutil"
	"newsdesk/internal/handler/http/respond"
	breakingUC "newsdesk/internal/usecase/breaking"
)

// Register mounts the ticker routes on mux.
func Register(mux *http.ServeMux, svc *breakingUC.Service) {
	h := Handler{Svc: svc}
	mux.HandleFunc("GET /breaking-news", h.List)
	mux.HandleFunc("POST /breaking-news", h.Create)
	mux.HandleFunc("PUT /breaking-news/{id}", h.Update)
	mux.HandleFunc("DELETE /breaking-news/{id}", h.Delete)
}

type Handler struct{ Svc *breakingUC.Service }

type itemRequest struct {
	Title    *string `json:"title"`
	Link     *string `json:"link"`
	Priority *int    `json:"priority"`
	IsActive *bool   `json:"isActive"`
}

var errInvalidBody = errors.New("invalid request body")

// List returns active items by priority; ?all=true includes inactive ones.
func (h Handler) List(w http.ResponseWriter, r *http.Request) {
	all := false
	if v := r.URL.Query().Get("all"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest, errors.New("invalid query parameter: all must be a boolean"))
			return
		}
		all = b
	}
	items, err := h.Svc.List(r.Context(), all)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.OK(w, http.StatusOK, respond.Envelope{Data: items})
}

func (h Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}
	in := breakingUC.CreateInput{Link: req.Link, IsActive: req.IsActive}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Priority != nil {
		in.Priority = *req.Priority
	}

	item, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.OK(w, http.StatusCreated, respond.Envelope{Msg: "breaking news created", Data: item})
}

func (h Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, breakingUC.ErrInvalidID)
		return
	}
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}

	item, err := h.Svc.Update(r.Context(), id, breakingUC.UpdateInput{
		Title:    req.Title,
		Link:     req.Link,
		Priority: req.Priority,
		IsActive: req.IsActive,
	})
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.OK(w, http.StatusOK, respond.Envelope{Msg: "breaking news updated", Data: item})
}

func (h Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, breakingUC.ErrInvalidID)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	respond.OK(w, http.StatusOK, respond.Envelope{Msg: "breaking news deleted"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, breakingUC.ErrBreakingNotFound):
		return http.StatusNotFound
	case errors.Is(err, breakingUC.ErrInvalidID), entity.IsValidationError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
