// Package otp serves the passwordless admin sign-in endpoints.
package otp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/handler/http/respond"
	otpUC "newsdesk/internal/usecase/otp"
)

// Register mounts POST /otp/send and POST /otp/verify on mux.
func Register(mux *http.ServeMux, svc *otpUC.Service) {
	h := Handler{Svc: svc}
	mux.HandleFunc("POST /otp/send", h.Send)
	mux.HandleFunc("POST /otp/verify", h.Verify)
}

type Handler struct{ Svc *otpUC.Service }

// emailRequest accepts the legacy UserEmail key next to email.
type emailRequest struct {
	UserEmail string `json:"UserEmail"`
	Email     string `json:"email"`
	OTP       string `json:"otp"`
}

func (r emailRequest) address() string {
	if strings.TrimSpace(r.Email) != "" {
		return r.Email
	}
	return r.UserEmail
}

// verifyResponse adds the token expiry to the common envelope.
type verifyResponse struct {
	respond.Envelope
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

const statusBadRequest = "bad_request"

func (h Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	if err := h.Svc.Send(r.Context(), req.address()); err != nil {
		respond.SafeError(w, sendStatus(err), err)
		return
	}
	respond.OK(w, http.StatusOK, respond.Envelope{Msg: "OTP sent"})
}

func sendStatus(err error) int {
	switch {
	case errors.Is(err, otpUC.ErrInvalidEmail):
		return http.StatusBadRequest
	case errors.Is(err, otpUC.ErrEmailNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, otpUC.ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// outcomeStatus maps each verification outcome to its HTTP status and message.
var outcomeStatus = map[entity.OTPOutcome]struct {
	code int
	msg  string
}{
	entity.OTPVerified: {http.StatusOK, "OTP verified"},
	entity.OTPNotFound: {http.StatusNotFound, "OTP not found"},
	entity.OTPExpired:  {http.StatusGone, "OTP expired"},
	entity.OTPInvalid:  {http.StatusUnauthorized, "OTP invalid"},
}

// Verify answers with the outcome in status; a verified code also returns
// the admin token.
func (h Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.JSON(w, http.StatusBadRequest, respond.Envelope{Msg: "invalid request body", Status: statusBadRequest})
		return
	}

	res, err := h.Svc.Verify(r.Context(), req.address(), req.OTP)
	switch {
	case errors.Is(err, otpUC.ErrInvalidEmail), errors.Is(err, otpUC.ErrInvalidCode):
		respond.JSON(w, http.StatusBadRequest, respond.Envelope{Msg: err.Error(), Status: statusBadRequest})
		return
	case err != nil:
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	st := outcomeStatus[res.Outcome]
	out := verifyResponse{Envelope: respond.Envelope{
		Success: res.Outcome == entity.OTPVerified,
		Msg:     st.msg,
		Status:  string(res.Outcome),
		Token:   res.Token,
	}}
	if res.Token != "" {
		out.ExpiresAt = &res.ExpiresAt
	}
	respond.JSON(w, st.code, out)
}
