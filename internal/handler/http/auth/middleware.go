package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"newsdesk/internal/handler/http/respond"
)

type ctxKey string

const ctxUser ctxKey = "user"

// Authz guards admin routes with the issuer's tokens. A nil issuer means
// ADMIN_JWT_SECRET is unset: every request passes and a warning is logged
// once at construction.
func Authz(issuer *Issuer) func(http.Handler) http.Handler {
	if issuer == nil {
		slog.Warn("ADMIN_JWT_SECRET is not set, admin endpoints are unauthenticated")
	}
	return func(next http.Handler) http.Handler {
		if issuer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !RequiresAdmin(r) {
				next.ServeHTTP(w, r)
				return
			}

			raw, err := bearer(r.Header.Get("Authorization"))
			if err != nil {
				RecordAuthRequest("failure")
				respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
				return
			}
			user, role, err := issuer.Validate(raw)
			if err != nil {
				RecordAuthRequest("failure")
				respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
				return
			}
			if role != RoleAdmin {
				RecordForbiddenAttempt(r.Method)
				respond.SafeError(w, http.StatusForbidden, ErrNotAdmin)
				return
			}

			RecordAuthRequest("success")
			ctx := context.WithValue(r.Context(), ctxUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the admin email attached by Authz.
func UserFromContext(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(ctxUser).(string)
	return u, ok
}
