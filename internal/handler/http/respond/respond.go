// Package respond provides utilities for sending HTTP responses in JSON format.
// It includes error handling with sanitization to prevent leaking sensitive information.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"newsdesk/internal/domain/entity"
)

// Envelope is the body every endpoint answers with.
type Envelope struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg,omitempty"`
	Status  string `json:"status,omitempty"`
	Data    any    `json:"data,omitempty"`
	News    any    `json:"news,omitempty"`
	Token   string `json:"token,omitempty"`
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Log the error but cannot send error response as headers already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// OK writes a successful envelope.
func OK(w http.ResponseWriter, code int, env Envelope) {
	env.Success = true
	JSON(w, code, env)
}

// Error writes a failed envelope with msg as-is.
func Error(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, Envelope{Success: false, Msg: msg})
}

// safeFragments mark error text that is fine to show to a client.
var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"not allowed",
	"already exists",
	"must be",
	"cannot be",
	"too long",
	"too short",
	"too many",
	"unauthorized",
	"forbidden",
	"expired",
}

// SafeError sanitizes error messages before returning them to users.
// Internal errors (e.g., database errors) are returned as "internal server error",
// with details logged for debugging. Safe errors (validation errors) are returned as-is.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	// ユーザーに安全に返せるエラーかどうかを判定
	msg := err.Error()
	lowerMsg := strings.ToLower(msg)
	isSafe := entity.IsValidationError(err)
	for _, safe := range safeFragments {
		if strings.Contains(lowerMsg, safe) {
			isSafe = true
			break
		}
	}

	// 500エラーは常に内部エラーとして扱う
	if code >= 500 {
		isSafe = false
	}

	if isSafe {
		Error(w, code, msg)
		return
	}

	// 機密情報をマスクしてログ出力
	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	Error(w, code, "internal server error")
}
