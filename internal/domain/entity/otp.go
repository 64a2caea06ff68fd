package entity

import "time"

// OTPRecord is the outstanding one-time code for an email. There is at most
// one record per email.
type OTPRecord struct {
	Email     string    `json:"email"`
	Code      string    `json:"otp"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the code is no longer usable at now.
func (r OTPRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// OTPOutcome is the result of verifying a code.
type OTPOutcome string

const (
	OTPNotFound OTPOutcome = "not_found"
	OTPExpired  OTPOutcome = "expired"
	OTPInvalid  OTPOutcome = "invalid"
	OTPVerified OTPOutcome = "verified"
)
