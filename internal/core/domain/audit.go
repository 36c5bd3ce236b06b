package domain

import "time"

// AuthEventKind labels an entry in the authentication audit trail.
type AuthEventKind string

const (
	EventSignup      AuthEventKind = "signup"
	EventLogin       AuthEventKind = "login"
	EventLoginDenied AuthEventKind = "login_denied"
	EventOTPVerified AuthEventKind = "otp_verified"
	EventOTPResent   AuthEventKind = "otp_resent"
)

// AuthEvent records one authentication-flow occurrence. Events are recorded
// off the request path and persisted in order per email address.
type AuthEvent struct {
	Email     string
	Role      Role
	Kind      AuthEventKind
	Timestamp time.Time
	RequestID string
}
