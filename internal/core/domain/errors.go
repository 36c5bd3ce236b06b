package domain

import "errors"

// Sentinel errors form the failure taxonomy shared by services, repositories
// and the HTTP error handler. Unknown-email and wrong-password login failures
// deliberately collapse into the same ErrInvalidCredentials value so account
// existence is never leaked. OTP failures stay distinct: telling a tenant
// their code expired reveals nothing they did not already know.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingCredential  = errors.New("password must not be empty")

	ErrTokenIssuance = errors.New("token issuance failed")
	ErrInvalidToken  = errors.New("invalid token")

	ErrNoChallenge     = errors.New("no verification code pending")
	ErrOTPMismatch     = errors.New("incorrect verification code")
	ErrOTPExpired      = errors.New("verification code expired")
	ErrAlreadyVerified = errors.New("account already verified")
	ErrResendCooldown  = errors.New("verification code recently sent")

	ErrForbidden        = errors.New("access forbidden")
	ErrOwnerNotEligible = errors.New("owner account not approved for listings")
	ErrNotFound         = errors.New("resource not found")
	ErrUnknownRole      = errors.New("unknown role")
	ErrInvalidStatus    = errors.New("invalid account status")
)

// InternalError hides an unexpected cause behind a role-specific public
// message ("admin login failed"). The cause is logged at the service
// boundary and never serialized to a client.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string { return e.Message }

// Internal wraps an unexpected failure for the HTTP boundary.
func Internal(message string) error {
	return &InternalError{Message: message}
}
