package ports

import (
	"context"

	"github.com/akeray/property-system/internal/core/domain"
)

// SignupInput carries the credentials collected at registration.
type SignupInput struct {
	Email    string
	Password string
	FullName string
}

// AuthResult is returned by signup and login. RefreshToken is handed to the
// client and stored on the principal as the last-issued marker.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	Role         domain.Role
	Message      string
}

// AuthService defines the authentication use cases for all three roles.
type AuthService interface {
	Signup(ctx context.Context, role domain.Role, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, role domain.Role, email, password string) (*AuthResult, error)
	// Profile resolves the principal behind a decoded access token.
	Profile(ctx context.Context, role domain.Role, email string) (*domain.Principal, error)
	// VerifyOTP consumes a tenant's pending challenge; a challenge is
	// single-use, so a second call with the same code fails.
	VerifyOTP(ctx context.Context, email, code string) error
	// ResendOTP replaces the pending challenge. Only permitted while the
	// tenant is unverified.
	ResendOTP(ctx context.Context, email string) error
}

// Mailer delivers one-time passcodes. A failed dispatch fails the calling
// operation; the already-persisted challenge remains recoverable via resend.
type Mailer interface {
	SendOTP(ctx context.Context, toAddress, code string) error
}

// ResendLimiter throttles OTP re-delivery per address.
type ResendLimiter interface {
	// Allow reports whether a resend may proceed and opens the cooldown
	// window when it does.
	Allow(ctx context.Context, email string) (bool, error)
}
