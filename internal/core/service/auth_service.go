package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/akeray/property-system/internal/core/domain"
	"github.com/akeray/property-system/internal/core/otp"
	"github.com/akeray/property-system/internal/core/password"
	"github.com/akeray/property-system/internal/core/ports"
	"github.com/akeray/property-system/internal/core/token"
)

// AuthService orchestrates signup, login, profile lookup and the tenant OTP
// flow across the three role stores.
type AuthService struct {
	stores  ports.PrincipalStores
	tokens  *token.Issuer
	mailer  ports.Mailer
	limiter ports.ResendLimiter
	audit   ports.AuthEventRecorder
	log     zerolog.Logger
	now     func() time.Time
}

// NewAuthService wires the authentication core. limiter may be nil when no
// resend throttling is configured.
func NewAuthService(
	stores ports.PrincipalStores,
	tokens *token.Issuer,
	mailer ports.Mailer,
	limiter ports.ResendLimiter,
	audit ports.AuthEventRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		stores:  stores,
		tokens:  tokens,
		mailer:  mailer,
		limiter: limiter,
		audit:   audit,
		log:     log,
		now:     time.Now,
	}
}

// Signup registers a new principal in the store matching role.
//
// The flow is fixed: normalize email, reject duplicates within the role
// store, hash the password, persist, dispatch the OTP mail (tenant only),
// issue the token pair, store the refresh token. A tenant row persists even
// when the mail dispatch afterwards fails; resend-OTP is the recovery path.
func (s *AuthService) Signup(ctx context.Context, role domain.Role, in ports.SignupInput) (*ports.AuthResult, error) {
	store, err := s.stores.ByRole(role)
	if err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(in.Email)

	existing, err := store.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, s.internal("signup", role, err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			return nil, err
		}
		return nil, s.internal("signup", role, err)
	}

	now := s.now().UTC()
	p := &domain.Principal{
		Email:        email,
		FullName:     in.FullName,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	switch role {
	case domain.RoleAdmin:
		// Admins have no pending state: active on creation.
		p.Verified = true
		p.Status = domain.StatusApproved
	case domain.RoleOwner:
		p.Status = domain.StatusPending
	case domain.RoleTenant:
		p.Status = domain.StatusPending
		code, genErr := otp.Generate()
		if genErr != nil {
			return nil, s.internal("signup", role, genErr)
		}
		p.OTP = code
		p.OTPExpiresAt = otp.Expiry(now)
	}

	created, err := store.Create(ctx, p)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, s.internal("signup", role, err)
	}

	if role == domain.RoleTenant {
		if err := s.mailer.SendOTP(ctx, created.Email, created.OTP); err != nil {
			// The tenant row stays; only the response fails.
			return nil, s.internal("signup", role, err)
		}
	}

	result, err := s.issueAndStore(ctx, store, created)
	if err != nil {
		return nil, s.internal("signup", role, err)
	}
	result.Message = signupMessage(role)

	s.record(requestIDFrom(ctx), created.Email, role, domain.EventSignup)
	s.log.Info().Str("role", string(role)).Str("email", created.Email).Msg("principal registered")
	return result, nil
}

// Login authenticates email+password against the store matching role.
//
// An unknown email and a wrong password return the same error value so the
// response never reveals whether an account exists. Verified/Status are
// deliberately not checked: an unverified tenant or unapproved owner can
// authenticate, they just cannot create dependent resources.
func (s *AuthService) Login(ctx context.Context, role domain.Role, email, plain string) (*ports.AuthResult, error) {
	store, err := s.stores.ByRole(role)
	if err != nil {
		return nil, err
	}
	email = domain.NormalizeEmail(email)

	p, err := store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, s.internal("login", role, err)
	}
	if !password.Verify(plain, p.PasswordHash) {
		s.record(requestIDFrom(ctx), email, role, domain.EventLoginDenied)
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.issueAndStore(ctx, store, p)
	if err != nil {
		return nil, s.internal("login", role, err)
	}
	result.Message = string(role) + " login successful"

	s.record(requestIDFrom(ctx), email, role, domain.EventLogin)
	return result, nil
}

// Profile resolves the principal behind decoded access-token claims,
// dispatching by role to the matching store.
func (s *AuthService) Profile(ctx context.Context, role domain.Role, email string) (*domain.Principal, error) {
	store, err := s.stores.ByRole(role)
	if err != nil {
		return nil, err
	}
	return store.FindByEmail(ctx, domain.NormalizeEmail(email))
}

// VerifyOTP consumes a tenant's pending challenge. On success the code and
// expiry are cleared and the tenant marked verified in one save, making the
// challenge single-use: a repeat call reports ErrNoChallenge.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	email = domain.NormalizeEmail(email)
	p, err := s.stores.Tenants.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := otp.Verify(p.OTP, p.OTPExpiresAt, code, s.now().UTC()); err != nil {
		return err
	}

	p.Verified = true
	p.Status = domain.StatusApproved
	p.OTP = ""
	p.OTPExpiresAt = time.Time{}
	p.UpdatedAt = s.now().UTC()
	if _, err := s.stores.Tenants.Save(ctx, p); err != nil {
		return s.internal("verification", domain.RoleTenant, err)
	}

	s.record(requestIDFrom(ctx), email, domain.RoleTenant, domain.EventOTPVerified)
	s.log.Info().Str("email", email).Msg("tenant verified")
	return nil
}

// ResendOTP replaces the pending challenge with a fresh code and expiry.
// Resending after verification fails with ErrAlreadyVerified and mutates
// nothing. Resends are throttled per address when a limiter is configured.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	p, err := s.stores.Tenants.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if p.Verified {
		return domain.ErrAlreadyVerified
	}

	if s.limiter != nil {
		allowed, limErr := s.limiter.Allow(ctx, email)
		if limErr != nil {
			// A broken limiter must not lock tenants out of verification.
			s.log.Warn().Err(limErr).Str("email", email).Msg("resend limiter unavailable, allowing")
		} else if !allowed {
			return domain.ErrResendCooldown
		}
	}

	code, err := otp.Generate()
	if err != nil {
		return s.internal("verification", domain.RoleTenant, err)
	}
	now := s.now().UTC()
	p.OTP = code
	p.OTPExpiresAt = otp.Expiry(now)
	p.UpdatedAt = now
	if _, err := s.stores.Tenants.Save(ctx, p); err != nil {
		return s.internal("verification", domain.RoleTenant, err)
	}

	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		return s.internal("verification", domain.RoleTenant, err)
	}

	s.record(requestIDFrom(ctx), email, domain.RoleTenant, domain.EventOTPResent)
	return nil
}

// issueAndStore signs a fresh pair and overwrites the stored refresh token.
// Concurrent logins race here; the last successful save wins. The stored
// value is bookkeeping, not a session lock.
func (s *AuthService) issueAndStore(ctx context.Context, store ports.PrincipalRepository, p *domain.Principal) (*ports.AuthResult, error) {
	pair, err := s.tokens.Issue(token.Claims{Subject: p.ID, Email: p.Email, Role: p.Role})
	if err != nil {
		return nil, err
	}
	p.RefreshToken = pair.RefreshToken
	p.UpdatedAt = s.now().UTC()
	if _, err := store.Save(ctx, p); err != nil {
		return nil, err
	}
	return &ports.AuthResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Role:         p.Role,
	}, nil
}

func (s *AuthService) record(requestID, email string, role domain.Role, kind domain.AuthEventKind) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuthEvent{
		Email:     email,
		Role:      role,
		Kind:      kind,
		Timestamp: s.now().UTC(),
		RequestID: requestID,
	})
}

// internal logs the real cause and returns the role-specific public message.
func (s *AuthService) internal(op string, role domain.Role, err error) error {
	s.log.Error().Err(err).Str("role", string(role)).Str("op", op).Msg("auth operation failed")
	return domain.Internal(string(role) + " " + op + " failed")
}

func signupMessage(role domain.Role) string {
	switch role {
	case domain.RoleTenant:
		return "signup successful, verification code sent"
	case domain.RoleOwner:
		return "signup successful, awaiting approval"
	}
	return "signup successful"
}

type ctxKey int

// requestIDKey carries the inbound request id into audit events.
const requestIDKey ctxKey = 0

// WithRequestID tags ctx so audit events can be correlated with the request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
