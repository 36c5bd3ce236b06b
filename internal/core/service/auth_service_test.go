package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/akeray/property-system/internal/core/domain"
	"github.com/akeray/property-system/internal/core/otp"
	"github.com/akeray/property-system/internal/core/ports"
	"github.com/akeray/property-system/internal/core/token"
)

type stubPrincipalRepo struct {
	byEmail map[string]*domain.Principal
	nextID  int
	saveErr error
}

func newStubPrincipalRepo() *stubPrincipalRepo {
	return &stubPrincipalRepo{byEmail: make(map[string]*domain.Principal)}
}

func clonePrincipal(p *domain.Principal) *domain.Principal {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubPrincipalRepo) FindByEmail(_ context.Context, email string) (*domain.Principal, error) {
	if p, ok := r.byEmail[email]; ok {
		return clonePrincipal(p), nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubPrincipalRepo) FindByID(_ context.Context, id string) (*domain.Principal, error) {
	for _, p := range r.byEmail {
		if p.ID == id {
			return clonePrincipal(p), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubPrincipalRepo) Create(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	if _, exists := r.byEmail[p.Email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	r.nextID++
	created := clonePrincipal(p)
	created.ID = fmt.Sprintf("id_%d", r.nextID)
	r.byEmail[created.Email] = clonePrincipal(created)
	return clonePrincipal(created), nil
}

func (r *stubPrincipalRepo) Save(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	if _, exists := r.byEmail[p.Email]; !exists {
		return nil, domain.ErrNotFound
	}
	r.byEmail[p.Email] = clonePrincipal(p)
	return clonePrincipal(p), nil
}

func (r *stubPrincipalRepo) List(_ context.Context, _, _ int) ([]*domain.Principal, int64, error) {
	out := make([]*domain.Principal, 0, len(r.byEmail))
	for _, p := range r.byEmail {
		out = append(out, clonePrincipal(p))
	}
	return out, int64(len(out)), nil
}

type stubMailer struct {
	sent []struct{ to, code string }
	err  error
}

func (m *stubMailer) SendOTP(_ context.Context, to, code string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, struct{ to, code string }{to, code})
	return nil
}

type stubLimiter struct {
	allowed bool
	err     error
	calls   int
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	l.calls++
	return l.allowed, l.err
}

type stubRecorder struct {
	events []domain.AuthEvent
}

func (r *stubRecorder) Record(event domain.AuthEvent) {
	r.events = append(r.events, event)
}

type authFixture struct {
	svc      *AuthService
	admins   *stubPrincipalRepo
	owners   *stubPrincipalRepo
	tenants  *stubPrincipalRepo
	mailer   *stubMailer
	limiter  *stubLimiter
	recorder *stubRecorder
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	issuer, err := token.NewIssuer("access-secret", "refresh-secret", 0, 0)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	f := &authFixture{
		admins:   newStubPrincipalRepo(),
		owners:   newStubPrincipalRepo(),
		tenants:  newStubPrincipalRepo(),
		mailer:   &stubMailer{},
		limiter:  &stubLimiter{allowed: true},
		recorder: &stubRecorder{},
	}
	stores := ports.PrincipalStores{Admins: f.admins, Owners: f.owners, Tenants: f.tenants}
	f.svc = NewAuthService(stores, issuer, f.mailer, f.limiter, f.recorder, zerolog.Nop())
	return f
}

func TestAuthService_Signup_Owner(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.svc.Signup(context.Background(), domain.RoleOwner, ports.SignupInput{
		Email:    "Bob@Example.com",
		Password: "pass123",
		FullName: "Bob B",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("expected token pair, got %+v", result)
	}
	if result.Message != "signup successful, awaiting approval" {
		t.Fatalf("unexpected message: %q", result.Message)
	}

	stored, err := f.owners.FindByEmail(context.Background(), "bob@example.com")
	if err != nil {
		t.Fatalf("owner not stored under normalized email: %v", err)
	}
	if stored.Status != domain.StatusPending || stored.Verified {
		t.Fatalf("expected pending unverified owner, got %+v", stored)
	}
	if stored.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if stored.RefreshToken != result.RefreshToken {
		t.Fatalf("refresh token not persisted")
	}
	if len(f.mailer.sent) != 0 {
		t.Fatalf("owner signup must not send mail")
	}
}

func TestAuthService_Signup_AdminActiveImmediately(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.svc.Signup(context.Background(), domain.RoleAdmin, ports.SignupInput{
		Email:    "root@example.com",
		Password: "pass123",
	}); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	stored, _ := f.admins.FindByEmail(context.Background(), "root@example.com")
	if !stored.Verified || stored.Status != domain.StatusApproved {
		t.Fatalf("expected active admin, got %+v", stored)
	}
}

func TestAuthService_Signup_TenantGetsOTP(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.svc.Signup(context.Background(), domain.RoleTenant, ports.SignupInput{
		Email:    "alice@example.com",
		Password: "pass123",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if result.Message != "signup successful, verification code sent" {
		t.Fatalf("unexpected message: %q", result.Message)
	}

	stored, _ := f.tenants.FindByEmail(context.Background(), "alice@example.com")
	if stored.OTP == "" || stored.OTPExpiresAt.IsZero() {
		t.Fatalf("expected pending challenge, got %+v", stored)
	}
	if stored.Verified || stored.Status != domain.StatusPending {
		t.Fatalf("expected pending unverified tenant, got %+v", stored)
	}

	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(f.mailer.sent))
	}
	if f.mailer.sent[0].to != "alice@example.com" || f.mailer.sent[0].code != stored.OTP {
		t.Fatalf("mail does not carry the stored code: %+v", f.mailer.sent[0])
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.svc.Signup(context.Background(), domain.RoleOwner, ports.SignupInput{
		Email: "bob@example.com", Password: "pass123",
	}); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if _, err := f.svc.Signup(context.Background(), domain.RoleOwner, ports.SignupInput{
		Email: "BOB@example.com", Password: "other456",
	}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthService_Signup_SameEmailDifferentRoles(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.svc.Signup(context.Background(), domain.RoleOwner, ports.SignupInput{
		Email: "sam@example.com", Password: "pass123",
	}); err != nil {
		t.Fatalf("owner signup failed: %v", err)
	}
	// Uniqueness is scoped per role store, so the same address may also
	// hold a tenant account.
	if _, err := f.svc.Signup(context.Background(), domain.RoleTenant, ports.SignupInput{
		Email: "sam@example.com", Password: "pass123",
	}); err != nil {
		t.Fatalf("tenant signup with same email failed: %v", err)
	}
}

func TestAuthService_Signup_EmptyPassword(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.svc.Signup(context.Background(), domain.RoleOwner, ports.SignupInput{
		Email: "bob@example.com",
	}); !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestAuthService_Signup_MailFailureKeepsRow(t *testing.T) {
	f := newAuthFixture(t)
	f.mailer.err = errors.New("broker down")

	_, err := f.svc.Signup(context.Background(), domain.RoleTenant, ports.SignupInput{
		Email: "alice@example.com", Password: "pass123",
	})
	var ie *domain.InternalError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InternalError, got %v", err)
	}
	if ie.Message != "tenant signup failed" {
		t.Fatalf("unexpected public message: %q", ie.Message)
	}

	// The tenant row with its challenge survives; resend is the recovery.
	stored, findErr := f.tenants.FindByEmail(context.Background(), "alice@example.com")
	if findErr != nil {
		t.Fatalf("tenant row should persist after mail failure: %v", findErr)
	}
	if stored.OTP == "" {
		t.Fatalf("expected persisted challenge")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.svc.Signup(context.Background(), domain.RoleOwner, ports.SignupInput{
		Email: "bob@example.com", Password: "pass123",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	result, err := f.svc.Login(context.Background(), domain.RoleOwner, "bob@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.Message != "owner login successful" {
		t.Fatalf("unexpected message: %q", result.Message)
	}

	stored, _ := f.owners.FindByEmail(context.Background(), "bob@example.com")
	if stored.RefreshToken != result.RefreshToken {
		t.Fatalf("stored refresh token not updated")
	}
}

func TestAuthService_Login_UnverifiedTenantAllowed(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.svc.Signup(context.Background(), domain.RoleTenant, ports.SignupInput{
		Email: "alice@example.com", Password: "pass123",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// Login never checks Verified or Status.
	if _, err := f.svc.Login(context.Background(), domain.RoleTenant, "alice@example.com", "pass123"); err != nil {
		t.Fatalf("unverified tenant must be able to log in: %v", err)
	}
}

func TestAuthService_Login_RefreshTokenOverwritten(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.svc.Signup(context.Background(), domain.RoleOwner, ports.SignupInput{
		Email: "bob@example.com", Password: "pass123",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	first, err := f.svc.Login(context.Background(), domain.RoleOwner, "bob@example.com", "pass123")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	second, err := f.svc.Login(context.Background(), domain.RoleOwner, "bob@example.com", "pass123")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	stored, _ := f.owners.FindByEmail(context.Background(), "bob@example.com")
	if stored.RefreshToken != second.RefreshToken {
		t.Fatalf("expected last-issued refresh token to be stored")
	}
	if stored.RefreshToken == first.RefreshToken {
		t.Fatalf("expected earlier refresh token to be overwritten")
	}
}

func TestAuthService_Login_IndistinguishableFailures(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.svc.Signup(context.Background(), domain.RoleOwner, ports.SignupInput{
		Email: "bob@example.com", Password: "pass123",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	_, unknownErr := f.svc.Login(context.Background(), domain.RoleOwner, "ghost@example.com", "pass123")
	_, wrongErr := f.svc.Login(context.Background(), domain.RoleOwner, "bob@example.com", "wrong")

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) || !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", unknownErr, wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("failure messages must not distinguish the cause")
	}
}

func TestAuthService_Login_DeniedEventRecorded(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.svc.Signup(context.Background(), domain.RoleOwner, ports.SignupInput{
		Email: "bob@example.com", Password: "pass123",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	f.recorder.events = nil

	_, _ = f.svc.Login(context.Background(), domain.RoleOwner, "bob@example.com", "wrong")

	if len(f.recorder.events) != 1 || f.recorder.events[0].Kind != domain.EventLoginDenied {
		t.Fatalf("expected one login_denied event, got %+v", f.recorder.events)
	}
}

func TestAuthService_VerifyOTP(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.svc.Signup(context.Background(), domain.RoleTenant, ports.SignupInput{
		Email: "alice@example.com", Password: "pass123",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	code := f.mailer.sent[0].code

	if err := f.svc.VerifyOTP(context.Background(), "alice@example.com", code); err != nil {
		t.Fatalf("VerifyOTP returned error: %v", err)
	}

	stored, _ := f.tenants.FindByEmail(context.Background(), "alice@example.com")
	if !stored.Verified || stored.Status != domain.StatusApproved {
		t.Fatalf("expected verified approved tenant, got %+v", stored)
	}
	if stored.OTP != "" || !stored.OTPExpiresAt.IsZero() {
		t.Fatalf("expected challenge to be cleared, got %+v", stored)
	}

	// The challenge is single-use.
	if err := f.svc.VerifyOTP(context.Background(), "alice@example.com", code); !errors.Is(err, domain.ErrNoChallenge) {
		t.Fatalf("expected ErrNoChallenge on replay, got %v", err)
	}
}

func TestAuthService_VerifyOTP_WrongCode(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.svc.Signup(context.Background(), domain.RoleTenant, ports.SignupInput{
		Email: "alice@example.com", Password: "pass123",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if err := f.svc.VerifyOTP(context.Background(), "alice@example.com", "000000"); !errors.Is(err, domain.ErrOTPMismatch) {
		t.Fatalf("expected ErrOTPMismatch, got %v", err)
	}

	stored, _ := f.tenants.FindByEmail(context.Background(), "alice@example.com")
	if stored.Verified {
		t.Fatalf("wrong code must not verify the tenant")
	}
}

func TestAuthService_VerifyOTP_Expired(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.svc.Signup(context.Background(), domain.RoleTenant, ports.SignupInput{
		Email: "alice@example.com", Password: "pass123",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	code := f.mailer.sent[0].code

	f.svc.now = func() time.Time { return time.Now().Add(otp.TTL + time.Minute) }

	if err := f.svc.VerifyOTP(context.Background(), "alice@example.com", code); !errors.Is(err, domain.ErrOTPExpired) {
		t.Fatalf("expected ErrOTPExpired, got %v", err)
	}
}

func TestAuthService_ResendOTP(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.svc.Signup(context.Background(), domain.RoleTenant, ports.SignupInput{
		Email: "alice@example.com", Password: "pass123",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	before, _ := f.tenants.FindByEmail(context.Background(), "alice@example.com")

	if err := f.svc.ResendOTP(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("ResendOTP returned error: %v", err)
	}

	after, _ := f.tenants.FindByEmail(context.Background(), "alice@example.com")
	if after.OTP == before.OTP && after.OTPExpiresAt.Equal(before.OTPExpiresAt) {
		t.Fatalf("expected a fresh challenge")
	}
	if len(f.mailer.sent) != 2 {
		t.Fatalf("expected a second mail, got %d", len(f.mailer.sent))
	}
	if f.mailer.sent[1].code != after.OTP {
		t.Fatalf("mail does not carry the new code")
	}
}

func TestAuthService_ResendOTP_AlreadyVerified(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.svc.Signup(context.Background(), domain.RoleTenant, ports.SignupInput{
		Email: "alice@example.com", Password: "pass123",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	code := f.mailer.sent[0].code
	if err := f.svc.VerifyOTP(context.Background(), "alice@example.com", code); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	before, _ := f.tenants.FindByEmail(context.Background(), "alice@example.com")

	if err := f.svc.ResendOTP(context.Background(), "alice@example.com"); !errors.Is(err, domain.ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified, got %v", err)
	}

	after, _ := f.tenants.FindByEmail(context.Background(), "alice@example.com")
	if *after != *before {
		t.Fatalf("resend after verification must not mutate the row")
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("resend after verification must not send mail")
	}
}

func TestAuthService_ResendOTP_Cooldown(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.svc.Signup(context.Background(), domain.RoleTenant, ports.SignupInput{
		Email: "alice@example.com", Password: "pass123",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	f.limiter.allowed = false

	if err := f.svc.ResendOTP(context.Background(), "alice@example.com"); !errors.Is(err, domain.ErrResendCooldown) {
		t.Fatalf("expected ErrResendCooldown, got %v", err)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("throttled resend must not send mail")
	}
}

func TestAuthService_ResendOTP_LimiterFailureAllows(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.svc.Signup(context.Background(), domain.RoleTenant, ports.SignupInput{
		Email: "alice@example.com", Password: "pass123",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	f.limiter.err = errors.New("redis down")
	f.limiter.allowed = false

	if err := f.svc.ResendOTP(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("a broken limiter must not block verification: %v", err)
	}
	if len(f.mailer.sent) != 2 {
		t.Fatalf("expected the resend to go through")
	}
}

func TestAuthService_Profile(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.svc.Signup(context.Background(), domain.RoleOwner, ports.SignupInput{
		Email: "bob@example.com", Password: "pass123", FullName: "Bob B",
	}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	p, err := f.svc.Profile(context.Background(), domain.RoleOwner, "Bob@Example.com")
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if p.FullName != "Bob B" {
		t.Fatalf("unexpected profile: %+v", p)
	}

	if _, err := f.svc.Profile(context.Background(), domain.RoleTenant, "bob@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("profile lookup must stay within the role store, got %v", err)
	}
}
