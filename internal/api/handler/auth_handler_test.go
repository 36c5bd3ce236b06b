package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/akeray/property-system/internal/core/domain"
	"github.com/akeray/property-system/internal/core/ports"
)

type stubAuthService struct {
	signupFn  func(ctx context.Context, role domain.Role, in ports.SignupInput) (*ports.AuthResult, error)
	loginFn   func(ctx context.Context, role domain.Role, email, password string) (*ports.AuthResult, error)
	profileFn func(ctx context.Context, role domain.Role, email string) (*domain.Principal, error)
	verifyFn  func(ctx context.Context, email, code string) error
	resendFn  func(ctx context.Context, email string) error
}

func (s *stubAuthService) Signup(ctx context.Context, role domain.Role, in ports.SignupInput) (*ports.AuthResult, error) {
	return s.signupFn(ctx, role, in)
}

func (s *stubAuthService) Login(ctx context.Context, role domain.Role, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, role, email, password)
}

func (s *stubAuthService) Profile(ctx context.Context, role domain.Role, email string) (*domain.Principal, error) {
	return s.profileFn(ctx, role, email)
}

func (s *stubAuthService) VerifyOTP(ctx context.Context, email, code string) error {
	return s.verifyFn(ctx, email, code)
}

func (s *stubAuthService) ResendOTP(ctx context.Context, email string) error {
	return s.resendFn(ctx, email)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, role domain.Role, in ports.SignupInput) (*ports.AuthResult, error) {
			if role != domain.RoleTenant {
				t.Fatalf("unexpected role: %s", role)
			}
			if in.Email != "alice@example.com" || in.FullName != "Alice A" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{
				AccessToken:  "access",
				RefreshToken: "refresh",
				Role:         role,
				Message:      "tenant registered, verification code sent",
			}, nil
		},
	}
	h := NewAuthHandler(stub, 15*time.Minute)

	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/tenant/signup",
		`{"email":"alice@example.com","password":"secret1","full_name":"Alice A"}`)

	if err := h.Signup(domain.RoleTenant)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "access" || resp["refresh_token"] != "refresh" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}
	if resp["token_type"] != "Bearer" {
		t.Fatalf("unexpected token_type: %v", resp["token_type"])
	}
	if resp["expires_in"] != float64(900) {
		t.Fatalf("unexpected expires_in: %v", resp["expires_in"])
	}
}

func TestAuthHandler_Signup_ShortPassword(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, role domain.Role, in ports.SignupInput) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, 15*time.Minute)

	c, _ := newTestContext(t, http.MethodPost, "/v1/auth/tenant/signup",
		`{"email":"alice@example.com","password":"abc","full_name":"Alice A"}`)

	err := h.Signup(domain.RoleTenant)(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, role domain.Role, in ports.SignupInput) (*ports.AuthResult, error) {
			return nil, domain.ErrDuplicateEmail
		},
	}
	h := NewAuthHandler(stub, 15*time.Minute)

	c, _ := newTestContext(t, http.MethodPost, "/v1/auth/owner/signup",
		`{"email":"bob@example.com","password":"secret1","full_name":"Bob B"}`)

	err := h.Signup(domain.RoleOwner)(c)
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, role domain.Role, email, password string) (*ports.AuthResult, error) {
			if role != domain.RoleAdmin || email != "root@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s %s", role, email, password)
			}
			return &ports.AuthResult{
				AccessToken:  "access",
				RefreshToken: "refresh",
				Role:         role,
				Message:      "admin login successful",
			}, nil
		},
	}
	h := NewAuthHandler(stub, 15*time.Minute)

	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/admin/login",
		`{"email":"root@example.com","password":"secret1"}`)

	if err := h.Login(domain.RoleAdmin)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "admin login successful" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, role domain.Role, email, password string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, 15*time.Minute)

	c, _ := newTestContext(t, http.MethodPost, "/v1/auth/owner/login",
		`{"email":"bob@example.com","password":"wrong1"}`)

	err := h.Login(domain.RoleOwner)(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, role domain.Role, email, password string) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, 15*time.Minute)

	c, _ := newTestContext(t, http.MethodPost, "/v1/auth/owner/login", "{")

	err := h.Login(domain.RoleOwner)(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		profileFn: func(ctx context.Context, role domain.Role, email string) (*domain.Principal, error) {
			if role != domain.RoleTenant || email != "alice@example.com" {
				t.Fatalf("unexpected args: %s %s", role, email)
			}
			return &domain.Principal{
				ID:       "t1",
				Email:    email,
				Role:     role,
				Verified: true,
				Status:   domain.StatusApproved,
			}, nil
		},
	}
	h := NewAuthHandler(stub, 15*time.Minute)

	c, rec := newTestContext(t, http.MethodGet, "/v1/auth/me", "")
	c.Set("subject", "t1")
	c.Set("email", "alice@example.com")
	c.Set("role", "tenant")

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "alice@example.com" || resp["verified"] != true {
		t.Fatalf("unexpected profile: %+v", resp)
	}
}

func TestAuthHandler_Me_MissingClaims(t *testing.T) {
	stub := &stubAuthService{
		profileFn: func(ctx context.Context, role domain.Role, email string) (*domain.Principal, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, 15*time.Minute)

	c, _ := newTestContext(t, http.MethodGet, "/v1/auth/me", "")

	err := h.Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_VerifyOTP(t *testing.T) {
	stub := &stubAuthService{
		verifyFn: func(ctx context.Context, email, code string) error {
			if email != "alice@example.com" || code != "482913" {
				t.Fatalf("unexpected args: %s %s", email, code)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub, 15*time.Minute)

	c, rec := newTestContext(t, http.MethodPost, "/v1/auth/tenant/verify-otp",
		`{"email":"alice@example.com","code":"482913"}`)

	if err := h.VerifyOTP(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_VerifyOTP_BadCodeFormat(t *testing.T) {
	stub := &stubAuthService{
		verifyFn: func(ctx context.Context, email, code string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	h := NewAuthHandler(stub, 15*time.Minute)

	c, _ := newTestContext(t, http.MethodPost, "/v1/auth/tenant/verify-otp",
		`{"email":"alice@example.com","code":"12ab"}`)

	err := h.VerifyOTP(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_ResendOTP_Cooldown(t *testing.T) {
	stub := &stubAuthService{
		resendFn: func(ctx context.Context, email string) error {
			return domain.ErrResendCooldown
		},
	}
	h := NewAuthHandler(stub, 15*time.Minute)

	c, _ := newTestContext(t, http.MethodPost, "/v1/auth/tenant/resend-otp",
		`{"email":"alice@example.com"}`)

	err := h.ResendOTP(c)
	if !errors.Is(err, domain.ErrResendCooldown) {
		t.Fatalf("expected ErrResendCooldown, got %v", err)
	}
}
