package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/akeray/property-system/internal/core/domain"
	"github.com/akeray/property-system/internal/core/ports"
	"github.com/akeray/property-system/internal/core/service"
)

// AuthHandler handles HTTP requests for signup, login and OTP verification.
type AuthHandler struct {
	authService ports.AuthService
	accessTTL   time.Duration
}

func NewAuthHandler(authService ports.AuthService, accessTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, accessTTL: accessTTL}
}

// Signup returns the registration handler for one role. The role comes from
// the route, never from the request body.
//
// @Summary      Register an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        role  path      string         true  "Account role"  Enums(admin, owner, tenant)
// @Param        body  body      signupRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/auth/{role}/signup [post]
func (h *AuthHandler) Signup(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req signupRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		result, err := h.authService.Signup(requestCtx(c), role, ports.SignupInput{
			Email:    req.Email,
			Password: req.Password,
			FullName: req.FullName,
		})
		if err != nil {
			return err
		}

		return c.JSON(http.StatusCreated, h.toAuthResponse(result))
	}
}

// Login returns the credential-check handler for one role.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        role  path      string        true  "Account role"  Enums(admin, owner, tenant)
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/auth/{role}/login [post]
func (h *AuthHandler) Login(role domain.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req loginRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		result, err := h.authService.Login(requestCtx(c), role, req.Email, req.Password)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, h.toAuthResponse(result))
	}
}

// Me resolves the authenticated caller's profile.
//
// @Summary      Get own profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	p, err := h.authService.Profile(c.Request().Context(), actor.Role, actor.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		ID:       p.ID,
		Email:    p.Email,
		FullName: p.FullName,
		Role:     string(p.Role),
		Verified: p.Verified,
		Status:   string(p.Status),
	})
}

// VerifyOTP consumes a tenant's pending verification code.
//
// @Summary      Verify a tenant account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "Email and code"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/auth/tenant/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.VerifyOTP(requestCtx(c), req.Email, req.Code); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "account verified"})
}

// ResendOTP issues a fresh verification code to an unverified tenant.
//
// @Summary      Resend the verification code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resendOTPRequest  true  "Email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /v1/auth/tenant/resend-otp [post]
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req resendOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResendOTP(requestCtx(c), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "verification code sent"})
}

func (h *AuthHandler) toAuthResponse(result *ports.AuthResult) authResponse {
	return authResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(h.accessTTL.Seconds()),
		Role:         string(result.Role),
		Message:      result.Message,
	}
}

// requestCtx attaches the request id so audit events can be correlated with
// access logs.
func requestCtx(c echo.Context) context.Context {
	id := c.Response().Header().Get(echo.HeaderXRequestID)
	return service.WithRequestID(c.Request().Context(), id)
}
