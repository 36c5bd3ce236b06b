package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/akeray/property-system/internal/core/domain"
	"github.com/akeray/property-system/internal/core/ports"
)

// ctxActor rebuilds the caller identity injected by the Auth middleware and
// performs a fast-fail check before any service call: role and email must be
// present (presence proves the middleware ran), and the role must parse.
func ctxActor(c echo.Context) (ports.Actor, error) {
	roleClaim, _ := c.Get("role").(string)
	email, _ := c.Get("email").(string)
	if roleClaim == "" || email == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	role, err := domain.ParseRole(roleClaim)
	if err != nil {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	subject, _ := c.Get("subject").(string)
	return ports.Actor{ID: subject, Email: email, Role: role}, nil
}
