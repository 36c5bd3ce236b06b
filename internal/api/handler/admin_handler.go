package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/akeray/property-system/internal/core/domain"
	"github.com/akeray/property-system/internal/core/ports"
)

// AdminHandler handles the admin-only directory and approval routes.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type principalSummaryResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type listPrincipalsResponse struct {
	Data       []principalSummaryResponse `json:"data"`
	Pagination paginationResponse         `json:"pagination"`
}

// ListOwners handles GET /v1/admin/owners.
//
// @Summary      List owner accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  listPrincipalsResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/admin/owners [get]
func (h *AdminHandler) ListOwners(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.ListOwners(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListPrincipalsResponse(result))
}

// ListTenants handles GET /v1/admin/tenants.
//
// @Summary      List tenant accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  listPrincipalsResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/admin/tenants [get]
func (h *AdminHandler) ListTenants(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.ListTenants(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListPrincipalsResponse(result))
}

// SetOwnerStatus handles PATCH /v1/admin/owners/:id/status.
//
// @Summary      Approve or reject an owner account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Owner id"
// @Param        body  body      setStatusRequest  true  "New status"
// @Success      200   {object}  principalSummaryResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/owners/{id}/status [patch]
func (h *AdminHandler) SetOwnerStatus(c echo.Context) error {
	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	owner, err := h.service.SetOwnerStatus(c.Request().Context(), c.Param("id"), domain.AccountStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPrincipalSummary(owner))
}

func toListPrincipalsResponse(result *ports.ListPrincipalsResult) listPrincipalsResponse {
	data := make([]principalSummaryResponse, 0, len(result.Items))
	for _, p := range result.Items {
		data = append(data, toPrincipalSummary(p))
	}
	return listPrincipalsResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	}
}

func toPrincipalSummary(p *domain.Principal) principalSummaryResponse {
	return principalSummaryResponse{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Role:      string(p.Role),
		Verified:  p.Verified,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}
