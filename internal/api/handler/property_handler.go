package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/akeray/property-system/internal/api/metrics"
	"github.com/akeray/property-system/internal/core/domain"
	"github.com/akeray/property-system/internal/core/ports"
)

// PropertyHandler handles HTTP requests for property listings and their units.
type PropertyHandler struct {
	service ports.PropertyService
}

func NewPropertyHandler(service ports.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// Create handles POST /v1/properties.
//
// @Summary      Create a property listing
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPropertyRequest  true  "Property details"
// @Success      201   {object}  propertyResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/properties [post]
func (h *PropertyHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createPropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.service.Create(c.Request().Context(), actor, ports.CreatePropertyInput{
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	metrics.PropertiesCreatedTotal.WithLabelValues(string(actor.Role)).Inc()
	return c.JSON(http.StatusCreated, toPropertyResponse(p))
}

// Get handles GET /v1/properties/:id. Reads are public.
//
// @Summary      Get a property by id
// @Tags         properties
// @Produce      json
// @Param        id   path      string  true  "Property id"
// @Success      200  {object}  propertyResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/properties/{id} [get]
func (h *PropertyHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPropertyResponse(p))
}

// List handles GET /v1/properties with optional owner_id/city filters.
//
// @Summary      List property listings
// @Tags         properties
// @Produce      json
// @Param        owner_id  query     string  false  "Filter by owner id"
// @Param        city      query     string  false  "Filter by city"
// @Param        page      query     int     false  "Page number (1-based)"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  listPropertiesResponse
// @Router       /v1/properties [get]
func (h *PropertyHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListPropertiesFilter{
		OwnerID: c.QueryParam("owner_id"),
		City:    c.QueryParam("city"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	data := make([]propertyResponse, 0, len(result.Items))
	for _, p := range result.Items {
		data = append(data, toPropertyResponse(p))
	}
	return c.JSON(http.StatusOK, listPropertiesResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Patch handles PATCH /v1/properties/:id.
//
// @Summary      Update a property listing
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Property id"
// @Param        body  body      patchPropertyRequest  true  "Fields to change"
// @Success      200   {object}  propertyResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/properties/{id} [patch]
func (h *PropertyHandler) Patch(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req patchPropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	p, err := h.service.Patch(c.Request().Context(), actor, c.Param("id"), ports.PropertyPatch{
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPropertyResponse(p))
}

// Delete handles DELETE /v1/properties/:id.
//
// @Summary      Delete a property listing
// @Tags         properties
// @Security     BearerAuth
// @Param        id  path  string  true  "Property id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/properties/{id} [delete]
func (h *PropertyHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddUnit handles POST /v1/properties/:id/units.
//
// @Summary      Add a unit to a property
// @Tags         units
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Property id"
// @Param        body  body      createUnitRequest  true  "Unit details"
// @Success      201   {object}  unitResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/properties/{id}/units [post]
func (h *PropertyHandler) AddUnit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createUnitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u, err := h.service.AddUnit(c.Request().Context(), actor, c.Param("id"), ports.CreateUnitInput{
		UnitNumber:  req.UnitNumber,
		Bedrooms:    req.Bedrooms,
		MonthlyRent: req.MonthlyRent,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUnitResponse(u))
}

// ListUnits handles GET /v1/properties/:id/units. Reads are public.
//
// @Summary      List units of a property
// @Tags         units
// @Produce      json
// @Param        id   path      string  true  "Property id"
// @Success      200  {object}  listUnitsResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/properties/{id}/units [get]
func (h *PropertyHandler) ListUnits(c echo.Context) error {
	units, err := h.service.ListUnits(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	data := make([]unitResponse, 0, len(units))
	for _, u := range units {
		data = append(data, toUnitResponse(u))
	}
	return c.JSON(http.StatusOK, listUnitsResponse{Data: data})
}

// PatchUnit handles PATCH /v1/units/:id.
//
// @Summary      Update a unit
// @Tags         units
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Unit id"
// @Param        body  body      patchUnitRequest  true  "Fields to change"
// @Success      200   {object}  unitResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/units/{id} [patch]
func (h *PropertyHandler) PatchUnit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req patchUnitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	u, err := h.service.PatchUnit(c.Request().Context(), actor, c.Param("id"), ports.UnitPatch{
		UnitNumber:  req.UnitNumber,
		Bedrooms:    req.Bedrooms,
		MonthlyRent: req.MonthlyRent,
		Occupied:    req.Occupied,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUnitResponse(u))
}

// RemoveUnit handles DELETE /v1/units/:id.
//
// @Summary      Delete a unit
// @Tags         units
// @Security     BearerAuth
// @Param        id  path  string  true  "Unit id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/units/{id} [delete]
func (h *PropertyHandler) RemoveUnit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.RemoveUnit(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toPropertyResponse(p *domain.Property) propertyResponse {
	return propertyResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Address:     p.Address,
		City:        p.City,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toUnitResponse(u *domain.Unit) unitResponse {
	return unitResponse{
		ID:          u.ID,
		PropertyID:  u.PropertyID,
		UnitNumber:  u.UnitNumber,
		Bedrooms:    u.Bedrooms,
		MonthlyRent: u.MonthlyRent,
		Occupied:    u.Occupied,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
