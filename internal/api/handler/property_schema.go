package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createPropertyRequest struct {
	Name        string `json:"name"        validate:"required"`
	Address     string `json:"address"     validate:"required"`
	City        string `json:"city"        validate:"required"`
	Description string `json:"description"`
}

// patchPropertyRequest uses pointers so "absent" and "set to empty" stay
// distinguishable.
type patchPropertyRequest struct {
	Name        *string `json:"name,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	Description *string `json:"description,omitempty"`
}

type createUnitRequest struct {
	UnitNumber  string  `json:"unit_number"  validate:"required"`
	Bedrooms    int     `json:"bedrooms"     validate:"gte=0"`
	MonthlyRent float64 `json:"monthly_rent" validate:"required,gt=0"`
}

type patchUnitRequest struct {
	UnitNumber  *string  `json:"unit_number,omitempty"`
	Bedrooms    *int     `json:"bedrooms,omitempty"`
	MonthlyRent *float64 `json:"monthly_rent,omitempty"`
	Occupied    *bool    `json:"occupied,omitempty"`
}

// Response-only types owned by the transport layer. These are intentionally
// separate from domain types so the JSON contract is not coupled to internal
// service changes.

type propertyResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id,omitempty"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type unitResponse struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id"`
	UnitNumber  string    `json:"unit_number"`
	Bedrooms    int       `json:"bedrooms"`
	MonthlyRent float64   `json:"monthly_rent"`
	Occupied    bool      `json:"occupied"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listPropertiesResponse struct {
	Data       []propertyResponse `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type listUnitsResponse struct {
	Data []unitResponse `json:"data"`
}
