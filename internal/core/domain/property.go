package domain

import "time"

// Property is a listing owned by exactly one owner. OwnerID is empty when
// the listing was created under the admin role; mutation authorization
// compares OwnerID against the caller's subject id.
type Property struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id,omitempty"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Unit is a rentable space inside a property. Authorization for unit
// mutation walks Unit -> Property -> OwnerID.
type Unit struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id"`
	UnitNumber  string    `json:"unit_number"`
	Bedrooms    int       `json:"bedrooms"`
	MonthlyRent float64   `json:"monthly_rent"`
	Occupied    bool      `json:"occupied"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
