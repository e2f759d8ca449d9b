package models

import (
	"time"
)

// Pool statuses for a rental request.
const (
	PoolStatusActive  = "active"
	PoolStatusMatched = "matched"
	PoolStatusExpired = "expired"
)

type RentalRequest struct {
	ID           int        `json:"id"`
	TenantID     int        `json:"tenant_id"`
	Location     string     `json:"location"`
	Budget       *float64   `json:"budget,omitempty"`
	BudgetFrom   *float64   `json:"budget_from,omitempty"`
	BudgetTo     *float64   `json:"budget_to,omitempty"`
	PropertyType *string    `json:"property_type,omitempty"`
	Bedrooms     *int       `json:"bedrooms,omitempty"`
	MoveInDate   time.Time  `json:"move_in_date"`
	PoolStatus   string     `json:"pool_status"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// BudgetRange resolves the effective budget interval. When the request
// carries no explicit range the single budget value is expanded by the
// tolerance on both sides. ok is false when the request has no usable
// budget at all.
func (r RentalRequest) BudgetRange(tolerance float64) (from, to float64, ok bool) {
	if r.BudgetFrom != nil && r.BudgetTo != nil && *r.BudgetFrom > 0 && *r.BudgetTo >= *r.BudgetFrom {
		return *r.BudgetFrom, *r.BudgetTo, true
	}
	if r.Budget != nil && *r.Budget > 0 {
		return *r.Budget * (1 - tolerance), *r.Budget * (1 + tolerance), true
	}
	return 0, 0, false
}
