package models

import (
	"time"
)

// Listing statuses for a property.
const (
	PropertyStatusAvailable = "available"
	PropertyStatusRented    = "rented"
	PropertyStatusArchived  = "archive"
)

type Property struct {
	ID             int        `json:"id"`
	CounterpartyID int        `json:"counterparty_id"`
	City           string     `json:"city"`
	Address        string     `json:"address"`
	MonthlyRent    float64    `json:"monthly_rent"`
	PropertyType   string     `json:"property_type"`
	Bedrooms       int        `json:"bedrooms"`
	AvailableFrom  time.Time  `json:"available_from"`
	Status         string     `json:"status"`
	Availability   bool       `json:"availability"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// Listed reports whether the property can be offered to tenants at all.
// Availability is a temporary off-market switch independent of Status.
func (p Property) Listed() bool {
	return p.Availability && p.Status == PropertyStatusAvailable
}
