package models

import (
	"time"
)

// Counterparty kinds.
const (
	CounterpartyLandlord     = "landlord"
	CounterpartyOrganization = "organization"
)

// Counterparty is the landlord side of a match: an individual or an
// organization with members.
type Counterparty struct {
	ID        int                  `json:"id"`
	Name      string               `json:"name"`
	Kind      string               `json:"kind"`
	Members   []CounterpartyMember `json:"members,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// CounterpartyMember carries the trust-relevant profile of a person
// behind a counterparty.
type CounterpartyMember struct {
	ID             int        `json:"id"`
	CounterpartyID int        `json:"counterparty_id"`
	AvgRating      float64    `json:"avg_rating"`
	DeclaredRating float64    `json:"declared_rating"`
	ReviewsCount   int        `json:"reviews_count"`
	LastActiveAt   *time.Time `json:"last_active_at,omitempty"`
	Suspended      bool       `json:"suspended"`
	Responsible    bool       `json:"responsible"`
}
