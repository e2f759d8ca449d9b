package models

import (
	"time"
)

// Match links a rental request with a counterparty. At most one row
// exists per (request_id, counterparty_id) pair; recomputation updates
// score and reason in place.
type Match struct {
	ID             int        `json:"id"`
	RequestID      int        `json:"request_id"`
	CounterpartyID int        `json:"counterparty_id"`
	PropertyID     int        `json:"property_id"`
	Score          float64    `json:"score"`
	Reason         string     `json:"reason"`
	IsViewed       bool       `json:"is_viewed"`
	IsNotified     bool       `json:"is_notified"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}
