package matching

import (
	"context"
	"time"

	"homeMatch/internal/models"
)

// Candidate is a (counterparty, property) pair surviving the coarse
// pre-filters. The scorer decides whether it becomes a match.
type Candidate struct {
	CounterpartyID int
	Property       models.Property
}

// PropertySource returns properties passing the index-friendly part of the
// pre-filter: listed, rent inside [rentFrom, rentTo], available on or
// before availableBy. Ordering must be deterministic for a data snapshot.
type PropertySource interface {
	FindCandidateProperties(ctx context.Context, rentFrom, rentTo float64, availableBy time.Time) ([]models.Property, error)
}

// SelectorConfig tunes the pre-filter bands.
type SelectorConfig struct {
	BudgetTolerance       float64
	AvailabilityGraceDays int
}

// Selector produces the bounded candidate set for a rental request. It may
// over-include (the scorer rejects), it never excludes a pair the scorer
// would rate above zero on the filtered dimensions, and it has no side
// effects.
type Selector struct {
	properties PropertySource
	cfg        SelectorConfig
}

func NewSelector(properties PropertySource, cfg SelectorConfig) *Selector {
	if cfg.BudgetTolerance <= 0 {
		cfg.BudgetTolerance = DefaultBudgetTolerance
	}
	if cfg.AvailabilityGraceDays <= 0 {
		cfg.AvailabilityGraceDays = DefaultAvailabilityGraceDays
	}
	return &Selector{properties: properties, cfg: cfg}
}

func (s *Selector) SelectCandidates(ctx context.Context, req models.RentalRequest) ([]Candidate, error) {
	from, to, ok := req.BudgetRange(s.cfg.BudgetTolerance)
	if !ok {
		// No usable budget: a non-match by contract, not an error.
		return nil, nil
	}
	rentFrom := from * (1 - s.cfg.BudgetTolerance)
	rentTo := to * (1 + s.cfg.BudgetTolerance)
	availableBy := req.MoveInDate.AddDate(0, 0, s.cfg.AvailabilityGraceDays)

	props, err := s.properties.FindCandidateProperties(ctx, rentFrom, rentTo, availableBy)
	if err != nil {
		return nil, err
	}

	var out []Candidate
	for _, p := range props {
		if !p.Listed() {
			continue
		}
		if !LocationsCompatible(req.Location, p.City) {
			continue
		}
		out = append(out, Candidate{CounterpartyID: p.CounterpartyID, Property: p})
	}
	return out, nil
}
