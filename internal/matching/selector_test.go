package matching

import (
	"context"
	"testing"
	"time"

	"homeMatch/internal/models"
)

type stubPropertySource struct {
	properties []models.Property

	rentFrom    float64
	rentTo      float64
	availableBy time.Time
}

func (s *stubPropertySource) FindCandidateProperties(ctx context.Context, rentFrom, rentTo float64, availableBy time.Time) ([]models.Property, error) {
	s.rentFrom = rentFrom
	s.rentTo = rentTo
	s.availableBy = availableBy

	var out []models.Property
	for _, p := range s.properties {
		if !p.Listed() {
			continue
		}
		if p.MonthlyRent < rentFrom || p.MonthlyRent > rentTo {
			continue
		}
		if p.AvailableFrom.After(availableBy) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func testProperties() []models.Property {
	mk := func(id, cpID int, city string, rent float64, avail string, listed bool) models.Property {
		status := models.PropertyStatusAvailable
		if !listed {
			status = models.PropertyStatusRented
		}
		return models.Property{
			ID:             id,
			CounterpartyID: cpID,
			City:           city,
			MonthlyRent:    rent,
			PropertyType:   "apartment",
			Bedrooms:       2,
			AvailableFrom:  day(avail),
			Status:         status,
			Availability:   listed,
		}
	}
	return []models.Property{
		mk(1, 100, "Warszawa", 2500, "2025-08-15", true),
		mk(2, 101, "Warszawa", 3500, "2025-08-15", true),  // inside tolerance band
		mk(3, 102, "Kraków", 2500, "2025-08-15", true),    // wrong city
		mk(4, 103, "Warszawa", 9000, "2025-08-15", true),  // far out of budget
		mk(5, 104, "Warszawa", 2500, "2026-01-01", true),  // available too late
		mk(6, 105, "Warszawa", 2500, "2025-08-15", false), // unlisted
	}
}

func TestSelectCandidates(t *testing.T) {
	source := &stubPropertySource{properties: testProperties()}
	selector := NewSelector(source, SelectorConfig{})

	req := baseRequest()
	candidates, err := selector.SelectCandidates(context.Background(), req)
	if err != nil {
		t.Fatalf("SelectCandidates error: %v", err)
	}

	got := map[int]bool{}
	for _, c := range candidates {
		got[c.Property.ID] = true
		if c.CounterpartyID != c.Property.CounterpartyID {
			t.Fatalf("candidate counterparty mismatch: %d vs %d", c.CounterpartyID, c.Property.CounterpartyID)
		}
	}
	if !got[1] || !got[2] {
		t.Fatalf("expected properties 1 and 2 selected, got %v", got)
	}
	for _, id := range []int{3, 4, 5, 6} {
		if got[id] {
			t.Fatalf("property %d should have been filtered out", id)
		}
	}

	// Widened band: [2000*0.8, 3000*1.2], grace 30 days past move-in.
	if source.rentFrom != 1600 || source.rentTo != 3600 {
		t.Fatalf("unexpected rent band [%v, %v]", source.rentFrom, source.rentTo)
	}
	wantBy := req.MoveInDate.AddDate(0, 0, 30)
	if !source.availableBy.Equal(wantBy) {
		t.Fatalf("expected availableBy %v got %v", wantBy, source.availableBy)
	}
}

func TestSelectCandidatesNoBudget(t *testing.T) {
	source := &stubPropertySource{properties: testProperties()}
	selector := NewSelector(source, SelectorConfig{})

	req := baseRequest()
	req.Budget = nil
	req.BudgetFrom = nil
	req.BudgetTo = nil

	candidates, err := selector.SelectCandidates(context.Background(), req)
	if err != nil {
		t.Fatalf("SelectCandidates error: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates without a budget, got %d", len(candidates))
	}
}

// The pre-filter may over-include but must never drop a pair that passes
// the documented predicates.
func TestSelectCandidatesSupersetSafe(t *testing.T) {
	// Deterministic pseudo-random properties.
	seed := uint64(42)
	next := func(n int) int {
		seed = seed*6364136223846793005 + 1442695040888963407
		return int(seed>>33) % n
	}

	cities := []string{"Warszawa", "Kraków", "Gdańsk", "Łódź"}
	var properties []models.Property
	for i := 1; i <= 200; i++ {
		properties = append(properties, models.Property{
			ID:             i,
			CounterpartyID: 1000 + next(40),
			City:           cities[next(len(cities))],
			MonthlyRent:    float64(800 + next(4000)),
			AvailableFrom:  day("2025-07-01").AddDate(0, 0, next(120)),
			Status:         models.PropertyStatusAvailable,
			Availability:   next(5) != 0,
		})
	}

	source := &stubPropertySource{properties: properties}
	selector := NewSelector(source, SelectorConfig{})
	req := baseRequest()

	candidates, err := selector.SelectCandidates(context.Background(), req)
	if err != nil {
		t.Fatalf("SelectCandidates error: %v", err)
	}
	selected := map[int]bool{}
	for _, c := range candidates {
		selected[c.Property.ID] = true
	}

	availableBy := req.MoveInDate.AddDate(0, 0, 30)
	for _, p := range properties {
		passes := p.Listed() &&
			p.MonthlyRent >= 1600 && p.MonthlyRent <= 3600 &&
			!p.AvailableFrom.After(availableBy) &&
			LocationsCompatible(req.Location, p.City)
		if passes && !selected[p.ID] {
			t.Fatalf("property %d passes the documented pre-filter but was excluded", p.ID)
		}
	}
}
