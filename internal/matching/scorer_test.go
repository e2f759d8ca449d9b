package matching

import (
	"math"
	"strings"
	"testing"
	"time"

	"homeMatch/internal/models"
	"homeMatch/internal/trust"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func sptr(v string) *string   { return &v }

func day(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func baseRequest() models.RentalRequest {
	return models.RentalRequest{
		ID:           1,
		Location:     "Mokotów, Warszawa",
		BudgetFrom:   fptr(2000),
		BudgetTo:     fptr(3000),
		PropertyType: sptr("apartment"),
		Bedrooms:     iptr(2),
		MoveInDate:   day("2025-09-01"),
		PoolStatus:   models.PoolStatusActive,
	}
}

func baseProperty() models.Property {
	return models.Property{
		ID:             10,
		CounterpartyID: 100,
		City:           "Warszawa",
		MonthlyRent:    2500,
		PropertyType:   "apartment",
		Bedrooms:       2,
		AvailableFrom:  day("2025-08-15"),
		Status:         models.PropertyStatusAvailable,
		Availability:   true,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreStrongCandidate(t *testing.T) {
	tp := &trust.Profile{Tier: trust.TierTrusted, ReviewCount: 12}
	score, reason := Score(baseRequest(), baseProperty(), tp)

	// location partial (60), everything else at 100:
	// (60*35 + 100*25 + 100*15 + 100*15 + 100*10)/100 = 86, trust x1.0
	if !almostEqual(score, 86) {
		t.Fatalf("expected 86 got %v", score)
	}
	if !strings.Contains(reason, "location partial") {
		t.Fatalf("expected partial location in reason, got %q", reason)
	}
	for _, part := range []string{"budget in range", "type match", "bedrooms match", "available on time", "trust trusted"} {
		if !strings.Contains(reason, part) {
			t.Fatalf("expected %q in reason %q", part, reason)
		}
	}
}

func TestScoreNewCounterpartyWithPenalty(t *testing.T) {
	prop := baseProperty()
	prop.Bedrooms = 3
	tp := &trust.Profile{Tier: trust.TierNew, ReviewCount: 0, DeclaredRating: 5.0}

	score, reason := Score(baseRequest(), prop, tp)

	// bedrooms off by one (50): raw = (60*35+100*25+100*15+50*15+100*10)/100 = 78.5
	// trust x0.85 = 66.725, misrepresentation -8 = 58.725
	if !almostEqual(score, 58.725) {
		t.Fatalf("expected 58.725 got %v", score)
	}
	if !strings.Contains(reason, "bedrooms close") {
		t.Fatalf("expected bedrooms close in reason %q", reason)
	}
	if !strings.Contains(reason, "unverified rating") {
		t.Fatalf("expected unverified rating in reason %q", reason)
	}
}

func TestScoreSubScores(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.RentalRequest, *models.Property)
		want   float64
		note   string
	}{
		{
			"location exact",
			func(r *models.RentalRequest, p *models.Property) { r.Location = "Warszawa" },
			100, "location exact",
		},
		{
			"location mismatch",
			func(r *models.RentalRequest, p *models.Property) { p.City = "Gdańsk" },
			65, "location mismatch",
		},
		{
			"type mismatch",
			func(r *models.RentalRequest, p *models.Property) { p.PropertyType = "house" },
			71, "type mismatch",
		},
		{
			"no type preference",
			func(r *models.RentalRequest, p *models.Property) { r.PropertyType = nil; p.PropertyType = "house" },
			86, "type any",
		},
		{
			"bedrooms far off",
			func(r *models.RentalRequest, p *models.Property) { p.Bedrooms = 5 },
			71, "bedrooms mismatch",
		},
		{
			"available within a week",
			func(r *models.RentalRequest, p *models.Property) { p.AvailableFrom = day("2025-09-05") },
			82, "available within a week",
		},
		{
			"available within a month",
			func(r *models.RentalRequest, p *models.Property) { p.AvailableFrom = day("2025-09-20") },
			79, "available within a month",
		},
		{
			"available too late",
			func(r *models.RentalRequest, p *models.Property) { p.AvailableFrom = day("2025-11-01") },
			76, "available too late",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := baseRequest()
			prop := baseProperty()
			tc.mutate(&req, &prop)
			score, reason := Score(req, prop, &trust.Profile{Tier: trust.TierTrusted, ReviewCount: 5})
			if !almostEqual(score, tc.want) {
				t.Fatalf("expected %v got %v (reason %q)", tc.want, score, reason)
			}
			if !strings.Contains(reason, tc.note) {
				t.Fatalf("expected %q in reason %q", tc.note, reason)
			}
		})
	}
}

func TestScoreBudgetDecay(t *testing.T) {
	req := baseRequest()
	prop := baseProperty()

	// Halfway into the upper tolerance band: to=3000, boundary 3600.
	prop.MonthlyRent = 3300
	score, reason := Score(req, prop, &trust.Profile{Tier: trust.TierTrusted, ReviewCount: 5})
	// budget sub-score 50: (60*35+50*25+100*15+100*15+100*10)/100 = 73.5
	if !almostEqual(score, 73.5) {
		t.Fatalf("expected 73.5 got %v (%q)", score, reason)
	}
	if !strings.Contains(reason, "budget above range") {
		t.Fatalf("expected budget above range in %q", reason)
	}

	prop.MonthlyRent = 3601
	score, reason = Score(req, prop, &trust.Profile{Tier: trust.TierTrusted, ReviewCount: 5})
	if !strings.Contains(reason, "budget out of range") {
		t.Fatalf("expected budget out of range in %q", reason)
	}
	if !almostEqual(score, 61) {
		t.Fatalf("expected 61 got %v", score)
	}
}

func TestScoreBudgetMonotonicity(t *testing.T) {
	req := baseRequest()
	prop := baseProperty()
	tp := &trust.Profile{Tier: trust.TierTrusted, ReviewCount: 5}

	prev := math.MaxFloat64
	for rent := 3000.0; rent <= 4200; rent += 37 {
		prop.MonthlyRent = rent
		score, _ := Score(req, prop, tp)
		if score > prev+1e-9 {
			t.Fatalf("budget score increased moving away from range: rent %v score %v > prev %v", rent, score, prev)
		}
		prev = score
	}

	prev = math.MaxFloat64
	for rent := 2000.0; rent >= 1200; rent -= 37 {
		prop.MonthlyRent = rent
		score, _ := Score(req, prop, tp)
		if score > prev+1e-9 {
			t.Fatalf("budget score increased moving below range: rent %v score %v > prev %v", rent, score, prev)
		}
		prev = score
	}
}

func TestScoreBoundedness(t *testing.T) {
	profiles := []*trust.Profile{
		nil,
		{Tier: trust.TierNew},
		{Tier: trust.TierNew, DeclaredRating: 5},
		{Tier: trust.TierExcellent, ReviewCount: 40},
		{Tier: trust.TierExcellent, ReviewCount: 40, IsSuspended: true},
		{Tier: trust.TierTrusted, IsSuspended: true},
	}
	rents := []float64{0, 500, 1600, 2000, 2500, 3000, 3600, 9000}
	cities := []string{"Warszawa", "Kraków", ""}
	availabilities := []string{"2025-07-01", "2025-09-05", "2025-09-25", "2026-01-01"}

	for _, tp := range profiles {
		for _, rent := range rents {
			for _, city := range cities {
				for _, avail := range availabilities {
					req := baseRequest()
					prop := baseProperty()
					prop.MonthlyRent = rent
					prop.City = city
					prop.AvailableFrom = day(avail)
					score, _ := Score(req, prop, tp)
					if score < 0 || score > 100 || math.IsNaN(score) {
						t.Fatalf("score out of bounds: %v (rent=%v city=%q avail=%v tp=%+v)", score, rent, city, avail, tp)
					}
				}
			}
		}
	}
}

func TestScoreExcellentCappedAt100(t *testing.T) {
	req := baseRequest()
	req.Location = "Warszawa"
	score, _ := Score(req, baseProperty(), &trust.Profile{Tier: trust.TierExcellent, ReviewCount: 40})
	// raw 100 x 1.05 must clamp to 100
	if !almostEqual(score, 100) {
		t.Fatalf("expected 100 got %v", score)
	}
}

func TestScoreTrustDegradation(t *testing.T) {
	req := baseRequest()
	prop := baseProperty()

	withTrust, _ := Score(req, prop, &trust.Profile{Tier: trust.TierTrusted, ReviewCount: 5})
	degraded, reason := Score(req, prop, nil)

	if !almostEqual(withTrust, degraded) {
		t.Fatalf("degraded score %v should equal neutral-multiplier score %v", degraded, withTrust)
	}
	if strings.Contains(reason, "trust") {
		t.Fatalf("degraded reason should not mention trust, got %q", reason)
	}
}

func TestScoreSuspensionPenalty(t *testing.T) {
	score, reason := Score(baseRequest(), baseProperty(), &trust.Profile{Tier: trust.TierTrusted, ReviewCount: 5, IsSuspended: true})
	if !almostEqual(score, 71) {
		t.Fatalf("expected 71 got %v", score)
	}
	if !strings.Contains(reason, "suspended member") {
		t.Fatalf("expected suspended member in %q", reason)
	}
}

func TestScoreInvalidInputs(t *testing.T) {
	req := baseRequest()
	req.BudgetFrom = nil
	req.BudgetTo = nil
	req.Budget = nil
	score, reason := Score(req, baseProperty(), nil)
	if score != 0 || reason != "invalid budget" {
		t.Fatalf("expected 0/invalid budget got %v/%q", score, reason)
	}

	req = baseRequest()
	req.Location = "   "
	score, reason = Score(req, baseProperty(), nil)
	if score != 0 || reason != "invalid location" {
		t.Fatalf("expected 0/invalid location got %v/%q", score, reason)
	}
}

func TestScoreSingleBudgetFallback(t *testing.T) {
	req := baseRequest()
	req.BudgetFrom = nil
	req.BudgetTo = nil
	req.Budget = fptr(2500)

	prop := baseProperty()
	prop.MonthlyRent = 2900 // inside [2000, 3000]
	score, reason := Score(req, prop, &trust.Profile{Tier: trust.TierTrusted, ReviewCount: 5})
	if !strings.Contains(reason, "budget in range") {
		t.Fatalf("expected budget in range in %q", reason)
	}
	if !almostEqual(score, 86) {
		t.Fatalf("expected 86 got %v", score)
	}
}
