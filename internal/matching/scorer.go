package matching

import (
	"math"
	"strings"
	"time"

	"homeMatch/internal/models"
	"homeMatch/internal/trust"
)

// Sub-score weights, summing to 100.
const (
	weightLocation     = 35
	weightBudget       = 25
	weightType         = 15
	weightBedrooms     = 15
	weightAvailability = 10
)

const (
	// DefaultMinScore is the minimum composite score for a pair to be
	// persisted and notified as an actionable match.
	DefaultMinScore = 50

	// DefaultBudgetTolerance widens the budget range on both sides; rent
	// inside the widened band decays linearly instead of dropping to zero.
	DefaultBudgetTolerance = 0.20

	// DefaultAvailabilityGraceDays bounds how far past the move-in date a
	// property may become available and still be pre-selected.
	DefaultAvailabilityGraceDays = 30
)

// Flat penalties applied after the trust multiplier.
const (
	suspensionPenalty        = 15
	misrepresentationPenalty = 8
)

var tierMultipliers = map[trust.Tier]float64{
	trust.TierNew:       0.85,
	trust.TierReliable:  0.93,
	trust.TierTrusted:   1.0,
	trust.TierExcellent: 1.05,
}

// Score computes the composite compatibility of a request/property pair.
// The result is always inside [0,100]. tp is the counterparty trust
// profile; a nil profile means the trust classifier was unavailable and
// the score is computed with a neutral multiplier and no penalties.
//
// The reason string enumerates the contribution of every sub-score and is
// deterministic for identical inputs.
func Score(req models.RentalRequest, prop models.Property, tp *trust.Profile) (float64, string) {
	locScore, locNote := locationScore(req.Location, prop.City)
	if locScore < 0 {
		return 0, "invalid location"
	}
	budScore, budNote := budgetScore(req, prop.MonthlyRent)
	if budScore < 0 {
		return 0, "invalid budget"
	}
	typScore, typNote := typeScore(req.PropertyType, prop.PropertyType)
	bedScore, bedNote := bedroomsScore(req.Bedrooms, prop.Bedrooms)
	avScore, avNote := availabilityScore(req.MoveInDate, prop.AvailableFrom)

	raw := (locScore*weightLocation +
		budScore*weightBudget +
		typScore*weightType +
		bedScore*weightBedrooms +
		avScore*weightAvailability) / 100

	notes := []string{locNote, budNote, typNote, bedNote, avNote}

	final := raw
	if tp != nil {
		mult, ok := tierMultipliers[tp.Tier]
		if !ok {
			mult = 1.0
		}
		final = raw * mult
		notes = append(notes, "trust "+string(tp.Tier))
		if tp.IsSuspended {
			final -= suspensionPenalty
			notes = append(notes, "suspended member")
		}
		if tp.ReviewCount == 0 && tp.DeclaredRating >= 5.0 {
			final -= misrepresentationPenalty
			notes = append(notes, "unverified rating")
		}
	}

	return clamp(final), strings.Join(notes, ", ")
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func locationScore(requestLocation, propertyCity string) (float64, string) {
	reqLoc := NormalizeLocation(requestLocation)
	city := NormalizeLocation(propertyCity)
	if reqLoc == "" {
		return -1, ""
	}
	switch {
	case city == "":
		return 0, "location mismatch"
	case reqLoc == city:
		return 100, "location exact"
	case strings.Contains(reqLoc, city) || strings.Contains(city, reqLoc):
		return 60, "location partial"
	default:
		return 0, "location mismatch"
	}
}

// budgetScore is 100 inside the effective range, decays linearly to zero
// across the tolerance band and is zero beyond it. Moving rent strictly
// further from the range never increases the score.
func budgetScore(req models.RentalRequest, rent float64) (float64, string) {
	from, to, ok := req.BudgetRange(DefaultBudgetTolerance)
	if !ok {
		return -1, ""
	}
	if rent >= from && rent <= to {
		return 100, "budget in range"
	}
	if rent < from {
		low := from * (1 - DefaultBudgetTolerance)
		if rent <= low || from <= low {
			return 0, "budget out of range"
		}
		return 100 * (rent - low) / (from - low), "budget below range"
	}
	high := to * (1 + DefaultBudgetTolerance)
	if rent >= high || high <= to {
		return 0, "budget out of range"
	}
	return 100 * (high - rent) / (high - to), "budget above range"
}

func typeScore(requested *string, actual string) (float64, string) {
	if requested == nil || strings.TrimSpace(*requested) == "" {
		return 100, "type any"
	}
	if strings.EqualFold(strings.TrimSpace(*requested), strings.TrimSpace(actual)) {
		return 100, "type match"
	}
	return 0, "type mismatch"
}

func bedroomsScore(requested *int, actual int) (float64, string) {
	if requested == nil {
		return 100, "bedrooms any"
	}
	switch diff := *requested - actual; {
	case diff == 0:
		return 100, "bedrooms match"
	case diff == 1 || diff == -1:
		return 50, "bedrooms close"
	default:
		return 0, "bedrooms mismatch"
	}
}

func availabilityScore(moveIn, availableFrom time.Time) (float64, string) {
	late := availableFrom.Sub(moveIn)
	switch {
	case late <= 0:
		return 100, "available on time"
	case late <= 7*24*time.Hour:
		return 60, "available within a week"
	case late <= 30*24*time.Hour:
		return 30, "available within a month"
	default:
		return 0, "available too late"
	}
}
