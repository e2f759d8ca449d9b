package trust

import (
	"testing"
	"time"

	"homeMatch/internal/models"
)

func member(rating float64, reviews int, activeDaysAgo int, suspended bool) models.CounterpartyMember {
	last := time.Now().AddDate(0, 0, -activeDaysAgo)
	return models.CounterpartyMember{
		AvgRating:    rating,
		ReviewsCount: reviews,
		LastActiveAt: &last,
		Suspended:    suspended,
	}
}

func TestMemberTiers(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name   string
		member models.CounterpartyMember
		want   Tier
	}{
		{"zero reviews", member(5.0, 0, 1, false), TierNew},
		{"excellent", member(4.9, 25, 5, false), TierExcellent},
		{"excellent rating but stale", member(4.9, 25, 90, false), TierTrusted},
		{"trusted", member(4.6, 12, 90, false), TierTrusted},
		{"reliable", member(4.2, 5, 10, false), TierReliable},
		{"low rating", member(3.1, 30, 1, false), TierNew},
		{"few reviews", member(4.9, 2, 1, false), TierNew},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := memberTier(tc.member, now)
			if got != tc.want {
				t.Fatalf("expected %s got %s", tc.want, got)
			}
		})
	}
}

func TestClassifyWorstMemberBounds(t *testing.T) {
	cp := models.Counterparty{
		Kind: models.CounterpartyOrganization,
		Members: []models.CounterpartyMember{
			member(4.9, 25, 5, false),
			member(4.2, 5, 10, false),
		},
	}
	p := Classify(cp, time.Now())
	if p.Tier != TierReliable {
		t.Fatalf("expected worst member tier reliable, got %s", p.Tier)
	}
	if p.ReviewCount != 30 {
		t.Fatalf("expected aggregated review count 30, got %d", p.ReviewCount)
	}
}

func TestClassifyResponsibleMembersOnly(t *testing.T) {
	bad := member(3.0, 4, 5, true)
	good := member(4.9, 25, 5, false)
	good.Responsible = true

	cp := models.Counterparty{
		Kind:    models.CounterpartyOrganization,
		Members: []models.CounterpartyMember{bad, good},
	}
	p := Classify(cp, time.Now())
	if p.Tier != TierExcellent {
		t.Fatalf("expected excellent from responsible member, got %s", p.Tier)
	}
	if p.IsSuspended {
		t.Fatalf("suspension of a non-responsible member should not mark the counterparty")
	}
}

func TestClassifySuspension(t *testing.T) {
	cp := models.Counterparty{
		Kind: models.CounterpartyLandlord,
		Members: []models.CounterpartyMember{
			member(4.9, 25, 5, true),
		},
	}
	p := Classify(cp, time.Now())
	if !p.IsSuspended {
		t.Fatalf("expected suspended counterparty")
	}
}

func TestClassifyDeclaredRating(t *testing.T) {
	m := member(0, 0, 1, false)
	m.DeclaredRating = 5.0
	cp := models.Counterparty{Kind: models.CounterpartyLandlord, Members: []models.CounterpartyMember{m}}
	p := Classify(cp, time.Now())
	if p.Tier != TierNew || p.ReviewCount != 0 || p.DeclaredRating != 5.0 {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestClassifyNoMembers(t *testing.T) {
	p := Classify(models.Counterparty{Kind: models.CounterpartyLandlord}, time.Now())
	if p.Tier != TierNew {
		t.Fatalf("expected new tier for empty counterparty, got %s", p.Tier)
	}
}
