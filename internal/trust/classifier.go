package trust

import (
	"context"
	"time"

	"homeMatch/internal/models"
)

// Tier is the coarse trust classification of a counterparty.
type Tier string

const (
	TierNew       Tier = "new"
	TierReliable  Tier = "reliable"
	TierTrusted   Tier = "trusted"
	TierExcellent Tier = "excellent"
)

var tierRank = map[Tier]int{
	TierNew:       0,
	TierReliable:  1,
	TierTrusted:   2,
	TierExcellent: 3,
}

// Profile is the classifier output consumed by the scorer.
type Profile struct {
	Tier           Tier    `json:"tier"`
	IsSuspended    bool    `json:"is_suspended"`
	ReviewCount    int     `json:"review_count"`
	DeclaredRating float64 `json:"declared_rating"`
}

// Classifier resolves the trust profile of a counterparty. Implementations
// may fail (external dependency); callers must degrade gracefully.
type Classifier interface {
	GetTrustTier(ctx context.Context, counterpartyID int) (Profile, error)
}

const activityWindow = 30 * 24 * time.Hour

// memberTier classifies a single member from rating history, review count
// and recency of activity.
func memberTier(m models.CounterpartyMember, now time.Time) Tier {
	if m.ReviewsCount == 0 {
		return TierNew
	}
	recentlyActive := m.LastActiveAt != nil && now.Sub(*m.LastActiveAt) <= activityWindow
	switch {
	case m.AvgRating >= 4.8 && m.ReviewsCount >= 20 && recentlyActive:
		return TierExcellent
	case m.AvgRating >= 4.5 && m.ReviewsCount >= 10:
		return TierTrusted
	case m.AvgRating >= 4.0 && m.ReviewsCount >= 3:
		return TierReliable
	default:
		return TierNew
	}
}

// Classify aggregates member profiles into a counterparty trust profile.
// Responsible members bound the result: the counterparty tier is the worst
// tier among them and a single suspended responsible member marks the whole
// counterparty suspended. When no member is flagged responsible, all
// members count.
func Classify(cp models.Counterparty, now time.Time) Profile {
	members := responsibleMembers(cp)
	if len(members) == 0 {
		return Profile{Tier: TierNew}
	}

	p := Profile{Tier: TierExcellent}
	for _, m := range members {
		if t := memberTier(m, now); tierRank[t] < tierRank[p.Tier] {
			p.Tier = t
		}
		if m.Suspended {
			p.IsSuspended = true
		}
		p.ReviewCount += m.ReviewsCount
		if m.DeclaredRating > p.DeclaredRating {
			p.DeclaredRating = m.DeclaredRating
		}
	}
	return p
}

func responsibleMembers(cp models.Counterparty) []models.CounterpartyMember {
	var out []models.CounterpartyMember
	for _, m := range cp.Members {
		if m.Responsible {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return cp.Members
	}
	return out
}

// CounterpartySource supplies counterparties with their members.
type CounterpartySource interface {
	GetCounterpartyByID(ctx context.Context, id int) (models.Counterparty, error)
}

// Service is the default repository-backed classifier with an optional
// Redis-backed cache in front of the member lookup.
type Service struct {
	Source CounterpartySource
	Cache  *Cache
}

func (s *Service) GetTrustTier(ctx context.Context, counterpartyID int) (Profile, error) {
	if s.Cache != nil {
		if p, ok := s.Cache.Get(ctx, counterpartyID); ok {
			return p, nil
		}
	}
	cp, err := s.Source.GetCounterpartyByID(ctx, counterpartyID)
	if err != nil {
		return Profile{}, err
	}
	p := Classify(cp, time.Now())
	if s.Cache != nil {
		s.Cache.Set(ctx, counterpartyID, p)
	}
	return p, nil
}
