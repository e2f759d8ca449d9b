package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"homeMatch/internal/matching"
	"homeMatch/internal/models"
	"homeMatch/internal/notify"
	"homeMatch/internal/trust"
)

// Logger is the minimal logging interface required by the engine.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type RequestStore interface {
	CreateRequest(ctx context.Context, req models.RentalRequest) (models.RentalRequest, error)
	UpdateRequest(ctx context.Context, req models.RentalRequest) (models.RentalRequest, error)
	GetRequestByID(ctx context.Context, id int) (models.RentalRequest, error)
	DeleteRequest(ctx context.Context, id int) error
	ListActive(ctx context.Context) ([]models.RentalRequest, error)
	ListExpiredDue(ctx context.Context, now time.Time) ([]models.RentalRequest, error)
	TransitionPoolStatus(ctx context.Context, id int, from, to string) error
}

type MatchStore interface {
	UpsertMatch(ctx context.Context, match models.Match) (models.Match, *float64, error)
	GetMatchesForCounterparty(ctx context.Context, counterpartyID int) ([]models.Match, error)
	GetMatchesForRequest(ctx context.Context, requestID int) ([]models.Match, error)
	DeleteForRequest(ctx context.Context, requestID int) (int64, error)
	DeleteStale(ctx context.Context, requestID int, keepCounterpartyIDs []int) (int64, error)
	MarkViewed(ctx context.Context, matchID int) error
	MarkNotified(ctx context.Context, matchID int) error
}

type PropertyStore interface {
	GetPropertyByID(ctx context.Context, id int) (models.Property, error)
}

type CandidateSelector interface {
	SelectCandidates(ctx context.Context, req models.RentalRequest) ([]matching.Candidate, error)
}

// RescanScheduler queues per-request recompute jobs.
type RescanScheduler interface {
	Enqueue(ctx context.Context, requestID int) error
}

// MatchConfig tunes thresholds of the engine.
type MatchConfig struct {
	MinScore         float64
	ImprovementDelta float64
}

// MatchService orchestrates candidate selection, scoring, persistence and
// notification. It is the only writer of the match store.
type MatchService struct {
	Requests   RequestStore
	Properties PropertyStore
	Matches    MatchStore
	Selector   CandidateSelector
	Trust      trust.Classifier
	TrustCache *trust.Cache
	Notifier   notify.Notifier
	Queue      RescanScheduler
	Logger     Logger
	Cfg        MatchConfig
}

func NewMatchService(requests RequestStore, properties PropertyStore, matches MatchStore, selector CandidateSelector, classifier trust.Classifier, notifier notify.Notifier, queue RescanScheduler, logger Logger, cfg MatchConfig) *MatchService {
	if cfg.MinScore <= 0 {
		cfg.MinScore = matching.DefaultMinScore
	}
	if cfg.ImprovementDelta <= 0 {
		cfg.ImprovementDelta = 10
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &MatchService{
		Requests:   requests,
		Properties: properties,
		Matches:    matches,
		Selector:   selector,
		Trust:      classifier,
		Notifier:   notifier,
		Queue:      queue,
		Logger:     logger,
		Cfg:        cfg,
	}
}

// AddToPool scores a request against current candidates right after
// creation or edit and returns the number of persisted matches.
func (s *MatchService) AddToPool(ctx context.Context, requestID int) (int, error) {
	req, err := s.Requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return 0, err
	}
	if req.PoolStatus != models.PoolStatusActive {
		return 0, models.ErrRequestNotInPool
	}
	return s.rescan(ctx, req)
}

// CreateRequest persists a new rental request and matches it synchronously.
func (s *MatchService) CreateRequest(ctx context.Context, req models.RentalRequest) (models.RentalRequest, int, error) {
	req.PoolStatus = models.PoolStatusActive
	created, err := s.Requests.CreateRequest(ctx, req)
	if err != nil {
		return models.RentalRequest{}, 0, err
	}
	count, err := s.rescan(ctx, created)
	if err != nil {
		return created, 0, err
	}
	return created, count, nil
}

// UpdateRequest persists an edit and re-matches while the request is still
// in the pool.
func (s *MatchService) UpdateRequest(ctx context.Context, req models.RentalRequest) (models.RentalRequest, int, error) {
	updated, err := s.Requests.UpdateRequest(ctx, req)
	if err != nil {
		return models.RentalRequest{}, 0, err
	}
	if updated.PoolStatus != models.PoolStatusActive {
		return updated, 0, nil
	}
	count, err := s.rescan(ctx, updated)
	if err != nil {
		return updated, 0, err
	}
	return updated, count, nil
}

// DeleteRequest removes a request and its matches (explicit tenant
// deletion).
func (s *MatchService) DeleteRequest(ctx context.Context, requestID int) error {
	if _, err := s.Matches.DeleteForRequest(ctx, requestID); err != nil {
		return err
	}
	return s.Requests.DeleteRequest(ctx, requestID)
}

// RescanRequest recomputes all matches of one request; the per-request
// unit of the background queue.
func (s *MatchService) RescanRequest(ctx context.Context, requestID int) (int, error) {
	req, err := s.Requests.GetRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, models.ErrRequestNotFound) {
			// Deleted while queued; nothing to recompute.
			return 0, nil
		}
		return 0, err
	}
	if req.PoolStatus != models.PoolStatusActive {
		if _, err := s.Matches.DeleteForRequest(ctx, requestID); err != nil {
			return 0, err
		}
		return 0, nil
	}
	return s.rescan(ctx, req)
}

// rescan evaluates every candidate pair, keeps the best property per
// counterparty, upserts pairs at or above the threshold and prunes the
// rest. Failures are isolated per pair; only context cancellation aborts
// the run.
func (s *MatchService) rescan(ctx context.Context, req models.RentalRequest) (int, error) {
	candidates, err := s.Selector.SelectCandidates(ctx, req)
	if err != nil {
		return 0, err
	}

	type scoredPair struct {
		property models.Property
		score    float64
		reason   string
	}
	best := make(map[int]scoredPair)
	var order []int
	profiles := make(map[int]*trust.Profile)

	for _, cand := range candidates {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		tp, seen := profiles[cand.CounterpartyID]
		if !seen {
			tp = s.trustProfile(ctx, cand.CounterpartyID)
			profiles[cand.CounterpartyID] = tp
		}
		score, reason := matching.Score(req, cand.Property, tp)
		cur, ok := best[cand.CounterpartyID]
		if !ok {
			order = append(order, cand.CounterpartyID)
		}
		if !ok || score > cur.score {
			best[cand.CounterpartyID] = scoredPair{property: cand.Property, score: score, reason: reason}
		}
	}

	kept := make([]int, 0, len(order))
	count := 0
	for _, cpID := range order {
		if ctx.Err() != nil {
			return count, ctx.Err()
		}
		b := best[cpID]
		if b.score < s.Cfg.MinScore {
			s.Logger.Infof("request %d x counterparty %d: score %.1f below threshold (%s)", req.ID, cpID, b.score, b.reason)
			continue
		}

		stored, prevScore, err := s.Matches.UpsertMatch(ctx, models.Match{
			RequestID:      req.ID,
			CounterpartyID: cpID,
			PropertyID:     b.property.ID,
			Score:          b.score,
			Reason:         b.reason,
		})
		if err != nil {
			s.Logger.Errorf("request %d x counterparty %d: upsert failed: %v", req.ID, cpID, err)
			continue
		}
		kept = append(kept, cpID)
		count++

		created := prevScore == nil
		improved := prevScore != nil && stored.Score-*prevScore >= s.Cfg.ImprovementDelta
		if created || improved {
			s.Notifier.NotifyMatch(ctx, notify.MatchEvent{
				MatchID:        stored.ID,
				RequestID:      stored.RequestID,
				CounterpartyID: stored.CounterpartyID,
				Score:          stored.Score,
				Reason:         stored.Reason,
				Improved:       improved,
			})
			if err := s.Matches.MarkNotified(ctx, stored.ID); err != nil {
				s.Logger.Errorf("match %d: mark notified failed: %v", stored.ID, err)
			}
		}
	}

	if _, err := s.Matches.DeleteStale(ctx, req.ID, kept); err != nil {
		s.Logger.Errorf("request %d: prune stale matches failed: %v", req.ID, err)
	}
	return count, nil
}

// trustProfile resolves the counterparty trust profile, degrading to a
// neutral profile (nil) when the classifier is unavailable. The scoring
// run never fails on a trust outage.
func (s *MatchService) trustProfile(ctx context.Context, counterpartyID int) *trust.Profile {
	p, err := s.Trust.GetTrustTier(ctx, counterpartyID)
	if err != nil {
		s.Logger.Errorf("trust classifier degraded for counterparty %d: %v", counterpartyID, err)
		return nil
	}
	return &p
}

// HandleOfferAccepted moves the request out of the pool after the offer
// workflow reports acceptance, clearing its matches.
func (s *MatchService) HandleOfferAccepted(ctx context.Context, requestID int) error {
	return s.leavePool(ctx, requestID, models.PoolStatusMatched)
}

// ExpireDue sweeps active requests past their move-in date or TTL. The
// sweep is interruptible: already-processed requests stay correct and the
// remainder is picked up by the next run.
func (s *MatchService) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.Requests.ListExpiredDue(ctx, now)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, req := range due {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
		if err := s.leavePool(ctx, req.ID, models.PoolStatusExpired); err != nil {
			s.Logger.Errorf("expiry sweep: request %d: %v", req.ID, err)
			continue
		}
		expired++
	}
	return expired, nil
}

func (s *MatchService) leavePool(ctx context.Context, requestID int, toStatus string) error {
	req, err := s.Requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if err := s.Requests.TransitionPoolStatus(ctx, req.ID, req.PoolStatus, toStatus); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost the race against another transition; matches are
			// cleared by the winner.
			return nil
		}
		return err
	}
	if _, err := s.Matches.DeleteForRequest(ctx, requestID); err != nil {
		return err
	}
	return nil
}

// HandlePropertyChanged enqueues a scoped rescan for every active request
// whose location is compatible with the property's city. Never a
// full-table rescan: the batch is bounded to the pool and handled
// asynchronously by the queue worker.
func (s *MatchService) HandlePropertyChanged(ctx context.Context, propertyID int) (int, error) {
	prop, err := s.Properties.GetPropertyByID(ctx, propertyID)
	if err != nil {
		return 0, err
	}
	active, err := s.Requests.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	queued := 0
	for _, req := range active {
		if !matching.LocationsCompatible(req.Location, prop.City) {
			continue
		}
		if err := s.Queue.Enqueue(ctx, req.ID); err != nil {
			s.Logger.Errorf("property %d: enqueue rescan for request %d failed: %v", propertyID, req.ID, err)
			continue
		}
		queued++
	}
	return queued, nil
}

// HandleTrustChanged invalidates the cached tier and rescans the requests
// currently matched with the counterparty.
func (s *MatchService) HandleTrustChanged(ctx context.Context, counterpartyID int) (int, error) {
	if s.TrustCache != nil {
		s.TrustCache.Invalidate(ctx, counterpartyID)
	}
	matches, err := s.Matches.GetMatchesForCounterparty(ctx, counterpartyID)
	if err != nil {
		return 0, err
	}
	queued := 0
	for _, m := range matches {
		if err := s.Queue.Enqueue(ctx, m.RequestID); err != nil {
			s.Logger.Errorf("trust change: enqueue rescan for request %d failed: %v", m.RequestID, err)
			continue
		}
		queued++
	}
	return queued, nil
}

func (s *MatchService) GetMatchesForCounterparty(ctx context.Context, counterpartyID int) ([]models.Match, error) {
	return s.Matches.GetMatchesForCounterparty(ctx, counterpartyID)
}

func (s *MatchService) GetMatchesForRequest(ctx context.Context, requestID int) ([]models.Match, error) {
	return s.Matches.GetMatchesForRequest(ctx, requestID)
}

func (s *MatchService) MarkViewed(ctx context.Context, matchID int) error {
	return s.Matches.MarkViewed(ctx, matchID)
}
