package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"homeMatch/internal/models"
)

type MatchRepository struct {
	DB *sql.DB
}

// UpsertMatch writes the single authoritative row for the
// (request, counterparty) pair. The unique key on that pair turns a
// concurrent duplicate insert into an update, so two racing triggers
// resolve last-writer-wins without a duplicate ever existing. Returns the
// stored match and the previous score when the pair already existed.
func (r *MatchRepository) UpsertMatch(ctx context.Context, match models.Match) (models.Match, *float64, error) {
	var prevScore *float64
	var prev float64
	err := r.DB.QueryRowContext(ctx,
		`SELECT score FROM matches WHERE request_id = ? AND counterparty_id = ?`,
		match.RequestID, match.CounterpartyID,
	).Scan(&prev)
	switch {
	case err == nil:
		prevScore = &prev
	case errors.Is(err, sql.ErrNoRows):
	default:
		return models.Match{}, nil, err
	}

	query := `
        INSERT INTO matches (request_id, counterparty_id, property_id, score, reason, is_viewed, is_notified, created_at)
        VALUES (?, ?, ?, ?, ?, 0, 0, NOW())
        ON DUPLICATE KEY UPDATE
            property_id = VALUES(property_id),
            score = VALUES(score),
            reason = VALUES(reason),
            updated_at = NOW()
    `
	if _, err := r.DB.ExecContext(ctx, query,
		match.RequestID, match.CounterpartyID, match.PropertyID, match.Score, match.Reason,
	); err != nil {
		return models.Match{}, nil, err
	}

	stored, err := r.GetMatchByPair(ctx, match.RequestID, match.CounterpartyID)
	if err != nil {
		return models.Match{}, nil, err
	}
	return stored, prevScore, nil
}

func (r *MatchRepository) GetMatchByPair(ctx context.Context, requestID, counterpartyID int) (models.Match, error) {
	query := `
        SELECT id, request_id, counterparty_id, property_id, score, reason, is_viewed, is_notified, created_at, updated_at
        FROM matches
        WHERE request_id = ? AND counterparty_id = ?
    `
	return r.scanOne(r.DB.QueryRowContext(ctx, query, requestID, counterpartyID))
}

func (r *MatchRepository) GetMatchByID(ctx context.Context, id int) (models.Match, error) {
	query := `
        SELECT id, request_id, counterparty_id, property_id, score, reason, is_viewed, is_notified, created_at, updated_at
        FROM matches
        WHERE id = ?
    `
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// GetMatchesForCounterparty returns the landlord-facing feed: best score
// first, oldest first on ties.
func (r *MatchRepository) GetMatchesForCounterparty(ctx context.Context, counterpartyID int) ([]models.Match, error) {
	query := `
        SELECT id, request_id, counterparty_id, property_id, score, reason, is_viewed, is_notified, created_at, updated_at
        FROM matches
        WHERE counterparty_id = ?
        ORDER BY score DESC, created_at ASC
    `
	return r.scanMany(ctx, query, counterpartyID)
}

func (r *MatchRepository) GetMatchesForRequest(ctx context.Context, requestID int) ([]models.Match, error) {
	query := `
        SELECT id, request_id, counterparty_id, property_id, score, reason, is_viewed, is_notified, created_at, updated_at
        FROM matches
        WHERE request_id = ?
        ORDER BY score DESC, created_at ASC
    `
	return r.scanMany(ctx, query, requestID)
}

// DeleteForRequest clears every match of a request; used when the request
// leaves the pool or is deleted.
func (r *MatchRepository) DeleteForRequest(ctx context.Context, requestID int) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM matches WHERE request_id = ?`, requestID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteStale removes matches of the request whose counterparty is not in
// the kept set; called after a rescan so pairs that fell below the
// threshold disappear.
func (r *MatchRepository) DeleteStale(ctx context.Context, requestID int, keepCounterpartyIDs []int) (int64, error) {
	if len(keepCounterpartyIDs) == 0 {
		return r.DeleteForRequest(ctx, requestID)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keepCounterpartyIDs)), ",")
	query := fmt.Sprintf(`DELETE FROM matches WHERE request_id = ? AND counterparty_id NOT IN (%s)`, placeholders)

	args := make([]any, 0, len(keepCounterpartyIDs)+1)
	args = append(args, requestID)
	for _, id := range keepCounterpartyIDs {
		args = append(args, id)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *MatchRepository) MarkViewed(ctx context.Context, matchID int) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE matches SET is_viewed = 1, updated_at = NOW() WHERE id = ?`, matchID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrMatchNotFound
	}
	return nil
}

func (r *MatchRepository) MarkNotified(ctx context.Context, matchID int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE matches SET is_notified = 1 WHERE id = ?`, matchID)
	return err
}

func (r *MatchRepository) scanOne(row *sql.Row) (models.Match, error) {
	var m models.Match
	var updatedAt sql.NullTime
	err := row.Scan(
		&m.ID, &m.RequestID, &m.CounterpartyID, &m.PropertyID,
		&m.Score, &m.Reason, &m.IsViewed, &m.IsNotified,
		&m.CreatedAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Match{}, models.ErrMatchNotFound
		}
		return models.Match{}, err
	}
	if updatedAt.Valid {
		m.UpdatedAt = &updatedAt.Time
	}
	return m, nil
}

func (r *MatchRepository) scanMany(ctx context.Context, query string, args ...any) ([]models.Match, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		var m models.Match
		var updatedAt sql.NullTime
		if err := rows.Scan(
			&m.ID, &m.RequestID, &m.CounterpartyID, &m.PropertyID,
			&m.Score, &m.Reason, &m.IsViewed, &m.IsNotified,
			&m.CreatedAt, &updatedAt,
		); err != nil {
			return nil, err
		}
		if updatedAt.Valid {
			m.UpdatedAt = &updatedAt.Time
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
