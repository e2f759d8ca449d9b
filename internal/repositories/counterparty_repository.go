package repositories

import (
	"context"
	"database/sql"
	"errors"

	"homeMatch/internal/models"
)

type CounterpartyRepository struct {
	DB *sql.DB
}

func (r *CounterpartyRepository) GetCounterpartyByID(ctx context.Context, id int) (models.Counterparty, error) {
	query := `
        SELECT id, name, kind, created_at
        FROM counterparties
        WHERE id = ?
    `
	var cp models.Counterparty
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&cp.ID, &cp.Name, &cp.Kind, &cp.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Counterparty{}, models.ErrCounterpartyNotFound
		}
		return models.Counterparty{}, err
	}

	members, err := r.getMembers(ctx, id)
	if err != nil {
		return models.Counterparty{}, err
	}
	cp.Members = members
	return cp, nil
}

func (r *CounterpartyRepository) getMembers(ctx context.Context, counterpartyID int) ([]models.CounterpartyMember, error) {
	query := `
        SELECT id, counterparty_id, avg_rating, declared_rating, reviews_count, last_active_at, suspended, responsible
        FROM counterparty_members
        WHERE counterparty_id = ?
        ORDER BY id
    `
	rows, err := r.DB.QueryContext(ctx, query, counterpartyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.CounterpartyMember
	for rows.Next() {
		var m models.CounterpartyMember
		var lastActive sql.NullTime
		if err := rows.Scan(
			&m.ID, &m.CounterpartyID, &m.AvgRating, &m.DeclaredRating,
			&m.ReviewsCount, &lastActive, &m.Suspended, &m.Responsible,
		); err != nil {
			return nil, err
		}
		if lastActive.Valid {
			m.LastActiveAt = &lastActive.Time
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// DeviceTokens returns the FCM tokens registered by the counterparty's
// members.
func (r *CounterpartyRepository) DeviceTokens(ctx context.Context, counterpartyID int) ([]string, error) {
	query := `
        SELECT t.token
        FROM device_tokens t
        JOIN counterparty_members m ON m.id = t.member_id
        WHERE m.counterparty_id = ?
    `
	rows, err := r.DB.QueryContext(ctx, query, counterpartyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}
