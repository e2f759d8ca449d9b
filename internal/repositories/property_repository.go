package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"homeMatch/internal/models"
)

type PropertyRepository struct {
	DB *sql.DB
}

func (r *PropertyRepository) GetPropertyByID(ctx context.Context, id int) (models.Property, error) {
	query := `
        SELECT id, counterparty_id, city, address, monthly_rent, property_type, bedrooms, available_from, status, availability, created_at, updated_at
        FROM properties
        WHERE id = ?
    `
	var p models.Property
	var updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.CounterpartyID, &p.City, &p.Address,
		&p.MonthlyRent, &p.PropertyType, &p.Bedrooms,
		&p.AvailableFrom, &p.Status, &p.Availability,
		&p.CreatedAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Property{}, models.ErrPropertyNotFound
		}
		return models.Property{}, err
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}
	return p, nil
}

// FindCandidateProperties is the index-friendly half of candidate
// selection: listed properties with rent inside the widened budget band
// and available on or before the grace deadline. City matching happens in
// the selector on normalized tokens.
func (r *PropertyRepository) FindCandidateProperties(ctx context.Context, rentFrom, rentTo float64, availableBy time.Time) ([]models.Property, error) {
	query := `
        SELECT id, counterparty_id, city, address, monthly_rent, property_type, bedrooms, available_from, status, availability, created_at, updated_at
        FROM properties
        WHERE availability = 1
          AND status = ?
          AND monthly_rent BETWEEN ? AND ?
          AND available_from <= ?
        ORDER BY id
    `
	rows, err := r.DB.QueryContext(ctx, query, models.PropertyStatusAvailable, rentFrom, rentTo, availableBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var p models.Property
		var updatedAt sql.NullTime
		if err := rows.Scan(
			&p.ID, &p.CounterpartyID, &p.City, &p.Address,
			&p.MonthlyRent, &p.PropertyType, &p.Bedrooms,
			&p.AvailableFrom, &p.Status, &p.Availability,
			&p.CreatedAt, &updatedAt,
		); err != nil {
			return nil, err
		}
		if updatedAt.Valid {
			p.UpdatedAt = &updatedAt.Time
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}
