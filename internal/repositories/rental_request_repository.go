package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"homeMatch/internal/models"
	"homeMatch/internal/pool"
)

type RentalRequestRepository struct {
	DB *sql.DB
}

// TransitionPoolStatus applies a pool lifecycle transition with optimistic
// validation against the expected current status.
func (r *RentalRequestRepository) TransitionPoolStatus(ctx context.Context, id int, from, to string) error {
	return pool.Apply(ctx, r.DB, id, from, to)
}

func (r *RentalRequestRepository) CreateRequest(ctx context.Context, req models.RentalRequest) (models.RentalRequest, error) {
	query := `
        INSERT INTO rental_requests (tenant_id, location, budget, budget_from, budget_to, property_type, bedrooms, move_in_date, pool_status, expires_at, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
    `
	if req.PoolStatus == "" {
		req.PoolStatus = models.PoolStatusActive
	}
	result, err := r.DB.ExecContext(ctx, query,
		req.TenantID, req.Location,
		nullFloat(req.Budget), nullFloat(req.BudgetFrom), nullFloat(req.BudgetTo),
		nullString(req.PropertyType), nullInt(req.Bedrooms),
		req.MoveInDate, req.PoolStatus, nullTime(req.ExpiresAt),
	)
	if err != nil {
		return models.RentalRequest{}, err
	}
	lastID, err := result.LastInsertId()
	if err != nil {
		return models.RentalRequest{}, err
	}
	req.ID = int(lastID)
	return req, nil
}

func (r *RentalRequestRepository) UpdateRequest(ctx context.Context, req models.RentalRequest) (models.RentalRequest, error) {
	query := `
        UPDATE rental_requests
        SET location = ?, budget = ?, budget_from = ?, budget_to = ?, property_type = ?, bedrooms = ?, move_in_date = ?, expires_at = ?, updated_at = NOW()
        WHERE id = ?
    `
	res, err := r.DB.ExecContext(ctx, query,
		req.Location,
		nullFloat(req.Budget), nullFloat(req.BudgetFrom), nullFloat(req.BudgetTo),
		nullString(req.PropertyType), nullInt(req.Bedrooms),
		req.MoveInDate, nullTime(req.ExpiresAt),
		req.ID,
	)
	if err != nil {
		return models.RentalRequest{}, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return models.RentalRequest{}, err
	}
	if rows == 0 {
		return models.RentalRequest{}, models.ErrRequestNotFound
	}
	return r.GetRequestByID(ctx, req.ID)
}

func (r *RentalRequestRepository) GetRequestByID(ctx context.Context, id int) (models.RentalRequest, error) {
	query := `
        SELECT id, tenant_id, location, budget, budget_from, budget_to, property_type, bedrooms, move_in_date, pool_status, expires_at, created_at, updated_at
        FROM rental_requests
        WHERE id = ?
    `
	req, err := scanRequest(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RentalRequest{}, models.ErrRequestNotFound
		}
		return models.RentalRequest{}, err
	}
	return req, nil
}

func (r *RentalRequestRepository) DeleteRequest(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM rental_requests WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrRequestNotFound
	}
	return nil
}

// ListActive returns every request currently in the matching pool; used by
// the property-change fanout to find requests worth a rescan.
func (r *RentalRequestRepository) ListActive(ctx context.Context) ([]models.RentalRequest, error) {
	query := `
        SELECT id, tenant_id, location, budget, budget_from, budget_to, property_type, bedrooms, move_in_date, pool_status, expires_at, created_at, updated_at
        FROM rental_requests
        WHERE pool_status = ?
        ORDER BY id
    `
	return r.list(ctx, query, models.PoolStatusActive)
}

// ListExpiredDue returns active requests whose TTL elapsed or move-in date
// passed; the sweep transitions them out of the pool.
func (r *RentalRequestRepository) ListExpiredDue(ctx context.Context, now time.Time) ([]models.RentalRequest, error) {
	query := `
        SELECT id, tenant_id, location, budget, budget_from, budget_to, property_type, bedrooms, move_in_date, pool_status, expires_at, created_at, updated_at
        FROM rental_requests
        WHERE pool_status = ?
          AND ((expires_at IS NOT NULL AND expires_at <= ?) OR move_in_date < ?)
        ORDER BY id
    `
	return r.list(ctx, query, models.PoolStatusActive, now, now)
}

func (r *RentalRequestRepository) list(ctx context.Context, query string, args ...any) ([]models.RentalRequest, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.RentalRequest
	for rows.Next() {
		req, err := scanRequestRows(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func scanRequest(row *sql.Row) (models.RentalRequest, error) {
	var req models.RentalRequest
	var budget, budgetFrom, budgetTo sql.NullFloat64
	var propertyType sql.NullString
	var bedrooms sql.NullInt64
	var expiresAt, updatedAt sql.NullTime
	err := row.Scan(
		&req.ID, &req.TenantID, &req.Location,
		&budget, &budgetFrom, &budgetTo,
		&propertyType, &bedrooms,
		&req.MoveInDate, &req.PoolStatus,
		&expiresAt, &req.CreatedAt, &updatedAt,
	)
	if err != nil {
		return models.RentalRequest{}, err
	}
	fillRequestNullables(&req, budget, budgetFrom, budgetTo, propertyType, bedrooms, expiresAt, updatedAt)
	return req, nil
}

func scanRequestRows(rows *sql.Rows) (models.RentalRequest, error) {
	var req models.RentalRequest
	var budget, budgetFrom, budgetTo sql.NullFloat64
	var propertyType sql.NullString
	var bedrooms sql.NullInt64
	var expiresAt, updatedAt sql.NullTime
	err := rows.Scan(
		&req.ID, &req.TenantID, &req.Location,
		&budget, &budgetFrom, &budgetTo,
		&propertyType, &bedrooms,
		&req.MoveInDate, &req.PoolStatus,
		&expiresAt, &req.CreatedAt, &updatedAt,
	)
	if err != nil {
		return models.RentalRequest{}, err
	}
	fillRequestNullables(&req, budget, budgetFrom, budgetTo, propertyType, bedrooms, expiresAt, updatedAt)
	return req, nil
}

func fillRequestNullables(req *models.RentalRequest, budget, budgetFrom, budgetTo sql.NullFloat64, propertyType sql.NullString, bedrooms sql.NullInt64, expiresAt, updatedAt sql.NullTime) {
	if budget.Valid {
		req.Budget = &budget.Float64
	}
	if budgetFrom.Valid {
		req.BudgetFrom = &budgetFrom.Float64
	}
	if budgetTo.Valid {
		req.BudgetTo = &budgetTo.Float64
	}
	if propertyType.Valid {
		req.PropertyType = &propertyType.String
	}
	if bedrooms.Valid {
		b := int(bedrooms.Int64)
		req.Bedrooms = &b
	}
	if expiresAt.Valid {
		req.ExpiresAt = &expiresAt.Time
	}
	if updatedAt.Valid {
		req.UpdatedAt = &updatedAt.Time
	}
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return *v
}
