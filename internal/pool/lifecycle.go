package pool

import (
	"context"
	"database/sql"

	"homeMatch/internal/models"
)

// The pool state machine: a request accepts matches only while active.
// Matched (offer accepted) and expired (move-in passed or TTL elapsed) are
// terminal for matching purposes.
var transitions = map[string]map[string]struct{}{
	models.PoolStatusActive: {
		models.PoolStatusMatched: {},
		models.PoolStatusExpired: {},
	},
	models.PoolStatusMatched: {},
	models.PoolStatusExpired: {},
}

// CanTransition returns whether a request may move from one pool status to
// another. Self-transitions are allowed (idempotent triggers).
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// Execer is the subset of database/sql used by Apply; satisfied by *sql.DB
// and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Apply moves a request to a new pool status with optimistic validation:
// the update is guarded by the expected current status, so two racing
// transitions resolve to a single winner. Returns ErrPoolTransition when
// the transition is not allowed and sql.ErrNoRows when another writer got
// there first.
func Apply(ctx context.Context, db Execer, requestID int, fromStatus, toStatus string) error {
	if !CanTransition(fromStatus, toStatus) {
		return models.ErrPoolTransition
	}
	if fromStatus == toStatus {
		return nil
	}
	res, err := db.ExecContext(ctx, `UPDATE rental_requests SET pool_status = ?, updated_at = NOW() WHERE id = ? AND pool_status = ?`, toStatus, requestID, fromStatus)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
