package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
)

// DriverRepository encapsulates driver persistence.
type DriverRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Driver, error)
	SetLastWarning(ctx context.Context, id string, at time.Time) error
	ClearLastWarning(ctx context.Context, id string) error
	SetCurrentSuspension(ctx context.Context, id, actionID string) error
	// ListWarningExpired returns ids of drivers whose last warning is
	// still set but whose most recent evaluation period has elapsed.
	ListWarningExpired(ctx context.Context, now time.Time) ([]string, error)
}

type driverRepository struct {
	pool *pgxpool.Pool
}

// NewDriverRepository instantiates repository.
func NewDriverRepository(pool *pgxpool.Pool) DriverRepository {
	return &driverRepository{pool: pool}
}

func (r *driverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	const query = `
        SELECT id, account_id, is_verified, current_suspension_id, last_warning_at, created_at, updated_at
        FROM drivers WHERE id=$1`
	var driver domain.Driver
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&driver.ID,
		&driver.AccountID,
		&driver.IsVerified,
		&driver.CurrentSuspensionID,
		&driver.LastWarningAt,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &driver, nil
}

func (r *driverRepository) SetLastWarning(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE drivers SET last_warning_at=$1, updated_at=NOW() WHERE id=$2`
	return r.exec(ctx, query, at, id)
}

func (r *driverRepository) ClearLastWarning(ctx context.Context, id string) error {
	const query = `UPDATE drivers SET last_warning_at=NULL, updated_at=NOW() WHERE id=$1`
	return r.exec(ctx, query, id)
}

func (r *driverRepository) SetCurrentSuspension(ctx context.Context, id, actionID string) error {
	const query = `UPDATE drivers SET current_suspension_id=$1, updated_at=NOW() WHERE id=$2`
	return r.exec(ctx, query, actionID, id)
}

func (r *driverRepository) ListWarningExpired(ctx context.Context, now time.Time) ([]string, error) {
	const query = `
        SELECT d.id FROM drivers d
        WHERE d.last_warning_at IS NOT NULL
          AND NOT EXISTS (
              SELECT 1 FROM disciplinary_actions a
              WHERE a.driver_id = d.id AND a.period_end > $1
          )`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *driverRepository) exec(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
