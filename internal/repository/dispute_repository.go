package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
)

// DisputeRepository encapsulates dispute persistence. The disciplinary
// engine only ever counts disputes; it never mutates them.
type DisputeRepository interface {
	Create(ctx context.Context, dispute *domain.Dispute) error
	CountForDriverSince(ctx context.Context, driverID string, since time.Time) (int, error)
	ListByRaiser(ctx context.Context, raisedByID string, limit, offset int) ([]domain.Dispute, error)
}

type disputeRepository struct {
	pool *pgxpool.Pool
}

// NewDisputeRepository instantiates repository.
func NewDisputeRepository(pool *pgxpool.Pool) DisputeRepository {
	return &disputeRepository{pool: pool}
}

func (r *disputeRepository) Create(ctx context.Context, dispute *domain.Dispute) error {
	const query = `
        INSERT INTO disputes (booking_id, driver_id, raised_by_id, subject, description, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		dispute.BookingID,
		dispute.DriverID,
		dispute.RaisedByID,
		dispute.Subject,
		dispute.Description,
		dispute.Status,
	).Scan(&dispute.ID, &dispute.CreatedAt, &dispute.UpdatedAt)
}

func (r *disputeRepository) CountForDriverSince(ctx context.Context, driverID string, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM disputes WHERE driver_id=$1 AND created_at >= $2`
	var count int
	if err := r.pool.QueryRow(ctx, query, driverID, since).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *disputeRepository) ListByRaiser(ctx context.Context, raisedByID string, limit, offset int) ([]domain.Dispute, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, booking_id, driver_id, raised_by_id, subject, description, status, created_at, updated_at
        FROM disputes WHERE raised_by_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, raisedByID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Dispute
	for rows.Next() {
		var dispute domain.Dispute
		if err := rows.Scan(
			&dispute.ID,
			&dispute.BookingID,
			&dispute.DriverID,
			&dispute.RaisedByID,
			&dispute.Subject,
			&dispute.Description,
			&dispute.Status,
			&dispute.CreatedAt,
			&dispute.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, dispute)
	}
	return result, rows.Err()
}
