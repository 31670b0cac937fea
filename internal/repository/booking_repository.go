package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
)

// BookingRepository encapsulates booking persistence. All reads join
// through listings so Booking.DriverID is always populated.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	// FindInProgressByDriver answers the active-trip question: is any
	// booking for a listing owned by the driver currently IN_PROGRESS.
	FindInProgressByDriver(ctx context.Context, driverID string) (*domain.Booking, error)
	// SetStatusIf transitions id from one status to another; reports
	// whether the row matched.
	SetStatusIf(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error)
	// CancelExpiredHolds cancels PENDING bookings whose hold lapsed and
	// returns the cancelled rows.
	CancelExpiredHolds(ctx context.Context, now time.Time) ([]domain.Booking, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository instantiates repository.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingSelect = `
    SELECT b.id, b.listing_id, l.driver_id, b.renter_id, b.status,
           b.start_date, b.end_date, b.hold_expires_at, b.created_at, b.updated_at
    FROM bookings b JOIN listings l ON l.id = b.listing_id`

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	const query = bookingSelect + ` WHERE b.id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *bookingRepository) FindInProgressByDriver(ctx context.Context, driverID string) (*domain.Booking, error) {
	const query = bookingSelect + ` WHERE l.driver_id=$1 AND b.status='IN_PROGRESS' LIMIT 1`
	booking, err := r.fetchSingle(ctx, query, driverID)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return booking, err
}

func (r *bookingRepository) SetStatusIf(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	const query = `UPDATE bookings SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
	cmd, err := r.pool.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *bookingRepository) CancelExpiredHolds(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	const query = `
        WITH cancelled AS (
            UPDATE bookings SET status='CANCELLED', updated_at=NOW()
            WHERE status='PENDING' AND hold_expires_at IS NOT NULL AND hold_expires_at <= $1
            RETURNING id, listing_id, renter_id, status, start_date, end_date, hold_expires_at, created_at, updated_at
        )
        SELECT c.id, c.listing_id, l.driver_id, c.renter_id, c.status,
               c.start_date, c.end_date, c.hold_expires_at, c.created_at, c.updated_at
        FROM cancelled c JOIN listings l ON l.id = c.listing_id`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (r *bookingRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Booking, error) {
	var booking domain.Booking
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&booking.ID,
		&booking.ListingID,
		&booking.DriverID,
		&booking.RenterID,
		&booking.Status,
		&booking.StartDate,
		&booking.EndDate,
		&booking.HoldExpiresAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &booking, nil
}

func scanBookings(rows pgx.Rows) ([]domain.Booking, error) {
	var result []domain.Booking
	for rows.Next() {
		var booking domain.Booking
		if err := rows.Scan(
			&booking.ID,
			&booking.ListingID,
			&booking.DriverID,
			&booking.RenterID,
			&booking.Status,
			&booking.StartDate,
			&booking.EndDate,
			&booking.HoldExpiresAt,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, booking)
	}
	return result, rows.Err()
}
