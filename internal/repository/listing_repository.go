package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
)

// ListingRepository encapsulates vehicle listing persistence.
// Listing deactivation during sanction enforcement happens inside the
// discipline repository transaction, not here.
type ListingRepository interface {
	ListByDriver(ctx context.Context, driverID string) ([]domain.Listing, error)
}

type listingRepository struct {
	pool *pgxpool.Pool
}

// NewListingRepository instantiates repository.
func NewListingRepository(pool *pgxpool.Pool) ListingRepository {
	return &listingRepository{pool: pool}
}

func (r *listingRepository) ListByDriver(ctx context.Context, driverID string) ([]domain.Listing, error) {
	const query = `
        SELECT id, driver_id, title, plate_number, daily_rate, is_active, created_at, updated_at
        FROM listings WHERE driver_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Listing
	for rows.Next() {
		var listing domain.Listing
		if err := rows.Scan(
			&listing.ID,
			&listing.DriverID,
			&listing.Title,
			&listing.PlateNumber,
			&listing.DailyRate,
			&listing.IsActive,
			&listing.CreatedAt,
			&listing.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, listing)
	}
	return result, rows.Err()
}
