package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
)

// ApplyParams drives the transactional enforcement of a sanction.
type ApplyParams struct {
	ActionID      string
	DriverID      string
	AccountID     string
	AccountStatus domain.AccountStatus
	Now           time.Time
}

// EndParams drives the transactional closing of a sanction.
type EndParams struct {
	ActionID       string
	DriverID       string
	AccountID      string
	RestoreAccount bool
	Now            time.Time
}

// DisciplineRepository is the durable record of disciplinary actions.
// Actions are append-only; rows are claimed with conditional updates
// on actual_start/actual_end so concurrent appliers and sweeps cannot
// double-apply.
type DisciplineRepository interface {
	Create(ctx context.Context, action *domain.DisciplinaryAction) error
	GetByID(ctx context.Context, id string) (*domain.DisciplinaryAction, error)
	ListByDriver(ctx context.Context, driverID string) ([]domain.DisciplinaryAction, error)
	// FindLatestByDriver returns the most recent action ordered by
	// period start, or nil when the driver has none.
	FindLatestByDriver(ctx context.Context, driverID string) (*domain.DisciplinaryAction, error)
	// FindOpenSanction returns a suspension or ban in the given period
	// that has not ended, or nil.
	FindOpenSanction(ctx context.Context, driverID string, periodStart time.Time) (*domain.DisciplinaryAction, error)
	// FindByTypeAndDuration locates a prior action on the escalation
	// ladder within the period, or nil.
	FindByTypeAndDuration(ctx context.Context, driverID string, actionType domain.SanctionType, days int, periodStart time.Time) (*domain.DisciplinaryAction, error)
	// FindPendingUnpaused returns the unenforced, unpaused suspension
	// or ban for the driver, or nil.
	FindPendingUnpaused(ctx context.Context, driverID string) (*domain.DisciplinaryAction, error)
	FindPausedByBooking(ctx context.Context, driverID, bookingID string) ([]domain.DisciplinaryAction, error)
	FindDue(ctx context.Context, now time.Time) ([]domain.DisciplinaryAction, error)
	FindExpiring(ctx context.Context, now time.Time) ([]domain.DisciplinaryAction, error)
	// SetPaused holds an unenforced action; no-op when already started
	// or paused.
	SetPaused(ctx context.Context, actionID, reason string) (bool, error)
	ClearPause(ctx context.Context, actionID string) error
	// ApplyTx atomically claims the action (actual_start IS NULL),
	// moves the account to the sanction status and deactivates the
	// driver's listings. Returns false when the action was already
	// enforced.
	ApplyTx(ctx context.Context, params ApplyParams) (bool, error)
	// EndTx atomically claims the action (actual_end IS NULL), and
	// when requested restores the account to ACTIVE and clears the
	// driver's suspension pointer. Returns false when already ended.
	EndTx(ctx context.Context, params EndParams) (bool, error)
}

type disciplineRepository struct {
	pool *pgxpool.Pool
}

// NewDisciplineRepository instantiates repository.
func NewDisciplineRepository(pool *pgxpool.Pool) DisciplineRepository {
	return &disciplineRepository{pool: pool}
}

const actionColumns = `id, driver_id, action_type, dispute_count, suspension_days,
           scheduled_start, scheduled_end, actual_start, actual_end,
           is_paused, pause_reason, reason, period_start, period_end, created_at`

func (r *disciplineRepository) Create(ctx context.Context, action *domain.DisciplinaryAction) error {
	const query = `
        INSERT INTO disciplinary_actions
            (driver_id, action_type, dispute_count, suspension_days,
             scheduled_start, scheduled_end, is_paused, pause_reason,
             reason, period_start, period_end)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		action.DriverID,
		action.ActionType,
		action.DisputeCount,
		action.SuspensionDays,
		action.ScheduledStart,
		action.ScheduledEnd,
		action.IsPaused,
		action.PauseReason,
		action.Reason,
		action.PeriodStart,
		action.PeriodEnd,
	).Scan(&action.ID, &action.CreatedAt)
}

func (r *disciplineRepository) GetByID(ctx context.Context, id string) (*domain.DisciplinaryAction, error) {
	const query = `SELECT ` + actionColumns + ` FROM disciplinary_actions WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *disciplineRepository) ListByDriver(ctx context.Context, driverID string) ([]domain.DisciplinaryAction, error) {
	const query = `SELECT ` + actionColumns + `
        FROM disciplinary_actions WHERE driver_id=$1 ORDER BY created_at DESC`
	return r.fetchMany(ctx, query, driverID)
}

func (r *disciplineRepository) FindLatestByDriver(ctx context.Context, driverID string) (*domain.DisciplinaryAction, error) {
	const query = `SELECT ` + actionColumns + `
        FROM disciplinary_actions WHERE driver_id=$1
        ORDER BY period_start DESC, created_at DESC LIMIT 1`
	return r.fetchOptional(ctx, query, driverID)
}

func (r *disciplineRepository) FindOpenSanction(ctx context.Context, driverID string, periodStart time.Time) (*domain.DisciplinaryAction, error) {
	const query = `SELECT ` + actionColumns + `
        FROM disciplinary_actions
        WHERE driver_id=$1 AND period_start=$2
          AND action_type IN ('SUSPENSION','BAN') AND actual_end IS NULL
        ORDER BY created_at DESC LIMIT 1`
	return r.fetchOptional(ctx, query, driverID, periodStart)
}

func (r *disciplineRepository) FindByTypeAndDuration(ctx context.Context, driverID string, actionType domain.SanctionType, days int, periodStart time.Time) (*domain.DisciplinaryAction, error) {
	const query = `SELECT ` + actionColumns + `
        FROM disciplinary_actions
        WHERE driver_id=$1 AND action_type=$2 AND suspension_days=$3 AND period_start=$4
        ORDER BY created_at DESC LIMIT 1`
	return r.fetchOptional(ctx, query, driverID, actionType, days, periodStart)
}

func (r *disciplineRepository) FindPendingUnpaused(ctx context.Context, driverID string) (*domain.DisciplinaryAction, error) {
	const query = `SELECT ` + actionColumns + `
        FROM disciplinary_actions
        WHERE driver_id=$1 AND action_type IN ('SUSPENSION','BAN')
          AND actual_start IS NULL AND actual_end IS NULL AND NOT is_paused
        ORDER BY created_at DESC LIMIT 1`
	return r.fetchOptional(ctx, query, driverID)
}

func (r *disciplineRepository) FindPausedByBooking(ctx context.Context, driverID, bookingID string) ([]domain.DisciplinaryAction, error) {
	const query = `SELECT ` + actionColumns + `
        FROM disciplinary_actions
        WHERE driver_id=$1 AND is_paused AND pause_reason=$2 AND actual_end IS NULL`
	return r.fetchMany(ctx, query, driverID, domain.PauseReasonForBooking(bookingID))
}

func (r *disciplineRepository) FindDue(ctx context.Context, now time.Time) ([]domain.DisciplinaryAction, error) {
	const query = `SELECT ` + actionColumns + `
        FROM disciplinary_actions
        WHERE scheduled_start IS NOT NULL AND scheduled_start <= $1
          AND actual_start IS NULL AND actual_end IS NULL AND NOT is_paused
          AND action_type IN ('SUSPENSION','BAN')
        ORDER BY scheduled_start`
	return r.fetchMany(ctx, query, now)
}

func (r *disciplineRepository) FindExpiring(ctx context.Context, now time.Time) ([]domain.DisciplinaryAction, error) {
	const query = `SELECT ` + actionColumns + `
        FROM disciplinary_actions
        WHERE action_type='SUSPENSION'
          AND scheduled_end IS NOT NULL AND scheduled_end <= $1
          AND actual_start IS NOT NULL AND actual_end IS NULL
        ORDER BY scheduled_end`
	return r.fetchMany(ctx, query, now)
}

func (r *disciplineRepository) SetPaused(ctx context.Context, actionID, reason string) (bool, error) {
	const query = `
        UPDATE disciplinary_actions SET is_paused=true, pause_reason=$1
        WHERE id=$2 AND actual_start IS NULL AND actual_end IS NULL AND NOT is_paused`
	cmd, err := r.pool.Exec(ctx, query, reason, actionID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *disciplineRepository) ClearPause(ctx context.Context, actionID string) error {
	const query = `UPDATE disciplinary_actions SET is_paused=false, pause_reason=NULL WHERE id=$1`
	_, err := r.pool.Exec(ctx, query, actionID)
	return err
}

func (r *disciplineRepository) ApplyTx(ctx context.Context, params ApplyParams) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const claim = `
        UPDATE disciplinary_actions
        SET actual_start=$1, is_paused=false, pause_reason=NULL
        WHERE id=$2 AND actual_start IS NULL AND actual_end IS NULL`
	cmd, err := tx.Exec(ctx, claim, params.Now, params.ActionID)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		return false, nil
	}

	const setStatus = `UPDATE accounts SET status=$1, updated_at=NOW() WHERE id=$2`
	if _, err := tx.Exec(ctx, setStatus, params.AccountStatus, params.AccountID); err != nil {
		return false, err
	}

	const pullListings = `UPDATE listings SET is_active=false, updated_at=NOW() WHERE driver_id=$1 AND is_active`
	if _, err := tx.Exec(ctx, pullListings, params.DriverID); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *disciplineRepository) EndTx(ctx context.Context, params EndParams) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const claim = `
        UPDATE disciplinary_actions
        SET actual_end=$1, is_paused=false, pause_reason=NULL
        WHERE id=$2 AND actual_end IS NULL`
	cmd, err := tx.Exec(ctx, claim, params.Now, params.ActionID)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		return false, nil
	}

	if params.RestoreAccount {
		const restore = `UPDATE accounts SET status='ACTIVE', updated_at=NOW() WHERE id=$1`
		if _, err := tx.Exec(ctx, restore, params.AccountID); err != nil {
			return false, err
		}
	}

	const clearPointer = `UPDATE drivers SET current_suspension_id=NULL, updated_at=NOW()
        WHERE id=$1 AND current_suspension_id=$2`
	if _, err := tx.Exec(ctx, clearPointer, params.DriverID, params.ActionID); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *disciplineRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.DisciplinaryAction, error) {
	var action domain.DisciplinaryAction
	if err := scanAction(r.pool.QueryRow(ctx, query, args...), &action); err != nil {
		return nil, err
	}
	return &action, nil
}

func (r *disciplineRepository) fetchOptional(ctx context.Context, query string, args ...any) (*domain.DisciplinaryAction, error) {
	action, err := r.fetchSingle(ctx, query, args...)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return action, err
}

func (r *disciplineRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.DisciplinaryAction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DisciplinaryAction
	for rows.Next() {
		var action domain.DisciplinaryAction
		if err := scanAction(rows, &action); err != nil {
			return nil, err
		}
		result = append(result, action)
	}
	return result, rows.Err()
}

func scanAction(row pgx.Row, action *domain.DisciplinaryAction) error {
	return row.Scan(
		&action.ID,
		&action.DriverID,
		&action.ActionType,
		&action.DisputeCount,
		&action.SuspensionDays,
		&action.ScheduledStart,
		&action.ScheduledEnd,
		&action.ActualStart,
		&action.ActualEnd,
		&action.IsPaused,
		&action.PauseReason,
		&action.Reason,
		&action.PeriodStart,
		&action.PeriodEnd,
		&action.CreatedAt,
	)
}
