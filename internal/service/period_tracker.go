package service

import (
	"context"
	"time"

	clockpkg "github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/clock"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/repository"
)

// periodMonths is the length of the rolling evaluation window.
const periodMonths = 3

// Period is the rolling window disputes are counted within.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// PeriodTracker is the sole owner of period boundary math. Every other
// component resolves windows through it so the read and write paths
// can never drift.
type PeriodTracker struct {
	actions repository.DisciplineRepository
	drivers repository.DriverRepository
	clock   clockpkg.Clock
}

// NewPeriodTracker constructs the tracker.
func NewPeriodTracker(actions repository.DisciplineRepository, drivers repository.DriverRepository, clk clockpkg.Clock) *PeriodTracker {
	return &PeriodTracker{actions: actions, drivers: drivers, clock: clk}
}

// CurrentPeriod resolves the driver's active window. When the driver
// has no actions, or the latest window has lapsed, a fresh window
// starting today is returned. Pure read; no side effects.
func (t *PeriodTracker) CurrentPeriod(ctx context.Context, driverID string) (Period, error) {
	period, _, err := t.resolve(ctx, driverID)
	return period, err
}

// ResetIfExpired resolves the window like CurrentPeriod and, when the
// previous window has lapsed, clears the driver's warning marker so a
// warning can be issued again in the new window.
func (t *PeriodTracker) ResetIfExpired(ctx context.Context, driver *domain.Driver) (Period, bool, error) {
	period, expired, err := t.resolve(ctx, driver.ID)
	if err != nil {
		return Period{}, false, err
	}
	if expired && driver.LastWarningAt != nil {
		if err := t.drivers.ClearLastWarning(ctx, driver.ID); err != nil {
			return Period{}, false, err
		}
		driver.LastWarningAt = nil
	}
	return period, expired, nil
}

func (t *PeriodTracker) resolve(ctx context.Context, driverID string) (Period, bool, error) {
	latest, err := t.actions.FindLatestByDriver(ctx, driverID)
	if err != nil {
		return Period{}, false, err
	}

	now := t.clock.Now()
	if latest == nil {
		return freshPeriod(now), false, nil
	}
	if !latest.PeriodEnd.After(now) {
		return freshPeriod(now), true, nil
	}
	return Period{Start: latest.PeriodStart, End: latest.PeriodEnd}, false, nil
}

func freshPeriod(now time.Time) Period {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, periodMonths, 0)}
}
