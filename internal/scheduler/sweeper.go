package scheduler

import (
	"context"

	"go.uber.org/zap"

	clockpkg "github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/clock"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/repository"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/service"
)

// DisciplineEngine is the slice of the engine the sweep drives.
type DisciplineEngine interface {
	EnforceDue(ctx context.Context, action *domain.DisciplinaryAction) error
	CompleteSanction(ctx context.Context, action *domain.DisciplinaryAction) error
}

// PeriodResolver resolves and resets rolling evaluation windows.
type PeriodResolver interface {
	ResetIfExpired(ctx context.Context, driver *domain.Driver) (service.Period, bool, error)
}

// HoldExpirer releases lapsed booking holds.
type HoldExpirer interface {
	ExpireHolds(ctx context.Context) (int, error)
}

// Sweeper drives the time-based disciplinary transitions. Every step
// is independently idempotent: the store claims rows with conditional
// updates, so a crash mid-sweep and restart cannot double-apply or
// double-end an action.
type Sweeper struct {
	actions repository.DisciplineRepository
	drivers repository.DriverRepository
	periods PeriodResolver
	engine  DisciplineEngine
	holds   HoldExpirer
	clock   clockpkg.Clock
	logger  *zap.Logger
}

// NewSweeper constructs the sweeper.
func NewSweeper(actions repository.DisciplineRepository, drivers repository.DriverRepository, periods PeriodResolver, engine DisciplineEngine, holds HoldExpirer, clk clockpkg.Clock, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		actions: actions,
		drivers: drivers,
		periods: periods,
		engine:  engine,
		holds:   holds,
		clock:   clk,
		logger:  logger,
	}
}

// SweepDiscipline applies due sanctions, ends elapsed suspensions and
// resets expired warning periods. Per-item failures are logged and the
// sweep moves on; the next run retries them.
func (s *Sweeper) SweepDiscipline(ctx context.Context) error {
	now := s.clock.Now()

	due, err := s.actions.FindDue(ctx, now)
	if err != nil {
		return err
	}
	for i := range due {
		if err := s.engine.EnforceDue(ctx, &due[i]); err != nil {
			s.logger.Error("failed to enforce due sanction",
				zap.String("action_id", due[i].ID),
				zap.Error(err))
		}
	}

	expiring, err := s.actions.FindExpiring(ctx, now)
	if err != nil {
		return err
	}
	for i := range expiring {
		if err := s.engine.CompleteSanction(ctx, &expiring[i]); err != nil {
			s.logger.Error("failed to end elapsed suspension",
				zap.String("action_id", expiring[i].ID),
				zap.Error(err))
		}
	}

	// Drivers with no disciplinary event since their window lapsed
	// never pass through the event path; reset them here.
	expired, err := s.drivers.ListWarningExpired(ctx, now)
	if err != nil {
		return err
	}
	for _, driverID := range expired {
		driver, err := s.drivers.GetByID(ctx, driverID)
		if err != nil {
			s.logger.Error("failed to load driver for period reset",
				zap.String("driver_id", driverID),
				zap.Error(err))
			continue
		}
		if _, _, err := s.periods.ResetIfExpired(ctx, driver); err != nil {
			s.logger.Error("failed to reset expired period",
				zap.String("driver_id", driverID),
				zap.Error(err))
		}
	}

	s.logger.Info("discipline sweep finished",
		zap.Int("due", len(due)),
		zap.Int("expiring", len(expiring)),
		zap.Int("period_resets", len(expired)))
	return nil
}

// SweepHolds releases expired booking holds.
func (s *Sweeper) SweepHolds(ctx context.Context) error {
	released, err := s.holds.ExpireHolds(ctx)
	if err != nil {
		return err
	}
	if released > 0 {
		s.logger.Info("released expired booking holds", zap.Int("count", released))
	}
	return nil
}
