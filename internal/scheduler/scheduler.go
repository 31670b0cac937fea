package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/config"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/observability"
)

const (
	disciplineLockName = "discipline"
	holdsLockName      = "booking_holds"

	sweepTimeout = 5 * time.Minute
)

// Scheduler runs the periodic sweeps: a daily disciplinary sweep and a
// frequent booking-hold sweep.
type Scheduler struct {
	cfg     config.SchedulerConfig
	cron    *cron.Cron
	sweeper *Sweeper
	lock    *SweepLock
	metrics *observability.Metrics
	logger  *zap.Logger
}

// New constructs the scheduler.
func New(cfg config.SchedulerConfig, sweeper *Sweeper, lock *SweepLock, metrics *observability.Metrics, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		cron:    cron.New(),
		sweeper: sweeper,
		lock:    lock,
		metrics: metrics,
		logger:  logger,
	}
}

// Start registers the cron entries and launches the scheduler.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("scheduler disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.cfg.DisciplineCron, func() {
		s.run(disciplineLockName, s.sweeper.SweepDiscipline)
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.HoldSweepCron, func() {
		s.run(holdsLockName, s.sweeper.SweepHolds)
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("scheduler started",
		zap.String("discipline_cron", s.cfg.DisciplineCron),
		zap.String("hold_sweep_cron", s.cfg.HoldSweepCron))
	return nil
}

// Stop halts the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) run(name string, sweep func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	acquired, err := s.lock.TryAcquire(ctx, name)
	if err != nil {
		s.logger.Error("sweep lock error", zap.String("sweep", name), zap.Error(err))
		return
	}
	if !acquired {
		s.metrics.RecordSweep(name, "skipped")
		s.logger.Debug("sweep held by another node", zap.String("sweep", name))
		return
	}
	defer s.lock.Release(ctx, name)

	if err := sweep(ctx); err != nil {
		s.metrics.RecordSweep(name, "failed")
		s.logger.Error("sweep failed", zap.String("sweep", name), zap.Error(err))
		return
	}
	s.metrics.RecordSweep(name, "ok")
}
