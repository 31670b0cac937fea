package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	clockpkg "github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/clock"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/events"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/repository"
	apperrors "github.com/AmmarQasmi/TripVerse-Backend-sub000/pkg/util"
)

// DisciplineService turns dispute pressure into graduated sanctions:
// warning, short suspension, long suspension, permanent ban. It is
// invoked synchronously on dispute creation and by the daily sweep;
// both paths serialize per driver and every mutation is guarded by a
// conditional update in the store, so a sweep racing a trip-completion
// event cannot double-apply an action.
type DisciplineService struct {
	actions  repository.DisciplineRepository
	drivers  repository.DriverRepository
	accounts repository.AccountRepository
	disputes repository.DisputeRepository
	periods  *PeriodTracker
	trips    *TripGuard

	dispatcher events.Dispatcher
	clock      clockpkg.Clock
	logger     *zap.Logger

	locks driverLocks
}

// DisciplineDependencies bundles collaborators for the engine.
type DisciplineDependencies struct {
	ActionRepo  repository.DisciplineRepository
	DriverRepo  repository.DriverRepository
	AccountRepo repository.AccountRepository
	DisputeRepo repository.DisputeRepository
	Periods     *PeriodTracker
	Trips       *TripGuard
	Dispatcher  events.Dispatcher
	Clock       clockpkg.Clock
	Logger      *zap.Logger
}

// NewDisciplineService constructs the engine.
func NewDisciplineService(deps DisciplineDependencies) *DisciplineService {
	return &DisciplineService{
		actions:    deps.ActionRepo,
		drivers:    deps.DriverRepo,
		accounts:   deps.AccountRepo,
		disputes:   deps.DisputeRepo,
		periods:    deps.Periods,
		trips:      deps.Trips,
		dispatcher: deps.Dispatcher,
		clock:      deps.Clock,
		logger:     deps.Logger,
	}
}

// OnDispute re-evaluates the driver after a dispute was recorded.
// Returns whether an enforcement action (suspension or ban) was newly
// scheduled; callers use this for logging only.
func (s *DisciplineService) OnDispute(ctx context.Context, driverID string) (bool, error) {
	defer s.locks.acquire(driverID)()

	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return false, err
	}

	period, _, err := s.periods.ResetIfExpired(ctx, driver)
	if err != nil {
		return false, err
	}

	count, err := s.disputes.CountForDriverSince(ctx, driverID, period.Start)
	if err != nil {
		return false, err
	}

	input, err := s.gatherLadderFacts(ctx, driver, period, count)
	if err != nil {
		return false, err
	}

	decision := EvaluatePenalty(input)
	switch decision.Action {
	case PenaltyWarn:
		return false, s.issueWarning(ctx, driver, period, count)
	case PenaltySuspend:
		return true, s.scheduleSanction(ctx, driver, domain.SanctionSuspension, decision.SuspensionDays, count, period, nil)
	case PenaltyBan:
		return true, s.scheduleSanction(ctx, driver, domain.SanctionBan, 0, count, period, nil)
	default:
		return false, nil
	}
}

func (s *DisciplineService) gatherLadderFacts(ctx context.Context, driver *domain.Driver, period Period, count int) (PenaltyInput, error) {
	open, err := s.actions.FindOpenSanction(ctx, driver.ID, period.Start)
	if err != nil {
		return PenaltyInput{}, err
	}
	threeDay, err := s.actions.FindByTypeAndDuration(ctx, driver.ID, domain.SanctionSuspension, shortSuspensionDays, period.Start)
	if err != nil {
		return PenaltyInput{}, err
	}
	sevenDay, err := s.actions.FindByTypeAndDuration(ctx, driver.ID, domain.SanctionSuspension, longSuspensionDays, period.Start)
	if err != nil {
		return PenaltyInput{}, err
	}
	return PenaltyInput{
		DisputeCount:   count,
		WarnedInPeriod: driver.LastWarningAt != nil,
		OpenSanction:   open != nil,
		PriorThreeDay:  threeDay != nil,
		PriorSevenDay:  sevenDay != nil,
	}, nil
}

func (s *DisciplineService) issueWarning(ctx context.Context, driver *domain.Driver, period Period, count int) error {
	now := s.clock.Now()
	action := &domain.DisciplinaryAction{
		DriverID:     driver.ID,
		ActionType:   domain.SanctionWarning,
		DisputeCount: count,
		PeriodStart:  period.Start,
		PeriodEnd:    period.End,
	}
	if err := s.actions.Create(ctx, action); err != nil {
		return err
	}
	if err := s.drivers.SetLastWarning(ctx, driver.ID, now); err != nil {
		return err
	}
	driver.LastWarningAt = &now

	s.logger.Info("warning issued",
		zap.String("driver_id", driver.ID),
		zap.Int("dispute_count", count))
	s.publish(ctx, events.Event{
		Type:      events.EventWarningIssued,
		DriverID:  driver.ID,
		AccountID: driver.AccountID,
		Payload: events.WarningIssuedPayload{
			ActionID:     action.ID,
			DisputeCount: count,
			PeriodStart:  period.Start,
			PeriodEnd:    period.End,
		},
	})
	return nil
}

// scheduleSanction creates the enforcement record. When the driver is
// mid-trip the action is created paused and enforcement waits for the
// trip to end; otherwise it is applied immediately.
func (s *DisciplineService) scheduleSanction(ctx context.Context, driver *domain.Driver, actionType domain.SanctionType, days, count int, period Period, reason *string) error {
	active, bookingID, err := s.trips.HasActiveTrip(ctx, driver.ID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	action := &domain.DisciplinaryAction{
		DriverID:       driver.ID,
		ActionType:     actionType,
		DisputeCount:   count,
		ScheduledStart: &now,
		IsPaused:       active,
		Reason:         reason,
		PeriodStart:    period.Start,
		PeriodEnd:      period.End,
	}
	if actionType == domain.SanctionSuspension {
		action.SuspensionDays = &days
		end := now.Add(time.Duration(days) * 24 * time.Hour)
		action.ScheduledEnd = &end
	}
	if active {
		pauseReason := domain.PauseReasonForBooking(bookingID)
		action.PauseReason = &pauseReason
	}

	if err := s.actions.Create(ctx, action); err != nil {
		return err
	}
	if actionType == domain.SanctionSuspension {
		if err := s.drivers.SetCurrentSuspension(ctx, driver.ID, action.ID); err != nil {
			return err
		}
	}

	s.logger.Info("sanction scheduled",
		zap.String("driver_id", driver.ID),
		zap.String("action_id", action.ID),
		zap.String("action_type", string(actionType)),
		zap.Bool("held_for_trip", active))

	var blockingTrip *string
	if active {
		blockingTrip = &bookingID
	}
	s.publish(ctx, events.Event{
		Type:      events.EventSanctionScheduled,
		DriverID:  driver.ID,
		AccountID: driver.AccountID,
		Payload: events.SanctionScheduledPayload{
			ActionID:       action.ID,
			ActionType:     actionType,
			SuspensionDays: action.SuspensionDays,
			DisputeCount:   count,
			Held:           active,
			BlockingTripID: blockingTrip,
		},
	})

	if active {
		return nil
	}
	_, err = s.applySanction(ctx, driver, action)
	return err
}

// ApplySanction enforces a scheduled action. Idempotent: a no-op when
// the action was already enforced. Public entry point for callers that
// do not already hold the driver lock.
func (s *DisciplineService) ApplySanction(ctx context.Context, driverID, actionID string) (bool, error) {
	defer s.locks.acquire(driverID)()
	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return false, err
	}
	action, err := s.actions.GetByID(ctx, actionID)
	if err != nil {
		return false, err
	}
	return s.applySanction(ctx, driver, action)
}

func (s *DisciplineService) applySanction(ctx context.Context, driver *domain.Driver, action *domain.DisciplinaryAction) (bool, error) {
	if action.ActualStart != nil {
		return false, nil
	}

	status := domain.AccountStatusInactive
	if action.ActionType == domain.SanctionBan {
		status = domain.AccountStatusBanned
	}

	now := s.clock.Now()
	applied, err := s.actions.ApplyTx(ctx, repository.ApplyParams{
		ActionID:      action.ID,
		DriverID:      driver.ID,
		AccountID:     driver.AccountID,
		AccountStatus: status,
		Now:           now,
	})
	if err != nil || !applied {
		return false, err
	}
	action.ActualStart = &now
	action.IsPaused = false
	action.PauseReason = nil

	s.logger.Info("sanction applied",
		zap.String("driver_id", driver.ID),
		zap.String("action_id", action.ID),
		zap.String("action_type", string(action.ActionType)))

	eventType := events.EventSanctionApplied
	if action.ActionType == domain.SanctionBan {
		eventType = events.EventDriverBanned
	}
	s.publish(ctx, events.Event{
		Type:      eventType,
		DriverID:  driver.ID,
		AccountID: driver.AccountID,
		Payload: events.SanctionAppliedPayload{
			ActionID:     action.ID,
			ActionType:   action.ActionType,
			ScheduledEnd: action.ScheduledEnd,
		},
	})
	return true, nil
}

// EnforceDue is the sweep entry point for a due action. Trip state may
// have changed since scheduling, so the guard is re-checked: an active
// trip pauses the action instead of applying it.
func (s *DisciplineService) EnforceDue(ctx context.Context, action *domain.DisciplinaryAction) error {
	defer s.locks.acquire(action.DriverID)()

	driver, err := s.drivers.GetByID(ctx, action.DriverID)
	if err != nil {
		return err
	}

	active, bookingID, err := s.trips.HasActiveTrip(ctx, driver.ID)
	if err != nil {
		return err
	}
	if active {
		return s.holdForTrip(ctx, driver, action, bookingID)
	}
	_, err = s.applySanction(ctx, driver, action)
	return err
}

func (s *DisciplineService) holdForTrip(ctx context.Context, driver *domain.Driver, action *domain.DisciplinaryAction, bookingID string) error {
	paused, err := s.actions.SetPaused(ctx, action.ID, domain.PauseReasonForBooking(bookingID))
	if err != nil || !paused {
		return err
	}
	s.publish(ctx, events.Event{
		Type:      events.EventSanctionPaused,
		DriverID:  driver.ID,
		AccountID: driver.AccountID,
		Payload: events.SanctionPausedPayload{
			ActionID:  action.ID,
			BookingID: bookingID,
		},
	})
	return nil
}

// PauseSuspensionIfActiveRide is called when a trip on one of the
// driver's listings moves to IN_PROGRESS. A pending, unpaused action
// is held until the trip completes; no-op when there is none.
func (s *DisciplineService) PauseSuspensionIfActiveRide(ctx context.Context, driverID, bookingID string) error {
	defer s.locks.acquire(driverID)()

	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return err
	}
	action, err := s.actions.FindPendingUnpaused(ctx, driverID)
	if err != nil {
		return err
	}
	if action == nil {
		return nil
	}
	return s.holdForTrip(ctx, driver, action, bookingID)
}

// ResumeSuspensionAfterRide is called when the blocking trip
// completes. A suspension whose scheduled window fully elapsed during
// the pause is treated as served and ended without ever touching the
// account; anything else is enforced now.
func (s *DisciplineService) ResumeSuspensionAfterRide(ctx context.Context, driverID, bookingID string) error {
	defer s.locks.acquire(driverID)()

	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return err
	}
	paused, err := s.actions.FindPausedByBooking(ctx, driverID, bookingID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	for i := range paused {
		action := &paused[i]
		if action.ScheduledEnd != nil && action.ScheduledEnd.Before(now) {
			if err := s.endSanction(ctx, driver, action, true); err != nil {
				return err
			}
			continue
		}
		applied, err := s.applySanction(ctx, driver, action)
		if err != nil {
			return err
		}
		if applied {
			s.publish(ctx, events.Event{
				Type:      events.EventSanctionResumed,
				DriverID:  driver.ID,
				AccountID: driver.AccountID,
				Payload: events.SanctionResumedPayload{
					ActionID:  action.ID,
					BookingID: bookingID,
				},
			})
		}
	}
	return nil
}

// CompleteSanction ends an enforced suspension whose window elapsed.
// Sweep entry point; idempotent.
func (s *DisciplineService) CompleteSanction(ctx context.Context, action *domain.DisciplinaryAction) error {
	defer s.locks.acquire(action.DriverID)()

	driver, err := s.drivers.GetByID(ctx, action.DriverID)
	if err != nil {
		return err
	}
	return s.endSanction(ctx, driver, action, false)
}

func (s *DisciplineService) endSanction(ctx context.Context, driver *domain.Driver, action *domain.DisciplinaryAction, servedPaused bool) error {
	ended, err := s.actions.EndTx(ctx, repository.EndParams{
		ActionID:       action.ID,
		DriverID:       driver.ID,
		AccountID:      driver.AccountID,
		RestoreAccount: action.ActionType == domain.SanctionSuspension,
		Now:            s.clock.Now(),
	})
	if err != nil || !ended {
		return err
	}
	s.publish(ctx, events.Event{
		Type:      events.EventSanctionEnded,
		DriverID:  driver.ID,
		AccountID: driver.AccountID,
		Payload: events.SanctionEndedPayload{
			ActionID:     action.ID,
			ActionType:   action.ActionType,
			ServedPaused: servedPaused,
		},
	})
	return nil
}

// ManualSuspend issues an admin suspension outside the dispute path.
// Rejected when the driver already has an open sanction.
func (s *DisciplineService) ManualSuspend(ctx context.Context, driverID string, days int, reason string) (*domain.DisciplinaryAction, error) {
	if days <= 0 {
		return nil, apperrors.NewValidationError("suspension days must be positive", nil)
	}
	return s.manualSanction(ctx, driverID, domain.SanctionSuspension, days, reason)
}

// ManualBan issues an admin ban outside the dispute path.
func (s *DisciplineService) ManualBan(ctx context.Context, driverID, reason string) (*domain.DisciplinaryAction, error) {
	return s.manualSanction(ctx, driverID, domain.SanctionBan, 0, reason)
}

func (s *DisciplineService) manualSanction(ctx context.Context, driverID string, actionType domain.SanctionType, days int, reason string) (*domain.DisciplinaryAction, error) {
	defer s.locks.acquire(driverID)()

	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	period, _, err := s.periods.ResetIfExpired(ctx, driver)
	if err != nil {
		return nil, err
	}
	open, err := s.actions.FindOpenSanction(ctx, driverID, period.Start)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, apperrors.NewConflict("driver already has an open sanction", map[string]any{
			"action_id": open.ID,
		})
	}

	// Manual actions carry a zero dispute count.
	var reasonPtr *string
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		reasonPtr = &trimmed
	}
	if err := s.scheduleSanction(ctx, driver, actionType, days, 0, period, reasonPtr); err != nil {
		return nil, err
	}
	return s.actions.FindOpenSanction(ctx, driverID, period.Start)
}

// Reinstate is the admin override that ends the driver's open sanction
// and restores the account, regardless of type.
func (s *DisciplineService) Reinstate(ctx context.Context, driverID string) error {
	defer s.locks.acquire(driverID)()

	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return err
	}
	period, err := s.periods.CurrentPeriod(ctx, driverID)
	if err != nil {
		return err
	}
	open, err := s.actions.FindOpenSanction(ctx, driverID, period.Start)
	if err != nil {
		return err
	}
	if open == nil {
		return apperrors.NewNotFound("open sanction", map[string]any{"driver_id": driverID})
	}

	ended, err := s.actions.EndTx(ctx, repository.EndParams{
		ActionID:       open.ID,
		DriverID:       driver.ID,
		AccountID:      driver.AccountID,
		RestoreAccount: true,
		Now:            s.clock.Now(),
	})
	if err != nil {
		return err
	}
	if ended {
		s.publish(ctx, events.Event{
			Type:      events.EventDriverReinstated,
			DriverID:  driver.ID,
			AccountID: driver.AccountID,
			Payload:   events.DriverReinstatedPayload{ActionID: open.ID},
		})
	}
	return nil
}

// SanctionHistory lists the driver's full disciplinary record.
func (s *DisciplineService) SanctionHistory(ctx context.Context, driverID string) ([]domain.DisciplinaryAction, error) {
	if _, err := s.drivers.GetByID(ctx, driverID); err != nil {
		return nil, err
	}
	return s.actions.ListByDriver(ctx, driverID)
}

func (s *DisciplineService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// driverLocks serializes engine invocations per driver. Different
// drivers never contend.
type driverLocks struct {
	mu sync.Map
}

func (l *driverLocks) acquire(driverID string) func() {
	val, _ := l.mu.LoadOrStore(driverID, &sync.Mutex{})
	mu := val.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
