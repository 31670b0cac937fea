package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	clockpkg "github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/clock"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/domain"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/events"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/repository"
	apperrors "github.com/AmmarQasmi/TripVerse-Backend-sub000/pkg/util"
)

// DisputeService records customer complaints and hands the driver to
// the disciplinary engine synchronously.
type DisputeService struct {
	disputes   repository.DisputeRepository
	bookings   repository.BookingRepository
	engine     *DisciplineService
	dispatcher events.Dispatcher
	clock      clockpkg.Clock
	logger     *zap.Logger
}

// DisputeCreateInput describes dispute creation payload.
type DisputeCreateInput struct {
	BookingID   string
	Subject     string
	Description string
}

// NewDisputeService constructs the service.
func NewDisputeService(disputes repository.DisputeRepository, bookings repository.BookingRepository, engine *DisciplineService, dispatcher events.Dispatcher, clk clockpkg.Clock, logger *zap.Logger) *DisputeService {
	return &DisputeService{
		disputes:   disputes,
		bookings:   bookings,
		engine:     engine,
		dispatcher: dispatcher,
		clock:      clk,
		logger:     logger,
	}
}

// Create records a dispute against the booking's driver and triggers
// re-evaluation. An engine failure does not surface to the caller: the
// complaint is already durable and the next dispute or sweep catches
// the driver up.
func (s *DisputeService) Create(ctx context.Context, raisedByID string, input DisputeCreateInput) (*domain.Dispute, error) {
	booking, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != raisedByID {
		return nil, apperrors.NewForbidden("dispute must be raised by the booking renter")
	}
	if booking.Status != domain.BookingStatusInProgress && booking.Status != domain.BookingStatusCompleted {
		return nil, apperrors.NewValidationError("disputes require an ongoing or completed booking", map[string]any{
			"status": booking.Status,
		})
	}

	dispute := &domain.Dispute{
		BookingID:   booking.ID,
		DriverID:    booking.DriverID,
		RaisedByID:  raisedByID,
		Subject:     strings.TrimSpace(input.Subject),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.DisputeStatusOpen,
	}
	if err := s.disputes.Create(ctx, dispute); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventDisputeCreated,
		DriverID: booking.DriverID,
		Payload: events.DisputeCreatedPayload{
			DisputeID:  dispute.ID,
			BookingID:  booking.ID,
			RaisedByID: raisedByID,
		},
	})

	scheduled, err := s.engine.OnDispute(ctx, booking.DriverID)
	if err != nil {
		s.logger.Error("disciplinary evaluation failed",
			zap.String("driver_id", booking.DriverID),
			zap.String("dispute_id", dispute.ID),
			zap.Error(err))
	} else if scheduled {
		s.logger.Info("enforcement scheduled from dispute",
			zap.String("driver_id", booking.DriverID),
			zap.String("dispute_id", dispute.ID))
	}
	return dispute, nil
}

// ListForUser returns disputes raised by the account.
func (s *DisputeService) ListForUser(ctx context.Context, raisedByID string, limit, offset int) ([]domain.Dispute, error) {
	return s.disputes.ListByRaiser(ctx, raisedByID, limit, offset)
}

func (s *DisputeService) publish(ctx context.Context, event events.Event) {
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
