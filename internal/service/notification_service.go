package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/config"
	"github.com/AmmarQasmi/TripVerse-Backend-sub000/internal/events"
)

// NotificationService delivers user-facing messages for disciplinary
// events. Delivery is best effort: failures are logged and swallowed,
// never propagated back into the engine.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventWarningIssued, n.notify("Conduct warning",
		"You have received a formal warning due to repeated customer disputes."))
	n.dispatcher.Subscribe(events.EventSanctionScheduled, n.notify("Account sanction scheduled",
		"A sanction has been scheduled on your account. If a trip is in progress it takes effect once the trip ends."))
	n.dispatcher.Subscribe(events.EventSanctionPaused, n.notify("Sanction on hold",
		"Your pending sanction is on hold until your current trip completes."))
	n.dispatcher.Subscribe(events.EventSanctionApplied, n.notify("Account suspended",
		"Your account has been suspended and your listings were taken off the marketplace."))
	n.dispatcher.Subscribe(events.EventSanctionResumed, n.notify("Suspension in effect",
		"Your trip has ended and your suspension is now in effect."))
	n.dispatcher.Subscribe(events.EventSanctionEnded, n.notify("Suspension lifted",
		"Your suspension has ended and your account is active again."))
	n.dispatcher.Subscribe(events.EventDriverBanned, n.notify("Account banned",
		"Your account has been permanently banned following repeated disputes."))
	n.dispatcher.Subscribe(events.EventDriverReinstated, n.notify("Account reinstated",
		"Your account has been reinstated by the support team."))
	n.dispatcher.Subscribe(events.EventBookingHoldExpired, n.notify("Booking hold expired",
		"A pending booking was released because it was not confirmed in time."))
}

func (n *NotificationService) notify(title, body string) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		n.logger.Info("notification",
			zap.String("event_type", string(event.Type)),
			zap.String("account_id", event.AccountID),
			zap.String("title", title),
			zap.Any("payload", event.Payload))
		n.sendEmailStub(event, title, body)
		n.sendWebhookStub(event)
		return nil
	}
}

func (n *NotificationService) sendEmailStub(event events.Event, title, body string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("account_id", event.AccountID),
		zap.String("title", title),
		zap.String("body", body))
}

func (n *NotificationService) sendWebhookStub(event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
