package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/break-planner/internal/config"
	"github.com/spec-kit/break-planner/internal/events"
)

// NotificationService handles emitting notifications for domain events.
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
	n.dispatcher.Subscribe(events.EventScheduleGenerated, n.handleActivity)
	n.dispatcher.Subscribe(events.EventScheduleValidated, n.handleActivity)
	n.dispatcher.Subscribe(events.EventScheduleSaved, n.handleActivity)
	n.dispatcher.Subscribe(events.EventPlannerSettingsUpdated, n.handleActivity)
	n.dispatcher.Subscribe(events.EventRosterChanged, n.handleActivity)
	n.dispatcher.Subscribe(events.EventCoverageViolationsFound, n.handleViolations)
}

func (n *NotificationService) handleActivity(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("date", event.Date),
		zap.String("actor", event.Actor.Subject),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleViolations(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CoverageViolationsFoundPayload)
	if !ok {
		return nil
	}
	n.logger.Warn(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("date", event.Date),
		zap.Int("count", payload.Count))
	if payload.Count >= n.threshold() {
		n.sendWebhookNotificationStub(ctx, event, payload.Count)
	}
	return nil
}

func (n *NotificationService) threshold() int {
	if n.cfg.ViolationThreshold <= 0 {
		return 1
	}
	return n.cfg.ViolationThreshold
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event, count int) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Info("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("date", event.Date),
		zap.Int("violations", count),
		zap.String("event_type", string(event.Type)))
}
