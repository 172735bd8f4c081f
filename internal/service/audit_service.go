package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/booknow-hub/internal/config"
	"github.com/spec-kit/booknow-hub/internal/events"
)

// AuditService writes an audit trail line for every session and schedule event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.AuditConfig
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.AuditConfig) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil || !a.cfg.Enabled {
		return
	}
	a.dispatcher.Subscribe(events.EventSessionEstablished, a.handleSessionEvent)
	a.dispatcher.Subscribe(events.EventSessionRolledBack, a.handleSessionEvent)
	a.dispatcher.Subscribe(events.EventSessionSignedOut, a.handleSessionEvent)
	a.dispatcher.Subscribe(events.EventWeeklyEntryUpserted, a.handleScheduleEvent)
	a.dispatcher.Subscribe(events.EventScheduleTemplateApplied, a.handleScheduleEvent)
	a.dispatcher.Subscribe(events.EventScheduleExceptionCreated, a.handleScheduleEvent)
	a.dispatcher.Subscribe(events.EventScheduleExceptionDeleted, a.handleScheduleEvent)
}

func (a *AuditService) handleSessionEvent(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("user_id", event.Actor.UserID),
		zap.String("mode", event.Actor.Mode),
		zap.Any("payload", event.Payload))
	a.forward(ctx, event)
	return nil
}

func (a *AuditService) handleScheduleEvent(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("tenant_id", event.TenantID),
		zap.String("user_id", event.Actor.UserID),
		zap.String("role", event.Actor.Role),
		zap.Any("payload", event.Payload))
	a.forward(ctx, event)
	return nil
}

// forward records the webhook delivery target; delivery itself is out of process.
func (a *AuditService) forward(_ context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.WebhookURL) == "" {
		return
	}
	a.logger.Debug("audit webhook queued",
		zap.String("url", a.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}
