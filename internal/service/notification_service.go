package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/agent-admin/internal/config"
	"github.com/spec-kit/agent-admin/internal/events"
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
	n.dispatcher.Subscribe(events.EventAgentStatusChanged, n.handleAgentStatusChanged)
	n.dispatcher.Subscribe(events.EventAgentPINChanged, n.handleAgentPINChanged)
}

func (n *NotificationService) handleAgentStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("AgentStatusChanged", zap.Int64("agent_id", event.AgentID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAgentPINChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("AgentPINChanged", zap.Int64("agent_id", event.AgentID), zap.String("actor", event.Actor.ID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("agent_id", event.AgentID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("agent_id", event.AgentID),
		zap.String("event_type", string(event.Type)))
}
