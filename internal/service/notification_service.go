package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/brainscan1980/anonaddy/internal/config"
	"github.com/brainscan1980/anonaddy/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotifyConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotifyConfig) *NotificationService {
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
	n.dispatcher.Subscribe(events.EventRecipientCreated, n.handleRecipientCreated)
	n.dispatcher.Subscribe(events.EventRecipientVerified, n.handleRecipientVerified)
	n.dispatcher.Subscribe(events.EventDomainCreated, n.handleDomainEvent)
	n.dispatcher.Subscribe(events.EventDomainVerified, n.handleDomainEvent)
	n.dispatcher.Subscribe(events.EventDomainDeleted, n.handleDomainEvent)
}

func (n *NotificationService) handleRecipientCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("RecipientCreated", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRecipientVerified(ctx context.Context, event events.Event) error {
	n.logger.Info("RecipientVerified", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleDomainEvent(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("user_id", event.UserID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("user_id", event.UserID),
		zap.String("event_type", string(event.Type)))
}
