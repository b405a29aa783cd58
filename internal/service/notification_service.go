package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/commerce-kit/backoffice-service/internal/events"
)

// NotificationService reacts to domain events. Outbound email/webhook
// delivery is out of scope; transitions are recorded in the audit log.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventStaffStatusChanged, n.handleStaffStatusChanged)
	n.dispatcher.Subscribe(events.EventPasswordChanged, n.handlePasswordChanged)
}

func (n *NotificationService) handleStaffStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("StaffStatusChanged", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handlePasswordChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("PasswordChanged", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	return nil
}
