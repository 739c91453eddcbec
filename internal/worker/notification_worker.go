package worker

import (
	"github.com/spec-kit/agent-admin/internal/events"
	"github.com/spec-kit/agent-admin/internal/service"
)

// StartNotificationWorker registers event subscribers: notifications, the
// lifecycle audit trail and analytics cache invalidation.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService, analytics *service.AnalyticsService, history *service.HistoryService) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if history != nil {
		history.RegisterHandlers(dispatcher)
	}
	if analytics != nil {
		analytics.RegisterHandlers(dispatcher)
	}
}
