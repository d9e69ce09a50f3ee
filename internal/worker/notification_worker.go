package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/gallery-service/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to the
// event dispatcher. Delivery itself is synchronous in-process, so there
// is no goroutine to manage.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()
	logger.Info("notification handlers registered")
}
