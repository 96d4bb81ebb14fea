package worker

import (
	"github.com/spec-kit/ticket-console/internal/service"
)

// StartActivityWorker registers the activity journal handlers.
func StartActivityWorker(activityService *service.ActivityService) {
	if activityService == nil {
		return
	}
	activityService.RegisterHandlers()
}
