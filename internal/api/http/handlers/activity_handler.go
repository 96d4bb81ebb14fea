package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/service"
)

const activityPageSize = 100

// ActivityHandler shows the activity journal.
type ActivityHandler struct {
	Base
	activity *service.ActivityService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(base Base, activity *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{Base: base, activity: activity}
}

// Index handles GET /activity. ?entity= narrows it to one record.
func (h *ActivityHandler) Index(c *fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	entity := c.Query("entity")
	var (
		data     = fiber.Map{"Title": "Atividade", "Entity": entity, "Enabled": h.activity.Enabled()}
		entries  []domain.Activity
		fetchErr error
	)
	if entity != "" {
		entries, fetchErr = h.activity.ForEntity(c.UserContext(), entity, activityPageSize)
	} else {
		entries, fetchErr = h.activity.Recent(c.UserContext(), activityPageSize)
	}
	if fetchErr != nil {
		h.logger.Error("failed to read activity journal", zap.Error(fetchErr))
		ws.Flash.Alert("Erro ao carregar atividade.")
	}
	data["Entries"] = entries
	return h.render(c, ws, "activity", data)
}
