package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
)

// BaseHandler carries the record-event outbox shared by the mutating
// handlers.
type BaseHandler struct {
	OutboxRepo repository.OutboxRepository
}

// EmitEvent queues a record event. Publication failures never fail the
// request; the event row stays pending for the worker to retry.
func (h *BaseHandler) EmitEvent(c *gin.Context, eventType string, payload interface{}) {
	if h.OutboxRepo == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal record event")
		return
	}

	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   body,
		Status:    model.OutboxStatusPending,
	}
	if err := h.OutboxRepo.Create(c.Request.Context(), event); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to queue record event")
	}
}

// Actor returns the display identity of the authenticated user for
// completed-by and logged-by stamps.
func Actor(c *gin.Context) string {
	if email := c.GetString("user_email"); email != "" {
		return email
	}
	return "unknown"
}
