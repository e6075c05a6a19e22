package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ShivamSharma6214/MeetAct/errors"
	"github.com/ShivamSharma6214/MeetAct/internal/infrastructure/events"
	meetingUsecase "github.com/ShivamSharma6214/MeetAct/internal/usecase/meeting"
)

// Events streams live action item changes over Server-Sent Events
type Events struct {
	bus     *events.Bus
	service *meetingUsecase.Service
	logger  *zap.Logger
}

// NewEventsHandler creates a new live events handler
func NewEventsHandler(bus *events.Bus, service *meetingUsecase.Service, logger *zap.Logger) *Events {
	return &Events{
		bus:     bus,
		service: service,
		logger:  logger,
	}
}

// Stream handles GET /v1/meetings/:id/events. Events are forwarded in arrival
// order with no deduplication; the stream ends when the client disconnects.
func (h *Events) Stream(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meetingID := c.Param("id")

	// Ownership check before opening the stream
	parsed, err := uuid.Parse(meetingID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meeting id"))
	}
	if _, err := h.service.GetMeeting(c.Request().Context(), userID, parsed); err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx := c.Request().Context()
	stream, err := h.bus.Subscribe(ctx, meetingID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	if h.logger != nil {
		h.logger.Info("📡 Live stream opened",
			zap.String("meeting_id", meetingID),
			zap.String("user_id", userID.String()),
		)
	}

	for event := range stream {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(resp, "event: %s\ndata: %s\n\n", event.Type, payload); err != nil {
			break
		}
		resp.Flush()
	}

	return nil
}
