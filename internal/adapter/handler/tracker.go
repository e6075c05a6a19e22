package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ShivamSharma6214/MeetAct/errors"
	dto "github.com/ShivamSharma6214/MeetAct/internal/adapter/dto/meeting"
	"github.com/ShivamSharma6214/MeetAct/internal/usecase/tracker"
)

// Tracker handles issue-tracker publish requests
type Tracker struct {
	publisher *tracker.Publisher
	logger    *zap.Logger
}

// NewTrackerHandler creates a new tracker handler
func NewTrackerHandler(publisher *tracker.Publisher, logger *zap.Logger) *Tracker {
	return &Tracker{
		publisher: publisher,
		logger:    logger,
	}
}

// publishResponse wraps the per-item outcome lists
type publishResponse struct {
	Success bool                    `json:"success"`
	Created []tracker.CreatedResult `json:"created"`
	Errors  []tracker.ItemError     `json:"errors,omitempty"`
}

// Publish handles POST /v1/tracker/publish
func (h *Tracker) Publish(c echo.Context) error {
	var req dto.PublishRequest
	if err := BindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := CurrentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	items := make([]tracker.PublishItem, 0, len(req.ActionItems))
	for _, raw := range req.ActionItems {
		id, err := uuid.Parse(raw.ID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid action item id: "+raw.ID))
		}

		item := tracker.PublishItem{
			ID:          id,
			Summary:     raw.Summary,
			Description: raw.Description,
			Assignee:    raw.Assignee,
			Priority:    raw.Priority,
		}
		if raw.DueDate != "" {
			due, err := parseDeadlineParam(raw.DueDate)
			if err != nil {
				return HandleError(h.logger, c, errors.ErrInvalidArgument("dueDate must be YYYY-MM-DD or ISO 8601"))
			}
			item.DueDate = &due
		}
		items = append(items, item)
	}

	result, err := h.publisher.Publish(c.Request().Context(), userID, items)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, publishResponse{
		Success: true,
		Created: result.Created,
		Errors:  result.Errors,
	})
}
