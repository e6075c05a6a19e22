package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ShivamSharma6214/MeetAct/errors"
	dto "github.com/ShivamSharma6214/MeetAct/internal/adapter/dto/meeting"
	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
	"github.com/ShivamSharma6214/MeetAct/internal/usecase/export"
	meetingUsecase "github.com/ShivamSharma6214/MeetAct/internal/usecase/meeting"
)

// Meeting handles meeting and action item HTTP requests
type Meeting struct {
	service *meetingUsecase.Service
	logger  *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(service *meetingUsecase.Service, logger *zap.Logger) *Meeting {
	return &Meeting{
		service: service,
		logger:  logger,
	}
}

// Create handles POST /v1/meetings
func (h *Meeting) Create(c echo.Context) error {
	var req dto.CreateMeetingRequest
	if err := BindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := CurrentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meetingDate := time.Now()
	if req.MeetingDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.MeetingDate)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("meeting_date must be ISO 8601"))
		}
		meetingDate = parsed
	}

	meeting, err := h.service.CreateMeeting(c.Request().Context(), userID, req.Title, meetingDate, req.AudioURL)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.JSON(http.StatusCreated, meeting)
}

// List handles GET /v1/meetings
func (h *Meeting) List(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	meetings, err := h.service.ListMeetings(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"meetings": meetings,
		"count":    len(meetings),
	})
}

// Get handles GET /v1/meetings/:id
func (h *Meeting) Get(c echo.Context) error {
	userID, meetingID, err := h.pathIDs(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, err := h.service.GetMeeting(c.Request().Context(), userID, meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, meeting)
}

// Delete handles DELETE /v1/meetings/:id; action items cascade
func (h *Meeting) Delete(c echo.Context) error {
	userID, meetingID, err := h.pathIDs(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.service.DeleteMeeting(c.Request().Context(), userID, meetingID); err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListItems handles GET /v1/meetings/:id/action-items
func (h *Meeting) ListItems(c echo.Context) error {
	userID, meetingID, err := h.pathIDs(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	items, err := h.service.ListItems(c.Request().Context(), userID, meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"actionItems": items,
		"count":       len(items),
	})
}

// ExportItems handles GET /v1/meetings/:id/action-items/export?format=csv|json
func (h *Meeting) ExportItems(c echo.Context) error {
	userID, meetingID, err := h.pathIDs(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	items, err := h.service.ListItems(c.Request().Context(), userID, meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	format := c.QueryParam("format")
	switch format {
	case "", "json":
		data, err := export.ToJSON(items)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInternal(err))
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="action-items.json"`)
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
	case "csv":
		data, err := export.ToCSV(items)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInternal(err))
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="action-items.csv"`)
		return c.Blob(http.StatusOK, "text/csv", data)
	default:
		return HandleError(h.logger, c, errors.ErrInvalidArgument("format must be csv or json"))
	}
}

// UpdateItem handles PATCH /v1/action-items/:id
func (h *Meeting) UpdateItem(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid action item id"))
	}

	var req dto.UpdateItemRequest
	if err := BindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	update := meetingUsecase.ItemUpdate{
		Task:          req.Task,
		Owner:         req.Owner,
		OwnerContact:  req.OwnerContact,
		ClearDeadline: req.ClearDeadline,
		Priority:      req.Priority,
		Status:        req.Status,
		Notes:         req.Notes,
	}
	if req.Deadline != nil {
		parsed, err := parseDeadlineParam(*req.Deadline)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("deadline must be YYYY-MM-DD or ISO 8601"))
		}
		update.Deadline = &parsed
	}

	item, err := h.service.UpdateItem(c.Request().Context(), userID, itemID, update)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /v1/action-items/:id
func (h *Meeting) DeleteItem(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid action item id"))
	}

	if err := h.service.DeleteItem(c.Request().Context(), userID, itemID); err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SaveJiraIntegration handles POST /v1/integrations/jira
func (h *Meeting) SaveJiraIntegration(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req dto.JiraIntegrationRequest
	if err := BindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	integration, err := h.service.SaveJiraIntegration(c.Request().Context(), userID, jiraConfigFromRequest(req))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.JSON(http.StatusCreated, integration)
}

// ListIntegrations handles GET /v1/integrations
func (h *Meeting) ListIntegrations(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	integrations, err := h.service.ListIntegrations(c.Request().Context(), userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"integrations": integrations,
	})
}

func (h *Meeting) pathIDs(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	userID, err := CurrentUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.ErrInvalidArgument("invalid meeting id")
	}
	return userID, meetingID, nil
}

func queryInt(c echo.Context, key string, fallback int) int {
	raw := c.QueryParam(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func jiraConfigFromRequest(req dto.JiraIntegrationRequest) entities.JiraConfig {
	return entities.JiraConfig{
		BaseURL:    req.BaseURL,
		Email:      req.Email,
		APIToken:   req.APIToken,
		ProjectKey: req.ProjectKey,
	}
}

func parseDeadlineParam(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
