package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ShivamSharma6214/MeetAct/errors"
	dto "github.com/ShivamSharma6214/MeetAct/internal/adapter/dto/pipeline"
	pipelineUsecase "github.com/ShivamSharma6214/MeetAct/internal/usecase/pipeline"
)

// Pipeline handles extraction pipeline HTTP requests
type Pipeline struct {
	service *pipelineUsecase.Service
	logger  *zap.Logger
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(service *pipelineUsecase.Service, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		service: service,
		logger:  logger,
	}
}

// Extract handles POST /v1/pipeline/extract
func (h *Pipeline) Extract(c echo.Context) error {
	var req dto.ExtractRequest
	if err := BindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := CurrentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meetingID, err := uuid.Parse(req.MeetingID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meetingId"))
	}

	var meetingDate *time.Time
	if req.MeetingDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.MeetingDate)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("meetingDate must be ISO 8601"))
		}
		meetingDate = &parsed
	}

	items, err := h.service.ExtractAndPersist(c.Request().Context(), userID, meetingID, req.Transcript, meetingDate)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.JSON(http.StatusOK, dto.ExtractResponse{
		Success:     true,
		ActionItems: items,
		Count:       len(items),
	})
}

// Transcribe handles POST /v1/pipeline/transcribe
func (h *Pipeline) Transcribe(c echo.Context) error {
	var req dto.TranscribeRequest
	if err := BindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	userID, err := CurrentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	input := pipelineUsecase.TranscribeInput{
		Audio: pipelineUsecase.AudioInput{
			AudioBase64: req.AudioBase64,
			FilePath:    req.FilePath,
			AudioURL:    req.AudioURL,
			MimeType:    req.MimeType,
			FileName:    req.FileName,
		},
	}
	if req.MeetingID != "" {
		meetingID, err := uuid.Parse(req.MeetingID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid meetingId"))
		}
		input.MeetingID = &meetingID
	}

	outcome, err := h.service.Transcribe(c.Request().Context(), userID, input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := dto.TranscribeResponse{
		Transcript:     outcome.Transcript,
		MeetingSummary: outcome.Summary,
		ActionItems:    dto.FromCandidates(outcome.Items),
		MeetingUpdated: outcome.MeetingUpdated,
		Model:          outcome.Model,
	}
	if outcome.MeetingID != nil {
		id := outcome.MeetingID.String()
		resp.MeetingID = &id
	}

	return c.JSON(http.StatusOK, resp)
}
