package handler

import (
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ShivamSharma6214/MeetAct/errors"
	"github.com/ShivamSharma6214/MeetAct/internal/infrastructure/storage"
	"github.com/ShivamSharma6214/MeetAct/internal/usecase/pipeline"
)

// Storage handles audio blob uploads
type Storage struct {
	minioClient *storage.MinIOClient
	logger      *zap.Logger
}

// NewStorageHandler creates a new storage handler
func NewStorageHandler(minioClient *storage.MinIOClient, logger *zap.Logger) *Storage {
	return &Storage{
		minioClient: minioClient,
		logger:      logger,
	}
}

// UploadAudio handles POST /v1/storage/audio (multipart form, field "file").
// The returned path can be passed to the transcription pipeline as filePath.
func (h *Storage) UploadAudio(c echo.Context) error {
	userID, err := CurrentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("multipart field 'file' is required"))
	}

	if fileHeader.Size > pipeline.MaxAudioBytes {
		return HandleError(h.logger, c, errors.ErrPayloadTooLarge(fileHeader.Size, pipeline.MaxAudioBytes))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("open", err))
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	objectName := fmt.Sprintf("audio/%s/%d-%s",
		userID.String(),
		time.Now().UnixNano(),
		path.Base(fileHeader.Filename),
	)

	if err := h.minioClient.UploadFile(c.Request().Context(), objectName, src, fileHeader.Size, contentType); err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("upload", err))
	}

	url, err := h.minioClient.GetFileURL(c.Request().Context(), objectName, 1*time.Hour)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("⚠️ Uploaded but failed to generate URL",
				zap.String("object_name", objectName),
				zap.Error(err))
		}
		url = ""
	}

	if h.logger != nil {
		h.logger.Info("✅ Audio uploaded",
			zap.String("object_name", objectName),
			zap.Int64("size_bytes", fileHeader.Size),
		)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"path":         objectName,
		"url":          url,
		"content_type": contentType,
		"size_bytes":   fileHeader.Size,
	})
}
