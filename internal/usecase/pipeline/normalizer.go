package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	apperrors "github.com/ShivamSharma6214/MeetAct/errors"
	"github.com/ShivamSharma6214/MeetAct/internal/infrastructure/storage"
)

// MaxAudioBytes is the decoded payload cap enforced before any inference call
const MaxAudioBytes = 25 * 1024 * 1024

// DefaultAudioName is used when no display name can be derived from the input
const DefaultAudioName = "meeting-audio"

// AudioInput is one of: inline base64 (optionally a data URI), an object
// storage path, or a remote URL. MimeType and FileName are optional hints.
type AudioInput struct {
	AudioBase64 string
	FilePath    string
	AudioURL    string
	MimeType    string
	FileName    string
}

// ResolvedAudio is a fully materialized audio payload ready for inference
type ResolvedAudio struct {
	Data     []byte
	MimeType string
	Name     string
}

// Normalizer resolves arbitrary audio references into concrete byte payloads
type Normalizer struct {
	storage    *storage.MinIOClient
	httpClient *http.Client
	logger     *zap.Logger
}

// NewNormalizer creates a new audio normalizer
func NewNormalizer(storageClient *storage.MinIOClient, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		storage: storageClient,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// Resolve turns an AudioInput into (bytes, media type, display name).
// Payloads over 25 MB are rejected before any downstream call.
func (n *Normalizer) Resolve(ctx context.Context, input AudioInput) (*ResolvedAudio, error) {
	var (
		data []byte
		err  error
	)

	mimeType := input.MimeType

	switch {
	case input.AudioBase64 != "":
		data, mimeType, err = decodeInlineAudio(input.AudioBase64, mimeType)
		if err != nil {
			return nil, err
		}
	case input.FilePath != "":
		data, err = n.fetchFromStorage(ctx, input.FilePath)
		if err != nil {
			return nil, err
		}
	case input.AudioURL != "":
		data, err = n.fetchFromURL(ctx, input.AudioURL)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.ErrAudioInputMissing()
	}

	if int64(len(data)) > MaxAudioBytes {
		return nil, apperrors.ErrPayloadTooLarge(int64(len(data)), MaxAudioBytes)
	}

	name := resolveName(input)

	if mimeType == "" {
		mimeType = inferMimeType(name)
	}

	if n.logger != nil {
		n.logger.Info("🎧 Audio payload resolved",
			zap.String("name", name),
			zap.String("mime_type", mimeType),
			zap.Int("size_bytes", len(data)),
		)
	}

	return &ResolvedAudio{
		Data:     data,
		MimeType: mimeType,
		Name:     name,
	}, nil
}

// decodeInlineAudio decodes a base64 payload, honoring a data-URI prefix
// (data:audio/...;base64,xxxx) for the media type when present
func decodeInlineAudio(payload, mimeType string) ([]byte, string, error) {
	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) == 2 {
			meta := strings.TrimPrefix(parts[0], "data:")
			meta = strings.TrimSuffix(meta, ";base64")
			if mimeType == "" && meta != "" {
				mimeType = meta
			}
			payload = parts[1]
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", apperrors.ErrInvalidArgument(fmt.Sprintf("invalid base64 audio payload: %v", err))
	}

	return data, mimeType, nil
}

// fetchFromStorage loads an object from MinIO by path. The object is
// stat-ed first so an oversized upload is rejected without downloading it.
func (n *Normalizer) fetchFromStorage(ctx context.Context, objectPath string) ([]byte, error) {
	if n.storage == nil {
		return nil, apperrors.ErrStorageFailed("get", fmt.Errorf("object storage not configured"))
	}

	size, _, err := n.storage.StatFile(ctx, objectPath)
	if err != nil {
		return nil, apperrors.ErrAudioFetchFailed(objectPath, err)
	}
	if size > MaxAudioBytes {
		return nil, apperrors.ErrPayloadTooLarge(size, MaxAudioBytes)
	}

	data, err := n.storage.GetFile(ctx, objectPath)
	if err != nil {
		return nil, apperrors.ErrAudioFetchFailed(objectPath, err)
	}

	return data, nil
}

// fetchFromURL downloads audio over HTTP with a short retry window
func (n *Normalizer) fetchFromURL(ctx context.Context, audioURL string) ([]byte, error) {
	var data []byte

	fetchFn := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := n.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			err := fmt.Errorf("unexpected status %d fetching audio", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, MaxAudioBytes+1))
		if err != nil {
			return err
		}

		data = body
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 20 * time.Second

	if err := backoff.Retry(fetchFn, backoff.WithContext(bo, ctx)); err != nil {
		if n.logger != nil {
			n.logger.Error("❌ Failed to fetch remote audio",
				zap.String("url", audioURL),
				zap.Error(err),
			)
		}
		return nil, apperrors.ErrAudioFetchFailed(audioURL, err)
	}

	return data, nil
}

// resolveName picks a display name: explicit name, then storage path segment,
// then URL path segment, then the fixed fallback
func resolveName(input AudioInput) string {
	if input.FileName != "" {
		return input.FileName
	}
	if input.FilePath != "" {
		return path.Base(input.FilePath)
	}
	if input.AudioURL != "" {
		trimmed := input.AudioURL
		if idx := strings.IndexAny(trimmed, "?#"); idx != -1 {
			trimmed = trimmed[:idx]
		}
		if base := path.Base(strings.TrimSuffix(trimmed, "/")); base != "." && base != "/" && !strings.Contains(base, ":") {
			return base
		}
	}
	return DefaultAudioName
}

// inferMimeType maps a file extension to a media type, defaulting to audio/mpeg
func inferMimeType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	case ".mp3":
		return "audio/mpeg"
	case ".ogg":
		return "audio/ogg"
	case ".webm":
		return "audio/webm"
	default:
		return "audio/mpeg"
	}
}
