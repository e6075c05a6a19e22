package pipeline

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/ShivamSharma6214/MeetAct/errors"
	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
	pkgai "github.com/ShivamSharma6214/MeetAct/pkg/ai"
	"github.com/ShivamSharma6214/MeetAct/pkg/config"
)

const transcriptionInstruction = `Transcribe this meeting recording completely and accurately.
Include timestamps for each speaker segment and label speakers (Speaker 1, Speaker 2, or their name when identifiable).
Also produce a short meeting summary and any action items you can identify.

Respond with a single JSON object, no surrounding prose:
{
  "transcript": "full transcript with timestamps and speaker labels",
  "meeting_summary": "2-4 sentence summary",
  "action_items": [
    {"task": "...", "owner": "name or null", "owner_contact": "email or null", "deadline": "ISO 8601 or null", "priority": "Low|Medium|High", "confidence": 0.0, "notes": "context or null"}
  ]
}`

// TranscriptionResult is the parsed output of one transcription run
type TranscriptionResult struct {
	Transcript string
	Summary    string
	Items      []Candidate
	Model      string
}

// Transcriber sends audio to the multimodal inference service and parses the
// structured reply
type Transcriber struct {
	client        *pkgai.GeminiClient
	primaryModel  string
	fallbackModel string
	logger        *zap.Logger
}

// NewTranscriber creates a new transcription adapter
func NewTranscriber(client *pkgai.GeminiClient, cfg *config.GeminiConfig, logger *zap.Logger) *Transcriber {
	return &Transcriber{
		client:        client,
		primaryModel:  cfg.PrimaryModel,
		fallbackModel: cfg.FallbackModel,
		logger:        logger,
	}
}

// Transcribe runs one multimodal inference request over the resolved audio.
// An unknown/unsupported primary model triggers exactly one retry against the
// fallback model; any other error propagates.
func (t *Transcriber) Transcribe(ctx context.Context, audio *ResolvedAudio) (*TranscriptionResult, error) {
	parts := []pkgai.Part{
		{Text: transcriptionInstruction},
		{InlineData: &pkgai.InlineData{
			MimeType: audio.MimeType,
			Data:     base64.StdEncoding.EncodeToString(audio.Data),
		}},
	}

	genCfg := &pkgai.GenerationConfig{
		Temperature:      0.2,
		ResponseMimeType: "application/json",
	}

	model := t.primaryModel
	reply, err := t.client.GenerateContent(ctx, model, parts, genCfg)
	if err != nil && pkgai.IsModelUnavailable(err) {
		if t.logger != nil {
			t.logger.Warn("⚠️ Primary model unavailable, retrying with fallback",
				zap.String("primary", t.primaryModel),
				zap.String("fallback", t.fallbackModel),
				zap.Error(err),
			)
		}
		model = t.fallbackModel
		reply, err = t.client.GenerateContent(ctx, model, parts, genCfg)
	}
	if err != nil {
		return nil, classifyAIError(err, apperrors.ErrTranscriptionFailed)
	}

	result := parseTranscriptionReply(reply)
	result.Model = model

	if result.Transcript == "" {
		return nil, apperrors.ErrTranscriptionFailed(entities.ErrEmptyTranscript)
	}

	if t.logger != nil {
		t.logger.Info("✅ Transcription completed",
			zap.String("model", model),
			zap.Int("transcript_chars", len(result.Transcript)),
			zap.Int("candidate_items", len(result.Items)),
		)
	}

	return result, nil
}

// transcriptionReply mirrors the JSON object the instruction asks for
type transcriptionReply struct {
	Transcript     string                   `json:"transcript"`
	MeetingSummary string                   `json:"meeting_summary"`
	ActionItems    []map[string]interface{} `json:"action_items"`
}

// parseTranscriptionReply strips code fences and parses the structured reply.
// A parse failure keeps the raw reply as the transcript and degrades the rest.
func parseTranscriptionReply(raw string) *TranscriptionResult {
	cleaned := extractJSON(raw)

	var reply transcriptionReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return &TranscriptionResult{Transcript: raw}
	}

	items := make([]Candidate, 0, len(reply.ActionItems))
	for _, rawItem := range reply.ActionItems {
		items = append(items, normalizeItem(rawItem))
	}
	if len(items) == 0 {
		items = nil
	}

	return &TranscriptionResult{
		Transcript: reply.Transcript,
		Summary:    reply.MeetingSummary,
		Items:      items,
	}
}

// classifyAIError maps upstream inference failures onto the error taxonomy:
// rate limits and exhausted quotas get their own statuses, everything else
// goes through the stage-specific wrapper
func classifyAIError(err error, wrap func(error) apperrors.AppError) error {
	switch {
	case pkgai.IsQuotaExceeded(err):
		return apperrors.ErrAIQuotaExceeded(err)
	case pkgai.IsRateLimited(err):
		return apperrors.ErrAIRateLimited(err)
	default:
		return wrap(fmt.Errorf("inference request failed: %w", err))
	}
}
