package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/ShivamSharma6214/MeetAct/errors"
	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
	pkgai "github.com/ShivamSharma6214/MeetAct/pkg/ai"
	"github.com/ShivamSharma6214/MeetAct/pkg/config"
)

const extractionInstructionTemplate = `You are an expert at extracting action items from meeting transcripts.

The meeting took place on %s. Resolve every relative date ("next Friday", "by Monday", "end of the week") against that date and output absolute dates.

Extract EVERY action item, including implicit ones: a first-person commitment ("I'll update the docs") is an action item owned by that speaker. Prefer explicit speaker attribution for the owner. Infer priority from urgency cues in the language. Score your confidence for each item between 0 and 1; anything below 0.7 means the item needs human review.

Respond ONLY with a JSON array, no surrounding prose:
[
  {"task": "...", "owner": "name or null", "owner_contact": "email or null", "deadline": "YYYY-MM-DD or null", "priority": "Low|Medium|High", "confidence": 0.0, "notes": "context or null"}
]

Transcript:
%s`

// Candidate is one normalized action item candidate produced by the model
type Candidate struct {
	Task         string
	Owner        *string
	OwnerContact *string
	Deadline     *time.Time
	Priority     entities.Priority
	Status       entities.ItemStatus
	Confidence   float64
	Notes        *string
}

// Extractor turns transcript text into normalized action item candidates
type Extractor struct {
	client        *pkgai.GeminiClient
	primaryModel  string
	fallbackModel string
	logger        *zap.Logger
}

// NewExtractor creates a new action item extractor
func NewExtractor(client *pkgai.GeminiClient, cfg *config.GeminiConfig, logger *zap.Logger) *Extractor {
	return &Extractor{
		client:        client,
		primaryModel:  cfg.PrimaryModel,
		fallbackModel: cfg.FallbackModel,
		logger:        logger,
	}
}

// Extract runs a text-only inference request over the transcript. Malformed
// model output degrades to an empty list, never an error.
func (e *Extractor) Extract(ctx context.Context, transcript string, meetingDate time.Time) ([]Candidate, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, apperrors.ErrInvalidArgument("transcript is required")
	}

	prompt := fmt.Sprintf(extractionInstructionTemplate,
		meetingDate.UTC().Format("Monday, January 2, 2006"),
		transcript,
	)

	genCfg := &pkgai.GenerationConfig{
		Temperature:      0.1,
		ResponseMimeType: "application/json",
	}

	model := e.primaryModel
	reply, err := e.client.GenerateContent(ctx, model, []pkgai.Part{{Text: prompt}}, genCfg)
	if err != nil && pkgai.IsModelUnavailable(err) {
		if e.logger != nil {
			e.logger.Warn("⚠️ Primary model unavailable, retrying with fallback",
				zap.String("primary", e.primaryModel),
				zap.String("fallback", e.fallbackModel),
				zap.Error(err),
			)
		}
		model = e.fallbackModel
		reply, err = e.client.GenerateContent(ctx, model, []pkgai.Part{{Text: prompt}}, genCfg)
	}
	if err != nil {
		return nil, classifyAIError(err, apperrors.ErrExtractionFailed)
	}

	items := parseCandidates(reply)

	if e.logger != nil {
		e.logger.Info("✅ Action item extraction completed",
			zap.String("model", model),
			zap.Int("items", len(items)),
		)
	}

	return items, nil
}

// parseCandidates strips code fences and parses a strict JSON array. Any
// parse failure yields an empty list.
func parseCandidates(raw string) []Candidate {
	cleaned := extractJSON(raw)

	var rawItems []map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &rawItems); err != nil {
		return []Candidate{}
	}

	items := make([]Candidate, 0, len(rawItems))
	for _, rawItem := range rawItems {
		items = append(items, normalizeItem(rawItem))
	}

	return items
}

// normalizeItem projects an untyped model-produced map onto a Candidate.
// Every field access is type-checked with a named default; the projection
// never fails.
func normalizeItem(raw map[string]interface{}) Candidate {
	item := Candidate{
		Task:       entities.PlaceholderTask,
		Priority:   entities.PriorityMedium,
		Status:     entities.StatusOpen,
		Confidence: entities.DefaultExtractionConfidence,
	}

	if v, ok := raw["task"].(string); ok && strings.TrimSpace(v) != "" {
		item.Task = strings.TrimSpace(v)
	}
	if v, ok := raw["owner"].(string); ok && v != "" {
		item.Owner = &v
	}
	if v, ok := raw["owner_contact"].(string); ok && v != "" {
		item.OwnerContact = &v
	}
	if v, ok := raw["deadline"].(string); ok && v != "" {
		if t, err := parseDeadline(v); err == nil {
			item.Deadline = &t
		}
	}
	if v, ok := raw["priority"].(string); ok {
		item.Priority = entities.NormalizePriority(v)
	}
	if v, ok := raw["confidence"].(float64); ok {
		item.Confidence = clampConfidence(v)
	}
	if v, ok := raw["notes"].(string); ok && v != "" {
		item.Notes = &v
	}

	return item
}

// parseDeadline accepts a bare date (YYYY-MM-DD) or a full RFC 3339 timestamp
func parseDeadline(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// extractJSON strips markdown code fence markers from a model reply before
// JSON parsing
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
