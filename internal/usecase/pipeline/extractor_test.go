package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	stdErrors "errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ShivamSharma6214/MeetAct/errors"
	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
	pkgai "github.com/ShivamSharma6214/MeetAct/pkg/ai"
	"github.com/ShivamSharma6214/MeetAct/pkg/config"
)

// geminiReply wraps text in the generateContent response envelope
func geminiReply(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()
	resp := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func geminiError(w http.ResponseWriter, httpStatus int, status, message string) {
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":    httpStatus,
			"status":  status,
			"message": message,
		},
	})
}

func newTestExtractor(t *testing.T, handler http.HandlerFunc) (*Extractor, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := &config.GeminiConfig{
		APIKey:        "test-key",
		BaseURL:       ts.URL,
		PrimaryModel:  "primary-model",
		FallbackModel: "fallback-model",
	}
	return NewExtractor(pkgai.NewGeminiClient(cfg), cfg, nil), ts
}

func TestNormalizeItem_Defaults(t *testing.T) {
	item := normalizeItem(map[string]interface{}{})

	assert.Equal(t, entities.PlaceholderTask, item.Task)
	assert.Equal(t, entities.PriorityMedium, item.Priority)
	assert.Equal(t, entities.StatusOpen, item.Status)
	assert.Equal(t, entities.DefaultExtractionConfidence, item.Confidence)
	assert.Nil(t, item.Owner)
	assert.Nil(t, item.Deadline)
	assert.Nil(t, item.Notes)
}

func TestNormalizeItem_MistypedFieldsFallBack(t *testing.T) {
	item := normalizeItem(map[string]interface{}{
		"task":       42,
		"owner":      true,
		"deadline":   "not-a-date",
		"priority":   "URGENT!!",
		"confidence": "high",
	})

	assert.Equal(t, entities.PlaceholderTask, item.Task)
	assert.Nil(t, item.Owner)
	assert.Nil(t, item.Deadline)
	assert.Equal(t, entities.PriorityMedium, item.Priority)
	assert.Equal(t, entities.DefaultExtractionConfidence, item.Confidence)
}

func TestNormalizeItem_ConfidenceClamped(t *testing.T) {
	assert.Equal(t, 1.0, normalizeItem(map[string]interface{}{"confidence": 3.5}).Confidence)
	assert.Equal(t, 0.0, normalizeItem(map[string]interface{}{"confidence": -0.2}).Confidence)
	assert.Equal(t, 0.42, normalizeItem(map[string]interface{}{"confidence": 0.42}).Confidence)
}

func TestNormalizeItem_DeadlineFormats(t *testing.T) {
	bare := normalizeItem(map[string]interface{}{"deadline": "2025-06-06"})
	require.NotNil(t, bare.Deadline)
	assert.Equal(t, time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC), bare.Deadline.UTC())

	full := normalizeItem(map[string]interface{}{"deadline": "2025-06-09T15:00:00Z"})
	require.NotNil(t, full.Deadline)
	assert.Equal(t, time.Date(2025, 6, 9, 15, 0, 0, 0, time.UTC), full.Deadline.UTC())
}

func TestNormalizeItem_PriorityNormalization(t *testing.T) {
	assert.Equal(t, entities.PriorityHigh, normalizeItem(map[string]interface{}{"priority": "high"}).Priority)
	assert.Equal(t, entities.PriorityLow, normalizeItem(map[string]interface{}{"priority": "Low"}).Priority)
	assert.Equal(t, entities.PriorityMedium, normalizeItem(map[string]interface{}{"priority": "whatever"}).Priority)
}

func TestParseCandidates_MalformedRepliesYieldEmptyList(t *testing.T) {
	cases := []string{
		"I could not find any action items in this transcript.",
		`{"task": "an object, not an array"}`,
		"```json\nnot json at all\n```",
		"",
	}
	for _, raw := range cases {
		items := parseCandidates(raw)
		assert.NotNil(t, items)
		assert.Empty(t, items, "raw: %q", raw)
	}
}

func TestParseCandidates_StripsCodeFences(t *testing.T) {
	raw := "```json\n[{\"task\": \"Update docs\", \"priority\": \"High\", \"confidence\": 0.9}]\n```"

	items := parseCandidates(raw)
	require.Len(t, items, 1)
	assert.Equal(t, "Update docs", items[0].Task)
	assert.Equal(t, entities.PriorityHigh, items[0].Priority)
	assert.Equal(t, 0.9, items[0].Confidence)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `[1,2]`, extractJSON("```json\n[1,2]\n```"))
	assert.Equal(t, `[1,2]`, extractJSON("```\n[1,2]\n```"))
	assert.Equal(t, `[1,2]`, extractJSON("  [1,2]  "))
}

func TestExtract_EndToEnd(t *testing.T) {
	fixture := `[
		{"task": "Update the API docs", "owner": "John", "deadline": "2025-06-06", "priority": "Medium", "confidence": 0.95},
		{"task": "Review the API docs", "owner": "Sarah", "deadline": "2025-06-09", "priority": "Medium", "confidence": 0.9}
	]`

	var prompt string
	extractor, _ := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompt = req.Contents[0].Parts[0].Text
		geminiReply(t, w, fixture)
	})

	meetingDate := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC) // a Monday
	transcript := "John: I'll update the API docs by Friday. Sarah: I'll review it Monday."

	items, err := extractor.Extract(context.Background(), transcript, meetingDate)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// The date anchor and the transcript must both reach the model
	assert.Contains(t, prompt, "Monday, June 2, 2025")
	assert.Contains(t, prompt, transcript)

	john, sarah := items[0], items[1]
	require.NotNil(t, john.Owner)
	assert.Equal(t, "John", *john.Owner)
	require.NotNil(t, john.Deadline)
	assert.Equal(t, "2025-06-06", john.Deadline.UTC().Format("2006-01-02"))

	require.NotNil(t, sarah.Owner)
	assert.Equal(t, "Sarah", *sarah.Owner)
	require.NotNil(t, sarah.Deadline)
	assert.Equal(t, "2025-06-09", sarah.Deadline.UTC().Format("2006-01-02"))

	for _, item := range items {
		assert.Equal(t, entities.StatusOpen, item.Status)
		assert.GreaterOrEqual(t, item.Confidence, 0.0)
		assert.LessOrEqual(t, item.Confidence, 1.0)
	}
}

func TestExtract_ModelFallbackRetriesOnce(t *testing.T) {
	var calls int32
	extractor, _ := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if strings.Contains(r.URL.Path, "primary-model") {
			geminiError(w, http.StatusNotFound, "NOT_FOUND", "model primary-model not found")
			return
		}
		geminiReply(t, w, `[{"task": "Follow up", "confidence": 0.8}]`)
	})

	items, err := extractor.Extract(context.Background(), "some transcript", time.Now())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestExtract_OtherErrorsDoNotRetry(t *testing.T) {
	var calls int32
	extractor, _ := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		geminiError(w, http.StatusInternalServerError, "INTERNAL", "something broke")
	})

	_, err := extractor.Extract(context.Background(), "some transcript", time.Now())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestExtract_UpstreamClassification(t *testing.T) {
	t.Run("quota exhausted maps to 402", func(t *testing.T) {
		extractor, _ := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
			geminiError(w, http.StatusTooManyRequests, "RESOURCE_EXHAUSTED", "quota exceeded for this billing account")
		})

		_, err := extractor.Extract(context.Background(), "transcript", time.Now())
		require.Error(t, err)

		var appErr apperrors.AppError
		require.True(t, stdErrors.As(err, &appErr))
		assert.Equal(t, http.StatusPaymentRequired, appErr.HTTPCode)
	})

	t.Run("rate limit maps to 429", func(t *testing.T) {
		extractor, _ := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
			geminiError(w, http.StatusTooManyRequests, "UNAVAILABLE", "please slow down")
		})

		_, err := extractor.Extract(context.Background(), "transcript", time.Now())
		require.Error(t, err)

		var appErr apperrors.AppError
		require.True(t, stdErrors.As(err, &appErr))
		assert.Equal(t, http.StatusTooManyRequests, appErr.HTTPCode)
	})
}

func TestExtract_EmptyTranscriptRejected(t *testing.T) {
	extractor, _ := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no inference call expected for empty transcript")
	})

	_, err := extractor.Extract(context.Background(), "   ", time.Now())
	require.Error(t, err)

	var appErr apperrors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
}
