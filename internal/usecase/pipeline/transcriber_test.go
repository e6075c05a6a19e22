package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgai "github.com/ShivamSharma6214/MeetAct/pkg/ai"
	"github.com/ShivamSharma6214/MeetAct/pkg/config"
)

func newTestTranscriber(t *testing.T, handler http.HandlerFunc) *Transcriber {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := &config.GeminiConfig{
		APIKey:        "test-key",
		BaseURL:       ts.URL,
		PrimaryModel:  "primary-model",
		FallbackModel: "fallback-model",
	}
	return NewTranscriber(pkgai.NewGeminiClient(cfg), cfg, nil)
}

func testAudio() *ResolvedAudio {
	return &ResolvedAudio{
		Data:     []byte("fake audio"),
		MimeType: "audio/mpeg",
		Name:     "test.mp3",
	}
}

func TestTranscribe_ParsesFencedStructuredReply(t *testing.T) {
	reply := "```json\n" + `{
		"transcript": "[00:01] John: hello everyone",
		"meeting_summary": "Short sync.",
		"action_items": [{"task": "Send notes", "owner": "John", "confidence": 0.9}]
	}` + "\n```"

	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		geminiReply(t, w, reply)
	})

	result, err := tr.Transcribe(context.Background(), testAudio())
	require.NoError(t, err)
	assert.Equal(t, "[00:01] John: hello everyone", result.Transcript)
	assert.Equal(t, "Short sync.", result.Summary)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Send notes", result.Items[0].Task)
	assert.Equal(t, "primary-model", result.Model)
}

func TestTranscribe_MalformedReplyDegradesToRawTranscript(t *testing.T) {
	raw := "Speaker 1 said hello, Speaker 2 said goodbye. No JSON here."

	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		geminiReply(t, w, raw)
	})

	result, err := tr.Transcribe(context.Background(), testAudio())
	require.NoError(t, err)
	assert.Equal(t, raw, result.Transcript)
	assert.Empty(t, result.Summary)
	assert.Nil(t, result.Items)
}

func TestTranscribe_EmptyTranscriptIsAFailure(t *testing.T) {
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		geminiReply(t, w, `{"transcript": "", "meeting_summary": "nothing", "action_items": []}`)
	})

	_, err := tr.Transcribe(context.Background(), testAudio())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transcript")
}

func TestTranscribe_ModelFallback(t *testing.T) {
	var calls int32
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if strings.Contains(r.URL.Path, "primary-model") {
			geminiError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "model primary-model is unsupported for this method")
			return
		}
		geminiReply(t, w, `{"transcript": "hi there", "meeting_summary": "", "action_items": []}`)
	})

	result, err := tr.Transcribe(context.Background(), testAudio())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, "fallback-model", result.Model)
	assert.Equal(t, "hi there", result.Transcript)
}

func TestTranscribe_AudioPayloadReachesModel(t *testing.T) {
	var sawInlineData bool
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Contents []struct {
				Parts []struct {
					Text       string `json:"text"`
					InlineData *struct {
						MimeType string `json:"mime_type"`
						Data     string `json:"data"`
					} `json:"inline_data"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		for _, part := range req.Contents[0].Parts {
			if part.InlineData != nil {
				sawInlineData = true
				assert.Equal(t, "audio/mpeg", part.InlineData.MimeType)
				assert.NotEmpty(t, part.InlineData.Data)
			}
		}
		geminiReply(t, w, `{"transcript": "ok", "meeting_summary": "", "action_items": []}`)
	})

	_, err := tr.Transcribe(context.Background(), testAudio())
	require.NoError(t, err)
	assert.True(t, sawInlineData)
}
