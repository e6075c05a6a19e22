package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ShivamSharma6214/MeetAct/pkg/config"
)

// GeminiClient is a minimal client for the Gemini generateContent API used
// for transcription and action-item extraction.
type GeminiClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGeminiClient creates a Gemini client using values from the provided
// config. Pass a nil config to fall back to environment variables.
func NewGeminiClient(cfg *config.GeminiConfig) *GeminiClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("GEMINI_API_URL")
		if base == "" {
			base = "https://generativelanguage.googleapis.com"
		}
	}

	timeout := 120 * time.Second
	if cfg != nil && cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(base, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// InlineData carries a base64 payload with its media type.
type InlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Part is one element of a content turn: either text or inline data.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// Content is one conversational turn.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig tunes the model output.
type GenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

// generateRequest is the payload for /v1beta/models/<model>:generateContent
type generateRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// generateResponse is a minimal response shape
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// apiErrorBody is the error envelope Gemini returns on non-2xx statuses.
type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// APIError is a non-2xx reply from the inference service.
type APIError struct {
	HTTPStatus int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gemini returned status %d (%s): %s", e.HTTPStatus, e.Status, e.Message)
	}
	return fmt.Sprintf("gemini returned status %d", e.HTTPStatus)
}

// GenerateContent sends one inference request against the given model and
// returns the concatenated candidate text.
func (g *GeminiClient) GenerateContent(ctx context.Context, model string, parts []Part, genCfg *GenerationConfig) (string, error) {
	reqBody := generateRequest{
		Contents:         []Content{{Role: "user", Parts: parts}},
		GenerationConfig: genCfg,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		apiErr := &APIError{HTTPStatus: resp.StatusCode}
		var eb apiErrorBody
		if json.Unmarshal(body, &eb) == nil {
			apiErr.Status = eb.Error.Status
			apiErr.Message = eb.Error.Message
		}
		return "", apiErr
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", err
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// IsModelUnavailable reports whether the error indicates the requested model
// identifier was rejected (unknown, unsupported or not permitted). Only this
// class of failure triggers the fallback-model retry.
func IsModelUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "model") {
		return false
	}
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "unsupported") ||
		strings.Contains(msg, "permission denied")
}

// IsQuotaExceeded reports whether the error indicates an exhausted billing
// quota rather than a transient rate limit.
func IsQuotaExceeded(err error) bool {
	apiErr, ok := asAPIError(err)
	if !ok {
		return false
	}
	msg := strings.ToLower(apiErr.Message)
	return apiErr.Status == "RESOURCE_EXHAUSTED" &&
		(strings.Contains(msg, "quota") || strings.Contains(msg, "billing"))
}

// IsRateLimited reports whether the error is a transient 429 rate limit.
func IsRateLimited(err error) bool {
	apiErr, ok := asAPIError(err)
	if !ok {
		return false
	}
	return apiErr.HTTPStatus == http.StatusTooManyRequests && !IsQuotaExceeded(err)
}

func asAPIError(err error) (*APIError, bool) {
	for err != nil {
		if apiErr, ok := err.(*APIError); ok {
			return apiErr, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
