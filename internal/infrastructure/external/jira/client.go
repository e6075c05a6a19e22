package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Jira Cloud REST API v3 with basic auth (email + API token)
type Client struct {
	baseURL  string
	email    string
	apiToken string
	client   *http.Client
}

// NewClient creates a new Jira client for one credential set
func NewClient(baseURL, email, apiToken string) *Client {
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		email:    email,
		apiToken: apiToken,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateIssueRequest carries the fields for one issue creation call
type CreateIssueRequest struct {
	ProjectKey  string
	Summary     string
	Description string
	Priority    string
	DueDate     string // YYYY-MM-DD, empty to omit
}

// CreatedIssue is the relevant subset of Jira's creation response
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// adfDocument wraps plain text in the minimal Atlassian Document Format shape
// Jira v3 requires for descriptions
func adfDocument(text string) map[string]interface{} {
	return map[string]interface{}{
		"type":    "doc",
		"version": 1,
		"content": []map[string]interface{}{
			{
				"type": "paragraph",
				"content": []map[string]interface{}{
					{"type": "text", "text": text},
				},
			},
		},
	}
}

// CreateIssue creates one issue and returns its external identifiers
func (c *Client) CreateIssue(ctx context.Context, req CreateIssueRequest) (*CreatedIssue, error) {
	fields := map[string]interface{}{
		"project":   map[string]string{"key": req.ProjectKey},
		"summary":   req.Summary,
		"issuetype": map[string]string{"name": "Task"},
		"priority":  map[string]string{"name": req.Priority},
	}
	if req.Description != "" {
		fields["description"] = adfDocument(req.Description)
	}
	if req.DueDate != "" {
		fields["duedate"] = req.DueDate
	}

	body, err := json.Marshal(map[string]interface{}{"fields": fields})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal issue request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/api/3/issue", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.SetBasicAuth(c.email, c.apiToken)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("issue creation request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("issue creation failed: status=%d, body=%s", resp.StatusCode, string(respBody))
	}

	var created CreatedIssue
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, fmt.Errorf("failed to parse creation response: %w", err)
	}

	return &created, nil
}
