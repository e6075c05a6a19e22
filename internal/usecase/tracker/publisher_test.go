package tracker

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ShivamSharma6214/MeetAct/errors"
	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
	"github.com/ShivamSharma6214/MeetAct/internal/infrastructure/external/jira"
)

// fakeIntegrationRepo serves one stored integration or a not-found error
type fakeIntegrationRepo struct {
	integration *entities.Integration
}

func (f *fakeIntegrationRepo) Upsert(ctx context.Context, integration *entities.Integration) error {
	f.integration = integration
	return nil
}

func (f *fakeIntegrationRepo) FindByUserAndService(ctx context.Context, userID uuid.UUID, service string) (*entities.Integration, error) {
	if f.integration == nil {
		return nil, entities.ErrIntegrationNotFound
	}
	return f.integration, nil
}

func (f *fakeIntegrationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Integration, error) {
	if f.integration == nil {
		return nil, nil
	}
	return []*entities.Integration{f.integration}, nil
}

func (f *fakeIntegrationRepo) Delete(ctx context.Context, userID uuid.UUID, service string) error {
	f.integration = nil
	return nil
}

// fakeItemRepo records issue-key write-backs; the methods the publisher never
// calls are stubs
type fakeItemRepo struct {
	writebacks map[uuid.UUID]string
	failKeys   bool
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{writebacks: make(map[uuid.UUID]string)}
}

func (f *fakeItemRepo) CreateBatch(ctx context.Context, items []*entities.ActionItem) error {
	return nil
}

func (f *fakeItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	return nil, entities.ErrActionItemNotFound
}

func (f *fakeItemRepo) ListByMeeting(ctx context.Context, meetingID, userID uuid.UUID) ([]*entities.ActionItem, error) {
	return nil, nil
}

func (f *fakeItemRepo) Update(ctx context.Context, item *entities.ActionItem) error {
	return nil
}

func (f *fakeItemRepo) SetTrackerIssueKey(ctx context.Context, id uuid.UUID, issueKey string) error {
	if f.failKeys {
		return fmt.Errorf("write-back failed")
	}
	f.writebacks[id] = issueKey
	return nil
}

func (f *fakeItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeItemRepo) ListOpenDueBefore(ctx context.Context, cutoff time.Time) ([]*entities.ActionItem, error) {
	return nil, nil
}

// fakeClient counts creation calls and fails the configured summaries
type fakeClient struct {
	calls       int
	failSummary string
}

func (f *fakeClient) CreateIssue(ctx context.Context, req jira.CreateIssueRequest) (*jira.CreatedIssue, error) {
	f.calls++
	if req.Summary == f.failSummary {
		return nil, fmt.Errorf("issue creation failed: status=500, body=oops")
	}
	return &jira.CreatedIssue{
		ID:  fmt.Sprintf("1000%d", f.calls),
		Key: fmt.Sprintf("PROJ-%d", f.calls),
	}, nil
}

func validIntegration(t *testing.T) *entities.Integration {
	t.Helper()
	integration, err := entities.NewJiraIntegration(uuid.New(), entities.JiraConfig{
		BaseURL:    "https://example.atlassian.net",
		Email:      "dev@example.com",
		APIToken:   "token",
		ProjectKey: "PROJ",
	})
	require.NoError(t, err)
	return integration
}

func TestPublish_PartialFailure(t *testing.T) {
	items := []PublishItem{
		{ID: uuid.New(), Summary: "first", Priority: "High"},
		{ID: uuid.New(), Summary: "second", Priority: "Medium"},
		{ID: uuid.New(), Summary: "third", Priority: "Low"},
	}

	client := &fakeClient{failSummary: "second"}
	itemRepo := newFakeItemRepo()
	p := NewPublisher(
		&fakeIntegrationRepo{integration: validIntegration(t)},
		itemRepo,
		func(cfg *entities.JiraConfig) IssueCreator { return client },
		nil,
	)

	result, err := p.Publish(context.Background(), uuid.New(), items)
	require.NoError(t, err)

	assert.Len(t, result.Created, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, items[1].ID.String(), result.Errors[0].ID)
	assert.Contains(t, result.Errors[0].Error, "500")

	// Items 1 and 3 got their keys written back, item 2 did not
	assert.Contains(t, itemRepo.writebacks, items[0].ID)
	assert.Contains(t, itemRepo.writebacks, items[2].ID)
	assert.NotContains(t, itemRepo.writebacks, items[1].ID)

	assert.Equal(t, 3, client.calls)
}

func TestPublish_WritebackFailureDoesNotFailTheItem(t *testing.T) {
	items := []PublishItem{{ID: uuid.New(), Summary: "only"}}

	client := &fakeClient{}
	itemRepo := newFakeItemRepo()
	itemRepo.failKeys = true
	p := NewPublisher(
		&fakeIntegrationRepo{integration: validIntegration(t)},
		itemRepo,
		func(cfg *entities.JiraConfig) IssueCreator { return client },
		nil,
	)

	result, err := p.Publish(context.Background(), uuid.New(), items)
	require.NoError(t, err)
	assert.Len(t, result.Created, 1)
	assert.Empty(t, result.Errors)
}

func TestPublish_NotConnectedFailsFastWithZeroCalls(t *testing.T) {
	client := &fakeClient{}
	p := NewPublisher(
		&fakeIntegrationRepo{},
		newFakeItemRepo(),
		func(cfg *entities.JiraConfig) IssueCreator { return client },
		nil,
	)

	_, err := p.Publish(context.Background(), uuid.New(), []PublishItem{{ID: uuid.New(), Summary: "x"}})
	require.Error(t, err)

	var appErr apperrors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
	assert.Contains(t, appErr.Message, "not connected")

	assert.Equal(t, 0, client.calls)
}

func TestPublish_MissingProjectKeyFailsFastWithZeroCalls(t *testing.T) {
	integration, err := entities.NewJiraIntegration(uuid.New(), entities.JiraConfig{
		BaseURL:  "https://example.atlassian.net",
		Email:    "dev@example.com",
		APIToken: "token",
		// ProjectKey deliberately missing
	})
	require.NoError(t, err)

	client := &fakeClient{}
	p := NewPublisher(
		&fakeIntegrationRepo{integration: integration},
		newFakeItemRepo(),
		func(cfg *entities.JiraConfig) IssueCreator { return client },
		nil,
	)

	_, err = p.Publish(context.Background(), uuid.New(), []PublishItem{{ID: uuid.New(), Summary: "x"}})
	require.Error(t, err)

	var appErr apperrors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
	assert.Equal(t, "project_key", appErr.Details["missing_field"])

	assert.Equal(t, 0, client.calls)
}

func TestPublish_EmptyBatchRejected(t *testing.T) {
	p := NewPublisher(&fakeIntegrationRepo{integration: validIntegration(t)}, newFakeItemRepo(), nil, nil)

	_, err := p.Publish(context.Background(), uuid.New(), nil)
	require.Error(t, err)

	var appErr apperrors.AppError
	require.True(t, stdErrors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
}

func TestBuildIssueRequest(t *testing.T) {
	due := time.Date(2025, 6, 6, 17, 30, 0, 0, time.UTC)
	req := buildIssueRequest("PROJ", PublishItem{
		ID:          uuid.New(),
		Summary:     "Update docs",
		Description: "API docs need a refresh",
		Assignee:    "john@example.com",
		DueDate:     &due,
		Priority:    "weird-value",
	})

	assert.Equal(t, "PROJ", req.ProjectKey)
	assert.Equal(t, "Update docs", req.Summary)
	// Time of day is dropped
	assert.Equal(t, "2025-06-06", req.DueDate)
	// Unrecognized priorities map to Medium
	assert.Equal(t, "Medium", req.Priority)
	assert.Contains(t, req.Description, "API docs need a refresh")
	assert.Contains(t, req.Description, "Assignee: john@example.com")
}

func TestCreateIssueRequestShape(t *testing.T) {
	// The stored credential round-trips through the tagged variant decode
	integration := validIntegration(t)
	cfg, err := integration.JiraConfig()
	require.NoError(t, err)
	assert.Equal(t, "PROJ", cfg.ProjectKey)

	blob, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(blob), "example.atlassian.net")
}
