package meeting

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ShivamSharma6214/MeetAct/errors"
	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
)

type fakeItemRepo struct {
	items   map[uuid.UUID]*entities.ActionItem
	updates int
}

func newFakeItemRepo(items ...*entities.ActionItem) *fakeItemRepo {
	repo := &fakeItemRepo{items: make(map[uuid.UUID]*entities.ActionItem)}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *fakeItemRepo) CreateBatch(ctx context.Context, items []*entities.ActionItem) error {
	for _, item := range items {
		r.items[item.ID] = item
	}
	return nil
}

func (r *fakeItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, entities.ErrActionItemNotFound
	}
	return item, nil
}

func (r *fakeItemRepo) ListByMeeting(ctx context.Context, meetingID, userID uuid.UUID) ([]*entities.ActionItem, error) {
	return nil, nil
}

func (r *fakeItemRepo) Update(ctx context.Context, item *entities.ActionItem) error {
	r.updates++
	r.items[item.ID] = item
	return nil
}

func (r *fakeItemRepo) SetTrackerIssueKey(ctx context.Context, id uuid.UUID, issueKey string) error {
	return nil
}

func (r *fakeItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *fakeItemRepo) ListOpenDueBefore(ctx context.Context, cutoff time.Time) ([]*entities.ActionItem, error) {
	return nil, nil
}

func strPtr(s string) *string { return &s }

func TestUpdateItem_RejectsUnknownEnumValues(t *testing.T) {
	userID := uuid.New()
	item := entities.NewActionItem(userID, uuid.New(), "Update the API docs")
	repo := newFakeItemRepo(item)
	svc := NewService(nil, repo, nil, nil, nil)

	_, err := svc.UpdateItem(context.Background(), userID, item.ID, ItemUpdate{
		Priority: strPtr("urgent"),
	})
	require.Error(t, err)
	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)

	_, err = svc.UpdateItem(context.Background(), userID, item.ID, ItemUpdate{
		Status: strPtr("Closed"),
	})
	require.Error(t, err)
	appErr, ok = err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)

	assert.Equal(t, 0, repo.updates)
}

func TestUpdateItem_AppliesPatch(t *testing.T) {
	userID := uuid.New()
	deadline := time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)
	item := entities.NewActionItem(userID, uuid.New(), "Update the API docs")
	item.Deadline = &deadline
	repo := newFakeItemRepo(item)
	svc := NewService(nil, repo, nil, nil, nil)

	updated, err := svc.UpdateItem(context.Background(), userID, item.ID, ItemUpdate{
		Task:          strPtr("Update the API docs and changelog"),
		Priority:      strPtr("High"),
		Status:        strPtr("In Progress"),
		ClearDeadline: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Update the API docs and changelog", updated.Task)
	assert.Equal(t, entities.PriorityHigh, updated.Priority)
	assert.Equal(t, entities.StatusInProgress, updated.Status)
	assert.Nil(t, updated.Deadline)
	assert.Equal(t, 1, repo.updates)
}

func TestUpdateItem_ForeignItemDenied(t *testing.T) {
	owner := uuid.New()
	item := entities.NewActionItem(owner, uuid.New(), "Private task")
	repo := newFakeItemRepo(item)
	svc := NewService(nil, repo, nil, nil, nil)

	_, err := svc.UpdateItem(context.Background(), uuid.New(), item.ID, ItemUpdate{
		Task: strPtr("hijack"),
	})
	require.Error(t, err)
	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, appErr.HTTPCode)
	assert.Equal(t, 0, repo.updates)
}
