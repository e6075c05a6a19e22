package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ShivamSharma6214/MeetAct/errors"
	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
)

type fakeMeetingRepo struct {
	meetings          map[uuid.UUID]*entities.Meeting
	processed         map[uuid.UUID]string
	failMarkProcessed bool
}

func newFakeMeetingRepo(meetings ...*entities.Meeting) *fakeMeetingRepo {
	repo := &fakeMeetingRepo{
		meetings:  make(map[uuid.UUID]*entities.Meeting),
		processed: make(map[uuid.UUID]string),
	}
	for _, m := range meetings {
		repo.meetings[m.ID] = m
	}
	return repo
}

func (r *fakeMeetingRepo) Create(ctx context.Context, meeting *entities.Meeting) error {
	r.meetings[meeting.ID] = meeting
	return nil
}

func (r *fakeMeetingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	meeting, ok := r.meetings[id]
	if !ok {
		return nil, entities.ErrMeetingNotFound
	}
	return meeting, nil
}

func (r *fakeMeetingRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Meeting, error) {
	return nil, nil
}

func (r *fakeMeetingRepo) FindLatestByAudioURL(ctx context.Context, userID uuid.UUID, audioURL string) (*entities.Meeting, error) {
	for _, m := range r.meetings {
		if m.UserID == userID && m.AudioURL != nil && *m.AudioURL == audioURL {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMeetingRepo) MarkProcessed(ctx context.Context, id uuid.UUID, transcript string, processedAt time.Time) error {
	if r.failMarkProcessed {
		return fmt.Errorf("connection reset")
	}
	r.processed[id] = transcript
	return nil
}

func (r *fakeMeetingRepo) Update(ctx context.Context, meeting *entities.Meeting) error { return nil }
func (r *fakeMeetingRepo) Delete(ctx context.Context, id uuid.UUID) error              { return nil }

type fakeServiceItemRepo struct {
	items        []*entities.ActionItem
	batchInserts int
}

func (r *fakeServiceItemRepo) CreateBatch(ctx context.Context, items []*entities.ActionItem) error {
	r.batchInserts++
	r.items = append(r.items, items...)
	return nil
}

func (r *fakeServiceItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, entities.ErrActionItemNotFound
}

func (r *fakeServiceItemRepo) ListByMeeting(ctx context.Context, meetingID, userID uuid.UUID) ([]*entities.ActionItem, error) {
	var out []*entities.ActionItem
	for _, item := range r.items {
		if item.MeetingID == meetingID && item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeServiceItemRepo) Update(ctx context.Context, item *entities.ActionItem) error {
	return nil
}

func (r *fakeServiceItemRepo) SetTrackerIssueKey(ctx context.Context, id uuid.UUID, issueKey string) error {
	return nil
}

func (r *fakeServiceItemRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeServiceItemRepo) ListOpenDueBefore(ctx context.Context, cutoff time.Time) ([]*entities.ActionItem, error) {
	return nil, nil
}

func newTestService(t *testing.T, handler http.HandlerFunc, meetingRepo *fakeMeetingRepo, itemRepo *fakeServiceItemRepo) *Service {
	t.Helper()
	extractor, _ := newTestExtractor(t, handler)
	return NewService(meetingRepo, itemRepo, nil, nil, extractor, nil, nil)
}

func TestExtractAndPersist_PersistsExtractedItems(t *testing.T) {
	userID := uuid.New()
	meeting := entities.NewMeeting(userID, "Weekly sync", time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))
	meetingRepo := newFakeMeetingRepo(meeting)
	itemRepo := &fakeServiceItemRepo{}

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		geminiReply(t, w, `[
			{"task": "Update the API docs", "owner": "John", "priority": "High"},
			{"task": "Schedule the retro", "owner": "Sarah"}
		]`)
	}, meetingRepo, itemRepo)

	persisted, err := svc.ExtractAndPersist(context.Background(), userID, meeting.ID, "John will update the docs.", nil)
	require.NoError(t, err)
	require.Len(t, persisted, 2)

	assert.Equal(t, "Update the API docs", persisted[0].Task)
	assert.Equal(t, "Schedule the retro", persisted[1].Task)
	assert.Equal(t, 1, itemRepo.batchInserts)
	for _, item := range persisted {
		assert.Equal(t, userID, item.UserID)
		assert.Equal(t, meeting.ID, item.MeetingID)
		assert.Equal(t, entities.StatusOpen, item.Status)
	}

	// The transcript is stored on the meeting as part of the run
	assert.Equal(t, "John will update the docs.", meetingRepo.processed[meeting.ID])
}

func TestExtractAndPersist_RepeatedRunsAppend(t *testing.T) {
	userID := uuid.New()
	meeting := entities.NewMeeting(userID, "Weekly sync", time.Now())
	meetingRepo := newFakeMeetingRepo(meeting)
	itemRepo := &fakeServiceItemRepo{}

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		geminiReply(t, w, `[{"task": "Follow up with legal"}]`)
	}, meetingRepo, itemRepo)

	first, err := svc.ExtractAndPersist(context.Background(), userID, meeting.ID, "transcript", nil)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Each run reports only its own rows; earlier items stay in the store
	second, err := svc.ExtractAndPersist(context.Background(), userID, meeting.ID, "transcript", nil)
	require.NoError(t, err)
	assert.Len(t, second, 1)
	assert.NotEqual(t, first[0].ID, second[0].ID)
	assert.Equal(t, 2, itemRepo.batchInserts)

	stored, err := itemRepo.ListByMeeting(context.Background(), meeting.ID, userID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestExtractAndPersist_TranscriptWriteFailurePropagates(t *testing.T) {
	userID := uuid.New()
	meeting := entities.NewMeeting(userID, "Weekly sync", time.Now())
	meetingRepo := newFakeMeetingRepo(meeting)
	meetingRepo.failMarkProcessed = true
	itemRepo := &fakeServiceItemRepo{}

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		geminiReply(t, w, `[{"task": "Follow up with legal"}]`)
	}, meetingRepo, itemRepo)

	_, err := svc.ExtractAndPersist(context.Background(), userID, meeting.ID, "transcript", nil)
	require.Error(t, err)

	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode)
}

func TestExtractAndPersist_ForeignMeetingDenied(t *testing.T) {
	owner := uuid.New()
	intruder := uuid.New()
	meeting := entities.NewMeeting(owner, "Private standup", time.Now())
	meetingRepo := newFakeMeetingRepo(meeting)
	itemRepo := &fakeServiceItemRepo{}

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("the model endpoint must not be reached on an ownership failure")
	}, meetingRepo, itemRepo)

	_, err := svc.ExtractAndPersist(context.Background(), intruder, meeting.ID, "transcript", nil)
	require.Error(t, err)

	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, appErr.HTTPCode)
	assert.Equal(t, 0, itemRepo.batchInserts)
}

func TestExtractAndPersist_UnknownMeeting(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("the model endpoint must not be reached for an unknown meeting")
	}, newFakeMeetingRepo(), &fakeServiceItemRepo{})

	_, err := svc.ExtractAndPersist(context.Background(), uuid.New(), uuid.New(), "transcript", nil)
	require.Error(t, err)

	appErr, ok := err.(apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode)
}

func TestExtractAndPersist_NoItemsSkipsInsert(t *testing.T) {
	userID := uuid.New()
	meeting := entities.NewMeeting(userID, "Status call", time.Now())
	meetingRepo := newFakeMeetingRepo(meeting)
	itemRepo := &fakeServiceItemRepo{}

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		geminiReply(t, w, "no action items in this one, sorry")
	}, meetingRepo, itemRepo)

	persisted, err := svc.ExtractAndPersist(context.Background(), userID, meeting.ID, "Nothing was decided.", nil)
	require.NoError(t, err)
	assert.Empty(t, persisted)
	assert.Equal(t, 0, itemRepo.batchInserts)

	// The meeting is still marked processed so the run is visible
	assert.Equal(t, "Nothing was decided.", meetingRepo.processed[meeting.ID])
}

func TestLocateMeeting_ByAudioURL(t *testing.T) {
	userID := uuid.New()
	audioURL := "https://cdn.example.com/audio/sync.mp3"
	meeting := entities.NewMeeting(userID, "Weekly sync", time.Now())
	meeting.AudioURL = &audioURL
	meetingRepo := newFakeMeetingRepo(meeting)

	svc := newTestService(t, nil, meetingRepo, &fakeServiceItemRepo{})

	found, err := svc.locateMeeting(context.Background(), userID, TranscribeInput{
		Audio: AudioInput{AudioURL: audioURL},
	})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, meeting.ID, found.ID)

	// A different user's audio URL never matches
	missed, err := svc.locateMeeting(context.Background(), uuid.New(), TranscribeInput{
		Audio: AudioInput{AudioURL: audioURL},
	})
	require.NoError(t, err)
	assert.Nil(t, missed)
}
