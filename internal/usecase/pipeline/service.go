package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/ShivamSharma6214/MeetAct/errors"
	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
	"github.com/ShivamSharma6214/MeetAct/internal/domain/repositories"
	"github.com/ShivamSharma6214/MeetAct/internal/infrastructure/events"
)

// Service orchestrates the extraction pipeline: normalize, transcribe,
// extract, persist
type Service struct {
	meetingRepo repositories.MeetingRepository
	itemRepo    repositories.ActionItemRepository
	normalizer  *Normalizer
	transcriber *Transcriber
	extractor   *Extractor
	bus         *events.Bus
	logger      *zap.Logger
}

// NewService creates a new pipeline service
func NewService(
	meetingRepo repositories.MeetingRepository,
	itemRepo repositories.ActionItemRepository,
	normalizer *Normalizer,
	transcriber *Transcriber,
	extractor *Extractor,
	bus *events.Bus,
	logger *zap.Logger,
) *Service {
	return &Service{
		meetingRepo: meetingRepo,
		itemRepo:    itemRepo,
		normalizer:  normalizer,
		transcriber: transcriber,
		extractor:   extractor,
		bus:         bus,
		logger:      logger,
	}
}

// ExtractAndPersist runs the text path: extract action items from a transcript
// and batch-insert them scoped to (meeting, user). The rows persisted by this
// run are returned in insertion order; items from earlier runs are not
// included.
func (s *Service) ExtractAndPersist(ctx context.Context, userID, meetingID uuid.UUID, transcript string, meetingDate *time.Time) ([]*entities.ActionItem, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		if err == entities.ErrMeetingNotFound {
			return nil, apperrors.ErrMeetingNotFound(meetingID.String())
		}
		return nil, apperrors.ErrDBQueryFailed(err)
	}

	if !meeting.IsOwnedBy(userID) {
		return nil, apperrors.ErrMeetingAccessDenied(meetingID.String())
	}

	anchor := meeting.MeetingDate
	if meetingDate != nil {
		anchor = *meetingDate
	}

	candidates, err := s.extractor.Extract(ctx, transcript, anchor)
	if err != nil {
		return nil, err
	}

	items := make([]*entities.ActionItem, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, candidateToEntity(userID, meetingID, c))
	}

	if len(items) > 0 {
		if err := s.itemRepo.CreateBatch(ctx, items); err != nil {
			return nil, apperrors.ErrDBQueryFailed(fmt.Errorf("failed to persist action items: %w", err))
		}
	}

	if err := s.meetingRepo.MarkProcessed(ctx, meetingID, transcript, time.Now()); err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to mark meeting processed",
				zap.String("meeting_id", meetingID.String()),
				zap.Error(err),
			)
		}
		return nil, apperrors.ErrDBQueryFailed(fmt.Errorf("failed to store transcript: %w", err))
	}

	if s.bus != nil {
		for _, item := range items {
			s.bus.PublishItem(ctx, events.EventInsert, item)
		}
	}

	if s.logger != nil {
		s.logger.Info("✅ Extraction pipeline completed",
			zap.String("meeting_id", meetingID.String()),
			zap.Int("new_items", len(items)),
		)
	}

	return items, nil
}

// TranscribeOutcome is the result of one audio-path pipeline run
type TranscribeOutcome struct {
	Transcript     string
	Summary        string
	Items          []Candidate
	MeetingUpdated bool
	MeetingID      *uuid.UUID
	Model          string
}

// TranscribeInput identifies the audio source and optionally the meeting to
// attach the transcript to
type TranscribeInput struct {
	Audio     AudioInput
	MeetingID *uuid.UUID
}

// Transcribe runs the audio path: resolve the audio reference, transcribe,
// and attach the transcript to the matching meeting when one is found. The
// candidate items are advisory; persisting them is the caller's decision.
func (s *Service) Transcribe(ctx context.Context, userID uuid.UUID, input TranscribeInput) (*TranscribeOutcome, error) {
	audio, err := s.normalizer.Resolve(ctx, input.Audio)
	if err != nil {
		return nil, err
	}

	result, err := s.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return nil, err
	}

	outcome := &TranscribeOutcome{
		Transcript: result.Transcript,
		Summary:    result.Summary,
		Items:      result.Items,
		Model:      result.Model,
	}

	meeting, err := s.locateMeeting(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	if meeting != nil {
		if err := s.meetingRepo.MarkProcessed(ctx, meeting.ID, result.Transcript, time.Now()); err != nil {
			if s.logger != nil {
				s.logger.Error("❌ Failed to store transcript on meeting",
					zap.String("meeting_id", meeting.ID.String()),
					zap.Error(err),
				)
			}
		} else {
			outcome.MeetingUpdated = true
			id := meeting.ID
			outcome.MeetingID = &id
		}
	}

	return outcome, nil
}

// locateMeeting finds the meeting to attach a transcript to: by explicit id
// (ownership enforced), or by audio URL match picking the user's most recent
// matching meeting. No match is not an error.
func (s *Service) locateMeeting(ctx context.Context, userID uuid.UUID, input TranscribeInput) (*entities.Meeting, error) {
	if input.MeetingID != nil {
		meeting, err := s.meetingRepo.FindByID(ctx, *input.MeetingID)
		if err != nil {
			if err == entities.ErrMeetingNotFound {
				return nil, apperrors.ErrMeetingNotFound(input.MeetingID.String())
			}
			return nil, apperrors.ErrDBQueryFailed(err)
		}
		if !meeting.IsOwnedBy(userID) {
			return nil, apperrors.ErrMeetingAccessDenied(input.MeetingID.String())
		}
		return meeting, nil
	}

	if input.Audio.AudioURL != "" {
		meeting, err := s.meetingRepo.FindLatestByAudioURL(ctx, userID, input.Audio.AudioURL)
		if err != nil {
			return nil, apperrors.ErrDBQueryFailed(err)
		}
		return meeting, nil
	}

	return nil, nil
}

// candidateToEntity maps a normalized candidate onto a persistable row
func candidateToEntity(userID, meetingID uuid.UUID, c Candidate) *entities.ActionItem {
	item := entities.NewActionItem(userID, meetingID, c.Task)
	item.Owner = c.Owner
	item.OwnerContact = c.OwnerContact
	item.Deadline = c.Deadline
	item.Priority = c.Priority
	item.Status = c.Status
	item.Confidence = c.Confidence
	item.Notes = c.Notes
	return item
}
