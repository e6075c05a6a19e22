package meeting

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

// Service covers meeting CRUD and per-item edits. Every operation is scoped
// to the acting user; edits are last-write-wins.
type Service struct {
	meetingRepo     repositories.MeetingRepository
	itemRepo        repositories.ActionItemRepository
	integrationRepo repositories.IntegrationRepository
	bus             *events.Bus
	logger          *zap.Logger
}

// NewService creates a new meeting service
func NewService(
	meetingRepo repositories.MeetingRepository,
	itemRepo repositories.ActionItemRepository,
	integrationRepo repositories.IntegrationRepository,
	bus *events.Bus,
	logger *zap.Logger,
) *Service {
	return &Service{
		meetingRepo:     meetingRepo,
		itemRepo:        itemRepo,
		integrationRepo: integrationRepo,
		bus:             bus,
		logger:          logger,
	}
}

// CreateMeeting registers a new meeting for the user
func (s *Service) CreateMeeting(ctx context.Context, userID uuid.UUID, title string, meetingDate time.Time, audioURL *string) (*entities.Meeting, error) {
	meeting := entities.NewMeeting(userID, title, meetingDate)
	meeting.AudioURL = audioURL

	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}

	if s.logger != nil {
		s.logger.Info("✅ Meeting created",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("user_id", userID.String()),
		)
	}

	return meeting, nil
}

// ListMeetings returns the user's meetings, newest first
func (s *Service) ListMeetings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Meeting, error) {
	meetings, err := s.meetingRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	return meetings, nil
}

// GetMeeting loads one meeting, enforcing ownership
func (s *Service) GetMeeting(ctx context.Context, userID, meetingID uuid.UUID) (*entities.Meeting, error) {
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
	return meeting, nil
}

// DeleteMeeting removes a meeting; its action items cascade at the store
func (s *Service) DeleteMeeting(ctx context.Context, userID, meetingID uuid.UUID) error {
	if _, err := s.GetMeeting(ctx, userID, meetingID); err != nil {
		return err
	}

	if err := s.meetingRepo.Delete(ctx, meetingID); err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}

	if s.logger != nil {
		s.logger.Info("🗑️ Meeting deleted",
			zap.String("meeting_id", meetingID.String()),
		)
	}

	return nil
}

// ListItems returns a meeting's action items in ascending creation order
func (s *Service) ListItems(ctx context.Context, userID, meetingID uuid.UUID) ([]*entities.ActionItem, error) {
	if _, err := s.GetMeeting(ctx, userID, meetingID); err != nil {
		return nil, err
	}

	items, err := s.itemRepo.ListByMeeting(ctx, meetingID, userID)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	return items, nil
}

// ItemUpdate carries the patchable fields of one action item; nil means
// "leave unchanged"
type ItemUpdate struct {
	Task          *string
	Owner         *string
	OwnerContact  *string
	Deadline      *time.Time
	ClearDeadline bool
	Priority      *string
	Status        *string
	Notes         *string
}

// UpdateItem applies a partial edit to one action item and broadcasts the
// change on the meeting's live channel
func (s *Service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, update ItemUpdate) (*entities.ActionItem, error) {
	item, err := s.findOwnedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if update.Task != nil {
		item.Task = *update.Task
	}
	if update.Owner != nil {
		item.Owner = update.Owner
	}
	if update.OwnerContact != nil {
		item.OwnerContact = update.OwnerContact
	}
	if update.ClearDeadline {
		item.Deadline = nil
	} else if update.Deadline != nil {
		item.Deadline = update.Deadline
	}
	if update.Priority != nil {
		if !entities.Priority(*update.Priority).IsValid() {
			return nil, apperrors.ErrInvalidArgument(fmt.Sprintf("unknown priority %q", *update.Priority))
		}
		item.Priority = entities.Priority(*update.Priority)
	}
	if update.Status != nil {
		if !entities.ItemStatus(*update.Status).IsValid() {
			return nil, apperrors.ErrInvalidArgument(fmt.Sprintf("unknown status %q", *update.Status))
		}
		item.Status = entities.ItemStatus(*update.Status)
	}
	if update.Notes != nil {
		item.Notes = update.Notes
	}
	item.UpdatedAt = time.Now()

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}

	if s.bus != nil {
		s.bus.PublishItem(ctx, events.EventUpdate, item)
	}

	return item, nil
}

// DeleteItem removes one action item and broadcasts the deletion
func (s *Service) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.findOwnedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}

	if s.bus != nil {
		s.bus.PublishDelete(ctx, item.MeetingID.String(), itemID.String())
	}

	return nil
}

// SaveJiraIntegration stores or replaces the user's Jira credential
func (s *Service) SaveJiraIntegration(ctx context.Context, userID uuid.UUID, cfg entities.JiraConfig) (*entities.Integration, error) {
	if missing := cfg.MissingField(); missing != "" {
		return nil, apperrors.ErrTrackerInvalidConfig(entities.ServiceJira, missing)
	}

	integration, err := entities.NewJiraIntegration(userID, cfg)
	if err != nil {
		return nil, apperrors.ErrInternal(err)
	}

	if err := s.integrationRepo.Upsert(ctx, integration); err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}

	if s.logger != nil {
		s.logger.Info("🔗 Tracker credential saved",
			zap.String("user_id", userID.String()),
			zap.String("service", entities.ServiceJira),
		)
	}

	return integration, nil
}

// ListIntegrations returns the user's stored integrations (credential blobs
// are never serialized)
func (s *Service) ListIntegrations(ctx context.Context, userID uuid.UUID) ([]*entities.Integration, error) {
	integrations, err := s.integrationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	return integrations, nil
}

func (s *Service) findOwnedItem(ctx context.Context, userID, itemID uuid.UUID) (*entities.ActionItem, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if err == entities.ErrActionItemNotFound {
			return nil, apperrors.ErrActionItemNotFound(itemID.String())
		}
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	if item.UserID != userID {
		return nil, apperrors.ErrPermissionDenied("modify this action item")
	}
	return item, nil
}
