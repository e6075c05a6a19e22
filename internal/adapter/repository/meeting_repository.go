package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
	domainrepo "github.com/ShivamSharma6214/MeetAct/internal/domain/repositories"
)

// MeetingRepository implements the meeting repository interface using GORM
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) domainrepo.MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create creates a new meeting
func (r *MeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if err := r.db.WithContext(ctx).Create(meeting).Error; err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

// FindByID finds a meeting by ID
func (r *MeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting by ID: %w", err)
	}
	return &meeting, nil
}

// ListByUser lists a user's meetings, newest first.
func (r *MeetingRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Meeting, error) {
	var meetings []*entities.Meeting
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("meeting_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// FindLatestByAudioURL returns the most recently created meeting matching the
// audio reference, scoped to the user. Ties break by creation time
// descending; at most one row is returned.
func (r *MeetingRepository) FindLatestByAudioURL(ctx context.Context, userID uuid.UUID, audioURL string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND audio_url = ?", userID, audioURL).
		Order("created_at DESC").
		First(&meeting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find meeting by audio URL: %w", err)
	}
	return &meeting, nil
}

// MarkProcessed stores the resolved transcript and stamps processed_at.
func (r *MeetingRepository) MarkProcessed(ctx context.Context, id uuid.UUID, transcript string, processedAt time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"transcript":   transcript,
			"processed_at": processedAt,
			"updated_at":   time.Now(),
		}).Error; err != nil {
		return fmt.Errorf("failed to mark meeting processed: %w", err)
	}
	return nil
}

// Update updates a meeting
func (r *MeetingRepository) Update(ctx context.Context, meeting *entities.Meeting) error {
	if err := r.db.WithContext(ctx).Save(meeting).Error; err != nil {
		return fmt.Errorf("failed to update meeting: %w", err)
	}
	return nil
}

// Delete removes a meeting; action items cascade at the schema level.
func (r *MeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&entities.Meeting{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	return nil
}
