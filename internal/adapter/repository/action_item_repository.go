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

// ActionItemRepository implements the action item repository interface using GORM
type ActionItemRepository struct {
	db *gorm.DB
}

// NewActionItemRepository creates a new action item repository
func NewActionItemRepository(db *gorm.DB) domainrepo.ActionItemRepository {
	return &ActionItemRepository{db: db}
}

// CreateBatch inserts all items in a single storage call. GORM issues one
// multi-row INSERT, so either every item persists or none does.
func (r *ActionItemRepository) CreateBatch(ctx context.Context, items []*entities.ActionItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(items).Error; err != nil {
		return fmt.Errorf("failed to insert action items: %w", err)
	}
	return nil
}

// FindByID finds an action item by ID
func (r *ActionItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	var item entities.ActionItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrActionItemNotFound
		}
		return nil, fmt.Errorf("failed to find action item by ID: %w", err)
	}
	return &item, nil
}

// ListByMeeting returns the meeting's items in ascending creation order.
func (r *ActionItemRepository) ListByMeeting(ctx context.Context, meetingID, userID uuid.UUID) ([]*entities.ActionItem, error) {
	var items []*entities.ActionItem
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list action items: %w", err)
	}
	return items, nil
}

// Update updates an action item
func (r *ActionItemRepository) Update(ctx context.Context, item *entities.ActionItem) error {
	item.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to update action item: %w", err)
	}
	return nil
}

// SetTrackerIssueKey writes back the external issue key after a publish.
func (r *ActionItemRepository) SetTrackerIssueKey(ctx context.Context, id uuid.UUID, issueKey string) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.ActionItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"tracker_issue_key": issueKey,
			"updated_at":        time.Now(),
		}).Error; err != nil {
		return fmt.Errorf("failed to set tracker issue key: %w", err)
	}
	return nil
}

// Delete deletes an action item
func (r *ActionItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&entities.ActionItem{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete action item: %w", err)
	}
	return nil
}

// ListOpenDueBefore returns open items with a deadline before the cutoff.
func (r *ActionItemRepository) ListOpenDueBefore(ctx context.Context, cutoff time.Time) ([]*entities.ActionItem, error) {
	var items []*entities.ActionItem
	if err := r.db.WithContext(ctx).
		Where("status = ? AND deadline IS NOT NULL AND deadline < ?", entities.StatusOpen, cutoff).
		Order("deadline ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list due action items: %w", err)
	}
	return items, nil
}
