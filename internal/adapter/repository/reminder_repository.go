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

// ReminderRepository implements the reminder log using GORM
type ReminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *gorm.DB) domainrepo.ReminderRepository {
	return &ReminderRepository{db: db}
}

// Create logs a reminder row
func (r *ReminderRepository) Create(ctx context.Context, reminder *entities.Reminder) error {
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

// Exists reports whether a reminder was already logged for the item and due
// date.
func (r *ReminderRepository) Exists(ctx context.Context, itemID uuid.UUID, dueAt time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Reminder{}).
		Where("action_item_id = ? AND due_at = ?", itemID, dueAt).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check reminder existence: %w", err)
	}
	return count > 0, nil
}
