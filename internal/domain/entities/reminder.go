package entities

import (
	"time"

	"github.com/google/uuid"
)

// Reminder is one logged deadline notification for an action item.
type Reminder struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	ActionItemID uuid.UUID `json:"action_item_id" gorm:"type:uuid;not null;uniqueIndex:idx_item_due"`
	DueAt        time.Time `json:"due_at" gorm:"not null;uniqueIndex:idx_item_due"`
	SentAt       time.Time `json:"sent_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Reminder) TableName() string {
	return "reminders"
}

// NewReminder logs a reminder for an item's deadline.
func NewReminder(userID, itemID uuid.UUID, dueAt time.Time) *Reminder {
	return &Reminder{
		ID:           uuid.New(),
		UserID:       userID,
		ActionItemID: itemID,
		DueAt:        dueAt,
		SentAt:       time.Now(),
	}
}
