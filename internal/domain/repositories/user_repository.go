package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
}

// ReminderRepository defines reminder log operations.
type ReminderRepository interface {
	Create(ctx context.Context, reminder *entities.Reminder) error

	// Exists reports whether a reminder was already logged for this item and
	// due date, so the worker never double-logs.
	Exists(ctx context.Context, itemID uuid.UUID, dueAt time.Time) (bool, error)
}
