package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
)

// MeetingRepository defines meeting persistence operations.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Meeting, error)

	// FindLatestByAudioURL returns the most recently created meeting of the
	// user whose audio reference matches, or nil when none matches.
	FindLatestByAudioURL(ctx context.Context, userID uuid.UUID, audioURL string) (*entities.Meeting, error)

	// MarkProcessed stores the resolved transcript and stamps processed_at.
	MarkProcessed(ctx context.Context, id uuid.UUID, transcript string, processedAt time.Time) error

	Update(ctx context.Context, meeting *entities.Meeting) error
	Delete(ctx context.Context, id uuid.UUID) error
}
