package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
)

// ActionItemRepository defines action item persistence operations.
type ActionItemRepository interface {
	// CreateBatch inserts all items in one storage call; on failure no item
	// is considered persisted.
	CreateBatch(ctx context.Context, items []*entities.ActionItem) error

	FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)

	// ListByMeeting returns the meeting's items in ascending creation order.
	ListByMeeting(ctx context.Context, meetingID, userID uuid.UUID) ([]*entities.ActionItem, error)

	Update(ctx context.Context, item *entities.ActionItem) error

	// SetTrackerIssueKey writes back the external issue key after a publish.
	SetTrackerIssueKey(ctx context.Context, id uuid.UUID, issueKey string) error

	Delete(ctx context.Context, id uuid.UUID) error

	// ListOpenDueBefore returns open items with a deadline before the cutoff,
	// for the reminder worker.
	ListOpenDueBefore(ctx context.Context, cutoff time.Time) ([]*entities.ActionItem, error)
}
