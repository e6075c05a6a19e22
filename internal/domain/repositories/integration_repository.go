package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
)

// IntegrationRepository defines credential persistence operations.
type IntegrationRepository interface {
	// Upsert creates or replaces the single credential for (user, service).
	Upsert(ctx context.Context, integration *entities.Integration) error

	FindByUserAndService(ctx context.Context, userID uuid.UUID, service string) (*entities.Integration, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Integration, error)
	Delete(ctx context.Context, userID uuid.UUID, service string) error
}
