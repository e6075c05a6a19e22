package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
	domainrepo "github.com/ShivamSharma6214/MeetAct/internal/domain/repositories"
)

// IntegrationRepository implements the integration repository interface using GORM
type IntegrationRepository struct {
	db *gorm.DB
}

// NewIntegrationRepository creates a new integration repository
func NewIntegrationRepository(db *gorm.DB) domainrepo.IntegrationRepository {
	return &IntegrationRepository{db: db}
}

// Upsert creates or replaces the single credential for (user, service).
func (r *IntegrationRepository) Upsert(ctx context.Context, integration *entities.Integration) error {
	integration.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "service"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"config", "resource_id", "expires_at", "updated_at",
			}),
		}).
		Create(integration).Error; err != nil {
		return fmt.Errorf("failed to upsert integration: %w", err)
	}
	return nil
}

// FindByUserAndService finds the credential stored for (user, service).
func (r *IntegrationRepository) FindByUserAndService(ctx context.Context, userID uuid.UUID, service string) (*entities.Integration, error) {
	var integration entities.Integration
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND service = ?", userID, service).
		First(&integration).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrIntegrationNotFound
		}
		return nil, fmt.Errorf("failed to find integration: %w", err)
	}
	return &integration, nil
}

// ListByUser lists all of a user's integrations.
func (r *IntegrationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Integration, error) {
	var integrations []*entities.Integration
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("service ASC").
		Find(&integrations).Error; err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	return integrations, nil
}

// Delete removes the credential for (user, service).
func (r *IntegrationRepository) Delete(ctx context.Context, userID uuid.UUID, service string) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND service = ?", userID, service).
		Delete(&entities.Integration{}).Error; err != nil {
		return fmt.Errorf("failed to delete integration: %w", err)
	}
	return nil
}
