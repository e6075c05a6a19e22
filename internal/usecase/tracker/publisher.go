package tracker

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/ShivamSharma6214/MeetAct/errors"
	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
	"github.com/ShivamSharma6214/MeetAct/internal/domain/repositories"
	"github.com/ShivamSharma6214/MeetAct/internal/infrastructure/external/jira"
)

// IssueCreator is the single call the publisher needs from a tracker client
type IssueCreator interface {
	CreateIssue(ctx context.Context, req jira.CreateIssueRequest) (*jira.CreatedIssue, error)
}

// ClientFactory builds a tracker client from a validated credential
type ClientFactory func(cfg *entities.JiraConfig) IssueCreator

// PublishItem is one action item selected for publishing
type PublishItem struct {
	ID          uuid.UUID
	Summary     string
	Description string
	Assignee    string
	DueDate     *time.Time
	Priority    string
}

// CreatedResult records one successfully created external issue
type CreatedResult struct {
	ID      string `json:"id"`
	Key     string `json:"key"`
	Summary string `json:"summary"`
}

// ItemError records one item that failed to publish
type ItemError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// PublishResult always reports both lists; a fully failed batch is still a
// successful publish call
type PublishResult struct {
	Created []CreatedResult `json:"created"`
	Errors  []ItemError     `json:"errors,omitempty"`
}

// Publisher pushes confirmed action items into the user's connected tracker,
// one issue per item, collecting per-item outcomes independently
type Publisher struct {
	integrationRepo repositories.IntegrationRepository
	itemRepo        repositories.ActionItemRepository
	newClient       ClientFactory
	logger          *zap.Logger
}

// NewPublisher creates a new tracker publisher
func NewPublisher(
	integrationRepo repositories.IntegrationRepository,
	itemRepo repositories.ActionItemRepository,
	newClient ClientFactory,
	logger *zap.Logger,
) *Publisher {
	if newClient == nil {
		newClient = func(cfg *entities.JiraConfig) IssueCreator {
			return jira.NewClient(cfg.BaseURL, cfg.Email, cfg.APIToken)
		}
	}
	return &Publisher{
		integrationRepo: integrationRepo,
		itemRepo:        itemRepo,
		newClient:       newClient,
		logger:          logger,
	}
}

// Publish creates one external issue per item. The credential is resolved and
// validated before any network call; one item's failure never aborts the batch.
func (p *Publisher) Publish(ctx context.Context, userID uuid.UUID, items []PublishItem) (*PublishResult, error) {
	if len(items) == 0 {
		return nil, apperrors.ErrInvalidArgument("no action items to publish")
	}

	integration, err := p.integrationRepo.FindByUserAndService(ctx, userID, entities.ServiceJira)
	if err != nil {
		if err == entities.ErrIntegrationNotFound {
			return nil, apperrors.ErrTrackerNotConnected(entities.ServiceJira)
		}
		return nil, apperrors.ErrDBQueryFailed(err)
	}

	cfg, err := integration.JiraConfig()
	if err != nil {
		return nil, apperrors.ErrTrackerInvalidConfig(entities.ServiceJira, "config")
	}
	if missing := cfg.MissingField(); missing != "" {
		return nil, apperrors.ErrTrackerInvalidConfig(entities.ServiceJira, missing)
	}

	client := p.newClient(cfg)

	result := &PublishResult{
		Created: make([]CreatedResult, 0, len(items)),
	}

	for _, item := range items {
		created, err := client.CreateIssue(ctx, buildIssueRequest(cfg.ProjectKey, item))
		if err != nil {
			if p.logger != nil {
				p.logger.Warn("⚠️ Issue creation failed",
					zap.String("item_id", item.ID.String()),
					zap.Error(err),
				)
			}
			result.Errors = append(result.Errors, ItemError{
				ID:    item.ID.String(),
				Error: err.Error(),
			})
			continue
		}

		result.Created = append(result.Created, CreatedResult{
			ID:      created.ID,
			Key:     created.Key,
			Summary: item.Summary,
		})

		// Best-effort write-back of the external key
		if err := p.itemRepo.SetTrackerIssueKey(ctx, item.ID, created.Key); err != nil {
			if p.logger != nil {
				p.logger.Warn("⚠️ Failed to write back issue key",
					zap.String("item_id", item.ID.String()),
					zap.String("issue_key", created.Key),
					zap.Error(err),
				)
			}
		}
	}

	if p.logger != nil {
		p.logger.Info("✅ Publish batch completed",
			zap.String("user_id", userID.String()),
			zap.Int("created", len(result.Created)),
			zap.Int("failed", len(result.Errors)),
		)
	}

	return result, nil
}

// buildIssueRequest maps one item onto the tracker's creation payload:
// priority by direct name match defaulting to Medium, due date truncated to
// its date component, assignee folded into the description
func buildIssueRequest(projectKey string, item PublishItem) jira.CreateIssueRequest {
	req := jira.CreateIssueRequest{
		ProjectKey: projectKey,
		Summary:    item.Summary,
		Priority:   mapPriority(item.Priority),
	}

	var desc []string
	if item.Description != "" {
		desc = append(desc, item.Description)
	}
	if item.Assignee != "" {
		desc = append(desc, "Assignee: "+item.Assignee)
	}
	req.Description = strings.Join(desc, "\n")

	if item.DueDate != nil {
		req.DueDate = item.DueDate.Format("2006-01-02")
	}

	return req
}

func mapPriority(priority string) string {
	switch priority {
	case "Low", "Medium", "High":
		return priority
	default:
		return "Medium"
	}
}
