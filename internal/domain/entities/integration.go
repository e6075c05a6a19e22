package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Service names for external integrations.
const (
	ServiceJira = "jira"
)

// Integration is one external-service connection, unique per (user, service).
// Config carries the service-specific credential variant as JSONB; the
// Service field tags which variant to decode.
type Integration struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_service"`
	Service    string         `json:"service" gorm:"type:varchar(50);not null;uniqueIndex:idx_user_service"`
	Config     datatypes.JSON `json:"-" gorm:"type:jsonb;not null"` // never expose credentials
	ResourceID *string        `json:"resource_id,omitempty" gorm:"type:varchar(255)"`
	ExpiresAt  *time.Time     `json:"expires_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Integration) TableName() string {
	return "integrations"
}

// JiraConfig is the credential variant stored for the Jira service.
type JiraConfig struct {
	BaseURL    string `json:"base_url"`
	Email      string `json:"email"`
	APIToken   string `json:"api_token"`
	ProjectKey string `json:"project_key"`
}

// MissingField returns the name of the first required field that is empty,
// or "" when the config is structurally complete.
func (c *JiraConfig) MissingField() string {
	switch {
	case c.BaseURL == "":
		return "base_url"
	case c.Email == "":
		return "email"
	case c.APIToken == "":
		return "api_token"
	case c.ProjectKey == "":
		return "project_key"
	}
	return ""
}

// NewJiraIntegration creates a Jira integration for the given user.
func NewJiraIntegration(userID uuid.UUID, cfg JiraConfig) (*Integration, error) {
	blob, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Integration{
		ID:        uuid.New(),
		UserID:    userID,
		Service:   ServiceJira,
		Config:    blob,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// JiraConfig decodes the stored credential blob as the Jira variant.
func (i *Integration) JiraConfig() (*JiraConfig, error) {
	if i.Service != ServiceJira {
		return nil, ErrWrongIntegrationService
	}
	var cfg JiraConfig
	if err := json.Unmarshal(i.Config, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
