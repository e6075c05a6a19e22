package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority is the urgency level of an action item.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// IsValid checks if the priority is one of the enumerated levels.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// NormalizePriority maps arbitrary input onto the enumeration, defaulting to
// Medium for empty or unrecognized values. Matching is case-insensitive since
// the value usually comes from model output.
func NormalizePriority(raw string) Priority {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return PriorityLow
	case "high":
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// ItemStatus is the completion state of an action item. Transitions are
// unconstrained; any value may be set at any time.
type ItemStatus string

const (
	StatusOpen       ItemStatus = "Open"
	StatusInProgress ItemStatus = "In Progress"
	StatusDone       ItemStatus = "Done"
)

// IsValid checks if the status is one of the enumerated states.
func (s ItemStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

const (
	// ReviewConfidenceThreshold flags items for manual review in the UI.
	// It never blocks persistence or publishing.
	ReviewConfidenceThreshold = 0.7

	// DefaultExtractionConfidence is applied when the model omits a score.
	DefaultExtractionConfidence = 0.8

	// PlaceholderTask labels an extracted item whose task text was missing.
	PlaceholderTask = "Untitled action item"
)

// ActionItem is one extracted task belonging to exactly one meeting and user.
type ActionItem struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID          uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	MeetingID       uuid.UUID  `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Task            string     `json:"task" gorm:"type:text;not null"`
	Owner           *string    `json:"owner,omitempty" gorm:"type:varchar(255)"`
	OwnerContact    *string    `json:"owner_contact,omitempty" gorm:"type:varchar(255)"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	Priority        Priority   `json:"priority" gorm:"type:varchar(20);default:'Medium';not null"`
	Status          ItemStatus `json:"status" gorm:"type:varchar(20);default:'Open';not null"`
	Confidence      float64    `json:"confidence" gorm:"default:1.0;not null"`
	Notes           *string    `json:"notes,omitempty" gorm:"type:text"`
	TrackerIssueKey *string    `json:"tracker_issue_key,omitempty" gorm:"type:varchar(100)"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ActionItem) TableName() string {
	return "action_items"
}

// NewActionItem creates an action item with default values.
func NewActionItem(userID, meetingID uuid.UUID, task string) *ActionItem {
	now := time.Now()
	return &ActionItem{
		ID:         uuid.New(),
		UserID:     userID,
		MeetingID:  meetingID,
		Task:       task,
		Priority:   PriorityMedium,
		Status:     StatusOpen,
		Confidence: 1.0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NeedsReview reports whether the item's confidence is below the manual
// review threshold.
func (a *ActionItem) NeedsReview() bool {
	return a.Confidence < ReviewConfidenceThreshold
}
