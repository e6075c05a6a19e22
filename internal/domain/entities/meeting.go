package entities

import (
	"time"

	"github.com/google/uuid"
)

// Meeting represents one real-world meeting owned by a single user.
type Meeting struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"type:varchar(255);not null"`
	MeetingDate time.Time  `json:"meeting_date" gorm:"not null"`
	Transcript  *string    `json:"transcript,omitempty" gorm:"type:text"`
	AudioURL    *string    `json:"audio_url,omitempty" gorm:"type:varchar(1024);index"`
	// ProcessedAt is set only after extraction completes; never before a
	// transcript exists.
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a meeting owned by the given user.
func NewMeeting(userID uuid.UUID, title string, meetingDate time.Time) *Meeting {
	now := time.Now()
	if meetingDate.IsZero() {
		meetingDate = now
	}
	return &Meeting{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		MeetingDate: meetingDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsOwnedBy reports whether the meeting belongs to the given user.
func (m *Meeting) IsOwnedBy(userID uuid.UUID) bool {
	return m.UserID == userID
}
