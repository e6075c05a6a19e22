package entities

import (
	"time"

	"github.com/google/uuid"
)

// User is an identity row for a signed-in account. Authentication itself is
// delegated to the external identity provider; this record only anchors
// ownership of meetings, items and integrations.
type User struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email       string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name        string     `json:"name" gorm:"type:varchar(255);not null"`
	AvatarURL   *string    `json:"avatar_url,omitempty" gorm:"type:varchar(500)"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a user record from identity-provider profile data.
func NewUser(email, name string) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateLastLogin updates the last login timestamp
func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}
