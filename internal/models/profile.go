package models

import (
	"time"

	"github.com/google/uuid"
)

type UserType string

const (
	UserFreelancer UserType = "freelancer"
	UserAdmin      UserType = "admin"
)

// Profile is the application-level user record, keyed by the identity id.
// It is created by the profile-intake flow, never at signup: inserting it
// before the new session is fully established would race the row-ownership
// check.
type Profile struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserType UserType  `gorm:"type:varchar(20);not null;default:'freelancer';index" json:"user_type"`
	FullName string    `gorm:"type:varchar(120);not null" json:"full_name"`
	Email    string    `gorm:"type:varchar(150);not null;index" json:"email"`
	Phone    string    `gorm:"type:varchar(30)" json:"phone,omitempty"`

	AvatarURL string `gorm:"type:text" json:"avatar_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// HAS ONE freelancer_profile (freelancer_profiles.user_id -> profiles.id)
	FreelancerProfile *FreelancerProfile `gorm:"foreignKey:UserID;references:ID" json:"freelancer_profile,omitempty"`
}
