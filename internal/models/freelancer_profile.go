package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VettingStatus string

const (
	StatusOnboarded VettingStatus = "onboarded"
	StatusMatched   VettingStatus = "matched"
	StatusReviewed  VettingStatus = "reviewed"
	StatusRejected  VettingStatus = "rejected"
)

// ValidVettingStatus reports whether s is one of the four vetting states.
func ValidVettingStatus(s VettingStatus) bool {
	switch s {
	case StatusOnboarded, StatusMatched, StatusReviewed, StatusRejected:
		return true
	}
	return false
}

// CanRequestReviews: only vetted freelancers may submit paid review requests.
func (s VettingStatus) CanRequestReviews() bool {
	return s == StatusMatched || s == StatusReviewed
}

type FreelancerProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	// Skills keep submission order, surrounding whitespace trimmed, duplicates allowed.
	Skills         datatypes.JSONSlice[string] `json:"skills"`
	PortfolioURL   string                      `gorm:"type:text" json:"portfolio_url,omitempty"`
	CredentialsURL string                      `gorm:"type:text" json:"credentials_url,omitempty"`
	Preferences    datatypes.JSONMap           `json:"preferences"`

	Status       VettingStatus `gorm:"type:varchar(20);not null;default:'onboarded';index" json:"status"`
	VettingNotes string        `gorm:"type:text" json:"vetting_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *Profile `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

func (p *FreelancerProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
