package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageType string

const (
	MessageSupport     MessageType = "support"
	MessageGeneral     MessageType = "general"
	MessagePartnership MessageType = "partnership"
	MessageOther       MessageType = "other"
)

func ValidMessageType(t MessageType) bool {
	switch t {
	case MessageSupport, MessageGeneral, MessagePartnership, MessageOther:
		return true
	}
	return false
}

// ContactSubmission is write-only from the public site; nothing in this
// service reads it back except operators going straight to the database.
type ContactSubmission struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string      `gorm:"type:varchar(120);not null" json:"name"`
	Email       string      `gorm:"type:varchar(150);not null" json:"email"`
	MessageType MessageType `gorm:"type:varchar(20);not null;default:'general'" json:"message_type"`
	Message     string      `gorm:"type:text;not null" json:"message"`
	Status      string      `gorm:"type:varchar(20);not null;default:'new'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
}

func (s *ContactSubmission) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
