package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestCompleted RequestStatus = "completed"
)

func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected, RequestCompleted:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type ReviewRequest struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;index;not null" json:"freelancer_id"`

	ReviewDescription string                      `gorm:"type:text;not null" json:"review_description"`
	PaymentAmount     float64                     `gorm:"type:numeric(10,2);not null" json:"payment_amount"`
	Platforms         datatypes.JSONSlice[string] `json:"platforms"`
	AdditionalInfo    string                      `gorm:"type:text" json:"additional_info,omitempty"`

	Status        RequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentID     string        `gorm:"type:varchar(80)" json:"payment_id,omitempty"`
	AdminNotes    string        `gorm:"type:text" json:"admin_notes,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	FreelancerProfile *FreelancerProfile `gorm:"foreignKey:FreelancerID;references:ID" json:"freelancer_profile,omitempty"`
}

func (r *ReviewRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
