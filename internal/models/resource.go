package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceType string

const (
	ResourceCourse     ResourceType = "course"
	ResourceMentorship ResourceType = "mentorship"
	ResourceTemplate   ResourceType = "template"
	ResourceArticle    ResourceType = "article"
)

// Resource is a curated improvement resource offered to freelancers who did
// not pass vetting.
type Resource struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title         string       `gorm:"type:varchar(200);not null" json:"title"`
	Description   string       `gorm:"type:text" json:"description"`
	ResourceType  ResourceType `gorm:"type:varchar(20);not null;index" json:"resource_type"`
	URL           string       `gorm:"type:text;not null" json:"url"`
	SkillCategory string       `gorm:"type:varchar(80);index" json:"skill_category"`

	CreatedAt time.Time `json:"created_at"`
}

func (r *Resource) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
