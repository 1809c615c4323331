package types

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GraduateID uuid.UUID `gorm:"type:uuid;not null;index" json:"graduate_id"`
	Graduate   *Graduate `gorm:"constraint:OnDelete:CASCADE;foreignKey:GraduateID;references:ID" json:"graduate,omitempty"`

	Title     string `gorm:"column:title;not null" json:"title"`
	Message   string `gorm:"column:message;not null" json:"message"`
	Category  string `gorm:"column:category;not null" json:"category"`
	ActionURL string `gorm:"column:action_url" json:"action_url"`
	Read      bool   `gorm:"column:read;not null;default:false" json:"read"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Notification) TableName() string { return "notification" }
