package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Graduate struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AuthUID            string    `gorm:"column:auth_uid;uniqueIndex;not null" json:"auth_uid"`
	FirstName          string    `gorm:"column:first_name;not null" json:"first_name"`
	LastName           string    `gorm:"column:last_name;not null" json:"last_name"`
	InstitutionalEmail string    `gorm:"column:institutional_email;not null" json:"institutional_email"`
	CareerName         string    `gorm:"column:career_name" json:"career_name"`

	// Derived flags, written only by the side-effect dispatcher after a
	// strict-path unified generation commits.
	ProcessComplete       bool `gorm:"column:process_complete;not null;default:false" json:"process_complete"`
	SelfAssessmentEnabled bool `gorm:"column:self_assessment_enabled;not null;default:false" json:"self_assessment_enabled"`

	// Fingerprint of the required document ids the last unified artifact was
	// assembled from. An unchanged fingerprint skips strict regeneration.
	UnifiedFingerprint string `gorm:"column:unified_fingerprint" json:"-"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Graduate) TableName() string { return "graduate" }

func (g *Graduate) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(g.FirstName) + " " + strings.TrimSpace(g.LastName))
}
