package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentType is the declared category of an uploaded graduate document.
type DocumentType string

const (
	DocTypeMomentoOLE    DocumentType = "momento_ole"
	DocTypeDatosEgresado DocumentType = "datos_egresados"
	DocTypeBolsaEmpleo   DocumentType = "bolsa_empleo"
	DocTypeOther         DocumentType = "otro"

	// DocTypeUnified marks the generated composite artifact. Rows of this
	// type never feed back into completeness checks or assembly input.
	DocTypeUnified DocumentType = "unificado"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocTypeMomentoOLE, DocTypeDatosEgresado, DocTypeBolsaEmpleo, DocTypeOther, DocTypeUnified:
		return true
	}
	return false
}

type GraduateDocument struct {
	ID         uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GraduateID uuid.UUID    `gorm:"type:uuid;not null;index" json:"graduate_id"`
	Graduate   *Graduate    `gorm:"constraint:OnDelete:CASCADE;foreignKey:GraduateID;references:ID" json:"graduate,omitempty"`
	Type       DocumentType `gorm:"column:type;not null" json:"type"`

	OriginalName string `gorm:"column:original_name;not null" json:"original_name"`
	StorageKey   string `gorm:"column:storage_key;not null" json:"storage_key"`
	SizeBytes    int64  `gorm:"column:size_bytes" json:"size_bytes"`
	MimeType     string `gorm:"column:mime_type" json:"mime_type"`
	Unified      bool   `gorm:"column:unified;not null;default:false" json:"unified"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (GraduateDocument) TableName() string { return "graduate_document" }
