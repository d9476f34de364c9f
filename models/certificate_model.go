package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Certificate is the canonical completion record. Its ID is the sole
// verification key; the fields below are frozen once an anchor exists.
type Certificate struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StudentName    string    `gorm:"size:255;not null" json:"student_name"`
	CourseTitle    string    `gorm:"size:255;not null" json:"course_title"`
	Issuer         string    `gorm:"size:255" json:"issuer"`
	CompletionDate string    `gorm:"size:40" json:"completion_date"`
	StudentEmail   *string   `gorm:"size:255" json:"student_email,omitempty"`
	CreatedBy      uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by"`

	Anchors []CertificateAnchor `gorm:"foreignkey:CertificateID" json:"anchors,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (cert *Certificate) BeforeCreate(tx *gorm.DB) error {
	if cert.ID == uuid.Nil {
		cert.ID = uuid.New()
	}
	return nil
}
