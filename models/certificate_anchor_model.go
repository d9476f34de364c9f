package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateAnchor records one upload of a rendered artifact to the
// content-addressed ledger. Rows are append-only: a transaction id is
// never overwritten, re-anchoring inserts a new row.
type CertificateAnchor struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CertificateID uuid.UUID `gorm:"type:uuid;not null;index" json:"certificate_id"`
	FileType      string    `gorm:"size:50;not null" json:"file_type"`
	TransactionID string    `gorm:"size:100;not null;uniqueIndex" json:"transaction_id"`
	URL           string    `gorm:"type:text;not null" json:"url"`
	UploadedAt    time.Time `gorm:"not null" json:"uploaded_at"`
}

func (a *CertificateAnchor) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
