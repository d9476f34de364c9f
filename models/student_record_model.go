package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentRecord struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Filename string    `gorm:"size:255;not null" json:"filename"`
	FileURL  string    `gorm:"type:text;not null" json:"file_url"`
	PublicID string    `gorm:"size:255;not null" json:"-"`
	Type     string    `gorm:"size:20;not null" json:"type"`

	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (r *StudentRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
