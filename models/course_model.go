package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Semester string    `gorm:"size:20;not null" json:"semester"`
	Year     string    `gorm:"size:8;not null" json:"year"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (course *Course) BeforeCreate(tx *gorm.DB) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	return nil
}
