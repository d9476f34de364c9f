package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleCode is a single-use invitation code that grants the lecturer or
// admin role at registration time.
type RoleCode struct {
	ID     uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Code   string     `gorm:"size:10;not null;unique" json:"code"`
	Role   string     `gorm:"size:20;not null" json:"role"`
	Used   bool       `gorm:"default:false" json:"used"`
	UsedBy *uuid.UUID `gorm:"type:uuid" json:"used_by,omitempty"`
	UsedAt *time.Time `json:"used_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (rc *RoleCode) BeforeCreate(tx *gorm.DB) error {
	if rc.ID == uuid.Nil {
		rc.ID = uuid.New()
	}
	return nil
}
