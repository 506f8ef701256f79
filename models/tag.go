package models

import (
	"time"

	"gorm.io/gorm"
)

// Tag is a free-form label attached to products for filtering
type Tag struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Tag model
func (Tag) TableName() string {
	return "tags"
}
