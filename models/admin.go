package models

import (
	"time"

	"gorm.io/gorm"
)

// AdminUser is an allow-list entry mapping a Telegram user id to an active
// flag. Only active entries may run bot commands.
type AdminUser struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	TelegramID int64          `gorm:"uniqueIndex;not null" json:"telegram_id"`
	FirstName  string         `json:"first_name"`
	Username   string         `json:"username"`
	IsActive   bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the AdminUser model
func (AdminUser) TableName() string {
	return "admin_allowlist"
}
