package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a cake or pastry in the bakery catalog
type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Description   string         `json:"description"`
	Composition   string         `json:"composition"` // newline-separated ingredient list shown on custom orders
	Price         float64        `gorm:"not null;check:price >= 0" json:"price"`
	ImageS3Key    *string        `json:"image_s3_key"`
	ImageURL      *string        `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for image
	CategoryID    *uint          `gorm:"index" json:"category_id"`
	Category      *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags          []Tag          `gorm:"many2many:product_tags" json:"tags"`
	WeightKg      *float64       `json:"weight_kg"` // nullable, used for delivery cost surcharge
	IsCustomOrder bool           `gorm:"not null;default:false" json:"is_custom_order"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
