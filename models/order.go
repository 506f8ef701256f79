package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Delivery methods
const (
	DeliveryMethodPickup   = "pickup"
	DeliveryMethodDelivery = "delivery"
)

// Contact methods a customer can choose on checkout
const (
	ContactMethodPhone     = "phone"
	ContactMethodEmail     = "email"
	ContactMethodWhatsApp  = "whatsapp"
	ContactMethodInstagram = "instagram"
	ContactMethodFacebook  = "facebook"
)

// Order represents a customer's submitted purchase intent
type Order struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Reference     string `gorm:"uniqueIndex;not null" json:"reference"` // public UUID handed to the customer
	CustomerName  string `gorm:"not null" json:"customer_name"`
	ContactMethod string `gorm:"not null" json:"contact_method"`

	// Exactly one of these is populated, matching ContactMethod.
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	WhatsApp  string `json:"whatsapp,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`

	Comments *string `json:"comments,omitempty"`

	DeliveryMethod    string  `gorm:"not null" json:"delivery_method"` // pickup or delivery
	DeliveryAddress   string  `json:"delivery_address,omitempty"`      // empty when pickup
	DeliveryCost      float64 `json:"delivery_cost"`                   // zero when pickup
	DeliveryDistanceM float64 `json:"delivery_distance_m,omitempty"`

	Status    string         `gorm:"not null;default:'pending'" json:"status"`
	Items     []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ContactValue returns the contact field matching the chosen contact method.
func (o *Order) ContactValue() string {
	switch o.ContactMethod {
	case ContactMethodPhone:
		return o.Phone
	case ContactMethodEmail:
		return o.Email
	case ContactMethodWhatsApp:
		return o.WhatsApp
	case ContactMethodInstagram:
		return o.Instagram
	case ContactMethodFacebook:
		return o.Facebook
	}
	return ""
}

// SetContact populates the field matching the chosen contact method and
// clears the others, keeping the one-contact-per-order invariant.
func (o *Order) SetContact(method, value string) {
	o.ContactMethod = method
	o.Phone, o.Email, o.WhatsApp, o.Instagram, o.Facebook = "", "", "", "", ""
	switch method {
	case ContactMethodPhone:
		o.Phone = value
	case ContactMethodEmail:
		o.Email = value
	case ContactMethodWhatsApp:
		o.WhatsApp = value
	case ContactMethodInstagram:
		o.Instagram = value
	case ContactMethodFacebook:
		o.Facebook = value
	}
}

// IsValidContactMethod reports whether the given contact method is recognized.
func IsValidContactMethod(method string) bool {
	switch method {
	case ContactMethodPhone, ContactMethodEmail, ContactMethodWhatsApp,
		ContactMethodInstagram, ContactMethodFacebook:
		return true
	}
	return false
}

// OrderItem is one catalog product line within an order. Product fields are
// snapshotted at order time so later catalog edits never change the order.
type OrderItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderID       uint      `gorm:"not null;index" json:"order_id"`
	ProductID     uint      `gorm:"not null;index" json:"product_id"`
	ProductName   string    `gorm:"not null" json:"product_name"`
	UnitPrice     float64   `gorm:"not null" json:"unit_price"`
	Quantity      int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	Composition   string    `json:"composition,omitempty"`
	IsCustomOrder bool      `gorm:"not null;default:false" json:"is_custom_order"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns the snapshot price times quantity.
func (i *OrderItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}
