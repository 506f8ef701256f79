package models

// CartItem is one line of a client-side cart submitted at checkout. It is
// never persisted itself; the checkout flow turns it into an OrderItem with
// price and name snapshots taken from the catalog.
type CartItem struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Notes     *string `json:"notes,omitempty"`
}
