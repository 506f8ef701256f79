package utils

import (
	"fmt"
	"strings"

	"github.com/sokerihelmi/bakery-api/models"
)

// FormatOrderMessage renders an order into the plain-text notification sent
// to the operator chat. It is a pure function: identical inputs always
// produce the identical string. Callers must not pass an order without items
// (checkout validates the cart upstream).
func FormatOrderMessage(order *models.Order, items []models.OrderItem) string {
	var b strings.Builder

	b.WriteString("🎂 New Order Received!\n\n")

	b.WriteString("👤 Customer Details:\n")
	b.WriteString(fmt.Sprintf("Name: %s\n", order.CustomerName))
	writeContactLines(&b, order)

	if order.Comments != nil && *order.Comments != "" {
		b.WriteString(fmt.Sprintf("\n💬 Additional Comments:\n%s\n", *order.Comments))
	}

	b.WriteString("\n🛒 Order Items:\n")
	var subtotal float64
	for _, item := range items {
		subtotal += item.LineTotal()
		b.WriteString(fmt.Sprintf("- %dx %s (€%.2f)\n", item.Quantity, item.ProductName, item.LineTotal()))
		if item.Notes != nil && *item.Notes != "" {
			b.WriteString(fmt.Sprintf("  Note: %s\n", *item.Notes))
		}
		if item.IsCustomOrder && item.Composition != "" {
			for _, line := range strings.Split(item.Composition, "\n") {
				b.WriteString(fmt.Sprintf("    %s\n", line))
			}
		}
	}

	b.WriteString(fmt.Sprintf("\n💰 Subtotal: €%.2f\n", subtotal))

	if order.DeliveryMethod == models.DeliveryMethodDelivery {
		b.WriteString("\n🚚 Delivery:\n")
		b.WriteString(fmt.Sprintf("Address: %s\n", order.DeliveryAddress))
		if order.DeliveryDistanceM > 0 {
			b.WriteString(fmt.Sprintf("Distance: %.1f km\n", order.DeliveryDistanceM/1000))
		}
		b.WriteString(fmt.Sprintf("Cost: €%.2f\n", order.DeliveryCost))
	} else {
		b.WriteString("\n🏠 Pickup from bakery\n")
	}

	b.WriteString(fmt.Sprintf("\n💰 Total: €%.2f\n", subtotal+order.DeliveryCost))
	b.WriteString(fmt.Sprintf("\n📅 Order Date: %s\n", order.CreatedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("🔑 Order ID: %s\n", order.Reference))
	b.WriteString(fmt.Sprintf("\nStatus: %s\n", strings.ToUpper(order.Status)))

	return b.String()
}

// writeContactLines prints whichever contact fields are populated. Orders
// created through checkout carry exactly one.
func writeContactLines(b *strings.Builder, order *models.Order) {
	if order.Phone != "" {
		b.WriteString(fmt.Sprintf("Phone: %s\n", order.Phone))
	}
	if order.Email != "" {
		b.WriteString(fmt.Sprintf("Email: %s\n", order.Email))
	}
	if order.WhatsApp != "" {
		b.WriteString(fmt.Sprintf("WhatsApp: %s\n", order.WhatsApp))
	}
	if order.Instagram != "" {
		b.WriteString(fmt.Sprintf("Instagram: %s\n", order.Instagram))
	}
	if order.Facebook != "" {
		b.WriteString(fmt.Sprintf("Facebook: %s\n", order.Facebook))
	}
}
