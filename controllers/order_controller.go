package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sokerihelmi/bakery-api/config"
	"github.com/sokerihelmi/bakery-api/models"
	"github.com/sokerihelmi/bakery-api/services"
	"github.com/sokerihelmi/bakery-api/utils"
)

// CreateOrderRequest represents the checkout request body
type CreateOrderRequest struct {
	CustomerName    string            `json:"customer_name" binding:"required"`
	ContactMethod   string            `json:"contact_method" binding:"required"`
	ContactValue    string            `json:"contact_value" binding:"required"`
	Comments        *string           `json:"comments"`
	DeliveryMethod  string            `json:"delivery_method" binding:"required"`
	DeliveryAddress string            `json:"delivery_address"`
	Items           []models.CartItem `json:"items"`
}

// CreateOrder handles POST /api/v1/orders - submits a checkout.
// Validation happens before any collaborator call; the order and its items
// are written in one transaction; the operator notification is best-effort
// and never fails the submission.
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EMPTY_CART",
				"message": "Your cart is empty",
			},
		})
		return
	}

	for _, item := range req.Items {
		if item.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Item quantity must be at least 1",
				},
			})
			return
		}
	}

	if !models.IsValidContactMethod(req.ContactMethod) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Unknown contact method",
			},
		})
		return
	}

	if req.DeliveryMethod != models.DeliveryMethodPickup && req.DeliveryMethod != models.DeliveryMethodDelivery {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Delivery method must be pickup or delivery",
			},
		})
		return
	}

	if req.DeliveryMethod == models.DeliveryMethodDelivery && req.DeliveryAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Delivery address is required for delivery orders",
			},
		})
		return
	}

	// Resolve cart lines against the catalog and snapshot prices
	db := config.GetDB()
	var orderItems []models.OrderItem
	var totalWeightKg float64
	for _, item := range req.Items {
		var product models.Product
		if err := db.First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "PRODUCT_NOT_FOUND",
						"message": "One of the cart items no longer exists",
					},
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to place order, please try again",
				},
			})
			return
		}

		if product.WeightKg != nil {
			totalWeightKg += *product.WeightKg * float64(item.Quantity)
		}
		orderItems = append(orderItems, models.OrderItem{
			ProductID:     product.ID,
			ProductName:   product.Name,
			UnitPrice:     product.Price,
			Quantity:      item.Quantity,
			Composition:   product.Composition,
			IsCustomOrder: product.IsCustomOrder,
			Notes:         item.Notes,
		})
	}

	order := models.Order{
		Reference:      uuid.NewString(),
		CustomerName:   req.CustomerName,
		Comments:       req.Comments,
		DeliveryMethod: req.DeliveryMethod,
		Status:         models.OrderStatusPending,
	}
	order.SetContact(req.ContactMethod, req.ContactValue)

	// Delivery orders get a server-side quote: geocode the address, measure
	// the distance from the bakery, enforce the zone, price the trip.
	if req.DeliveryMethod == models.DeliveryMethodDelivery {
		cfg := config.GetConfig()
		lat, lng, err := services.GetGeocodeService().Geocode(c.Request.Context(), req.DeliveryAddress)
		if err != nil {
			zap.S().Errorw("Failed to geocode delivery address", "error", err)
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "GEOCODING_ERROR",
					"message": "Could not verify the delivery address, please try again",
				},
			})
			return
		}

		distanceM := utils.HaversineMeters(cfg.BakeryLat, cfg.BakeryLng, lat, lng)
		if !utils.WithinDeliveryZone(distanceM, cfg.DeliveryZoneRadiusM) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "OUTSIDE_DELIVERY_ZONE",
					"message": "Sorry, this address is outside our delivery zone",
				},
			})
			return
		}

		order.DeliveryAddress = req.DeliveryAddress
		order.DeliveryDistanceM = distanceM
		order.DeliveryCost = utils.DeliveryCost(distanceM, totalWeightKg, utils.DeliveryPricing{
			CostPerKm:            cfg.DeliveryCostPerKm,
			MinCost:              cfg.DeliveryMinCost,
			FreeWeightKg:         cfg.DeliveryFreeWeightKg,
			WeightSurchargePerKg: cfg.DeliveryWeightSurcharge,
		})
	}

	// Order and items go in one transaction so a failed items write never
	// leaves a dangling order behind.
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		return tx.Create(&orderItems).Error
	})
	if err != nil {
		zap.S().Errorw("Failed to persist order", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to place order, please try again",
			},
		})
		return
	}

	// Notification failure is swallowed: the order is durable, the customer
	// sees success either way.
	if err := services.GetTelegramService().NotifyNewOrder(&order, orderItems); err != nil {
		if errors.Is(err, services.ErrRateLimited) {
			zap.S().Warnw("Order notification rate limited", "reference", order.Reference)
		} else {
			zap.S().Errorw("Failed to send order notification", "reference", order.Reference, "error", err)
		}
	}

	order.Items = orderItems
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetOrder handles GET /api/v1/orders/:reference - looks up an order by its
// public reference so a customer can check their submission.
func GetOrder(c *gin.Context) {
	reference := c.Param("reference")

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Items").Where("reference = ?", reference).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
