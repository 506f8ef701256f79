package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sokerihelmi/bakery-api/config"
	"github.com/sokerihelmi/bakery-api/services"
	"github.com/sokerihelmi/bakery-api/utils"
)

// DeliveryQuoteRequest is the payload for a delivery cost estimate
type DeliveryQuoteRequest struct {
	Address  string  `json:"address" binding:"required"`
	WeightKg float64 `json:"weight_kg"`
}

// QuoteDelivery handles POST /api/v1/delivery/quote. It geocodes the
// address, checks the delivery zone and prices the trip without creating
// an order.
func QuoteDelivery(c *gin.Context) {
	var req DeliveryQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request format",
				"details": err.Error(),
			},
		})
		return
	}

	if req.WeightKg < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "weight_kg must not be negative",
			},
		})
		return
	}

	cfg := config.GetConfig()

	lat, lng, err := services.GetGeocodeService().Geocode(c.Request.Context(), req.Address)
	if err != nil {
		zap.S().Errorw("Failed to geocode delivery address", "address", req.Address, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GEOCODING_ERROR",
				"message": "Could not resolve the delivery address",
			},
		})
		return
	}

	distanceM := utils.HaversineMeters(cfg.BakeryLat, cfg.BakeryLng, lat, lng)

	if !utils.WithinDeliveryZone(distanceM, cfg.DeliveryZoneRadiusM) {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "OUTSIDE_DELIVERY_ZONE",
				"message": "Address is outside the delivery zone",
			},
			"data": gin.H{
				"distance_m":    distanceM,
				"zone_radius_m": cfg.DeliveryZoneRadiusM,
			},
		})
		return
	}

	cost := utils.DeliveryCost(distanceM, req.WeightKg, utils.DeliveryPricing{
		CostPerKm:            cfg.DeliveryCostPerKm,
		MinCost:              cfg.DeliveryMinCost,
		FreeWeightKg:         cfg.DeliveryFreeWeightKg,
		WeightSurchargePerKg: cfg.DeliveryWeightSurcharge,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"distance_m": distanceM,
			"cost":       cost,
			"lat":        lat,
			"lng":        lng,
		},
	})
}
