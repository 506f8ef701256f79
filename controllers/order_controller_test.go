package controllers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sokerihelmi/bakery-api/config"
	"github.com/sokerihelmi/bakery-api/models"
	"github.com/sokerihelmi/bakery-api/services"
)

func orderTestConfig() *config.Config {
	return &config.Config{
		BakeryLat:               60.442764,
		BakeryLng:               22.359507,
		DeliveryCostPerKm:       2,
		DeliveryMinCost:         5,
		DeliveryFreeWeightKg:    5,
		DeliveryWeightSurcharge: 1,
		DeliveryZoneRadiusM:     20000,
	}
}

func setupOrderTest(t *testing.T) (*services.MockTelegramService, *services.MockGeocodeService) {
	db := setupTestDB(t)
	config.SetDB(db)
	config.SetConfig(orderTestConfig())

	telegram := services.NewMockTelegramService()
	telegram.SetAsMockForTesting()

	geocoder := services.NewMockGeocodeService()
	geocoder.SetAsMockForTesting()

	return telegram, geocoder
}

func pickupOrderBody(items ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"customer_name":   "Maria Virtanen",
		"contact_method":  "phone",
		"contact_value":   "+358401234567",
		"delivery_method": "pickup",
		"items":           items,
	}
}

func TestCreateOrder_Pickup(t *testing.T) {
	telegram, _ := setupOrderTest(t)
	db := config.GetDB()

	seedProduct(t, db, "Chocolate Dream", 89.50)

	router := setupTestRouter()
	router.POST("/orders", CreateOrder)

	w := performJSON(router, http.MethodPost, "/orders", pickupOrderBody(
		map[string]interface{}{"product_id": 1, "quantity": 2},
	))
	assert.Equal(t, http.StatusCreated, w.Code)

	response := decodeResponse(t, w)
	assert.True(t, response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.NotEmpty(t, data["reference"])
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, float64(0), data["delivery_cost"])

	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.Equal(t, "Chocolate Dream", line["product_name"])
	assert.Equal(t, 89.50, line["unit_price"])
	assert.Equal(t, float64(2), line["quantity"])

	// Operator notification was sent with the totals
	sent := telegram.SentMessages()
	assert.Len(t, sent, 1)
	assert.Contains(t, sent[0], "Maria Virtanen")
	assert.Contains(t, sent[0], "€179.00")

	// Order and items persisted
	var orderCount, itemCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.OrderItem{}).Count(&itemCount)
	assert.Equal(t, int64(1), orderCount)
	assert.Equal(t, int64(1), itemCount)
}

func TestCreateOrder_Delivery(t *testing.T) {
	telegram, geocoder := setupOrderTest(t)
	db := config.GetDB()

	// Address roughly 9 km from the bakery
	geocoder.AddAddress("Maariankatu 1, Raisio", 60.485, 22.21)

	weight := 4.0
	product := seedProduct(t, db, "Wedding Classic", 250)
	db.Model(&product).Update("weight_kg", weight)

	router := setupTestRouter()
	router.POST("/orders", CreateOrder)

	body := pickupOrderBody(map[string]interface{}{"product_id": 1, "quantity": 2})
	body["delivery_method"] = "delivery"
	body["delivery_address"] = "Maariankatu 1, Raisio"

	w := performJSON(router, http.MethodPost, "/orders", body)
	assert.Equal(t, http.StatusCreated, w.Code)

	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Maariankatu 1, Raisio", data["delivery_address"])

	distance := data["delivery_distance_m"].(float64)
	assert.Greater(t, distance, 5000.0)
	assert.Less(t, distance, 20000.0)

	// 2x 4 kg puts 3 kg over the free allowance
	cost := data["delivery_cost"].(float64)
	assert.GreaterOrEqual(t, cost, 5.0)
	assert.Equal(t, cost, float64(int(cost)), "cost is rounded to whole euros")

	sent := telegram.SentMessages()
	assert.Len(t, sent, 1)
	assert.Contains(t, sent[0], "🚚 Delivery:")
}

func TestCreateOrder_OutsideDeliveryZone(t *testing.T) {
	_, geocoder := setupOrderTest(t)
	db := config.GetDB()

	// Helsinki is far beyond the zone
	geocoder.AddAddress("Mannerheimintie 1, Helsinki", 60.169857, 24.938379)
	seedProduct(t, db, "Chocolate Dream", 89.50)

	router := setupTestRouter()
	router.POST("/orders", CreateOrder)

	body := pickupOrderBody(map[string]interface{}{"product_id": 1, "quantity": 1})
	body["delivery_method"] = "delivery"
	body["delivery_address"] = "Mannerheimintie 1, Helsinki"

	w := performJSON(router, http.MethodPost, "/orders", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	response := decodeResponse(t, w)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "OUTSIDE_DELIVERY_ZONE", errorData["code"])

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateOrder_GeocodingFailure(t *testing.T) {
	_, geocoder := setupOrderTest(t)
	db := config.GetDB()

	geocoder.FailWith(errors.New("provider down"))
	seedProduct(t, db, "Chocolate Dream", 89.50)

	router := setupTestRouter()
	router.POST("/orders", CreateOrder)

	body := pickupOrderBody(map[string]interface{}{"product_id": 1, "quantity": 1})
	body["delivery_method"] = "delivery"
	body["delivery_address"] = "Somewhere 1"

	w := performJSON(router, http.MethodPost, "/orders", body)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	response := decodeResponse(t, w)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "GEOCODING_ERROR", errorData["code"])
}

func TestCreateOrder_Validation(t *testing.T) {
	telegram, _ := setupOrderTest(t)
	db := config.GetDB()

	seedProduct(t, db, "Chocolate Dream", 89.50)

	router := setupTestRouter()
	router.POST("/orders", CreateOrder)

	validItem := map[string]interface{}{"product_id": 1, "quantity": 1}

	tests := []struct {
		name         string
		mutate       func(body map[string]interface{})
		expectedCode string
		expectedHTTP int
	}{
		{
			name:         "empty cart",
			mutate:       func(b map[string]interface{}) { b["items"] = []map[string]interface{}{} },
			expectedCode: "EMPTY_CART",
			expectedHTTP: http.StatusBadRequest,
		},
		{
			name: "zero quantity",
			mutate: func(b map[string]interface{}) {
				b["items"] = []map[string]interface{}{{"product_id": 1, "quantity": 0}}
			},
			expectedCode: "VALIDATION_ERROR",
			expectedHTTP: http.StatusBadRequest,
		},
		{
			name:         "missing customer name",
			mutate:       func(b map[string]interface{}) { delete(b, "customer_name") },
			expectedCode: "VALIDATION_ERROR",
			expectedHTTP: http.StatusBadRequest,
		},
		{
			name:         "unknown contact method",
			mutate:       func(b map[string]interface{}) { b["contact_method"] = "carrier-pigeon" },
			expectedCode: "VALIDATION_ERROR",
			expectedHTTP: http.StatusBadRequest,
		},
		{
			name:         "unknown delivery method",
			mutate:       func(b map[string]interface{}) { b["delivery_method"] = "teleport" },
			expectedCode: "VALIDATION_ERROR",
			expectedHTTP: http.StatusBadRequest,
		},
		{
			name:         "delivery without address",
			mutate:       func(b map[string]interface{}) { b["delivery_method"] = "delivery" },
			expectedCode: "VALIDATION_ERROR",
			expectedHTTP: http.StatusBadRequest,
		},
		{
			name: "unknown product",
			mutate: func(b map[string]interface{}) {
				b["items"] = []map[string]interface{}{{"product_id": 99, "quantity": 1}}
			},
			expectedCode: "PRODUCT_NOT_FOUND",
			expectedHTTP: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := pickupOrderBody(validItem)
			tt.mutate(body)

			w := performJSON(router, http.MethodPost, "/orders", body)
			assert.Equal(t, tt.expectedHTTP, w.Code)

			response := decodeResponse(t, w)
			errorData := response["error"].(map[string]interface{})
			assert.Equal(t, tt.expectedCode, errorData["code"])
		})
	}

	// No order was written and nothing was notified
	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
	assert.Empty(t, telegram.SentMessages())
}

func TestCreateOrder_NotificationFailureStillSucceeds(t *testing.T) {
	telegram, _ := setupOrderTest(t)
	db := config.GetDB()

	telegram.FailWith(errors.New("telegram is down"))
	seedProduct(t, db, "Chocolate Dream", 89.50)

	router := setupTestRouter()
	router.POST("/orders", CreateOrder)

	w := performJSON(router, http.MethodPost, "/orders", pickupOrderBody(
		map[string]interface{}{"product_id": 1, "quantity": 1},
	))
	assert.Equal(t, http.StatusCreated, w.Code)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateOrder_RateLimitedNotificationStillSucceeds(t *testing.T) {
	telegram, _ := setupOrderTest(t)
	db := config.GetDB()

	telegram.FailWith(services.ErrRateLimited)
	seedProduct(t, db, "Chocolate Dream", 89.50)

	router := setupTestRouter()
	router.POST("/orders", CreateOrder)

	w := performJSON(router, http.MethodPost, "/orders", pickupOrderBody(
		map[string]interface{}{"product_id": 1, "quantity": 1},
	))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateOrder_ItemsWriteFailureLeavesNoOrder(t *testing.T) {
	telegram, _ := setupOrderTest(t)
	db := config.GetDB()

	seedProduct(t, db, "Chocolate Dream", 89.50)

	// Breaking the items table makes the transaction roll back
	if err := db.Migrator().DropTable(&models.OrderItem{}); err != nil {
		t.Fatalf("Failed to drop order_items: %v", err)
	}

	router := setupTestRouter()
	router.POST("/orders", CreateOrder)

	w := performJSON(router, http.MethodPost, "/orders", pickupOrderBody(
		map[string]interface{}{"product_id": 1, "quantity": 1},
	))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	response := decodeResponse(t, w)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "DATABASE_ERROR", errorData["code"])

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
	assert.Empty(t, telegram.SentMessages())
}

func TestCreateOrder_SnapshotsSurviveCatalogEdits(t *testing.T) {
	_, _ = setupOrderTest(t)
	db := config.GetDB()

	product := seedProduct(t, db, "Chocolate Dream", 89.50)

	router := setupTestRouter()
	router.POST("/orders", CreateOrder)
	router.GET("/orders/:reference", GetOrder)

	w := performJSON(router, http.MethodPost, "/orders", pickupOrderBody(
		map[string]interface{}{"product_id": 1, "quantity": 1},
	))
	assert.Equal(t, http.StatusCreated, w.Code)
	reference := decodeResponse(t, w)["data"].(map[string]interface{})["reference"].(string)

	// Catalog changes after checkout
	db.Model(&product).Updates(map[string]interface{}{"name": "Renamed", "price": 999.0})

	w = performJSON(router, http.MethodGet, "/orders/"+reference, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeResponse(t, w)["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	line := items[0].(map[string]interface{})
	assert.Equal(t, "Chocolate Dream", line["product_name"])
	assert.Equal(t, 89.50, line["unit_price"])
}

func TestGetOrder_NotFound(t *testing.T) {
	_, _ = setupOrderTest(t)

	router := setupTestRouter()
	router.GET("/orders/:reference", GetOrder)

	w := performJSON(router, http.MethodGet, "/orders/not-a-reference", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	response := decodeResponse(t, w)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "ORDER_NOT_FOUND", errorData["code"])
}
