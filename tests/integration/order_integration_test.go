package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/sokerihelmi/bakery-api/config"
	"github.com/sokerihelmi/bakery-api/controllers"
	"github.com/sokerihelmi/bakery-api/models"
	"github.com/sokerihelmi/bakery-api/services"
	"github.com/sokerihelmi/bakery-api/tests/testutil"
)

// OrderIntegrationTestSuite exercises the checkout flow against the real
// controllers with mocked outbound services.
type OrderIntegrationTestSuite struct {
	suite.Suite
	router   *gin.Engine
	db       *gorm.DB
	telegram *services.MockTelegramService
	geocoder *services.MockGeocodeService
}

func (suite *OrderIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("GO_ENV", "test")

	config.SetConfig(&config.Config{
		GoEnv:                   "test",
		BakeryLat:               60.442764,
		BakeryLng:               22.359507,
		DeliveryCostPerKm:       2,
		DeliveryMinCost:         5,
		DeliveryFreeWeightKg:    5,
		DeliveryWeightSurcharge: 1,
		DeliveryZoneRadiusM:     20000,
	})
}

func (suite *OrderIntegrationTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	config.SetDB(suite.db)

	suite.telegram = services.NewMockTelegramService()
	suite.telegram.SetAsMockForTesting()
	suite.geocoder = services.NewMockGeocodeService()
	suite.geocoder.SetAsMockForTesting()

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/orders", controllers.CreateOrder)
	v1.GET("/orders/:reference", controllers.GetOrder)
	v1.POST("/delivery/quote", controllers.QuoteDelivery)
	suite.router = router
}

func (suite *OrderIntegrationTestSuite) postJSON(path string, body interface{}) *httptest.ResponseRecorder {
	data, err := json.Marshal(body)
	suite.NoError(err)

	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *OrderIntegrationTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (suite *OrderIntegrationTestSuite) seedProduct(name string, price float64, weightKg *float64) models.Product {
	product := models.Product{Name: name, Price: price, WeightKg: weightKg}
	suite.NoError(suite.db.Create(&product).Error)
	return product
}

func (suite *OrderIntegrationTestSuite) TestPickupCheckout() {
	suite.seedProduct("Chocolate Dream", 89.50, nil)

	w := suite.postJSON("/api/v1/orders", map[string]interface{}{
		"customer_name":   "Maria Virtanen",
		"contact_method":  "phone",
		"contact_value":   "+358401234567",
		"delivery_method": "pickup",
		"items":           []map[string]interface{}{{"product_id": 1, "quantity": 2}},
	})
	suite.Equal(http.StatusCreated, w.Code)

	response := suite.decode(w)
	suite.True(response["success"].(bool))

	var order models.Order
	suite.NoError(suite.db.Preload("Items").First(&order).Error)
	suite.Equal("Maria Virtanen", order.CustomerName)
	suite.Equal(models.OrderStatusPending, order.Status)
	suite.Len(order.Items, 1)
	suite.Equal(179.0, order.Items[0].LineTotal())

	suite.Len(suite.telegram.SentMessages(), 1)
}

func (suite *OrderIntegrationTestSuite) TestDeliveryCheckoutMatchesQuote() {
	weight := 8.0
	suite.seedProduct("Wedding Classic", 250, &weight)
	suite.geocoder.AddAddress("Maariankatu 1, Raisio", 60.485, 22.21)

	quote := suite.decode(suite.postJSON("/api/v1/delivery/quote", map[string]interface{}{
		"address":   "Maariankatu 1, Raisio",
		"weight_kg": weight,
	}))
	suite.True(quote["success"].(bool))
	quotedCost := quote["data"].(map[string]interface{})["cost"].(float64)

	w := suite.postJSON("/api/v1/orders", map[string]interface{}{
		"customer_name":    "Maria Virtanen",
		"contact_method":   "email",
		"contact_value":    "maria@example.com",
		"delivery_method":  "delivery",
		"delivery_address": "Maariankatu 1, Raisio",
		"items":            []map[string]interface{}{{"product_id": 1, "quantity": 1}},
	})
	suite.Equal(http.StatusCreated, w.Code)

	response := suite.decode(w)
	data := response["data"].(map[string]interface{})
	suite.Equal(quotedCost, data["delivery_cost"])
}

func (suite *OrderIntegrationTestSuite) TestEveryContactMethod() {
	suite.seedProduct("Chocolate Dream", 89.50, nil)

	methods := map[string]string{
		"phone":     "+358401234567",
		"email":     "maria@example.com",
		"whatsapp":  "+358401234567",
		"instagram": "@maria",
		"facebook":  "maria.virtanen",
	}

	for method, value := range methods {
		w := suite.postJSON("/api/v1/orders", map[string]interface{}{
			"customer_name":   "Maria Virtanen",
			"contact_method":  method,
			"contact_value":   value,
			"delivery_method": "pickup",
			"items":           []map[string]interface{}{{"product_id": 1, "quantity": 1}},
		})
		suite.Equal(http.StatusCreated, w.Code, "contact method %s", method)

		reference := suite.decode(w)["data"].(map[string]interface{})["reference"].(string)

		var order models.Order
		suite.NoError(suite.db.Where("reference = ?", reference).First(&order).Error)
		suite.Equal(method, order.ContactMethod)
		suite.Equal(value, order.ContactValue())
	}
}

func (suite *OrderIntegrationTestSuite) TestRateLimitedNotificationDoesNotFailCheckout() {
	suite.seedProduct("Chocolate Dream", 89.50, nil)
	suite.telegram.FailWith(services.ErrRateLimited)

	w := suite.postJSON("/api/v1/orders", map[string]interface{}{
		"customer_name":   "Maria Virtanen",
		"contact_method":  "phone",
		"contact_value":   "+358401234567",
		"delivery_method": "pickup",
		"items":           []map[string]interface{}{{"product_id": 1, "quantity": 1}},
	})
	suite.Equal(http.StatusCreated, w.Code)

	var count int64
	suite.db.Model(&models.Order{}).Count(&count)
	suite.Equal(int64(1), count)
}

func (suite *OrderIntegrationTestSuite) TestOrderLookup() {
	suite.seedProduct("Chocolate Dream", 89.50, nil)

	w := suite.postJSON("/api/v1/orders", map[string]interface{}{
		"customer_name":   "Maria Virtanen",
		"contact_method":  "phone",
		"contact_value":   "+358401234567",
		"delivery_method": "pickup",
		"items":           []map[string]interface{}{{"product_id": 1, "quantity": 1}},
	})
	suite.Equal(http.StatusCreated, w.Code)
	reference := suite.decode(w)["data"].(map[string]interface{})["reference"].(string)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/orders/"+reference, nil)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	suite.Equal(http.StatusOK, rec.Code)

	req, _ = http.NewRequest(http.MethodGet, "/api/v1/orders/bogus", nil)
	rec = httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	suite.Equal(http.StatusNotFound, rec.Code)
}

func TestOrderIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderIntegrationTestSuite))
}
