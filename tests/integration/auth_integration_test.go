package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/sokerihelmi/bakery-api/config"
	"github.com/sokerihelmi/bakery-api/controllers"
	"github.com/sokerihelmi/bakery-api/middleware"
	"github.com/sokerihelmi/bakery-api/models"
	"github.com/sokerihelmi/bakery-api/tests/testutil"
)

// AdminGuardIntegrationTestSuite verifies that catalog mutation endpoints
// enforce the admin role while read endpoints stay public.
type AdminGuardIntegrationTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *AdminGuardIntegrationTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	config.SetDB(testutil.NewTestDB(suite.T()))

	suite.router = gin.New()
}

func (suite *AdminGuardIntegrationTestSuite) mountWithRole(role string) {
	v1 := suite.router.Group("/api/v1")
	v1.GET("/products", controllers.ListProducts)

	admin := v1.Group("")
	admin.Use(testutil.MockAuth("auth0|operator", role), middleware.RequireAdmin())
	admin.POST("/products", controllers.CreateProduct)
	admin.DELETE("/products/:id", controllers.DeleteProduct)
	admin.POST("/categories", controllers.CreateCategory)
}

func (suite *AdminGuardIntegrationTestSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AdminGuardIntegrationTestSuite) TestAdminRoleCanMutate() {
	suite.mountWithRole("admin")

	w := suite.request(http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Chocolate Dream",
		"price": 89.50,
	})
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.request(http.MethodPost, "/api/v1/categories", map[string]interface{}{"name": "Wedding"})
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.request(http.MethodDelete, "/api/v1/products/1", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *AdminGuardIntegrationTestSuite) TestCustomerRoleIsForbidden() {
	suite.mountWithRole("customer")

	w := suite.request(http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Sneaky Cake",
		"price": 1,
	})
	suite.Equal(http.StatusForbidden, w.Code)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	errorData := response["error"].(map[string]interface{})
	suite.Equal("FORBIDDEN", errorData["code"])

	// Nothing was written
	var count int64
	config.GetDB().Model(&models.Product{}).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *AdminGuardIntegrationTestSuite) TestReadEndpointsStayPublic() {
	suite.mountWithRole("customer")

	w := suite.request(http.MethodGet, "/api/v1/products", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func TestAdminGuardIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AdminGuardIntegrationTestSuite))
}
