package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sokerihelmi/bakery-api/config"
	"github.com/sokerihelmi/bakery-api/middleware"
	"github.com/sokerihelmi/bakery-api/models"
)

func TestListCategories(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	db.Create(&models.Category{Name: "Wedding", Description: "Elegant cakes"})
	db.Create(&models.Category{Name: "Birthday"})

	router := setupTestRouter()
	router.GET("/categories", ListCategories)

	w := performJSON(router, http.MethodGet, "/categories", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	response := decodeResponse(t, w)
	assert.True(t, response["success"].(bool))
	assert.Equal(t, float64(2), response["count"])
}

func TestCreateCategory(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.POST("/categories", mockAuthMiddleware("admin"), middleware.RequireAdmin(), CreateCategory)

	t.Run("created", func(t *testing.T) {
		w := performJSON(router, http.MethodPost, "/categories", map[string]interface{}{
			"name":        "Wedding",
			"description": "Elegant cakes",
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		var category models.Category
		assert.NoError(t, db.Where("name = ?", "Wedding").First(&category).Error)
		assert.Equal(t, "Elegant cakes", category.Description)
	})

	t.Run("missing name", func(t *testing.T) {
		w := performJSON(router, http.MethodPost, "/categories", map[string]interface{}{
			"description": "anonymous",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		response := decodeResponse(t, w)
		errorData := response["error"].(map[string]interface{})
		assert.Equal(t, "VALIDATION_ERROR", errorData["code"])
	})
}

func TestDeleteCategory_ClearsProductReferences(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	category := models.Category{Name: "Wedding"}
	db.Create(&category)
	product := seedProduct(t, db, "Wedding Classic", 250)
	db.Model(&product).Update("category_id", category.ID)

	router := setupTestRouter()
	router.DELETE("/categories/:id", mockAuthMiddleware("admin"), middleware.RequireAdmin(), DeleteCategory)

	w := performJSON(router, http.MethodDelete, "/categories/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Product survives with no category
	var survivor models.Product
	assert.NoError(t, db.First(&survivor, product.ID).Error)
	assert.Nil(t, survivor.CategoryID)

	w = performJSON(router, http.MethodDelete, "/categories/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTagEndpoints(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.GET("/tags", ListTags)
	router.POST("/tags", mockAuthMiddleware("admin"), middleware.RequireAdmin(), CreateTag)
	router.DELETE("/tags/:id", mockAuthMiddleware("admin"), middleware.RequireAdmin(), DeleteTag)

	w := performJSON(router, http.MethodPost, "/tags", map[string]interface{}{"name": "vegan"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(router, http.MethodGet, "/tags", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeResponse(t, w)["count"])

	w = performJSON(router, http.MethodDelete, "/tags/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, http.MethodGet, "/tags", nil)
	assert.Equal(t, float64(0), decodeResponse(t, w)["count"])
}

func TestDeleteTag_DetachesFromProducts(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	tag := models.Tag{Name: "vegan"}
	db.Create(&tag)
	product := seedProduct(t, db, "Lemon Cloud", 45)
	assert.NoError(t, db.Model(&product).Association("Tags").Append(&tag))

	router := setupTestRouter()
	router.DELETE("/tags/:id", mockAuthMiddleware("admin"), middleware.RequireAdmin(), DeleteTag)

	w := performJSON(router, http.MethodDelete, "/tags/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var survivor models.Product
	assert.NoError(t, db.Preload("Tags").First(&survivor, product.ID).Error)
	assert.Empty(t, survivor.Tags)
}
