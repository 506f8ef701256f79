package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sokerihelmi/bakery-api/config"
	"github.com/sokerihelmi/bakery-api/models"
	"github.com/sokerihelmi/bakery-api/services"
)

// ProductRequest is the payload for creating or updating a product
type ProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Composition   string   `json:"composition"`
	Price         *float64 `json:"price" binding:"required"`
	CategoryID    *uint    `json:"category_id"`
	WeightKg      *float64 `json:"weight_kg"`
	IsCustomOrder bool     `json:"is_custom_order"`
}

// ListProducts handles GET /api/v1/products with optional catalog filters
func ListProducts(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Product{}).Preload("Category").Preload("Tags")

	if categoryID := c.Query("category_id"); categoryID != "" {
		id, err := strconv.ParseUint(categoryID, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "category_id must be a positive integer",
				},
			})
			return
		}
		query = query.Where("category_id = ?", uint(id))
	}

	if tagID := c.Query("tag_id"); tagID != "" {
		id, err := strconv.ParseUint(tagID, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "tag_id must be a positive integer",
				},
			})
			return
		}
		query = query.Joins("JOIN product_tags ON product_tags.product_id = products.id").
			Where("product_tags.tag_id = ?", uint(id))
	}

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	if minPrice := c.Query("min_price"); minPrice != "" {
		value, err := strconv.ParseFloat(minPrice, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "min_price must be a number",
				},
			})
			return
		}
		query = query.Where("price >= ?", value)
	}

	if maxPrice := c.Query("max_price"); maxPrice != "" {
		value, err := strconv.ParseFloat(maxPrice, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "max_price must be a number",
				},
			})
			return
		}
		query = query.Where("price <= ?", value)
	}

	var products []models.Product
	if err := query.Order("products.id").Find(&products).Error; err != nil {
		zap.S().Errorw("Failed to list products", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch products",
			},
		})
		return
	}

	for i := range products {
		attachImageURL(&products[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
		"count":   len(products),
	})
}

// GetProduct handles GET /api/v1/products/:id
func GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Product id must be a positive integer",
			},
		})
		return
	}

	var product models.Product
	result := config.GetDB().Preload("Category").Preload("Tags").First(&product, uint(id))
	if result.Error != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	attachImageURL(&product)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// CreateProduct handles POST /api/v1/products (admin only)
func CreateProduct(c *gin.Context) {
	var req ProductRequest
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

	if *req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Price must not be negative",
			},
		})
		return
	}

	db := config.GetDB()
	if req.CategoryID != nil {
		var category models.Category
		if err := db.First(&category, *req.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CATEGORY_NOT_FOUND",
					"message": "Category does not exist",
				},
			})
			return
		}
	}

	product := models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Composition:   req.Composition,
		Price:         *req.Price,
		CategoryID:    req.CategoryID,
		WeightKg:      req.WeightKg,
		IsCustomOrder: req.IsCustomOrder,
	}

	if err := db.Create(&product).Error; err != nil {
		zap.S().Errorw("Failed to create product", "name", req.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create product",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct handles PUT /api/v1/products/:id (admin only)
func UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Product id must be a positive integer",
			},
		})
		return
	}

	var req ProductRequest
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

	if *req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Price must not be negative",
			},
		})
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Composition = req.Composition
	product.Price = *req.Price
	product.CategoryID = req.CategoryID
	product.WeightKg = req.WeightKg
	product.IsCustomOrder = req.IsCustomOrder

	if err := db.Save(&product).Error; err != nil {
		zap.S().Errorw("Failed to update product", "id", product.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct handles DELETE /api/v1/products/:id (admin only)
func DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Product id must be a positive integer",
			},
		})
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	if err := db.Delete(&product).Error; err != nil {
		zap.S().Errorw("Failed to delete product", "id", product.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted",
	})
}

// attachImageURL fills the transient ImageURL field from the stored image
// key. Presigning failures degrade to a product without an image link.
func attachImageURL(product *models.Product) {
	if product.ImageS3Key == nil || *product.ImageS3Key == "" {
		return
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	url, err := imageService.GetImageURL(*product.ImageS3Key)
	if err != nil {
		zap.S().Warnw("Failed to presign product image", "product_id", product.ID, "error", err)
		return
	}
	product.ImageURL = &url
}
