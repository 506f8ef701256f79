package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sokerihelmi/bakery-api/config"
	"github.com/sokerihelmi/bakery-api/models"
	"github.com/sokerihelmi/bakery-api/services"
	"github.com/sokerihelmi/bakery-api/utils"
)

// UploadProductImage handles POST /api/v1/products/:id/image (admin only).
// The uploaded PNG replaces any previous image for the product.
func UploadProductImage(c *gin.Context) {
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

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "An image file is required in the 'image' field",
			},
		})
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Image storage is not configured",
			},
		})
		return
	}

	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}

		zap.S().Errorw("Failed to upload product image", "product_id", product.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to store the image",
			},
		})
		return
	}

	previousKey := product.ImageS3Key
	product.ImageS3Key = &imageKey
	if err := db.Save(&product).Error; err != nil {
		zap.S().Errorw("Failed to save product image key", "product_id", product.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update the product",
			},
		})
		return
	}

	// Replaced images are cleaned up best effort
	if previousKey != nil && *previousKey != "" {
		if err := imageService.DeleteImage(*previousKey); err != nil {
			zap.S().Warnw("Failed to delete replaced product image", "key", *previousKey, "error", err)
		}
	}

	attachImageURL(&product)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProductImage handles DELETE /api/v1/products/:id/image (admin only)
func DeleteProductImage(c *gin.Context) {
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

	if product.ImageS3Key == nil || *product.ImageS3Key == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "IMAGE_NOT_FOUND",
				"message": "Product has no image",
			},
		})
		return
	}

	imageService := services.GetImageService()
	if imageService != nil {
		if err := imageService.DeleteImage(*product.ImageS3Key); err != nil {
			zap.S().Warnw("Failed to delete product image from storage", "key", *product.ImageS3Key, "error", err)
		}
	}

	product.ImageS3Key = nil
	if err := db.Save(&product).Error; err != nil {
		zap.S().Errorw("Failed to clear product image key", "product_id", product.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update the product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Image deleted",
	})
}
