package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sokerihelmi/bakery-api/config"
	"github.com/sokerihelmi/bakery-api/controllers"
	"github.com/sokerihelmi/bakery-api/middleware"
	"github.com/sokerihelmi/bakery-api/models"
	"github.com/sokerihelmi/bakery-api/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetConfig(cfg)

	logger, err := config.InitLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	zap.S().Infow("Starting Sokerihelmi bakery API", "env", cfg.GoEnv)

	if err := config.ConnectDatabase(); err != nil {
		zap.S().Fatalw("Failed to connect to database", "error", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Tag{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.AdminUser{},
	); err != nil {
		zap.S().Fatalw("Failed to migrate database", "error", err)
	}
	zap.S().Info("Database migration completed")

	if err := seedAdminAllowlist(cfg); err != nil {
		zap.S().Fatalw("Failed to seed admin allow-list", "error", err)
	}

	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			zap.S().Fatalw("Failed to initialize S3 service", "error", err)
		}
		services.InitImageService(s3Service)
	} else {
		zap.S().Warn("S3 bucket not configured, product image upload disabled")
	}

	telegram := services.InitTelegramService(cfg)
	if cfg.PublicBaseURL != "" {
		webhookURL := cfg.PublicBaseURL + "/telegram-webhook"
		if err := telegram.SetWebhook(webhookURL); err != nil {
			zap.S().Errorw("Failed to register Telegram webhook", "url", webhookURL, "error", err)
		} else {
			zap.S().Infow("Telegram webhook registered", "url", webhookURL)
		}
	}

	services.InitGeocodeService(cfg)

	router := setupRouter(cfg)

	addr := fmt.Sprintf(":%s", cfg.Port)
	zap.S().Infow("Server listening", "addr", addr)
	if err := router.Run(addr); err != nil {
		zap.S().Fatalw("Server stopped", "error", err)
	}
}

// seedAdminAllowlist upserts operator IDs from configuration so a fresh
// deployment can manage the catalog without manual database edits.
func seedAdminAllowlist(cfg *config.Config) error {
	db := config.GetDB()
	for _, telegramID := range cfg.AdminTelegramIDs {
		var admin models.AdminUser
		err := db.Where("telegram_id = ?", telegramID).First(&admin).Error
		if err == nil {
			if !admin.IsActive {
				admin.IsActive = true
				if err := db.Save(&admin).Error; err != nil {
					return err
				}
			}
			continue
		}
		admin = models.AdminUser{TelegramID: telegramID, IsActive: true}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
	}
	return nil
}

// setupRouter wires middleware and routes. Kept separate from main so
// tests can mount the full route table against a test database.
func setupRouter(cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// Bot platform updates arrive outside the /api/v1 surface
	router.POST("/telegram-webhook", middleware.RateLimit(rate.Limit(5), 10), controllers.HandleTelegramWebhook)
	router.GET("/telegram-webhook", controllers.TelegramWebhookStatus)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		v1.GET("/products", controllers.ListProducts)
		v1.GET("/products/:id", controllers.GetProduct)
		v1.GET("/categories", controllers.ListCategories)
		v1.GET("/tags", controllers.ListTags)

		v1.POST("/delivery/quote", controllers.QuoteDelivery)

		orders := v1.Group("/orders")
		orders.Use(middleware.RateLimit(rate.Limit(1), 5))
		{
			orders.POST("", controllers.CreateOrder)
			orders.GET("/:reference", controllers.GetOrder)
		}

		admin := v1.Group("")
		admin.Use(middleware.EnsureValidToken(cfg), middleware.RequireAdmin())
		{
			admin.POST("/products", controllers.CreateProduct)
			admin.PUT("/products/:id", controllers.UpdateProduct)
			admin.DELETE("/products/:id", controllers.DeleteProduct)
			admin.POST("/products/:id/image", controllers.UploadProductImage)
			admin.DELETE("/products/:id/image", controllers.DeleteProductImage)

			admin.POST("/categories", controllers.CreateCategory)
			admin.DELETE("/categories/:id", controllers.DeleteCategory)
			admin.POST("/tags", controllers.CreateTag)
			admin.DELETE("/tags/:id", controllers.DeleteTag)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sokerihelmi bakery API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(c *gin.Context) {
	sqlDB, err := config.GetDB().DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
	})
}
