package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL string
	Port        string
	GoEnv       string
	LogLevel    string

	// Public URL the Telegram webhook is registered against (optional)
	PublicBaseURL string

	TelegramBotToken   string
	TelegramChatID     string
	TelegramAPIBaseURL string
	AdminTelegramIDs   []int64

	// Outbound notification budget (sliding window)
	NotifyQuota  int
	NotifyWindow time.Duration

	GeocodingAPIURL string
	GeocodingAPIKey string

	// Bakery origin used for delivery distance
	BakeryLat float64
	BakeryLng float64

	// Delivery pricing
	DeliveryCostPerKm       float64
	DeliveryMinCost         float64
	DeliveryFreeWeightKg    float64
	DeliveryWeightSurcharge float64
	DeliveryZoneRadiusM     float64

	Auth0Domain   string
	Auth0Audience string

	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

var configInstance *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	// Determine which environment file to load
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// If environment-specific file doesn't exist, try .env
		if err := godotenv.Load(); err != nil {
			// In production, environment variables are set directly
			// so it's okay if .env files don't exist
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        getEnv("PORT", "8080"),
		GoEnv:       getEnv("GO_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		TelegramBotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:     getEnv("TELEGRAM_CHAT_ID", ""),
		TelegramAPIBaseURL: getEnv("TELEGRAM_API_BASE_URL", "https://api.telegram.org"),
		AdminTelegramIDs:   getEnvInt64List("ADMIN_TELEGRAM_IDS"),

		NotifyQuota:  getEnvInt("NOTIFY_RATE_QUOTA", 20),
		NotifyWindow: getEnvDuration("NOTIFY_RATE_WINDOW", time.Hour),

		GeocodingAPIURL: getEnv("GEOCODING_API_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
		GeocodingAPIKey: getEnv("GEOCODING_API_KEY", ""),

		// Default origin is the bakery in Turku
		BakeryLat: getEnvFloat("BAKERY_LAT", 60.442764),
		BakeryLng: getEnvFloat("BAKERY_LNG", 22.359507),

		DeliveryCostPerKm:       getEnvFloat("DELIVERY_COST_PER_KM", 2),
		DeliveryMinCost:         getEnvFloat("DELIVERY_MIN_COST", 5),
		DeliveryFreeWeightKg:    getEnvFloat("DELIVERY_FREE_WEIGHT_KG", 5),
		DeliveryWeightSurcharge: getEnvFloat("DELIVERY_WEIGHT_SURCHARGE_PER_KG", 1),
		DeliveryZoneRadiusM:     getEnvFloat("DELIVERY_ZONE_RADIUS_M", 20000),

		Auth0Domain:   getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience: getEnv("AUTH0_AUDIENCE", ""),

		AWSRegion:          getEnv("AWS_REGION", "eu-north-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	configInstance = config
	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.NotifyQuota <= 0 {
		return fmt.Errorf("NOTIFY_RATE_QUOTA must be positive")
	}
	if c.NotifyWindow <= 0 {
		return fmt.Errorf("NOTIFY_RATE_WINDOW must be positive")
	}
	return nil
}

// GetConfig returns the loaded configuration instance
func GetConfig() *Config {
	return configInstance
}

// SetConfig sets the configuration instance (primarily for testing)
func SetConfig(c *Config) {
	configInstance = c
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// getEnvFloat retrieves a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Invalid number for %s: %q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return f
}

// getEnvDuration retrieves a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s: %q, using default %v", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvInt64List parses a comma-separated list of integers (e.g. Telegram ids)
func getEnvInt64List(key string) []int64 {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Printf("Skipping invalid id in %s: %q", key, part)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
