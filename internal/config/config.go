package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Partner price feed
	PriceFeedAPIKey string

	// Business rule overrides. These default to the reference values;
	// they are configuration, not hard-coded business law.
	MinimumInvestment    decimal.Decimal
	MaximumInvestment    decimal.Decimal
	DailyInvestmentLimit decimal.Decimal
	NoKYCLimit           decimal.Decimal
	TransactionFeeRate   decimal.Decimal
	MinimumFee           decimal.Decimal
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "marketplace"),
		DBPassword: getEnv("DB_PASSWORD", "marketplace"),
		DBName:     getEnv("DB_NAME", "marketplace"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		PriceFeedAPIKey: getEnv("PRICE_FEED_API_KEY", ""),

		MinimumInvestment:    getEnvDecimal("MINIMUM_INVESTMENT", "1000"),
		MaximumInvestment:    getEnvDecimal("MAXIMUM_INVESTMENT", "10000000"),
		DailyInvestmentLimit: getEnvDecimal("DAILY_INVESTMENT_LIMIT", "5000000"),
		NoKYCLimit:           getEnvDecimal("NO_KYC_LIMIT", "5000"),
		TransactionFeeRate:   getEnvDecimal("TRANSACTION_FEE_RATE", "0.005"),
		MinimumFee:           getEnvDecimal("MINIMUM_FEE", "10"),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDecimal parses a decimal environment variable, falling back to the
// default on missing or malformed values.
func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	raw := getEnv(key, defaultValue)
	value, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		value, _ = decimal.NewFromString(defaultValue)
	}
	return value
}
