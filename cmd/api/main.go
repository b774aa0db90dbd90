package main

import (
	"fmt"
	"net/http"
	"os"

	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/handlers"
	"marketplace/internal/logger"
	"marketplace/internal/middleware"
	"marketplace/internal/services"
	"marketplace/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "marketplace/internal/docs" // Import swagger docs
)

// @title           Marketplace Investment API
// @version         1.0
// @description     Investment marketplace backend: partner asset catalog, investment transactions, and portfolio aggregation.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators with the Gin binding engine
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	rules := services.RulesFromConfig(appConfig)
	auditService := services.NewAuditService(db)
	customerService := services.NewCustomerService(db)
	partnerService := services.NewPartnerService(db)
	assetService := services.NewAssetService(db)
	productService := services.NewProductService(db)
	investmentService := services.NewInvestmentService(db, rules, auditService)
	portfolioService := services.NewPortfolioService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(customerService, auditService)
	partnerHandler := handlers.NewPartnerHandler(partnerService)
	assetHandler := handlers.NewAssetHandler(assetService)
	productHandler := handlers.NewProductHandler(productService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Public catalog routes
	v1.GET("/partners", partnerHandler.GetPartners)
	v1.GET("/partners/:id", partnerHandler.GetPartner)
	v1.GET("/assets", assetHandler.GetAssets)
	v1.GET("/assets/:id", assetHandler.GetAsset)
	v1.GET("/assets/:id/prices", assetHandler.GetPriceHistory)
	v1.GET("/products", productHandler.GetProducts)
	v1.GET("/products/:id", productHandler.GetProduct)

	// Partner price feed (API key auth)
	feed := v1.Group("/")
	feed.Use(middleware.PriceFeedAuthMiddleware(appConfig.PriceFeedAPIKey))
	feed.PUT("/assets/:id/price", assetHandler.UpdatePrice)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Customer profile
	protected.GET("/profile", authHandler.GetProfile)

	// Catalog management
	protected.POST("/partners", partnerHandler.CreatePartner)
	protected.POST("/assets", assetHandler.CreateAsset)
	protected.POST("/products", productHandler.CreateProduct)
	protected.PUT("/products/:id/status", productHandler.UpdateProductStatus)

	// Investment routes
	investments := protected.Group("/investments")
	investments.POST("", investmentHandler.CreateInvestment)
	investments.GET("", investmentHandler.GetInvestments)
	investments.GET("/:id", investmentHandler.GetInvestment)
	investments.POST("/:id/cancel", investmentHandler.CancelInvestment)

	// Portfolio routes
	portfolio := protected.Group("/portfolio")
	portfolio.GET("/summary", portfolioHandler.GetSummary)
	portfolio.GET("/holdings", portfolioHandler.GetHoldings)
	portfolio.GET("/holdings/:assetId", portfolioHandler.GetAssetHolding)
	portfolio.GET("/performance", portfolioHandler.GetPerformance)

	log.Infof("Starting marketplace API server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
