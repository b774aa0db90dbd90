package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"marketplace/internal/handlers"
	"marketplace/internal/logger"
	"marketplace/internal/middleware"
	"marketplace/internal/models"
	"marketplace/internal/services"
	"marketplace/internal/validator"
)

const feedAPIKey = "test-feed-key"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Customer{},
		&models.Partner{},
		&models.Asset{},
		&models.AssetPrice{},
		&models.Product{},
		&models.Investment{},
		&models.Payment{},
		&models.Transaction{},
		&models.Holding{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	rules := services.DefaultRules()

	// Services
	auditService := services.NewAuditService(db)
	customerService := services.NewCustomerService(db)
	partnerService := services.NewPartnerService(db)
	assetService := services.NewAssetService(db)
	productService := services.NewProductService(db)
	investmentService := services.NewInvestmentService(db, rules, auditService)
	portfolioService := services.NewPortfolioService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(customerService, auditService)
	partnerHandler := handlers.NewPartnerHandler(partnerService)
	assetHandler := handlers.NewAssetHandler(assetService)
	productHandler := handlers.NewProductHandler(productService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
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
	feed.Use(middleware.PriceFeedAuthMiddleware(feedAPIKey))
	feed.PUT("/assets/:id/price", assetHandler.UpdatePrice)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	protected.POST("/partners", partnerHandler.CreatePartner)
	protected.POST("/assets", assetHandler.CreateAsset)
	protected.POST("/products", productHandler.CreateProduct)
	protected.PUT("/products/:id/status", productHandler.UpdateProductStatus)

	investments := protected.Group("/investments")
	investments.POST("", investmentHandler.CreateInvestment)
	investments.GET("", investmentHandler.GetInvestments)
	investments.GET("/:id", investmentHandler.GetInvestment)
	investments.POST("/:id/cancel", investmentHandler.CancelInvestment)

	portfolio := protected.Group("/portfolio")
	portfolio.GET("/summary", portfolioHandler.GetSummary)
	portfolio.GET("/holdings", portfolioHandler.GetHoldings)
	portfolio.GET("/holdings/:assetId", portfolioHandler.GetAssetHolding)
	portfolio.GET("/performance", portfolioHandler.GetPerformance)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// feedRequest makes a price-feed request authenticated with the API key.
func (app *testApp) feedRequest(method, path, body, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerCustomer registers a customer and returns the access token, refresh token, and customer ID.
func (app *testApp) registerCustomer(t *testing.T, email, password string) (accessToken, refreshToken, customerID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"Customer"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	customer := result["customer"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), customer["id"].(string)
}

// loginCustomer logs in and returns the access and refresh tokens.
func (app *testApp) loginCustomer(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}

// verifyKYC marks the customer as KYC-verified directly. KYC case review
// happens in the back office, not over this API.
func (app *testApp) verifyKYC(t *testing.T, customerID string) {
	t.Helper()
	err := app.DB.Model(&models.Customer{}).Where("id = ?", customerID).
		Update("kyc_status", models.KYCStatusVerified).Error
	if err != nil {
		t.Fatalf("failed to verify KYC: %v", err)
	}
}

// createPartner onboards a partner and returns its ID.
func (app *testApp) createPartner(t *testing.T, token, name, code string) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"code":%q}`, name, code)
	rec := app.request("POST", "/api/v1/partners", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create partner failed: %d %s", rec.Code, rec.Body.String())
	}
	partner := parseJSON(t, rec)["partner"].(map[string]interface{})
	return partner["id"].(string)
}

// createAsset lists an asset under a partner and returns its ID.
func (app *testApp) createAsset(t *testing.T, token, partnerID, code, name string, price float64) string {
	t.Helper()
	body := fmt.Sprintf(`{"partner_id":%q,"code":%q,"name":%q,"asset_type":"UITF","price":%g}`,
		partnerID, code, name, price)
	rec := app.request("POST", "/api/v1/assets", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create asset failed: %d %s", rec.Code, rec.Body.String())
	}
	asset := parseJSON(t, rec)["asset"].(map[string]interface{})
	return asset["id"].(string)
}
