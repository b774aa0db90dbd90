package services

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/pagination"
)

// CustomerServicer defines the contract for customer account business logic.
type CustomerServicer interface {
	CreateCustomer(email, password, firstName, lastName, phoneNumber string) (*models.Customer, error)
	GetCustomerByEmail(email string) (*models.Customer, error)
	GetCustomerByID(id string) (*models.Customer, error)
	VerifyPassword(customer *models.Customer, password string) bool
	AttemptLogin(email, password string) (*models.Customer, error)
	StoreRefreshTokenHash(customerID, tokenHash string) error
	GetRefreshTokenHash(customerID string) (string, error)
	UpdateKYCStatus(customerID string, status models.KYCStatus) (*models.Customer, error)
}

// PartnerServicer defines the contract for partner institution management.
type PartnerServicer interface {
	CreatePartner(name, code, description, contactEmail, logoURL string) (*models.Partner, error)
	GetPartnerByID(id string) (*models.Partner, error)
	ListPartners(page pagination.PageRequest) (*pagination.PageResponse[models.Partner], error)
}

// AssetFilter holds optional filter parameters for listing assets.
type AssetFilter struct {
	AssetType *models.AssetType
	RiskLevel *models.RiskLevel
	Status    *models.AssetStatus
	PartnerID *string
}

// AssetServicer defines the contract for asset catalog and pricing logic.
type AssetServicer interface {
	CreateAsset(partnerID, code, name, description string, assetType models.AssetType, currency string, price, minInvestment decimal.Decimal, riskLevel models.RiskLevel) (*models.Asset, error)
	GetAssetByID(id string) (*models.Asset, error)
	GetAssetByCode(code string) (*models.Asset, error)
	ListAssets(page pagination.PageRequest, filter AssetFilter) (*pagination.PageResponse[models.Asset], error)
	UpdatePrice(assetID string, price decimal.Decimal, recordedAt time.Time) (*models.Asset, error)
	GetPriceHistory(assetID string, page pagination.PageRequest) (*pagination.PageResponse[models.AssetPrice], error)
}

// ProductServicer defines the contract for partner product listings.
type ProductServicer interface {
	CreateProduct(partnerID, assetID, name, description, category string, minInvestment decimal.Decimal) (*models.Product, error)
	GetProductByID(id string) (*models.Product, error)
	ListProducts(page pagination.PageRequest, partnerID *string, status *models.ProductStatus) (*pagination.PageResponse[models.Product], error)
	UpdateProductStatus(productID string, status models.ProductStatus) (*models.Product, error)
}

// ValidationResult is the outcome of validating an investment request.
// Every rule is evaluated, so Errors carries all violations at once.
// Customer and Asset are populated when the respective lookup succeeded,
// letting the caller reuse them without re-querying.
type ValidationResult struct {
	Valid    bool
	Errors   []apperrors.FieldError
	Customer *models.Customer
	Asset    *models.Asset
}

// CreateInvestmentInput carries the customer's investment request.
type CreateInvestmentInput struct {
	CustomerID    string
	AssetID       string
	ProductID     *string
	Amount        decimal.Decimal
	PaymentMethod string
	Notes         string
	IPAddress     string
}

// InvestmentFilter holds optional filter parameters for listing investments.
type InvestmentFilter struct {
	Status   *models.InvestmentStatus
	AssetID  *string
	FromDate *time.Time
	ToDate   *time.Time
}

// InvestmentServicer defines the contract for the investment transaction engine.
type InvestmentServicer interface {
	ValidateInvestmentRequest(customerID, assetID string, amount decimal.Decimal, paymentMethod string) (*ValidationResult, error)
	CreateInvestment(input CreateInvestmentInput) (*models.Investment, error)
	GetInvestmentByID(customerID, investmentID string) (*models.Investment, error)
	GetCustomerInvestments(customerID string, page pagination.PageRequest, filter InvestmentFilter) (*pagination.PageResponse[models.Investment], error)
	CancelInvestment(customerID, investmentID, reason, ipAddress string) (*models.Investment, error)
	SumTodaysInvestments(customerID string) (decimal.Decimal, error)
}

// HoldingPosition is one customer position joined with its asset's latest
// published price. It is the input row for portfolio aggregation.
type HoldingPosition struct {
	HoldingID           string             `json:"holding_id"`
	AssetID             string             `json:"asset_id"`
	AssetCode           string             `json:"asset_code"`
	AssetName           string             `json:"asset_name"`
	AssetType           models.AssetType   `json:"asset_type"`
	RiskLevel           models.RiskLevel   `json:"risk_level"`
	TotalUnits          decimal.Decimal    `json:"total_units"`
	TotalInvested       decimal.Decimal    `json:"total_invested"`
	AveragePrice        decimal.Decimal    `json:"average_price"`
	LatestPrice         decimal.Decimal    `json:"latest_price"`
	FirstInvestmentDate time.Time          `json:"first_investment_date"`
	LastInvestmentDate  time.Time          `json:"last_investment_date"`
}

// HoldingSummary is a HoldingPosition enriched with derived valuation figures.
type HoldingSummary struct {
	HoldingPosition
	CurrentValue   decimal.Decimal `json:"current_value"`
	Returns        decimal.Decimal `json:"returns"`
	ReturnsPercent float64         `json:"returns_percent"`
}

// AllocationSlice is the portion of portfolio value held in one asset type.
type AllocationSlice struct {
	AssetType  models.AssetType `json:"asset_type"`
	Value      decimal.Decimal  `json:"value"`
	Percentage float64          `json:"percentage"`
}

// RiskBucket is the portion of portfolio value held at one risk level.
type RiskBucket struct {
	Value      decimal.Decimal `json:"value"`
	Percentage float64         `json:"percentage"`
}

// PortfolioSummary contains aggregated portfolio data across all holdings.
type PortfolioSummary struct {
	TotalInvested       decimal.Decimal                  `json:"total_invested"`
	CurrentValue        decimal.Decimal                  `json:"current_value"`
	TotalReturns        decimal.Decimal                  `json:"total_returns"`
	TotalReturnsPercent float64                          `json:"total_returns_percent"`
	TotalHoldings       int                              `json:"total_holdings"`
	Holdings            []HoldingSummary                 `json:"holdings"`
	AssetAllocation     []AllocationSlice                `json:"asset_allocation"`
	RiskDistribution    map[models.RiskLevel]RiskBucket  `json:"risk_distribution"`
	BestPerformer       *HoldingSummary                  `json:"best_performer,omitempty"`
	WorstPerformer      *HoldingSummary                  `json:"worst_performer,omitempty"`
	LastUpdated         time.Time                        `json:"last_updated"`
}

// HoldingDetail is one holding with its full investment history.
type HoldingDetail struct {
	Holding     HoldingSummary      `json:"holding"`
	Investments []models.Investment `json:"investments"`
}

// PerformancePoint is one investment plotted on the performance timeline.
type PerformancePoint struct {
	Date   time.Time               `json:"date"`
	Amount decimal.Decimal         `json:"amount"`
	Status models.InvestmentStatus `json:"status"`
}

// PerformanceReport summarizes portfolio activity over a lookback period.
type PerformanceReport struct {
	Period                string             `json:"period"`
	StartDate             *time.Time         `json:"start_date,omitempty"`
	EndDate               time.Time          `json:"end_date"`
	TotalInvested         decimal.Decimal    `json:"total_invested"`
	CurrentValue          decimal.Decimal    `json:"current_value"`
	TotalReturns          decimal.Decimal    `json:"total_returns"`
	TotalReturnsPercent   float64            `json:"total_returns_percent"`
	InvestmentsInPeriod   int                `json:"investments_in_period"`
	InvestedInPeriod      decimal.Decimal    `json:"invested_in_period"`
	BestPerformer         *HoldingSummary    `json:"best_performer,omitempty"`
	WorstPerformer        *HoldingSummary    `json:"worst_performer,omitempty"`
	History               []PerformancePoint `json:"history"`
}

// PortfolioServicer defines the contract for portfolio aggregation.
type PortfolioServicer interface {
	GetPortfolioSummary(customerID string) (*PortfolioSummary, error)
	GetHoldings(customerID string, assetType *models.AssetType) ([]HoldingSummary, error)
	GetAssetHolding(customerID, assetID string) (*HoldingDetail, error)
	GetPerformance(customerID, period string) (*PerformanceReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(customerID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
