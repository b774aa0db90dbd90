package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"marketplace/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCustomer creates an active customer with VERIFIED KYC,
// a hashed password, and a unique email.
func CreateTestCustomer(t *testing.T, db *gorm.DB) *models.Customer {
	t.Helper()
	return CreateTestCustomerWithKYC(t, db, models.KYCStatusVerified)
}

// CreateTestCustomerWithKYC creates an active customer at the given KYC tier.
func CreateTestCustomerWithKYC(t *testing.T, db *gorm.DB, kycStatus models.KYCStatus) *models.Customer {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	customer := &models.Customer{
		Email:     fmt.Sprintf("customer%d@test.com", nextID()),
		Password:  string(hash),
		FirstName: "Test",
		LastName:  "Customer",
		Status:    models.CustomerStatusActive,
		KYCStatus: kycStatus,
	}
	if kycStatus == models.KYCStatusVerified {
		now := time.Now()
		customer.KYCVerifiedAt = &now
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("failed to create test customer: %v", err)
	}
	return customer
}

// CreateTestCustomerWithStatus creates a VERIFIED customer in the given account status.
func CreateTestCustomerWithStatus(t *testing.T, db *gorm.DB, status models.CustomerStatus) *models.Customer {
	t.Helper()

	customer := CreateTestCustomer(t, db)
	if err := db.Model(customer).Update("status", status).Error; err != nil {
		t.Fatalf("failed to update test customer status: %v", err)
	}
	customer.Status = status
	return customer
}

// CreateTestPartner creates an active partner with a unique code.
func CreateTestPartner(t *testing.T, db *gorm.DB) *models.Partner {
	t.Helper()

	n := nextID()
	partner := &models.Partner{
		Name:   fmt.Sprintf("Test Partner %d", n),
		Code:   fmt.Sprintf("PTN%d", n),
		Status: models.PartnerStatusActive,
	}
	if err := db.Create(partner).Error; err != nil {
		t.Fatalf("failed to create test partner: %v", err)
	}
	return partner
}

// CreateTestAsset creates an active UITF asset priced at 100.00.
func CreateTestAsset(t *testing.T, db *gorm.DB, partnerID string) *models.Asset {
	t.Helper()
	return CreateTestAssetWithPrice(t, db, partnerID, decimal.NewFromInt(100))
}

// CreateTestAssetWithPrice creates an active UITF asset at the given unit price.
func CreateTestAssetWithPrice(t *testing.T, db *gorm.DB, partnerID string, price decimal.Decimal) *models.Asset {
	t.Helper()

	n := nextID()
	asset := &models.Asset{
		PartnerID: partnerID,
		Code:      fmt.Sprintf("TST%d", n),
		Name:      fmt.Sprintf("Test Fund %d", n),
		AssetType: models.AssetTypeUITF,
		Currency:  "PHP",
		Price:     price,
		RiskLevel: models.RiskLevelMedium,
		Status:    models.AssetStatusActive,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestProduct creates an approved product for the given partner and asset.
func CreateTestProduct(t *testing.T, db *gorm.DB, partnerID, assetID string) *models.Product {
	t.Helper()

	product := &models.Product{
		PartnerID: partnerID,
		AssetID:   assetID,
		Name:      fmt.Sprintf("Test Product %d", nextID()),
		Status:    models.ProductStatusApproved,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}

// CreateTestInvestment creates a PENDING investment with the given amount.
// Fees and units are derived with the platform defaults: 0.5% fee with a
// 10.00 floor, units rounded to 8 decimal places against the asset's
// current price.
func CreateTestInvestment(t *testing.T, db *gorm.DB, customerID string, asset *models.Asset, amount decimal.Decimal) *models.Investment {
	t.Helper()

	fees := decimal.Max(amount.Mul(decimal.RequireFromString("0.005")), decimal.NewFromInt(10))
	units := decimal.Zero
	if asset.Price.IsPositive() {
		units = amount.Div(asset.Price).Round(8)
	}
	inv := &models.Investment{
		CustomerID:      customerID,
		AssetID:         asset.ID,
		ReferenceNumber: fmt.Sprintf("INV-%s-%06X", time.Now().UTC().Format("20060102"), nextID()),
		Amount:          amount,
		Units:           units,
		UnitPrice:       asset.Price,
		Fees:            fees,
		TotalAmount:     amount.Add(fees),
		InvestmentType:  models.InvestmentTypeOneTime,
		Status:          models.InvestmentStatusPending,
		PaymentMethod:   "BANK_TRANSFER",
		RiskLevel:       asset.RiskLevel,
		InvestmentDate:  time.Now(),
	}
	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return inv
}

// CreateTestHolding creates a holding with the given units and invested amount.
func CreateTestHolding(t *testing.T, db *gorm.DB, customerID, assetID string, units, invested decimal.Decimal) *models.Holding {
	t.Helper()

	averagePrice := decimal.Zero
	if units.IsPositive() {
		averagePrice = invested.Div(units).Round(8)
	}
	holding := &models.Holding{
		CustomerID:          customerID,
		AssetID:             assetID,
		TotalUnits:          units,
		TotalInvested:       invested,
		AveragePrice:        averagePrice,
		FirstInvestmentDate: time.Now(),
		LastInvestmentDate:  time.Now(),
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}
