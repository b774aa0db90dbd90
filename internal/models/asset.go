package models

import (
	"github.com/shopspring/decimal"
)

// AssetType represents the category of an investable asset.
type AssetType string

const (
	AssetTypeUITF       AssetType = "UITF"
	AssetTypeStock      AssetType = "STOCK"
	AssetTypeBond       AssetType = "BOND"
	AssetTypeMutualFund AssetType = "MUTUAL_FUND"
	AssetTypeCrypto     AssetType = "CRYPTO"
	AssetTypeREIT       AssetType = "REIT"
)

// RiskLevel classifies an asset's risk for portfolio distribution reporting.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// AssetStatus represents whether an asset is open for investment.
type AssetStatus string

const (
	AssetStatusActive    AssetStatus = "ACTIVE"
	AssetStatusInactive  AssetStatus = "INACTIVE"
	AssetStatusSuspended AssetStatus = "SUSPENDED"
	AssetStatusDelisted  AssetStatus = "DELISTED"
)

// Asset represents an investable instrument offered by a partner
// on the marketplace. Price holds the latest published NAV/unit price.
type Asset struct {
	Base
	PartnerID     string          `gorm:"type:uuid;index" json:"partner_id"`
	Code          string          `gorm:"not null;uniqueIndex" json:"code"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `json:"description,omitempty"`
	AssetType     AssetType       `gorm:"not null" json:"asset_type"`
	Currency      string          `gorm:"not null;default:'PHP'" json:"currency"`
	Price         decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"price"`
	MinInvestment decimal.Decimal `gorm:"type:numeric(20,8)" json:"min_investment"`
	RiskLevel     RiskLevel       `gorm:"not null;default:'MEDIUM'" json:"risk_level"`
	Status        AssetStatus     `gorm:"not null;default:'ACTIVE'" json:"status"`

	Partner *Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
}

// Investable reports whether the asset can accept new investments.
// A zero or negative price means no valid NAV has been published yet.
func (a *Asset) Investable() bool {
	return a.Status == AssetStatusActive && a.Price.IsPositive()
}
