package models

import "github.com/shopspring/decimal"

// ProductStatus represents the publication state of a marketplace product.
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "DRAFT"
	ProductStatusPending  ProductStatus = "PENDING_APPROVAL"
	ProductStatusApproved ProductStatus = "APPROVED"
	ProductStatusRejected ProductStatus = "REJECTED"
	ProductStatusArchived ProductStatus = "ARCHIVED"
)

// Product represents a packaged investment offering built around an asset,
// e.g. a partner's branded UITF subscription plan.
type Product struct {
	Base
	PartnerID     string          `gorm:"type:uuid;index" json:"partner_id"`
	AssetID       string          `gorm:"type:uuid;index" json:"asset_id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category,omitempty"`
	MinInvestment decimal.Decimal `gorm:"type:numeric(20,8)" json:"min_investment"`
	Status        ProductStatus   `gorm:"not null;default:'DRAFT'" json:"status"`

	Partner *Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	Asset   *Asset   `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}
