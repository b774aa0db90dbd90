package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding represents a customer's cumulative position in one asset:
// total units owned and total amount contributed across all settled
// investments. One row per customer+asset pair.
type Holding struct {
	Base
	CustomerID          string          `gorm:"type:uuid;not null;uniqueIndex:uq_holdings_customer_asset" json:"customer_id"`
	AssetID             string          `gorm:"type:uuid;not null;uniqueIndex:uq_holdings_customer_asset" json:"asset_id"`
	TotalUnits          decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"total_units"`
	TotalInvested       decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"total_invested"`
	AveragePrice        decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"average_price"`
	FirstInvestmentDate time.Time       `json:"first_investment_date"`
	LastInvestmentDate  time.Time       `json:"last_investment_date"`

	Asset *Asset `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}
