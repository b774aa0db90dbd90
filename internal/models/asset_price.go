package models

import (
	"time"

	"marketplace/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AssetPrice represents a historical NAV/price entry for an asset.
// This is immutable time-series data — no Base embed, no soft deletes.
type AssetPrice struct {
	ID         string          `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID    string          `gorm:"type:uuid;not null;index" json:"asset_id"`
	Price      decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"price"`
	RecordedAt time.Time       `gorm:"not null" json:"recorded_at"`
	Asset      *Asset          `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (p *AssetPrice) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}
