package models

// PartnerStatus represents whether a partner institution is live on the marketplace.
type PartnerStatus string

const (
	PartnerStatusActive    PartnerStatus = "ACTIVE"
	PartnerStatusInactive  PartnerStatus = "INACTIVE"
	PartnerStatusSuspended PartnerStatus = "SUSPENDED"
)

// Partner represents a financial institution offering assets on the marketplace.
type Partner struct {
	Base
	Name         string        `gorm:"not null" json:"name"`
	Code         string        `gorm:"not null;uniqueIndex" json:"code"`
	Description  string        `json:"description,omitempty"`
	ContactEmail string        `json:"contact_email,omitempty"`
	LogoURL      string        `json:"logo_url,omitempty"`
	Status       PartnerStatus `gorm:"not null;default:'ACTIVE'" json:"status"`

	Assets   []Asset   `gorm:"foreignKey:PartnerID" json:"assets,omitempty"`
	Products []Product `gorm:"foreignKey:PartnerID" json:"products,omitempty"`
}
