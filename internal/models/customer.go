package models

import "time"

// CustomerStatus represents the lifecycle state of a customer account.
type CustomerStatus string

const (
	CustomerStatusActive    CustomerStatus = "ACTIVE"
	CustomerStatusInactive  CustomerStatus = "INACTIVE"
	CustomerStatusSuspended CustomerStatus = "SUSPENDED"
	CustomerStatusClosed    CustomerStatus = "CLOSED"
)

// KYCStatus represents the identity verification tier of a customer.
// Unverified customers are subject to lower transaction limits.
type KYCStatus string

const (
	KYCStatusNone     KYCStatus = "NONE"
	KYCStatusPending  KYCStatus = "PENDING"
	KYCStatusVerified KYCStatus = "VERIFIED"
	KYCStatusRejected KYCStatus = "REJECTED"
)

// Customer represents a client of the investment marketplace.
type Customer struct {
	Base
	Email               string         `gorm:"uniqueIndex;not null" json:"email"`
	Password            string         `gorm:"not null" json:"-"`
	FirstName           string         `json:"first_name"`
	LastName            string         `json:"last_name"`
	PhoneNumber         string         `json:"phone_number,omitempty"`
	Status              CustomerStatus `gorm:"not null;default:'ACTIVE'" json:"status"`
	KYCStatus           KYCStatus      `gorm:"not null;default:'PENDING'" json:"kyc_status"`
	KYCVerifiedAt       *time.Time     `json:"kyc_verified_at,omitempty"`
	RefreshTokenHash    string         `gorm:"size:64" json:"-"`
	FailedLoginAttempts int            `gorm:"default:0" json:"-"`
	LastLoginAt         *time.Time     `json:"last_login_at,omitempty"`

	Investments []Investment `gorm:"foreignKey:CustomerID" json:"investments,omitempty"`
	Holdings    []Holding    `gorm:"foreignKey:CustomerID" json:"holdings,omitempty"`
}

// CanTransact reports whether the customer may initiate new investments.
func (c *Customer) CanTransact() bool {
	return c.Status == CustomerStatusActive
}
