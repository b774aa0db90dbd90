package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvestmentStatus represents the settlement lifecycle of an investment.
type InvestmentStatus string

const (
	InvestmentStatusPending    InvestmentStatus = "PENDING"
	InvestmentStatusProcessing InvestmentStatus = "PROCESSING"
	InvestmentStatusCompleted  InvestmentStatus = "COMPLETED"
	InvestmentStatusFailed     InvestmentStatus = "FAILED"
	InvestmentStatusCancelled  InvestmentStatus = "CANCELLED"
	InvestmentStatusRefunded   InvestmentStatus = "REFUNDED"
)

// InvestmentType distinguishes one-off purchases from recurring plans.
type InvestmentType string

const (
	InvestmentTypeOneTime   InvestmentType = "ONE_TIME"
	InvestmentTypeRecurring InvestmentType = "RECURRING"
)

// Investment represents a single purchase of units in an asset.
// Amount excludes fees; TotalAmount = Amount + Fees is what the
// customer actually pays.
type Investment struct {
	Base
	CustomerID      string           `gorm:"type:uuid;not null;index" json:"customer_id"`
	AssetID         string           `gorm:"type:uuid;not null;index" json:"asset_id"`
	ProductID       *string          `gorm:"type:uuid" json:"product_id,omitempty"`
	ReferenceNumber string           `gorm:"not null;uniqueIndex" json:"reference_number"`
	Amount          decimal.Decimal  `gorm:"type:numeric(20,8);not null" json:"amount"`
	Units           decimal.Decimal  `gorm:"type:numeric(20,8);not null" json:"units"`
	UnitPrice       decimal.Decimal  `gorm:"type:numeric(20,8);not null" json:"unit_price"`
	Fees            decimal.Decimal  `gorm:"type:numeric(20,8);not null" json:"fees"`
	TotalAmount     decimal.Decimal  `gorm:"type:numeric(20,8);not null" json:"total_amount"`
	InvestmentType  InvestmentType   `gorm:"not null;default:'ONE_TIME'" json:"investment_type"`
	Status          InvestmentStatus `gorm:"not null;default:'PENDING';index" json:"status"`
	PaymentMethod   string           `gorm:"not null" json:"payment_method"`
	RiskLevel       RiskLevel        `json:"risk_level"`
	KYCVerified     bool             `json:"kyc_verified"`
	InvestmentDate  time.Time        `gorm:"not null;index" json:"investment_date"`
	SettledAt       *time.Time       `json:"settled_at,omitempty"`
	CancelledAt     *time.Time       `json:"cancelled_at,omitempty"`
	Notes           string           `json:"notes,omitempty"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Asset    *Asset    `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	Product  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Payment  *Payment  `gorm:"foreignKey:InvestmentID" json:"payment,omitempty"`
}

// Cancellable reports whether the investment may still be cancelled.
// Settled money movements require a refund flow instead.
func (i *Investment) Cancellable() bool {
	return i.Status == InvestmentStatusPending || i.Status == InvestmentStatusProcessing
}

// PaymentStatus represents the state of a payment attempt.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusAuthorized PaymentStatus = "AUTHORIZED"
	PaymentStatusCaptured   PaymentStatus = "CAPTURED"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
	PaymentStatusCancelled  PaymentStatus = "CANCELLED"
)

// Payment represents the funding leg of an investment.
type Payment struct {
	Base
	CustomerID      string          `gorm:"type:uuid;not null;index" json:"customer_id"`
	InvestmentID    string          `gorm:"type:uuid;not null;index" json:"investment_id"`
	ReferenceNumber string          `gorm:"not null;uniqueIndex" json:"reference_number"`
	Amount          decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"amount"`
	Currency        string          `gorm:"not null;default:'PHP'" json:"currency"`
	PaymentMethod   string          `gorm:"not null" json:"payment_method"`
	Status          PaymentStatus   `gorm:"not null;default:'PENDING'" json:"status"`
	InitiatedAt     time.Time       `gorm:"not null" json:"initiated_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
}

// TransactionType represents the kind of ledger entry.
type TransactionType string

const (
	TransactionTypeInvestment TransactionType = "INVESTMENT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeDividend   TransactionType = "DIVIDEND"
	TransactionTypeFee        TransactionType = "FEE"
	TransactionTypeRefund     TransactionType = "REFUND"
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

// TransactionStatus represents the state of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusReversed  TransactionStatus = "REVERSED"
)

// Transaction is the customer-facing ledger entry for a money movement.
type Transaction struct {
	Base
	CustomerID      string            `gorm:"type:uuid;not null;index" json:"customer_id"`
	InvestmentID    *string           `gorm:"type:uuid;index" json:"investment_id,omitempty"`
	AssetID         *string           `gorm:"type:uuid" json:"asset_id,omitempty"`
	Type            TransactionType   `gorm:"not null" json:"type"`
	Amount          decimal.Decimal   `gorm:"type:numeric(20,8);not null" json:"amount"`
	Units           decimal.Decimal   `gorm:"type:numeric(20,8)" json:"units"`
	UnitPrice       decimal.Decimal   `gorm:"type:numeric(20,8)" json:"unit_price"`
	ReferenceNumber string            `gorm:"not null;uniqueIndex" json:"reference_number"`
	Status          TransactionStatus `gorm:"not null;default:'PENDING'" json:"status"`
	Description     string            `json:"description,omitempty"`
	TransactionDate time.Time         `gorm:"not null" json:"transaction_date"`
}
