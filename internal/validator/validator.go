// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validPaymentMethods is the set of payment rails accepted by the marketplace.
var validPaymentMethods = map[string]bool{
	"BANK_TRANSFER": true,
	"CREDIT_CARD":   true,
	"DEBIT_CARD":    true,
	"EWALLET":       true,
	"GCASH":         true,
	"PAYMAYA":       true,
	"BANK_ACCOUNT":  true,
}

// validCurrencies contains the ISO 4217 currency codes the platform settles in.
var validCurrencies = map[string]bool{
	"PHP": true, "USD": true, "EUR": true, "JPY": true, "SGD": true,
	"HKD": true, "GBP": true, "AUD": true, "CNY": true, "KRW": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("iso4217", validateISO4217)
		_ = v.RegisterValidation("payment_method", validatePaymentMethod)
		_ = v.RegisterValidation("asset_type", validateAssetType)
		_ = v.RegisterValidation("risk_level", validateRiskLevel)
		_ = v.RegisterValidation("investment_status", validateInvestmentStatus)
		_ = v.RegisterValidation("kyc_status", validateKYCStatus)
	}
}

// IsValidPaymentMethod reports whether method is an accepted payment rail.
// Exposed for use outside binding, e.g. the investment request validator.
func IsValidPaymentMethod(method string) bool {
	return validPaymentMethods[method]
}

func validateISO4217(fl validator.FieldLevel) bool {
	return validCurrencies[fl.Field().String()]
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	return validPaymentMethods[fl.Field().String()]
}

func validateAssetType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "UITF", "STOCK", "BOND", "MUTUAL_FUND", "CRYPTO", "REIT":
		return true
	}
	return false
}

func validateRiskLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "LOW", "MEDIUM", "HIGH":
		return true
	}
	return false
}

func validateInvestmentStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "PENDING", "PROCESSING", "COMPLETED", "FAILED", "CANCELLED", "REFUNDED":
		return true
	}
	return false
}

func validateKYCStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "NONE", "PENDING", "VERIFIED", "REJECTED":
		return true
	}
	return false
}
