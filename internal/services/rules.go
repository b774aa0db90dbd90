package services

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"marketplace/internal/config"
)

// unitsPrecision is the number of fractional digits kept on computed units,
// matching the NUMERIC(20,8) ledger columns.
const unitsPrecision = 8

// Rules holds the business thresholds applied to investment requests.
// Values come from configuration; DefaultRules returns the reference set.
type Rules struct {
	MinimumInvestment    decimal.Decimal
	MaximumInvestment    decimal.Decimal
	DailyInvestmentLimit decimal.Decimal
	NoKYCLimit           decimal.Decimal
	TransactionFeeRate   decimal.Decimal
	MinimumFee           decimal.Decimal
}

// DefaultRules returns the reference business rules:
// 1,000 minimum, 10,000,000 maximum per transaction, 5,000,000 daily cap,
// 5,000 cap for unverified customers, 0.5% fee with a 10.00 floor.
func DefaultRules() Rules {
	return Rules{
		MinimumInvestment:    decimal.NewFromInt(1000),
		MaximumInvestment:    decimal.NewFromInt(10_000_000),
		DailyInvestmentLimit: decimal.NewFromInt(5_000_000),
		NoKYCLimit:           decimal.NewFromInt(5000),
		TransactionFeeRate:   decimal.RequireFromString("0.005"),
		MinimumFee:           decimal.NewFromInt(10),
	}
}

// RulesFromConfig builds Rules from the loaded application configuration.
func RulesFromConfig(cfg *config.Config) Rules {
	return Rules{
		MinimumInvestment:    cfg.MinimumInvestment,
		MaximumInvestment:    cfg.MaximumInvestment,
		DailyInvestmentLimit: cfg.DailyInvestmentLimit,
		NoKYCLimit:           cfg.NoKYCLimit,
		TransactionFeeRate:   cfg.TransactionFeeRate,
		MinimumFee:           cfg.MinimumFee,
	}
}

// CalculateFees returns the transaction fee for an investment amount:
// amount * fee rate, floored at the minimum fee. Defined for any input;
// non-positive amounts yield the floor fee, since the formula is a pure max.
// The request validator rejects non-positive amounts before money moves.
func (r Rules) CalculateFees(amount decimal.Decimal) decimal.Decimal {
	return decimal.Max(amount.Mul(r.TransactionFeeRate), r.MinimumFee)
}

// CalculateUnits returns the fractional units purchased for an amount at the
// given unit price, rounded to 8 decimal places. A zero or negative unit
// price yields zero units rather than an error: a zero-priced asset cannot
// produce units, and this keeps NaN/Inf out of downstream ledgers.
func CalculateUnits(amount, unitPrice decimal.Decimal) decimal.Decimal {
	if !unitPrice.IsPositive() {
		return decimal.Zero
	}
	return amount.Div(unitPrice).Round(unitsPrecision)
}

// GenerateReferenceNumber builds a human-readable transaction reference of
// the form PREFIX-YYYYMMDD-XXXXXX, where the suffix is three random bytes in
// uppercase hex. References are approximately unique; the database carries a
// unique index and callers retry on the rare collision.
func GenerateReferenceNumber(prefix string) string {
	dateStr := time.Now().UTC().Format("20060102")

	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand failing means the platform RNG is broken; fall back
		// to a timestamp-derived suffix rather than aborting the payment.
		nanos := time.Now().UnixNano()
		suffix[0] = byte(nanos >> 16)
		suffix[1] = byte(nanos >> 8)
		suffix[2] = byte(nanos)
	}

	return prefix + "-" + dateStr + "-" + strings.ToUpper(hex.EncodeToString(suffix))
}
