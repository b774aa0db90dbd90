package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/pagination"
	"marketplace/internal/validator"
)

// investmentService implements the investment transaction engine: request
// validation, order creation with its payment and ledger legs, holdings
// upkeep, and cancellation.
type investmentService struct {
	db    *gorm.DB
	rules Rules
	audit AuditServicer
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB, rules Rules, audit AuditServicer) InvestmentServicer {
	return &investmentService{db: db, rules: rules, audit: audit}
}

// ValidateInvestmentRequest checks an investment request against all business
// rules. Every rule is evaluated — nothing short-circuits — so the result
// carries the complete list of violations. Rules whose subject is missing
// (KYC tier without a customer row, availability without an asset row) are
// skipped rather than reported twice. An error return means a rule could not
// be evaluated at all, not that the request is invalid.
func (s *investmentService) ValidateInvestmentRequest(customerID, assetID string, amount decimal.Decimal, paymentMethod string) (*ValidationResult, error) {
	result := &ValidationResult{}
	fail := func(field, message string) {
		result.Errors = append(result.Errors, apperrors.FieldError{Field: field, Message: message})
	}

	if customerID == "" {
		fail("customerId", "customerId is required")
	}
	if assetID == "" {
		fail("assetId", "assetId is required")
	}

	switch {
	case !amount.IsPositive():
		fail("amount", "Investment amount must be a positive number")
	case amount.LessThan(s.rules.MinimumInvestment):
		fail("amount", fmt.Sprintf("Minimum investment amount is %s PHP", s.rules.MinimumInvestment.StringFixed(2)))
	case amount.GreaterThan(s.rules.MaximumInvestment):
		fail("amount", fmt.Sprintf("Maximum investment amount is %s PHP", s.rules.MaximumInvestment.StringFixed(2)))
	}

	if !validator.IsValidPaymentMethod(paymentMethod) {
		fail("paymentMethod", "Invalid payment method")
	}

	if customerID != "" {
		var customer models.Customer
		if err := s.db.Where("id = ?", customerID).First(&customer).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			fail("customer", "Customer not found")
		} else {
			result.Customer = &customer
			if !customer.CanTransact() {
				fail("customer", "Customer account is not active")
			}
		}
	}

	if assetID != "" {
		var asset models.Asset
		if err := s.db.Where("id = ?", assetID).First(&asset).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			fail("assetId", "Asset not found")
		} else {
			result.Asset = &asset
			if asset.Status != models.AssetStatusActive {
				fail("assetId", "Asset is not available for investment")
			} else if !asset.Price.IsPositive() {
				fail("assetId", "Asset has no published price")
			}
		}
	}

	if result.Customer != nil && result.Customer.KYCStatus != models.KYCStatusVerified &&
		amount.GreaterThan(s.rules.NoKYCLimit) {
		fail("kycStatus", fmt.Sprintf("KYC verification is required for investments above %s PHP", s.rules.NoKYCLimit.StringFixed(2)))
	}

	if result.Customer != nil {
		todaysTotal, err := s.SumTodaysInvestments(customerID)
		if err != nil {
			return nil, err
		}
		if todaysTotal.Add(amount).GreaterThan(s.rules.DailyInvestmentLimit) {
			fail("amount", fmt.Sprintf("Daily investment limit of %s PHP exceeded", s.rules.DailyInvestmentLimit.StringFixed(2)))
		}
	}

	result.Valid = len(result.Errors) == 0
	return result, nil
}

// SumTodaysInvestments returns the total amount the customer has committed
// since local midnight. Failed, cancelled, and refunded investments do not
// count against the daily limit.
func (s *investmentService) SumTodaysInvestments(customerID string) (decimal.Decimal, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var amounts []decimal.Decimal
	if err := s.db.Model(&models.Investment{}).
		Where("customer_id = ? AND investment_date >= ?", customerID, midnight).
		Where("status NOT IN ?", []models.InvestmentStatus{
			models.InvestmentStatusFailed,
			models.InvestmentStatusCancelled,
			models.InvestmentStatusRefunded,
		}).
		Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, nil
}

// CreateInvestment validates the request and atomically records the
// investment order, its payment leg, the customer ledger entry, and the
// holding upsert. The order starts PENDING; payment confirmation moves it
// forward asynchronously.
func (s *investmentService) CreateInvestment(input CreateInvestmentInput) (*models.Investment, error) {
	validation, err := s.ValidateInvestmentRequest(input.CustomerID, input.AssetID, input.Amount, input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return nil, apperrors.NewValidationError(validation.Errors)
	}

	customer := validation.Customer
	asset := validation.Asset

	unitPrice := asset.Price
	fees := s.rules.CalculateFees(input.Amount)
	totalAmount := input.Amount.Add(fees)
	units := CalculateUnits(input.Amount, unitPrice)
	now := time.Now()

	investment := &models.Investment{
		CustomerID:      input.CustomerID,
		AssetID:         input.AssetID,
		ProductID:       input.ProductID,
		ReferenceNumber: GenerateReferenceNumber("INV"),
		Amount:          input.Amount,
		Units:           units,
		UnitPrice:       unitPrice,
		Fees:            fees,
		TotalAmount:     totalAmount,
		InvestmentType:  models.InvestmentTypeOneTime,
		Status:          models.InvestmentStatusPending,
		PaymentMethod:   input.PaymentMethod,
		RiskLevel:       asset.RiskLevel,
		KYCVerified:     customer.KYCStatus == models.KYCStatusVerified,
		InvestmentDate:  now,
		Notes:           input.Notes,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Create(investment).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		payment := &models.Payment{
			CustomerID:      input.CustomerID,
			InvestmentID:    investment.ID,
			ReferenceNumber: GenerateReferenceNumber("PAY"),
			Amount:          totalAmount,
			Currency:        asset.Currency,
			PaymentMethod:   input.PaymentMethod,
			Status:          models.PaymentStatusPending,
			InitiatedAt:     now,
		}
		if txErr := tx.Create(payment).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		ledgerEntry := &models.Transaction{
			CustomerID:      input.CustomerID,
			InvestmentID:    &investment.ID,
			AssetID:         &asset.ID,
			Type:            models.TransactionTypeInvestment,
			Amount:          input.Amount,
			Units:           units,
			UnitPrice:       unitPrice,
			ReferenceNumber: GenerateReferenceNumber("TXN"),
			Status:          models.TransactionStatusPending,
			Description:     "Investment in " + asset.Name,
			TransactionDate: now,
		}
		if txErr := tx.Create(ledgerEntry).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		return upsertHolding(tx, investment, now)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Log(input.CustomerID, "INVESTMENT_CREATED", "investment", investment.ID, input.IPAddress, map[string]interface{}{
		"reference_number": investment.ReferenceNumber,
		"asset_id":         input.AssetID,
		"amount":           input.Amount.String(),
		"total_amount":     totalAmount.String(),
	})

	return s.GetInvestmentByID(input.CustomerID, investment.ID)
}

// upsertHolding adds an investment's units and amount to the customer's
// position in the asset, creating the row on first purchase. The average
// price is recomputed as total invested over total units.
func upsertHolding(tx *gorm.DB, investment *models.Investment, now time.Time) error {
	var holding models.Holding
	err := tx.Where("customer_id = ? AND asset_id = ?", investment.CustomerID, investment.AssetID).
		First(&holding).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		holding = models.Holding{
			CustomerID:          investment.CustomerID,
			AssetID:             investment.AssetID,
			TotalUnits:          investment.Units,
			TotalInvested:       investment.Amount,
			AveragePrice:        investment.UnitPrice,
			FirstInvestmentDate: now,
			LastInvestmentDate:  now,
		}
		if txErr := tx.Create(&holding).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	newUnits := holding.TotalUnits.Add(investment.Units)
	newInvested := holding.TotalInvested.Add(investment.Amount)
	averagePrice := holding.AveragePrice
	if newUnits.IsPositive() {
		averagePrice = newInvested.Div(newUnits).Round(unitsPrecision)
	}

	if txErr := tx.Model(&holding).Updates(map[string]interface{}{
		"total_units":          newUnits,
		"total_invested":       newInvested,
		"average_price":        averagePrice,
		"last_investment_date": now,
	}).Error; txErr != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
	}
	return nil
}

// GetInvestmentByID returns an investment if it belongs to the customer.
func (s *investmentService) GetInvestmentByID(customerID, investmentID string) (*models.Investment, error) {
	var investment models.Investment
	if err := s.db.Preload("Asset").Preload("Payment").
		Where("id = ? AND customer_id = ?", investmentID, customerID).
		First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &investment, nil
}

// GetCustomerInvestments returns a paginated list of the customer's
// investments, newest first.
func (s *investmentService) GetCustomerInvestments(customerID string, page pagination.PageRequest, filter InvestmentFilter) (*pagination.PageResponse[models.Investment], error) {
	page.Defaults()

	base := s.db.Model(&models.Investment{}).Where("customer_id = ?", customerID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.AssetID != nil {
		base = base.Where("asset_id = ?", *filter.AssetID)
	}
	if filter.FromDate != nil {
		base = base.Where("investment_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("investment_date <= ?", *filter.ToDate)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var investments []models.Investment
	if err := base.Preload("Asset").Order("investment_date DESC").
		Scopes(pagination.Paginate(page)).Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(investments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// CancelInvestment cancels a PENDING or PROCESSING investment: the order and
// its payment are marked cancelled, the ledger entry is reversed, and the
// units are removed from the customer's holding. A position reduced to zero
// units is deleted outright so a later purchase starts a fresh row.
func (s *investmentService) CancelInvestment(customerID, investmentID, reason, ipAddress string) (*models.Investment, error) {
	investment, err := s.GetInvestmentByID(customerID, investmentID)
	if err != nil {
		return nil, err
	}

	if !investment.Cancellable() {
		return nil, apperrors.WithMessage(apperrors.ErrNotCancellable,
			fmt.Sprintf("Investment with status %s cannot be cancelled", investment.Status))
	}

	now := time.Now()
	notes := investment.Notes
	if reason != "" {
		if notes != "" {
			notes += "; "
		}
		notes += "Cancelled: " + reason
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Model(investment).Updates(map[string]interface{}{
			"status":       models.InvestmentStatusCancelled,
			"cancelled_at": now,
			"notes":        notes,
		}).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		if txErr := tx.Model(&models.Payment{}).
			Where("investment_id = ?", investment.ID).
			Update("status", models.PaymentStatusCancelled).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		if txErr := tx.Model(&models.Transaction{}).
			Where("investment_id = ?", investment.ID).
			Update("status", models.TransactionStatusReversed).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		return reverseHolding(tx, investment)
	})
	if err != nil {
		return nil, err
	}

	investment.Status = models.InvestmentStatusCancelled
	investment.CancelledAt = &now
	investment.Notes = notes
	if investment.Payment != nil {
		investment.Payment.Status = models.PaymentStatusCancelled
	}

	s.audit.Log(customerID, "INVESTMENT_CANCELLED", "investment", investment.ID, ipAddress, map[string]interface{}{
		"reference_number": investment.ReferenceNumber,
		"reason":           reason,
	})

	return investment, nil
}

// reverseHolding subtracts a cancelled investment's units and amount from
// the customer's position. The row is hard-deleted once empty so the
// customer+asset uniqueness constraint does not block a repurchase.
func reverseHolding(tx *gorm.DB, investment *models.Investment) error {
	var holding models.Holding
	err := tx.Where("customer_id = ? AND asset_id = ?", investment.CustomerID, investment.AssetID).
		First(&holding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	newUnits := holding.TotalUnits.Sub(investment.Units)
	newInvested := holding.TotalInvested.Sub(investment.Amount)

	if !newUnits.IsPositive() {
		if txErr := tx.Unscoped().Delete(&holding).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	}

	averagePrice := newInvested.Div(newUnits).Round(unitsPrecision)
	if txErr := tx.Model(&holding).Updates(map[string]interface{}{
		"total_units":    newUnits,
		"total_invested": newInvested,
		"average_price":  averagePrice,
	}).Error; txErr != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
	}
	return nil
}
