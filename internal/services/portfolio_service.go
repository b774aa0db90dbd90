package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
)

// moneyPrecision is the number of fractional digits kept on derived
// currency values (market value, returns).
const moneyPrecision = 2

// performancePeriods maps the accepted lookback period names to their
// duration in days. "all" has no cutoff.
var performancePeriods = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
	"1y":  365,
	"all": 0,
}

// portfolioService aggregates holdings into portfolio views.
type portfolioService struct {
	db *gorm.DB
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB) PortfolioServicer {
	return &portfolioService{db: db}
}

// summarizeHolding derives the valuation figures for one position.
func summarizeHolding(pos HoldingPosition) HoldingSummary {
	currentValue := pos.TotalUnits.Mul(pos.LatestPrice).Round(moneyPrecision)
	returns := currentValue.Sub(pos.TotalInvested)

	var returnsPercent float64
	if pos.TotalInvested.IsPositive() {
		returnsPercent = returns.Div(pos.TotalInvested).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	return HoldingSummary{
		HoldingPosition: pos,
		CurrentValue:    currentValue,
		Returns:         returns,
		ReturnsPercent:  returnsPercent,
	}
}

// SummarizeHoldings aggregates positions into a portfolio summary. It is a
// pure function over its input: totals, per-type allocation, risk
// distribution, and best/worst performers all derive from the given
// positions and their latest prices. Percentage figures use float64; the
// money figures themselves stay decimal.
func SummarizeHoldings(positions []HoldingPosition) *PortfolioSummary {
	summary := &PortfolioSummary{
		Holdings:         make([]HoldingSummary, 0, len(positions)),
		AssetAllocation:  []AllocationSlice{},
		RiskDistribution: make(map[models.RiskLevel]RiskBucket),
		TotalHoldings:    len(positions),
		LastUpdated:      time.Now(),
	}

	allocationByType := make(map[models.AssetType]decimal.Decimal)
	valueByRisk := make(map[models.RiskLevel]decimal.Decimal)

	for _, pos := range positions {
		h := summarizeHolding(pos)
		summary.Holdings = append(summary.Holdings, h)

		summary.TotalInvested = summary.TotalInvested.Add(h.TotalInvested)
		summary.CurrentValue = summary.CurrentValue.Add(h.CurrentValue)
		allocationByType[h.AssetType] = allocationByType[h.AssetType].Add(h.CurrentValue)
		valueByRisk[h.RiskLevel] = valueByRisk[h.RiskLevel].Add(h.CurrentValue)
	}

	summary.TotalReturns = summary.CurrentValue.Sub(summary.TotalInvested)
	if summary.TotalInvested.IsPositive() {
		summary.TotalReturnsPercent = summary.TotalReturns.
			Div(summary.TotalInvested).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	percentOf := func(value decimal.Decimal) float64 {
		if !summary.CurrentValue.IsPositive() {
			return 0
		}
		return value.Div(summary.CurrentValue).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	for assetType, value := range allocationByType {
		summary.AssetAllocation = append(summary.AssetAllocation, AllocationSlice{
			AssetType:  assetType,
			Value:      value,
			Percentage: percentOf(value),
		})
	}
	sort.Slice(summary.AssetAllocation, func(i, j int) bool {
		a, b := summary.AssetAllocation[i], summary.AssetAllocation[j]
		if cmp := a.Value.Cmp(b.Value); cmp != 0 {
			return cmp > 0
		}
		return a.AssetType < b.AssetType
	})

	for riskLevel, value := range valueByRisk {
		summary.RiskDistribution[riskLevel] = RiskBucket{
			Value:      value,
			Percentage: percentOf(value),
		}
	}

	for i := range summary.Holdings {
		h := &summary.Holdings[i]
		if !h.TotalInvested.IsPositive() {
			continue
		}
		if summary.BestPerformer == nil || h.ReturnsPercent > summary.BestPerformer.ReturnsPercent {
			summary.BestPerformer = h
		}
		if summary.WorstPerformer == nil || h.ReturnsPercent < summary.WorstPerformer.ReturnsPercent {
			summary.WorstPerformer = h
		}
	}

	return summary
}

// fetchPositions loads the customer's open positions joined with each
// asset's latest published price.
func (s *portfolioService) fetchPositions(customerID string, assetType *models.AssetType) ([]HoldingPosition, error) {
	query := s.db.Model(&models.Holding{}).
		Select(`holdings.id AS holding_id,
			holdings.asset_id,
			assets.code AS asset_code,
			assets.name AS asset_name,
			assets.asset_type,
			assets.risk_level,
			holdings.total_units,
			holdings.total_invested,
			holdings.average_price,
			assets.price AS latest_price,
			holdings.first_investment_date,
			holdings.last_investment_date`).
		Joins("INNER JOIN assets ON assets.id = holdings.asset_id").
		Where("holdings.customer_id = ?", customerID).
		Order("holdings.total_invested DESC")

	if assetType != nil {
		query = query.Where("assets.asset_type = ?", *assetType)
	}

	var positions []HoldingPosition
	if err := query.Scan(&positions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return positions, nil
}

// GetPortfolioSummary returns the customer's aggregated portfolio.
func (s *portfolioService) GetPortfolioSummary(customerID string) (*PortfolioSummary, error) {
	positions, err := s.fetchPositions(customerID, nil)
	if err != nil {
		return nil, err
	}
	return SummarizeHoldings(positions), nil
}

// GetHoldings returns the customer's positions with valuation figures,
// optionally filtered by asset type.
func (s *portfolioService) GetHoldings(customerID string, assetType *models.AssetType) ([]HoldingSummary, error) {
	positions, err := s.fetchPositions(customerID, assetType)
	if err != nil {
		return nil, err
	}

	holdings := make([]HoldingSummary, 0, len(positions))
	for _, pos := range positions {
		holdings = append(holdings, summarizeHolding(pos))
	}
	return holdings, nil
}

// GetAssetHolding returns one position with its full investment history.
func (s *portfolioService) GetAssetHolding(customerID, assetID string) (*HoldingDetail, error) {
	positions, err := s.fetchPositions(customerID, nil)
	if err != nil {
		return nil, err
	}

	var position *HoldingPosition
	for i := range positions {
		if positions[i].AssetID == assetID {
			position = &positions[i]
			break
		}
	}
	if position == nil {
		return nil, apperrors.ErrHoldingNotFound
	}

	var investments []models.Investment
	if err := s.db.Preload("Payment").
		Where("customer_id = ? AND asset_id = ?", customerID, assetID).
		Order("investment_date DESC").Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &HoldingDetail{
		Holding:     summarizeHolding(*position),
		Investments: investments,
	}, nil
}

// GetPerformance returns portfolio activity over a lookback period, plus
// the current valuation snapshot. Accepted periods: 7d, 30d, 90d, 1y, all.
func (s *portfolioService) GetPerformance(customerID, period string) (*PerformanceReport, error) {
	days, ok := performancePeriods[period]
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"Invalid period. Valid periods: 7d, 30d, 90d, 1y, all")
	}

	now := time.Now()
	var startDate *time.Time
	query := s.db.Model(&models.Investment{}).
		Where("customer_id = ?", customerID).
		Where("status NOT IN ?", []models.InvestmentStatus{
			models.InvestmentStatusFailed,
			models.InvestmentStatusCancelled,
			models.InvestmentStatusRefunded,
		})
	if days > 0 {
		start := now.AddDate(0, 0, -days)
		startDate = &start
		query = query.Where("investment_date >= ?", start)
	}

	var investments []models.Investment
	if err := query.Order("investment_date ASC").Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	investedInPeriod := decimal.Zero
	history := make([]PerformancePoint, 0, len(investments))
	for _, inv := range investments {
		investedInPeriod = investedInPeriod.Add(inv.Amount)
		history = append(history, PerformancePoint{
			Date:   inv.InvestmentDate,
			Amount: inv.Amount,
			Status: inv.Status,
		})
	}

	summary, err := s.GetPortfolioSummary(customerID)
	if err != nil {
		return nil, err
	}

	return &PerformanceReport{
		Period:              period,
		StartDate:           startDate,
		EndDate:             now,
		TotalInvested:       summary.TotalInvested,
		CurrentValue:        summary.CurrentValue,
		TotalReturns:        summary.TotalReturns,
		TotalReturnsPercent: summary.TotalReturnsPercent,
		InvestmentsInPeriod: len(investments),
		InvestedInPeriod:    investedInPeriod,
		BestPerformer:       summary.BestPerformer,
		WorstPerformer:      summary.WorstPerformer,
		History:             history,
	}, nil
}
