package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"marketplace/internal/models"
	"marketplace/internal/testutil"
)

func position(assetType models.AssetType, riskLevel models.RiskLevel, units, invested, latestPrice string) HoldingPosition {
	return HoldingPosition{
		AssetType:     assetType,
		RiskLevel:     riskLevel,
		TotalUnits:    decimal.RequireFromString(units),
		TotalInvested: decimal.RequireFromString(invested),
		LatestPrice:   decimal.RequireFromString(latestPrice),
	}
}

func TestSummarizeHoldings(t *testing.T) {
	t.Run("aggregates totals and returns", func(t *testing.T) {
		positions := []HoldingPosition{
			position(models.AssetTypeUITF, models.RiskLevelLow, "100", "1000", "10"),
			position(models.AssetTypeStock, models.RiskLevelHigh, "200", "2000", "15"),
		}

		summary := SummarizeHoldings(positions)

		if !summary.TotalInvested.Equal(decimal.NewFromInt(3000)) {
			t.Errorf("expected 3000 invested, got %s", summary.TotalInvested)
		}
		// 100*10 + 200*15 = 4000
		if !summary.CurrentValue.Equal(decimal.NewFromInt(4000)) {
			t.Errorf("expected 4000 current value, got %s", summary.CurrentValue)
		}
		if !summary.TotalReturns.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected 1000 returns, got %s", summary.TotalReturns)
		}
		if summary.TotalReturnsPercent < 33.3 || summary.TotalReturnsPercent > 33.4 {
			t.Errorf("expected ~33.33%% returns, got %f", summary.TotalReturnsPercent)
		}
		if summary.TotalHoldings != 2 {
			t.Errorf("expected 2 holdings, got %d", summary.TotalHoldings)
		}
	})

	t.Run("allocation percentages sum to 100", func(t *testing.T) {
		positions := []HoldingPosition{
			position(models.AssetTypeUITF, models.RiskLevelLow, "100", "1000", "10"),
			position(models.AssetTypeStock, models.RiskLevelHigh, "200", "2000", "15"),
			position(models.AssetTypeBond, models.RiskLevelLow, "50", "500", "12"),
		}

		summary := SummarizeHoldings(positions)

		var allocTotal float64
		for _, slice := range summary.AssetAllocation {
			allocTotal += slice.Percentage
		}
		if allocTotal < 99.99 || allocTotal > 100.01 {
			t.Errorf("expected allocation to sum to 100, got %f", allocTotal)
		}

		var riskTotal float64
		for _, bucket := range summary.RiskDistribution {
			riskTotal += bucket.Percentage
		}
		if riskTotal < 99.99 || riskTotal > 100.01 {
			t.Errorf("expected risk distribution to sum to 100, got %f", riskTotal)
		}

		// Allocation is ordered by value, largest first
		for i := 1; i < len(summary.AssetAllocation); i++ {
			if summary.AssetAllocation[i].Value.GreaterThan(summary.AssetAllocation[i-1].Value) {
				t.Error("expected allocation sorted by value descending")
			}
		}
	})

	t.Run("identifies best and worst performers", func(t *testing.T) {
		positions := []HoldingPosition{
			position(models.AssetTypeUITF, models.RiskLevelLow, "100", "1000", "20"),  // +100%
			position(models.AssetTypeStock, models.RiskLevelHigh, "100", "1000", "5"), // -50%
			position(models.AssetTypeBond, models.RiskLevelLow, "100", "1000", "11"),  // +10%
		}

		summary := SummarizeHoldings(positions)

		if summary.BestPerformer == nil || summary.BestPerformer.AssetType != models.AssetTypeUITF {
			t.Errorf("expected UITF as best performer, got %+v", summary.BestPerformer)
		}
		if summary.WorstPerformer == nil || summary.WorstPerformer.AssetType != models.AssetTypeStock {
			t.Errorf("expected STOCK as worst performer, got %+v", summary.WorstPerformer)
		}
	})

	t.Run("empty portfolio yields zeros", func(t *testing.T) {
		summary := SummarizeHoldings(nil)

		if !summary.TotalInvested.IsZero() || !summary.CurrentValue.IsZero() {
			t.Errorf("expected zero totals, got invested=%s value=%s", summary.TotalInvested, summary.CurrentValue)
		}
		if summary.TotalReturnsPercent != 0 {
			t.Errorf("expected 0%% returns, got %f", summary.TotalReturnsPercent)
		}
		if summary.BestPerformer != nil || summary.WorstPerformer != nil {
			t.Error("expected no performers for empty portfolio")
		}
		if len(summary.Holdings) != 0 || len(summary.AssetAllocation) != 0 {
			t.Error("expected empty holdings and allocation")
		}
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		positions := []HoldingPosition{
			position(models.AssetTypeUITF, models.RiskLevelLow, "100", "1000", "10"),
			position(models.AssetTypeStock, models.RiskLevelHigh, "200", "2000", "10"),
			position(models.AssetTypeCrypto, models.RiskLevelHigh, "3", "3000", "1000"),
		}

		first := SummarizeHoldings(positions)
		second := SummarizeHoldings(positions)

		if !first.CurrentValue.Equal(second.CurrentValue) {
			t.Error("expected identical current value across runs")
		}
		for i := range first.AssetAllocation {
			if first.AssetAllocation[i].AssetType != second.AssetAllocation[i].AssetType {
				t.Error("expected identical allocation ordering across runs")
			}
		}
	})
}

func TestGetPortfolioSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPortfolioService(db)

	customer := testutil.CreateTestCustomer(t, db)
	partner := testutil.CreateTestPartner(t, db)
	fund := testutil.CreateTestAssetWithPrice(t, db, partner.ID, decimal.NewFromInt(10))
	stock := testutil.CreateTestAssetWithPrice(t, db, partner.ID, decimal.NewFromInt(15))
	db.Model(stock).Updates(map[string]interface{}{
		"asset_type": models.AssetTypeStock,
		"risk_level": models.RiskLevelHigh,
	})

	testutil.CreateTestHolding(t, db, customer.ID, fund.ID, decimal.NewFromInt(100), decimal.NewFromInt(1000))
	testutil.CreateTestHolding(t, db, customer.ID, stock.ID, decimal.NewFromInt(200), decimal.NewFromInt(2000))

	// Another customer's holding must not leak in
	other := testutil.CreateTestCustomer(t, db)
	testutil.CreateTestHolding(t, db, other.ID, fund.ID, decimal.NewFromInt(999), decimal.NewFromInt(9990))

	summary, err := svc.GetPortfolioSummary(customer.ID)
	testutil.AssertNoError(t, err)

	if summary.TotalHoldings != 2 {
		t.Fatalf("expected 2 holdings, got %d", summary.TotalHoldings)
	}
	if !summary.TotalInvested.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("expected 3000 invested, got %s", summary.TotalInvested)
	}
	if !summary.CurrentValue.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("expected 4000 current value, got %s", summary.CurrentValue)
	}
	if !summary.TotalReturns.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected 1000 returns, got %s", summary.TotalReturns)
	}
}

func TestGetHoldings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPortfolioService(db)

	customer := testutil.CreateTestCustomer(t, db)
	partner := testutil.CreateTestPartner(t, db)
	fund := testutil.CreateTestAsset(t, db, partner.ID)
	stock := testutil.CreateTestAsset(t, db, partner.ID)
	db.Model(stock).Update("asset_type", models.AssetTypeStock)

	testutil.CreateTestHolding(t, db, customer.ID, fund.ID, decimal.NewFromInt(10), decimal.NewFromInt(1000))
	testutil.CreateTestHolding(t, db, customer.ID, stock.ID, decimal.NewFromInt(20), decimal.NewFromInt(2000))

	holdings, err := svc.GetHoldings(customer.ID, nil)
	testutil.AssertNoError(t, err)
	if len(holdings) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(holdings))
	}

	uitf := models.AssetTypeUITF
	holdings, err = svc.GetHoldings(customer.ID, &uitf)
	testutil.AssertNoError(t, err)
	if len(holdings) != 1 {
		t.Fatalf("expected 1 UITF holding, got %d", len(holdings))
	}
	if holdings[0].AssetID != fund.ID {
		t.Errorf("expected fund holding, got asset %s", holdings[0].AssetID)
	}
}

func TestGetAssetHolding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPortfolioService(db)

	customer := testutil.CreateTestCustomer(t, db)
	partner := testutil.CreateTestPartner(t, db)
	asset := testutil.CreateTestAssetWithPrice(t, db, partner.ID, decimal.NewFromInt(100))

	testutil.CreateTestHolding(t, db, customer.ID, asset.ID, decimal.NewFromInt(100), decimal.NewFromInt(10000))
	testutil.CreateTestInvestment(t, db, customer.ID, asset, decimal.NewFromInt(4000))
	testutil.CreateTestInvestment(t, db, customer.ID, asset, decimal.NewFromInt(6000))

	detail, err := svc.GetAssetHolding(customer.ID, asset.ID)
	testutil.AssertNoError(t, err)

	if !detail.Holding.CurrentValue.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("expected current value 10000, got %s", detail.Holding.CurrentValue)
	}
	if len(detail.Investments) != 2 {
		t.Errorf("expected 2 investments in history, got %d", len(detail.Investments))
	}

	_, err = svc.GetAssetHolding(customer.ID, "00000000-0000-0000-0000-000000000000")
	testutil.AssertAppError(t, err, "HOLDING_NOT_FOUND")
}

func TestGetPerformance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPortfolioService(db)

	customer := testutil.CreateTestCustomer(t, db)
	partner := testutil.CreateTestPartner(t, db)
	asset := testutil.CreateTestAssetWithPrice(t, db, partner.ID, decimal.NewFromInt(100))

	testutil.CreateTestInvestment(t, db, customer.ID, asset, decimal.NewFromInt(10000))
	old := testutil.CreateTestInvestment(t, db, customer.ID, asset, decimal.NewFromInt(20000))
	db.Model(old).Update("investment_date", time.Now().AddDate(0, 0, -60))

	report, err := svc.GetPerformance(customer.ID, "30d")
	testutil.AssertNoError(t, err)
	if report.InvestmentsInPeriod != 1 {
		t.Errorf("expected 1 investment in 30d window, got %d", report.InvestmentsInPeriod)
	}
	if !report.InvestedInPeriod.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("expected 10000 invested in period, got %s", report.InvestedInPeriod)
	}

	report, err = svc.GetPerformance(customer.ID, "all")
	testutil.AssertNoError(t, err)
	if report.InvestmentsInPeriod != 2 {
		t.Errorf("expected 2 investments over all time, got %d", report.InvestmentsInPeriod)
	}
	if report.StartDate != nil {
		t.Error("expected no start date for all-time period")
	}

	_, err = svc.GetPerformance(customer.ID, "2w")
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}
