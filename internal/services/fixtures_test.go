package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"marketplace/internal/testutil"
)

// Investments built by the test fixtures hand-compute their derived fields.
// Keep that arithmetic equal to the engine's, or holdings and totals asserted
// elsewhere drift silently.
func TestFixtureInvestmentMatchesEngine(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	customer := testutil.CreateTestCustomer(t, db)
	partner := testutil.CreateTestPartner(t, db)
	asset := testutil.CreateTestAssetWithPrice(t, db, partner.ID, decimal.RequireFromString("1.52"))

	inv := testutil.CreateTestInvestment(t, db, customer.ID, asset, decimal.NewFromInt(3000))

	rules := DefaultRules()
	if !inv.Fees.Equal(rules.CalculateFees(inv.Amount)) {
		t.Errorf("fixture fees %s disagree with engine fees %s", inv.Fees, rules.CalculateFees(inv.Amount))
	}
	if !inv.Units.Equal(CalculateUnits(inv.Amount, asset.Price)) {
		t.Errorf("fixture units %s disagree with engine units %s", inv.Units, CalculateUnits(inv.Amount, asset.Price))
	}
	if !inv.TotalAmount.Equal(inv.Amount.Add(inv.Fees)) {
		t.Errorf("fixture total %s disagrees with amount plus fees", inv.TotalAmount)
	}
}
