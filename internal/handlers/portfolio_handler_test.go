package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/services"
)

type mockPortfolioService struct {
	SummaryFn      func(customerID string) (*services.PortfolioSummary, error)
	HoldingsFn     func(customerID string, assetType *models.AssetType) ([]services.HoldingSummary, error)
	AssetHoldingFn func(customerID, assetID string) (*services.HoldingDetail, error)
	PerformanceFn  func(customerID, period string) (*services.PerformanceReport, error)
}

var _ services.PortfolioServicer = (*mockPortfolioService)(nil)

func (m *mockPortfolioService) GetPortfolioSummary(customerID string) (*services.PortfolioSummary, error) {
	if m.SummaryFn != nil {
		return m.SummaryFn(customerID)
	}
	return &services.PortfolioSummary{LastUpdated: time.Now()}, nil
}

func (m *mockPortfolioService) GetHoldings(customerID string, assetType *models.AssetType) ([]services.HoldingSummary, error) {
	if m.HoldingsFn != nil {
		return m.HoldingsFn(customerID, assetType)
	}
	return nil, nil
}

func (m *mockPortfolioService) GetAssetHolding(customerID, assetID string) (*services.HoldingDetail, error) {
	if m.AssetHoldingFn != nil {
		return m.AssetHoldingFn(customerID, assetID)
	}
	return nil, apperrors.ErrHoldingNotFound
}

func (m *mockPortfolioService) GetPerformance(customerID, period string) (*services.PerformanceReport, error) {
	if m.PerformanceFn != nil {
		return m.PerformanceFn(customerID, period)
	}
	return &services.PerformanceReport{Period: period, EndDate: time.Now()}, nil
}

func setupPortfolioRouter(svc services.PortfolioServicer) *gin.Engine {
	r := gin.New()
	h := NewPortfolioHandler(svc)
	group := r.Group("/portfolio", injectCustomerID(testCustomerID))
	group.GET("/summary", h.GetSummary)
	group.GET("/holdings", h.GetHoldings)
	group.GET("/holdings/:assetId", h.GetAssetHolding)
	group.GET("/performance", h.GetPerformance)
	return r
}

func TestGetSummaryHandler(t *testing.T) {
	svc := &mockPortfolioService{
		SummaryFn: func(customerID string) (*services.PortfolioSummary, error) {
			if customerID != testCustomerID {
				t.Errorf("unexpected customer ID: %s", customerID)
			}
			return &services.PortfolioSummary{
				TotalInvested:       decimal.NewFromInt(3000),
				CurrentValue:        decimal.NewFromInt(4000),
				TotalReturns:        decimal.NewFromInt(1000),
				TotalReturnsPercent: 33.33,
				TotalHoldings:       2,
				LastUpdated:         time.Now(),
			}, nil
		},
	}
	r := setupPortfolioRouter(svc)

	w := doRequest(r, http.MethodGet, "/portfolio/summary", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", w.Code, w.Body.String())
	}
	body := parseJSON(t, w)
	portfolio := body["portfolio"].(map[string]interface{})
	if portfolio["total_holdings"] != float64(2) {
		t.Errorf("expected 2 holdings, got %v", portfolio["total_holdings"])
	}
	if portfolio["total_invested"] != "3000" {
		t.Errorf("expected total_invested 3000, got %v", portfolio["total_invested"])
	}
}

func TestGetHoldingsHandler(t *testing.T) {
	t.Run("forwards asset type filter", func(t *testing.T) {
		svc := &mockPortfolioService{
			HoldingsFn: func(customerID string, assetType *models.AssetType) ([]services.HoldingSummary, error) {
				if assetType == nil || *assetType != models.AssetTypeUITF {
					t.Errorf("expected UITF filter, got %v", assetType)
				}
				return []services.HoldingSummary{}, nil
			},
		}
		r := setupPortfolioRouter(svc)

		w := doRequest(r, http.MethodGet, "/portfolio/holdings?asset_type=UITF", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", w.Code, w.Body.String())
		}
	})

	t.Run("unknown asset type rejected by binding", func(t *testing.T) {
		r := setupPortfolioRouter(&mockPortfolioService{})

		w := doRequest(r, http.MethodGet, "/portfolio/holdings?asset_type=NFT", "")
		assertErrorCode(t, w, http.StatusBadRequest, "INVALID_INPUT")
	})
}

func TestGetAssetHoldingHandler(t *testing.T) {
	t.Run("returns the holding detail", func(t *testing.T) {
		svc := &mockPortfolioService{
			AssetHoldingFn: func(customerID, assetID string) (*services.HoldingDetail, error) {
				if assetID != testAssetID {
					t.Errorf("unexpected asset ID: %s", assetID)
				}
				return &services.HoldingDetail{
					Holding: services.HoldingSummary{
						CurrentValue: decimal.NewFromInt(10000),
					},
					Investments: []models.Investment{*testInvestment()},
				}, nil
			},
		}
		r := setupPortfolioRouter(svc)

		w := doRequest(r, http.MethodGet, "/portfolio/holdings/"+testAssetID, "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", w.Code, w.Body.String())
		}
		body := parseJSON(t, w)
		investments := body["investments"].([]interface{})
		if len(investments) != 1 {
			t.Errorf("expected 1 investment in history, got %d", len(investments))
		}
	})

	t.Run("no position in asset", func(t *testing.T) {
		r := setupPortfolioRouter(&mockPortfolioService{})

		w := doRequest(r, http.MethodGet, "/portfolio/holdings/"+testAssetID, "")
		assertErrorCode(t, w, http.StatusNotFound, "HOLDING_NOT_FOUND")
	})

	t.Run("malformed asset id rejected", func(t *testing.T) {
		r := setupPortfolioRouter(&mockPortfolioService{})

		w := doRequest(r, http.MethodGet, "/portfolio/holdings/not-a-uuid", "")
		assertErrorCode(t, w, http.StatusBadRequest, "INVALID_INPUT")
	})
}

func TestGetPerformanceHandler(t *testing.T) {
	t.Run("defaults to 30d", func(t *testing.T) {
		svc := &mockPortfolioService{
			PerformanceFn: func(customerID, period string) (*services.PerformanceReport, error) {
				if period != "30d" {
					t.Errorf("expected default period 30d, got %s", period)
				}
				return &services.PerformanceReport{Period: period, EndDate: time.Now()}, nil
			},
		}
		r := setupPortfolioRouter(svc)

		w := doRequest(r, http.MethodGet, "/portfolio/performance", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", w.Code, w.Body.String())
		}
		body := parseJSON(t, w)
		performance := body["performance"].(map[string]interface{})
		if performance["period"] != "30d" {
			t.Errorf("expected period 30d, got %v", performance["period"])
		}
	})

	t.Run("explicit period forwarded", func(t *testing.T) {
		svc := &mockPortfolioService{
			PerformanceFn: func(customerID, period string) (*services.PerformanceReport, error) {
				if period != "1y" {
					t.Errorf("expected period 1y, got %s", period)
				}
				return &services.PerformanceReport{Period: period, EndDate: time.Now()}, nil
			},
		}
		r := setupPortfolioRouter(svc)

		w := doRequest(r, http.MethodGet, "/portfolio/performance?period=1y", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (body: %s)", w.Code, w.Body.String())
		}
	})

	t.Run("invalid period", func(t *testing.T) {
		svc := &mockPortfolioService{
			PerformanceFn: func(customerID, period string) (*services.PerformanceReport, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
					"Invalid period. Valid periods: 7d, 30d, 90d, 1y, all")
			},
		}
		r := setupPortfolioRouter(svc)

		w := doRequest(r, http.MethodGet, "/portfolio/performance?period=2w", "")
		assertErrorCode(t, w, http.StatusBadRequest, "INVALID_INPUT")
	})
}
