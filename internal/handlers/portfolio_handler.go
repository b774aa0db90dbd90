package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/services"
)

// PortfolioHandler handles portfolio aggregation requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// listHoldingsQuery holds holding list filters bound from the query string.
type listHoldingsQuery struct {
	AssetType string `form:"asset_type" binding:"omitempty,asset_type"`
}

// GetSummary handles fetching the aggregated portfolio summary.
// @Summary     Get portfolio summary
// @Description Get the authenticated customer's aggregated portfolio: totals, returns, allocation, and risk distribution
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PortfolioSummary "Portfolio summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/summary [get]
func (h *PortfolioHandler) GetSummary(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.portfolioService.GetPortfolioSummary(customerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": summary})
}

// GetHoldings handles listing the customer's holdings.
// @Summary     List holdings
// @Description Get the authenticated customer's holdings with valuation figures
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       asset_type query string false "Filter by asset type"
// @Success     200 {array} services.HoldingSummary "Holdings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/holdings [get]
func (h *PortfolioHandler) GetHoldings(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query listHoldingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var assetType *models.AssetType
	if query.AssetType != "" {
		t := models.AssetType(query.AssetType)
		assetType = &t
	}

	holdings, err := h.portfolioService.GetHoldings(customerID, assetType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holdings": holdings})
}

// GetAssetHolding handles fetching one holding with its investment history.
// @Summary     Get asset holding
// @Description Get the authenticated customer's position in one asset, with investment history
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       assetId path string true "Asset ID"
// @Success     200 {object} services.HoldingDetail "Holding detail"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/holdings/{assetId} [get]
func (h *PortfolioHandler) GetAssetHolding(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assetID, err := parsePathID(c, "assetId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	detail, err := h.portfolioService.GetAssetHolding(customerID, assetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetPerformance handles fetching the portfolio performance report.
// @Summary     Get portfolio performance
// @Description Get portfolio activity and returns over a lookback period (7d, 30d, 90d, 1y, all)
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "Lookback period (default 30d)"
// @Success     200 {object} services.PerformanceReport "Performance report"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/performance [get]
func (h *PortfolioHandler) GetPerformance(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period := c.DefaultQuery("period", "30d")

	report, err := h.portfolioService.GetPerformance(customerID, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"performance": report})
}
