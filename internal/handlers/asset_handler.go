package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/pagination"
	"marketplace/internal/services"
)

// AssetHandler handles asset catalog and price feed requests.
type AssetHandler struct {
	assetService services.AssetServicer
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService services.AssetServicer) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// CreateAssetRequest represents the request payload for listing a new asset.
type CreateAssetRequest struct {
	PartnerID     string           `json:"partner_id" binding:"required,uuid"`
	Code          string           `json:"code" binding:"required,min=2,max=20"`
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Description   string           `json:"description" binding:"max=1000"`
	AssetType     models.AssetType `json:"asset_type" binding:"required,asset_type"`
	Currency      string           `json:"currency" binding:"omitempty,iso4217"`
	Price         decimal.Decimal  `json:"price"`
	MinInvestment decimal.Decimal  `json:"min_investment"`
	RiskLevel     models.RiskLevel `json:"risk_level" binding:"omitempty,risk_level"`
}

// UpdatePriceRequest represents a price feed push from a partner.
type UpdatePriceRequest struct {
	Price      decimal.Decimal `json:"price" binding:"required"`
	RecordedAt *time.Time      `json:"recorded_at"`
}

// listAssetsQuery holds asset list filters bound from the query string.
type listAssetsQuery struct {
	pagination.PageRequest
	AssetType string `form:"asset_type" binding:"omitempty,asset_type"`
	RiskLevel string `form:"risk_level" binding:"omitempty,risk_level"`
	PartnerID string `form:"partner_id" binding:"omitempty,uuid"`
}

// CreateAsset handles listing a new asset.
// @Summary     Create asset
// @Description List a new investable asset under a partner
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAssetRequest true "Asset details"
// @Success     201 {object} models.Asset "Asset created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Partner not found"
// @Failure     409 {object} ErrorResponse "Duplicate code"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	asset, err := h.assetService.CreateAsset(
		req.PartnerID, req.Code, req.Name, req.Description,
		req.AssetType, req.Currency, req.Price, req.MinInvestment, req.RiskLevel,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// GetAssets handles listing assets.
// @Summary     List assets
// @Description Get a paginated list of assets, optionally filtered by type, risk level, and partner
// @Tags        assets
// @Accept      json
// @Produce     json
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Param       asset_type query string false "Filter by asset type"
// @Param       risk_level query string false "Filter by risk level"
// @Param       partner_id query string false "Filter by partner"
// @Success     200 {object} pagination.PageResponse[models.Asset] "Paginated assets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets [get]
func (h *AssetHandler) GetAssets(c *gin.Context) {
	var query listAssetsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.AssetFilter
	if query.AssetType != "" {
		t := models.AssetType(query.AssetType)
		filter.AssetType = &t
	}
	if query.RiskLevel != "" {
		r := models.RiskLevel(query.RiskLevel)
		filter.RiskLevel = &r
	}
	if query.PartnerID != "" {
		filter.PartnerID = &query.PartnerID
	}
	// Public listing only surfaces assets open for investment
	active := models.AssetStatusActive
	filter.Status = &active

	result, err := h.assetService.ListAssets(query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAsset handles fetching a single asset.
// @Summary     Get asset
// @Description Get an asset by ID
// @Tags        assets
// @Accept      json
// @Produce     json
// @Param       id path string true "Asset ID"
// @Success     200 {object} models.Asset "Asset"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.assetService.GetAssetByID(assetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// UpdatePrice handles a NAV/price push from a partner price feed.
// @Summary     Update asset price
// @Description Publish a new NAV/unit price for an asset (partner price feed)
// @Tags        assets
// @Accept      json
// @Produce     json
// @Param       X-API-Key header string             true "Price feed API key"
// @Param       id        path   string             true "Asset ID"
// @Param       request   body   UpdatePriceRequest true "New price"
// @Success     200 {object} models.Asset "Asset with updated price"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id}/price [put]
func (h *AssetHandler) UpdatePrice(c *gin.Context) {
	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	recordedAt := time.Now()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	asset, err := h.assetService.UpdatePrice(assetID, req.Price, recordedAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// GetPriceHistory handles fetching an asset's price history.
// @Summary     Get price history
// @Description Get a paginated price history for an asset, newest first
// @Tags        assets
// @Accept      json
// @Produce     json
// @Param       id        path  string true  "Asset ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.AssetPrice] "Paginated price history"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /assets/{id}/prices [get]
func (h *AssetHandler) GetPriceHistory(c *gin.Context) {
	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.assetService.GetPriceHistory(assetID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
